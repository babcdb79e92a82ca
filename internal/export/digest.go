package export

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
	"github.com/intelliexam/exam-api/internal/domain"
)

// Digest returns the hex SHA-256 of the RFC 8785 canonical JSON encoding of
// the result set. Equal record sequences always yield equal digests.
func Digest(set domain.ResultSet) (string, error) {
	records := set.Records
	if records == nil {
		records = []domain.QuestionRecord{}
	}
	raw, err := json.Marshal(domain.ResultSet{Records: records})
	if err != nil {
		return "", fmt.Errorf("marshal records: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalize records: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
