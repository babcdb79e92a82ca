package export

import (
	"fmt"
	"io"

	"github.com/intelliexam/exam-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the MIME type of the spreadsheet output.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Columns are the spreadsheet headers, in order.
var Columns = []string{"Question", "Choice A", "Choice B", "Choice C", "Choice D", "Answer", "Explanation"}

const sheetName = "Sheet1"

// Exporter writes records to w.
type Exporter interface {
	Export(w io.Writer, set domain.ResultSet) error
}

// XLSXExporter writes records as an Excel workbook with a header row.
// Open-ended records leave the choice cells empty.
type XLSXExporter struct{}

// NewXLSXExporter creates a spreadsheet exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Export writes the workbook to w.
func (e *XLSXExporter) Export(w io.Writer, set domain.ResultSet) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", cerr)
		}
	}()

	for col, header := range Columns {
		if err := setCell(f, col+1, 1, header); err != nil {
			return err
		}
	}

	for i, rec := range set.Records {
		row := i + 2
		values := []*string{&rec.Question, rec.ChoiceA, rec.ChoiceB, rec.ChoiceC, rec.ChoiceD, &rec.Answer, &rec.Explanation}
		for col, v := range values {
			if v == nil {
				continue
			}
			if err := setCell(f, col+1, row, *v); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		return fmt.Errorf("set cell %s: %w", cell, err)
	}
	return nil
}
