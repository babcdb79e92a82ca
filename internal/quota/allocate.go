package quota

import (
	"fmt"

	"github.com/intelliexam/exam-api/internal/domain"
)

// Allocate splits quota across n buckets as evenly as possible.
//
// Bucket i receives quota/n+1 when i < quota%n and quota/n otherwise, so the
// result always sums to quota and no two buckets differ by more than one.
// A zero quota yields n zeros for any n (an empty slice when n <= 0). A
// positive quota over zero buckets and a negative quota are rejected with
// domain.ErrInvalidArgument.
func Allocate(quota, n int) ([]int, error) {
	if quota < 0 {
		return nil, fmt.Errorf("%w: quota cannot be negative (%d)", domain.ErrInvalidArgument, quota)
	}
	if n <= 0 {
		if quota > 0 {
			return nil, fmt.Errorf("%w: cannot distribute %d questions over %d units",
				domain.ErrInvalidArgument, quota, n)
		}
		return []int{}, nil
	}

	base, remainder := quota/n, quota%n
	buckets := make([]int, n)
	for i := range buckets {
		buckets[i] = base
		if i < remainder {
			buckets[i]++
		}
	}
	return buckets, nil
}

// Active returns the indexes of buckets with a positive allocation, in order.
// Units whose bucket is zero are never prompted.
func Active(buckets []int) []int {
	idx := make([]int, 0, len(buckets))
	for i, b := range buckets {
		if b > 0 {
			idx = append(idx, i)
		}
	}
	return idx
}
