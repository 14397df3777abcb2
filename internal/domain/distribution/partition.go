package distribution

import "fmt"

// Partition is one worker's share of the samples. Only the last partition
// reports progress.
type Partition struct {
	Index   int
	Count   int
	Display bool
}

// Partitions splits total samples into parts equal shares; the last share
// also takes the remainder.
func Partitions(total, parts int) ([]Partition, error) {
	if total < 1 || parts < 1 {
		return nil, fmt.Errorf("%w: %d samples over %d partitions", ErrInvalidSampleCount, total, parts)
	}
	base := total / parts
	out := make([]Partition, parts)
	for i := range out {
		out[i] = Partition{Index: i, Count: base}
	}
	out[parts-1].Count += total % parts
	out[parts-1].Display = true
	return out, nil
}
