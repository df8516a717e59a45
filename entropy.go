package id3

import (
	"fmt"
	"math"

	"github.com/arborml/id3/table"
)

/*
Entropy takes a column and the set of values that count as a success and
returns the binary Shannon entropy, in bits, of the split of its rows into
successes and failures. It is 0 for an empty column or one where every row
is a success or every row is a failure, and 1 when exactly half the rows
are successes.
*/
func Entropy[T comparable](c *table.Column[T], success ...T) float64 {
	n := c.Len()
	if n == 0 {
		return 0
	}
	var x int
	for _, k := range c.Count(success...) {
		x += k
	}
	px := float64(x) / float64(n)
	pk := 1 - px
	return (-plogp(px) - plogp(pk)) / math.Ln2
}

func plogp(p float64) float64 {
	if p <= 0 {
		return 0
	}
	return p * math.Log(p)
}

/*
Gain returns the information gain of splitting the rows of the result
column by the values of the attribute column, given the entropy of the
whole result column. For every distinct value of the attribute, the
entropy of the result rows holding it is subtracted, weighted by the share
of rows holding it. Both columns must have the same length, otherwise an
error wrapping table.ErrRowCountMismatch is returned.
*/
func Gain[R comparable](systemEntropy float64, attr table.Vector, result *table.Column[R], success ...R) (float64, error) {
	n := result.Len()
	if attr.Len() != n {
		return 0, fmt.Errorf("gain of %q (%d rows) over %q (%d rows): %w", attr.Label(), attr.Len(), result.Label(), n, table.ErrRowCountMismatch)
	}
	gain := systemEntropy
	if n == 0 {
		return gain, nil
	}
	for _, v := range attr.Distinct() {
		indices := attr.IndicesWhere(func(x any) bool { return x == v })
		weight := float64(len(indices)) / float64(n)
		gain -= weight * Entropy(result.SubColumn(indices), success...)
	}
	return gain, nil
}
