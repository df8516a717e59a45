package id3

import (
	"fmt"

	"github.com/arborml/id3/table"
)

/*
Partition represents a candidate split of a table by the values of one of
its columns, with the information gain the split yields for the result
column.
*/
type Partition struct {
	Column          table.Vector
	table           *table.Table
	informationGain float64
}

// InformationGain returns the information gain of the partition.
func (p *Partition) InformationGain() float64 {
	return p.informationGain
}

/*
Split returns the distinct values of the partition column in discovery
order and, for each of them, a new table with the rows holding that value
and without the partition column.
*/
func (p *Partition) Split() ([]any, []*table.Table, error) {
	values := p.Column.Distinct()
	subtables := make([]*table.Table, 0, len(values))
	label := p.Column.Label()
	for _, v := range values {
		st, err := p.table.SubTableWhere(p.Column, func(x any) bool { return x == v })
		if err != nil {
			return nil, nil, fmt.Errorf("splitting on %q: %w", label, err)
		}
		subtables = append(subtables, st.Without(label))
	}
	return values, subtables, nil
}

/*
Rank takes a table, the result column in it and the values of the result
column that count as a success, and returns the entropy of the result column
together with one Partition for every other column of the table, in table
order.
*/
func Rank[R comparable](t *table.Table, result *table.Column[R], success ...R) (float64, []*Partition, error) {
	systemEntropy := Entropy(result, success...)
	columns := t.Columns()
	partitions := make([]*Partition, 0, len(columns))
	for _, c := range columns {
		if c.Label() == result.Label() {
			continue
		}
		g, err := Gain(systemEntropy, c, result, success...)
		if err != nil {
			return 0, nil, err
		}
		partitions = append(partitions, &Partition{Column: c, table: t, informationGain: g})
	}
	return systemEntropy, partitions, nil
}

/*
Best returns the partition with the highest information gain. On ties the
first one wins. It returns nil if there are no partitions.
*/
func Best(partitions []*Partition) *Partition {
	var best *Partition
	for _, p := range partitions {
		if best == nil || p.informationGain > best.informationGain {
			best = p
		}
	}
	return best
}
