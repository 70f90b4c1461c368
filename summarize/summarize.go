// Package summarize aggregates replicate-level expression values into
// condition-level summary statistics for plotting and export.
package summarize

import (
	"github.com/gonum/stat"
	"gopkg.in/guregu/null.v3"

	"github.com/openqpcr/qpcrnorm/normalize"
)

// Summary is one (condition, target gene) aggregate over its contributing
// biological replicates. Values keeps the individual replicate expressions
// so an interactive view can overlay the raw points on the summary bar.
type Summary struct {
	Condition  string
	TargetGene string
	Mean       float64
	SD         null.Float // sample standard deviation; undefined (not zero) with a single replicate
	N          int
	Values     []float64
}

type groupKey struct {
	gene      string
	condition string
}

// Aggregate groups normalized records by (target gene, condition) and
// computes mean and sample standard deviation over their expression values.
// Groups that no record contributed to simply do not appear; nothing is
// emitted as a zero or NaN row.
//
// Output order is stable for plotting legends: target genes in first-seen
// record order, conditions in first-seen record order within each gene.
func Aggregate(records []normalize.Record) []Summary {
	groups := make(map[groupKey][]float64)
	var geneOrder []string
	var conditionOrder []string
	seenGene := make(map[string]struct{})
	seenCondition := make(map[string]struct{})

	for _, r := range records {
		key := groupKey{gene: r.TargetGene, condition: r.Condition}
		groups[key] = append(groups[key], r.Expression)

		if _, ok := seenGene[r.TargetGene]; !ok {
			seenGene[r.TargetGene] = struct{}{}
			geneOrder = append(geneOrder, r.TargetGene)
		}
		if _, ok := seenCondition[r.Condition]; !ok {
			seenCondition[r.Condition] = struct{}{}
			conditionOrder = append(conditionOrder, r.Condition)
		}
	}

	out := make([]Summary, 0, len(groups))
	for _, gene := range geneOrder {
		for _, condition := range conditionOrder {
			values, ok := groups[groupKey{gene: gene, condition: condition}]
			if !ok {
				continue
			}

			mean, sd := stat.MeanStdDev(values, nil)

			s := Summary{
				Condition:  condition,
				TargetGene: gene,
				Mean:       mean,
				N:          len(values),
				Values:     append([]float64(nil), values...),
			}
			// One replicate has a defined mean but no defined spread.
			if len(values) > 1 {
				s.SD = null.FloatFrom(sd)
			}

			out = append(out, s)
		}
	}

	return out
}
