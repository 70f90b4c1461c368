package welltable

import (
	"github.com/montanaflynn/stats"
	"gopkg.in/guregu/null.v3"
)

// GeneQC summarizes the raw Ct distribution for one target gene across the
// whole run, including the wells the instrument could not call. It backs the
// quality-control view; undetermined wells are counted here even though they
// never enter any numeric statistic.
type GeneQC struct {
	Gene         string
	Wells        int
	Undetermined int
	MeanCt       null.Float
	MedianCt     null.Float
	MinCt        null.Float
	MaxCt        null.Float
	SDCt         null.Float // sample SD; undefined with fewer than two determined wells
}

// QC computes per-gene raw-Ct statistics over all wells of the run, in
// first-seen gene order.
func (t *Table) QC() []GeneQC {
	perGene := make(map[string][]float64)
	undetermined := make(map[string]int)
	counts := make(map[string]int)

	for _, w := range t.wells {
		counts[w.TargetGene]++
		if !w.Ct.Valid {
			undetermined[w.TargetGene]++
			continue
		}
		perGene[w.TargetGene] = append(perGene[w.TargetGene], w.Ct.Float64)
	}

	out := make([]GeneQC, 0, len(t.genes))
	for _, gene := range t.genes {
		qc := GeneQC{
			Gene:         gene,
			Wells:        counts[gene],
			Undetermined: undetermined[gene],
		}

		cts := perGene[gene]
		if len(cts) > 0 {
			qc.MeanCt = statOrNull(stats.Mean(cts))
			qc.MedianCt = statOrNull(stats.Median(cts))
			qc.MinCt = statOrNull(stats.Min(cts))
			qc.MaxCt = statOrNull(stats.Max(cts))
		}
		if len(cts) > 1 {
			qc.SDCt = statOrNull(stats.StandardDeviationSample(cts))
		}

		out = append(out, qc)
	}

	return out
}

func statOrNull(v float64, err error) null.Float {
	if err != nil {
		return null.Float{}
	}
	return null.FloatFrom(v)
}
