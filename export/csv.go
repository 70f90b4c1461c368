// Package export defines the tabular shapes handed to downstream rendering
// and serialization: the replicate-level normalized table, the
// condition-level summary table, the exclusion report, the QC table, and a
// plot-ready per-gene series. The column names in the struct tags are the
// contract; any consumer of the CSV output may rely on them verbatim.
package export

import (
	"io"

	"github.com/gocarina/gocsv"
	"gopkg.in/guregu/null.v3"

	"github.com/openqpcr/qpcrnorm/normalize"
	"github.com/openqpcr/qpcrnorm/summarize"
	"github.com/openqpcr/qpcrnorm/welltable"
)

// NormalizedRow is one row of the normalized table: one relative-expression
// value per (condition, replicate, target gene).
type NormalizedRow struct {
	Condition  string  `csv:"condition"`
	Replicate  int     `csv:"replicate_index"`
	TargetGene string  `csv:"target_gene"`
	Expression float64 `csv:"expression"`
}

// SummaryRow is one row of the summary table. Spread is the sample standard
// deviation and marshals to an empty field when the group has a single
// replicate, distinguishing "one replicate" from "zero variance".
type SummaryRow struct {
	Condition  string     `csv:"condition"`
	TargetGene string     `csv:"target_gene"`
	Mean       float64    `csv:"mean_expression"`
	Spread     null.Float `csv:"spread"`
	N          int        `csv:"n_replicates"`
}

// ExclusionRow is one row of the exclusion report. Condition and replicate
// are empty when the sample label itself was malformed.
type ExclusionRow struct {
	Condition   string   `csv:"condition"`
	Replicate   null.Int `csv:"replicate_index"`
	TargetGene  string   `csv:"target_gene"`
	SampleLabel string   `csv:"sample_label"`
	Reason      string   `csv:"reason"`
}

// QCRow is one row of the per-gene raw-Ct quality-control table.
type QCRow struct {
	TargetGene   string     `csv:"target_gene"`
	Wells        int        `csv:"n_wells"`
	Undetermined int        `csv:"n_undetermined"`
	MeanCt       null.Float `csv:"mean_ct"`
	MedianCt     null.Float `csv:"median_ct"`
	MinCt        null.Float `csv:"min_ct"`
	MaxCt        null.Float `csv:"max_ct"`
	SDCt         null.Float `csv:"sd_ct"`
}

// NormalizedRows converts engine records to their export shape.
func NormalizedRows(records []normalize.Record) []*NormalizedRow {
	out := make([]*NormalizedRow, 0, len(records))
	for _, r := range records {
		out = append(out, &NormalizedRow{
			Condition:  r.Condition,
			Replicate:  r.Replicate,
			TargetGene: r.TargetGene,
			Expression: r.Expression,
		})
	}
	return out
}

// SummaryRows converts aggregates to their export shape.
func SummaryRows(summaries []summarize.Summary) []*SummaryRow {
	out := make([]*SummaryRow, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, &SummaryRow{
			Condition:  s.Condition,
			TargetGene: s.TargetGene,
			Mean:       s.Mean,
			Spread:     s.SD,
			N:          s.N,
		})
	}
	return out
}

// ExclusionRows converts exclusions to their export shape.
func ExclusionRows(exclusions []normalize.Exclusion) []*ExclusionRow {
	out := make([]*ExclusionRow, 0, len(exclusions))
	for _, e := range exclusions {
		out = append(out, &ExclusionRow{
			Condition:   e.Condition,
			Replicate:   e.Replicate,
			TargetGene:  e.TargetGene,
			SampleLabel: e.SampleLabel,
			Reason:      string(e.Reason),
		})
	}
	return out
}

// QCRows converts per-gene QC stats to their export shape.
func QCRows(qc []welltable.GeneQC) []*QCRow {
	out := make([]*QCRow, 0, len(qc))
	for _, g := range qc {
		out = append(out, &QCRow{
			TargetGene:   g.Gene,
			Wells:        g.Wells,
			Undetermined: g.Undetermined,
			MeanCt:       g.MeanCt,
			MedianCt:     g.MedianCt,
			MinCt:        g.MinCt,
			MaxCt:        g.MaxCt,
			SDCt:         g.SDCt,
		})
	}
	return out
}

// WriteNormalizedCSV writes the normalized table, header included.
func WriteNormalizedCSV(w io.Writer, records []normalize.Record) error {
	return gocsv.Marshal(NormalizedRows(records), w)
}

// WriteSummaryCSV writes the summary table, header included.
func WriteSummaryCSV(w io.Writer, summaries []summarize.Summary) error {
	return gocsv.Marshal(SummaryRows(summaries), w)
}

// WriteExclusionsCSV writes the exclusion report, header included.
func WriteExclusionsCSV(w io.Writer, exclusions []normalize.Exclusion) error {
	return gocsv.Marshal(ExclusionRows(exclusions), w)
}

// WriteQCCSV writes the per-gene QC table, header included.
func WriteQCCSV(w io.Writer, qc []welltable.GeneQC) error {
	return gocsv.Marshal(QCRows(qc), w)
}
