// Package welltable models one qPCR run as an immutable table of per-well
// readings. A well that never crossed the amplification threshold carries an
// undetermined Ct, represented as an invalid null.Float; undetermined values
// are excluded from every mean and propagate as missing data, never as zero.
package welltable

import (
	"strings"

	"gopkg.in/guregu/null.v3"
)

// Well is one PCR well reading.
type Well struct {
	WellID      string
	TargetGene  string
	SampleLabel string
	Ct          null.Float // invalid means the instrument reported the well undetermined
}

type pairKey struct {
	gene  string
	label string
}

// Table holds the full set of wells for one run. It is built once per upload
// and never mutated afterwards, so every derived computation is a pure
// function of the table.
type Table struct {
	wells  []Well
	byPair map[pairKey][]Well
	genes  []string
	labels []string
}

// New builds a Table from the given wells. Target gene names are
// case-normalized (upper-cased, trimmed) so that "Actb" and "ACTB" refer to
// the same assay; sample labels are kept verbatim. Input order is preserved
// and defines first-seen order for genes and sample labels.
func New(wells []Well) *Table {
	t := &Table{
		wells:  make([]Well, 0, len(wells)),
		byPair: make(map[pairKey][]Well),
	}

	seenGene := make(map[string]struct{})
	seenLabel := make(map[string]struct{})

	for _, w := range wells {
		w.TargetGene = NormalizeGene(w.TargetGene)
		t.wells = append(t.wells, w)

		key := pairKey{gene: w.TargetGene, label: w.SampleLabel}
		t.byPair[key] = append(t.byPair[key], w)

		if _, ok := seenGene[w.TargetGene]; !ok {
			seenGene[w.TargetGene] = struct{}{}
			t.genes = append(t.genes, w.TargetGene)
		}
		if _, ok := seenLabel[w.SampleLabel]; !ok {
			seenLabel[w.SampleLabel] = struct{}{}
			t.labels = append(t.labels, w.SampleLabel)
		}
	}

	return t
}

// NormalizeGene is the case normalization applied to every target gene name
// entering the table.
func NormalizeGene(gene string) string {
	return strings.ToUpper(strings.TrimSpace(gene))
}

// Wells returns all wells in input order.
func (t *Table) Wells() []Well {
	out := make([]Well, len(t.wells))
	copy(out, t.wells)
	return out
}

// Genes returns the distinct target genes in first-seen order.
func (t *Table) Genes() []string {
	out := make([]string, len(t.genes))
	copy(out, t.genes)
	return out
}

// SampleLabels returns the distinct raw sample labels in first-seen order.
func (t *Table) SampleLabels() []string {
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

// HasGene reports whether the run assayed the given gene.
func (t *Table) HasGene(gene string) bool {
	want := NormalizeGene(gene)
	for _, g := range t.genes {
		if g == want {
			return true
		}
	}
	return false
}

// WellsFor returns the wells sharing the given target gene and sample label.
// Multiple wells here are technical replicates of the same reaction.
func (t *Table) WellsFor(gene, label string) []Well {
	ws := t.byPair[pairKey{gene: NormalizeGene(gene), label: label}]
	out := make([]Well, len(ws))
	copy(out, ws)
	return out
}

// CtFor collapses the technical replicates for a (gene, sample) pair into a
// single Ct by averaging in Ct space. Undetermined wells are excluded from
// the mean; if every well for the pair is undetermined (or the pair has no
// wells at all) the result is itself undetermined.
func (t *Table) CtFor(gene, label string) null.Float {
	var sum float64
	var n int

	for _, w := range t.byPair[pairKey{gene: NormalizeGene(gene), label: label}] {
		if !w.Ct.Valid {
			continue
		}
		sum += w.Ct.Float64
		n++
	}

	if n == 0 {
		return null.Float{}
	}

	return null.FloatFrom(sum / float64(n))
}
