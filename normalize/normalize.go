// Package normalize computes relative gene expression from a qPCR well table
// using the 2^-ΔCt convention: each target gene's Ct is compared against a
// housekeeping reference Ct for the same biological sample, and the delta is
// converted to a fold-expression value. Samples that cannot be normalized
// (malformed label, undetermined target Ct, undetermined reference Ct) are
// reported as exclusion records rather than errors, so a single bad well
// never aborts the run.
package normalize

import (
	"math"
	"sort"

	"gopkg.in/guregu/null.v3"

	"github.com/openqpcr/qpcrnorm/samplename"
	"github.com/openqpcr/qpcrnorm/welltable"
)

// Record is one (condition, replicate, target gene) relative-expression
// value. Records are immutable once produced.
type Record struct {
	Condition  string
	Replicate  int
	TargetGene string
	Expression float64 // 2^-(ctTarget - ctReference)
}

// Reason classifies why a (condition, replicate, target gene) tuple was
// excluded from normalization.
type Reason string

const (
	ReasonMissingTargetCt    Reason = "missing_target_ct"
	ReasonMissingReferenceCt Reason = "missing_reference_ct"
	ReasonMalformedLabel     Reason = "malformed_label"
)

// Exclusion records one tuple that produced no Record, and why. Condition
// and Replicate are unset when the sample label itself could not be parsed.
type Exclusion struct {
	SampleLabel string
	Condition   string
	Replicate   null.Int
	TargetGene  string
	Reason      Reason
}

// Normalize computes relative expression for every (sample, target gene)
// pair in the table, where target genes are the run's genes minus the
// spec's reference genes. identities maps raw sample labels to their parsed
// form; labels absent from the map are treated as malformed.
//
// The spec is validated first; an invalid spec returns an *InvalidSpecError
// and no partial results. Otherwise the error is always nil and every tuple
// is accounted for either by a Record or by an Exclusion.
//
// Output order is deterministic: conditions in first-seen table order, then
// replicate index ascending, then target gene name ascending. Malformed
// labels are reported after the well-formed samples, in first-seen order.
func Normalize(t *welltable.Table, identities map[string]samplename.Identity, spec Spec) ([]Record, []Exclusion, error) {
	if err := spec.Validate(t); err != nil {
		return nil, nil, err
	}

	refs := spec.referenceSet()
	isRef := make(map[string]bool, len(refs))
	for _, g := range refs {
		isRef[g] = true
	}

	targets := make([]string, 0, len(t.Genes()))
	for _, g := range t.Genes() {
		if !isRef[g] {
			targets = append(targets, g)
		}
	}
	sort.Strings(targets)

	wellFormed, malformed := orderSamples(t.SampleLabels(), identities)

	var records []Record
	var exclusions []Exclusion

	for _, s := range wellFormed {
		ctRef := referenceCt(t, refs, s.label)

		for _, gene := range targets {
			ctTarget := t.CtFor(gene, s.label)

			switch {
			case !ctTarget.Valid:
				exclusions = append(exclusions, Exclusion{
					SampleLabel: s.label,
					Condition:   s.id.Condition,
					Replicate:   null.IntFrom(int64(s.id.Replicate)),
					TargetGene:  gene,
					Reason:      ReasonMissingTargetCt,
				})
			case !ctRef.Valid:
				exclusions = append(exclusions, Exclusion{
					SampleLabel: s.label,
					Condition:   s.id.Condition,
					Replicate:   null.IntFrom(int64(s.id.Replicate)),
					TargetGene:  gene,
					Reason:      ReasonMissingReferenceCt,
				})
			default:
				records = append(records, Record{
					Condition:  s.id.Condition,
					Replicate:  s.id.Replicate,
					TargetGene: gene,
					Expression: math.Exp2(-(ctTarget.Float64 - ctRef.Float64)),
				})
			}
		}
	}

	for _, label := range malformed {
		for _, gene := range targets {
			exclusions = append(exclusions, Exclusion{
				SampleLabel: label,
				TargetGene:  gene,
				Reason:      ReasonMalformedLabel,
			})
		}
	}

	return records, exclusions, nil
}

// referenceCt combines the reference genes' Cts for one sample into a single
// reference Ct, in Ct space. If any reference gene has no determined Ct for
// the sample, the combined reference is itself undetermined.
func referenceCt(t *welltable.Table, refs []string, label string) null.Float {
	var sum float64

	for _, gene := range refs {
		ct := t.CtFor(gene, label)
		if !ct.Valid {
			return null.Float{}
		}
		sum += ct.Float64
	}

	return null.FloatFrom(sum / float64(len(refs)))
}

type orderedSample struct {
	label string
	id    samplename.Identity
}

// orderSamples arranges the run's sample labels for deterministic iteration:
// conditions keep their first-seen order from the table, and replicates sort
// ascending within each condition. Labels without a parsed identity are
// returned separately, in first-seen order.
func orderSamples(labels []string, identities map[string]samplename.Identity) ([]orderedSample, []string) {
	perCondition := make(map[string][]orderedSample)
	var conditionOrder []string
	var malformed []string

	for _, label := range labels {
		id, ok := identities[label]
		if !ok {
			malformed = append(malformed, label)
			continue
		}
		if _, seen := perCondition[id.Condition]; !seen {
			conditionOrder = append(conditionOrder, id.Condition)
		}
		perCondition[id.Condition] = append(perCondition[id.Condition], orderedSample{label: label, id: id})
	}

	var out []orderedSample
	for _, condition := range conditionOrder {
		group := perCondition[condition]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].id.Replicate < group[j].id.Replicate
		})
		out = append(out, group...)
	}

	return out, malformed
}
