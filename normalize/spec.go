package normalize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/openqpcr/qpcrnorm/welltable"
)

// Method selects how multiple housekeeping genes are combined into a single
// reference Ct.
type Method string

const (
	// MethodIndividual normalizes against exactly one housekeeping gene.
	MethodIndividual Method = "individual"

	// MethodGeometricMean normalizes against the geometric mean of the
	// housekeeping genes' expression. Because Ct is already log-scale, this
	// is the arithmetic mean of their Ct values; the computation stays in Ct
	// space and never exponentiates intermediate values.
	MethodGeometricMean Method = "geometric_mean"
)

// ParseMethod maps a user-facing method name onto a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "individual":
		return MethodIndividual, nil
	case "geometric_mean", "geomean":
		return MethodGeometricMean, nil
	}
	return "", fmt.Errorf("unknown normalization method %q (valid methods: individual, geomean)", s)
}

// Spec is the user-chosen normalization configuration.
type Spec struct {
	ReferenceGenes []string
	Method         Method
}

// InvalidSpecError rejects a Spec before any normalization runs. A rejected
// spec produces no partial results.
type InvalidSpecError struct {
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return "invalid normalization spec: " + e.Reason
}

// referenceSet returns the case-normalized, deduplicated reference genes in
// ascending name order. Set semantics: the order the user listed them in
// never changes any result.
func (s Spec) referenceSet() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(s.ReferenceGenes))
	for _, g := range s.ReferenceGenes {
		gene := welltable.NormalizeGene(g)
		if gene == "" {
			continue
		}
		if _, ok := seen[gene]; ok {
			continue
		}
		seen[gene] = struct{}{}
		out = append(out, gene)
	}
	sort.Strings(out)
	return out
}

// Validate checks the spec against the run it will be applied to.
func (s Spec) Validate(t *welltable.Table) error {
	refs := s.referenceSet()

	switch s.Method {
	case MethodIndividual:
		if len(refs) != 1 {
			return &InvalidSpecError{Reason: fmt.Sprintf("the individual method requires exactly one reference gene, got %d", len(refs))}
		}
	case MethodGeometricMean:
		if len(refs) == 0 {
			return &InvalidSpecError{Reason: "the geometric mean method requires at least one reference gene"}
		}
	default:
		return &InvalidSpecError{Reason: fmt.Sprintf("unknown method %q", string(s.Method))}
	}

	for _, gene := range refs {
		if !t.HasGene(gene) {
			return &InvalidSpecError{Reason: fmt.Sprintf("reference gene %s is not present in this run", gene)}
		}
	}

	return nil
}
