// Package samplename parses the free-text sample naming convention used on
// the plate layout, where each biological replicate is labeled
// "<condition> <replicate-number>" (e.g., "MYC-OE 1", "WT 3"). All
// assumptions about that convention live here so the rest of the pipeline
// only ever sees structured identities.
package samplename

import (
	"fmt"
	"strconv"
	"strings"
)

// Identity is the structured form of a sample label.
type Identity struct {
	// Condition is everything before the final whitespace-delimited token,
	// with internal whitespace runs collapsed to single spaces. Conditions
	// compare case-sensitively.
	Condition string

	// Replicate is the non-negative integer parsed from the final token.
	Replicate int
}

// MalformedLabelError indicates that a sample label does not follow the
// "<condition> <replicate-number>" convention. Rows with malformed labels
// are excluded from normalization with this as the recorded reason; they
// never crash the pipeline.
type MalformedLabelError struct {
	Label string
}

func (e *MalformedLabelError) Error() string {
	return fmt.Sprintf("sample label %q does not match the \"<condition> <replicate-number>\" convention", e.Label)
}

// Parse splits a sample label on its last whitespace run. The trailing token
// must be a non-negative integer (the replicate index); the remainder is the
// condition name. Labels that are empty, consist only of a number, or whose
// trailing token is not a non-negative integer yield a *MalformedLabelError.
func Parse(label string) (Identity, error) {
	fields := strings.Fields(label)
	if len(fields) < 2 {
		return Identity{}, &MalformedLabelError{Label: label}
	}

	replicate, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil || replicate < 0 {
		return Identity{}, &MalformedLabelError{Label: label}
	}

	return Identity{
		Condition: strings.Join(fields[:len(fields)-1], " "),
		Replicate: replicate,
	}, nil
}
