package export

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/guregu/null.v3"

	"github.com/openqpcr/qpcrnorm/normalize"
	"github.com/openqpcr/qpcrnorm/summarize"
)

func firstLine(t *testing.T, b *bytes.Buffer) string {
	t.Helper()

	lines := strings.Split(strings.TrimRight(b.String(), "\r\n"), "\n")
	if len(lines) == 0 {
		t.Fatal("empty CSV output")
	}
	return strings.TrimRight(lines[0], "\r")
}

func TestNormalizedCSVHeaderAndRow(t *testing.T) {
	var b bytes.Buffer

	err := WriteNormalizedCSV(&b, []normalize.Record{
		{Condition: "WT", Replicate: 1, TargetGene: "MYC", Expression: 0.0625},
	})
	if err != nil {
		t.Fatal(err)
	}

	if h := firstLine(t, &b); h != "condition,replicate_index,target_gene,expression" {
		t.Fatalf("unexpected header: %q", h)
	}
	if !strings.Contains(b.String(), "WT,1,MYC,0.0625") {
		t.Fatalf("row missing from output:\n%s", b.String())
	}
}

func TestSummaryCSVHeader(t *testing.T) {
	var b bytes.Buffer

	if err := WriteSummaryCSV(&b, nil); err != nil {
		t.Fatal(err)
	}

	if h := firstLine(t, &b); h != "condition,target_gene,mean_expression,spread,n_replicates" {
		t.Fatalf("unexpected header: %q", h)
	}
}

func TestSummaryCSVUndefinedSpreadIsEmpty(t *testing.T) {
	var b bytes.Buffer

	err := WriteSummaryCSV(&b, []summarize.Summary{
		{Condition: "WT", TargetGene: "MYC", Mean: 0.5, N: 1},
	})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(b.String(), "WT,MYC,0.5,,1") {
		t.Fatalf("singleton spread should marshal empty:\n%s", b.String())
	}
}

func TestExclusionCSVMalformedLabelRow(t *testing.T) {
	var b bytes.Buffer

	err := WriteExclusionsCSV(&b, []normalize.Exclusion{
		{SampleLabel: "no-replicate", TargetGene: "MYC", Reason: normalize.ReasonMalformedLabel},
		{SampleLabel: "WT 1", Condition: "WT", Replicate: null.IntFrom(1), TargetGene: "MYC", Reason: normalize.ReasonMissingReferenceCt},
	})
	if err != nil {
		t.Fatal(err)
	}

	out := b.String()
	if h := firstLine(t, &b); h != "condition,replicate_index,target_gene,sample_label,reason" {
		t.Fatalf("unexpected header: %q", h)
	}
	if !strings.Contains(out, ",,MYC,no-replicate,malformed_label") {
		t.Fatalf("malformed-label row should have empty identity columns:\n%s", out)
	}
	if !strings.Contains(out, "WT,1,MYC,WT 1,missing_reference_ct") {
		t.Fatalf("missing-reference row malformed:\n%s", out)
	}
}
