package export

import (
	"bytes"
	"testing"

	"gopkg.in/guregu/null.v3"

	"github.com/openqpcr/qpcrnorm/summarize"
)

func TestSeriesByGene(t *testing.T) {
	series := SeriesByGene([]summarize.Summary{
		{Condition: "WT", TargetGene: "MYC", Mean: 1.0, SD: null.FloatFrom(0.1), N: 3, Values: []float64{0.9, 1.0, 1.1}},
		{Condition: "KD", TargetGene: "MYC", Mean: 0.2, N: 1, Values: []float64{0.2}},
		{Condition: "WT", TargetGene: "TP53", Mean: 0.8, N: 1, Values: []float64{0.8}},
	})

	if len(series) != 2 {
		t.Fatalf("got %d series, expected 2", len(series))
	}

	myc := series[0]
	if myc.TargetGene != "MYC" || len(myc.Conditions) != 2 {
		t.Fatalf("unexpected series: %+v", myc)
	}
	if myc.Conditions[0].Condition != "WT" || myc.Conditions[1].Condition != "KD" {
		t.Fatalf("condition order not preserved: %+v", myc.Conditions)
	}
	if got := myc.Conditions[0].Points; len(got) != 3 {
		t.Fatalf("replicate points not carried through: %v", got)
	}
	if myc.Conditions[1].SD.Valid {
		t.Fatal("singleton condition should keep its undefined spread")
	}

	if series[1].TargetGene != "TP53" {
		t.Fatalf("gene order not preserved: %+v", series[1])
	}
}

func TestRenderBarPlotProducesPNG(t *testing.T) {
	var b bytes.Buffer

	err := RenderBarPlot(GeneSeries{
		TargetGene: "MYC",
		Conditions: []ConditionStat{
			{Condition: "WT", Mean: 1.0, SD: null.FloatFrom(0.2)},
			{Condition: "KD", Mean: 0.25},
		},
	}, &b)
	if err != nil {
		t.Fatal(err)
	}

	pngMagic := []byte{0x89, 'P', 'N', 'G'}
	if b.Len() < len(pngMagic) || !bytes.Equal(b.Bytes()[:len(pngMagic)], pngMagic) {
		t.Fatalf("output does not look like a PNG (%d bytes)", b.Len())
	}
}

func TestRenderBarPlotRejectsEmptySeries(t *testing.T) {
	var b bytes.Buffer

	if err := RenderBarPlot(GeneSeries{TargetGene: "MYC"}, &b); err == nil {
		t.Fatal("expected an error for a series with no conditions")
	}
}
