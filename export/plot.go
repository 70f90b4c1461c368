package export

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"gopkg.in/guregu/null.v3"

	"github.com/openqpcr/qpcrnorm/summarize"
)

// ConditionStat is one condition's plot-ready aggregate: the bar height, the
// error-bar half-width, and the raw replicate points for overlay.
type ConditionStat struct {
	Condition string
	Mean      float64
	SD        null.Float
	Points    []float64
}

// GeneSeries is the plot-ready structure for one target gene: its conditions
// in legend order, each with mean, spread, and the underlying points.
type GeneSeries struct {
	TargetGene string
	Conditions []ConditionStat
}

// SeriesByGene regroups summary rows into per-gene plot series, preserving
// the summaries' gene and condition order.
func SeriesByGene(summaries []summarize.Summary) []GeneSeries {
	var out []GeneSeries
	index := make(map[string]int)

	for _, s := range summaries {
		i, ok := index[s.TargetGene]
		if !ok {
			i = len(out)
			index[s.TargetGene] = i
			out = append(out, GeneSeries{TargetGene: s.TargetGene})
		}

		out[i].Conditions = append(out[i].Conditions, ConditionStat{
			Condition: s.Condition,
			Mean:      s.Mean,
			SD:        s.SD,
			Points:    append([]float64(nil), s.Values...),
		})
	}

	return out
}

// RenderBarPlot renders one gene's relative expression as a PNG bar chart,
// one bar per condition with the bar height at the condition mean. The
// interactive point overlay is a consumer concern; the raw points travel in
// the GeneSeries, not in the static image.
func RenderBarPlot(gs GeneSeries, w io.Writer) error {
	if len(gs.Conditions) == 0 {
		return fmt.Errorf("no conditions to plot for gene %s", gs.TargetGene)
	}

	bars := make([]chart.Value, 0, len(gs.Conditions))
	yMax := 0.0
	for _, c := range gs.Conditions {
		bars = append(bars, chart.Value{Label: c.Condition, Value: c.Mean})

		top := c.Mean
		if c.SD.Valid {
			top += c.SD.Float64
		}
		if top > yMax {
			yMax = top
		}
	}
	if yMax <= 0 {
		yMax = 1
	}

	graph := chart.BarChart{
		Title:    gs.TargetGene,
		Width:    512,
		Height:   512,
		BarWidth: 60,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: yMax * 1.1},
		},
		Bars: bars,
	}

	return graph.Render(chart.PNG, w)
}
