package main

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"gopkg.in/guregu/null.v3"

	"github.com/openqpcr/qpcrnorm/welltable"
)

// resultsRow matches the Results sheet of a standard Applied-Biosystems-style
// export, saved as CSV.
type resultsRow struct {
	Well       string `csv:"Well"`
	TargetName string `csv:"Target Name"`
	SampleName string `csv:"Sample Name"`
	CT         string `csv:"CT"`
}

func loadResults(path string) (*welltable.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readResults(f)
}

func readResults(r io.Reader) (*welltable.Table, error) {
	// Instrument exports sometimes carry stray quotes; be lenient.
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		cr := csv.NewReader(in)
		cr.LazyQuotes = true
		return cr
	})

	rows := []*resultsRow{}
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}

	wells := make([]welltable.Well, 0, len(rows))
	for _, row := range rows {
		wells = append(wells, welltable.Well{
			WellID:      strings.TrimSpace(row.Well),
			TargetGene:  row.TargetName,
			SampleLabel: strings.TrimSpace(row.SampleName),
			Ct:          parseCt(row.CT),
		})
	}

	return welltable.New(wells), nil
}

// parseCt maps the instrument's CT field onto an optional Ct. Anything that
// is not a finite non-negative number (the usual "Undetermined" sentinel, an
// empty field, NaN) counts as undetermined.
func parseCt(s string) null.Float {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return null.Float{}
	}
	return null.FloatFrom(v)
}
