// qpcrnorm normalizes a qPCR results export against one or more housekeeping
// genes and writes replicate-level and condition-level expression tables,
// an exclusion report, a per-gene QC table, and optionally one bar plot per
// gene.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/openqpcr/qpcrnorm/export"
	"github.com/openqpcr/qpcrnorm/normalize"
	"github.com/openqpcr/qpcrnorm/samplename"
	"github.com/openqpcr/qpcrnorm/summarize"
	"github.com/openqpcr/qpcrnorm/welltable"
)

func main() {
	var resultsFile, reference, method, genes, outDir string
	var plot bool

	flag.StringVar(&resultsFile, "results", "", "Path to the instrument results export (CSV; containing Well, Target Name, Sample Name, CT)")
	flag.StringVar(&reference, "reference", "", "Comma-delimited housekeeping gene(s) to normalize against")
	flag.StringVar(&method, "method", "geomean", "How to combine multiple housekeeping genes: individual (exactly one gene) or geomean")
	flag.StringVar(&genes, "genes", "", "Optional comma-delimited genes of interest. If empty, all non-housekeeping genes are reported.")
	flag.StringVar(&outDir, "out", ".", "Directory where the output tables will be written")
	flag.BoolVar(&plot, "plot", false, "If true, also render one expression bar plot PNG per gene")
	flag.Parse()

	if resultsFile == "" {
		log.Fatalln("Please provide -results")
	}

	if reference == "" {
		log.Fatalln("Please provide -reference")
	}

	log.Println("Launched qpcrnorm")

	if err := runAll(resultsFile, reference, method, genes, outDir, plot); err != nil {
		log.Fatalln(pfx.Err(err))
	}
}

func runAll(resultsFile, reference, method, genes, outDir string, plot bool) error {
	m, err := normalize.ParseMethod(method)
	if err != nil {
		return err
	}

	table, err := loadResults(resultsFile)
	if err != nil {
		return err
	}
	log.Println("Loaded", len(table.Wells()), "wells across", len(table.Genes()), "genes from", resultsFile)

	// Resolve each distinct sample label once. Labels that don't follow the
	// "<condition> <replicate>" convention stay out of the map and surface as
	// malformed-label exclusions downstream.
	identities := make(map[string]samplename.Identity)
	for _, label := range table.SampleLabels() {
		if id, err := samplename.Parse(label); err == nil {
			identities[label] = id
		}
	}
	log.Println("Parsed", len(identities), "of", len(table.SampleLabels()), "sample labels")

	spec := normalize.Spec{
		ReferenceGenes: splitList(reference),
		Method:         m,
	}

	records, exclusions, err := normalize.Normalize(table, identities, spec)
	if err != nil {
		return err
	}
	log.Println("Normalized", len(records), "values with", len(exclusions), "exclusions")

	if genes != "" {
		records = filterGenes(records, splitList(genes))
		log.Println("Kept", len(records), "values for the requested genes of interest")
	}

	summaries := summarize.Aggregate(records)
	log.Println("Aggregated", len(summaries), "condition-level groups")

	if err := writeTables(outDir, table, records, exclusions, summaries); err != nil {
		return err
	}

	if plot {
		if err := writePlots(outDir, summaries); err != nil {
			return err
		}
	}

	return nil
}

func writeTables(outDir string, table *welltable.Table, records []normalize.Record, exclusions []normalize.Exclusion, summaries []summarize.Summary) error {
	writers := []struct {
		name  string
		write func(f *os.File) error
	}{
		{"normalized.csv", func(f *os.File) error { return export.WriteNormalizedCSV(f, records) }},
		{"summary.csv", func(f *os.File) error { return export.WriteSummaryCSV(f, summaries) }},
		{"exclusions.csv", func(f *os.File) error { return export.WriteExclusionsCSV(f, exclusions) }},
		{"qc.csv", func(f *os.File) error { return export.WriteQCCSV(f, table.QC()) }},
	}

	for _, w := range writers {
		path := filepath.Join(outDir, w.name)

		f, err := os.Create(path)
		if err != nil {
			return err
		}

		if err := w.write(f); err != nil {
			f.Close()
			return err
		}

		if err := f.Close(); err != nil {
			return err
		}

		log.Println("Wrote", path)
	}

	return nil
}

func writePlots(outDir string, summaries []summarize.Summary) error {
	for _, gs := range export.SeriesByGene(summaries) {
		path := filepath.Join(outDir, gs.TargetGene+"_expression.png")

		f, err := os.Create(path)
		if err != nil {
			return err
		}

		if err := export.RenderBarPlot(gs, f); err != nil {
			f.Close()
			return err
		}

		if err := f.Close(); err != nil {
			return err
		}

		log.Println("Wrote", path)
	}

	return nil
}

func filterGenes(records []normalize.Record, genes []string) []normalize.Record {
	keep := make(map[string]bool, len(genes))
	for _, g := range genes {
		keep[welltable.NormalizeGene(g)] = true
	}

	out := make([]normalize.Record, 0, len(records))
	for _, r := range records {
		if keep[r.TargetGene] {
			out = append(out, r)
		}
	}

	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
