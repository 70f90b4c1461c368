package main

import (
	"math"
	"strings"
	"testing"
)

func TestReadResults(t *testing.T) {
	in := strings.Join([]string{
		"Well,Target Name,Sample Name,CT",
		"A1,ACTB,WT 1,18.1",
		"A2,ACTB,WT 1,18.3",
		"A3,MYC,WT 1,Undetermined",
		"A4,Myc,WT 2,22.5",
	}, "\n")

	table, err := readResults(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}

	if wells := table.Wells(); len(wells) != 4 {
		t.Fatalf("got %d wells, expected 4", len(wells))
	}

	ct := table.CtFor("ACTB", "WT 1")
	if !ct.Valid || math.Abs(ct.Float64-18.2) > 1e-9 {
		t.Fatalf("CtFor(ACTB, WT 1) = %+v, expected 18.2", ct)
	}

	if ct := table.CtFor("MYC", "WT 1"); ct.Valid {
		t.Fatalf("an Undetermined CT field must load as undetermined, got %f", ct.Float64)
	}

	// Target names case-normalize, so "Myc" lands under MYC.
	if ct := table.CtFor("MYC", "WT 2"); !ct.Valid || math.Abs(ct.Float64-22.5) > 1e-9 {
		t.Fatalf("CtFor(MYC, WT 2) = %+v, expected 22.5", ct)
	}
}

func TestParseCt(t *testing.T) {
	for _, v := range []struct {
		In    string
		Valid bool
		Ct    float64
	}{
		{"18.25", true, 18.25},
		{" 20 ", true, 20},
		{"0", true, 0},
		{"Undetermined", false, 0},
		{"undetermined", false, 0},
		{"", false, 0},
		{"N/A", false, 0},
		{"-1.5", false, 0},
		{"NaN", false, 0},
		{"+Inf", false, 0},
	} {
		ct := parseCt(v.In)
		if ct.Valid != v.Valid {
			t.Fatalf("parseCt(%q).Valid = %v, expected %v", v.In, ct.Valid, v.Valid)
		}
		if v.Valid && math.Abs(ct.Float64-v.Ct) > 1e-12 {
			t.Fatalf("parseCt(%q) = %f, expected %f", v.In, ct.Float64, v.Ct)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" ACTB, UBC ,,GAPDH ")
	if len(got) != 3 || got[0] != "ACTB" || got[1] != "UBC" || got[2] != "GAPDH" {
		t.Fatalf("splitList = %v", got)
	}
}
