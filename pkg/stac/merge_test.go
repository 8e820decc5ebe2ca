package stac

import (
	"testing"
)

func strPtr(s string) *string { return &s }

func TestMerge_AbsentFieldKeepsBase(t *testing.T) {
	base := &Collection{
		Name:        "S2_L2A",
		Title:       "A",
		Description: "base description",
		License:     DefaultLicense,
	}

	Merge(base, &Supplementary{Description: strPtr("overlay description")})

	if base.Title != "A" {
		t.Fatalf("title overwritten without overlay value: %q", base.Title)
	}
	if base.Description != "overlay description" {
		t.Fatalf("description not overlaid: %q", base.Description)
	}
	if base.License != DefaultLicense {
		t.Fatalf("license overwritten: %q", base.License)
	}
}

func TestMerge_PresentFieldReplacesBase(t *testing.T) {
	base := &Collection{Name: "S2_L2A", Title: "A"}

	Merge(base, &Supplementary{Title: strPtr("B")})

	if base.Title != "B" {
		t.Fatalf("title not overlaid: got %q want %q", base.Title, "B")
	}
}

func TestMerge_CitationAddsScientificExtension(t *testing.T) {
	base := &Collection{
		Name:           "S2_L2A",
		StacExtensions: []string{ExtensionDatacube},
	}

	Merge(base, &Supplementary{Citation: strPtr("doi:10.1000/demo")})

	if base.Citation != "doi:10.1000/demo" {
		t.Fatalf("citation not overlaid: %q", base.Citation)
	}
	want := []string{ExtensionDatacube, ExtensionScientific}
	if len(base.StacExtensions) != len(want) {
		t.Fatalf("unexpected extensions: %v", base.StacExtensions)
	}
	for i := range want {
		if base.StacExtensions[i] != want[i] {
			t.Fatalf("unexpected extensions: %v", base.StacExtensions)
		}
	}
}

func TestMerge_SummariesCopiesOnlyPresentKeys(t *testing.T) {
	base := &Collection{Name: "S2_L2A"}

	Merge(base, &Supplementary{
		Summaries: &SuppSummaries{
			GSD:      []float64{10},
			Platform: []string{"sentinel-2a"},
		},
	})

	if base.Summaries == nil {
		t.Fatalf("summaries not applied")
	}
	if string(base.Summaries.GSD) != "[10]" {
		t.Fatalf("gsd not copied: %s", base.Summaries.GSD)
	}
	if string(base.Summaries.Platform) != `["sentinel-2a"]` {
		t.Fatalf("platform not copied: %s", base.Summaries.Platform)
	}
	if base.Summaries.Rows != nil {
		t.Fatalf("rows should be absent, got %s", base.Summaries.Rows)
	}
}

func TestMerge_NilOverlayIsNoop(t *testing.T) {
	base := &Collection{Name: "S2_L2A", Title: "A"}
	Merge(base, nil)
	if base.Title != "A" {
		t.Fatalf("nil overlay mutated base")
	}
}

func TestSupplementary_BandValues(t *testing.T) {
	var s *Supplementary
	if got := s.BandValues(); got != nil {
		t.Fatalf("nil supplementary should have no band values, got %v", got)
	}

	s = &Supplementary{Dimensions: &SuppDimensions{Bands: &SuppBands{Values: []string{"B02", "B03"}}}}
	got := s.BandValues()
	if len(got) != 2 || got[0] != "B02" || got[1] != "B03" {
		t.Fatalf("unexpected band values: %v", got)
	}
}
