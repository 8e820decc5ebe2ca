package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/odcplane/odcplane/pkg/stac"
)

func TestExtractEPSG(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    int
		wantErr bool
	}{
		{
			name: "wkt authority",
			ref:  `PROJCS["WGS 84 / UTM zone 32N",GEOGCS["WGS 84",AUTHORITY["EPSG","4326"]],AUTHORITY["EPSG","32632"]]`,
			want: 32632,
		},
		{
			name: "bare code",
			ref:  "EPSG:4326",
			want: 4326,
		},
		{
			name:    "no authority",
			ref:     "PROJCS[something]",
			wantErr: true,
		},
		{
			name:    "empty",
			ref:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractEPSG(tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("extractEPSG() error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %d want %d", got, tt.want)
			}
		})
	}
}

func TestSidecarPath(t *testing.T) {
	href := "file:///data/odc/SAO%3A2020%4001.odc-metadata.yaml"
	want := "/data/odc/SAO:2020@01.odc-metadata.yaml"
	if got := sidecarPath(href); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestSidecarEPSG_ReadsDatasetDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ds.odc-metadata.yaml")
	doc := `grid_spatial:
  projection:
    spatial_reference: EPSG:32632
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}

	items := &stac.ItemCollection{Features: []stac.Item{{Assets: map[string]stac.Asset{
		stac.LocationAssetKey: {Href: "file://" + path},
	}}}}

	got, err := sidecarEPSG(items)
	if err != nil {
		t.Fatalf("sidecarEPSG() error: %v", err)
	}
	if got != 32632 {
		t.Fatalf("got %d want 32632", got)
	}
}

func TestSidecarEPSG_MissingLocationAsset(t *testing.T) {
	items := &stac.ItemCollection{Features: []stac.Item{{Assets: map[string]stac.Asset{}}}}
	if _, err := sidecarEPSG(items); err == nil {
		t.Fatalf("expected error for missing location asset")
	}
}

func TestSidecarEPSG_NoItems(t *testing.T) {
	if _, err := sidecarEPSG(nil); err == nil {
		t.Fatalf("expected error for nil items")
	}
	if _, err := sidecarEPSG(&stac.ItemCollection{}); err == nil {
		t.Fatalf("expected error for empty items")
	}
}
