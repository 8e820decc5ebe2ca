package resolver

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/odcplane/odcplane/pkg/stac"
)

// sidecarDocument is the subset of the ODC dataset document consulted for
// the spatial reference.
type sidecarDocument struct {
	GridSpatial struct {
		Projection struct {
			SpatialReference string `yaml:"spatial_reference"`
		} `yaml:"projection"`
	} `yaml:"grid_spatial"`
}

var epsgCodeRe = regexp.MustCompile(`[0-9]+`)

// sidecarEPSG reads the EPSG code from the dataset document referenced by
// the first item's location asset.
//
// TODO: drop the sidecar path once every datacube has a supplementary
// metadata file carrying an explicit crs.
func sidecarEPSG(items *stac.ItemCollection) (int, error) {
	if items == nil || len(items.Features) == 0 {
		return 0, fmt.Errorf("no items to read sidecar from")
	}

	loc, ok := items.Features[0].Assets[stac.LocationAssetKey]
	if !ok || loc.Href == "" {
		return 0, fmt.Errorf("first item has no location asset")
	}

	path := sidecarPath(loc.Href)
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read sidecar %s: %w", path, err)
	}

	var doc sidecarDocument
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return 0, fmt.Errorf("parse sidecar %s: %w", path, err)
	}

	return extractEPSG(doc.GridSpatial.Projection.SpatialReference)
}

// sidecarPath converts a location href to a filesystem path. Hrefs come
// percent-encoded from the explorer with a file scheme prefix.
func sidecarPath(href string) string {
	path := strings.TrimPrefix(href, "file://")
	path = strings.ReplaceAll(path, "%40", "@")
	path = strings.ReplaceAll(path, "%3A", ":")
	return path
}

// extractEPSG pulls the numeric EPSG code out of a spatial reference
// string, which may be a bare "EPSG:32632" or a full WKT definition with
// AUTHORITY["EPSG","32632"] entries. The last EPSG occurrence wins, as WKT
// nests authority entries and the outermost comes last.
func extractEPSG(ref string) (int, error) {
	idx := strings.LastIndex(ref, "EPSG")
	if idx < 0 {
		return 0, fmt.Errorf("no EPSG authority in spatial reference %q", ref)
	}

	m := epsgCodeRe.FindString(ref[idx:])
	if m == "" {
		return 0, fmt.Errorf("no EPSG code in spatial reference %q", ref)
	}

	code, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("parse EPSG code %q: %w", m, err)
	}
	return code, nil
}
