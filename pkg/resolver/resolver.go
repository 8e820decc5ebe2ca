// Package resolver assembles normalized collection descriptions.
//
// Resolution starts from the discovery service's raw description, overlays
// optional supplementary metadata, and derives the datacube dimension
// block. Every enrichment step (grid extent, CRS lookup, band discovery)
// is best-effort: a failing step is logged and skipped, never aborting the
// overall resolution. The contract is best-effort enrichment on top of a
// guaranteed base description.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/odcplane/odcplane/pkg/stac"
)

// DiscoveryService is the subset of the explorer client the resolver uses.
type DiscoveryService interface {
	Describe(ctx context.Context, name string) (*stac.Collection, error)
	Items(ctx context.Context, name string) (*stac.ItemCollection, error)
}

// GridSampler computes a collection's spatial extent by sampling its
// geolocation grid. Implementations read the underlying data, so failures
// are expected and tolerated.
type GridSampler interface {
	// CollectionExtent returns [minLon, minLat, maxLon, maxLat] from the
	// nonzero grid coordinates of the collection's data.
	CollectionExtent(ctx context.Context, name string) ([4]float64, error)
}

// SAR2CubeMarker identifies collections of the derived-product family whose
// bounding box must be recomputed from the geolocation grid.
const SAR2CubeMarker = "SAR2Cube"

// DefaultProvider is recorded when the supplementary metadata does not name
// providers.
var DefaultProvider = stac.Provider{
	Name:  "Eurac EO ODC",
	URL:   "http://www.eurac.edu/",
	Roles: []string{"producer", "host"},
}

// DefaultLicenseLink accompanies the default license.
var DefaultLicenseLink = stac.Link{
	Rel:   "license",
	Href:  "https://creativecommons.org/licenses/by/4.0/",
	Type:  "text/html",
	Title: "License link",
}

// Config configures a Resolver.
type Config struct {
	// SupplementaryDir holds per-collection overlay documents named
	// <collection>_supp_metadata.json. Empty disables the overlay.
	SupplementaryDir string
}

// Resolver produces normalized catalog entries.
type Resolver struct {
	discovery DiscoveryService
	sampler   GridSampler
	cfg       Config
	logger    *zap.Logger
}

func New(svc DiscoveryService, cfg Config, logger *zap.Logger) (*Resolver, error) {
	if svc == nil {
		return nil, fmt.Errorf("discovery service is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{discovery: svc, cfg: cfg, logger: logger}, nil
}

// WithGridSampler sets the optional geolocation grid sampler used for
// SAR2Cube spatial extents. Returns the resolver for chaining.
func (r *Resolver) WithGridSampler(s GridSampler) *Resolver {
	r.sampler = s
	return r
}

// Resolve builds the normalized entry for name.
//
// An unreachable discovery service or an unknown collection propagates as
// an error; everything past the base description is enrichment.
func (r *Resolver) Resolve(ctx context.Context, name string) (*stac.Collection, error) {
	col, err := r.discovery.Describe(ctx, name)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Constructing collection metadata", zap.String("collection", name))

	// Base normalization before the overlay: the overlay may replace any
	// of these.
	col.StacExtensions = []string{stac.ExtensionDatacube}
	if col.License == "" {
		col.License = stac.DefaultLicense
	}
	col.Providers = []stac.Provider{DefaultProvider}
	col.Links = []stac.Link{DefaultLicenseLink}

	supp := r.loadSupplementary(name)

	if strings.Contains(name, SAR2CubeMarker) {
		r.applyGridExtent(ctx, name, col)
	}

	stac.Merge(col, supp)

	r.deriveDimensions(col)

	items := r.loadItems(ctx, name)
	r.applyReferenceSystem(col, supp, items)
	r.applyBands(col, supp, items)

	return col, nil
}

// applyGridExtent replaces the spatial bbox with the grid-sampled extent.
// On failure the discovery-provided bbox is retained.
func (r *Resolver) applyGridExtent(ctx context.Context, name string, col *stac.Collection) {
	if r.sampler == nil {
		r.logger.Warn("No grid sampler configured for SAR2Cube collection",
			zap.String("collection", name))
		return
	}

	bbox, err := r.sampler.CollectionExtent(ctx, name)
	if err != nil {
		r.logger.Warn("Grid extent sampling failed",
			zap.String("collection", name),
			zap.Error(err))
		return
	}
	col.Extent.Spatial.BBox = [][]float64{bbox[:]}
}

// deriveDimensions fills the cube:dimensions block from the collection
// extent: a temporal axis from the first interval and spatial X/Y axes
// from the first bounding box.
func (r *Resolver) deriveDimensions(col *stac.Collection) {
	col.Dimensions = stac.Dimensions{}

	if len(col.Extent.Temporal.Interval) > 0 {
		interval := col.Extent.Temporal.Interval[0]
		ext := make([]any, 0, len(interval))
		for _, v := range interval {
			if v == nil {
				ext = append(ext, nil)
			} else {
				ext = append(ext, *v)
			}
		}
		col.Dimensions.Date = &stac.Dimension{Type: "temporal", Extent: ext}
	}

	if len(col.Extent.Spatial.BBox) > 0 && len(col.Extent.Spatial.BBox[0]) >= 4 {
		bbox := col.Extent.Spatial.BBox[0]
		col.Dimensions.X = &stac.Dimension{
			Type:   "spatial",
			Axis:   "x",
			Extent: []any{bbox[0], bbox[2]},
		}
		col.Dimensions.Y = &stac.Dimension{
			Type:   "spatial",
			Axis:   "y",
			Extent: []any{bbox[1], bbox[3]},
		}
	}
}

// loadItems fetches catalog items for CRS and band discovery. Failure
// downgrades both steps to no-ops.
func (r *Resolver) loadItems(ctx context.Context, name string) *stac.ItemCollection {
	items, err := r.discovery.Items(ctx, name)
	if err != nil {
		r.logger.Warn("Item listing unavailable, skipping CRS and band discovery",
			zap.String("collection", name),
			zap.Error(err))
		return nil
	}
	return items
}

// applyReferenceSystem sets the spatial reference on the X/Y dimensions.
// The sidecar document of the first item provides it unless the overlay
// pins an explicit CRS. Absence of a parseable CRS leaves the field unset.
func (r *Resolver) applyReferenceSystem(col *stac.Collection, supp *stac.Supplementary, items *stac.ItemCollection) {
	epsg, ok := 0, false

	if code, err := sidecarEPSG(items); err != nil {
		r.logger.Warn("CRS sidecar lookup failed",
			zap.String("collection", col.Name),
			zap.Error(err))
	} else {
		epsg, ok = code, true
	}

	if supp != nil && supp.CRS != nil {
		epsg, ok = *supp.CRS, true
	}

	if !ok {
		return
	}
	if col.Dimensions.X != nil {
		col.Dimensions.X.ReferenceSystem = epsg
	}
	if col.Dimensions.Y != nil {
		col.Dimensions.Y.ReferenceSystem = epsg
	}
}

// applyBands sets the bands dimension, preferring explicit overlay values
// over discovery from the first item's asset band listings.
func (r *Resolver) applyBands(col *stac.Collection, supp *stac.Supplementary, items *stac.ItemCollection) {
	if values := supp.BandValues(); len(values) > 0 {
		col.Dimensions.Bands = &stac.Dimension{Type: "bands", Values: values}
		return
	}

	values, err := discoverBands(items)
	if err != nil {
		r.logger.Warn("Band discovery failed",
			zap.String("collection", col.Name),
			zap.Error(err))
		return
	}
	if len(values) == 0 {
		return
	}
	col.Dimensions.Bands = &stac.Dimension{Type: "bands", Values: values}
}
