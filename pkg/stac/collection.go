// Package stac defines the normalized collection description served by the
// catalog, along with the supplementary-metadata overlay applied on top of
// what the discovery service reports.
package stac

import "encoding/json"

// Datacube-related STAC extension identifiers recorded on served collections.
const (
	ExtensionDatacube   = "datacube"
	ExtensionScientific = "scientific"
)

// DefaultLicense is applied when neither the discovery service nor the
// supplementary metadata provides one.
const DefaultLicense = "CC-BY-4.0"

// Collection is a normalized catalog entry.
//
// The JSON field names follow the STAC collection spec plus the datacube
// extension; entries are persisted verbatim by the catalog cache, so the
// schema is part of the stable on-disk contract.
type Collection struct {
	Name           string     `json:"id"`
	Title          string     `json:"title,omitempty"`
	Description    string     `json:"description,omitempty"`
	Keywords       []string   `json:"keywords,omitempty"`
	License        string     `json:"license,omitempty"`
	Version        string     `json:"version,omitempty"`
	Deprecated     *bool      `json:"deprecated,omitempty"`
	Citation       string     `json:"sci:citation,omitempty"`
	Providers      []Provider `json:"providers,omitempty"`
	Links          []Link     `json:"links,omitempty"`
	Summaries      *Summaries `json:"summaries,omitempty"`
	Extent         Extent     `json:"extent"`
	StacExtensions []string   `json:"stac_extensions,omitempty"`
	Dimensions     Dimensions `json:"cube:dimensions"`
}

// Provider identifies an organization producing or hosting a collection.
type Provider struct {
	Name  string   `json:"name"`
	URL   string   `json:"url,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// Link is a STAC link object.
type Link struct {
	Rel   string `json:"rel"`
	Href  string `json:"href"`
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
}

// Summaries carries the subset of STAC summaries the backend recognizes.
//
// Values are kept as raw JSON so each field is copied through untouched;
// the overlay only cares about presence, not shape.
type Summaries struct {
	Rows          json.RawMessage `json:"rows,omitempty"`
	Columns       json.RawMessage `json:"columns,omitempty"`
	GSD           json.RawMessage `json:"gsd,omitempty"`
	Constellation json.RawMessage `json:"constellation,omitempty"`
	Platform      json.RawMessage `json:"platform,omitempty"`
	Instruments   json.RawMessage `json:"instruments,omitempty"`
	CloudCover    json.RawMessage `json:"eo:cloud cover,omitempty"`
}

// Extent combines the spatial and temporal envelope of a collection.
type Extent struct {
	Spatial  SpatialExtent  `json:"spatial"`
	Temporal TemporalExtent `json:"temporal"`
}

// SpatialExtent holds one or more [minLon, minLat, maxLon, maxLat] boxes.
type SpatialExtent struct {
	BBox [][]float64 `json:"bbox"`
}

// TemporalExtent holds one or more [start, end] intervals; either endpoint
// may be null for an open interval.
type TemporalExtent struct {
	Interval [][]*string `json:"interval"`
}

// Dimensions is the cube:dimensions block derived by the resolver.
//
// The dimension set is fixed: a temporal axis, the two spatial axes, and an
// optional bands dimension. Fixed struct fields keep the serialized key
// order stable across refreshes.
type Dimensions struct {
	Date  *Dimension `json:"DATE,omitempty"`
	X     *Dimension `json:"X,omitempty"`
	Y     *Dimension `json:"Y,omitempty"`
	Bands *Dimension `json:"bands,omitempty"`
}

// Dimension describes a single cube axis.
//
// Extent holds strings for temporal axes and floats for spatial axes.
type Dimension struct {
	Type            string   `json:"type"`
	Axis            string   `json:"axis,omitempty"`
	Extent          []any    `json:"extent,omitempty"`
	ReferenceSystem int      `json:"reference_system,omitempty"`
	Values          []string `json:"values,omitempty"`
}

// Listing is the persisted catalog-level collection listing.
type Listing struct {
	Collections []Collection `json:"collections"`
}
