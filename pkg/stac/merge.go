package stac

import "encoding/json"

// Supplementary is the optional hand-authored overlay document kept next to
// the cache, one file per collection.
//
// Pointer and slice fields distinguish "absent" from "present but empty":
// only fields the document actually defines replace the resolver-derived
// defaults.
type Supplementary struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Keywords    []string        `json:"keywords,omitempty"`
	Providers   []Provider      `json:"providers,omitempty"`
	Version     *string         `json:"version,omitempty"`
	Deprecated  *bool           `json:"deprecated,omitempty"`
	License     *string         `json:"license,omitempty"`
	Citation    *string         `json:"sci:citation,omitempty"`
	Links       []Link          `json:"links,omitempty"`
	Summaries   *SuppSummaries  `json:"summaries,omitempty"`
	CRS         *int            `json:"crs,omitempty"`
	Dimensions  *SuppDimensions `json:"cube:dimensions,omitempty"`
}

// SuppSummaries mirrors Summaries with per-field presence semantics; a nil
// field leaves the served summaries without that key.
type SuppSummaries struct {
	Rows          []int     `json:"rows,omitempty"`
	Columns       []int     `json:"columns,omitempty"`
	GSD           []float64 `json:"gsd,omitempty"`
	Constellation []string  `json:"constellation,omitempty"`
	Platform      []string  `json:"platform,omitempty"`
	Instruments   []string  `json:"instruments,omitempty"`
	CloudCover    []float64 `json:"eo:cloud cover,omitempty"`
}

// SuppDimensions allows the overlay to pin the bands dimension explicitly,
// overriding band discovery from catalog items.
type SuppDimensions struct {
	Bands *SuppBands `json:"bands,omitempty"`
}

type SuppBands struct {
	Values []string `json:"values,omitempty"`
}

// BandValues returns the explicit band names defined by the overlay, or nil
// when the overlay leaves band discovery to the resolver.
func (s *Supplementary) BandValues() []string {
	if s == nil || s.Dimensions == nil || s.Dimensions.Bands == nil {
		return nil
	}
	return s.Dimensions.Bands.Values
}

// Merge applies the overlay onto base, field by field. A field the overlay
// does not define keeps its base value; this is the entire contract, so no
// blind map merge happens anywhere.
//
// Defining sci:citation also tags the collection with the scientific STAC
// extension, matching what clients expect when citations are present.
func Merge(base *Collection, supp *Supplementary) {
	if base == nil || supp == nil {
		return
	}
	if supp.Title != nil {
		base.Title = *supp.Title
	}
	if supp.Description != nil {
		base.Description = *supp.Description
	}
	if supp.Keywords != nil {
		base.Keywords = supp.Keywords
	}
	if supp.Providers != nil {
		base.Providers = supp.Providers
	}
	if supp.Version != nil {
		base.Version = *supp.Version
	}
	if supp.Deprecated != nil {
		base.Deprecated = supp.Deprecated
	}
	if supp.License != nil {
		base.License = *supp.License
	}
	if supp.Citation != nil {
		base.Citation = *supp.Citation
		base.StacExtensions = appendExtension(base.StacExtensions, ExtensionScientific)
	}
	if supp.Links != nil {
		base.Links = supp.Links
	}
	if supp.Summaries != nil {
		base.Summaries = mergeSummaries(supp.Summaries)
	}
}

func mergeSummaries(s *SuppSummaries) *Summaries {
	out := &Summaries{}
	if s.Rows != nil {
		out.Rows = marshalRaw(s.Rows)
	}
	if s.Columns != nil {
		out.Columns = marshalRaw(s.Columns)
	}
	if s.GSD != nil {
		out.GSD = marshalRaw(s.GSD)
	}
	if s.Constellation != nil {
		out.Constellation = marshalRaw(s.Constellation)
	}
	if s.Platform != nil {
		out.Platform = marshalRaw(s.Platform)
	}
	if s.Instruments != nil {
		out.Instruments = marshalRaw(s.Instruments)
	}
	if s.CloudCover != nil {
		out.CloudCover = marshalRaw(s.CloudCover)
	}
	return out
}

func marshalRaw(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

func appendExtension(exts []string, ext string) []string {
	for _, e := range exts {
		if e == ext {
			return exts
		}
	}
	return append(exts, ext)
}
