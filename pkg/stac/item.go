package stac

import (
	"encoding/json"
	"fmt"
)

// ItemCollection is the feature-collection response from the discovery
// service's items endpoint.
type ItemCollection struct {
	Features []Item `json:"features"`
}

// Item is a single catalog item; only the asset listing is consumed here.
type Item struct {
	Assets map[string]Asset `json:"assets"`
}

// LocationAssetKey names the asset pointing at the dataset document rather
// than at measurement data. It is excluded from band discovery.
const LocationAssetKey = "location"

// Asset describes one item asset. Href carries the dataset document link
// for the location asset; Bands carries eo:bands entries for measurement
// assets.
type Asset struct {
	Href  string    `json:"href,omitempty"`
	Bands []BandRef `json:"eo:bands,omitempty"`
}

// BandRef is one eo:bands entry.
//
// Different explorer versions emit either a bare band name or an object
// with a name field; both decode to a plain name.
type BandRef struct {
	Name string
}

func (b *BandRef) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		b.Name = name
		return nil
	}

	var obj struct {
		Name *string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("parse band entry: %w", err)
	}
	if obj.Name == nil {
		return fmt.Errorf("band entry has no name field")
	}
	b.Name = *obj.Name
	return nil
}

func (b BandRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Name)
}

// BandNames flattens the asset's band references to plain names.
func (a Asset) BandNames() []string {
	if len(a.Bands) == 0 {
		return nil
	}
	out := make([]string, 0, len(a.Bands))
	for _, b := range a.Bands {
		out = append(out, b.Name)
	}
	return out
}
