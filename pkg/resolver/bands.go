package resolver

import (
	"fmt"
	"sort"

	"github.com/odcplane/odcplane/pkg/stac"
)

// discoverBands collects band names from the first item's measurement
// assets, excluding the location asset. Asset keys are walked in sorted
// order so repeated resolutions of the same collection produce the same
// sequence.
func discoverBands(items *stac.ItemCollection) ([]string, error) {
	if items == nil || len(items.Features) == 0 {
		return nil, nil
	}

	assets := items.Features[0].Assets
	if len(assets) == 0 {
		return nil, fmt.Errorf("first item has no assets")
	}

	keys := make([]string, 0, len(assets))
	for key := range assets {
		if key == stac.LocationAssetKey {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var values []string
	for _, key := range keys {
		values = append(values, assets[key].BandNames()...)
	}
	return values, nil
}
