package resolver

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/odcplane/odcplane/pkg/stac"
)

// SupplementaryFileName returns the overlay document name for a collection.
func SupplementaryFileName(collection string) string {
	return collection + "_supp_metadata.json"
}

// loadSupplementary reads the overlay document for the collection. A
// missing file is normal and returns nil; an unreadable or unparseable
// file is an enrichment failure, logged and skipped.
func (r *Resolver) loadSupplementary(name string) *stac.Supplementary {
	if r.cfg.SupplementaryDir == "" {
		return nil
	}

	path := filepath.Join(r.cfg.SupplementaryDir, SupplementaryFileName(name))
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("Supplementary metadata unreadable",
				zap.String("collection", name),
				zap.String("path", path),
				zap.Error(err))
		}
		return nil
	}

	var supp stac.Supplementary
	if err := json.Unmarshal(b, &supp); err != nil {
		r.logger.Warn("Supplementary metadata unparseable",
			zap.String("collection", name),
			zap.String("path", path),
			zap.Error(err))
		return nil
	}
	return &supp
}
