// internal/loan/predict/store.go
package predict

import (
	"path/filepath"

	"loan-intake-engine/internal/common/logger"
	"loan-intake-engine/internal/loan/product"
	"loan-intake-engine/pkg/artifact"
)

// Store holds the model bundles loaded at startup. A product whose
// artifact is missing or corrupt is simply absent from the store; requests
// for it fail fast instead of producing garbage predictions.
type Store struct {
	bundles map[string]*artifact.Bundle
	logger  logger.Logger
}

func NewStore(log logger.Logger) *Store {
	return &Store{
		bundles: map[string]*artifact.Bundle{},
		logger:  log,
	}
}

// LoadDir loads one bundle per registered product from dir. Load failures
// are logged and skipped, never fatal: the rest of the catalog stays
// serviceable.
func (s *Store) LoadDir(dir string, reg *product.Registry) {
	for _, id := range reg.IDs() {
		def, _ := reg.Get(id)
		path := filepath.Join(dir, def.ArtifactFile)

		b, err := artifact.Load(path)
		if err != nil {
			s.logger.Warn("model artifact unavailable, product disabled for prediction", map[string]interface{}{
				"product": id,
				"path":    path,
				"error":   err.Error(),
			})
			continue
		}

		s.bundles[id] = b
		s.logger.Info("model artifact loaded", map[string]interface{}{
			"product": id,
			"version": b.Version,
		})
	}
}

// Put registers a bundle directly. Used by tests and tooling.
func (s *Store) Put(productID string, b *artifact.Bundle) {
	s.bundles[productID] = b
}

// Bundle returns the loaded artifact for a product.
func (s *Store) Bundle(productID string) (*artifact.Bundle, bool) {
	b, ok := s.bundles[productID]
	return b, ok
}

// Available reports whether the product can serve predictions.
func (s *Store) Available(productID string) bool {
	_, ok := s.bundles[productID]
	return ok
}

// AvailableProducts lists products with a loaded model, for health checks.
func (s *Store) AvailableProducts() []string {
	ids := make([]string, 0, len(s.bundles))
	for id := range s.bundles {
		ids = append(ids, id)
	}
	return ids
}
