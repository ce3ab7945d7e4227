package scraper

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/LexiconIndonesia/recruiter-scraper/common/config"
	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
)

// Dependencies are handed to every Creator
type Dependencies struct {
	Config config.Config
	Base   *BaseScraper
}

// Creator builds a source from shared dependencies
type Creator func(deps Dependencies) (Scraper, error)

var (
	scraperRegistry     = make(map[models.Platform]Creator)
	scraperRegistryLock sync.RWMutex
)

// RegisterScraper registers a creator for a platform, replacing any previous one
func RegisterScraper(platform models.Platform, creator Creator) {
	scraperRegistryLock.Lock()
	defer scraperRegistryLock.Unlock()
	scraperRegistry[platform] = creator
}

// GetScraperRegistry returns a snapshot of the registry
func GetScraperRegistry() map[models.Platform]Creator {
	scraperRegistryLock.RLock()
	defer scraperRegistryLock.RUnlock()

	registryCopy := make(map[models.Platform]Creator, len(scraperRegistry))
	maps.Copy(registryCopy, scraperRegistry)

	return registryCopy
}

// Platforms returns the registered platforms, sorted
func Platforms() []models.Platform {
	return slices.Sorted(maps.Keys(GetScraperRegistry()))
}

// IsRegistered reports whether a source exists for the platform
func IsRegistered(platform models.Platform) bool {
	scraperRegistryLock.RLock()
	defer scraperRegistryLock.RUnlock()
	_, ok := scraperRegistry[platform]
	return ok
}

// New creates the source registered for platform
func New(platform models.Platform, deps Dependencies) (Scraper, error) {
	scraperRegistryLock.RLock()
	creator, ok := scraperRegistry[platform]
	scraperRegistryLock.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}

	s, err := creator(deps)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s scraper: %w", platform, err)
	}
	return s, nil
}
