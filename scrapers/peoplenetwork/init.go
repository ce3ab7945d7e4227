package peoplenetwork

import (
	"fmt"

	"github.com/LexiconIndonesia/recruiter-scraper/common"
	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
	"github.com/LexiconIndonesia/recruiter-scraper/common/scraper"
)

func init() {
	scraper.RegisterScraper(models.PlatformPeopleNetwork, CreatePeopleNetworkScraper)
}

// CreatePeopleNetworkScraper creates a people network scraper. The API key is
// checked when scraping so that the registry can list the platform without it.
func CreatePeopleNetworkScraper(deps scraper.Dependencies) (scraper.Scraper, error) {
	if deps.Base == nil {
		return nil, fmt.Errorf("%w: people network scraper needs a base scraper", common.ErrInvalidConfig)
	}
	return NewPeopleNetworkScraper(Config{
		SearchURL: deps.Config.PeopleSearch.URL,
		APIKey:    deps.Config.PeopleSearch.APIKey,
	}, deps.Base), nil
}
