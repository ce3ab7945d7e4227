package socialsearch

import (
	"fmt"

	"github.com/LexiconIndonesia/recruiter-scraper/common"
	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
	"github.com/LexiconIndonesia/recruiter-scraper/common/scraper"
)

func init() {
	scraper.RegisterScraper(models.PlatformSocialSearch, CreateSocialSearchScraper)
}

// CreateSocialSearchScraper creates a social search scraper
func CreateSocialSearchScraper(deps scraper.Dependencies) (scraper.Scraper, error) {
	if deps.Base == nil {
		return nil, fmt.Errorf("%w: social search scraper needs a base scraper", common.ErrInvalidConfig)
	}
	return NewSocialSearchScraper(Config{
		SearchURL:   deps.Config.SocialSearch.URL,
		BearerToken: deps.Config.SocialSearch.BearerToken,
	}, deps.Base), nil
}
