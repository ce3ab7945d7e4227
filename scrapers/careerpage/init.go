package careerpage

import (
	"fmt"

	"github.com/LexiconIndonesia/recruiter-scraper/common"
	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
	"github.com/LexiconIndonesia/recruiter-scraper/common/scraper"
)

// init registers the career page scraper with the scraper registry
func init() {
	scraper.RegisterScraper(models.PlatformCareerPage, CreateCareerPageScraper)
}

// CreateCareerPageScraper creates a career page scraper
func CreateCareerPageScraper(deps scraper.Dependencies) (scraper.Scraper, error) {
	if deps.Base == nil {
		return nil, fmt.Errorf("%w: career page scraper needs a base scraper", common.ErrInvalidConfig)
	}
	return NewCareerPageScraper(deps.Base), nil
}
