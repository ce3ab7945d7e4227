// Package scrapers links every source into the binary. Each source registers
// itself with the scraper registry from its init function.
package scrapers

import (
	_ "github.com/LexiconIndonesia/recruiter-scraper/scrapers/careerpage"
	_ "github.com/LexiconIndonesia/recruiter-scraper/scrapers/peoplenetwork"
	_ "github.com/LexiconIndonesia/recruiter-scraper/scrapers/socialsearch"
)
