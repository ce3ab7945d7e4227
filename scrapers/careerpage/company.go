package careerpage

import (
	"net/url"
	"strings"

	"github.com/LexiconIndonesia/recruiter-scraper/scrapers/ats"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var hostPrefixes = []string{"www.", "careers.", "jobs."}

// CompanyName derives a display company name from a career page URL. Vendor
// hosted boards name the company in their first path segment, other sites in
// their host.
func CompanyName(u *url.URL) string {
	name := ""
	if ats.HostedOnVendor(u.String()) {
		segment, _, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
		name = segment
	}
	if name == "" {
		host := strings.ToLower(u.Hostname())
		for _, prefix := range hostPrefixes {
			host = strings.TrimPrefix(host, prefix)
		}
		name, _, _ = strings.Cut(host, ".")
	}

	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return cases.Title(language.English).String(strings.Join(strings.Fields(name), " "))
}
