package socialsearch

import (
	"regexp"
	"strings"

	"github.com/samber/mo"
)

// rolePatterns are tried in order, the first match is the role
var rolePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(head of (?:talent|recruiting|recruitment|people)(?: acquisition)?)\b`),
	regexp.MustCompile(`(?i)\b(talent acquisition (?:partner|manager|lead|specialist|director))\b`),
	regexp.MustCompile(`(?i)\b((?:(?:senior|sr|lead|principal)\.?\s+)?(?:(?:technical|tech|executive|engineering|it)\s+)?recruiter)\b`),
	regexp.MustCompile(`(?i)\b(talent (?:partner|acquisition|scout))\b`),
	regexp.MustCompile(`(?i)\b((?:technical\s+)?sourcer)\b`),
	regexp.MustCompile(`(?i)\b(hiring manager)\b`),
}

// companyRegex captures up to four capitalised words after "at"
var companyRegex = regexp.MustCompile(`\b[Aa]t\s+([A-Z][\w&\-]*(?:\s+[A-Z][\w&\-]*){0,3})`)

// RoleFromBio returns the first role pattern found in a bio
func RoleFromBio(bio string) mo.Option[string] {
	for _, p := range rolePatterns {
		if m := p.FindStringSubmatch(bio); m != nil {
			return mo.Some(strings.Join(strings.Fields(m[1]), " "))
		}
	}
	return mo.None[string]()
}

// CompanyFromBio returns the company named in an "at <Company>" phrase
func CompanyFromBio(bio string) mo.Option[string] {
	m := companyRegex.FindStringSubmatch(bio)
	if m == nil {
		return mo.None[string]()
	}
	company := strings.TrimRight(m[1], "-&")
	if company == "" {
		return mo.None[string]()
	}
	return mo.Some(company)
}
