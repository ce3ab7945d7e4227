package ats

import (
	"net/url"
	"strings"
)

// ATS identifies the applicant tracking system behind a career page
type ATS string

const (
	Greenhouse ATS = "greenhouse"
	Lever      ATS = "lever"
	Generic    ATS = "generic"
)

var (
	greenhouseMarkers = []string{"boards.greenhouse.io", "grnhse_app", "greenhouse-job-board"}
	leverMarkers      = []string{"jobs.lever.co", "lever-jobs-container", "posting-title"}
)

// DetectATS classifies a career page by its URL first and its markup second
func DetectATS(pageURL, html string) ATS {
	lowerURL := strings.ToLower(pageURL)
	if u, err := url.Parse(lowerURL); err == nil && strings.Contains(u.Host, "greenhouse.io") {
		return Greenhouse
	}
	if strings.Contains(lowerURL, "boards.greenhouse.io") {
		return Greenhouse
	}
	if strings.Contains(lowerURL, "jobs.lever.co") {
		return Lever
	}

	if containsAny(html, greenhouseMarkers) {
		return Greenhouse
	}
	if containsAny(html, leverMarkers) {
		return Lever
	}
	return Generic
}

// HostedOnVendor reports whether the URL itself belongs to the ATS vendor,
// in which case the first path segment names the company
func HostedOnVendor(pageURL string) bool {
	u, err := url.Parse(strings.ToLower(pageURL))
	if err != nil {
		return false
	}
	return strings.HasSuffix(u.Host, "greenhouse.io") || u.Host == "jobs.lever.co"
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
