package ats

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
	"github.com/LexiconIndonesia/recruiter-scraper/common/utils"
	gq "github.com/PuerkitoBio/goquery"
)

const (
	minTitleLength = 5
	maxTitleLength = 200
)

var jobTitleRegex = regexp.MustCompile(`(?i)\b(engineer|developer|designer|manager|analyst|recruiter|director|intern|scientist|architect|specialist|coordinator|consultant|administrator|associate|representative|officer|technician|writer|executive|lead|head of)s?\b`)

type genericParser struct {
	now func() time.Time
}

// IsJobTitle reports whether link text looks like a job title
func IsJobTitle(text string) bool {
	n := utf8.RuneCountInString(text)
	if n < minTitleLength || n > maxTitleLength {
		return false
	}
	return jobTitleRegex.MatchString(text)
}

func (p genericParser) Parse(html, company, sourceURL string) ([]models.JobListing, error) {
	doc, err := newDocument(html)
	if err != nil {
		return nil, err
	}
	scrapedAt := p.now()

	seen := make(map[string]struct{})
	var jobs []models.JobListing
	doc.Find("a").Each(func(_ int, anchor *gq.Selection) {
		title := cleanText(anchor.Text())
		if !IsJobTitle(title) {
			return
		}
		key := strings.ToLower(title)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}

		href, _ := anchor.Attr("href")
		jobs = append(jobs, models.NewJobListing(title, company, utils.ResolveURL(sourceURL, href), scrapedAt))
	})
	return jobs, nil
}
