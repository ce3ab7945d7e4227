package ats

import (
	"time"

	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
	"github.com/LexiconIndonesia/recruiter-scraper/common/utils"
	gq "github.com/PuerkitoBio/goquery"
)

type leverParser struct {
	now func() time.Time
}

func (p leverParser) Parse(html, company, sourceURL string) ([]models.JobListing, error) {
	doc, err := newDocument(html)
	if err != nil {
		return nil, err
	}
	scrapedAt := p.now()

	var jobs []models.JobListing
	doc.Find(".posting").Each(func(_ int, posting *gq.Selection) {
		anchor := posting.Find("a.posting-title").First()
		title := cleanText(anchor.Find("h5").First().Text())
		if title == "" {
			return
		}
		href, _ := anchor.Attr("href")

		categories := posting.Find(".posting-categories").First()
		job := models.NewJobListing(title, company, utils.ResolveURL(sourceURL, href), scrapedAt)
		job.Location = optionalText(categories, ".sort-by-location")
		job.Department = optionalText(categories, ".sort-by-team")
		job.EmploymentType = optionalText(categories, ".sort-by-commitment")
		job.Description = description(posting)
		jobs = append(jobs, job)
	})
	return jobs, nil
}
