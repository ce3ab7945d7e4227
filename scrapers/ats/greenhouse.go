package ats

import (
	"strings"
	"time"

	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
	"github.com/LexiconIndonesia/recruiter-scraper/common/utils"
	gq "github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type greenhouseParser struct {
	now func() time.Time
}

func (p greenhouseParser) Parse(html, company, sourceURL string) ([]models.JobListing, error) {
	doc, err := newDocument(html)
	if err != nil {
		return nil, err
	}
	scrapedAt := p.now()

	var jobs []models.JobListing
	doc.Find(".opening").Each(func(_ int, opening *gq.Selection) {
		anchor := opening.Find("a").First()
		title := cleanText(anchor.Text())
		if title == "" {
			return
		}
		href, _ := anchor.Attr("href")

		job := models.NewJobListing(title, company, utils.ResolveURL(sourceURL, href), scrapedAt)
		job.Location = optionalText(opening, ".location")
		job.Department = greenhouseDepartment(opening)
		job.Description = description(opening)
		jobs = append(jobs, job)
	})
	if len(jobs) > 0 {
		return jobs, nil
	}

	// custom-styled boards
	doc.Find(`[class*="opening"], [class*="job"]`).Each(func(_ int, el *gq.Selection) {
		anchor := el.Find("a").First()
		if anchor.Length() == 0 {
			return
		}
		title := cleanText(anchor.Text())
		if title == "" {
			return
		}
		href, _ := anchor.Attr("href")

		job := models.NewJobListing(title, company, utils.ResolveURL(sourceURL, href), scrapedAt)
		job.Location = optionalText(el, `[class*="location"]`)
		job.Description = description(el)
		jobs = append(jobs, job)
	})

	// nested matches repeat their first anchor
	return lo.UniqBy(jobs, func(j models.JobListing) string {
		return j.SourceURL + "|" + strings.ToLower(j.Title)
	}), nil
}

// greenhouseDepartment reads the heading of the department section holding the opening
func greenhouseDepartment(opening *gq.Selection) mo.Option[string] {
	section := opening.ParentsFiltered("section").First()
	if section.Length() == 0 {
		return mo.None[string]()
	}
	heading := cleanText(section.ChildrenFiltered("h2, h3, h4").First().Text())
	if heading == "" {
		return mo.None[string]()
	}
	return mo.Some(heading)
}
