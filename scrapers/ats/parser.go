package ats

import (
	"fmt"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	mdp "github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
	gq "github.com/PuerkitoBio/goquery"
	"github.com/samber/mo"
)

// Parser extracts job listings from a career page
type Parser interface {
	Parse(html, company, sourceURL string) ([]models.JobListing, error)
}

// NewParser returns the parser for an ATS, stamping listings with now.
// Unknown values get the generic parser.
func NewParser(kind ATS, now func() time.Time) Parser {
	switch kind {
	case Greenhouse:
		return greenhouseParser{now: now}
	case Lever:
		return leverParser{now: now}
	default:
		return genericParser{now: now}
	}
}

func newDocument(html string) (*gq.Document, error) {
	doc, err := gq.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return doc, nil
}

// cleanText collapses runs of whitespace
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// optionalText returns the cleaned text of the first match, absent when empty
func optionalText(sel *gq.Selection, selector string) mo.Option[string] {
	text := cleanText(sel.Find(selector).First().Text())
	if text == "" {
		return mo.None[string]()
	}
	return mo.Some(text)
}

func newConverter() *md.Converter {
	converter := md.NewConverter("", true, nil)
	converter.Use(mdp.GitHubFlavored())
	converter.AddRules(
		md.Rule{
			Filter: []string{"h5", "h6"},
			Replacement: func(content string, selec *gq.Selection, options *md.Options) *string {
				content = strings.TrimSpace(content)
				return md.String("#### " + content)
			},
		},
	)
	return converter
}

// description converts an inline description block to markdown
func description(sel *gq.Selection) mo.Option[string] {
	block := sel.Find(".description, .posting-description").First()
	if block.Length() == 0 {
		return mo.None[string]()
	}
	markdown := strings.TrimSpace(newConverter().Convert(block))
	if markdown == "" {
		return mo.None[string]()
	}
	return mo.Some(markdown)
}
