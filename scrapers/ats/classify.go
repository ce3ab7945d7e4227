package ats

import (
	"regexp"

	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
	"github.com/samber/mo"
)

// Experience levels
const (
	ExperienceIntern    = "intern"
	ExperienceEntry     = "entry"
	ExperienceMid       = "mid"
	ExperienceSenior    = "senior"
	ExperienceLead      = "lead"
	ExperienceExecutive = "executive"
)

var (
	hybridRegex = regexp.MustCompile(`(?i)\bhybrid\b`)
	remoteRegex = regexp.MustCompile(`(?i)\b(remote|anywhere|work from home|wfh|distributed)\b`)
)

type levelPattern struct {
	level string
	regex *regexp.Regexp
}

// first match wins
var experiencePatterns = []levelPattern{
	{ExperienceIntern, regexp.MustCompile(`(?i)\b(intern|internship|co-op|apprentice)\b`)},
	{ExperienceExecutive, regexp.MustCompile(`(?i)\b(chief|cto|ceo|cfo|coo|vp|vice president|director|head of)\b`)},
	{ExperienceLead, regexp.MustCompile(`(?i)\b(lead|principal|staff|manager)\b`)},
	{ExperienceSenior, regexp.MustCompile(`(?i)\b(senior|sr)\b`)},
	{ExperienceMid, regexp.MustCompile(`(?i)\b(mid[\s-]?level|intermediate)\b`)},
	{ExperienceEntry, regexp.MustCompile(`(?i)\b(junior|jr|entry[\s-]?level|graduate|new grad)\b`)},
}

// Classify fills location type and experience level from the title and
// location text. Fields already set, or with no matching signal, are left alone.
func Classify(job models.JobListing) models.JobListing {
	text := job.Title + " " + job.Location.OrEmpty()

	if job.LocationType.IsAbsent() {
		switch {
		case hybridRegex.MatchString(text):
			job.LocationType = mo.Some(models.LocationTypeHybrid)
		case remoteRegex.MatchString(text):
			job.LocationType = mo.Some(models.LocationTypeRemote)
		}
	}

	if job.ExperienceLevel.IsAbsent() {
		for _, p := range experiencePatterns {
			if p.regex.MatchString(job.Title) {
				job.ExperienceLevel = mo.Some(p.level)
				break
			}
		}
	}
	return job
}
