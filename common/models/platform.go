package models

// Platform identifies a scraper implementation and is stored on every scrape run
type Platform string

const (
	// PlatformCareerPage scrapes company career pages hosted on an ATS
	PlatformCareerPage Platform = "career-page"
	// PlatformPeopleNetwork searches a professional network for recruiter profiles
	PlatformPeopleNetwork Platform = "people-network"
	// PlatformSocialSearch searches social posts for hiring recruiters
	PlatformSocialSearch Platform = "social-search"
)

func (p Platform) String() string {
	return string(p)
}

// RecordSource is the source tag written on persisted recruiters and job listings
type RecordSource string

const (
	SourceCompanyPage         RecordSource = "company-page"
	SourceProfessionalNetwork RecordSource = "linkedin"
	SourceSocialMedia         RecordSource = "twitter"
)
