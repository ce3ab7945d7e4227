package peoplenetwork

// searchResponse is one page of the person search API
type searchResponse struct {
	Results  []searchResult `json:"results"`
	NextPage *string        `json:"next_page"`
}

type searchResult struct {
	LinkedInProfileURL string   `json:"linkedin_profile_url"`
	Profile            *profile `json:"profile"`
}

type profile struct {
	FullName        string  `json:"full_name"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Occupation      *string `json:"occupation"`
	Headline        *string `json:"headline"`
	City            *string `json:"city"`
	State           *string `json:"state"`
	CountryFullName *string `json:"country_full_name"`
}
