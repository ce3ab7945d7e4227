package socialsearch

type searchResponse struct {
	Data     []post   `json:"data"`
	Includes includes `json:"includes"`
}

type post struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	AuthorID string `json:"author_id"`
}

type includes struct {
	Users []user `json:"users"`
}

type user struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	Description string `json:"description"`
	Location    string `json:"location"`
}
