package models

type UserSearchResult struct {
	Username string `json:"username"`
}

type PostSearchResult struct {
	Description string `json:"description"`
}

type ResearchSearchResult struct {
	Title string `json:"title"`
}

type SearchResults struct {
	Users    []UserSearchResult     `json:"users"`
	Posts    []PostSearchResult     `json:"posts"`
	Research []ResearchSearchResult `json:"research"`
}
