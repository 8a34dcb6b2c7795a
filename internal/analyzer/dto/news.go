package dto

// NewsAPIResponse is the /v2/everything response envelope.
type NewsAPIResponse struct {
	Status       string           `json:"status"`
	TotalResults int              `json:"totalResults"`
	Articles     []NewsAPIArticle `json:"articles"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
}

// NewsAPIArticle is one item of the articles array.
type NewsAPIArticle struct {
	Source      NewsAPISource `json:"source"`
	Author      string        `json:"author"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	PublishedAt string        `json:"publishedAt"`
	Content     string        `json:"content"`
}

// NewsAPISource identifies the outlet of a NewsAPI article.
type NewsAPISource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
