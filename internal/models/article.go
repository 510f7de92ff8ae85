// internal/models/article.go
package models

type ArticleSection struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

type ExternalResource struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source,omitempty"`
	// Substituted is set when the suggested link was replaced by a curated one.
	Substituted bool `json:"substituted"`
}

type Article struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Summary          string           `json:"summary"`
	Sections         []ArticleSection `json:"sections"`
	ExternalResource ExternalResource `json:"externalResource"`
	Generated        bool             `json:"generated"`
}
