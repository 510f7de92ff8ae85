// internal/workers/content/generate-article/models.go
package generatearticle

import "nanolez-eduai/internal/models"

type Input struct {
	Topic    string `json:"topic"`
	Language string `json:"language"`
}

type Output = models.Article

type generated struct {
	Title            string                   `json:"title"`
	Summary          string                   `json:"summary"`
	Sections         []models.ArticleSection  `json:"sections"`
	ExternalResource *models.ExternalResource `json:"externalResource"`
}
