// internal/workers/content/fetch-article/models.go
package fetcharticle

import "nanolez-eduai/internal/resources"

type Input struct {
	Topic          string `json:"topic"`
	Task           string `json:"task"`
	Language       string `json:"language"`
	RoadmapID      string `json:"roadmapId"`
	IsFirstArticle bool   `json:"isFirstArticle"`
}

type TechnicalConcept struct {
	Term        string `json:"term"`
	Explanation string `json:"explanation"`
}

type ResourceValidation struct {
	ArticleStatus  string `json:"articleStatus"`
	VideoStatus    string `json:"videoStatus"`
	ValidatedAt    string `json:"validatedAt"`
	IsFirstArticle bool   `json:"isFirstArticle"`
}

// Output is a lesson article for one roadmap day.
type Output struct {
	Title              string                      `json:"title"`
	Subtitle           string                      `json:"subtitle"`
	DeepDive           string                      `json:"deepDive"`
	TechnicalConcepts  []TechnicalConcept          `json:"technicalConcepts"`
	Steps              []string                    `json:"steps"`
	PracticeLab        string                      `json:"practiceLab"`
	Resources          resources.EnhancedResources `json:"resources"`
	ResourceValidation ResourceValidation          `json:"resourceValidation"`
	DayID              string                      `json:"dayId"`
	Topic              string                      `json:"topic"`
	Task               string                      `json:"task"`
}
