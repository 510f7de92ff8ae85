// internal/workers/roadmap/generate-roadmap/models.go
package generateroadmap

import "nanolez-eduai/internal/models"

type Input struct {
	Goal      string            `json:"goal"`
	Duration  models.FlexString `json:"duration"`
	Level     string            `json:"level"`
	Language  string            `json:"language"`
	Intensity string            `json:"intensity"`
	StudyTime models.FlexString `json:"studyTime"`
	UserID    string            `json:"userId"`
	// Structured selects the detailed prompt (intensity, study time) and
	// requires the model to return a title.
	Structured bool `json:"structured"`
}

type Output = models.Roadmap

// generated is the document the model is asked to return.
type generated struct {
	Title  string         `json:"title"`
	Months []models.Month `json:"months"`
}
