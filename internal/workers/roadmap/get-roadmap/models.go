// internal/workers/roadmap/get-roadmap/models.go
package getroadmap

import "nanolez-eduai/internal/models"

type Input struct {
	RoadmapID string `json:"roadmapId"`
}

type Output = models.Roadmap
