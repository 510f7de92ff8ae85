// internal/models/roadmap.go
package models

import (
	"encoding/json"
	"time"
)

type Day struct {
	Day       int     `json:"day"`
	Topic     string  `json:"topic"`
	Task      string  `json:"task"`
	Completed bool    `json:"completed"`
	ArticleID *string `json:"articleId"`
}

type Week struct {
	Name       string `json:"name"`
	WeeklyGoal string `json:"weeklyGoal"`
	Days       []Day  `json:"days"`
}

// UnmarshalJSON also accepts "goal", which some prompts ask the model for.
func (w *Week) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name       string `json:"name"`
		WeeklyGoal string `json:"weeklyGoal"`
		Goal       string `json:"goal"`
		Days       []Day  `json:"days"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	w.Name = raw.Name
	w.WeeklyGoal = raw.WeeklyGoal
	if w.WeeklyGoal == "" {
		w.WeeklyGoal = raw.Goal
	}
	w.Days = raw.Days
	return nil
}

type Month struct {
	Name     string `json:"name"`
	Overview string `json:"overview"`
	Weeks    []Week `json:"weeks"`
}

type RoadmapMeta struct {
	Goal      string `json:"goal"`
	Duration  string `json:"duration"`
	StudyTime string `json:"studyTime,omitempty"`
	Intensity string `json:"intensity,omitempty"`
}

type Roadmap struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Goal          string      `json:"goal"`
	Duration      string      `json:"duration"`
	Level         string      `json:"level"`
	Language      string      `json:"language"`
	Progress      int         `json:"progress"`
	Months        []Month     `json:"months"`
	CompletedDays []string    `json:"completedDays"`
	Meta          RoadmapMeta `json:"meta"`
	// Generated is false when the roadmap came from the offline template.
	Generated bool      `json:"generated"`
	CreatedAt time.Time `json:"createdAt"`
}

// Normalize resets per-day progress and fills missing day numbers.
func (r *Roadmap) Normalize() {
	if r.Months == nil {
		r.Months = []Month{}
	}
	if r.CompletedDays == nil {
		r.CompletedDays = []string{}
	}
	for mi := range r.Months {
		for wi := range r.Months[mi].Weeks {
			days := r.Months[mi].Weeks[wi].Days
			for di := range days {
				days[di].Completed = false
				days[di].ArticleID = nil
				if days[di].Day == 0 {
					days[di].Day = di + 1
				}
			}
		}
	}
}

// DayCount is the total number of days across all months.
func (r *Roadmap) DayCount() int {
	n := 0
	for _, m := range r.Months {
		for _, w := range m.Weeks {
			n += len(w.Days)
		}
	}
	return n
}
