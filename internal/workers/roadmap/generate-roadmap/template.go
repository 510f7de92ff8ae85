// internal/workers/roadmap/generate-roadmap/template.go
package generateroadmap

import (
	"fmt"
	"strings"

	"nanolez-eduai/internal/models"
)

var monthStages = []string{"Foundation", "Intermediate", "Advanced", "Mastery", "Specialization", "Expert"}

const maxTemplateMonths = 12

// templateMonthCount reads "1 Month" and "3 Months" literally, then any
// leading number, and defaults to six months.
func templateMonthCount(duration models.FlexString) int {
	switch duration {
	case "1 Month":
		return 1
	case "3 Months":
		return 3
	}
	if n, ok := duration.Int(); ok && n > 0 {
		if n > maxTemplateMonths {
			return maxTemplateMonths
		}
		return n
	}
	return 6
}

// templateMonths builds the offline roadmap: 4 weeks of 7 days per month.
func templateMonths(goal, level string, monthCount int) []models.Month {
	lvl := strings.ToLower(level)
	months := make([]models.Month, 0, monthCount)
	for m := 0; m < monthCount; m++ {
		stage := "Learning"
		if m < len(monthStages) {
			stage = monthStages[m]
		}
		weeks := make([]models.Week, 0, 4)
		for w := 0; w < 4; w++ {
			days := make([]models.Day, 0, 7)
			for d := 0; d < 7; d++ {
				days = append(days, models.Day{
					Day:   d + 1,
					Topic: fmt.Sprintf("%s - Day %d", goal, d+1),
					Task:  fmt.Sprintf("Complete hands-on practice and exercises for %s concepts", goal),
				})
			}
			weeks = append(weeks, models.Week{
				Name:       fmt.Sprintf("Week %d", w+1),
				WeeklyGoal: fmt.Sprintf("Build upon previous knowledge and develop %s skills", lvl),
				Days:       days,
			})
		}
		months = append(months, models.Month{
			Name:     fmt.Sprintf("Month %d: %s", m+1, stage),
			Overview: fmt.Sprintf("Develop %s understanding of %s", lvl, goal),
			Weeks:    weeks,
		})
	}
	return months
}
