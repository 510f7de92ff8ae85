// internal/workers/roadmap/generate-roadmap/prompt.go
package generateroadmap

import "fmt"

const (
	systemPrompt = "You are an expert educational content creator. Always respond with valid JSON only, no additional text."

	structuredSystemPrompt = "You are a Pedagogical Architect and a academician researcher. Create concise, hierarchical learning paths including every month, every week, and 7 days. OUTPUT JSON ONLY."
)

func buildPrompt(in *Input) string {
	return fmt.Sprintf(`Create a comprehensive learning roadmap for the following:
  Goal: %s
  Duration: %s
  Level: %s
  Language: %s

Please respond with a JSON object containing exactly this structure:
{
  "title": "Descriptive title for this roadmap",
  "months": [
    {
      "name": "Month name",
      "overview": "Brief overview of this month's goals",
      "weeks": [
        {
          "name": "Week name",
          "weeklyGoal": "Primary goal for this week",
          "days": [
            {
              "day": 1,
              "topic": "Specific learning topic",
              "task": "Detailed task description for practice"
            }
          ]
        }
      ]
    }
  ]
}

Create a realistic %s roadmap with 4 weeks per month, 7 days per week. Make the content specific and educational.`,
		in.Goal, in.Duration, in.Level, in.Language, in.Duration)
}

func buildStructuredPrompt(in *Input) string {
	return fmt.Sprintf(`Generate a learning path for: %q. Level: %s. Duration: %s month(s). Study: %s h/day. Language: %s.
JSON Schema: { "title": "string", "months": [{ "name": "string", "weeks": [{ "name": "string", "goal": "string", "days": [{ "day": number, "topic": "string", "task": "string" }] }] }] }`,
		in.Goal, in.Intensity, in.Duration, in.StudyTime, in.Language)
}
