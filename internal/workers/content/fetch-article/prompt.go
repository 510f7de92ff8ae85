// internal/workers/content/fetch-article/prompt.go
package fetcharticle

import "fmt"

const systemPrompt = `You are an Expert Knowledge Miner. Your goal is to provide the most high-value direct resources available.

CRITICAL YOUTUBE LOGIC:
1. Search for high-value, specific video tutorials (watch for channels like freeCodeCamp, MIT, Fireship, or industry leaders).
2. If you find a direct, high-quality video URL, use it in the JSON.
3. If NO high-value direct video is available, provide a pre-formatted search query URL.

MANDATORY JSON FORMAT: {
  "title": "string",
  "subtitle": "string",
  "deepDive": "3 paragraph explanation",
  "technicalConcepts": [{"term": "name", "explanation": "desc"}],
  "steps": ["step 1", "step 2"],
  "practiceLab": "code or task",
  "resources": {
    "article": {"title": "Full Guide", "url": "string"},
    "video": {"title": "Tutorial/Search", "url": "string"}
  }
}`

func buildPrompt(in *Input) string {
	return fmt.Sprintf(`Research and explain: %q. context: %s. Language: %s.
RESOURCES TASK:
- Find a direct, high-value YouTube video URL if this is the first article.
- If no specific high-value video is found OR this is not the first article, set resources.video.url to: https://www.youtube.com/results?search_query=[topic_in_%s]
- Find a high-value article/doc URL. If not found, use a search link.`,
		in.Topic, in.Task, in.Language, in.Language)
}
