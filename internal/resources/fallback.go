package resources

import (
	"net/url"
	"strings"
)

type Kind string

const (
	KindArticle Kind = "article"
	KindVideo   Kind = "video"
)

const youtubeSearchURL = "https://www.youtube.com/results?search_query="

// FallbackResource is a curated substitute for a rejected link.
type FallbackResource struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Type       string `json:"type"` // search | verified
	Status     string `json:"status"`
	Platform   string `json:"platform"`
	Confidence string `json:"confidence"` // high | medium | low
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// ClassifyTopic buckets a topic by keyword. Programming is checked first.
func ClassifyTopic(topic string) Category {
	lower := strings.ToLower(topic)
	switch {
	case containsAny(lower, programmingKeywords):
		return CategoryProgramming
	case containsAny(lower, dataScienceKeywords):
		return CategoryDataScience
	default:
		return CategoryGeneral
	}
}

// DetectLanguage finds a language hint in the topic text, falling back to
// language when it has a search phrase, then to English.
func DetectLanguage(topic, language string) string {
	lower := strings.ToLower(topic)
	for _, hint := range languageHints {
		if containsAny(lower, hint.words) {
			return hint.lang
		}
	}
	if _, ok := searchPhrases[language]; ok {
		return language
	}
	return defaultLanguage
}

// GetFallbackResource returns the curated substitute for topic. Videos become
// a localized YouTube search, articles the first verified platform of the
// topic's category.
func GetFallbackResource(topic string, kind Kind) FallbackResource {
	return fallbackFor(topic, "", kind)
}

func fallbackFor(topic, language string, kind Kind) FallbackResource {
	if kind == KindVideo {
		phrase := searchPhrases[DetectLanguage(topic, language)]
		return FallbackResource{
			Title:      topic + " - Video Tutorial Search",
			URL:        youtubeSearchURL + url.QueryEscape(topic+" "+phrase),
			Type:       "search",
			Status:     "valid",
			Platform:   "YouTube",
			Confidence: "high",
		}
	}

	platforms := verifiedPlatforms[ClassifyTopic(topic)]
	return FallbackResource{
		Title:      topic + " - Comprehensive Guide",
		URL:        platforms[0],
		Type:       "verified",
		Status:     "valid",
		Platform:   "Verified Educational Platform",
		Confidence: "high",
	}
}
