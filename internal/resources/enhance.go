package resources

import (
	"fmt"
	"strings"

	"nanolez-eduai/internal/common/logger"
	"nanolez-eduai/internal/common/metrics"
)

// Resource is a link as suggested by a provider.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Resources holds the two slots an article carries.
type Resources struct {
	Article *Resource `json:"article,omitempty"`
	Video   *Resource `json:"video,omitempty"`
}

// EnhancedResource is a slot after validation: either the original link with
// its verdict or a fallback.
type EnhancedResource struct {
	Title       string             `json:"title"`
	URL         string             `json:"url"`
	Type        string             `json:"type"`
	Status      string             `json:"status"`
	Platform    string             `json:"platform,omitempty"`
	Confidence  string             `json:"confidence"`
	Validation  *ValidatedResource `json:"validation,omitempty"`
	Substituted bool               `json:"substituted"`
	Reason      string             `json:"reason,omitempty"`
}

type EnhancedResources struct {
	Article EnhancedResource `json:"article"`
	Video   EnhancedResource `json:"video"`
}

// Substitution reasons.
const (
	ReasonMissing       = "missing"
	ReasonInvalid       = "invalid"
	ReasonLowConfidence = "low_confidence"
	ReasonDirectVideo   = "direct_video"
)

// Enhancer applies ValidateAndEnhanceResources and logs substitutions.
type Enhancer struct {
	logger logger.Logger
}

func NewEnhancer(log logger.Logger) *Enhancer {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Enhancer{logger: log}
}

// ValidateAndEnhanceResources runs with a silent Enhancer.
func ValidateAndEnhanceResources(in Resources, topic, language string, isFirstArticle bool) EnhancedResources {
	return NewEnhancer(nil).ValidateAndEnhance(in, topic, language, isFirstArticle)
}

// ValidateAndEnhance never fails: every rejected or missing slot is filled
// with a fallback. Direct video links survive only for the first article.
func (e *Enhancer) ValidateAndEnhance(in Resources, topic, language string, isFirstArticle bool) EnhancedResources {
	return EnhancedResources{
		Article: e.Article(in.Article, topic, language),
		Video:   e.Video(in.Video, topic, language, isFirstArticle),
	}
}

// Article validates a single article link.
func (e *Enhancer) Article(r *Resource, topic, language string) EnhancedResource {
	if r == nil || r.URL == "" {
		return e.substitute(KindArticle, topic, language, ReasonMissing, nil)
	}
	v := ValidateURL(r.URL)
	if !v.Valid {
		return e.substitute(KindArticle, topic, language, ReasonInvalid, &v)
	}
	if v.Confidence < MinConfidence {
		return e.substitute(KindArticle, topic, language, ReasonLowConfidence, &v)
	}
	return kept(r, v)
}

func (e *Enhancer) Video(r *Resource, topic, language string, isFirstArticle bool) EnhancedResource {
	if r == nil || r.URL == "" {
		return e.substitute(KindVideo, topic, language, ReasonMissing, nil)
	}
	v := ValidateURL(r.URL)
	if !v.Valid {
		return e.substitute(KindVideo, topic, language, ReasonInvalid, &v)
	}
	if !isFirstArticle && IsDirectVideoLink(r.URL) {
		return e.substitute(KindVideo, topic, language, ReasonDirectVideo, &v)
	}
	return kept(r, v)
}

// IsDirectVideoLink reports links that point at one specific video.
func IsDirectVideoLink(raw string) bool {
	return strings.Contains(raw, "watch?v=") || strings.Contains(raw, "youtu.be")
}

func kept(r *Resource, v ValidatedResource) EnhancedResource {
	return EnhancedResource{
		Title:      r.Title,
		URL:        r.URL,
		Type:       "direct",
		Status:     "valid",
		Confidence: ConfidenceLevel(v.Confidence),
		Validation: &v,
	}
}

func (e *Enhancer) substitute(kind Kind, topic, language, reason string, v *ValidatedResource) EnhancedResource {
	fb := fallbackFor(topic, language, kind)
	metrics.ResourceSubstitutions.WithLabelValues(string(kind), reason).Inc()

	fields := map[string]interface{}{
		"slot":     string(kind),
		"reason":   reason,
		"fallback": fb.URL,
	}
	if v != nil {
		fields["url"] = v.URL
		fields["issues"] = v.Issues
	}
	e.logger.Info("resource replaced with fallback", fields)

	return EnhancedResource{
		Title:       fb.Title,
		URL:         fb.URL,
		Type:        fb.Type,
		Status:      fb.Status,
		Platform:    fb.Platform,
		Confidence:  fb.Confidence,
		Validation:  v,
		Substituted: true,
		Reason:      reason,
	}
}

// EnhanceResourcePrompt wraps an article prompt with link-quality rules and
// platform suggestions for the topic family.
func EnhanceResourcePrompt(prompt, topic, language string, isFirstArticle bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate educational resources for: %s\n\n", prompt)
	b.WriteString("IMPORTANT REQUIREMENTS:\n")
	b.WriteString("1. ONLY use HTTPS URLs (http:// links are NOT allowed)\n")
	b.WriteString("2. Prioritize official documentation and well-known educational platforms\n")
	b.WriteString("3. For articles: First resource should be direct link to article, others should be search URLs\n")
	if isFirstArticle {
		b.WriteString("4. For videos: a direct link to a renowned channel's video is allowed\n")
	} else {
		b.WriteString("4. For videos: use a YouTube search URL, not a direct video link\n")
	}
	b.WriteString("5. Ensure all URLs are working and accessible\n")
	if language != "" && language != defaultLanguage {
		fmt.Fprintf(&b, "6. Prefer resources written in language %q when available\n", language)
	}
	b.WriteString("\n")

	lower := strings.ToLower(topic)
	switch {
	case containsAny(lower, []string{"javascript", "react", "html", "css"}):
		b.WriteString("RECOMMENDED PLATFORMS FOR WEB DEVELOPMENT:\n")
		b.WriteString("- Primary: developer.mozilla.org, javascript.info, web.dev\n")
		b.WriteString("- Secondary: freecodecamp.org, css-tricks.com, codecademy.com\n\n")
	case containsAny(lower, []string{"python", "pandas", "data"}):
		b.WriteString("RECOMMENDED PLATFORMS FOR DATA SCIENCE:\n")
		b.WriteString("- Primary: pandas.pydata.org, numpy.org, python.org\n")
		b.WriteString("- Secondary: kaggle.com/learn, datacamp.com, coursera.org\n\n")
	case strings.Contains(lower, "php"):
		b.WriteString("RECOMMENDED PLATFORMS FOR PHP:\n")
		b.WriteString("- Primary: php.net, laravel.com\n")
		b.WriteString("- Secondary: freecodecamp.org, w3schools.com\n\n")
	}

	b.WriteString("RESPONSE FORMAT:\n")
	b.WriteString("Return a JSON array of resources with title and url fields.\n")
	b.WriteString("Each resource should be high-quality and educational.\n")
	return b.String()
}
