// Package resources judges resource URLs suggested by the AI providers and
// substitutes curated links for the ones that do not pass.
package resources

import (
	"net/url"
	"strings"
)

const (
	IssueEmptyURL      = "Empty URL"
	IssueNotHTTPS      = "Not using HTTPS"
	IssueInvalidFormat = "Invalid URL format"
	IssueLowQuality    = "Unknown or low-quality domain"

	confidenceKnownGood   = 90
	confidenceEducational = 70
	confidencePlatform    = 60
	// MinConfidence is the score below which a domain is reported as low quality.
	MinConfidence = 50
)

// ValidatedResource is the verdict on one URL.
type ValidatedResource struct {
	URL           string   `json:"url"`
	Valid         bool     `json:"valid"`
	Confidence    int      `json:"confidence"`
	Issues        []string `json:"issues"`
	IsSecure      bool     `json:"isSecure"`
	IsEducational bool     `json:"isEducational"`
}

// NormalizeHost lowercases host and strips one leading "www.".
func NormalizeHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// ValidateURL depends only on raw and the static tables, so repeated calls
// give identical results.
func ValidateURL(raw string) ValidatedResource {
	res := ValidatedResource{URL: raw, Issues: []string{}}

	if raw == "" {
		res.Issues = append(res.Issues, IssueEmptyURL)
		return res
	}

	if strings.HasPrefix(raw, "https://") {
		res.IsSecure = true
	} else {
		res.Issues = append(res.Issues, IssueNotHTTPS)
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		res.Issues = append(res.Issues, IssueInvalidFormat)
		return res
	}

	host := NormalizeHost(parsed.Hostname())

	if IsKnownGoodDomain(host) {
		res.Valid = true
		res.Confidence = confidenceKnownGood
		res.IsEducational = true
		return res
	}

	for _, keyword := range educationalKeywords {
		if strings.Contains(host, keyword) {
			res.Confidence = confidenceEducational
			res.IsEducational = true
			break
		}
	}

	if _, ok := knownPlatforms[host]; ok {
		res.Confidence = confidencePlatform
	}

	if res.Confidence < MinConfidence {
		res.Issues = append(res.Issues, IssueLowQuality)
	}
	return res
}

// ConfidenceLevel buckets a numeric score into high, medium or low.
func ConfidenceLevel(score int) string {
	switch {
	case score >= 80:
		return "high"
	case score >= 60:
		return "medium"
	default:
		return "low"
	}
}
