package resources

// Category groups topics that share a fallback platform list.
type Category string

const (
	CategoryProgramming Category = "programming"
	CategoryDataScience Category = "dataScience"
	CategoryGeneral     Category = "general"
)

// knownGoodDomains are trusted outright (confidence 90). Hosts are compared
// after lowercasing and stripping a leading "www.".
var knownGoodDomains = map[string]struct{}{
	"developer.mozilla.org": {},
	"freecodecamp.org":      {},
	"w3schools.com":         {},
	"javascript.info":       {},
	"css-tricks.com":        {},
	"web.dev":               {},
	"tutorialspoint.com":    {},
	"codecademy.com":        {},
	"kaggle.com":            {},
	"pandas.pydata.org":     {},
	"numpy.org":             {},
	"scikit-learn.org":      {},
	"coursera.org":          {},
	"edx.org":               {},
	"khanacademy.org":       {},
	"udemy.com":             {},
	"youtube.com":           {},
	"youtu.be":              {},
}

var educationalKeywords = []string{"edu", "learn", "tutorial", "docs", "guide", "academy"}

var knownPlatforms = map[string]struct{}{
	"github.com":        {},
	"stackoverflow.com": {},
	"youtube.com":       {},
}

// verifiedPlatforms lists guaranteed-valid article destinations. The first
// entry of each list is the one handed out as a fallback.
var verifiedPlatforms = map[Category][]string{
	CategoryProgramming: {
		"https://developer.mozilla.org",
		"https://www.freecodecamp.org",
		"https://javascript.info",
		"https://web.dev",
		"https://css-tricks.com",
		"https://www.w3schools.com",
		"https://www.codecademy.com",
		"https://www.smashingmagazine.com",
		"https://www.tutorialspoint.com",
		"https://scrimba.com",
		"https://frontendmasters.com",
		"https://www.theodinproject.com",
	},
	CategoryDataScience: {
		"https://www.kaggle.com/learn",
		"https://pandas.pydata.org/docs/",
		"https://numpy.org/doc/",
		"https://scikit-learn.org/stable/",
		"https://www.dataquest.io",
		"https://www.coursera.org/browse/data-science",
		"https://www.edx.org/learn/data-science",
		"https://www.datacamp.com",
		"https://towardsdatascience.com",
		"https://jovian.ai",
		"https://colab.research.google.com",
	},
	CategoryGeneral: {
		"https://www.coursera.org",
		"https://www.edx.org",
		"https://www.khanacademy.org",
		"https://www.udemy.com",
		"https://www.youtube.com/c/freecodecamp",
		"https://www.youtube.com/c/ProgrammingwithMosh",
		"https://www.youtube.com/user/thenewboston",
		"https://www.sattacademy.com",
		"https://www.brilliant.org",
		"https://www.skillshare.com",
		"https://www.linkedin.com/learning",
		"https://www.mitocw.riku.com",
	},
}

var programmingKeywords = []string{
	"javascript", "python", "php", "html", "css", "react", "vue", "angular", "node.js", "express", "laravel",
}

var dataScienceKeywords = []string{
	"pandas", "numpy", "matplotlib", "scikit", "machine learning", "data analysis", "statistics",
}

const defaultLanguage = "en"

// searchPhrases is appended to the topic in video search fallbacks.
var searchPhrases = map[string]string{
	"en": "tutorial guide",
	"es": "tutorial guía",
	"fr": "tutoriel guide",
	"de": "tutorial anleitung",
	"hi": "ट्यूटोरियल गाइड",
	"bn": "টিউটোরিয়াল গাইড",
	"ja": "チュートリアル ガイド",
	"ar": "تعليمي دليل",
	"ur": "ٹیوٹوریل گائیڈ",
}

// languageHints detect a language from words inside the topic itself.
var languageHints = []struct {
	lang  string
	words []string
}{
	{lang: "hi", words: []string{"hindi", "हिंदी"}},
	{lang: "ur", words: []string{"urdu", "اردو"}},
}

// VerifiedPlatforms returns a copy of the platform list for c.
func VerifiedPlatforms(c Category) []string {
	return append([]string(nil), verifiedPlatforms[c]...)
}

// IsKnownGoodDomain reports whether host (already normalized) is trusted.
func IsKnownGoodDomain(host string) bool {
	_, ok := knownGoodDomains[host]
	return ok
}
