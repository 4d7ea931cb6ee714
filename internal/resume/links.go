package resume

import (
	"regexp"
	"strings"
)

// LinkKind names a profile link.
type LinkKind string

const (
	LinkedIn  LinkKind = "linkedin"
	GitHub    LinkKind = "github"
	Portfolio LinkKind = "portfolio"
)

// Placeholders returned when a platform is mentioned but no address could be read.
const (
	ProfileNotExtracted = "profile-not-extracted"
	WebsiteNotExtracted = "website-not-extracted"
)

type linkRule struct {
	patterns []*regexp.Regexp
	mention  *regexp.Regexp
	sentinel string
}

var linkRules = map[LinkKind]linkRule{
	LinkedIn: {
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)((?:https?://)?(?:[a-z]{2,3}\.)?linkedin\.com/in/[\w\-%]+/?)`),
			regexp.MustCompile(`(?i)((?:https?://)?(?:[a-z]{2,3}\.)?linkedin\.com/(?:pub/)?[\w\-%]+/?)`),
			regexp.MustCompile(`(?i)linked[ \t]?in[ \t]*:[ \t]*([\w\-]{3,})`),
		},
		mention:  regexp.MustCompile(`(?i)\blinked[ \t]?in\b`),
		sentinel: ProfileNotExtracted,
	},
	GitHub: {
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)((?:https?://)?(?:www\.)?github\.com/[\w\-]+/?)`),
			regexp.MustCompile(`(?i)github[ \t]*:[ \t]*([\w\-]{2,})`),
		},
		mention:  regexp.MustCompile(`(?i)\bgithub\b`),
		sentinel: ProfileNotExtracted,
	},
	Portfolio: {
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)((?:https?://)?[\w\-]+(?:\.[\w\-]+)*\.(?:vercel\.app|netlify\.app|github\.io)(?:/[\w\-./]*)?)`),
			regexp.MustCompile(`(?i)(?:portfolio|website|personal[ \t]+site)[ \t]*:[ \t]*((?:https?://)?[\w\-]+(?:\.[\w\-]+)+(?:/[\w\-./%]*)?)`),
		},
		mention:  regexp.MustCompile(`(?i)\b(?:portfolio|website)\b`),
		sentinel: WebsiteNotExtracted,
	},
}

// extractLink returns the raw link value, a placeholder when the
// platform is only mentioned, or "" when it is absent.
func extractLink(text string, kind LinkKind) string {
	rule, ok := linkRules[kind]
	if !ok {
		return ""
	}

	for _, pattern := range rule.patterns {
		if match := pattern.FindStringSubmatch(text); match != nil {
			value := strings.TrimRight(match[1], "./")
			if value != "" && !isSchemeWord(value) {
				return value
			}
		}
	}

	if rule.mention.MatchString(text) {
		return rule.sentinel
	}

	return ""
}

// FormatURL turns an extracted link value into an absolute https URL.
// Placeholders and blank values become "".
func FormatURL(kind LinkKind, value string) string {
	value = strings.TrimSpace(value)
	if value == "" || value == ProfileNotExtracted || value == WebsiteNotExtracted {
		return ""
	}

	lower := strings.ToLower(value)
	if strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") {
		return value
	}

	if strings.ContainsAny(value, "./") {
		return "https://" + value
	}

	switch kind {
	case LinkedIn:
		return "https://linkedin.com/in/" + value
	case GitHub:
		return "https://github.com/" + value
	default:
		return "https://" + value
	}
}

// isSchemeWord catches labels followed by a URL the domain patterns did not know.
func isSchemeWord(value string) bool {
	switch strings.ToLower(value) {
	case "http", "https", "www":
		return true
	}

	return false
}
