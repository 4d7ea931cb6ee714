package resume

import (
	"regexp"
	"strings"
)

const maxEmailLength = 100

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+){1,3})\b`),
	regexp.MustCompile(`(?i:full[ \t]+name|name|candidate)[ \t]*:[ \t]*([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+){1,3})\b`),
	regexp.MustCompile(`(?m)^([A-Z]{2,}[ \t]+[A-Z][A-Za-z]+)\b`),
}

var (
	emailPattern         = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	internationalPattern = regexp.MustCompile(`\+\d{1,3}(?:[ \t().\-]*\d){4,14}`)
	localPhonePattern    = regexp.MustCompile(`(?:^|[^\d+])(\(?\d{3}\)?[ \t.\-]?\d{3}[ \t.\-]?\d{4})(?:$|\D)`)
)

func extractName(text string) string {
	for _, pattern := range namePatterns {
		if match := pattern.FindStringSubmatch(text); match != nil {
			return strings.TrimSpace(match[1])
		}
	}

	return ""
}

func extractEmail(text string) string {
	match := emailPattern.FindString(text)
	if len(match) > maxEmailLength || !strings.Contains(match, "@") || !strings.Contains(match, ".") {
		return ""
	}

	return match
}

func extractPhone(text string) string {
	if match := internationalPattern.FindString(text); match != "" {
		return strings.TrimSpace(match)
	}

	if match := localPhonePattern.FindStringSubmatch(text); match != nil {
		return strings.TrimSpace(match[1])
	}

	return ""
}
