package resume

import "regexp"

var explicitExperience = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d{1,2})\+?\s*(?:years?|yrs?)\.?\s+(?:of\s+)?(?:(?:professional|work|working|industry|relevant|hands-on|total)\s+)*experience`),
	regexp.MustCompile(`(?i)experience\s*(?::|-|of)?\s*(\d{1,2})\+?\s*(?:years?|yrs?)`),
	regexp.MustCompile(`(?i)worked\s+(?:[a-z]+\s+){0,6}?(\d{1,2})\+?\s*(?:years?|yrs?)`),
}

const (
	monthName   = `(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?`
	rangeDate   = `(?:` + monthName + `\s*,?\s*(?:19|20)\d{2}|(?:0?[1-9]|1[0-2])/(?:19|20)\d{2}|(?:19|20)\d{2})`
	rangeEnd    = `(?:` + rangeDate + `|present|current|now|till\s+date)`
	rangeJoiner = `\s*(?:-|–|—|to|until)\s*`
)

var dateRangePattern = regexp.MustCompile(`(?i)\b` + rangeDate + rangeJoiner + rangeEnd + `\b`)

func extractExperience(text string) string {
	for _, pattern := range explicitExperience {
		if match := pattern.FindStringSubmatch(text); match != nil {
			return match[1]
		}
	}

	return experienceBucket(len(dateRangePattern.FindAllStringIndex(text, -1)))
}

func experienceBucket(ranges int) string {
	switch {
	case ranges == 0:
		// No dated entries means unknown, not junior.
		return ""
	case ranges <= 2:
		return "0-2"
	case ranges <= 5:
		return "3-5"
	default:
		return "5+"
	}
}
