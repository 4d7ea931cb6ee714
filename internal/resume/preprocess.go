package resume

import (
	"regexp"
	"strings"

	"github.com/spigell/talentalign/internal/skills"
)

var (
	separatorGlyphs = regexp.MustCompile(`[|•·●▪■►➤✓✉☎📞📧]`)
	gluedColon      = regexp.MustCompile(`(\pL):(\pL)`)
	horizontalSpace = regexp.MustCompile(`[ \t\f\v\x{00A0}\x{2000}-\x{200B}\x{3000}]+`)
	blankLineRuns   = regexp.MustCompile(`\n{3,}`)
	mergedWords     = regexp.MustCompile(`(\p{Ll})(\p{Lu})`)
	scottishPrefix  = regexp.MustCompile(`^(?:Mc|Mac)\p{Lu}\p{Ll}+$`)
	domainLike      = regexp.MustCompile(`^[\w\-]+(?:\.[\w\-]+)*\.[a-z]{2,}(?:/\S*)?$`)
)

// Labels whose value is a handle or address.
var linkLabels = map[string]struct{}{
	"linkedin":  {},
	"github":    {},
	"gitlab":    {},
	"leetcode":  {},
	"portfolio": {},
	"website":   {},
	"site":      {},
	"web":       {},
}

// Mixed-case names that must never be split, on top of the resume dictionary.
var protectedWords = map[string]struct{}{
	"linkedin":      {},
	"github":        {},
	"gitlab":        {},
	"leetcode":      {},
	"hackerrank":    {},
	"codechef":      {},
	"codeforces":    {},
	"stackoverflow": {},
	"javascript":    {},
	"typescript":    {},
	"youtube":       {},
	"iphone":        {},
	"ipad":          {},
	"macos":         {},
	"devops":        {},
	"nodejs":        {},
	"nextjs":        {},
	"powerpoint":    {},
	"wordpress":     {},
	"chatgpt":       {},
	"jupyter":       {},
	"phd":           {},
	"bsc":           {},
	"msc":           {},
	"btech":         {},
	"mtech":         {},
}

// Normalize cleans raw resume text before extraction. Line structure is kept.
func Normalize(raw string) string {
	return normalize(raw, skills.Resume())
}

func normalize(raw string, dict *skills.Dictionary) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = separatorGlyphs.ReplaceAllString(text, " $0 ")
	text = gluedColon.ReplaceAllString(text, "$1: $2")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = splitMergedWords(line, dict)
		line = horizontalSpace.ReplaceAllString(line, " ")
		lines[i] = strings.TrimSpace(line)
	}

	text = strings.Join(lines, "\n")
	text = blankLineRuns.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

func splitMergedWords(line string, dict *skills.Dictionary) string {
	fields := strings.Fields(line)
	for i, field := range fields {
		if followsLinkLabel(fields[:i]) || keepWhole(field, dict) {
			continue
		}
		fields[i] = mergedWords.ReplaceAllString(field, "$1 $2")
	}

	return strings.Join(fields, " ")
}

func keepWhole(token string, dict *skills.Dictionary) bool {
	if strings.ContainsAny(token, "@/") {
		return true
	}

	lower := strings.ToLower(token)
	if strings.HasPrefix(lower, "http") || strings.HasPrefix(lower, "www.") {
		return true
	}

	word := strings.Trim(token, `.,;:()[]{}"'`)
	if domainLike.MatchString(word) {
		return true
	}
	if dict.Contains(word) || scottishPrefix.MatchString(word) {
		return true
	}

	_, ok := protectedWords[strings.ToLower(word)]
	return ok
}

// followsLinkLabel reports whether the last of prev is a label such as
// "GitHub:" or "Linked In:".
func followsLinkLabel(prev []string) bool {
	if len(prev) == 0 {
		return false
	}

	last := strings.ToLower(prev[len(prev)-1])
	if !strings.HasSuffix(last, ":") {
		return false
	}

	label := strings.TrimSuffix(last, ":")
	if label == "in" && len(prev) > 1 && strings.ToLower(prev[len(prev)-2]) == "linked" {
		return true
	}

	_, ok := linkLabels[label]
	return ok
}
