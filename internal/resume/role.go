package resume

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spigell/talentalign/internal/skills"
)

var explicitRole = regexp.MustCompile(`(?im)^((?:[a-z+#./\-]+[ \t]+){1,3}(?:developer|engineer|designer|architect|scientist))\b`)

type roleRule struct {
	role     string
	patterns []*regexp.Regexp
}

func newRoleRule(role string, terms ...string) roleRule {
	rule := roleRule{role: role}
	for _, term := range terms {
		rule.patterns = append(rule.patterns, skills.WordPattern(term))
	}

	return rule
}

func (r roleRule) matches(text string) bool {
	for _, pattern := range r.patterns {
		if pattern.MatchString(text) {
			return true
		}
	}

	return false
}

// Synonyms applied to an explicit title, first hit wins.
var roleSynonyms = []roleRule{
	newRoleRule("Full Stack Developer", "full-stack", "full stack", "fullstack"),
	newRoleRule("Frontend Developer", "front-end", "front end", "frontend"),
	newRoleRule("Backend Developer", "back-end", "back end", "backend"),
	newRoleRule("DevOps Engineer", "devops", "site reliability"),
	newRoleRule("Data Scientist", "data science", "data scientist"),
	newRoleRule("Machine Learning Engineer", "machine learning", "ml", "ai"),
	newRoleRule("Mobile Developer", "mobile", "android", "ios"),
	newRoleRule("UI/UX Designer", "ui/ux", "ux", "ui"),
}

// Keyword groups scanned over the whole text when no title is stated.
var roleKeywordGroups = []roleRule{
	newRoleRule("DevOps Engineer", "devops", "kubernetes", "terraform", "ansible", "jenkins"),
	newRoleRule("Data Scientist", "data science", "machine learning", "deep learning", "tensorflow", "pytorch"),
	newRoleRule("Mobile Developer", "android", "ios", "flutter", "react native", "swiftui"),
	newRoleRule("UI/UX Designer", "figma", "ui/ux", "adobe xd", "wireframing", "user research"),
	newRoleRule("QA Engineer", "selenium", "test automation", "manual testing", "quality assurance"),
}

var frontendSkills = map[string]struct{}{
	"react": {}, "react.js": {}, "next.js": {}, "redux": {}, "angular": {}, "vue": {}, "vue.js": {},
	"nuxt.js": {}, "svelte": {}, "jquery": {}, "html": {}, "html5": {}, "css": {}, "css3": {},
	"sass": {}, "scss": {}, "tailwind css": {}, "bootstrap": {}, "material ui": {}, "shadcn/ui": {},
	"chakra ui": {}, "javascript": {}, "typescript": {}, "webpack": {}, "vite": {},
}

var backendSkills = map[string]struct{}{
	"node.js": {}, "express": {}, "express.js": {}, "nestjs": {}, "django": {}, "flask": {},
	"fastapi": {}, "spring": {}, "spring boot": {}, "laravel": {}, "ruby on rails": {}, "asp.net": {},
	".net": {}, "java": {}, "python": {}, "go": {}, "golang": {}, "php": {}, "ruby": {}, "c#": {},
	"mongodb": {}, "postgresql": {}, "mysql": {}, "redis": {}, "graphql": {}, "sql": {},
	"rest api": {}, "microservices": {}, "firebase": {}, "prisma": {},
}

func detectRole(text string, found []string) string {
	if match := explicitRole.FindStringSubmatch(text); match != nil {
		return normalizeRole(match[1])
	}

	for _, group := range roleKeywordGroups {
		if group.matches(text) {
			return group.role
		}
	}

	return roleFromSkills(found)
}

func normalizeRole(title string) string {
	for _, synonym := range roleSynonyms {
		if synonym.matches(title) {
			return synonym.role
		}
	}

	return titleCase(title)
}

func roleFromSkills(found []string) string {
	var frontend, backend int
	for _, skill := range found {
		key := strings.ToLower(skill)
		if _, ok := frontendSkills[key]; ok {
			frontend++
		}
		if _, ok := backendSkills[key]; ok {
			backend++
		}
	}

	switch {
	case frontend > backend && frontend >= 3:
		return "Frontend Developer"
	case backend > frontend && backend >= 3:
		return "Backend Developer"
	case frontend >= 2 && backend >= 2:
		return "Full Stack Developer"
	default:
		return DefaultRole
	}
}

func titleCase(title string) string {
	words := strings.Fields(title)
	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		if unicode.IsLower(r) {
			words[i] = string(unicode.ToUpper(r)) + word[size:]
		}
	}

	return strings.Join(words, " ")
}
