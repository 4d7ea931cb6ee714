// Package skills holds the skill dictionaries used to spot technology names in free text.
package skills

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	ResumeDictionary = "resume"
	JobsDictionary   = "jobs"
)

//go:embed dictionaries/*.yaml
var dictionaryFiles embed.FS

var (
	loadOnce   sync.Once
	resumeDict *Dictionary
	jobsDict   *Dictionary
)

// Dictionary is an ordered list of canonical skill names.
// Lookups are case-insensitive and match whole words only.
type Dictionary struct {
	name     string
	entries  []string
	patterns []*regexp.Regexp
	index    map[string]int
}

type dictionaryFile struct {
	Name   string   `yaml:"name"`
	Skills []string `yaml:"skills"`
}

// Resume returns the built-in dictionary used for resume extraction.
func Resume() *Dictionary {
	loadDefaults()
	return resumeDict
}

// Jobs returns the built-in dictionary used for job postings.
func Jobs() *Dictionary {
	loadDefaults()
	return jobsDict
}

// ByName returns a built-in dictionary by its name.
func ByName(name string) (*Dictionary, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ResumeDictionary:
		return Resume(), nil
	case JobsDictionary:
		return Jobs(), nil
	}

	return nil, fmt.Errorf("unknown dictionary %q", name)
}

func loadDefaults() {
	loadOnce.Do(func() {
		resumeDict = mustLoadEmbedded("dictionaries/resume.yaml")
		jobsDict = mustLoadEmbedded("dictionaries/jobs.yaml")
	})
}

func mustLoadEmbedded(path string) *Dictionary {
	data, err := dictionaryFiles.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("read embedded dictionary %s: %v", path, err))
	}

	dict, err := Load(data)
	if err != nil {
		panic(fmt.Sprintf("load embedded dictionary %s: %v", path, err))
	}

	return dict
}

// LoadFile reads a YAML dictionary from disk.
func LoadFile(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary file: %w", err)
	}

	dict, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("load dictionary %s: %w", path, err)
	}

	return dict, nil
}

// Load parses a YAML dictionary document.
func Load(data []byte) (*Dictionary, error) {
	var file dictionaryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode dictionary: %w", err)
	}

	name := strings.TrimSpace(file.Name)
	if name == "" {
		return nil, errors.New("dictionary name is required")
	}

	return New(name, file.Skills)
}

// New builds a dictionary from entries. Blank entries are skipped;
// entries that differ only by case are rejected.
func New(name string, entries []string) (*Dictionary, error) {
	dict := &Dictionary{
		name:  name,
		index: make(map[string]int, len(entries)),
	}

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		key := strings.ToLower(entry)
		if first, ok := dict.index[key]; ok {
			return nil, fmt.Errorf("dictionary %q: duplicate entry %q (already listed as %q)", name, entry, dict.entries[first])
		}

		dict.index[key] = len(dict.entries)
		dict.entries = append(dict.entries, entry)
		dict.patterns = append(dict.patterns, WordPattern(entry))
	}

	if len(dict.entries) == 0 {
		return nil, fmt.Errorf("dictionary %q has no entries", name)
	}

	return dict, nil
}

// WordPattern compiles a case-insensitive whole-word matcher for term.
// Word boundaries are letters, digits and underscore, so terms ending
// in symbols such as "C++" or "Node.js" still match.
func WordPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(term) + `(?:$|[^\p{L}\p{N}_])`)
}

func (d *Dictionary) Name() string {
	return d.name
}

func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Entries returns a copy of the dictionary entries in their canonical order.
func (d *Dictionary) Entries() []string {
	return append([]string(nil), d.entries...)
}

// Contains reports whether word is a dictionary entry, ignoring case.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.index[strings.ToLower(strings.TrimSpace(word))]
	return ok
}

// Find returns every entry that occurs as a whole word in any of texts.
// The result follows dictionary order and never holds duplicates.
func (d *Dictionary) Find(texts ...string) []string {
	found := make([]string, 0)
	for i, pattern := range d.patterns {
		for _, text := range texts {
			if text != "" && pattern.MatchString(text) {
				found = append(found, d.entries[i])
				break
			}
		}
	}

	return found
}

// Divergence lists entries present in only one of two dictionaries.
type Divergence struct {
	Left      string   `json:"left"`
	Right     string   `json:"right"`
	OnlyLeft  []string `json:"onlyLeft"`
	OnlyRight []string `json:"onlyRight"`
	Shared    int      `json:"shared"`
}

// Compare reports how two dictionaries diverge, ignoring case.
func Compare(left, right *Dictionary) Divergence {
	result := Divergence{
		Left:      left.name,
		Right:     right.name,
		OnlyLeft:  make([]string, 0),
		OnlyRight: make([]string, 0),
	}

	for _, entry := range left.entries {
		if right.Contains(entry) {
			result.Shared++
			continue
		}
		result.OnlyLeft = append(result.OnlyLeft, entry)
	}

	for _, entry := range right.entries {
		if !left.Contains(entry) {
			result.OnlyRight = append(result.OnlyRight, entry)
		}
	}

	sort.Strings(result.OnlyLeft)
	sort.Strings(result.OnlyRight)

	return result
}
