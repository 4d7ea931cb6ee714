package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// listingRecord accepts the shapes produced by job board scrapers and
// portal database dumps.
type listingRecord struct {
	ID          string   `mapstructure:"id"`
	ObjectID    any      `mapstructure:"_id"`
	Title       string   `mapstructure:"title"`
	Name        string   `mapstructure:"name"`
	Company     any      `mapstructure:"company"`
	URL         string   `mapstructure:"url"`
	Link        string   `mapstructure:"link"`
	Location    any      `mapstructure:"location"`
	Salary      any      `mapstructure:"salary"`
	Description string   `mapstructure:"description"`
	KeySkills   []string `mapstructure:"keySkills"`
	SnakeSkills []string `mapstructure:"key_skills"`
	Skills      []string `mapstructure:"skills"`
	PublishedAt string   `mapstructure:"publishedAt"`
	CreatedAt   string   `mapstructure:"createdAt"`
}

// LoadFile reads a JSON array of job listings.
func LoadFile(path string) (*Jobs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jobs file: %w", err)
	}

	source := "file:" + filepath.Base(path)
	jobs, err := Parse(source, data)
	if err != nil {
		return nil, fmt.Errorf("parse jobs file %s: %w", path, err)
	}

	return jobs, nil
}

// Parse decodes listings from data and tags them with source.
// Records without a title and description are skipped.
func Parse(source string, data []byte) (*Jobs, error) {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}

	jobs := &Jobs{}
	for idx, item := range raw {
		var record listingRecord
		if err := decodeRecord(item, &record); err != nil {
			return nil, fmt.Errorf("listing %d: %w", idx, err)
		}

		job := record.toJob(source, idx)
		if job.Title == "" && job.Description == "" {
			continue
		}
		jobs.Items = append(jobs.Items, job)
	}

	return jobs, nil
}

func decodeRecord(item map[string]any, record *listingRecord) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		WeaklyTypedInput: true,
		Result:           record,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(item)
}

func (r listingRecord) toJob(source string, idx int) *Job {
	job := &Job{
		ID:          firstNonEmpty(r.ID, objectID(r.ObjectID), fmt.Sprintf("%s#%d", source, idx)),
		Source:      source,
		Title:       strings.TrimSpace(firstNonEmpty(r.Title, r.Name)),
		Company:     company(r.Company),
		URL:         firstNonEmpty(r.URL, r.Link),
		Area:        text(r.Location),
		Salary:      text(r.Salary),
		Description: PlainText(r.Description),
		PublishedAt: firstNonEmpty(r.PublishedAt, r.CreatedAt),
	}

	for _, list := range [][]string{r.KeySkills, r.SnakeSkills, r.Skills} {
		for _, skill := range list {
			if skill = strings.TrimSpace(skill); skill != "" {
				job.KeySkills = append(job.KeySkills, skill)
			}
		}
	}

	return job
}

// objectID reads Mongo-style identifiers, plain or {"$oid": "..."}.
func objectID(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case map[string]any:
		if oid, ok := v["$oid"].(string); ok {
			return oid
		}
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return ""
}

func company(value any) Company {
	switch v := value.(type) {
	case string:
		return Company{Name: strings.TrimSpace(v)}
	case map[string]any:
		var c Company
		if name, ok := v["name"].(string); ok {
			c.Name = strings.TrimSpace(name)
		}
		c.ID = objectID(v["id"])
		if c.ID == "" {
			c.ID = objectID(v["_id"])
		}
		return c
	}
	return Company{}
}

// text flattens free-form fields: plain values, {"name": ...} objects
// and {"from", "to", "currency"} salary ranges.
func text(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case map[string]any:
		if name, ok := v["name"].(string); ok {
			return strings.TrimSpace(name)
		}
		from, to := text(v["from"]), text(v["to"])
		if from == "" && to == "" {
			return ""
		}
		return strings.TrimSpace(fmt.Sprintf("%s-%s %s", from, to, text(v["currency"])))
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}
