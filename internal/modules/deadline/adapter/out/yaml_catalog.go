package out

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"studydesk/internal/modules/deadline/domain"
	deadlineout "studydesk/internal/modules/deadline/port/out"
	"studydesk/internal/platform/slug"
)

type catalogFile struct {
	Courses     []courseRecord     `yaml:"courses"`
	Assignments []assignmentRecord `yaml:"assignments"`
}

type courseRecord struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Start    string   `yaml:"start"`
	End      string   `yaml:"end"`
	Color    string   `yaml:"color"`
	Chapters []string `yaml:"chapters"`
}

type assignmentRecord struct {
	ID          string   `yaml:"id"`
	Course      string   `yaml:"course"`
	Title       string   `yaml:"title"`
	Due         string   `yaml:"due"`
	End         string   `yaml:"end"`
	Category    string   `yaml:"category"`
	Priority    string   `yaml:"priority"`
	Recurring   string   `yaml:"recurring"`
	Description string   `yaml:"description"`
	URL         string   `yaml:"url"`
	Covers      []string `yaml:"covers"`
}

// YAMLCatalog reads the course table from a YAML file on every Load so edits
// show up without a restart. A missing file is an empty catalog.
type YAMLCatalog struct {
	path string
	loc  *time.Location
}

func NewYAMLCatalog(path string, loc *time.Location) deadlineout.CatalogSource {
	if loc == nil {
		loc = time.UTC
	}
	return &YAMLCatalog{path: path, loc: loc}
}

func (c *YAMLCatalog) Load(_ context.Context) (domain.Catalog, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Catalog{}, nil
		}
		return domain.Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(raw, c.loc)
}

func ParseCatalog(raw []byte, loc *time.Location) (domain.Catalog, error) {
	file := catalogFile{}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return domain.Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}

	catalog := domain.Catalog{}
	for _, rec := range file.Courses {
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			id = slug.Make(rec.Name)
		}
		start, err := parseTime(rec.Start, loc, false)
		if err != nil {
			return domain.Catalog{}, fmt.Errorf("course %s start: %w", id, err)
		}
		end, err := parseTime(rec.End, loc, true)
		if err != nil {
			return domain.Catalog{}, fmt.Errorf("course %s end: %w", id, err)
		}
		catalog.Courses = append(catalog.Courses, domain.Course{
			ID:       id,
			Name:     rec.Name,
			Start:    start,
			End:      end,
			Color:    rec.Color,
			Chapters: rec.Chapters,
		})
	}

	for _, rec := range file.Assignments {
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			id = slug.Join(rec.Course, rec.Title)
		}
		due, err := parseTime(rec.Due, loc, true)
		if err != nil {
			return domain.Catalog{}, fmt.Errorf("assignment %s due: %w", id, err)
		}
		end, err := parseTime(rec.End, loc, true)
		if err != nil {
			return domain.Catalog{}, fmt.Errorf("assignment %s end: %w", id, err)
		}
		category := domain.Category(strings.ToLower(rec.Category))
		if category == "" {
			category = domain.CategoryAssignment
		}
		priority := domain.Priority(strings.ToLower(rec.Priority))
		if priority == "" {
			priority = domain.PriorityMedium
		}
		recurrence := domain.Recurrence(strings.ToLower(rec.Recurring))
		if recurrence == domain.RecurrenceNone && category == domain.CategoryRecurring {
			recurrence = domain.RecurrenceWeekly
		}
		catalog.Assignments = append(catalog.Assignments, domain.Assignment{
			ID:          id,
			CourseID:    rec.Course,
			Title:       rec.Title,
			Due:         due,
			End:         end,
			Category:    category,
			Priority:    priority,
			Recurrence:  recurrence,
			Description: rec.Description,
			URL:         rec.URL,
			Covers:      rec.Covers,
		})
	}

	if err := catalog.Validate(); err != nil {
		return domain.Catalog{}, err
	}
	return catalog, nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// parseTime accepts RFC 3339, local date-times and bare dates. A bare date
// means the end of that day when endOfDay is set, its start otherwise.
func parseTime(value string, loc *time.Location, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	day, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised date %q", value)
	}
	if endOfDay {
		y, m, d := day.Date()
		return time.Date(y, m, d, 23, 59, 0, 0, loc), nil
	}
	return day, nil
}
