package curriculum

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bjpl/algolearn/internal/models"
)

// Source identifies where a dataset came from
type Source string

const (
	SourceFile    Source = "file"
	SourceLegacy  Source = "legacy"
	SourceDefault Source = "default"
)

// Skipped records a candidate path that did not yield a dataset
type Skipped struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// LoadInfo describes the outcome of LoadDataset
type LoadInfo struct {
	Source  Source    `json:"source"`
	Path    string    `json:"path,omitempty"`
	Skipped []Skipped `json:"skipped,omitempty"`
}

// Legacy defaults for the synthesized wrapping curriculum
const (
	LegacyCurriculumID   = "algorithms-data-structures"
	LegacyCurriculumName = "Algorithms and Data Structures"
)

var errUnrecognized = errors.New("no curricula or modules key")

//go:embed default_curriculum.json
var defaultCurriculumJSON []byte

// LoadDataset tries each path in order and returns the first dataset that
// parses. Missing files and malformed JSON are skipped rather than reported
// as errors; when nothing usable is found the built-in dataset is returned.
func LoadDataset(paths ...string) (*models.Dataset, LoadInfo) {
	var info LoadInfo

	for _, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				info.Skipped = append(info.Skipped, Skipped{Path: path, Reason: "not found"})
			} else {
				info.Skipped = append(info.Skipped, Skipped{Path: path, Reason: err.Error()})
			}
			continue
		}

		ds, source, err := ParseDataset(data)
		if err != nil {
			info.Skipped = append(info.Skipped, Skipped{Path: path, Reason: err.Error()})
			continue
		}

		info.Source = source
		info.Path = path
		return ds, info
	}

	info.Source = SourceDefault
	return DefaultDataset(), info
}

// ParseDataset decodes a curriculum document, upgrading the legacy
// modules-only format when there is no curricula key.
func ParseDataset(data []byte) (*models.Dataset, Source, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, "", fmt.Errorf("invalid JSON: %w", err)
	}

	_, hasCurricula := probe["curricula"]
	_, hasModules := probe["modules"]

	switch {
	case hasCurricula:
		var ds models.Dataset
		if err := json.Unmarshal(data, &ds); err != nil {
			return nil, "", fmt.Errorf("invalid JSON: %w", err)
		}
		ds.Normalize()
		return &ds, SourceFile, nil

	case hasModules:
		var legacy struct {
			Metadata map[string]interface{} `json:"metadata"`
			Modules  []models.Module        `json:"modules"`
		}
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, "", fmt.Errorf("invalid JSON: %w", err)
		}
		return UpgradeLegacy(legacy.Metadata, legacy.Modules), SourceLegacy, nil
	}

	return nil, "", errUnrecognized
}

// UpgradeLegacy wraps a bare module list in a single synthesized curriculum.
// Modules without a curriculum_id are re-parented to it.
func UpgradeLegacy(metadata map[string]interface{}, modules []models.Module) *models.Dataset {
	now := models.NewTimestamp(time.Now().UTC())

	c := models.Curriculum{
		ID:          metaString(metadata, "id", LegacyCurriculumID),
		Name:        metaString(metadata, "name", metaString(metadata, "title", LegacyCurriculumName)),
		Description: metaString(metadata, "description", "Imported from a legacy module list"),
		Status:      models.StatusActive,
		Difficulty:  models.Difficulty(metaString(metadata, "difficulty", string(models.DifficultyIntermediate))),
		Category:    metaString(metadata, "category", "Computer Science"),
		Author:      metaString(metadata, "author", "System"),
		Tags:        metaStrings(metadata, "tags"),
		CreatedAt:   now,
		UpdatedAt:   now,
		ModuleCount: len(modules),
	}
	if ts, err := models.ParseTimestamp(metaString(metadata, "created_at", "")); err == nil {
		c.CreatedAt = ts
	}

	for i := range modules {
		c.LessonCount += len(modules[i].Lessons)
		if modules[i].CurriculumID == "" {
			modules[i].CurriculumID = c.ID
		}
	}

	ds := &models.Dataset{
		Metadata:  metadata,
		Curricula: []models.Curriculum{c},
		Modules:   modules,
	}
	ds.Normalize()
	return ds
}

// DefaultDataset returns a fresh copy of the built-in dataset
func DefaultDataset() *models.Dataset {
	var ds models.Dataset
	if err := json.Unmarshal(defaultCurriculumJSON, &ds); err != nil {
		panic(fmt.Sprintf("embedded default curriculum is invalid: %v", err))
	}
	ds.Normalize()
	return &ds
}

func metaString(metadata map[string]interface{}, key, fallback string) string {
	if s, ok := metadata[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func metaStrings(metadata map[string]interface{}, key string) []string {
	raw, ok := metadata[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
