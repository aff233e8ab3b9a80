package search

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/bjpl/algolearn/internal/models"
)

// BuildCatalog flattens the dataset and the user's notes into searchable
// items: curricula, then lessons, then notes, then one item per author.
func BuildCatalog(ds *models.Dataset, notes []models.Note) []Item {
	if ds == nil {
		ds = &models.Dataset{}
	}

	byID := make(map[string]*models.Curriculum, len(ds.Curricula))
	for i := range ds.Curricula {
		if _, ok := byID[ds.Curricula[i].ID]; !ok {
			byID[ds.Curricula[i].ID] = &ds.Curricula[i]
		}
	}

	outline := make(map[string][]string)
	for _, mod := range ds.Modules {
		outline[mod.CurriculumID] = append(outline[mod.CurriculumID], mod.Title)
		for _, l := range mod.Lessons {
			outline[mod.CurriculumID] = append(outline[mod.CurriculumID], l.Title)
		}
	}

	items := make([]Item, 0, len(ds.Curricula)+ds.LessonCount()+len(notes))

	for _, c := range ds.Curricula {
		items = append(items, Item{
			ID:           c.ID,
			Type:         TypeCurriculum,
			CurriculumID: c.ID,
			Title:        c.Name,
			Description:  c.Description,
			Body:         strings.Join(outline[c.ID], " "),
			Author:       c.Author,
			Tags:         c.Tags,
			Status:       string(c.Status),
			Difficulty:   string(c.Difficulty),
			Rating:       c.Rating,
			Popularity:   c.StudentCount,
			CreatedAt:    c.CreatedAt.Time,
			UpdatedAt:    c.UpdatedAt.Time,
		})
	}

	for _, mod := range ds.Modules {
		parent := byID[mod.CurriculumID]
		for _, l := range mod.Lessons {
			it := Item{
				ID:           l.ID,
				Type:         TypeContent,
				ContentType:  ContentLesson,
				CurriculumID: mod.CurriculumID,
				Title:        l.Title,
				Description:  strings.Join(l.Objectives, "; "),
				Body:         l.Content,
				Tags:         l.Topics,
				Difficulty:   string(l.Difficulty),
			}
			if parent != nil {
				it.Author = parent.Author
				it.Status = string(parent.Status)
				it.CreatedAt = parent.CreatedAt.Time
				it.UpdatedAt = parent.UpdatedAt.Time
				if it.Difficulty == "" {
					it.Difficulty = string(parent.Difficulty)
				}
			}
			items = append(items, it)
		}
	}

	for _, n := range notes {
		items = append(items, Item{
			ID:           n.ID,
			Type:         TypeContent,
			ContentType:  ContentNote,
			CurriculumID: n.CurriculumID,
			Title:        n.Title,
			Body:         n.Content,
			Author:       n.UserID,
			Tags:         n.Tags(),
			CreatedAt:    n.CreatedAt,
			UpdatedAt:    n.UpdatedAt,
		})
	}

	return append(items, authorItems(ds.Curricula)...)
}

// authorItems aggregates curricula per distinct author, in first-seen order
func authorItems(curricula []models.Curriculum) []Item {
	type agg struct {
		item   Item
		count  int
		rating float64
		tags   map[string]bool
	}

	var order []string
	byAuthor := make(map[string]*agg)

	for _, c := range curricula {
		if c.Author == "" {
			continue
		}
		a, ok := byAuthor[c.Author]
		if !ok {
			a = &agg{
				item: Item{
					ID:        "user:" + c.Author,
					Type:      TypeUser,
					Title:     c.Author,
					Author:    c.Author,
					CreatedAt: c.CreatedAt.Time,
				},
				tags: make(map[string]bool),
			}
			byAuthor[c.Author] = a
			order = append(order, c.Author)
		}

		a.count++
		a.rating += c.Rating
		a.item.Popularity += c.StudentCount
		if c.CreatedAt.Before(a.item.CreatedAt) {
			a.item.CreatedAt = c.CreatedAt.Time
		}
		if c.UpdatedAt.After(a.item.UpdatedAt) {
			a.item.UpdatedAt = c.UpdatedAt.Time
		}
		for _, t := range c.Tags {
			if !a.tags[t] {
				a.tags[t] = true
				a.item.Tags = append(a.item.Tags, t)
			}
		}
	}

	out := make([]Item, 0, len(order))
	for _, name := range order {
		a := byAuthor[name]
		a.item.Rating = a.rating / float64(a.count)
		noun := "curricula"
		if a.count == 1 {
			noun = "curriculum"
		}
		a.item.Description = fmt.Sprintf("Author of %d %s", a.count, noun)
		out = append(out, a.item)
	}
	return out
}

// Fingerprint identifies the catalog contents for cache keys. It changes
// whenever an item is added, removed or updated.
func Fingerprint(items []Item) string {
	h := sha256.New()
	for _, it := range items {
		fmt.Fprintf(h, "%s|%s|%d\n", it.Kind(), it.ID, it.UpdatedAt.UnixNano())
	}
	return hex.EncodeToString(h.Sum(nil))
}
