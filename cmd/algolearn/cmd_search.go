package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bjpl/algolearn/internal/cache"
	"github.com/bjpl/algolearn/internal/models"
	"github.com/bjpl/algolearn/internal/notes"
	"github.com/bjpl/algolearn/internal/search"
	"github.com/bjpl/algolearn/internal/timing"
)

// searchFlags mirrors the search command line before validation
type searchFlags struct {
	itemType      string
	contentType   string
	author        string
	tags          []string
	difficulty    string
	status        string
	createdAfter  string
	createdBefore string
	exact         bool
	fuzzy         bool
	caseSensitive bool
	format        string
	limit         int
	sort          string
}

// searchOutput is the json format payload
type searchOutput struct {
	Query       string          `json:"query"`
	Total       int             `json:"total"`
	Results     []search.Result `json:"results"`
	Suggestions []string        `json:"suggestions,omitempty"`
}

// cacheParams is everything besides the catalog and query that changes a result set
type cacheParams struct {
	Filter    search.Filter  `json:"filter"`
	Options   search.Options `json:"options"`
	Algorithm string         `json:"algorithm"`
}

func (a *App) newSearchCommand() *cobra.Command {
	var fl searchFlags
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search curricula, lessons, notes and authors",
		Example: `  algolearn search "binary search"
  algolearn search graphs --type curriculum --sort date
  algolearn search sortng --fuzzy --format detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("limit") {
				fl.limit = a.cfg.Search.DefaultLimit
			}
			return a.runSearch(cmd, args[0], fl)
		},
	}

	f := cmd.Flags()
	f.StringVar(&fl.itemType, "type", "", "Item type: curriculum, content or user")
	f.StringVar(&fl.contentType, "content-type", "", "Content type: lesson or note")
	f.StringVar(&fl.author, "author", "", "Author substring")
	f.StringSliceVar(&fl.tags, "tag", nil, "Required tag (repeatable)")
	f.StringVar(&fl.difficulty, "difficulty", "", "Difficulty level")
	f.StringVar(&fl.status, "status", "", "Curriculum status")
	f.StringVar(&fl.createdAfter, "created-after", "", "Only items created on or after this date (YYYY-MM-DD)")
	f.StringVar(&fl.createdBefore, "created-before", "", "Only items created on or before this date (YYYY-MM-DD)")
	f.BoolVar(&fl.exact, "exact", false, "Match the whole query as one phrase")
	f.BoolVar(&fl.fuzzy, "fuzzy", false, "Give credit for near misses")
	f.BoolVar(&fl.caseSensitive, "case-sensitive", false, "Accepted for compatibility; matching is case-insensitive")
	f.StringVar(&fl.format, "format", "list", "Output format: list, detailed, json or summary")
	f.IntVar(&fl.limit, "limit", search.DefaultLimit, "Maximum number of results")
	f.StringVar(&fl.sort, "sort", search.SortRelevance, "Sort by relevance, date, title or score")
	return cmd
}

// buildFilter validates the filter flags
func (fl searchFlags) buildFilter() (search.Filter, error) {
	filter := search.Filter{
		Type:        search.ItemType(fl.itemType),
		ContentType: fl.contentType,
		Author:      fl.author,
		Tags:        fl.tags,
		Difficulty:  fl.difficulty,
		Status:      fl.status,
	}

	switch filter.Type {
	case "", search.TypeCurriculum, search.TypeContent, search.TypeUser:
	default:
		return filter, fmt.Errorf("invalid type %q", fl.itemType)
	}
	switch fl.contentType {
	case "", search.ContentLesson, search.ContentNote:
	default:
		return filter, fmt.Errorf("invalid content type %q", fl.contentType)
	}
	if fl.difficulty != "" && !models.Difficulty(fl.difficulty).Valid() {
		return filter, fmt.Errorf("invalid difficulty %q", fl.difficulty)
	}
	if fl.status != "" && !models.Status(fl.status).Valid() {
		return filter, fmt.Errorf("invalid status %q", fl.status)
	}

	if fl.createdAfter != "" {
		ts, err := models.ParseTimestamp(fl.createdAfter)
		if err != nil {
			return filter, fmt.Errorf("--created-after: %w", err)
		}
		filter.CreatedAfter = ts.Time
	}
	if fl.createdBefore != "" {
		ts, err := models.ParseTimestamp(fl.createdBefore)
		if err != nil {
			return filter, fmt.Errorf("--created-before: %w", err)
		}
		filter.CreatedBefore = ts.Time
		if len(strings.TrimSpace(fl.createdBefore)) == len("2006-01-02") {
			filter.CreatedBefore = filter.CreatedBefore.Add(24*time.Hour - time.Nanosecond)
		}
	}
	return filter, nil
}

func (a *App) runSearch(cmd *cobra.Command, query string, fl searchFlags) error {
	if err := checkFormat(fl.format, "list", "detailed", "json", "summary"); err != nil {
		return err
	}
	if !search.ValidSort(fl.sort) {
		return fmt.Errorf("invalid sort %q (want relevance, date, title or score)", fl.sort)
	}
	if fl.limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", fl.limit)
	}
	filter, err := fl.buildFilter()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	timer := timing.New()

	timer.Start("catalog")
	items := search.BuildCatalog(a.repo.Dataset(), a.searchNotes(cmd))
	timer.Stop("catalog")

	timer.Start("filter")
	items = filter.Apply(items)
	timer.Stop("filter")

	opts := search.Options{
		Exact:         fl.exact,
		Fuzzy:         fl.fuzzy,
		CaseSensitive: fl.caseSensitive,
		Sort:          fl.sort,
		Limit:         fl.limit,
		Matcher:       search.MatcherFor(a.cfg.Search.FuzzyAlgorithm),
	}

	timer.Start("cache")
	c := a.searchCache()
	key, err := cache.GenerateKey(search.Fingerprint(items), query, cacheParams{
		Filter:    filter,
		Options:   opts,
		Algorithm: a.cfg.Search.FuzzyAlgorithm,
	})
	if err != nil {
		return err
	}
	var results []search.Result
	hit, cacheErr := cache.GetJSON(ctx, c, key, &results)
	if cacheErr != nil {
		a.log.Warn("cache_get_failed", "error", cacheErr.Error())
	}
	if a.cfg.Cache.Backend != cache.BackendNone && a.cfg.Cache.Backend != "" {
		switch {
		case cacheErr != nil:
			a.metrics.RecordCache("error")
		case hit:
			a.metrics.RecordCache("hit")
		default:
			a.metrics.RecordCache("miss")
		}
	}
	timer.Stop("cache")

	if !hit {
		timer.Start("score")
		results = search.Search(items, query, opts)
		timer.Stop("score")

		if err := cache.SetJSON(ctx, c, key, results, a.cfg.Cache.TTL); err != nil {
			a.log.Warn("cache_set_failed", "error", err.Error())
		}
	}

	var suggestions []string
	if len(results) == 0 {
		suggestions = search.Suggest(items, query)
	}

	if err := a.renderSearch(query, results, suggestions, fl, timer); err != nil {
		return err
	}

	a.metrics.RecordSearch(fl.sort, fl.format, len(results), timer.Elapsed())
	a.log.LogSearch(query, len(results), timer.ElapsedMs(), hit)
	a.log.Debug("search_timing", timer.Fields()...)
	return nil
}

// renderSearch writes results in the requested format
func (a *App) renderSearch(query string, results []search.Result, suggestions []string, fl searchFlags, timer *timing.Timer) error {
	defer timer.Measure("render")()

	if fl.format == "json" {
		if results == nil {
			results = []search.Result{}
		}
		return writeJSON(a.stdout, searchOutput{
			Query:       query,
			Total:       len(results),
			Results:     results,
			Suggestions: suggestions,
		})
	}
	if len(results) == 0 {
		a.printNoResults(query, suggestions, fl)
		return nil
	}
	switch fl.format {
	case "detailed":
		a.printDetailed(query, results)
	case "summary":
		a.printSummary(query, results, timer)
	default:
		a.printList(query, results)
	}
	return nil
}

// searchNotes returns the user's notes, or none when the store is unavailable
func (a *App) searchNotes(cmd *cobra.Command) []models.Note {
	if err := a.openStores(); err != nil {
		a.log.Warn("notes_unavailable", "error", err.Error())
		return nil
	}
	list, err := a.notes.List(cmd.Context(), notes.ListFilter{UserID: a.user()})
	if err != nil {
		a.log.Warn("notes_unavailable", "error", err.Error())
		return nil
	}
	return list
}

func (a *App) printList(query string, results []search.Result) {
	fmt.Fprintf(a.stdout, "Found %d results for %q:\n\n", len(results), query)
	width := a.termWidth()
	for i, r := range results {
		fmt.Fprintf(a.stdout, "%2d. [%s] %s (score %.1f)\n", i+1, r.Item.Kind(), r.Item.Title, r.Score)
		if r.Snippet != "" {
			fmt.Fprintf(a.stdout, "    %s\n", truncate(r.Snippet, width-4))
		}
	}
}

func (a *App) printDetailed(query string, results []search.Result) {
	fmt.Fprintf(a.stdout, "Found %d results for %q:\n", len(results), query)
	for i, r := range results {
		it := r.Item
		fmt.Fprintf(a.stdout, "\n%d. %s\n", i+1, it.Title)
		fmt.Fprintf(a.stdout, "   ID:         %s\n", it.ID)
		fmt.Fprintf(a.stdout, "   Type:       %s\n", it.Kind())
		if it.CurriculumID != "" && it.Type != search.TypeCurriculum {
			fmt.Fprintf(a.stdout, "   Curriculum: %s\n", it.CurriculumID)
		}
		if it.Author != "" {
			fmt.Fprintf(a.stdout, "   Author:     %s\n", it.Author)
		}
		if it.Status != "" {
			fmt.Fprintf(a.stdout, "   Status:     %s\n", it.Status)
		}
		if it.Difficulty != "" {
			fmt.Fprintf(a.stdout, "   Difficulty: %s\n", it.Difficulty)
		}
		if it.Rating > 0 {
			fmt.Fprintf(a.stdout, "   Rating:     %.1f\n", it.Rating)
		}
		fmt.Fprintf(a.stdout, "   Tags:       %s\n", joinOrDash(it.Tags))
		if !it.CreatedAt.IsZero() {
			fmt.Fprintf(a.stdout, "   Created:    %s\n", it.CreatedAt.Format("2006-01-02"))
		}
		fmt.Fprintf(a.stdout, "   Score:      %.2f (raw %.0f)\n", r.Score, r.RawScore)
		if r.Snippet != "" {
			fmt.Fprintf(a.stdout, "   %s\n", r.Snippet)
		}
	}
}

func (a *App) printSummary(query string, results []search.Result, timer *timing.Timer) {
	fmt.Fprintf(a.stdout, "Search summary for %q\n", query)
	fmt.Fprintf(a.stdout, "  Results: %d\n", len(results))

	byKind := make(map[string]int)
	for _, r := range results {
		byKind[r.Item.Kind()]++
	}
	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(a.stdout, "  %-18s %d\n", k+":", byKind[k])
	}

	top := results
	if len(top) > 3 {
		top = top[:3]
	}
	fmt.Fprintln(a.stdout, "\nTop results:")
	for i, r := range top {
		fmt.Fprintf(a.stdout, "  %d. %s (%.1f)\n", i+1, r.Item.Title, r.Score)
	}

	phases := timer.Phases()
	fmt.Fprintln(a.stdout, "\nTiming:")
	for _, name := range timer.Names() {
		fmt.Fprintf(a.stdout, "  %-8s %.2fms\n", name, float64(phases[name].Microseconds())/1000)
	}
}

func (a *App) printNoResults(query string, suggestions []string, fl searchFlags) {
	fmt.Fprintf(a.stdout, "No results found for %q.\n\nSuggestions:\n", query)
	for _, s := range suggestions {
		fmt.Fprintf(a.stdout, "  - try %q\n", s)
	}
	if !fl.fuzzy {
		fmt.Fprintln(a.stdout, "  - add --fuzzy to allow near matches")
	}
	if fl.exact {
		fmt.Fprintln(a.stdout, "  - drop --exact to match words separately")
	}
	if fl.itemType != "" || fl.contentType != "" || fl.author != "" || len(fl.tags) > 0 ||
		fl.difficulty != "" || fl.status != "" || fl.createdAfter != "" || fl.createdBefore != "" {
		fmt.Fprintln(a.stdout, "  - remove some filters")
	}
	fmt.Fprintln(a.stdout, "  - use fewer or broader words")
}
