package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bjpl/algolearn/internal/curriculum"
	"github.com/bjpl/algolearn/internal/models"
)

func (a *App) newCurriculumCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "curriculum",
		Aliases: []string{"cur"},
		Short:   "Browse and maintain curricula",
	}
	cmd.AddCommand(a.newCurriculumListCommand())
	cmd.AddCommand(a.newCurriculumShowCommand())
	cmd.AddCommand(a.newCurriculumModulesCommand())
	cmd.AddCommand(a.newCurriculumLessonCommand())
	cmd.AddCommand(a.newCurriculumStatsCommand())
	cmd.AddCommand(a.newCurriculumValidateCommand())
	cmd.AddCommand(a.newCurriculumMigrateCommand())
	cmd.AddCommand(a.newCurriculumWatchCommand())
	return cmd
}

func checkFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q (want one of %v)", format, allowed)
}

func (a *App) newCurriculumListCommand() *cobra.Command {
	var (
		f          curriculum.Filter
		status     string
		difficulty string
		format     string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List curricula",
		Example: `  algolearn curriculum list
  algolearn curriculum list --status active --tag algorithms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, "table", "json"); err != nil {
				return err
			}
			f.Status = models.Status(status)
			if status != "" && !f.Status.Valid() {
				return fmt.Errorf("invalid status %q", status)
			}
			f.Difficulty = models.Difficulty(difficulty)
			if difficulty != "" && !f.Difficulty.Valid() {
				return fmt.Errorf("invalid difficulty %q", difficulty)
			}

			list := a.repo.Curricula(f)
			if format == "json" {
				return writeJSON(a.stdout, list)
			}
			if len(list) == 0 {
				fmt.Fprintln(a.stdout, "No curricula match the given filters.")
				return nil
			}

			t := newTable(1, "ID", "NAME", "STATUS", "DIFFICULTY", "MODULES", "LESSONS", "STUDENTS", "RATING")
			for _, c := range list {
				t.add(c.ID, c.Name, string(c.Status), string(c.Difficulty),
					fmt.Sprint(c.ModuleCount), fmt.Sprint(c.LessonCount),
					fmt.Sprint(c.StudentCount), fmt.Sprintf("%.1f", c.Rating))
			}
			t.render(a.stdout, a.termWidth())
			fmt.Fprintf(a.stdout, "\n%d curricula\n", len(list))
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (draft, active, archived, published)")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "Filter by difficulty (beginner, intermediate, advanced, expert)")
	cmd.Flags().StringVar(&f.Category, "category", "", "Filter by category substring")
	cmd.Flags().StringVar(&f.Author, "author", "", "Filter by author substring")
	cmd.Flags().StringVar(&f.Tag, "tag", "", "Filter by tag")
	cmd.Flags().StringVar(&f.Search, "search", "", "Free-text filter over name and description")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, json")
	return cmd
}

func (a *App) newCurriculumShowCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show <id|name>",
		Short: "Show a curriculum and its modules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, "text", "json"); err != nil {
				return err
			}
			c, err := curriculum.Find(a.repo, args[0])
			if err != nil {
				return err
			}
			mods := a.repo.Modules(c.ID)

			if format == "json" {
				return writeJSON(a.stdout, struct {
					*models.Curriculum
					Modules []models.Module `json:"modules"`
				}{c, mods})
			}

			w := a.stdout
			fmt.Fprintf(w, "%s\n", c.Name)
			fmt.Fprintf(w, "  ID:          %s\n", c.ID)
			fmt.Fprintf(w, "  Status:      %s\n", c.Status)
			fmt.Fprintf(w, "  Difficulty:  %s\n", c.Difficulty)
			fmt.Fprintf(w, "  Category:    %s\n", c.Category)
			fmt.Fprintf(w, "  Author:      %s\n", c.Author)
			fmt.Fprintf(w, "  Tags:        %s\n", joinOrDash(c.Tags))
			fmt.Fprintf(w, "  Students:    %d (%.0f%% completion)\n", c.StudentCount, c.CompletionRate*100)
			fmt.Fprintf(w, "  Rating:      %.1f\n", c.Rating)
			if !c.CreatedAt.IsZero() {
				fmt.Fprintf(w, "  Created:     %s\n", c.CreatedAt.Format("2006-01-02"))
			}
			if c.Description != "" {
				fmt.Fprintf(w, "\n  %s\n", c.Description)
			}
			fmt.Fprintf(w, "\nModules (%d):\n", len(mods))
			for _, m := range mods {
				fmt.Fprintf(w, "  %d. %s [%s] - %d lessons\n", m.Order, m.Title, m.ID, len(m.Lessons))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json")
	return cmd
}

func (a *App) newCurriculumModulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "modules <id|name>",
		Short: "List a curriculum's modules and lessons",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := curriculum.Find(a.repo, args[0])
			if err != nil {
				return err
			}
			mods := a.repo.Modules(c.ID)
			if len(mods) == 0 {
				fmt.Fprintf(a.stdout, "%s has no modules.\n", c.Name)
				return nil
			}
			for _, m := range mods {
				fmt.Fprintf(a.stdout, "%d. %s [%s]\n", m.Order, m.Title, m.ID)
				for _, l := range m.Lessons {
					fmt.Fprintf(a.stdout, "   - %s [%s] %s, %s\n", l.Title, l.ID, l.Difficulty, l.EstimatedTime)
				}
			}
			return nil
		},
	}
}

func (a *App) newCurriculumLessonCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "lesson <lesson-id>",
		Short: "Show a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, "text", "json"); err != nil {
				return err
			}
			l, m, err := a.repo.FindLesson(args[0])
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(a.stdout, struct {
					*models.Lesson
					ModuleID     string `json:"module_id"`
					CurriculumID string `json:"curriculum_id"`
				}{l, m.ID, m.CurriculumID})
			}

			w := a.stdout
			fmt.Fprintf(w, "%s\n", l.Title)
			fmt.Fprintf(w, "  ID:             %s\n", l.ID)
			fmt.Fprintf(w, "  Module:         %s (%s)\n", m.Title, m.ID)
			fmt.Fprintf(w, "  Difficulty:     %s\n", l.Difficulty)
			fmt.Fprintf(w, "  Estimated time: %s\n", l.EstimatedTime)
			fmt.Fprintf(w, "  Practice:       %d problems\n", l.PracticeProblems)
			fmt.Fprintf(w, "  Topics:         %s\n", joinOrDash(l.Topics))
			fmt.Fprintf(w, "  Prerequisites:  %s\n", joinOrDash(l.Prerequisites))
			if len(l.Objectives) > 0 {
				fmt.Fprintln(w, "\nObjectives:")
				for _, o := range l.Objectives {
					fmt.Fprintf(w, "  - %s\n", o)
				}
			}
			if l.Content != "" {
				fmt.Fprintf(w, "\n%s\n", l.Content)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json")
	return cmd
}

func (a *App) newCurriculumStatsCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate curriculum statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, "text", "json"); err != nil {
				return err
			}
			s := a.repo.Statistics()
			if format == "json" {
				return writeJSON(a.stdout, s)
			}

			w := a.stdout
			fmt.Fprintf(w, "Curricula:          %d\n", s.TotalCurricula)
			fmt.Fprintf(w, "Modules:            %d\n", s.TotalModules)
			fmt.Fprintf(w, "Lessons:            %d\n", s.TotalLessons)
			fmt.Fprintf(w, "Practice problems:  %d\n", s.TotalPracticeProblems)
			fmt.Fprintf(w, "Students:           %d\n", s.TotalStudents)
			fmt.Fprintf(w, "Avg completion:     %.1f%%\n", s.AverageCompletionRate*100)
			fmt.Fprintf(w, "Avg rating:         %.2f\n", s.AverageRating)
			printCounts(a, "By status", s.ByStatus)
			printCounts(a, "By difficulty", s.ByDifficulty)
			printCounts(a, "By category", s.ByCategory)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json")
	return cmd
}

func printCounts(a *App, title string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(a.stdout, "\n%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(a.stdout, "  %-20s %d\n", k, counts[k])
	}
}

func (a *App) newCurriculumValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the loaded curriculum for integrity problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range a.loadInfo.Skipped {
				fmt.Fprintf(a.stderr, "warning: skipped %s: %s\n", s.Path, s.Reason)
			}

			issues := curriculum.Validate(a.repo.Dataset())
			if len(issues) == 0 {
				fmt.Fprintf(a.stdout, "OK: %s\n", a.describeSource())
				return nil
			}
			for _, i := range issues {
				fmt.Fprintf(a.stdout, "%-22s %s\n", i.Kind, i.Message)
			}
			return fmt.Errorf("%d integrity issues found", len(issues))
		},
	}
}

func (a *App) describeSource() string {
	switch a.loadInfo.Source {
	case curriculum.SourceDefault:
		return "built-in curriculum"
	case curriculum.SourceLegacy:
		return a.loadInfo.Path + " (legacy format)"
	case "":
		return "injected curriculum"
	}
	return a.loadInfo.Path
}

func (a *App) newCurriculumMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <out>",
		Short: "Write the loaded curriculum in the current file format",
		Long: `migrate writes the loaded curriculum to <out> in the curricula + modules
format. Loading a legacy modules-only file and migrating it upgrades the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := a.repo.Dataset()
			if err := curriculum.Export(cmd.Context(), ds, args[0]); err != nil {
				return err
			}
			a.log.Info("curriculum_exported", "path", args[0], "curricula", len(ds.Curricula))
			fmt.Fprintf(a.stdout, "Wrote %d curricula, %d modules, %d lessons to %s\n",
				len(ds.Curricula), len(ds.Modules), ds.LessonCount(), args[0])
			return nil
		},
	}
}

func (a *App) newCurriculumWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reload and re-validate the curriculum file whenever it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.loadInfo.Path
			if path == "" {
				return errors.New("watch needs a curriculum file (use --curriculum or curriculum_path)")
			}
			fmt.Fprintf(a.stdout, "Watching %s (Ctrl-C to stop)\n", path)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			reloads := make(chan reload)
			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				return curriculum.Watch(ctx, a.log, path, func(m *curriculum.Manager, info curriculum.LoadInfo) {
					select {
					case reloads <- reload{m, info}:
					case <-ctx.Done():
					}
				})
			})
			g.Go(func() error {
				return a.reportReloads(ctx, reloads)
			})

			return g.Wait()
		},
	}
}

type reload struct {
	manager *curriculum.Manager
	info    curriculum.LoadInfo
}

func (a *App) reportReloads(ctx context.Context, reloads <-chan reload) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case r := <-reloads:
			a.repo = r.manager
			a.loadInfo = r.info
			a.metrics.RecordCurriculumLoad(string(r.info.Source))

			stats := r.manager.Statistics()
			issues := curriculum.Validate(r.manager.Dataset())
			fmt.Fprintf(a.stdout, "reloaded %s: %d curricula, %d lessons, %d issues\n",
				a.describeSource(), stats.TotalCurricula, stats.TotalLessons, len(issues))
			for _, s := range r.info.Skipped {
				fmt.Fprintf(a.stdout, "  skipped %s: %s\n", s.Path, s.Reason)
			}
		}
	}
}
