package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bjpl/algolearn/internal/curriculum"
	"github.com/bjpl/algolearn/internal/models"
	"github.com/bjpl/algolearn/internal/progress"
)

const barWidth = 20

func (a *App) newProgressCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Track lesson progress",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.init(); err != nil {
				return err
			}
			return a.openStores()
		},
	}
	cmd.AddCommand(a.newProgressMarkCommand("start", "Mark a lesson as started", a.progressStart))
	cmd.AddCommand(a.newProgressMarkCommand("complete", "Mark a lesson as completed", a.progressComplete))
	cmd.AddCommand(a.newProgressResetCommand())
	cmd.AddCommand(a.newProgressShowCommand())
	return cmd
}

type markFunc func(ctx context.Context, ref progress.LessonRef) (*models.LessonProgress, error)

func (a *App) progressStart(ctx context.Context, ref progress.LessonRef) (*models.LessonProgress, error) {
	return a.progress.Start(ctx, a.user(), ref)
}

func (a *App) progressComplete(ctx context.Context, ref progress.LessonRef) (*models.LessonProgress, error) {
	return a.progress.Complete(ctx, a.user(), ref)
}

func (a *App) newProgressMarkCommand(use, short string, mark markFunc) *cobra.Command {
	return &cobra.Command{
		Use:     use + " <lesson-id>",
		Short:   short,
		Example: fmt.Sprintf("  algolearn progress %s big-o-notation", use),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lesson, mod, err := a.repo.FindLesson(args[0])
			if err != nil {
				return err
			}
			row, err := mark(cmd.Context(), progress.LessonRef{
				CurriculumID: mod.CurriculumID,
				ModuleID:     mod.ID,
				LessonID:     lesson.ID,
			})
			if err != nil {
				return err
			}
			a.metrics.RecordProgressChange(row.Status)
			fmt.Fprintf(a.stdout, "%s: %s (%s)\n", lesson.Title, row.Status, mod.Title)
			return nil
		},
	}
}

func (a *App) newProgressResetCommand() *cobra.Command {
	var curriculumID string
	cmd := &cobra.Command{
		Use:   "reset [lesson-id]",
		Short: "Forget progress on a lesson or a whole curriculum",
		Example: `  algolearn progress reset binary-search
  algolearn progress reset --curriculum-id algorithms-fundamentals`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case len(args) == 1 && curriculumID != "":
				return errors.New("give a lesson ID or --curriculum-id, not both")
			case len(args) == 1:
				if err := a.progress.Reset(cmd.Context(), a.user(), args[0]); err != nil {
					return err
				}
				a.metrics.RecordProgressChange("reset")
				fmt.Fprintf(a.stdout, "Reset progress on %s\n", args[0])
				return nil
			case curriculumID != "":
				c, err := curriculum.Find(a.repo, curriculumID)
				if err != nil {
					return err
				}
				n, err := a.progress.ResetCurriculum(cmd.Context(), a.user(), c.ID)
				if err != nil {
					return err
				}
				if n > 0 {
					a.metrics.RecordProgressChange("reset")
				}
				fmt.Fprintf(a.stdout, "Reset %d lessons in %s\n", n, c.Name)
				return nil
			}
			return errors.New("give a lesson ID or --curriculum-id")
		},
	}
	cmd.Flags().StringVar(&curriculumID, "curriculum-id", "", "Reset every lesson in this curriculum (ID or name)")
	return cmd
}

func (a *App) newProgressShowCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show <curriculum>",
		Short: "Show your progress through a curriculum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, "text", "json"); err != nil {
				return err
			}
			sum, err := a.progress.Summary(cmd.Context(), a.repo, a.user(), args[0])
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(a.stdout, sum)
			}

			fmt.Fprintf(a.stdout, "%s (%s)\n", sum.Name, sum.User)
			fmt.Fprintf(a.stdout, "%s %5.1f%%  %d/%d completed, %d in progress\n\n",
				progressBar(sum.Percent, barWidth), sum.Percent, sum.Completed, sum.Total, sum.Started)

			t := newTable(0, "MODULE", "PROGRESS", "DONE", "STARTED")
			for _, ms := range sum.Modules {
				var pct float64
				if ms.Total > 0 {
					pct = float64(ms.Completed) / float64(ms.Total) * 100
				}
				t.add(ms.Title, progressBar(pct, 10),
					fmt.Sprintf("%d/%d", ms.Completed, ms.Total), fmt.Sprint(ms.Started))
			}
			t.render(a.stdout, a.termWidth())
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	return cmd
}
