package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bjpl/algolearn/internal/curriculum"
	"github.com/bjpl/algolearn/internal/models"
	"github.com/bjpl/algolearn/internal/notes"
)

// noteView is the JSON shape of a note, with tags expanded
type noteView struct {
	ID           string    `json:"id"`
	CurriculumID string    `json:"curriculum_id,omitempty"`
	LessonID     string    `json:"lesson_id,omitempty"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newNoteView(n *models.Note) noteView {
	tags := n.Tags()
	if tags == nil {
		tags = []string{}
	}
	return noteView{
		ID:           n.ID,
		CurriculumID: n.CurriculumID,
		LessonID:     n.LessonID,
		Title:        n.Title,
		Content:      n.Content,
		Tags:         tags,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}

func (a *App) newNotesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage study notes",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.init(); err != nil {
				return err
			}
			return a.openStores()
		},
	}
	cmd.AddCommand(a.newNotesAddCommand())
	cmd.AddCommand(a.newNotesListCommand())
	cmd.AddCommand(a.newNotesShowCommand())
	cmd.AddCommand(a.newNotesEditCommand())
	cmd.AddCommand(a.newNotesDeleteCommand())
	cmd.AddCommand(a.newNotesSearchCommand())
	return cmd
}

func (a *App) newNotesAddCommand() *cobra.Command {
	var (
		content      string
		curriculumID string
		lessonID     string
		tags         []string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a note",
		Example: `  algolearn notes add "Binary search bounds" --lesson binary-search --content "lo <= hi"
  algolearn notes add "Revisit DP" --curriculum-id advanced-algorithms --tag todo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := &models.Note{
				UserID:  a.user(),
				Title:   args[0],
				Content: content,
			}
			n.SetTags(tags)

			if curriculumID != "" {
				c, err := curriculum.Find(a.repo, curriculumID)
				if err != nil {
					return err
				}
				n.CurriculumID = c.ID
			}
			if lessonID != "" {
				_, mod, err := a.repo.FindLesson(lessonID)
				if err != nil {
					return err
				}
				if n.CurriculumID != "" && n.CurriculumID != mod.CurriculumID {
					return fmt.Errorf("lesson %q is not part of curriculum %q", lessonID, n.CurriculumID)
				}
				n.LessonID = lessonID
				n.CurriculumID = mod.CurriculumID
			}

			if err := a.notes.Add(cmd.Context(), n); err != nil {
				return err
			}
			a.metrics.RecordNoteChange("added")
			fmt.Fprintf(a.stdout, "Added note %s: %s\n", n.ShortID(), n.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "Note body")
	cmd.Flags().StringVar(&curriculumID, "curriculum-id", "", "Attach to a curriculum (ID or name)")
	cmd.Flags().StringVar(&lessonID, "lesson", "", "Attach to a lesson")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")
	return cmd
}

func (a *App) newNotesListCommand() *cobra.Command {
	var (
		filter notes.ListFilter
		format string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your notes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, "table", "json"); err != nil {
				return err
			}
			filter.UserID = a.user()
			list, err := a.notes.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.printNotes(list, format, "No notes yet. Add one with: algolearn notes add <title>")
		},
	}
	cmd.Flags().StringVar(&filter.CurriculumID, "curriculum-id", "", "Only notes on this curriculum")
	cmd.Flags().StringVar(&filter.LessonID, "lesson", "", "Only notes on this lesson")
	cmd.Flags().StringVar(&filter.Tag, "tag", "", "Only notes with this tag")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	return cmd
}

func (a *App) printNotes(list []models.Note, format, empty string) error {
	if format == "json" {
		views := make([]noteView, 0, len(list))
		for i := range list {
			views = append(views, newNoteView(&list[i]))
		}
		return writeJSON(a.stdout, views)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.stdout, empty)
		return nil
	}

	t := newTable(1, "ID", "TITLE", "LESSON", "TAGS", "UPDATED")
	for i := range list {
		n := &list[i]
		lesson := n.LessonID
		if lesson == "" {
			lesson = "-"
		}
		t.add(n.ShortID(), n.Title, lesson, joinOrDash(n.Tags()), n.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	t.render(a.stdout, a.termWidth())
	fmt.Fprintf(a.stdout, "\n%d notes\n", len(list))
	return nil
}

func (a *App) newNotesShowCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a note by ID or ID prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, "text", "json"); err != nil {
				return err
			}
			n, err := a.notes.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(a.stdout, newNoteView(n))
			}

			fmt.Fprintf(a.stdout, "%s\n%s\n", n.Title, strings.Repeat("=", len([]rune(n.Title))))
			fmt.Fprintf(a.stdout, "ID:         %s\n", n.ID)
			if n.CurriculumID != "" {
				fmt.Fprintf(a.stdout, "Curriculum: %s\n", n.CurriculumID)
			}
			if n.LessonID != "" {
				fmt.Fprintf(a.stdout, "Lesson:     %s\n", n.LessonID)
			}
			fmt.Fprintf(a.stdout, "Tags:       %s\n", joinOrDash(n.Tags()))
			fmt.Fprintf(a.stdout, "Created:    %s\n", n.CreatedAt.Local().Format("2006-01-02 15:04"))
			fmt.Fprintf(a.stdout, "Updated:    %s\n", n.UpdatedAt.Local().Format("2006-01-02 15:04"))
			if n.Content != "" {
				fmt.Fprintf(a.stdout, "\n%s\n", n.Content)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	return cmd
}

func (a *App) newNotesEditCommand() *cobra.Command {
	var (
		title   string
		content string
		tags    []string
	)
	cmd := &cobra.Command{
		Use:     "edit <id>",
		Short:   "Change a note's title, content or tags",
		Example: `  algolearn notes edit 3f2a --content "use lo < hi" --tag bounds`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u notes.Update
			if cmd.Flags().Changed("title") {
				u.Title = &title
			}
			if cmd.Flags().Changed("content") {
				u.Content = &content
			}
			if cmd.Flags().Changed("tag") {
				u.Tags = &tags
			}
			if u.Title == nil && u.Content == nil && u.Tags == nil {
				return fmt.Errorf("nothing to change (use --title, --content or --tag)")
			}

			n, err := a.notes.Update(cmd.Context(), args[0], u)
			if err != nil {
				return err
			}
			a.metrics.RecordNoteChange("updated")
			fmt.Fprintf(a.stdout, "Updated note %s: %s\n", n.ShortID(), n.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&content, "content", "", "New content")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Replacement tags (repeatable)")
	return cmd
}

func (a *App) newNotesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.notes.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.metrics.RecordNoteChange("deleted")
			fmt.Fprintf(a.stdout, "Deleted note %s\n", args[0])
			return nil
		},
	}
}

func (a *App) newNotesSearchCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find notes whose title or content contains query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, "table", "json"); err != nil {
				return err
			}
			list, err := a.notes.Search(cmd.Context(), a.user(), args[0])
			if err != nil {
				return err
			}
			return a.printNotes(list, format, fmt.Sprintf("No notes match %q.", args[0]))
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	return cmd
}
