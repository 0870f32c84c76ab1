package publish

import (
	"bytes"
	"fmt"
	"strings"

	"taskorium-cli/internal/store"
)

type RenderOptions struct {
	// IncludeBodies inlines card bodies into the board index.
	IncludeBodies bool
}

// RenderBoardMarkdown renders one project as a Markdown document: a section per column, in board
// order, each card as a list entry with its subtask progress.
func RenderBoardMarkdown(view store.BoardView, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(view.Project.Name))
	writeLn("")
	if d := strings.TrimSpace(view.Project.Description); d != "" {
		writeLn(d)
		writeLn("")
	}
	writeLn("- ID: " + view.Project.ID)
	if view.Project.Theme != "" {
		writeLn("- Theme: " + view.Project.Theme.DisplayName())
	}
	writeLn("")

	for _, col := range view.Columns {
		writeLn(fmt.Sprintf("## %s (%d)", strings.TrimSpace(col.Name), len(col.Cards)))
		writeLn("")
		if len(col.Cards) == 0 {
			writeLn("_No cards._")
			writeLn("")
			continue
		}
		for _, c := range col.Cards {
			line := "- [" + strings.TrimSpace(c.Title) + "](cards/" + c.ID + ".md)"
			if n := len(c.Subtasks); n > 0 {
				line += fmt.Sprintf(" (%d/%d)", c.CompletedCount, n)
			}
			writeLn(line)
			if opt.IncludeBodies {
				for _, ln := range strings.Split(strings.TrimSpace(c.Body), "\n") {
					if strings.TrimSpace(ln) != "" {
						writeLn("  " + ln)
					}
				}
			}
		}
		writeLn("")
	}
	return strings.TrimRight(buf.String(), "\n") + "\n"
}

// RenderCardMarkdown renders a single card page.
func RenderCardMarkdown(view store.BoardView, card store.CardView, columnName string) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(card.Title))
	writeLn("")
	writeLn("- ID: " + card.ID)
	writeLn("- Project: " + strings.TrimSpace(view.Project.Name) + " (" + view.Project.ID + ")")
	writeLn("- Column: " + strings.TrimSpace(columnName))
	writeLn("- Created: " + card.CreatedAt.UTC().Format("2006-01-02 15:04"))
	writeLn("")

	if body := strings.TrimSpace(card.Body); body != "" {
		writeLn(body)
		writeLn("")
	}
	if len(card.Subtasks) > 0 {
		writeLn("## Subtasks")
		writeLn("")
		for _, s := range card.Subtasks {
			box := "[ ]"
			if s.Completed {
				box = "[x]"
			}
			writeLn("- " + box + " " + strings.TrimSpace(s.Title))
		}
		writeLn("")
	}
	return strings.TrimRight(buf.String(), "\n") + "\n"
}
