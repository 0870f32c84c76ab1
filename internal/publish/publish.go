// Package publish writes a project board out as plain Markdown files.
package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"taskorium-cli/internal/store"
)

type WriteOptions struct {
	IncludeBodies bool
	Overwrite     bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteBoard writes <toDir>/<projectId>/index.md and one page per card under cards/.
func WriteBoard(view store.BoardView, toDir string, opt WriteOptions) (WriteResult, error) {
	if strings.TrimSpace(view.Project.ID) == "" {
		return WriteResult{}, errors.New("missing project")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	boardDir := filepath.Join(toDir, view.Project.ID)
	cardsDir := filepath.Join(boardDir, "cards")
	if err := os.MkdirAll(cardsDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	indexPath := filepath.Join(boardDir, "index.md")
	if err := writeFile(indexPath, RenderBoardMarkdown(view, RenderOptions{IncludeBodies: opt.IncludeBodies}), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	// Stop on first error.
	written := []string{indexPath}
	for _, col := range view.Columns {
		for _, c := range col.Cards {
			p := filepath.Join(cardsDir, c.ID+".md")
			if err := writeFile(p, RenderCardMarkdown(view, c, col.Name), opt.Overwrite); err != nil {
				return WriteResult{}, err
			}
			written = append(written, p)
		}
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path, content string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return atomic.WriteFile(path, strings.NewReader(content))
}
