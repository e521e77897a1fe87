package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

const wordWrap = 100

// renderMarkdown renders md for the terminal. Unknown themes fall back to
// detecting the terminal background.
func renderMarkdown(md, theme string) (string, error) {
	if _, ok := styles.DefaultStyles[theme]; !ok {
		theme = styles.AutoStyle
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

func printMarkdown(w io.Writer, md, theme string) error {
	out, err := renderMarkdown(md, theme)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
