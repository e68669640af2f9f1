package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/abelzeko/hydro-dash/internal/entities"
)

// NoResultsText is the generic no-results panel text
const NoResultsText = "未找到相关数据"

// View displays render states. Each call replaces what was shown before.
type View interface {
	Show(state entities.RenderState) error
}

// NewView returns the view for an output format: table, json or html
func NewView(format string, w io.Writer) (View, error) {
	switch format {
	case "", "table":
		return NewTextView(w), nil
	case "json":
		return &JSONView{w: w}, nil
	case "html":
		v, err := NewHTMLView("")
		if err != nil {
			return nil, err
		}
		return &htmlWriter{view: v, w: w}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want table, json or html)", format)
	}
}

// JSONView writes each state as an indented JSON document
type JSONView struct {
	w io.Writer
}

// Show implements View
func (v *JSONView) Show(state entities.RenderState) error {
	enc := json.NewEncoder(v.w)
	enc.SetIndent("", "  ")
	return enc.Encode(state)
}

// htmlWriter applies states to an HTMLView and writes the page after each one
type htmlWriter struct {
	view *HTMLView
	w    io.Writer
}

func (h *htmlWriter) Show(state entities.RenderState) error {
	if err := h.view.Show(state); err != nil {
		return err
	}
	html, err := h.view.HTML()
	if err != nil {
		return err
	}
	_, err = io.WriteString(h.w, html+"\n")
	return err
}
