package render

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/abelzeko/hydro-dash/internal/entities"
)

// DefaultPage is the dashboard fragment used when no page template is given
const DefaultPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>水文数据查询</title></head>
<body>
<div class="query-results">
  <table class="results-table" style="display: none">
    <thead><tr></tr></thead>
    <tbody></tbody>
  </table>
  <div class="no-results" style="display: none">
    <p>` + NoResultsText + `</p>
  </div>
</div>
</body>
</html>`

const (
	resultsTableSelector = "table.results-table"
	noResultsSelector    = ".no-results"
)

// HTMLView keeps a dashboard page in memory and mutates its results table
// and no-results panel for every state, the same way the browser widget
// edits its DOM.
type HTMLView struct {
	mu  sync.Mutex
	doc *goquery.Document
}

// NewHTMLView parses page (DefaultPage when empty). The page must contain a
// table.results-table and a .no-results element.
func NewHTMLView(page string) (*HTMLView, error) {
	if page == "" {
		page = DefaultPage
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	table := doc.Find(resultsTableSelector).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("page has no %s element", resultsTableSelector)
	}
	panel := doc.Find(noResultsSelector).First()
	if panel.Length() == 0 {
		return nil, fmt.Errorf("page has no %s element", noResultsSelector)
	}

	if table.Find("thead").Length() == 0 {
		table.PrependHtml("<thead></thead>")
	}
	if table.Find("thead tr").Length() == 0 {
		table.Find("thead").First().AppendHtml("<tr></tr>")
	}
	if table.Find("tbody").Length() == 0 {
		table.AppendHtml("<tbody></tbody>")
	}
	if panel.Find("p").Length() == 0 {
		panel.AppendHtml("<p>" + NoResultsText + "</p>")
	}

	return &HTMLView{doc: doc}, nil
}

// Show implements View
func (v *HTMLView) Show(state entities.RenderState) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	table := v.doc.Find(resultsTableSelector).First()
	panel := v.doc.Find(noResultsSelector).First()
	body := table.Find("tbody").First()

	switch state.Kind {
	case entities.StateResults:
		var head strings.Builder
		for _, col := range state.Columns {
			head.WriteString("<th>" + html.EscapeString(col) + "</th>")
		}
		table.Find("thead tr").First().SetHtml(head.String())

		var rows strings.Builder
		for _, row := range state.Rows {
			rows.WriteString("<tr>")
			for _, cell := range row {
				rows.WriteString("<td>" + html.EscapeString(cell) + "</td>")
			}
			rows.WriteString("</tr>")
		}
		body.SetHtml(rows.String())

		table.SetAttr("style", "display: table")
		panel.SetAttr("style", "display: none")

	case entities.StateError:
		table.SetAttr("style", "display: none")
		panel.SetAttr("style", "display: block")
		panel.Find("p").First().SetText(state.Message)

	default:
		body.Empty()
		table.SetAttr("style", "display: none")
		panel.SetAttr("style", "display: block")
		panel.Find("p").First().SetText(NoResultsText)
	}

	return nil
}

// HTML returns the current page
func (v *HTMLView) HTML() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.doc.Html()
}
