package render

import (
	"fmt"
	"strings"

	"github.com/abelzeko/hydro-dash/internal/entities"
)

// FormatMessage formats a state as plain text for chat front ends
func FormatMessage(state entities.RenderState) string {
	switch state.Kind {
	case entities.StateError:
		return "⚠️ " + state.Message
	case entities.StateEmpty:
		return NoResultsText
	}

	var result strings.Builder
	if state.QueryKind == entities.KindRealTime {
		result.WriteString("实时水情:\n\n")
	} else {
		result.WriteString(fmt.Sprintf("找到 %d 个测站:\n\n", len(state.Rows)))
	}

	for _, row := range state.Rows {
		for i, cell := range row {
			if i >= len(state.Columns) {
				break
			}
			result.WriteString(fmt.Sprintf("%s: %s\n", state.Columns[i], cell))
		}
		result.WriteString("\n")
	}

	return strings.TrimRight(result.String(), "\n")
}
