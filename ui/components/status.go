package components

import (
	"fmt"
	"strings"

	"github.com/litware/littui/internal/models"
	"github.com/litware/littui/ui/styles"
)

// RenderStatus draws the status bar: status text with a loading animation on
// the left, model and tool info on the right.
func RenderStatus(app *models.AppModel) string {
	left := app.Status
	if app.Generating {
		left += strings.Repeat(".", app.LoadingDots)
	}

	right := ""
	if app.Model != "" {
		right = app.Model
	}
	if app.ToolsReady {
		right += fmt.Sprintf("  %d tools", app.ToolCount)
	}

	gap := app.Width - len(left) - len(right) - 2
	if gap < 1 {
		gap = 1
	}

	return styles.StatusStyle(app.Width).Render(left + strings.Repeat(" ", gap) + right)
}
