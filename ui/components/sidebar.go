package components

import (
	"fmt"
	"strings"

	"github.com/litware/littui/internal/models"
	"github.com/litware/littui/internal/utils"
	"github.com/litware/littui/ui/styles"
)

// RenderSidebar draws the recent session list. The active session is
// highlighted.
func RenderSidebar(app *models.AppModel, height int) string {
	var b strings.Builder

	b.WriteString(styles.SidebarTitleStyle().Render("Sessions") + "\n\n")

	if len(app.Sessions) == 0 {
		b.WriteString(styles.SidebarEntryStyle().Render("No saved sessions"))
	}

	for _, sess := range app.Sessions {
		line := fmt.Sprintf("%s (%d)", utils.Truncate(sess.Title, 20), sess.MessageCount)
		if sess.ID == app.SessionID {
			b.WriteString(styles.SidebarActiveStyle().Render("> "+line) + "\n")
		} else {
			b.WriteString(styles.SidebarEntryStyle().Render("  "+line) + "\n")
		}
	}

	return styles.SidebarStyle(height).Render(b.String())
}
