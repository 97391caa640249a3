package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/eduplay-console/internal/resource"
)

// View renders the current screen (required by Bubble Tea)
func (m *App) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}
	if m.route == RouteLogin {
		return m.renderLogin()
	}
	return m.renderConsole()
}

func (m *App) renderHeader() string {
	return m.styles.Title.Render("EduPlay Console") + "\n" +
		m.styles.Subtitle.Render("Educational Minigames Administration")
}

func (m *App) renderLogin() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch {
	case m.loginBusy:
		b.WriteString(m.spinner.View() + " Logging in...")
	case m.loginForm != nil:
		b.WriteString(m.loginForm.View())
	}
	if m.seeding {
		b.WriteString("\n" + m.spinner.View() + " Initializing sample data...")
	}

	b.WriteString(m.renderToast())
	b.WriteString(m.renderHelp([][2]string{{"ctrl+s", "seed sample data"}, {"ctrl+c", "quit"}}))
	return b.String()
}

func (m *App) renderConsole() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.overlay != overlayNone {
		b.WriteString(m.renderOverlay())
	} else if _, t := m.current(); t != nil {
		b.WriteString(m.renderEntity(t))
	} else {
		b.WriteString(m.renderHome())
	}

	b.WriteString(m.renderToast())
	b.WriteString(m.renderHelp(m.keyHelp()))
	return b.String()
}

func (m *App) renderTabs() string {
	tabs := make([]string, 0, len(m.entities)+1)
	titles := append([]string{"Home"}, m.tabTitles()...)
	for i, title := range titles {
		style := m.styles.Tab
		if i == m.active {
			style = m.styles.ActiveTab
		}
		tabs = append(tabs, style.Render(title))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *App) tabTitles() []string {
	out := make([]string, len(m.entities))
	for i, t := range m.entities {
		out[i] = t.binding.Descriptor().Title()
	}
	return out
}

func (m *App) renderHome() string {
	if m.stats == nil {
		if m.statsLoading {
			return m.spinner.View() + " Loading dashboard..."
		}
		return m.styles.Muted.Render("No statistics loaded. Press r to retry.")
	}

	s := m.stats
	card := func(label, value string) string {
		return m.styles.Stat.Render(m.styles.Muted.Render(label) + "\n" + m.styles.StatValue.Render(value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total Users", fmt.Sprint(s.TotalUsers)),
		card("Upgraded Users", fmt.Sprint(s.UpgradedUsers)),
		card("Standard Users", fmt.Sprint(s.StandardUsers)),
		card("Total Games", fmt.Sprint(s.TotalGames)),
		card("Total Revenue", fmt.Sprintf("$%.2f", s.TotalRevenue)),
	)
}

func (m *App) renderEntity(t *entityTab) string {
	var b strings.Builder
	d := t.binding.Descriptor()

	status := fmt.Sprintf("%d %s", t.binding.Len(), strings.ToLower(d.Title()))
	if t.fetching {
		status = m.spinner.View() + " Loading " + strings.ToLower(d.Title()) + "..."
	} else if t.binding.State() == resource.StateFailed {
		status = m.styles.Error.Render("Could not load " + strings.ToLower(d.Title()))
	}
	if d.Endpoint().ReadOnly() {
		status += m.styles.Muted.Render("  (read-only)")
	}
	b.WriteString(status)
	b.WriteString("\n")

	if t.binding.Len() == 0 && !t.fetching {
		b.WriteString(m.styles.Muted.Render("No records."))
		return b.String()
	}
	b.WriteString(m.styles.Border.Render(t.table.View()))
	return b.String()
}

func (m *App) renderOverlay() string {
	busy := m.overlayBusy()
	if m.form == nil || busy {
		return m.spinner.View() + " Submitting..."
	}
	return m.styles.Border.Render(m.form.View())
}

func (m *App) renderToast() string {
	if m.toast == nil {
		return ""
	}
	style := m.styles.Success
	if m.toast.failure {
		style = m.styles.Error
	}
	return "\n\n" + style.Render(m.toast.text)
}

func (m *App) keyHelp() [][2]string {
	if m.overlay != overlayNone {
		return [][2]string{{"enter", "next"}, {"esc", "cancel"}}
	}
	keys := [][2]string{{"tab", "switch"}, {"r", "refresh"}}
	if _, t := m.current(); t != nil {
		ep := t.binding.Descriptor().Endpoint()
		if ep.CanCreate() {
			keys = append(keys, [2]string{"n", "new"})
		}
		if ep.CanModify() {
			keys = append(keys, [2]string{"e", "edit"}, [2]string{"d", "delete"})
		}
		if t.binding.Descriptor().SupportsEffects() {
			keys = append(keys, [2]string{"x", "live effect"})
		}
	}
	return append(keys, [2]string{"L", "logout"}, [2]string{"q", "quit"})
}

func (m *App) renderHelp(keys [][2]string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = m.styles.Key.Render(k[0]) + " " + k[1]
	}
	return m.styles.Help.Render(strings.Join(parts, " • "))
}
