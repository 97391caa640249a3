package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/eduplay-console/internal/model"
)

// Messages exchanged between commands and the event loop. Network calls run
// inside tea.Cmds and report back with a *DoneMsg.

type loginSubmitMsg struct {
	username string
	password string
}

type loginDoneMsg struct{ err error }

type seedDoneMsg struct {
	result *model.SeedResult
	err    error
}

type statsDoneMsg struct {
	stats *model.DashboardStats
	err   error
}

type refreshDoneMsg struct {
	tab int
	err error
}

type dialogSubmitMsg struct{ tab int }

type mutationDoneMsg struct {
	tab int
	err error
}

type deleteConfirmMsg struct {
	tab       int
	id        string
	confirmed bool
}

type effectSubmitMsg struct{}

type effectDoneMsg struct {
	username string
	err      error
}

type logoutMsg struct{}

func emit(msg tea.Msg) tea.Cmd { return func() tea.Msg { return msg } }
