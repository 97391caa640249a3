// Package tui is the interactive terminal console: a login screen and a
// tabbed console over every catalog entity.
package tui

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/eduplay-console/internal/api"
	"github.com/felixgeelhaar/eduplay-console/internal/catalog"
	"github.com/felixgeelhaar/eduplay-console/internal/log"
	"github.com/felixgeelhaar/eduplay-console/internal/model"
	"github.com/felixgeelhaar/eduplay-console/internal/resource"
	"github.com/felixgeelhaar/eduplay-console/internal/session"
	"github.com/felixgeelhaar/eduplay-console/internal/ux"
)

// Console is the API surface the terminal console drives. *api.Client
// implements it.
type Console interface {
	resource.Requester
	Session() session.Store
	Login(ctx context.Context, username, password string) (*model.Token, error)
	Logout() error
	SeedSampleData(ctx context.Context) (*model.SeedResult, error)
	DashboardStats(ctx context.Context) (*model.DashboardStats, error)
	SendLiveEffect(ctx context.Context, effect model.LiveEffect) (*model.Message, error)
}

var _ Console = (*api.Client)(nil)

// Route is the top-level screen.
type Route int

const (
	RouteLogin Route = iota
	RouteConsole
)

func (r Route) String() string {
	if r == RouteConsole {
		return "console"
	}
	return "login"
}

type overlay int

const (
	overlayNone overlay = iota
	overlayDialog
	overlayConfirm
	overlayEffect
)

// Options configure an App.
type Options struct {
	Logger *log.Logger
	// Entities defaults to catalog.All().
	Entities []catalog.Descriptor
	// DisableSpinner stops spinner animation ticks.
	DisableSpinner bool
}

// entityTab is one entity's live binding and its table.
type entityTab struct {
	binding  catalog.Binding
	table    table.Model
	fetching bool
	pending  bool
	// ids are the record ids of the rows as last shown.
	ids []string
}

// App is the root bubbletea model.
type App struct {
	ctx    context.Context
	client Console
	logger *log.Logger
	notes  *noteQueue
	styles Styles

	route     Route
	loginForm *huh.Form
	loginBusy bool
	seeding   bool

	// active 0 is Home; tab i is entities[i-1].
	entities     []*entityTab
	active       int
	stats        *model.DashboardStats
	statsLoading bool

	overlay        overlay
	form           *huh.Form
	deleteID       string
	effectDraft    *resource.Draft
	effectUserID   string
	effectUsername string
	effectBusy     bool

	toast   *toast
	spinner spinner.Model
	animate bool

	width    int
	height   int
	ready    bool
	quitting bool
}

// NewApp builds the console. The route starts at the console when the
// client's session already holds a token.
func NewApp(ctx context.Context, client Console, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.Entities == nil {
		opts.Entities = catalog.All()
	}

	m := &App{
		ctx:     ctx,
		client:  client,
		logger:  opts.Logger,
		notes:   &noteQueue{},
		styles:  DefaultStyles(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		animate: !opts.DisableSpinner,
	}

	for _, d := range opts.Entities {
		cols := make([]table.Column, 0, len(d.Headers()))
		widths := d.Widths()
		for i, h := range d.Headers() {
			cols = append(cols, table.Column{Title: h, Width: widths[i]})
		}
		m.entities = append(m.entities, &entityTab{
			binding: d.Bind(client, m.notes),
			table: table.New(
				table.WithColumns(cols),
				table.WithFocused(true),
				table.WithHeight(12),
			),
		})
	}

	if session.LoggedIn(client.Session()) {
		m.route = RouteConsole
	}
	return m
}

// Route returns the current screen.
func (m *App) Route() Route { return m.route }

// Init initializes the model (required by Bubble Tea)
func (m *App) Init() tea.Cmd {
	if m.route == RouteLogin {
		return m.showLogin()
	}
	return m.enterConsole()
}

// Update handles messages and updates the model state (required by Bubble Tea)
func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeTables()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loginSubmitMsg:
		return m, m.login(msg.username, msg.password)
	case loginDoneMsg:
		return m, m.loginDone(msg)
	case seedDoneMsg:
		return m, m.seedDone(msg)
	case statsDoneMsg:
		return m, m.statsDone(msg)
	case refreshDoneMsg:
		return m, m.refreshDone(msg)
	case dialogSubmitMsg:
		return m, m.submitDialog(msg.tab)
	case mutationDoneMsg:
		return m, m.mutationDone(msg)
	case deleteConfirmMsg:
		return m, m.confirmDelete(msg)
	case effectSubmitMsg:
		return m, m.submitEffect()
	case effectDoneMsg:
		return m, m.effectDone(msg)
	case logoutMsg:
		return m, m.logout()
	}

	if m.route == RouteLogin {
		return m.updateLogin(msg)
	}
	if m.overlay != overlayNone {
		return m.updateOverlay(msg)
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		return m, m.handleKey(key)
	}
	return m, nil
}

// Run starts the console program and blocks until it exits.
func Run(ctx context.Context, client Console, opts Options) error {
	app := NewApp(ctx, client, opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

// withSpin starts the spinner alongside cmd.
func (m *App) withSpin(cmd tea.Cmd) tea.Cmd {
	if !m.animate {
		return cmd
	}
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *App) busy() bool {
	if m.loginBusy || m.seeding || m.statsLoading || m.effectBusy {
		return true
	}
	for _, t := range m.entities {
		if t.fetching || t.pending {
			return true
		}
	}
	return false
}

func (m *App) notify(t toast) {
	m.toast = &t
	if t.failure {
		m.logger.Warn("notification", "text", t.text)
	} else {
		m.logger.Info("notification", "text", t.text)
	}
}

// drainNotes shows the newest controller notification.
func (m *App) drainNotes() {
	for _, t := range m.notes.drain() {
		m.notify(t)
	}
}

// --- login ---

func (m *App) showLogin() tea.Cmd {
	m.route = RouteLogin
	m.overlay = overlayNone
	m.form = nil
	m.loginForm = newLoginForm()
	return m.loginForm.Init()
}

func (m *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+s" {
		return m, m.seed()
	}
	if m.loginBusy || m.loginForm == nil {
		return m, nil
	}

	form, cmd := m.loginForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.loginForm = f
	}
	if m.loginForm.State == huh.StateCompleted {
		form := m.loginForm
		m.loginForm = nil
		return m, emit(loginSubmitMsg{
			username: form.GetString("username"),
			password: form.GetString("password"),
		})
	}
	return m, cmd
}

func (m *App) login(username, password string) tea.Cmd {
	if m.loginBusy {
		return nil
	}
	m.loginBusy = true
	ctx, client := m.ctx, m.client
	return m.withSpin(func() tea.Msg {
		_, err := client.Login(ctx, username, password)
		return loginDoneMsg{err: err}
	})
}

func (m *App) loginDone(msg loginDoneMsg) tea.Cmd {
	m.loginBusy = false
	if msg.err != nil {
		text := "Login failed: " + ux.Describe(msg.err)
		if api.StatusCode(msg.err) != 0 {
			text = api.Message(msg.err)
		}
		m.notify(toast{text: text, failure: true})
		return m.showLogin()
	}

	m.notify(toast{text: "Login successful!"})
	return m.enterConsole()
}

func (m *App) seed() tea.Cmd {
	if m.seeding {
		return nil
	}
	m.seeding = true
	ctx, client := m.ctx, m.client
	return m.withSpin(func() tea.Msg {
		res, err := client.SeedSampleData(ctx)
		return seedDoneMsg{result: res, err: err}
	})
}

func (m *App) seedDone(msg seedDoneMsg) tea.Cmd {
	m.seeding = false
	if msg.err != nil {
		m.notify(toast{text: "Failed to initialize sample data: " + ux.Describe(msg.err), failure: true})
		return nil
	}
	text := "Sample data initialized!"
	if c := msg.result.AdminCredentials; c["username"] != "" {
		text += fmt.Sprintf(" Use username: %s, password: %s", c["username"], c["password"])
	}
	m.notify(toast{text: text})
	return nil
}

func (m *App) logout() tea.Cmd {
	if err := m.client.Logout(); err != nil {
		m.notify(toast{text: "Logout failed: " + ux.Describe(err), failure: true})
		return nil
	}
	m.stats = nil
	m.notify(toast{text: "Logged out successfully"})
	return m.showLogin()
}

// sessionExpired routes back to login after the API rejected the token.
// The client has already cleared the stored session.
func (m *App) sessionExpired() tea.Cmd {
	m.notify(toast{text: "Session expired, please log in again", failure: true})
	for _, t := range m.entities {
		t.binding.Cancel()
	}
	return m.showLogin()
}

// --- console ---

func (m *App) enterConsole() tea.Cmd {
	m.route = RouteConsole
	m.loginForm = nil
	m.active = 0
	return m.fetchStats()
}

func (m *App) fetchStats() tea.Cmd {
	if m.statsLoading {
		return nil
	}
	m.statsLoading = true
	ctx, client := m.ctx, m.client
	return m.withSpin(func() tea.Msg {
		stats, err := client.DashboardStats(ctx)
		return statsDoneMsg{stats: stats, err: err}
	})
}

func (m *App) statsDone(msg statsDoneMsg) tea.Cmd {
	m.statsLoading = false
	if msg.err != nil {
		m.logger.WithError(msg.err).Warn("failed to fetch stats")
		if api.IsUnauthorized(msg.err) && m.route == RouteConsole {
			return m.sessionExpired()
		}
		return nil
	}
	m.stats = msg.stats
	return nil
}

// selectTab switches tabs. Entity tabs fetch on every mount.
func (m *App) selectTab(i int) tea.Cmd {
	if i < 0 || i > len(m.entities) {
		return nil
	}
	m.active = i
	if i == 0 {
		return nil
	}
	return m.refresh(i - 1)
}

func (m *App) current() (int, *entityTab) {
	if m.active == 0 {
		return -1, nil
	}
	return m.active - 1, m.entities[m.active-1]
}

func (m *App) refresh(i int) tea.Cmd {
	t := m.entities[i]
	if t.fetching {
		return nil
	}
	t.fetching = true
	ctx, b := m.ctx, t.binding
	return m.withSpin(func() tea.Msg {
		return refreshDoneMsg{tab: i, err: b.Refresh(ctx)}
	})
}

func (m *App) refreshDone(msg refreshDoneMsg) tea.Cmd {
	t := m.entities[msg.tab]
	t.fetching = false
	t.sync()
	m.drainNotes()
	if api.IsUnauthorized(msg.err) {
		return m.sessionExpired()
	}
	return nil
}

// sync redraws the table from the binding. The cursor follows the record it
// was on; if that record is gone it stays at the same index.
func (t *entityTab) sync() {
	var selected string
	if c := t.table.Cursor(); c >= 0 && c < len(t.ids) {
		selected = t.ids[c]
	}

	rows := t.binding.Rows()
	tr := make([]table.Row, len(rows))
	ids := make([]string, len(rows))
	for i, r := range rows {
		tr[i] = table.Row(r)
		ids[i] = t.binding.IDAt(i)
	}
	t.ids = ids
	t.table.SetRows(tr)

	if i := slices.Index(ids, selected); selected != "" && i >= 0 {
		t.table.SetCursor(i)
		return
	}
	if c := t.table.Cursor(); c >= len(tr) {
		t.table.SetCursor(max(0, len(tr)-1))
	}
}

func (m *App) resizeTables() {
	h := m.height - 12
	if h < 5 {
		h = 5
	}
	for _, t := range m.entities {
		t.table.SetHeight(h)
	}
}

func (m *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		m.quitting = true
		return tea.Quit
	case "tab", "right":
		return m.selectTab((m.active + 1) % (len(m.entities) + 1))
	case "shift+tab", "left":
		return m.selectTab((m.active + len(m.entities)) % (len(m.entities) + 1))
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return m.selectTab(int(msg.String()[0] - '1'))
	case "L":
		return emit(logoutMsg{})
	case "r":
		if i, _ := m.current(); i >= 0 {
			return m.refresh(i)
		}
		return m.fetchStats()
	}

	i, t := m.current()
	if t == nil {
		return nil
	}

	switch msg.String() {
	case "n":
		return m.openCreate(i)
	case "e", "enter":
		return m.openEdit(i)
	case "d", "delete":
		return m.openDelete(i)
	case "x":
		if t.binding.Descriptor().SupportsEffects() {
			return m.openEffect(i)
		}
		return nil
	}

	var cmd tea.Cmd
	t.table, cmd = t.table.Update(msg)
	return cmd
}

// --- dialogs ---

func (m *App) readOnly(t *entityTab) tea.Cmd {
	m.notify(toast{text: t.binding.Descriptor().Title() + " are read-only", failure: true})
	return nil
}

func (m *App) openCreate(i int) tea.Cmd {
	t := m.entities[i]
	draft, err := t.binding.OpenCreate()
	if err != nil {
		return m.readOnly(t)
	}
	return m.showForm(overlayDialog, DraftForm("New "+t.binding.Descriptor().Endpoint().Singular, draft))
}

func (m *App) openEdit(i int) tea.Cmd {
	t := m.entities[i]
	if !t.binding.Descriptor().Endpoint().CanModify() {
		return m.readOnly(t)
	}
	id := t.binding.IDAt(t.table.Cursor())
	if id == "" {
		return nil
	}
	draft, err := t.binding.OpenEdit(id)
	if err != nil {
		m.notify(toast{text: ux.Describe(err), failure: true})
		return nil
	}
	return m.showForm(overlayDialog, DraftForm("Edit "+t.binding.Descriptor().Endpoint().Singular, draft))
}

func (m *App) openDelete(i int) tea.Cmd {
	t := m.entities[i]
	if !t.binding.Descriptor().Endpoint().CanModify() {
		return m.readOnly(t)
	}
	id := t.binding.IDAt(t.table.Cursor())
	if id == "" {
		return nil
	}
	m.form = newConfirmForm(t.binding.ConfirmDeletePrompt())
	m.overlay = overlayConfirm
	m.deleteID = id
	return m.form.Init()
}

func (m *App) openEffect(i int) tea.Cmd {
	t := m.entities[i]
	row := t.table.Cursor()
	id := t.binding.IDAt(row)
	if id == "" {
		return nil
	}
	m.effectUserID = id
	m.effectUsername = t.binding.Keys()[row]
	m.effectDraft = resource.NewDraft(catalog.EffectSchema)
	return m.showForm(overlayEffect, DraftForm("Send live effect to "+m.effectUsername, m.effectDraft))
}

func (m *App) showForm(o overlay, f *huh.Form) tea.Cmd {
	m.overlay = o
	m.form = f
	return f.Init()
}

func (m *App) closeOverlay() {
	if m.overlay == overlayDialog {
		if _, t := m.current(); t != nil {
			t.binding.Cancel()
		}
	}
	m.overlay = overlayNone
	m.form = nil
	m.deleteID = ""
	m.effectDraft = nil
}

func (m *App) overlayBusy() bool {
	if m.overlay == overlayEffect {
		return m.effectBusy
	}
	_, t := m.current()
	return t != nil && t.pending
}

func (m *App) updateOverlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" && !m.overlayBusy() {
		m.closeOverlay()
		return m, nil
	}
	if m.overlayBusy() || m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.closeOverlay()
		return m, nil
	case huh.StateCompleted:
		return m, m.completeOverlay()
	}
	return m, cmd
}

// completeOverlay hands a finished form to its submit handler. The form is
// dropped so later messages cannot submit it twice.
func (m *App) completeOverlay() tea.Cmd {
	i, _ := m.current()
	form := m.form
	m.form = nil
	switch m.overlay {
	case overlayDialog:
		return emit(dialogSubmitMsg{tab: i})
	case overlayConfirm:
		return emit(deleteConfirmMsg{tab: i, id: m.deleteID, confirmed: form.GetBool("confirm")})
	case overlayEffect:
		return emit(effectSubmitMsg{})
	}
	return nil
}

func (m *App) submitDialog(i int) tea.Cmd {
	if i < 0 || i >= len(m.entities) {
		return nil
	}
	t := m.entities[i]
	if t.pending {
		return nil
	}
	t.pending = true
	ctx, b := m.ctx, t.binding
	return m.withSpin(func() tea.Msg {
		return mutationDoneMsg{tab: i, err: b.Submit(ctx)}
	})
}

func (m *App) confirmDelete(msg deleteConfirmMsg) tea.Cmd {
	m.overlay = overlayNone
	m.form = nil
	m.deleteID = ""
	if !msg.confirmed || msg.tab < 0 || msg.tab >= len(m.entities) {
		return nil
	}
	t := m.entities[msg.tab]
	if t.pending {
		return nil
	}
	t.pending = true
	ctx, b, id := m.ctx, t.binding, msg.id
	return m.withSpin(func() tea.Msg {
		return mutationDoneMsg{tab: msg.tab, err: b.Delete(ctx, id, resource.Confirmed)}
	})
}

func (m *App) mutationDone(msg mutationDoneMsg) tea.Cmd {
	t := m.entities[msg.tab]
	t.pending = false
	t.sync()
	m.drainNotes()

	if msg.err == nil {
		if m.overlay == overlayDialog {
			m.overlay = overlayNone
			m.form = nil
		}
		return nil
	}
	if api.IsUnauthorized(msg.err) {
		return m.sessionExpired()
	}

	// A failed submit keeps the dialog and its draft for another try.
	if m.overlay == overlayDialog {
		mode, draft := t.binding.Dialog()
		if mode != resource.ModeClosed && draft != nil {
			verb := "New "
			if mode == resource.ModeEdit {
				verb = "Edit "
			}
			return m.showForm(overlayDialog, DraftForm(verb+t.binding.Descriptor().Endpoint().Singular, draft))
		}
		m.overlay = overlayNone
		m.form = nil
	}
	return nil
}

func (m *App) submitEffect() tea.Cmd {
	if m.effectBusy || m.effectDraft == nil {
		return nil
	}
	effect, err := catalog.EffectFromDraft(m.effectUserID, m.effectDraft)
	if err != nil {
		m.notify(toast{text: "Failed to send effect: " + ux.Describe(err), failure: true})
		return m.showForm(overlayEffect, DraftForm("Send live effect to "+m.effectUsername, m.effectDraft))
	}

	m.effectBusy = true
	ctx, client, username := m.ctx, m.client, m.effectUsername
	return m.withSpin(func() tea.Msg {
		_, err := client.SendLiveEffect(ctx, effect)
		return effectDoneMsg{username: username, err: err}
	})
}

func (m *App) effectDone(msg effectDoneMsg) tea.Cmd {
	m.effectBusy = false
	if msg.err != nil {
		m.notify(toast{text: "Failed to send effect: " + ux.Describe(msg.err), failure: true})
		if api.IsUnauthorized(msg.err) {
			return m.sessionExpired()
		}
		if m.overlay == overlayEffect && m.effectDraft != nil {
			return m.showForm(overlayEffect, DraftForm("Send live effect to "+m.effectUsername, m.effectDraft))
		}
		return nil
	}
	m.notify(toast{text: fmt.Sprintf("Live effect sent to %s!", msg.username)})
	m.closeOverlay()
	return nil
}
