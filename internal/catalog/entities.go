package catalog

import (
	"fmt"
	"strconv"

	"github.com/felixgeelhaar/eduplay-console/internal/model"
	"github.com/felixgeelhaar/eduplay-console/internal/resource"
)

var (
	plans    = model.Options(model.Plans())
	roles    = model.Options(model.Roles())
	statuses = model.Options(model.Statuses())
)

// Users are player accounts.
var Users = &Entity[model.User]{
	Resource: resource.Endpoint{
		Name:       "users",
		Singular:   "User",
		ListPath:   "/users",
		CreatePath: "/users",
		ItemPath:   "/users",
	},
	Key: func(u model.User) string { return u.Username },
	ID:  func(u model.User) string { return u.ID },
	Columns: []Column[model.User]{
		{Title: "Username", Width: 14, Value: func(u model.User) string { return u.Username }},
		{Title: "Full Name", Width: 18, Value: func(u model.User) string { return u.FullName }},
		{Title: "Email", Width: 26, Value: func(u model.User) string { return u.Email }},
		{Title: "Plan", Width: 9, Value: func(u model.User) string { return string(u.Plan) }},
		{Title: "Status", Width: 9, Value: func(u model.User) string { return string(u.Status) }},
		{Title: "Age", Width: 4, Value: func(u model.User) string { return optInt(u.Age) }},
		{Title: "School", Width: 22, Value: func(u model.User) string { return u.School }},
		{Title: "Grade", Width: 6, Value: func(u model.User) string { return u.Grade }},
		{Title: "Games", Width: 6, Value: func(u model.User) string { return strconv.Itoa(u.TotalGamesPlayed) }},
		{Title: "Score", Width: 7, Value: func(u model.User) string { return strconv.Itoa(u.TotalScore) }},
	},
	Create: resource.Schema{
		{Key: "email", Label: "Email", Kind: resource.KindEmail, Required: true},
		{Key: "username", Label: "Username", Kind: resource.KindText, Required: true},
		{Key: "full_name", Label: "Full Name", Kind: resource.KindText, Required: true},
		{Key: "age", Label: "Age", Kind: resource.KindNumber},
		{Key: "grade", Label: "Grade", Kind: resource.KindText},
		{Key: "plan", Label: "Plan", Kind: resource.KindChoice, Options: plans, Default: string(model.PlanStandard)},
		{Key: "school", Label: "School", Kind: resource.KindText},
		{Key: "bio", Label: "Bio", Kind: resource.KindLongText},
	},
	Edit: resource.Schema{
		{Key: "email", Label: "Email", Kind: resource.KindEmail, Required: true},
		{Key: "username", Label: "Username", Kind: resource.KindText, Required: true},
		{Key: "full_name", Label: "Full Name", Kind: resource.KindText, Required: true},
		{Key: "plan", Label: "Plan", Kind: resource.KindChoice, Options: plans},
		{Key: "status", Label: "Status", Kind: resource.KindChoice, Options: statuses},
		{Key: "age", Label: "Age", Kind: resource.KindNumber},
		{Key: "school", Label: "School", Kind: resource.KindText},
		{Key: "grade", Label: "Grade", Kind: resource.KindText},
		{Key: "total_games_played", Label: "Games Played", Kind: resource.KindNumber},
		{Key: "total_score", Label: "Total Score", Kind: resource.KindNumber},
		{Key: "bio", Label: "Bio", Kind: resource.KindLongText},
	},
	Effects: true,
}

// Revenue records are read-only in the console.
var Revenue = &Entity[model.Revenue]{
	Resource: resource.Endpoint{Name: "revenue", Singular: "Revenue record", ListPath: "/revenue"},
	Key:      func(r model.Revenue) string { return r.ID },
	ID:       func(r model.Revenue) string { return r.ID },
	Columns: []Column[model.Revenue]{
		{Title: "Date", Width: 11, Value: func(r model.Revenue) string { return shortDate(r.Date) }},
		{Title: "Amount", Width: 9, Value: func(r model.Revenue) string { return money(r.Amount) }},
		{Title: "Source", Width: 12, Value: func(r model.Revenue) string { return r.Source }},
		{Title: "Type", Width: 13, Value: func(r model.Revenue) string { return r.Type }},
		{Title: "Description", Width: 30, Value: func(r model.Revenue) string { return r.Description }},
	},
}

// Admins are console operator accounts. New admins go through the
// registration endpoint.
var Admins = &Entity[model.Admin]{
	Resource: resource.Endpoint{
		Name:       "admins",
		Singular:   "Admin",
		ListPath:   "/admins",
		CreatePath: "/admin/register",
		ItemPath:   "/admins",
	},
	Key: func(a model.Admin) string { return a.Username },
	ID:  func(a model.Admin) string { return a.ID },
	Columns: []Column[model.Admin]{
		{Title: "Username", Width: 14, Value: func(a model.Admin) string { return a.Username }},
		{Title: "Full Name", Width: 22, Value: func(a model.Admin) string { return a.FullName }},
		{Title: "Email", Width: 24, Value: func(a model.Admin) string { return a.Email }},
		{Title: "Role", Width: 12, Value: func(a model.Admin) string { return string(a.Role) }},
		{Title: "Status", Width: 9, Value: func(a model.Admin) string { return string(a.Status) }},
		{Title: "Last Login", Width: 11, Value: func(a model.Admin) string { return shortDate(a.LastLogin) }},
	},
	Create: resource.Schema{
		{Key: "email", Label: "Email", Kind: resource.KindEmail, Required: true},
		{Key: "username", Label: "Username", Kind: resource.KindText, Required: true},
		{Key: "full_name", Label: "Full Name", Kind: resource.KindText, Required: true},
		{Key: "password", Label: "Password", Kind: resource.KindPassword, Required: true},
		{Key: "role", Label: "Role", Kind: resource.KindChoice, Options: roles, Default: string(model.RoleAdmin)},
	},
	Edit: resource.Schema{
		{Key: "email", Label: "Email", Kind: resource.KindEmail, Required: true},
		{Key: "username", Label: "Username", Kind: resource.KindText, Required: true},
		{Key: "full_name", Label: "Full Name", Kind: resource.KindText, Required: true},
		{Key: "role", Label: "Role", Kind: resource.KindChoice, Options: roles},
		{Key: "status", Label: "Status", Kind: resource.KindChoice, Options: statuses},
	},
}

var (
	difficulties = []string{"Easy", "Medium", "Hard"}
	gameStatuses = []string{"development", "beta", "live"}
)

// Games are the minigames in the platform catalog.
var Games = &Entity[model.Game]{
	Resource: resource.Endpoint{
		Name:       "games",
		Singular:   "Game",
		ListPath:   "/games",
		CreatePath: "/games",
		ItemPath:   "/games",
	},
	Key: func(g model.Game) string { return g.Name },
	ID:  func(g model.Game) string { return g.ID },
	Columns: []Column[model.Game]{
		{Title: "Name", Width: 18, Value: func(g model.Game) string { return g.Name }},
		{Title: "Category", Width: 11, Value: func(g model.Game) string { return g.Category }},
		{Title: "Difficulty", Width: 10, Value: func(g model.Game) string { return g.Difficulty }},
		{Title: "Status", Width: 12, Value: func(g model.Game) string { return g.Status }},
		{Title: "Version", Width: 8, Value: func(g model.Game) string { return g.Version }},
		{Title: "Plays", Width: 6, Value: func(g model.Game) string { return strconv.Itoa(g.PlayCount) }},
		{Title: "Rating", Width: 6, Value: func(g model.Game) string { return strconv.FormatFloat(g.Rating, 'f', 1, 64) }},
	},
	Create: resource.Schema{
		{Key: "name", Label: "Name", Kind: resource.KindText, Required: true},
		{Key: "description", Label: "Description", Kind: resource.KindLongText, Required: true},
		{Key: "category", Label: "Category", Kind: resource.KindText, Required: true},
		{Key: "difficulty", Label: "Difficulty", Kind: resource.KindChoice, Options: difficulties, Required: true, Default: "Easy"},
		{Key: "status", Label: "Status", Kind: resource.KindChoice, Options: gameStatuses, Default: "development"},
		{Key: "version", Label: "Version", Kind: resource.KindText, Default: "1.0.0"},
	},
	Edit: resource.Schema{
		{Key: "name", Label: "Name", Kind: resource.KindText, Required: true},
		{Key: "description", Label: "Description", Kind: resource.KindLongText, Required: true},
		{Key: "category", Label: "Category", Kind: resource.KindText, Required: true},
		{Key: "difficulty", Label: "Difficulty", Kind: resource.KindChoice, Options: difficulties, Required: true},
		{Key: "status", Label: "Status", Kind: resource.KindChoice, Options: gameStatuses},
		{Key: "version", Label: "Version", Kind: resource.KindText},
		{Key: "play_count", Label: "Play Count", Kind: resource.KindNumber},
		{Key: "rating", Label: "Rating", Kind: resource.KindDecimal},
	},
}

// Builds are read-only.
var Builds = &Entity[model.Build]{
	Resource: resource.Endpoint{Name: "builds", Singular: "Build", ListPath: "/builds"},
	Key:      func(b model.Build) string { return b.ID },
	ID:       func(b model.Build) string { return b.ID },
	Columns: []Column[model.Build]{
		{Title: "Game", Width: 18, Value: func(b model.Build) string { return b.GameName }},
		{Title: "Version", Width: 8, Value: func(b model.Build) string { return b.Version }},
		{Title: "Status", Width: 10, Value: func(b model.Build) string { return b.Status }},
		{Title: "Build Date", Width: 11, Value: func(b model.Build) string { return shortDate(b.BuildDate) }},
		{Title: "Notes", Width: 24, Value: func(b model.Build) string { return b.Notes }},
	},
}

// Updates are platform release notes, read-only.
var Updates = &Entity[model.PlatformUpdate]{
	Resource: resource.Endpoint{Name: "updates", Singular: "Update", ListPath: "/updates"},
	Key:      func(u model.PlatformUpdate) string { return u.ID },
	ID:       func(u model.PlatformUpdate) string { return u.ID },
	Columns: []Column[model.PlatformUpdate]{
		{Title: "Title", Width: 26, Value: func(u model.PlatformUpdate) string { return u.Title }},
		{Title: "Version", Width: 8, Value: func(u model.PlatformUpdate) string { return u.Version }},
		{Title: "Type", Width: 9, Value: func(u model.PlatformUpdate) string { return u.Type }},
		{Title: "Status", Width: 12, Value: func(u model.PlatformUpdate) string { return u.Status }},
		{Title: "Release Date", Width: 12, Value: func(u model.PlatformUpdate) string { return shortDate(u.ReleaseDate) }},
	},
}

func init() {
	register(Users)
	register(Revenue)
	register(Admins)
	register(Games)
	register(Builds)
	register(Updates)
}

func optInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

// shortDate keeps the calendar date of an ISO-8601 timestamp.
func shortDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
