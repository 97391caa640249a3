// Package model holds the record shapes exchanged with the EduPlay admin API.
//
// Records are owned by the API; the console renders and edits them but never
// derives state from them. Timestamps stay as the ISO-8601 strings the API
// sends.
package model

// User is a player account.
type User struct {
	ID                  string        `json:"id" yaml:"id"`
	Email               string        `json:"email" yaml:"email"`
	Username            string        `json:"username" yaml:"username"`
	FullName            string        `json:"full_name" yaml:"full_name"`
	Plan                Plan          `json:"plan,omitempty" yaml:"plan,omitempty"`
	Status              AccountStatus `json:"status,omitempty" yaml:"status,omitempty"`
	Avatar              string        `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	Bio                 string        `json:"bio,omitempty" yaml:"bio,omitempty"`
	Age                 *int          `json:"age,omitempty" yaml:"age,omitempty"`
	School              string        `json:"school,omitempty" yaml:"school,omitempty"`
	Grade               string        `json:"grade,omitempty" yaml:"grade,omitempty"`
	TotalGamesPlayed    int           `json:"total_games_played" yaml:"total_games_played"`
	TotalScore          int           `json:"total_score" yaml:"total_score"`
	JoinedDate          string        `json:"joined_date,omitempty" yaml:"joined_date,omitempty"`
	LastLogin           string        `json:"last_login,omitempty" yaml:"last_login,omitempty"`
	SubscriptionExpires string        `json:"subscription_expires,omitempty" yaml:"subscription_expires,omitempty"`
}

// Admin is a console operator account. Password hashes never leave the API.
type Admin struct {
	ID        string        `json:"id" yaml:"id"`
	Email     string        `json:"email" yaml:"email"`
	Username  string        `json:"username" yaml:"username"`
	FullName  string        `json:"full_name" yaml:"full_name"`
	Role      Role          `json:"role,omitempty" yaml:"role,omitempty"`
	Status    AccountStatus `json:"status,omitempty" yaml:"status,omitempty"`
	CreatedAt string        `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	LastLogin string        `json:"last_login,omitempty" yaml:"last_login,omitempty"`
}

// AdminCreate is the body of POST /admin/register.
type AdminCreate struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

// Game is a minigame in the catalog.
type Game struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Category    string  `json:"category" yaml:"category"`
	Difficulty  string  `json:"difficulty" yaml:"difficulty"`
	Status      string  `json:"status,omitempty" yaml:"status,omitempty"`
	Version     string  `json:"version,omitempty" yaml:"version,omitempty"`
	PlayCount   int     `json:"play_count" yaml:"play_count"`
	Rating      float64 `json:"rating" yaml:"rating"`
	CreatedAt   string  `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Build is one packaged version of a game.
type Build struct {
	ID        string `json:"id" yaml:"id"`
	GameID    string `json:"game_id" yaml:"game_id"`
	GameName  string `json:"game_name" yaml:"game_name"`
	Version   string `json:"version" yaml:"version"`
	Status    string `json:"status,omitempty" yaml:"status,omitempty"`
	BuildDate string `json:"build_date,omitempty" yaml:"build_date,omitempty"`
	Notes     string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// PlatformUpdate is a planned or shipped platform release note.
type PlatformUpdate struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Version     string `json:"version" yaml:"version"`
	Type        string `json:"type" yaml:"type"`
	Status      string `json:"status,omitempty" yaml:"status,omitempty"`
	ReleaseDate string `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	CreatedAt   string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Revenue is a single income record.
type Revenue struct {
	ID          string  `json:"id" yaml:"id"`
	Date        string  `json:"date" yaml:"date"`
	Amount      float64 `json:"amount" yaml:"amount"`
	Source      string  `json:"source" yaml:"source"`
	Description string  `json:"description" yaml:"description"`
	Type        string  `json:"type" yaml:"type"`
}

// DashboardStats is the summary shown on the console home tab.
type DashboardStats struct {
	TotalUsers    int     `json:"total_users" yaml:"total_users"`
	UpgradedUsers int     `json:"upgraded_users" yaml:"upgraded_users"`
	StandardUsers int     `json:"standard_users" yaml:"standard_users"`
	TotalGames    int     `json:"total_games" yaml:"total_games"`
	TotalRevenue  float64 `json:"total_revenue" yaml:"total_revenue"`
}

// DefaultEffectDuration is the on-screen time of a live effect in milliseconds.
const DefaultEffectDuration = 5000

// LiveEffect is pushed to a connected player. Sending is fire-and-forget.
type LiveEffect struct {
	UserID     string     `json:"user_id" yaml:"user_id"`
	EffectType EffectType `json:"effect_type" yaml:"effect_type"`
	Content    string     `json:"content" yaml:"content"`
	Duration   int        `json:"duration" yaml:"duration"`
}

// LoginRequest is the body of POST /admin/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Token is the response of POST /admin/login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Message is the generic acknowledgement body used by delete and effect endpoints.
type Message struct {
	Message string `json:"message" yaml:"message"`
	UserID  string `json:"user_id,omitempty" yaml:"user_id,omitempty"`
}

// SeedResult is the response of POST /init-sample-data.
type SeedResult struct {
	Message          string            `json:"message" yaml:"message"`
	AdminCredentials map[string]string `json:"admin_credentials,omitempty" yaml:"admin_credentials,omitempty"`
}
