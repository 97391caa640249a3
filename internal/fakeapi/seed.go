package fakeapi

import (
	"github.com/felixgeelhaar/eduplay-console/internal/model"
)

// Demo credentials created by the seed.
const (
	SeedAdminUsername = "admin"
	SeedAdminPassword = "admin123"
)

func intPtr(n int) *int { return &n }

// seed replaces all data with the demo data set.
func (s *store) seed() error {
	hash, err := s.hash(SeedAdminPassword)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timestamp()

	s.admins = []adminRecord{{
		Admin: model.Admin{
			ID:        newID(),
			Email:     "admin@eduplay.com",
			Username:  SeedAdminUsername,
			FullName:  "System Administrator",
			Role:      model.RoleSuperAdmin,
			Status:    model.StatusActive,
			CreatedAt: now,
		},
		hash: hash,
	}}

	users := []model.User{
		{Email: "emma.wilson@school.edu", Username: "emma_w", FullName: "Emma Wilson", Plan: model.PlanUpgraded, Age: intPtr(12), School: "Lincoln Elementary", Grade: "6th", TotalGamesPlayed: 45, TotalScore: 8750, Bio: "Love playing math games!"},
		{Email: "oliver.brown@school.edu", Username: "oliver_b", FullName: "Oliver Brown", Plan: model.PlanStandard, Age: intPtr(10), School: "Washington Elementary", Grade: "4th", TotalGamesPlayed: 23, TotalScore: 4200},
		{Email: "sophia.davis@school.edu", Username: "sophia_d", FullName: "Sophia Davis", Plan: model.PlanUpgraded, Age: intPtr(11), School: "Roosevelt Middle", Grade: "5th", TotalGamesPlayed: 67, TotalScore: 12340, Bio: "Gaming enthusiast and top scorer!"},
		{Email: "lucas.miller@school.edu", Username: "lucas_m", FullName: "Lucas Miller", Plan: model.PlanStandard, Age: intPtr(9), School: "Jefferson Elementary", Grade: "3rd", TotalGamesPlayed: 15, TotalScore: 2890},
		{Email: "ava.garcia@school.edu", Username: "ava_g", FullName: "Ava Garcia", Plan: model.PlanUpgraded, Age: intPtr(13), School: "Lincoln Elementary", Grade: "7th", TotalGamesPlayed: 89, TotalScore: 15670},
		{Email: "noah.martinez@school.edu", Username: "noah_m", FullName: "Noah Martinez", Plan: model.PlanStandard, Age: intPtr(10), School: "Washington Elementary", Grade: "4th", TotalGamesPlayed: 31, TotalScore: 5420},
	}
	for i := range users {
		users[i].ID = newID()
		users[i].Status = model.StatusActive
		users[i].JoinedDate = now
	}
	s.users = users

	games := []model.Game{
		{Name: "Math Blast", Description: "Fast-paced arithmetic game", Category: "Math", Difficulty: "Easy", Status: "live", Version: "2.1.0", PlayCount: 1250, Rating: 4.5},
		{Name: "Word Quest", Description: "Spelling and vocabulary adventure", Category: "Language", Difficulty: "Medium", Status: "live", Version: "1.8.3", PlayCount: 890, Rating: 4.3},
		{Name: "Science Lab", Description: "Interactive science experiments", Category: "Science", Difficulty: "Hard", Status: "beta", Version: "0.9.1", PlayCount: 234, Rating: 4.7},
		{Name: "Geography Master", Description: "Learn countries and capitals", Category: "Geography", Difficulty: "Medium", Status: "live", Version: "3.0.2", PlayCount: 567, Rating: 4.2},
		{Name: "Logic Puzzles", Description: "Brain-teasing logic challenges", Category: "Logic", Difficulty: "Hard", Status: "development", Version: "0.5.0", PlayCount: 45, Rating: 4.6},
	}
	for i := range games {
		games[i].ID = newID()
		games[i].CreatedAt = now
		games[i].UpdatedAt = now
	}
	s.games = games

	s.builds = nil
	for _, g := range games[:3] {
		s.builds = append(s.builds, model.Build{
			ID:        newID(),
			GameID:    g.ID,
			GameName:  g.Name,
			Version:   g.Version,
			Status:    "completed",
			BuildDate: now,
			Notes:     "Stable release",
		})
	}

	s.updates = []model.PlatformUpdate{
		{ID: newID(), Title: "New Game: Logic Puzzles", Description: "Added new puzzle game with 50 levels", Version: "4.0.0", Type: "feature", Status: "planned", CreatedAt: now},
		{ID: newID(), Title: "Performance Improvements", Description: "Optimized game loading times", Version: "3.9.1", Type: "bugfix", Status: "released", ReleaseDate: now, CreatedAt: now},
		{ID: newID(), Title: "Security Patch", Description: "Fixed authentication vulnerabilities", Version: "3.9.2", Type: "security", Status: "in-progress", CreatedAt: now},
	}

	// The Upgraded plan costs $5.99.
	s.revenue = []model.Revenue{
		{ID: newID(), Date: "2025-01-15", Amount: 5.99, Source: "emma_w", Description: "Monthly subscription upgrade", Type: "subscription"},
		{ID: newID(), Date: "2025-01-18", Amount: 4.99, Source: "sophia_d", Description: "Premium game pack", Type: "purchase"},
		{ID: newID(), Date: "2025-01-20", Amount: 5.99, Source: "ava_g", Description: "Monthly subscription upgrade", Type: "subscription"},
		{ID: newID(), Date: "2025-01-22", Amount: 10.00, Source: "anonymous", Description: "Platform support", Type: "donation"},
		{ID: newID(), Date: "2025-01-25", Amount: 2.99, Source: "noah_m", Description: "Science Lab DLC", Type: "purchase"},
	}

	s.effects = nil
	return nil
}
