package fakeapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/felixgeelhaar/eduplay-console/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeDecodeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{{
			"loc":  []string{"body"},
			"msg":  err.Error(),
			"type": "value_error",
		}},
	})
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decode(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	st := s.store
	st.mu.Lock()
	idx := findIndex(st.admins, req.Username, func(a adminRecord) string { return a.Username })
	var rec adminRecord
	if idx >= 0 {
		rec = st.admins[idx]
	}
	st.mu.Unlock()

	if idx < 0 || bcrypt.CompareHashAndPassword(rec.hash, []byte(req.Password)) != nil {
		s.metrics.RecordLogin(false)
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	token, err := s.issueToken(rec.ID)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	st.mu.Lock()
	if i := findIndex(st.admins, rec.ID, func(a adminRecord) string { return a.ID }); i >= 0 {
		st.admins[i].LastLogin = st.timestamp()
	}
	st.mu.Unlock()

	s.metrics.RecordLogin(true)
	writeJSON(w, http.StatusOK, model.Token{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	if err := s.Seed(); err != nil {
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, model.SeedResult{
		Message: "Sample data initialized",
		AdminCredentials: map[string]string{
			"username": SeedAdminUsername,
			"password": SeedAdminPassword,
		},
	})
}

func (s *Server) handleRegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var in model.AdminCreate
	if err := decode(r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}
	if in.Role == "" {
		in.Role = model.RoleAdmin
	}

	hash, err := s.store.hash(in.Password)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, a := range st.admins {
		if a.Email == in.Email || a.Username == in.Username {
			writeDetail(w, http.StatusBadRequest, "Admin already exists")
			return
		}
	}

	admin := model.Admin{
		ID:        newID(),
		Email:     in.Email,
		Username:  in.Username,
		FullName:  in.FullName,
		Role:      in.Role,
		Status:    model.StatusActive,
		CreatedAt: st.timestamp(),
	}
	st.admins = append(st.admins, adminRecord{Admin: admin, hash: hash})
	writeJSON(w, http.StatusOK, admin)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	st := s.store
	st.mu.RLock()
	defer st.mu.RUnlock()

	i := findIndex(st.admins, adminIDFrom(r.Context()), func(a adminRecord) string { return a.ID })
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Admin not found")
		return
	}
	writeJSON(w, http.StatusOK, st.admins[i].Admin)
}

func (s *Server) handleListAdmins(w http.ResponseWriter, r *http.Request) {
	st := s.store
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]model.Admin, len(st.admins))
	for i, a := range st.admins {
		out[i] = a.Admin
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateAdmin(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := decode(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}

	var hash []byte
	if raw, ok := body["password"]; ok {
		var password string
		if err := json.Unmarshal(raw, &password); err == nil && password != "" {
			h, err := s.store.hash(password)
			if err != nil {
				writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
				return
			}
			hash = h
		}
		delete(body, "password")
	}

	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()

	i := findIndex(st.admins, mux.Vars(r)["id"], func(a adminRecord) string { return a.ID })
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Admin not found")
		return
	}
	updated, err := patch(st.admins[i].Admin, body)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	st.admins[i].Admin = updated
	if hash != nil {
		st.admins[i].hash = hash
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAdmin(w http.ResponseWriter, r *http.Request) {
	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()

	i := findIndex(st.admins, mux.Vars(r)["id"], func(a adminRecord) string { return a.ID })
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Admin not found")
		return
	}
	st.admins = append(st.admins[:i], st.admins[i+1:]...)
	writeJSON(w, http.StatusOK, model.Message{Message: "Admin deleted"})
}

func userID(u model.User) string { return u.ID }

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	st := s.store
	st.mu.RLock()
	defer st.mu.RUnlock()
	writeJSON(w, http.StatusOK, nonNil(st.users))
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var u model.User
	if err := decode(r, &u); err != nil {
		writeDecodeError(w, err)
		return
	}

	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()

	u.ID = newID()
	if u.Plan == "" {
		u.Plan = model.PlanStandard
	}
	if u.Status == "" {
		u.Status = model.StatusActive
	}
	u.JoinedDate = st.timestamp()
	st.users = append(st.users, u)
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	st := s.store
	st.mu.RLock()
	defer st.mu.RUnlock()

	i := findIndex(st.users, mux.Vars(r)["id"], userID)
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, st.users[i])
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := decode(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}

	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()

	i := findIndex(st.users, mux.Vars(r)["id"], userID)
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	updated, err := patch(st.users[i], body)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	st.users[i] = updated
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()

	i := findIndex(st.users, mux.Vars(r)["id"], userID)
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	st.users = append(st.users[:i], st.users[i+1:]...)
	writeJSON(w, http.StatusOK, model.Message{Message: "User deleted"})
}

func gameID(g model.Game) string { return g.ID }

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	st := s.store
	st.mu.RLock()
	defer st.mu.RUnlock()
	writeJSON(w, http.StatusOK, nonNil(st.games))
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var g model.Game
	if err := decode(r, &g); err != nil {
		writeDecodeError(w, err)
		return
	}

	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.timestamp()
	g.ID = newID()
	if g.Status == "" {
		g.Status = "development"
	}
	if g.Version == "" {
		g.Version = "1.0.0"
	}
	g.CreatedAt, g.UpdatedAt = now, now
	st.games = append(st.games, g)
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleUpdateGame(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := decode(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}

	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()

	i := findIndex(st.games, mux.Vars(r)["id"], gameID)
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Game not found")
		return
	}
	updated, err := patch(st.games[i], body)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	updated.UpdatedAt = st.timestamp()
	st.games[i] = updated
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()

	i := findIndex(st.games, mux.Vars(r)["id"], gameID)
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Game not found")
		return
	}
	st.games = append(st.games[:i], st.games[i+1:]...)
	writeJSON(w, http.StatusOK, model.Message{Message: "Game deleted"})
}

func (s *Server) handleListBuilds(w http.ResponseWriter, r *http.Request) {
	st := s.store
	st.mu.RLock()
	defer st.mu.RUnlock()
	writeJSON(w, http.StatusOK, nonNil(st.builds))
}

func (s *Server) handleListUpdates(w http.ResponseWriter, r *http.Request) {
	st := s.store
	st.mu.RLock()
	defer st.mu.RUnlock()
	writeJSON(w, http.StatusOK, nonNil(st.updates))
}

func (s *Server) handleListRevenue(w http.ResponseWriter, r *http.Request) {
	st := s.store
	st.mu.RLock()
	defer st.mu.RUnlock()
	writeJSON(w, http.StatusOK, nonNil(st.revenue))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st := s.store
	st.mu.RLock()
	defer st.mu.RUnlock()

	stats := model.DashboardStats{
		TotalUsers: len(st.users),
		TotalGames: len(st.games),
	}
	for _, u := range st.users {
		if u.Plan == model.PlanUpgraded {
			stats.UpgradedUsers++
		}
	}
	stats.StandardUsers = stats.TotalUsers - stats.UpgradedUsers
	for _, rev := range st.revenue {
		stats.TotalRevenue += rev.Amount
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleLiveEffect(w http.ResponseWriter, r *http.Request) {
	var effect model.LiveEffect
	if err := decode(r, &effect); err != nil {
		writeDecodeError(w, err)
		return
	}
	if effect.Duration <= 0 {
		effect.Duration = model.DefaultEffectDuration
	}

	st := s.store
	st.mu.Lock()
	st.effects = append(st.effects, effect)
	st.mu.Unlock()
	s.metrics.RecordEffect(string(effect.EffectType))

	s.logger.InfoContext(r.Context(), "live effect sent", "user_id", effect.UserID, "effect_type", effect.EffectType)
	writeJSON(w, http.StatusOK, model.Message{Message: "Effect sent", UserID: effect.UserID})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
