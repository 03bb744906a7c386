package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/supabase-community/gotrue-go/types"

	"gastos/internal/core"
	"gastos/internal/log"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func decodeCredentials(r *http.Request) (credentials, error) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		return c, err
	}
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	return c, nil
}

// handleLogin exchanges credentials for a session. Bad credentials are an
// opaque 401; the backend transparently repairs unconfirmed emails before
// giving up.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	creds, err := decodeCredentials(r)
	if err != nil || creds.Email == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	sess, err := s.backend.SignIn(r.Context(), creds.Email, creds.Password)
	if err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "login failed")
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	profile := s.loadProfile(r.Context(), sess.User)
	writeJSON(w, http.StatusOK, map[string]any{
		"user":         profile,
		"access_token": sess.AccessToken,
	})
}

// handleRegister creates an account and its profile row. Failures are 400s
// with a terse reason.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	creds, err := decodeCredentials(r)
	if err != nil || creds.Email == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if len(creds.Password) < 6 {
		writeError(w, http.StatusBadRequest, "password too short")
		return
	}

	user, err := s.backend.SignUp(r.Context(), creds.Email, creds.Password, creds.FullName)
	if err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "registration failed",
			log.FieldError, err.Error())
		writeError(w, http.StatusBadRequest, "registration failed")
		return
	}

	profile := s.loadProfile(r.Context(), user)
	writeJSON(w, http.StatusOK, map[string]any{"user": profile})
}

// handleSession resolves the bearer token and returns the merged profile.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	user, err := s.backend.UserFromToken(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": s.loadProfile(r.Context(), user)})
}

// loadProfile merges the auth user with its profile row, inserting the row
// when it is missing. A fresh signup has no profile yet; creating it here
// keeps first login working.
func (s *Server) loadProfile(ctx context.Context, user types.User) core.Profile {
	uid := user.ID.String()
	fallback := core.Profile{
		ID:       uid,
		Email:    user.Email,
		Currency: "COP",
		Timezone: "America/Bogota",
	}
	if name, ok := user.UserMetadata["full_name"].(string); ok && name != "" {
		fallback.FullName = &name
	}

	row, err := s.backend.GetByID(ctx, core.TableProfiles, "*", uid, uid)
	if errors.Is(err, core.ErrNotFound) {
		fallback.CreatedAt = time.Now().UTC()
		fallback.UpdatedAt = fallback.CreatedAt
		if _, err := s.backend.Upsert(ctx, core.TableProfiles, fallback, ""); err != nil {
			log.FromContext(ctx).WarnContext(ctx, "profile insert failed",
				log.FieldUserID, uid, log.FieldError, err.Error())
		}
		return fallback
	}
	if err != nil {
		log.FromContext(ctx).WarnContext(ctx, "profile read failed",
			log.FieldUserID, uid, log.FieldError, err.Error())
		return fallback
	}

	var profile core.Profile
	if err := json.Unmarshal(row, &profile); err != nil {
		return fallback
	}
	if profile.Email == "" {
		profile.Email = user.Email
	}
	return profile
}
