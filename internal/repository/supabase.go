// Package repository wraps the Supabase client: postgrest CRUD over the
// application tables plus gotrue auth. Both the direct transport (anon key
// with a user session) and the privileged proxy server (service key) are
// built on it.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"gastos/internal/core"
	"gastos/internal/log"
)

// Repository is the raw CRUD surface over the application tables. Results
// are raw JSON arrays straight from postgrest; typed decoding happens one
// layer up.
type Repository interface {
	List(ctx context.Context, table, sel, userID, order string) ([]byte, error)
	GetByID(ctx context.Context, table, sel, userID, id string) ([]byte, error)
	Upsert(ctx context.Context, table string, item any, sel string) ([]byte, error)
	Remove(ctx context.Context, table, userID, id string) error
}

// SupabaseRepository talks to a Supabase project.
type SupabaseRepository struct {
	client *supabase.Client
	admin  bool
	logger *log.Logger
}

// New builds a repository with the given key. Pass the anon key for
// user-session access, the service key for the privileged proxy server.
func New(url, key string, admin bool, logger *log.Logger) (*SupabaseRepository, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("supabase client: %w", err)
	}
	return &SupabaseRepository{
		client: client,
		admin:  admin,
		logger: logger,
	}, nil
}

// ownerColumn is the column holding the owning user. Profiles key on id
// directly; every other table carries user_id.
func ownerColumn(table string) string {
	if table == core.TableProfiles {
		return "id"
	}
	return "user_id"
}

// UseSession attaches a user session so postgrest requests run with the
// user's JWT instead of the bare key.
func (r *SupabaseRepository) UseSession(session types.Session) {
	r.client.UpdateAuthSession(session)
}

func (r *SupabaseRepository) List(ctx context.Context, table, sel, userID, order string) ([]byte, error) {
	if !core.KnownTable(table) {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	if sel == "" {
		sel = "*"
	}
	query := r.client.From(table).Select(sel, "", false)
	if userID != "" {
		query = query.Eq(ownerColumn(table), userID)
	}
	if order != "" {
		column, opts := orderOpts(order)
		query = query.Order(column, opts)
	}
	data, _, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return data, nil
}

// orderOpts splits a "column.direction" ordering key into the column and
// its postgrest options. Direction defaults to ascending.
func orderOpts(order string) (string, *postgrest.OrderOpts) {
	column, dir, _ := strings.Cut(order, ".")
	return column, &postgrest.OrderOpts{Ascending: dir != "desc"}
}

func (r *SupabaseRepository) GetByID(ctx context.Context, table, sel, userID, id string) ([]byte, error) {
	if !core.KnownTable(table) {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	if sel == "" {
		sel = "*"
	}
	query := r.client.From(table).Select(sel, "", false).Eq("id", id)
	if userID != "" && table != core.TableProfiles {
		query = query.Eq("user_id", userID)
	}
	data, _, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", table, id, err)
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", table, id, err)
	}
	if len(rows) == 0 {
		return nil, core.ErrNotFound
	}
	return rows[0], nil
}

// Upsert inserts or replaces a row and returns the stored rows as a JSON
// array, ids and timestamps filled in by the database.
func (r *SupabaseRepository) Upsert(ctx context.Context, table string, item any, sel string) ([]byte, error) {
	if !core.KnownTable(table) {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	data, _, err := r.client.From(table).Insert(item, true, "", "", "").Execute()
	if err != nil {
		return nil, fmt.Errorf("upsert %s: %w", table, err)
	}
	if sel != "" && sel != "*" && strings.Contains(sel, "(") {
		// Re-read through the embed projection so joined rows come back too.
		var rows []struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(data, &rows); err == nil && len(rows) > 0 {
			if row, err := r.GetByID(ctx, table, sel, "", rows[0].ID); err == nil {
				return []byte("[" + string(row) + "]"), nil
			}
		}
	}
	return data, nil
}

// Remove deletes a row scoped to its owner. Deleting a row that is already
// gone is not an error.
func (r *SupabaseRepository) Remove(ctx context.Context, table, userID, id string) error {
	if !core.KnownTable(table) {
		return fmt.Errorf("unknown table %q", table)
	}
	query := r.client.From(table).Delete("", "").Eq("id", id)
	if userID != "" {
		query = query.Eq(ownerColumn(table), userID)
	}
	if _, _, err := query.Execute(); err != nil {
		return fmt.Errorf("delete %s/%s: %w", table, id, err)
	}
	return nil
}

// SignIn performs a password grant. When the repository holds the service
// key and the first attempt fails, it checks for an unconfirmed email,
// confirms it through the admin API and retries once. Some projects are
// created with email confirmation on and no mail sender; accounts would
// otherwise be stuck.
func (r *SupabaseRepository) SignIn(ctx context.Context, email, password string) (types.Session, error) {
	session, err := r.client.SignInWithEmailPassword(email, password)
	if err == nil {
		return session, nil
	}
	if !r.admin {
		return types.Session{}, fmt.Errorf("sign in: %w", err)
	}
	if repairErr := r.confirmEmail(ctx, email); repairErr != nil {
		r.logger.WarnContext(ctx, "auto-confirm repair failed", log.FieldError, repairErr.Error())
		return types.Session{}, fmt.Errorf("sign in: %w", err)
	}
	session, retryErr := r.client.SignInWithEmailPassword(email, password)
	if retryErr != nil {
		return types.Session{}, fmt.Errorf("sign in after confirm: %w", retryErr)
	}
	r.logger.InfoContext(ctx, "signed in after auto-confirm repair")
	return session, nil
}

func (r *SupabaseRepository) confirmEmail(ctx context.Context, email string) error {
	resp, err := r.client.Auth.AdminListUsers()
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	for _, u := range resp.Users {
		if !strings.EqualFold(u.Email, email) {
			continue
		}
		if u.EmailConfirmedAt != nil {
			return fmt.Errorf("email already confirmed")
		}
		_, err := r.client.Auth.AdminUpdateUser(types.AdminUpdateUserRequest{
			UserID:       u.ID,
			EmailConfirm: true,
		})
		if err != nil {
			return fmt.Errorf("confirm user: %w", err)
		}
		return nil
	}
	return fmt.Errorf("no account for email")
}

// SignUp registers a new account. The profile row is created separately by
// the session layer.
func (r *SupabaseRepository) SignUp(ctx context.Context, email, password, fullName string) (types.User, error) {
	resp, err := r.client.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data:     map[string]interface{}{"full_name": fullName},
	})
	if err != nil {
		return types.User{}, fmt.Errorf("sign up: %w", err)
	}
	return resp.User, nil
}

// UserFromToken resolves a bearer token to its user. An invalid or expired
// token comes back as ErrUnauthorized.
func (r *SupabaseRepository) UserFromToken(ctx context.Context, token string) (types.User, error) {
	resp, err := r.client.Auth.WithToken(token).GetUser()
	if err != nil {
		return types.User{}, core.ErrUnauthorized
	}
	return resp.User, nil
}
