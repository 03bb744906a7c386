package transport

import (
	"context"

	"gastos/internal/core"
	"gastos/internal/repository"
)

// DirectTransport talks straight to Supabase. Row-level security already
// scopes queries to the session user; the explicit user_id filter is kept
// anyway so a misconfigured project cannot leak rows.
type DirectTransport struct {
	repo   repository.Repository
	userID func() string
}

// NewDirect builds a direct transport. userID resolves the current session
// owner at call time; it returns "" when nobody is signed in.
func NewDirect(repo repository.Repository, userID func() string) *DirectTransport {
	return &DirectTransport{repo: repo, userID: userID}
}

func (t *DirectTransport) Mode() Mode { return ModeDirect }

func (t *DirectTransport) List(ctx context.Context, table, sel, order string) ([]byte, error) {
	uid := t.userID()
	if uid == "" {
		return nil, core.ErrUnauthorized
	}
	data, err := t.repo.List(ctx, table, sel, uid, order)
	if err != nil {
		return nil, &core.TransportError{Op: "list " + table, Err: err}
	}
	return data, nil
}

func (t *DirectTransport) GetByID(ctx context.Context, table, sel, id string) ([]byte, error) {
	uid := t.userID()
	if uid == "" {
		return nil, core.ErrUnauthorized
	}
	data, err := t.repo.GetByID(ctx, table, sel, uid, id)
	if err == core.ErrNotFound {
		return nil, err
	}
	if err != nil {
		return nil, &core.TransportError{Op: "get " + table, Err: err}
	}
	return data, nil
}

func (t *DirectTransport) Upsert(ctx context.Context, table string, item any, sel string) ([]byte, error) {
	if t.userID() == "" {
		return nil, core.ErrUnauthorized
	}
	data, err := t.repo.Upsert(ctx, table, item, sel)
	if err != nil {
		return nil, &core.TransportError{Op: "upsert " + table, Err: err}
	}
	return data, nil
}

func (t *DirectTransport) Remove(ctx context.Context, table, id string) error {
	uid := t.userID()
	if uid == "" {
		return core.ErrUnauthorized
	}
	if err := t.repo.Remove(ctx, table, uid, id); err != nil {
		return &core.TransportError{Op: "delete " + table, Err: err}
	}
	return nil
}
