// Package transport is the wire layer under the data façade. Exactly one
// implementation is selected at startup: direct (straight to Supabase with
// the anon key and the user's session) or proxy (same-origin HTTP API that
// holds the privileged key server-side). Callers never branch on the mode
// again.
package transport

import (
	"context"
)

// Mode names a transport selection.
type Mode string

const (
	ModeDirect Mode = "direct"
	ModeProxy  Mode = "proxy"
)

// Transport moves raw JSON rows for the current user. List and Upsert
// return JSON arrays as postgrest produces them; GetByID returns a single
// object. Remove is idempotent.
type Transport interface {
	List(ctx context.Context, table, sel, order string) ([]byte, error)
	GetByID(ctx context.Context, table, sel, id string) ([]byte, error)
	Upsert(ctx context.Context, table string, item any, sel string) ([]byte, error)
	Remove(ctx context.Context, table, id string) error

	// Mode reports which implementation is active, for logs only.
	Mode() Mode
}
