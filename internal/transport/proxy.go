package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"gastos/internal/core"
)

const proxyPath = "/api/data/proxy"

// ProxyTransport reaches the data plane through the same-origin proxy API.
// Credentials never reach this side; the proxy holds the privileged key and
// derives the user from the bearer token.
type ProxyTransport struct {
	baseURL string
	client  *http.Client
	token   func() string
}

// NewProxy builds a proxy transport. token resolves the current access
// token at call time; it returns "" when nobody is signed in.
func NewProxy(baseURL string, token func() string) *ProxyTransport {
	return &ProxyTransport{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		token:   token,
	}
}

func (t *ProxyTransport) Mode() Mode { return ModeProxy }

/// envelope is the proxy wire format: exactly one of data or error on reads
// and writes, success on deletes.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Success bool            `json:"success"`
}

func (t *ProxyTransport) do(ctx context.Context, method, rawQuery string, body any) (envelope, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return envelope{}, &core.TransportError{Op: "encode", Err: err}
		}
		reader = bytes.NewReader(buf)
	}
	u := t.baseURL + proxyPath
	if rawQuery != "" {
		u += "?" + rawQuery
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return envelope{}, &core.TransportError{Op: "request", Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := t.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return envelope{}, &core.TransportError{Op: method + " proxy", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return envelope{}, core.ErrUnauthorized
	}
	if resp.StatusCode == http.StatusNotFound {
		return envelope{}, core.ErrNotFound
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return envelope{}, &core.TransportError{Op: "decode proxy response", Err: err}
	}
	if env.Error != "" {
		return envelope{}, &core.TransportError{Op: method + " proxy", Err: fmt.Errorf("%s", env.Error)}
	}
	if resp.StatusCode >= 400 {
		return envelope{}, &core.TransportError{Op: method + " proxy", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	return env, nil
}

func (t *ProxyTransport) List(ctx context.Context, table, sel, order string) ([]byte, error) {
	q := url.Values{}
	q.Set("table", table)
	if sel != "" {
		q.Set("select", sel)
	}
	if order != "" {
		q.Set("order", order)
	}
	env, err := t.do(ctx, http.MethodGet, q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (t *ProxyTransport) GetByID(ctx context.Context, table, sel, id string) ([]byte, error) {
	q := url.Values{}
	q.Set("table", table)
	q.Set("id", id)
	if sel != "" {
		q.Set("select", sel)
	}
	env, err := t.do(ctx, http.MethodGet, q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (t *ProxyTransport) Upsert(ctx context.Context, table string, item any, sel string) ([]byte, error) {
	payload := map[string]any{
		"table": table,
		"item":  item,
	}
	if sel != "" {
		payload["select"] = sel
	}
	env, err := t.do(ctx, http.MethodPost, "", payload)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (t *ProxyTransport) Remove(ctx context.Context, table, id string) error {
	q := url.Values{}
	q.Set("table", table)
	q.Set("id", id)
	_, err := t.do(ctx, http.MethodDelete, q.Encode(), nil)
	return err
}
