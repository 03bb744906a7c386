package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"gastos/internal/core"
	"gastos/internal/log"
)

// handleDataProxy implements the data routes. Every call authenticates the
// bearer token, derives the user from it and scopes the query server-side;
// the client never names a user id. Failures are opaque 401s so probing
// reveals nothing.
func (s *Server) handleDataProxy(w http.ResponseWriter, r *http.Request) {
	user, err := s.backend.UserFromToken(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	uid := user.ID.String()

	table := r.URL.Query().Get("table")
	if r.Method == http.MethodGet || r.Method == http.MethodDelete {
		if !core.KnownTable(table) {
			if r.Method == http.MethodGet {
				writeReadError(w, http.StatusBadRequest, "unknown table")
			} else {
				writeError(w, http.StatusBadRequest, "unknown table")
			}
			return
		}
	}

	switch r.Method {
	case http.MethodGet:
		s.proxyRead(w, r, table, uid)
	case http.MethodPost:
		s.proxyWrite(w, r, uid)
	case http.MethodDelete:
		s.proxyDelete(w, r, table, uid)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// writeReadError is the failure shape of read responses: the error plus an
// empty data member, so clients always find the data key.
func writeReadError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg, "data": []any{}})
}

func (s *Server) proxyRead(w http.ResponseWriter, r *http.Request, table, uid string) {
	sel := r.URL.Query().Get("select")
	order := r.URL.Query().Get("order")
	logger := log.FromContext(r.Context())

	if id := r.URL.Query().Get("id"); id != "" {
		row, err := s.backend.GetByID(r.Context(), table, sel, uid, id)
		if errors.Is(err, core.ErrNotFound) {
			writeReadError(w, http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			logger.ErrorContext(r.Context(), "proxy read failed",
				log.FieldTable, table, log.FieldError, err.Error())
			writeReadError(w, http.StatusInternalServerError, "read failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]json.RawMessage{"data": row})
		return
	}

	rows, err := s.backend.List(r.Context(), table, sel, uid, order)
	if err != nil {
		logger.ErrorContext(r.Context(), "proxy list failed",
			log.FieldTable, table, log.FieldError, err.Error())
		writeReadError(w, http.StatusInternalServerError, "read failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]json.RawMessage{"data": rows})
}

type proxyWriteRequest struct {
	Table  string          `json:"table"`
	Item   json.RawMessage `json:"item"`
	Select string          `json:"select"`
}

func (s *Server) proxyWrite(w http.ResponseWriter, r *http.Request, uid string) {
	var req proxyWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if !core.KnownTable(req.Table) {
		writeError(w, http.StatusBadRequest, "unknown table")
		return
	}

	var item map[string]any
	if err := json.Unmarshal(req.Item, &item); err != nil {
		// Batch writes (category seeding) send an array of items.
		var items []map[string]any
		if err := json.Unmarshal(req.Item, &items); err != nil {
			writeError(w, http.StatusBadRequest, "invalid item")
			return
		}
		for i := range items {
			stampOwner(items[i], req.Table, uid)
		}
		s.performWrite(w, r, req, items)
		return
	}
	stampOwner(item, req.Table, uid)
	s.performWrite(w, r, req, item)
}

func (s *Server) performWrite(w http.ResponseWriter, r *http.Request, req proxyWriteRequest, item any) {
	rows, err := s.backend.Upsert(r.Context(), req.Table, item, req.Select)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "proxy write failed",
			log.FieldTable, req.Table, log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "write failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]json.RawMessage{"data": rows})
}

// stampOwner forces the owning user onto the row regardless of what the
// client sent.
func stampOwner(item map[string]any, table, uid string) {
	if table == core.TableProfiles {
		item["id"] = uid
		return
	}
	item["user_id"] = uid
}

func (s *Server) proxyDelete(w http.ResponseWriter, r *http.Request, table, uid string) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}
	if err := s.backend.Remove(r.Context(), table, uid, id); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "proxy delete failed",
			log.FieldTable, table, log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
