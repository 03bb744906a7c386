package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"gastos/internal/fixtures"
	"gastos/internal/log"
	"gastos/internal/session"
	"gastos/internal/store"
)

func TestPrintReportDemoAccount(t *testing.T) {
	logger := log.New(log.Config{Level: slog.LevelError, Component: log.ComponentApp})
	manager := session.NewManager(nil, logger)

	sess, err := manager.Login(context.Background(), fixtures.DemoEmail, "whatever")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	st := store.New(nil, manager.IsDemo, logger)
	if err := st.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	var buf bytes.Buffer
	printReport(&buf, sess, st, 1, 2025)
	out := buf.String()

	for _, want := range []string{
		"Enero 2025",
		"Ingresos",
		"Presupuestos",
		"Metas",
		"Tarjetas",
		"Netflix",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}
