package format

import (
	"testing"
	"time"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "$ 0"},
		{950, "$ 950"},
		{1500, "$ 1.500"},
		{280000, "$ 280.000"},
		{1234567, "$ 1.234.567"},
		{15000000, "$ 15.000.000"},
		{-85000, "-$ 85.000"},
		{999.6, "$ 1.000"},
	}
	for _, tt := range tests {
		if got := Currency(tt.amount); got != tt.want {
			t.Fatalf("Currency(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		value    float64
		showSign bool
		want     string
	}{
		{35, false, "35%"},
		{12.4, true, "+12%"},
		{-8.6, true, "-9%"},
		{0, true, "0%"},
	}
	for _, tt := range tests {
		if got := Percentage(tt.value, tt.showSign); got != tt.want {
			t.Fatalf("Percentage(%v, %v) = %q, want %q", tt.value, tt.showSign, got, tt.want)
		}
	}
}

func TestCardNumber(t *testing.T) {
	if got := CardNumber("4821"); got != "•••• •••• •••• 4821" {
		t.Fatalf("unexpected mask: %q", got)
	}
	if got := CardNumber(""); got != "•••• •••• •••• ••••" {
		t.Fatalf("unexpected empty mask: %q", got)
	}
}

func TestMonth(t *testing.T) {
	if got := Month(1); got != "Enero" {
		t.Fatalf("Month(1) = %q", got)
	}
	if got := Month(12); got != "Diciembre" {
		t.Fatalf("Month(12) = %q", got)
	}
	if got := Month(0); got != "" {
		t.Fatalf("Month(0) = %q, want empty", got)
	}
	if got := MonthShort(9); got != "Sep" {
		t.Fatalf("MonthShort(9) = %q", got)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		t    time.Time
		want string
	}{
		{now, "Hoy"},
		{now.AddDate(0, 0, -1), "Ayer"},
		{now.AddDate(0, 0, -3), "Hace 3 días"},
		{now.AddDate(0, 0, -14), "Hace 2 semanas"},
		{time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), "01/12/2024"},
	}
	for _, tt := range tests {
		if got := RelativeTime(tt.t, now); got != tt.want {
			t.Fatalf("RelativeTime(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}
