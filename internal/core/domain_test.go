package core

import (
	"encoding/json"
	"testing"
)

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2025, 3, 9)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-03-09"` {
		t.Fatalf("expected \"2025-03-09\", got %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %v != %v", back, d)
	}
}

func TestDateUnmarshalTimestamp(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2025-03-09T14:22:05.123Z"`), &d); err != nil {
		t.Fatalf("unmarshal timestamp: %v", err)
	}
	if d.String() != "2025-03-09" {
		t.Fatalf("expected truncation to day, got %s", d)
	}
}

func TestDateUnmarshalNull(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`null`), &d); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !d.IsZero() {
		t.Fatalf("expected zero date, got %v", d)
	}
}

func TestExpenseInputValidate(t *testing.T) {
	valid := ExpenseInput{
		Name:          "Mercado",
		Amount:        120000,
		PaymentMethod: PaymentCash,
		ExpenseDate:   NewDate(2025, 3, 9),
	}

	tests := []struct {
		name    string
		mutate  func(*ExpenseInput)
		wantErr bool
	}{
		{"valid cash", func(in *ExpenseInput) {}, false},
		{"valid card", func(in *ExpenseInput) {
			in.PaymentMethod = PaymentCard
			in.CreditCardID = "card-1"
		}, false},
		{"empty name", func(in *ExpenseInput) { in.Name = "  " }, true},
		{"zero amount", func(in *ExpenseInput) { in.Amount = 0 }, true},
		{"negative amount", func(in *ExpenseInput) { in.Amount = -50 }, true},
		{"card without card id", func(in *ExpenseInput) {
			in.PaymentMethod = PaymentCard
			in.CreditCardID = ""
		}, true},
		{"unknown method", func(in *ExpenseInput) { in.PaymentMethod = "transfer" }, true},
		{"missing date", func(in *ExpenseInput) { in.ExpenseDate = Date{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr && !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestExpenseRecordDerivesMonthYear(t *testing.T) {
	in := ExpenseInput{
		Name:          "Cena",
		Amount:        85000,
		PaymentMethod: PaymentCard,
		CreditCardID:  "card-1",
		ExpenseDate:   NewDate(2024, 12, 31),
	}
	e := in.Record("user-1")
	if e.Month != 12 || e.Year != 2024 {
		t.Fatalf("expected 12/2024, got %d/%d", e.Month, e.Year)
	}
	if e.UserID != "user-1" {
		t.Fatalf("expected owner stamp, got %q", e.UserID)
	}
	if e.CreditCardID == nil || *e.CreditCardID != "card-1" {
		t.Fatalf("expected credit card id to carry over")
	}
}

func TestExpenseRecordDropsCardForCash(t *testing.T) {
	in := ExpenseInput{
		Name:          "Taxi",
		Amount:        15000,
		PaymentMethod: PaymentCash,
		CreditCardID:  "card-1",
		ExpenseDate:   NewDate(2025, 1, 5),
	}
	e := in.Record("user-1")
	if e.CreditCardID != nil {
		t.Fatalf("cash expense must not keep a credit card reference")
	}
}

func TestCardInputValidate(t *testing.T) {
	valid := CardInput{Name: "Visa Oro", LastFourDigits: "4821", CutOffDay: 15, PaymentDay: 30}

	tests := []struct {
		name    string
		mutate  func(*CardInput)
		wantErr bool
	}{
		{"valid", func(in *CardInput) {}, false},
		{"no digits is fine", func(in *CardInput) { in.LastFourDigits = "" }, false},
		{"three digits", func(in *CardInput) { in.LastFourDigits = "482" }, true},
		{"letters", func(in *CardInput) { in.LastFourDigits = "48a1" }, true},
		{"cut off out of range", func(in *CardInput) { in.CutOffDay = 32 }, true},
		{"payment day out of range", func(in *CardInput) { in.PaymentDay = 0 }, false},
		{"negative limit", func(in *CardInput) { in.CreditLimit = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestBudgetInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      BudgetInput
		wantErr bool
	}{
		{"valid", BudgetInput{CategoryID: "c", Amount: 800000, Month: 3, Year: 2025}, false},
		{"no category", BudgetInput{Amount: 800000, Month: 3, Year: 2025}, true},
		{"month 13", BudgetInput{CategoryID: "c", Amount: 800000, Month: 13, Year: 2025}, true},
		{"month 0", BudgetInput{CategoryID: "c", Amount: 800000, Month: 0, Year: 2025}, true},
		{"year too old", BudgetInput{CategoryID: "c", Amount: 800000, Month: 3, Year: 2019}, true},
		{"zero amount", BudgetInput{CategoryID: "c", Month: 3, Year: 2025}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestContributionRecordDefaultsDate(t *testing.T) {
	in := ContributionInput{GoalID: "g", Amount: 500000}
	c := in.Record("user-1")
	if c.ContributionDate.IsZero() {
		t.Fatalf("expected contribution date to default to today")
	}
}

func TestKnownTable(t *testing.T) {
	for _, table := range []string{
		TableProfiles, TableCategories, TableCreditCards, TableExpenses,
		TableIncome, TableBudgets, TableGoals, TableContributions,
	} {
		if !KnownTable(table) {
			t.Fatalf("expected %q to be known", table)
		}
	}
	if KnownTable("pg_catalog") {
		t.Fatalf("arbitrary tables must be rejected")
	}
	if KnownTable("") {
		t.Fatalf("empty table must be rejected")
	}
}
