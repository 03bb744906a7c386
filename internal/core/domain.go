package core

import (
	"fmt"
	"time"
)

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

type (
	PaymentMethod string

	// Date is a calendar day as stored in the date columns (YYYY-MM-DD).
	Date struct {
		time.Time
	}

	Profile struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		FullName  *string   `json:"full_name"`
		AvatarURL *string   `json:"avatar_url"`
		Currency  string    `json:"currency"`
		Timezone  string    `json:"timezone"`
		CreatedAt time.Time `json:"created_at,omitempty"`
		UpdatedAt time.Time `json:"updated_at,omitempty"`
	}

	Category struct {
		ID        string    `json:"id,omitempty"`
		UserID    string    `json:"user_id"`
		Name      string    `json:"name"`
		Icon      string    `json:"icon"`
		Color     string    `json:"color"`
		IsDefault bool      `json:"is_default"`
		SortOrder int       `json:"sort_order"`
		CreatedAt time.Time `json:"created_at,omitempty"`
		UpdatedAt time.Time `json:"updated_at,omitempty"`
	}

	CreditCard struct {
		ID             string    `json:"id,omitempty"`
		UserID         string    `json:"user_id"`
		Name           string    `json:"name"`
		LastFourDigits *string   `json:"last_four_digits"`
		BankName       *string   `json:"bank_name"`
		CreditLimit    float64   `json:"credit_limit"`
		CutOffDay      *int      `json:"cut_off_day"`
		PaymentDay     *int      `json:"payment_day"`
		Color          string    `json:"color"`
		IsActive       bool      `json:"is_active"`
		CreatedAt      time.Time `json:"created_at,omitempty"`
		UpdatedAt      time.Time `json:"updated_at,omitempty"`
	}

	Expense struct {
		ID            string        `json:"id,omitempty"`
		UserID        string        `json:"user_id"`
		CategoryID    *string       `json:"category_id"`
		CreditCardID  *string       `json:"credit_card_id"`
		Name          string        `json:"name"`
		Amount        float64       `json:"amount"`
		PaymentMethod PaymentMethod `json:"payment_method"`
		ExpenseDate   Date          `json:"expense_date"`
		Month         int           `json:"month"`
		Year          int           `json:"year"`
		Notes         *string       `json:"notes"`
		IsRecurring   bool          `json:"is_recurring"`
		CreatedAt     time.Time     `json:"created_at,omitempty"`
		UpdatedAt     time.Time     `json:"updated_at,omitempty"`

		// Joined rows, populated by the embed projections.
		Category   *Category   `json:"category,omitempty"`
		CreditCard *CreditCard `json:"credit_card,omitempty"`
	}

	Income struct {
		ID          string    `json:"id,omitempty"`
		UserID      string    `json:"user_id"`
		Name        string    `json:"name"`
		Amount      float64   `json:"amount"`
		IncomeDate  Date      `json:"income_date"`
		Month       int       `json:"month"`
		Year        int       `json:"year"`
		Source      *string   `json:"source"`
		Notes       *string   `json:"notes"`
		IsRecurring bool      `json:"is_recurring"`
		CreatedAt   time.Time `json:"created_at,omitempty"`
		UpdatedAt   time.Time `json:"updated_at,omitempty"`
	}

	Budget struct {
		ID         string    `json:"id,omitempty"`
		UserID     string    `json:"user_id"`
		CategoryID string    `json:"category_id"`
		Amount     float64   `json:"amount"`
		Month      int       `json:"month"`
		Year       int       `json:"year"`
		CreatedAt  time.Time `json:"created_at,omitempty"`
		UpdatedAt  time.Time `json:"updated_at,omitempty"`

		Category *Category `json:"category,omitempty"`
	}

	Goal struct {
		ID            string     `json:"id,omitempty"`
		UserID        string     `json:"user_id"`
		Name          string     `json:"name"`
		TargetAmount  float64    `json:"target_amount"`
		CurrentAmount float64    `json:"current_amount"`
		TargetDate    *Date      `json:"target_date"`
		Color         string     `json:"color"`
		Icon          string     `json:"icon"`
		IsCompleted   bool       `json:"is_completed"`
		CompletedAt   *time.Time `json:"completed_at"`
		CreatedAt     time.Time  `json:"created_at,omitempty"`
		UpdatedAt     time.Time  `json:"updated_at,omitempty"`
	}

	GoalContribution struct {
		ID               string    `json:"id,omitempty"`
		UserID           string    `json:"user_id"`
		GoalID           string    `json:"goal_id"`
		Amount           float64   `json:"amount"`
		ContributionDate Date      `json:"contribution_date"`
		Notes            *string   `json:"notes"`
		CreatedAt        time.Time `json:"created_at,omitempty"`
	}
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar day.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// Month returns the 1-based month of the date.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year of the date.
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON encodes the date in the YYYY-MM-DD form the date columns use.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON accepts both plain dates and full timestamps.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		d.Time = time.Time{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	s = s[1 : len(s)-1]
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// Tables recognized by the data plane. The proxy rejects anything else.
const (
	TableProfiles      = "profiles"
	TableCategories    = "categories"
	TableCreditCards   = "credit_cards"
	TableExpenses      = "expenses"
	TableIncome        = "income"
	TableBudgets       = "budgets"
	TableGoals         = "goals"
	TableContributions = "goal_contributions"
)

var knownTables = map[string]bool{
	TableProfiles:      true,
	TableCategories:    true,
	TableCreditCards:   true,
	TableExpenses:      true,
	TableIncome:        true,
	TableBudgets:       true,
	TableGoals:         true,
	TableContributions: true,
}

// KnownTable reports whether name is one of the application tables.
func KnownTable(name string) bool {
	return knownTables[name]
}
