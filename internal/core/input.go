package core

import (
	"strings"
	"time"
)

// Input types mirror the form payloads. Validate is called at the boundary
// before anything reaches the data plane; month/year are always recomputed
// from the date field, never taken from the caller.

type ExpenseInput struct {
	Name          string        `json:"name"`
	Amount        float64       `json:"amount"`
	CategoryID    string        `json:"category_id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	CreditCardID  string        `json:"credit_card_id"`
	ExpenseDate   Date          `json:"expense_date"`
	Notes         string        `json:"notes"`
	IsRecurring   bool          `json:"is_recurring"`
}

type IncomeInput struct {
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	IncomeDate  Date    `json:"income_date"`
	Source      string  `json:"source"`
	Notes       string  `json:"notes"`
	IsRecurring bool    `json:"is_recurring"`
}

type CardInput struct {
	Name           string  `json:"name"`
	BankName       string  `json:"bank_name"`
	LastFourDigits string  `json:"last_four_digits"`
	CreditLimit    float64 `json:"credit_limit"`
	CutOffDay      int     `json:"cut_off_day"`
	PaymentDay     int     `json:"payment_day"`
	Color          string  `json:"color"`
}

type BudgetInput struct {
	CategoryID string  `json:"category_id"`
	Amount     float64 `json:"amount"`
	Month      int     `json:"month"`
	Year       int     `json:"year"`
}

type GoalInput struct {
	Name         string  `json:"name"`
	TargetAmount float64 `json:"target_amount"`
	TargetDate   *Date   `json:"target_date"`
	Color        string  `json:"color"`
	Icon         string  `json:"icon"`
}

type ContributionInput struct {
	GoalID           string  `json:"goal_id"`
	Amount           float64 `json:"amount"`
	ContributionDate Date    `json:"contribution_date"`
	Notes            string  `json:"notes"`
}

const (
	maxNameLen  = 100
	maxNotesLen = 500
)

func (in ExpenseInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "required")
	}
	if len(in.Name) > maxNameLen {
		return invalid("name", "too long")
	}
	if in.Amount <= 0 {
		return invalid("amount", "must be positive")
	}
	switch in.PaymentMethod {
	case PaymentCash:
	case PaymentCard:
		if in.CreditCardID == "" {
			return invalid("credit_card_id", "required for card payments")
		}
	default:
		return invalid("payment_method", "must be cash or card")
	}
	if in.ExpenseDate.IsZero() {
		return invalid("expense_date", "required")
	}
	if len(in.Notes) > maxNotesLen {
		return invalid("notes", "too long")
	}
	return nil
}

// Record builds the expense row for a write, stamping the owner and
// deriving month/year from the authoritative date.
func (in ExpenseInput) Record(userID string) Expense {
	e := Expense{
		UserID:        userID,
		Name:          strings.TrimSpace(in.Name),
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		ExpenseDate:   in.ExpenseDate,
		Month:         in.ExpenseDate.Month(),
		Year:          in.ExpenseDate.Year(),
		IsRecurring:   in.IsRecurring,
	}
	if in.CategoryID != "" {
		e.CategoryID = &in.CategoryID
	}
	if in.PaymentMethod == PaymentCard {
		e.CreditCardID = &in.CreditCardID
	}
	if n := strings.TrimSpace(in.Notes); n != "" {
		e.Notes = &n
	}
	return e
}

func (in IncomeInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "required")
	}
	if len(in.Name) > maxNameLen {
		return invalid("name", "too long")
	}
	if in.Amount <= 0 {
		return invalid("amount", "must be positive")
	}
	if in.IncomeDate.IsZero() {
		return invalid("income_date", "required")
	}
	if len(in.Notes) > maxNotesLen {
		return invalid("notes", "too long")
	}
	return nil
}

func (in IncomeInput) Record(userID string) Income {
	i := Income{
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Amount:      in.Amount,
		IncomeDate:  in.IncomeDate,
		Month:       in.IncomeDate.Month(),
		Year:        in.IncomeDate.Year(),
		IsRecurring: in.IsRecurring,
	}
	if s := strings.TrimSpace(in.Source); s != "" {
		i.Source = &s
	}
	if n := strings.TrimSpace(in.Notes); n != "" {
		i.Notes = &n
	}
	return i
}

func (in CardInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "required")
	}
	if len(in.Name) > 50 {
		return invalid("name", "too long")
	}
	if in.LastFourDigits != "" {
		if len(in.LastFourDigits) != 4 {
			return invalid("last_four_digits", "must be 4 digits")
		}
		for _, r := range in.LastFourDigits {
			if r < '0' || r > '9' {
				return invalid("last_four_digits", "digits only")
			}
		}
	}
	if in.CreditLimit < 0 {
		return invalid("credit_limit", "must not be negative")
	}
	if in.CutOffDay != 0 && (in.CutOffDay < 1 || in.CutOffDay > 31) {
		return invalid("cut_off_day", "must be between 1 and 31")
	}
	if in.PaymentDay != 0 && (in.PaymentDay < 1 || in.PaymentDay > 31) {
		return invalid("payment_day", "must be between 1 and 31")
	}
	return nil
}

func (in CardInput) Record(userID string) CreditCard {
	c := CreditCard{
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		CreditLimit: in.CreditLimit,
		Color:       in.Color,
		IsActive:    true,
	}
	if c.Color == "" {
		c.Color = "#6366f1"
	}
	if b := strings.TrimSpace(in.BankName); b != "" {
		c.BankName = &b
	}
	if in.LastFourDigits != "" {
		lf := in.LastFourDigits
		c.LastFourDigits = &lf
	}
	if in.CutOffDay != 0 {
		d := in.CutOffDay
		c.CutOffDay = &d
	}
	if in.PaymentDay != 0 {
		d := in.PaymentDay
		c.PaymentDay = &d
	}
	return c
}

func (in BudgetInput) Validate() error {
	if in.CategoryID == "" {
		return invalid("category_id", "required")
	}
	if in.Amount <= 0 {
		return invalid("amount", "must be positive")
	}
	if in.Month < 1 || in.Month > 12 {
		return invalid("month", "must be between 1 and 12")
	}
	if in.Year < 2020 || in.Year > 2100 {
		return invalid("year", "out of range")
	}
	return nil
}

func (in BudgetInput) Record(userID string) Budget {
	return Budget{
		UserID:     userID,
		CategoryID: in.CategoryID,
		Amount:     in.Amount,
		Month:      in.Month,
		Year:       in.Year,
	}
}

func (in GoalInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "required")
	}
	if len(in.Name) > maxNameLen {
		return invalid("name", "too long")
	}
	if in.TargetAmount <= 0 {
		return invalid("target_amount", "must be positive")
	}
	return nil
}

func (in GoalInput) Record(userID string) Goal {
	g := Goal{
		UserID:       userID,
		Name:         strings.TrimSpace(in.Name),
		TargetAmount: in.TargetAmount,
		TargetDate:   in.TargetDate,
		Color:        in.Color,
		Icon:         in.Icon,
	}
	if g.Color == "" {
		g.Color = "#22c55e"
	}
	if g.Icon == "" {
		g.Icon = "target"
	}
	return g
}

func (in ContributionInput) Validate() error {
	if in.GoalID == "" {
		return invalid("goal_id", "required")
	}
	if in.Amount <= 0 {
		return invalid("amount", "must be positive")
	}
	if len(in.Notes) > maxNotesLen {
		return invalid("notes", "too long")
	}
	return nil
}

func (in ContributionInput) Record(userID string) GoalContribution {
	c := GoalContribution{
		UserID: userID,
		GoalID: in.GoalID,
		Amount: in.Amount,
	}
	c.ContributionDate = in.ContributionDate
	if c.ContributionDate.IsZero() {
		c.ContributionDate = Today()
	}
	if n := strings.TrimSpace(in.Notes); n != "" {
		c.Notes = &n
	}
	return c
}

// NormalizeMonthYear re-derives the denormalized month/year pair from a date.
func NormalizeMonthYear(d Date) (month, year int) {
	if d.IsZero() {
		now := time.Now()
		return int(now.Month()), now.Year()
	}
	return d.Month(), d.Year()
}
