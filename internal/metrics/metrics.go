// Package metrics derives display figures from raw collections: budget
// usage, goal progress, monthly summaries and category breakdowns. All
// functions are pure; they never touch the data plane.
package metrics

import (
	"math"
	"strings"

	"gastos/internal/core"
)

// Budget status bands.
const (
	StatusNominal   = "nominal"
	StatusNearLimit = "near-limit"
	StatusOver      = "over-budget"
)

// BudgetUsage is the consumption of a single budget for its month.
type BudgetUsage struct {
	Budget     core.Budget
	Spent      float64
	Remaining  float64
	Percentage int
	Status     string
}

// GoalProgress is the advance toward a savings goal.
type GoalProgress struct {
	Goal       core.Goal
	Raw        int
	Display    int
	Remaining  float64
	IsComplete bool
}

// Summary aggregates one month of activity.
type Summary struct {
	TotalIncome     float64
	TotalExpenses   float64
	Balance         float64
	SavingsRate     int
	TotalBudget     float64
	BudgetRemaining float64
	IncomeChange    int
	ExpenseChange   int
}

// CategorySlice is one row of the category breakdown.
type CategorySlice struct {
	CategoryID      string
	Name            string
	Icon            string
	Color           string
	Total           float64
	Count           int
	Share           int
	BudgetAmount    float64
	BudgetRemaining float64
}

// MonthPoint is one month of the report series.
type MonthPoint struct {
	Month    int
	Year     int
	Label    string
	Income   float64
	Expenses float64
	Balance  float64
}

// ExpenseFilter narrows an expense list. Zero values mean "no constraint".
type ExpenseFilter struct {
	Search        string
	CategoryID    string
	PaymentMethod core.PaymentMethod
	CreditCardID  string
	Month         int
	Year          int
}

func roundPct(part, whole float64) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(part / whole * 100))
}

// Usage computes consumption of a budget against the expenses of its own
// category, month and year. Expenses outside that scope never count.
func Usage(b core.Budget, expenses []core.Expense) BudgetUsage {
	var spent float64
	for _, e := range expenses {
		if e.CategoryID == nil || *e.CategoryID != b.CategoryID {
			continue
		}
		if e.Month != b.Month || e.Year != b.Year {
			continue
		}
		spent += e.Amount
	}
	pct := roundPct(spent, b.Amount)
	status := StatusNominal
	switch {
	case pct > 100:
		status = StatusOver
	case pct >= 80:
		status = StatusNearLimit
	}
	return BudgetUsage{
		Budget:     b,
		Spent:      spent,
		Remaining:  b.Amount - spent,
		Percentage: pct,
		Status:     status,
	}
}

// Progress computes goal advance. Display is clamped to [0, 100]; Raw keeps
// the over-funded value.
func Progress(g core.Goal) GoalProgress {
	raw := roundPct(g.CurrentAmount, g.TargetAmount)
	display := raw
	if display > 100 {
		display = 100
	}
	if display < 0 {
		display = 0
	}
	remaining := g.TargetAmount - g.CurrentAmount
	if remaining < 0 {
		remaining = 0
	}
	return GoalProgress{
		Goal:       g,
		Raw:        raw,
		Display:    display,
		Remaining:  remaining,
		IsComplete: g.CurrentAmount >= g.TargetAmount,
	}
}

func sumForMonth(month, year int, expenses []core.Expense, income []core.Income) (spent, earned float64) {
	for _, e := range expenses {
		if e.Month == month && e.Year == year {
			spent += e.Amount
		}
	}
	for _, i := range income {
		if i.Month == month && i.Year == year {
			earned += i.Amount
		}
	}
	return spent, earned
}

func changePct(current, previous float64) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round((current - previous) / previous * 100))
}

// Summarize aggregates one month. Savings rate is zero when there is no
// income, never a division by zero. Change percentages compare against the
// previous calendar month.
func Summarize(month, year int, expenses []core.Expense, income []core.Income, budgets []core.Budget) Summary {
	spent, earned := sumForMonth(month, year, expenses, income)

	prevMonth, prevYear := month-1, year
	if prevMonth == 0 {
		prevMonth, prevYear = 12, year-1
	}
	prevSpent, prevEarned := sumForMonth(prevMonth, prevYear, expenses, income)

	var totalBudget float64
	for _, b := range budgets {
		if b.Month == month && b.Year == year {
			totalBudget += b.Amount
		}
	}

	rate := 0
	if earned > 0 {
		rate = int(math.Round((earned - spent) / earned * 100))
	}

	return Summary{
		TotalIncome:     earned,
		TotalExpenses:   spent,
		Balance:         earned - spent,
		SavingsRate:     rate,
		TotalBudget:     totalBudget,
		BudgetRemaining: totalBudget - spent,
		IncomeChange:    changePct(earned, prevEarned),
		ExpenseChange:   changePct(spent, prevSpent),
	}
}

// Breakdown groups a month's expenses by category. Categories with no
// spending are omitted. Budget figures come from the matching month budget
// when one exists.
func Breakdown(month, year int, expenses []core.Expense, categories []core.Category, budgets []core.Budget) []CategorySlice {
	totals := make(map[string]float64)
	counts := make(map[string]int)
	var grand float64
	for _, e := range expenses {
		if e.Month != month || e.Year != year || e.CategoryID == nil {
			continue
		}
		totals[*e.CategoryID] += e.Amount
		counts[*e.CategoryID]++
		grand += e.Amount
	}

	budgetFor := make(map[string]float64)
	for _, b := range budgets {
		if b.Month == month && b.Year == year {
			budgetFor[b.CategoryID] = b.Amount
		}
	}

	var out []CategorySlice
	for _, c := range categories {
		total, ok := totals[c.ID]
		if !ok {
			continue
		}
		s := CategorySlice{
			CategoryID: c.ID,
			Name:       c.Name,
			Icon:       c.Icon,
			Color:      c.Color,
			Total:      total,
			Count:      counts[c.ID],
			Share:      roundPct(total, grand),
		}
		if amount, ok := budgetFor[c.ID]; ok {
			s.BudgetAmount = amount
			s.BudgetRemaining = amount - total
		}
		out = append(out, s)
	}
	return out
}

// Series builds the trailing twelve-month income/expense/balance series
// ending at the given month.
func Series(month, year int, expenses []core.Expense, income []core.Income, label func(month int) string) []MonthPoint {
	points := make([]MonthPoint, 0, 12)
	m, y := month, year
	for i := 0; i < 11; i++ {
		m--
		if m == 0 {
			m, y = 12, y-1
		}
	}
	for i := 0; i < 12; i++ {
		spent, earned := sumForMonth(m, y, expenses, income)
		points = append(points, MonthPoint{
			Month:    m,
			Year:     y,
			Label:    label(m),
			Income:   earned,
			Expenses: spent,
			Balance:  earned - spent,
		})
		m++
		if m == 13 {
			m, y = 1, y+1
		}
	}
	return points
}

// Filter returns the expenses matching every set constraint. The search term
// matches name and notes case-insensitively.
func Filter(expenses []core.Expense, f ExpenseFilter) []core.Expense {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var out []core.Expense
	for _, e := range expenses {
		if search != "" {
			name := strings.ToLower(e.Name)
			notes := ""
			if e.Notes != nil {
				notes = strings.ToLower(*e.Notes)
			}
			if !strings.Contains(name, search) && !strings.Contains(notes, search) {
				continue
			}
		}
		if f.CategoryID != "" {
			if e.CategoryID == nil || *e.CategoryID != f.CategoryID {
				continue
			}
		}
		if f.PaymentMethod != "" && e.PaymentMethod != f.PaymentMethod {
			continue
		}
		if f.CreditCardID != "" {
			if e.CreditCardID == nil || *e.CreditCardID != f.CreditCardID {
				continue
			}
		}
		if f.Month != 0 && e.Month != f.Month {
			continue
		}
		if f.Year != 0 && e.Year != f.Year {
			continue
		}
		out = append(out, e)
	}
	return out
}
