// Package fixtures holds the demo dataset served when the session belongs
// to the demo account. Slices are returned as copies so callers can splice
// freely without corrupting the canonical data.
package fixtures

import (
	"time"

	"gastos/internal/core"
)

// DemoUserID identifies the demo account across every fixture row.
const DemoUserID = "demo-user-001"

// DemoEmail is the address that switches a login into demo mode.
const DemoEmail = "demo@example.com"

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func ts(value string) time.Time {
	t, _ := time.Parse("2006-01-02", value)
	return t
}

var demoProfile = core.Profile{
	ID:        DemoUserID,
	Email:     DemoEmail,
	FullName:  strPtr("Usuario Demo"),
	Currency:  "COP",
	Timezone:  "America/Bogota",
	CreatedAt: ts("2024-01-01"),
	UpdatedAt: ts("2024-01-01"),
}

var demoCategories = []core.Category{
	{ID: "cat-1", UserID: DemoUserID, Name: "Domicilios", Icon: "home", Color: "#ef4444", IsDefault: true, SortOrder: 1},
	{ID: "cat-2", UserID: DemoUserID, Name: "Mercado", Icon: "shopping-cart", Color: "#f97316", IsDefault: true, SortOrder: 2},
	{ID: "cat-3", UserID: DemoUserID, Name: "Créditos", Icon: "credit-card", Color: "#eab308", IsDefault: true, SortOrder: 3},
	{ID: "cat-4", UserID: DemoUserID, Name: "Tools", Icon: "wrench", Color: "#84cc16", IsDefault: true, SortOrder: 4},
	{ID: "cat-5", UserID: DemoUserID, Name: "Streaming", Icon: "tv", Color: "#22c55e", IsDefault: true, SortOrder: 5},
	{ID: "cat-6", UserID: DemoUserID, Name: "Entretenimiento", Icon: "gamepad-2", Color: "#14b8a6", IsDefault: true, SortOrder: 6},
	{ID: "cat-7", UserID: DemoUserID, Name: "Hogar", Icon: "house", Color: "#06b6d4", IsDefault: true, SortOrder: 7},
	{ID: "cat-8", UserID: DemoUserID, Name: "Familia", Icon: "users", Color: "#3b82f6", IsDefault: true, SortOrder: 8},
	{ID: "cat-9", UserID: DemoUserID, Name: "Salud", Icon: "heart-pulse", Color: "#8b5cf6", IsDefault: true, SortOrder: 9},
	{ID: "cat-10", UserID: DemoUserID, Name: "Viajes", Icon: "plane", Color: "#ec4899", IsDefault: true, SortOrder: 10},
}

var demoCards = []core.CreditCard{
	{ID: "card-1", UserID: DemoUserID, Name: "Visa Gold", LastFourDigits: strPtr("7628"), BankName: strPtr("Bank of America"), CreditLimit: 15000000, CutOffDay: intPtr(15), PaymentDay: intPtr(5), Color: "#1a2e1a", IsActive: true},
	{ID: "card-2", UserID: DemoUserID, Name: "Mastercard Platinum", LastFourDigits: strPtr("4521"), BankName: strPtr("Bank of Alaska"), CreditLimit: 20000000, CutOffDay: intPtr(20), PaymentDay: intPtr(10), Color: "#2d4a2d", IsActive: true},
	{ID: "card-3", UserID: DemoUserID, Name: "American Express", LastFourDigits: strPtr("9834"), BankName: strPtr("Bank of Merina"), CreditLimit: 25000000, CutOffDay: intPtr(25), PaymentDay: intPtr(15), Color: "#4a7c4a", IsActive: true},
}

var demoExpenses = []core.Expense{
	{ID: "exp-1", UserID: DemoUserID, CategoryID: strPtr("cat-1"), Name: "Rappi - Almuerzo", Amount: 45000, PaymentMethod: core.PaymentCash, ExpenseDate: core.NewDate(2025, 1, 20), Month: 1, Year: 2025, Category: &demoCategories[0]},
	{ID: "exp-2", UserID: DemoUserID, CategoryID: strPtr("cat-2"), Name: "Éxito - Mercado semanal", Amount: 280000, PaymentMethod: core.PaymentCash, ExpenseDate: core.NewDate(2025, 1, 18), Month: 1, Year: 2025, Notes: strPtr("Mercado de la semana"), Category: &demoCategories[1]},
	{ID: "exp-3", UserID: DemoUserID, CategoryID: strPtr("cat-5"), CreditCardID: strPtr("card-1"), Name: "Netflix", Amount: 44900, PaymentMethod: core.PaymentCard, ExpenseDate: core.NewDate(2025, 1, 15), Month: 1, Year: 2025, Notes: strPtr("Plan Premium"), IsRecurring: true, Category: &demoCategories[4], CreditCard: &demoCards[0]},
	{ID: "exp-4", UserID: DemoUserID, CategoryID: strPtr("cat-5"), CreditCardID: strPtr("card-1"), Name: "Spotify", Amount: 29900, PaymentMethod: core.PaymentCard, ExpenseDate: core.NewDate(2025, 1, 15), Month: 1, Year: 2025, Notes: strPtr("Plan Individual"), IsRecurring: true, Category: &demoCategories[4], CreditCard: &demoCards[0]},
	{ID: "exp-5", UserID: DemoUserID, CategoryID: strPtr("cat-7"), Name: "Servicios públicos", Amount: 180000, PaymentMethod: core.PaymentCash, ExpenseDate: core.NewDate(2025, 1, 10), Month: 1, Year: 2025, Notes: strPtr("Agua, luz, gas"), IsRecurring: true, Category: &demoCategories[6]},
	{ID: "exp-6", UserID: DemoUserID, CategoryID: strPtr("cat-6"), CreditCardID: strPtr("card-2"), Name: "Amazon - Compra online", Amount: 750000, PaymentMethod: core.PaymentCard, ExpenseDate: core.NewDate(2025, 1, 3), Month: 1, Year: 2025, Notes: strPtr("Accesorios tecnología"), Category: &demoCategories[5], CreditCard: &demoCards[1]},
	{ID: "exp-7", UserID: DemoUserID, CategoryID: strPtr("cat-9"), Name: "Farmacia", Amount: 85000, PaymentMethod: core.PaymentCash, ExpenseDate: core.NewDate(2025, 1, 8), Month: 1, Year: 2025, Notes: strPtr("Medicamentos"), Category: &demoCategories[8]},
	{ID: "exp-8", UserID: DemoUserID, CategoryID: strPtr("cat-3"), CreditCardID: strPtr("card-1"), Name: "Cuota carro", Amount: 850000, PaymentMethod: core.PaymentCard, ExpenseDate: core.NewDate(2025, 1, 5), Month: 1, Year: 2025, Notes: strPtr("Cuota 12 de 48"), IsRecurring: true, Category: &demoCategories[2], CreditCard: &demoCards[0]},
}

var demoIncome = []core.Income{
	{ID: "inc-1", UserID: DemoUserID, Name: "Salario", Amount: 8500000, IncomeDate: core.NewDate(2025, 1, 1), Month: 1, Year: 2025, Source: strPtr("Empresa XYZ"), Notes: strPtr("Salario mensual"), IsRecurring: true},
	{ID: "inc-2", UserID: DemoUserID, Name: "Freelance - Proyecto web", Amount: 1500000, IncomeDate: core.NewDate(2025, 1, 15), Month: 1, Year: 2025, Source: strPtr("Cliente ABC"), Notes: strPtr("Desarrollo landing page")},
	{ID: "inc-3", UserID: DemoUserID, Name: "Dividendos", Amount: 320000, IncomeDate: core.NewDate(2025, 1, 20), Month: 1, Year: 2025, Source: strPtr("Inversiones"), Notes: strPtr("Rendimientos del mes")},
}

var demoBudgets = []core.Budget{
	{ID: "bud-1", UserID: DemoUserID, CategoryID: "cat-1", Amount: 200000, Month: 1, Year: 2025, Category: &demoCategories[0]},
	{ID: "bud-2", UserID: DemoUserID, CategoryID: "cat-2", Amount: 800000, Month: 1, Year: 2025, Category: &demoCategories[1]},
	{ID: "bud-3", UserID: DemoUserID, CategoryID: "cat-5", Amount: 150000, Month: 1, Year: 2025, Category: &demoCategories[4]},
	{ID: "bud-4", UserID: DemoUserID, CategoryID: "cat-6", Amount: 500000, Month: 1, Year: 2025, Category: &demoCategories[5]},
	{ID: "bud-5", UserID: DemoUserID, CategoryID: "cat-7", Amount: 300000, Month: 1, Year: 2025, Category: &demoCategories[6]},
}

func datePtr(d core.Date) *core.Date { return &d }

var demoGoals = []core.Goal{
	{ID: "goal-1", UserID: DemoUserID, Name: "Home", TargetAmount: 20000000, CurrentAmount: 15000000, TargetDate: datePtr(core.NewDate(2025, 12, 31)), Color: "#ef4444", Icon: "home"},
	{ID: "goal-2", UserID: DemoUserID, Name: "Emergency Fund", TargetAmount: 15000000, CurrentAmount: 7500000, TargetDate: datePtr(core.NewDate(2025, 6, 30)), Color: "#f97316", Icon: "shield"},
	{ID: "goal-3", UserID: DemoUserID, Name: "Vacation", TargetAmount: 5000000, CurrentAmount: 2000000, TargetDate: datePtr(core.NewDate(2025, 7, 1)), Color: "#22c55e", Icon: "plane"},
}

var demoContributions = []core.GoalContribution{
	{ID: "cont-1", UserID: DemoUserID, GoalID: "goal-1", Amount: 1000000, ContributionDate: core.NewDate(2025, 1, 15), Notes: strPtr("Aporte mensual")},
	{ID: "cont-2", UserID: DemoUserID, GoalID: "goal-2", Amount: 500000, ContributionDate: core.NewDate(2025, 1, 10), Notes: strPtr("Aporte quincenal")},
	{ID: "cont-3", UserID: DemoUserID, GoalID: "goal-3", Amount: 300000, ContributionDate: core.NewDate(2025, 1, 5)},
}

// Profile returns the demo profile.
func Profile() core.Profile { return demoProfile }

// Categories returns a copy of the demo categories.
func Categories() []core.Category {
	return append([]core.Category(nil), demoCategories...)
}

// CreditCards returns a copy of the demo credit cards.
func CreditCards() []core.CreditCard {
	return append([]core.CreditCard(nil), demoCards...)
}

// Expenses returns a copy of the demo expenses, newest first.
func Expenses() []core.Expense {
	return append([]core.Expense(nil), demoExpenses...)
}

// Income returns a copy of the demo income entries.
func Income() []core.Income {
	return append([]core.Income(nil), demoIncome...)
}

// Budgets returns a copy of the demo budgets.
func Budgets() []core.Budget {
	return append([]core.Budget(nil), demoBudgets...)
}

// Goals returns a copy of the demo goals.
func Goals() []core.Goal {
	return append([]core.Goal(nil), demoGoals...)
}

// Contributions returns a copy of the demo goal contributions.
func Contributions() []core.GoalContribution {
	return append([]core.GoalContribution(nil), demoContributions...)
}
