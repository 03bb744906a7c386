// Package store holds the in-memory application state: the six collections,
// the loading and error flags, and the expense filter. All mutation goes
// through the data façade; the store keeps itself consistent with what the
// façade returns.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"gastos/internal/core"
	"gastos/internal/fixtures"
	"gastos/internal/log"
	"gastos/internal/metrics"
)

// demoFetchDelay imitates network latency so the demo account exercises
// the loading states.
const demoFetchDelay = 500 * time.Millisecond

// DataSource is the façade surface the store depends on.
type DataSource interface {
	ListExpenses(ctx context.Context) ([]core.Expense, error)
	ListIncome(ctx context.Context) ([]core.Income, error)
	ListCreditCards(ctx context.Context) ([]core.CreditCard, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
	ListBudgets(ctx context.Context) ([]core.Budget, error)
	ListGoals(ctx context.Context) ([]core.Goal, error)

	AddExpense(ctx context.Context, in core.ExpenseInput) (core.Expense, error)
	UpdateExpense(ctx context.Context, id string, in core.ExpenseInput) (core.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
	AddIncome(ctx context.Context, in core.IncomeInput) (core.Income, error)
	UpdateIncome(ctx context.Context, id string, in core.IncomeInput) (core.Income, error)
	DeleteIncome(ctx context.Context, id string) error
	AddCreditCard(ctx context.Context, in core.CardInput) (core.CreditCard, error)
	UpdateCreditCard(ctx context.Context, id string, in core.CardInput) (core.CreditCard, error)
	DeleteCreditCard(ctx context.Context, id string) error
	AddBudget(ctx context.Context, in core.BudgetInput) (core.Budget, error)
	UpdateBudget(ctx context.Context, id string, in core.BudgetInput) (core.Budget, error)
	DeleteBudget(ctx context.Context, id string) error
	AddGoal(ctx context.Context, in core.GoalInput) (core.Goal, error)
	UpdateGoal(ctx context.Context, id string, in core.GoalInput) (core.Goal, error)
	DeleteGoal(ctx context.Context, id string) error
	AddContribution(ctx context.Context, in core.ContributionInput) (core.GoalContribution, error)
	FetchGoal(ctx context.Context, id string) (core.Goal, error)
	UpsertGoal(ctx context.Context, goal core.Goal) (core.Goal, error)
}

// Store is safe for concurrent use.
type Store struct {
	data   DataSource
	isDemo func() bool
	logger *log.Logger

	// Overridable in tests.
	demoDelay time.Duration
	now       func() time.Time

	mu         sync.RWMutex
	expenses   []core.Expense
	income     []core.Income
	cards      []core.CreditCard
	categories []core.Category
	budgets    []core.Budget
	goals      []core.Goal
	loading    bool
	lastError  string
	filter     metrics.ExpenseFilter
	generation uint64
}

// New builds a store. isDemo reports whether the active session is the
// demo account; demo fetches never touch the data source.
func New(data DataSource, isDemo func() bool, logger *log.Logger) *Store {
	return &Store{
		data:      data,
		isDemo:    isDemo,
		logger:    logger.WithComponent(log.ComponentStore),
		demoDelay: demoFetchDelay,
		now:       time.Now,
	}
}

// FetchAll loads every collection. Collections fail independently: a
// failed one comes back empty and is recorded in the error flag while the
// others still load. Results of a fetch that was superseded by a newer one
// are discarded.
func (s *Store) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	if s.isDemo() {
		return s.fetchDemo(ctx, gen)
	}

	var (
		expenses   []core.Expense
		income     []core.Income
		cards      []core.CreditCard
		categories []core.Category
		budgets    []core.Budget
		goals      []core.Goal

		errMu    sync.Mutex
		failures []string
	)
	record := func(collection string, err error) {
		if err == nil {
			return
		}
		errMu.Lock()
		failures = append(failures, collection)
		errMu.Unlock()
		s.logger.ErrorContext(ctx, "collection fetch failed",
			log.FieldOperation, log.OpFetchAll,
			log.FieldCollection, collection, log.FieldError, err.Error())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.data.ListExpenses(gctx)
		record("expenses", err)
		return nil
	})
	g.Go(func() error {
		var err error
		income, err = s.data.ListIncome(gctx)
		record("income", err)
		return nil
	})
	g.Go(func() error {
		var err error
		cards, err = s.data.ListCreditCards(gctx)
		record("credit_cards", err)
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = s.data.ListCategories(gctx)
		record("categories", err)
		return nil
	})
	g.Go(func() error {
		var err error
		budgets, err = s.data.ListBudgets(gctx)
		record("budgets", err)
		return nil
	})
	g.Go(func() error {
		var err error
		goals, err = s.data.ListGoals(gctx)
		record("goals", err)
		return nil
	})
	_ = g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		// A newer fetch started while this one ran.
		return nil
	}
	s.expenses = expenses
	s.income = income
	s.cards = cards
	s.categories = categories
	s.budgets = budgets
	s.goals = goals
	s.loading = false
	if len(failures) > 0 {
		s.lastError = "failed to load: " + strings.Join(failures, ", ")
	}
	return nil
}

func (s *Store) fetchDemo(ctx context.Context, gen uint64) error {
	select {
	case <-time.After(s.demoDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return nil
	}
	s.expenses = fixtures.Expenses()
	s.income = fixtures.Income()
	s.cards = fixtures.CreditCards()
	s.categories = fixtures.Categories()
	s.budgets = fixtures.Budgets()
	s.goals = fixtures.Goals()
	s.loading = false
	return nil
}

func (s *Store) fail(err error) error {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
	return err
}

// beginMutation raises the loading flag for the duration of a mutation.
// The returned func clears it and runs on success and failure alike.
func (s *Store) beginMutation() func() {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}
}

// AddExpense stores an expense and prepends it so the newest entry shows
// first.
func (s *Store) AddExpense(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	done := s.beginMutation()
	defer done()
	e, err := s.data.AddExpense(ctx, in)
	if err != nil {
		return core.Expense{}, s.fail(err)
	}
	s.mu.Lock()
	s.expenses = append([]core.Expense{e}, s.expenses...)
	s.mu.Unlock()
	return e, nil
}

// UpdateExpense replaces an expense in place, keeping its position.
func (s *Store) UpdateExpense(ctx context.Context, id string, in core.ExpenseInput) (core.Expense, error) {
	done := s.beginMutation()
	defer done()
	e, err := s.data.UpdateExpense(ctx, id, in)
	if err != nil {
		return core.Expense{}, s.fail(err)
	}
	s.mu.Lock()
	s.expenses = replaceByID(s.expenses, e, func(e core.Expense) string { return e.ID })
	s.mu.Unlock()
	return e, nil
}

// DeleteExpense removes an expense locally once the façade confirms.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	done := s.beginMutation()
	defer done()
	if err := s.data.DeleteExpense(ctx, id); err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	s.expenses = removeByID(s.expenses, id, func(e core.Expense) string { return e.ID })
	s.mu.Unlock()
	return nil
}

func (s *Store) AddIncome(ctx context.Context, in core.IncomeInput) (core.Income, error) {
	done := s.beginMutation()
	defer done()
	entry, err := s.data.AddIncome(ctx, in)
	if err != nil {
		return core.Income{}, s.fail(err)
	}
	s.mu.Lock()
	s.income = append([]core.Income{entry}, s.income...)
	s.mu.Unlock()
	return entry, nil
}

func (s *Store) UpdateIncome(ctx context.Context, id string, in core.IncomeInput) (core.Income, error) {
	done := s.beginMutation()
	defer done()
	entry, err := s.data.UpdateIncome(ctx, id, in)
	if err != nil {
		return core.Income{}, s.fail(err)
	}
	s.mu.Lock()
	s.income = replaceByID(s.income, entry, func(i core.Income) string { return i.ID })
	s.mu.Unlock()
	return entry, nil
}

func (s *Store) DeleteIncome(ctx context.Context, id string) error {
	done := s.beginMutation()
	defer done()
	if err := s.data.DeleteIncome(ctx, id); err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	s.income = removeByID(s.income, id, func(i core.Income) string { return i.ID })
	s.mu.Unlock()
	return nil
}

func (s *Store) AddCreditCard(ctx context.Context, in core.CardInput) (core.CreditCard, error) {
	done := s.beginMutation()
	defer done()
	card, err := s.data.AddCreditCard(ctx, in)
	if err != nil {
		return core.CreditCard{}, s.fail(err)
	}
	s.mu.Lock()
	s.cards = append(s.cards, card)
	s.mu.Unlock()
	return card, nil
}

func (s *Store) UpdateCreditCard(ctx context.Context, id string, in core.CardInput) (core.CreditCard, error) {
	done := s.beginMutation()
	defer done()
	card, err := s.data.UpdateCreditCard(ctx, id, in)
	if err != nil {
		return core.CreditCard{}, s.fail(err)
	}
	s.mu.Lock()
	s.cards = replaceByID(s.cards, card, func(c core.CreditCard) string { return c.ID })
	s.mu.Unlock()
	return card, nil
}

func (s *Store) DeleteCreditCard(ctx context.Context, id string) error {
	done := s.beginMutation()
	defer done()
	if err := s.data.DeleteCreditCard(ctx, id); err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	s.cards = removeByID(s.cards, id, func(c core.CreditCard) string { return c.ID })
	s.mu.Unlock()
	return nil
}

func (s *Store) AddBudget(ctx context.Context, in core.BudgetInput) (core.Budget, error) {
	done := s.beginMutation()
	defer done()
	b, err := s.data.AddBudget(ctx, in)
	if err != nil {
		return core.Budget{}, s.fail(err)
	}
	s.mu.Lock()
	s.budgets = append(s.budgets, b)
	s.mu.Unlock()
	return b, nil
}

func (s *Store) UpdateBudget(ctx context.Context, id string, in core.BudgetInput) (core.Budget, error) {
	done := s.beginMutation()
	defer done()
	b, err := s.data.UpdateBudget(ctx, id, in)
	if err != nil {
		return core.Budget{}, s.fail(err)
	}
	s.mu.Lock()
	s.budgets = replaceByID(s.budgets, b, func(b core.Budget) string { return b.ID })
	s.mu.Unlock()
	return b, nil
}

func (s *Store) DeleteBudget(ctx context.Context, id string) error {
	done := s.beginMutation()
	defer done()
	if err := s.data.DeleteBudget(ctx, id); err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	s.budgets = removeByID(s.budgets, id, func(b core.Budget) string { return b.ID })
	s.mu.Unlock()
	return nil
}

func (s *Store) AddGoal(ctx context.Context, in core.GoalInput) (core.Goal, error) {
	done := s.beginMutation()
	defer done()
	g, err := s.data.AddGoal(ctx, in)
	if err != nil {
		return core.Goal{}, s.fail(err)
	}
	s.mu.Lock()
	s.goals = append(s.goals, g)
	s.mu.Unlock()
	return g, nil
}

func (s *Store) UpdateGoal(ctx context.Context, id string, in core.GoalInput) (core.Goal, error) {
	done := s.beginMutation()
	defer done()
	g, err := s.data.UpdateGoal(ctx, id, in)
	if err != nil {
		return core.Goal{}, s.fail(err)
	}
	s.mu.Lock()
	s.goals = replaceByID(s.goals, g, func(g core.Goal) string { return g.ID })
	s.mu.Unlock()
	return g, nil
}

func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	done := s.beginMutation()
	defer done()
	if err := s.data.DeleteGoal(ctx, id); err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	s.goals = removeByID(s.goals, id, func(g core.Goal) string { return g.ID })
	s.mu.Unlock()
	return nil
}

// AddContribution stores a contribution, re-reads the goal to pick up the
// new current_amount, and marks the goal completed when it reached its
// target.
func (s *Store) AddContribution(ctx context.Context, in core.ContributionInput) (core.Goal, error) {
	done := s.beginMutation()
	defer done()
	if _, err := s.data.AddContribution(ctx, in); err != nil {
		return core.Goal{}, s.fail(err)
	}
	goal, err := s.data.FetchGoal(ctx, in.GoalID)
	if err != nil {
		return core.Goal{}, s.fail(err)
	}
	if goal.CurrentAmount >= goal.TargetAmount && !goal.IsCompleted {
		goal.IsCompleted = true
		completedAt := s.now().UTC()
		goal.CompletedAt = &completedAt
		updated, err := s.data.UpsertGoal(ctx, goal)
		if err != nil {
			return core.Goal{}, s.fail(err)
		}
		goal = updated
		s.logger.InfoContext(ctx, "goal completed", "goal_id", goal.ID)
	}
	s.mu.Lock()
	s.goals = replaceByID(s.goals, goal, func(g core.Goal) string { return g.ID })
	s.mu.Unlock()
	return goal, nil
}

func removeByID[T any](items []T, id string, idOf func(T) string) []T {
	out := items[:0:0]
	for _, it := range items {
		if idOf(it) != id {
			out = append(out, it)
		}
	}
	return out
}

func replaceByID[T any](items []T, item T, idOf func(T) string) []T {
	id := idOf(item)
	for i := range items {
		if idOf(items[i]) == id {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

// SetFilter replaces the expense filter.
func (s *Store) SetFilter(f metrics.ExpenseFilter) {
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
}

// ClearFilter resets the expense filter.
func (s *Store) ClearFilter() {
	s.SetFilter(metrics.ExpenseFilter{})
}

// Filter returns the active expense filter.
func (s *Store) Filter() metrics.ExpenseFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// FilteredExpenses applies the active filter to the expense collection.
func (s *Store) FilteredExpenses() []core.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return metrics.Filter(s.expenses, s.filter)
}

// Expenses returns a copy of the expense collection.
func (s *Store) Expenses() []core.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Expense(nil), s.expenses...)
}

// Income returns a copy of the income collection.
func (s *Store) Income() []core.Income {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Income(nil), s.income...)
}

// CreditCards returns a copy of the credit card collection.
func (s *Store) CreditCards() []core.CreditCard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.CreditCard(nil), s.cards...)
}

// Categories returns a copy of the category collection.
func (s *Store) Categories() []core.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Category(nil), s.categories...)
}

// Budgets returns a copy of the budget collection.
func (s *Store) Budgets() []core.Budget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Budget(nil), s.budgets...)
}

// Goals returns a copy of the goal collection.
func (s *Store) Goals() []core.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Goal(nil), s.goals...)
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastError returns the most recent failure message, "" when healthy.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}
