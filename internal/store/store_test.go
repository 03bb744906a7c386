package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/metrics"
)

type fakeData struct {
	mu    sync.Mutex
	calls int

	expenses []core.Expense
	income   []core.Income
	goals    map[string]core.Goal

	failExpenses bool
	failBudgets  bool
	failWrites   bool

	block chan struct{}
}

func newFakeData() *fakeData {
	return &fakeData{goals: make(map[string]core.Goal)}
}

func (f *fakeData) touch() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeData) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeData) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	f.touch()
	if f.failExpenses {
		return nil, errors.New("expenses down")
	}
	return append([]core.Expense(nil), f.expenses...), nil
}

func (f *fakeData) ListIncome(ctx context.Context) ([]core.Income, error) {
	f.touch()
	return append([]core.Income(nil), f.income...), nil
}

func (f *fakeData) ListCreditCards(ctx context.Context) ([]core.CreditCard, error) {
	f.touch()
	return []core.CreditCard{}, nil
}

func (f *fakeData) ListCategories(ctx context.Context) ([]core.Category, error) {
	f.touch()
	return []core.Category{{ID: "cat-1", Name: "Mercado"}}, nil
}

func (f *fakeData) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	f.touch()
	if f.failBudgets {
		return nil, errors.New("budgets down")
	}
	return []core.Budget{}, nil
}

func (f *fakeData) ListGoals(ctx context.Context) ([]core.Goal, error) {
	f.touch()
	out := make([]core.Goal, 0, len(f.goals))
	for _, g := range f.goals {
		out = append(out, g)
	}
	return out, nil
}

func (f *fakeData) AddExpense(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	if f.failWrites {
		return core.Expense{}, errors.New("write refused")
	}
	e := in.Record("user-1")
	e.ID = "exp-new"
	return e, nil
}

func (f *fakeData) UpdateExpense(ctx context.Context, id string, in core.ExpenseInput) (core.Expense, error) {
	if f.failWrites {
		return core.Expense{}, errors.New("write refused")
	}
	e := in.Record("user-1")
	e.ID = id
	return e, nil
}

func (f *fakeData) DeleteExpense(ctx context.Context, id string) error { return nil }

func (f *fakeData) AddIncome(ctx context.Context, in core.IncomeInput) (core.Income, error) {
	i := in.Record("user-1")
	i.ID = "inc-new"
	return i, nil
}

func (f *fakeData) UpdateIncome(ctx context.Context, id string, in core.IncomeInput) (core.Income, error) {
	i := in.Record("user-1")
	i.ID = id
	return i, nil
}

func (f *fakeData) DeleteIncome(ctx context.Context, id string) error { return nil }

func (f *fakeData) AddCreditCard(ctx context.Context, in core.CardInput) (core.CreditCard, error) {
	c := in.Record("user-1")
	c.ID = "card-new"
	return c, nil
}

func (f *fakeData) UpdateCreditCard(ctx context.Context, id string, in core.CardInput) (core.CreditCard, error) {
	c := in.Record("user-1")
	c.ID = id
	return c, nil
}

func (f *fakeData) DeleteCreditCard(ctx context.Context, id string) error { return nil }

func (f *fakeData) AddBudget(ctx context.Context, in core.BudgetInput) (core.Budget, error) {
	b := in.Record("user-1")
	b.ID = "bud-new"
	return b, nil
}

func (f *fakeData) UpdateBudget(ctx context.Context, id string, in core.BudgetInput) (core.Budget, error) {
	b := in.Record("user-1")
	b.ID = id
	return b, nil
}

func (f *fakeData) DeleteBudget(ctx context.Context, id string) error { return nil }

func (f *fakeData) AddGoal(ctx context.Context, in core.GoalInput) (core.Goal, error) {
	g := in.Record("user-1")
	g.ID = "goal-new"
	f.goals[g.ID] = g
	return g, nil
}

func (f *fakeData) UpdateGoal(ctx context.Context, id string, in core.GoalInput) (core.Goal, error) {
	g := in.Record("user-1")
	g.ID = id
	if prev, ok := f.goals[id]; ok {
		g.CurrentAmount = prev.CurrentAmount
	}
	f.goals[id] = g
	return g, nil
}

func (f *fakeData) DeleteGoal(ctx context.Context, id string) error { return nil }

func (f *fakeData) AddContribution(ctx context.Context, in core.ContributionInput) (core.GoalContribution, error) {
	g, ok := f.goals[in.GoalID]
	if !ok {
		return core.GoalContribution{}, core.ErrNotFound
	}
	g.CurrentAmount += in.Amount
	f.goals[in.GoalID] = g
	c := in.Record("user-1")
	c.ID = "cont-new"
	return c, nil
}

func (f *fakeData) FetchGoal(ctx context.Context, id string) (core.Goal, error) {
	g, ok := f.goals[id]
	if !ok {
		return core.Goal{}, core.ErrNotFound
	}
	return g, nil
}

func (f *fakeData) UpsertGoal(ctx context.Context, goal core.Goal) (core.Goal, error) {
	f.goals[goal.ID] = goal
	return goal, nil
}

func newStore(data DataSource, demo bool) *Store {
	s := New(data, func() bool { return demo }, log.New(log.DefaultConfig()))
	s.demoDelay = time.Millisecond
	return s
}

func TestFetchAllLoadsCollections(t *testing.T) {
	data := newFakeData()
	data.expenses = []core.Expense{{ID: "e1", Name: "Mercado", Amount: 100}}
	data.income = []core.Income{{ID: "i1", Name: "Salario", Amount: 500}}
	s := newStore(data, false)

	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(s.Expenses()) != 1 || len(s.Income()) != 1 || len(s.Categories()) != 1 {
		t.Fatalf("collections not loaded")
	}
	if s.Loading() {
		t.Fatalf("loading must clear after fetch")
	}
	if s.LastError() != "" {
		t.Fatalf("unexpected error flag %q", s.LastError())
	}
}

func TestFetchAllDegradesPerCollection(t *testing.T) {
	data := newFakeData()
	data.income = []core.Income{{ID: "i1", Amount: 500}}
	data.failExpenses = true
	data.failBudgets = true
	s := newStore(data, false)

	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(s.Expenses()) != 0 {
		t.Fatalf("failed collection must come back empty")
	}
	if len(s.Income()) != 1 {
		t.Fatalf("healthy collections must still load")
	}
	msg := s.LastError()
	if !strings.Contains(msg, "expenses") || !strings.Contains(msg, "budgets") {
		t.Fatalf("error flag must name failed collections, got %q", msg)
	}
}

func TestFetchAllDemoSkipsDataSource(t *testing.T) {
	data := newFakeData()
	s := newStore(data, true)

	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("demo fetch: %v", err)
	}
	if data.Calls() != 0 {
		t.Fatalf("demo fetch must not touch the data source, got %d calls", data.Calls())
	}
	if len(s.Expenses()) != 8 || len(s.Categories()) != 10 || len(s.Goals()) != 3 {
		t.Fatalf("demo fixtures not loaded: %d/%d/%d",
			len(s.Expenses()), len(s.Categories()), len(s.Goals()))
	}
}

func TestStaleFetchDiscarded(t *testing.T) {
	data := newFakeData()
	data.block = make(chan struct{})
	s := newStore(data, false)

	done := make(chan struct{})
	go func() {
		_ = s.FetchAll(context.Background())
		close(done)
	}()

	// Let the first fetch hit the data source, then supersede it.
	for data.Calls() == 0 {
		time.Sleep(time.Millisecond)
	}
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()

	close(data.block)
	<-done

	if len(s.Expenses()) != 0 {
		t.Fatalf("stale fetch results must be discarded")
	}
}

func TestAddExpensePrepends(t *testing.T) {
	data := newFakeData()
	data.expenses = []core.Expense{{ID: "e-old", Name: "Viejo"}}
	s := newStore(data, false)
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	_, err := s.AddExpense(context.Background(), core.ExpenseInput{
		Name:          "Nuevo",
		Amount:        1000,
		PaymentMethod: core.PaymentCash,
		ExpenseDate:   core.NewDate(2025, 3, 9),
	})
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}
	expenses := s.Expenses()
	if len(expenses) != 2 || expenses[0].Name != "Nuevo" {
		t.Fatalf("new expense must be first, got %+v", expenses)
	}
}

func TestUpdateExpenseReplacesInPlace(t *testing.T) {
	data := newFakeData()
	data.expenses = []core.Expense{{ID: "e1", Name: "Mercado"}, {ID: "e2", Name: "Gasolina"}}
	s := newStore(data, false)
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	updated, err := s.UpdateExpense(context.Background(), "e2", core.ExpenseInput{
		Name:          "Gasolina premium",
		Amount:        90000,
		PaymentMethod: core.PaymentCash,
		ExpenseDate:   core.NewDate(2025, 3, 9),
	})
	if err != nil {
		t.Fatalf("update expense: %v", err)
	}
	if updated.ID != "e2" {
		t.Fatalf("update must keep the id, got %q", updated.ID)
	}
	expenses := s.Expenses()
	if len(expenses) != 2 {
		t.Fatalf("update must not grow the collection, got %d", len(expenses))
	}
	if expenses[1].ID != "e2" || expenses[1].Name != "Gasolina premium" {
		t.Fatalf("expected in-place replacement, got %+v", expenses)
	}
	if s.Loading() {
		t.Fatalf("loading must clear after the mutation")
	}
}

func TestMutationClearsLoadingOnFailure(t *testing.T) {
	data := newFakeData()
	data.failWrites = true
	s := newStore(data, false)

	_, err := s.AddExpense(context.Background(), core.ExpenseInput{
		Name:          "Cena",
		Amount:        50000,
		PaymentMethod: core.PaymentCash,
		ExpenseDate:   core.NewDate(2025, 3, 9),
	})
	if err == nil {
		t.Fatalf("expected write failure")
	}
	if s.Loading() {
		t.Fatalf("loading must clear on the failure path")
	}
	if s.LastError() == "" {
		t.Fatalf("failure must set the error flag")
	}

	if _, err := s.UpdateExpense(context.Background(), "e1", core.ExpenseInput{
		Name:          "Cena",
		Amount:        50000,
		PaymentMethod: core.PaymentCash,
		ExpenseDate:   core.NewDate(2025, 3, 9),
	}); err == nil {
		t.Fatalf("expected update failure")
	}
	if s.Loading() {
		t.Fatalf("loading must clear after a failed update")
	}
}

func TestDeleteExpenseSplices(t *testing.T) {
	data := newFakeData()
	data.expenses = []core.Expense{{ID: "e1"}, {ID: "e2"}}
	s := newStore(data, false)
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if err := s.DeleteExpense(context.Background(), "e1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	expenses := s.Expenses()
	if len(expenses) != 1 || expenses[0].ID != "e2" {
		t.Fatalf("expected e2 only, got %+v", expenses)
	}

	// Deleting again is a no-op, not an error.
	if err := s.DeleteExpense(context.Background(), "e1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if len(s.Expenses()) != 1 {
		t.Fatalf("second delete must not change state")
	}
}

func TestAddContributionCompletesGoal(t *testing.T) {
	data := newFakeData()
	data.goals["goal-1"] = core.Goal{
		ID: "goal-1", Name: "Emergency Fund",
		TargetAmount: 15000000, CurrentAmount: 14800000,
	}
	s := newStore(data, false)

	goal, err := s.AddContribution(context.Background(), core.ContributionInput{
		GoalID: "goal-1",
		Amount: 500000,
	})
	if err != nil {
		t.Fatalf("add contribution: %v", err)
	}
	if !goal.IsCompleted {
		t.Fatalf("goal reaching target must be completed")
	}
	if goal.CompletedAt == nil {
		t.Fatalf("completed goal must carry a completion time")
	}
	if goal.CurrentAmount != 15300000 {
		t.Fatalf("current amount = %v", goal.CurrentAmount)
	}

	stored := data.goals["goal-1"]
	if !stored.IsCompleted {
		t.Fatalf("completion must be written back")
	}
}

func TestAddContributionBelowTarget(t *testing.T) {
	data := newFakeData()
	data.goals["goal-1"] = core.Goal{ID: "goal-1", TargetAmount: 15000000, CurrentAmount: 1000000}
	s := newStore(data, false)

	goal, err := s.AddContribution(context.Background(), core.ContributionInput{
		GoalID: "goal-1",
		Amount: 500000,
	})
	if err != nil {
		t.Fatalf("add contribution: %v", err)
	}
	if goal.IsCompleted {
		t.Fatalf("goal below target must stay open")
	}
}

func TestFilteredExpenses(t *testing.T) {
	data := newFakeData()
	data.expenses = []core.Expense{
		{ID: "e1", Name: "Mercado", PaymentMethod: core.PaymentCash},
		{ID: "e2", Name: "Gasolina", PaymentMethod: core.PaymentCard},
	}
	s := newStore(data, false)
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	s.SetFilter(metrics.ExpenseFilter{PaymentMethod: core.PaymentCard})
	got := s.FilteredExpenses()
	if len(got) != 1 || got[0].ID != "e2" {
		t.Fatalf("filter wrong: %+v", got)
	}

	s.ClearFilter()
	if len(s.FilteredExpenses()) != 2 {
		t.Fatalf("cleared filter must pass everything")
	}
}
