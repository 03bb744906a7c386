// Package data is the typed façade over the transport. It stamps the
// owning user on writes, applies the per-table ordering and embed
// projections, and self-heals an empty category list by seeding the
// defaults once.
package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/transport"
)

// Projections pulling joined rows along with the parent.
const (
	expenseSelect = "*, category:categories(*), credit_card:credit_cards(*)"
	budgetSelect  = "*, category:categories(*)"
)

// Facade exposes typed CRUD for every collection.
type Facade struct {
	transport  transport.Transport
	userID     func() string
	logger     *log.Logger
	structured *log.StructuredLogger

	mu     sync.Mutex
	seeded bool
}

// New builds a façade. userID resolves the session owner for write
// stamping; it returns "" when nobody is signed in.
func New(t transport.Transport, userID func() string, logger *log.Logger) *Facade {
	scoped := logger.WithComponent(log.ComponentData)
	return &Facade{
		transport:  t,
		userID:     userID,
		logger:     scoped,
		structured: log.NewStructuredLogger(scoped),
	}
}

func (f *Facade) list(ctx context.Context, table, sel, order string) ([]byte, error) {
	data, err := f.transport.List(ctx, table, sel, order)
	f.structured.LogDataOp(ctx, log.OpList, table, err)
	return data, err
}

func (f *Facade) get(ctx context.Context, table, sel, id string) ([]byte, error) {
	data, err := f.transport.GetByID(ctx, table, sel, id)
	if errors.Is(err, core.ErrNotFound) {
		return nil, err
	}
	f.structured.LogDataOp(ctx, log.OpGet, table, err)
	return data, err
}

func (f *Facade) upsert(ctx context.Context, table string, item any, sel string) ([]byte, error) {
	data, err := f.transport.Upsert(ctx, table, item, sel)
	f.structured.LogDataOp(ctx, log.OpUpsert, table, err)
	return data, err
}

func (f *Facade) remove(ctx context.Context, table, id string) error {
	err := f.transport.Remove(ctx, table, id)
	f.structured.LogDataOp(ctx, log.OpDelete, table, err)
	return err
}

func decodeList[T any](data []byte) ([]T, error) {
	if len(data) == 0 {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func decodeFirst[T any](data []byte) (T, error) {
	var zero T
	rows, err := decodeList[T](data)
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, core.ErrNotFound
	}
	return rows[0], nil
}

func (f *Facade) owner() (string, error) {
	uid := f.userID()
	if uid == "" {
		return "", core.ErrUnauthorized
	}
	return uid, nil
}

// ListExpenses returns the user's expenses newest first, categories and
// cards joined in.
func (f *Facade) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	data, err := f.list(ctx, core.TableExpenses, expenseSelect, "expense_date.desc")
	if err != nil {
		return nil, err
	}
	return decodeList[core.Expense](data)
}

// AddExpense validates, stamps and stores an expense, returning the stored
// row with joins populated.
func (f *Facade) AddExpense(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	if err := in.Validate(); err != nil {
		return core.Expense{}, err
	}
	uid, err := f.owner()
	if err != nil {
		return core.Expense{}, err
	}
	data, err := f.upsert(ctx, core.TableExpenses, in.Record(uid), expenseSelect)
	if err != nil {
		return core.Expense{}, err
	}
	return decodeFirst[core.Expense](data)
}

// UpdateExpense replaces an existing expense in place, keeping its id. The
// input passes the same validation and stamping as a fresh write.
func (f *Facade) UpdateExpense(ctx context.Context, id string, in core.ExpenseInput) (core.Expense, error) {
	if err := in.Validate(); err != nil {
		return core.Expense{}, err
	}
	uid, err := f.owner()
	if err != nil {
		return core.Expense{}, err
	}
	record := in.Record(uid)
	record.ID = id
	data, err := f.upsert(ctx, core.TableExpenses, record, expenseSelect)
	if err != nil {
		return core.Expense{}, err
	}
	return decodeFirst[core.Expense](data)
}

// DeleteExpense removes an expense. Removing an id that is already gone
// succeeds.
func (f *Facade) DeleteExpense(ctx context.Context, id string) error {
	return f.remove(ctx, core.TableExpenses, id)
}

func (f *Facade) ListIncome(ctx context.Context) ([]core.Income, error) {
	data, err := f.list(ctx, core.TableIncome, "*", "income_date.desc")
	if err != nil {
		return nil, err
	}
	return decodeList[core.Income](data)
}

func (f *Facade) AddIncome(ctx context.Context, in core.IncomeInput) (core.Income, error) {
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}
	uid, err := f.owner()
	if err != nil {
		return core.Income{}, err
	}
	data, err := f.upsert(ctx, core.TableIncome, in.Record(uid), "")
	if err != nil {
		return core.Income{}, err
	}
	return decodeFirst[core.Income](data)
}

func (f *Facade) UpdateIncome(ctx context.Context, id string, in core.IncomeInput) (core.Income, error) {
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}
	uid, err := f.owner()
	if err != nil {
		return core.Income{}, err
	}
	record := in.Record(uid)
	record.ID = id
	data, err := f.upsert(ctx, core.TableIncome, record, "")
	if err != nil {
		return core.Income{}, err
	}
	return decodeFirst[core.Income](data)
}

func (f *Facade) DeleteIncome(ctx context.Context, id string) error {
	return f.remove(ctx, core.TableIncome, id)
}

func (f *Facade) ListCreditCards(ctx context.Context) ([]core.CreditCard, error) {
	data, err := f.list(ctx, core.TableCreditCards, "*", "created_at.asc")
	if err != nil {
		return nil, err
	}
	return decodeList[core.CreditCard](data)
}

func (f *Facade) AddCreditCard(ctx context.Context, in core.CardInput) (core.CreditCard, error) {
	if err := in.Validate(); err != nil {
		return core.CreditCard{}, err
	}
	uid, err := f.owner()
	if err != nil {
		return core.CreditCard{}, err
	}
	data, err := f.upsert(ctx, core.TableCreditCards, in.Record(uid), "")
	if err != nil {
		return core.CreditCard{}, err
	}
	return decodeFirst[core.CreditCard](data)
}

func (f *Facade) UpdateCreditCard(ctx context.Context, id string, in core.CardInput) (core.CreditCard, error) {
	if err := in.Validate(); err != nil {
		return core.CreditCard{}, err
	}
	uid, err := f.owner()
	if err != nil {
		return core.CreditCard{}, err
	}
	record := in.Record(uid)
	record.ID = id
	data, err := f.upsert(ctx, core.TableCreditCards, record, "")
	if err != nil {
		return core.CreditCard{}, err
	}
	return decodeFirst[core.CreditCard](data)
}

func (f *Facade) DeleteCreditCard(ctx context.Context, id string) error {
	return f.remove(ctx, core.TableCreditCards, id)
}

// ListCategories returns the user's categories by sort order. An empty or
// failed read triggers one seeding of the default set for the process
// lifetime, then a single re-read; seeding never recurses.
func (f *Facade) ListCategories(ctx context.Context) ([]core.Category, error) {
	categories, err := f.listCategories(ctx)
	if err == nil && len(categories) > 0 {
		return categories, nil
	}
	if !f.trySeed() {
		return categories, err
	}
	if seedErr := f.seedDefaultCategories(ctx); seedErr != nil {
		f.logger.WarnContext(ctx, "category seeding failed", log.FieldError, seedErr.Error())
		return categories, err
	}
	return f.listCategories(ctx)
}

func (f *Facade) listCategories(ctx context.Context) ([]core.Category, error) {
	data, err := f.list(ctx, core.TableCategories, "*", "sort_order.asc")
	if err != nil {
		return nil, err
	}
	return decodeList[core.Category](data)
}

func (f *Facade) trySeed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seeded {
		return false
	}
	f.seeded = true
	return true
}

func (f *Facade) seedDefaultCategories(ctx context.Context) error {
	uid, err := f.owner()
	if err != nil {
		return err
	}
	defaults := DefaultCategories(uid)
	if _, err := f.upsert(ctx, core.TableCategories, defaults, ""); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	f.logger.InfoContext(ctx, "seeded default categories", "count", len(defaults))
	return nil
}

func (f *Facade) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	data, err := f.list(ctx, core.TableBudgets, budgetSelect, "created_at.desc")
	if err != nil {
		return nil, err
	}
	return decodeList[core.Budget](data)
}

func (f *Facade) AddBudget(ctx context.Context, in core.BudgetInput) (core.Budget, error) {
	if err := in.Validate(); err != nil {
		return core.Budget{}, err
	}
	uid, err := f.owner()
	if err != nil {
		return core.Budget{}, err
	}
	data, err := f.upsert(ctx, core.TableBudgets, in.Record(uid), budgetSelect)
	if err != nil {
		return core.Budget{}, err
	}
	return decodeFirst[core.Budget](data)
}

func (f *Facade) UpdateBudget(ctx context.Context, id string, in core.BudgetInput) (core.Budget, error) {
	if err := in.Validate(); err != nil {
		return core.Budget{}, err
	}
	uid, err := f.owner()
	if err != nil {
		return core.Budget{}, err
	}
	record := in.Record(uid)
	record.ID = id
	data, err := f.upsert(ctx, core.TableBudgets, record, budgetSelect)
	if err != nil {
		return core.Budget{}, err
	}
	return decodeFirst[core.Budget](data)
}

func (f *Facade) DeleteBudget(ctx context.Context, id string) error {
	return f.remove(ctx, core.TableBudgets, id)
}

func (f *Facade) ListGoals(ctx context.Context) ([]core.Goal, error) {
	data, err := f.list(ctx, core.TableGoals, "*", "created_at.asc")
	if err != nil {
		return nil, err
	}
	return decodeList[core.Goal](data)
}

func (f *Facade) AddGoal(ctx context.Context, in core.GoalInput) (core.Goal, error) {
	if err := in.Validate(); err != nil {
		return core.Goal{}, err
	}
	uid, err := f.owner()
	if err != nil {
		return core.Goal{}, err
	}
	data, err := f.upsert(ctx, core.TableGoals, in.Record(uid), "")
	if err != nil {
		return core.Goal{}, err
	}
	return decodeFirst[core.Goal](data)
}

// UpdateGoal replaces the editable goal fields in place. Accumulated
// progress and the completion state survive the rewrite.
func (f *Facade) UpdateGoal(ctx context.Context, id string, in core.GoalInput) (core.Goal, error) {
	if err := in.Validate(); err != nil {
		return core.Goal{}, err
	}
	uid, err := f.owner()
	if err != nil {
		return core.Goal{}, err
	}
	existing, err := f.FetchGoal(ctx, id)
	if err != nil {
		return core.Goal{}, err
	}
	record := in.Record(uid)
	record.ID = id
	record.CurrentAmount = existing.CurrentAmount
	record.IsCompleted = existing.IsCompleted
	record.CompletedAt = existing.CompletedAt
	record.CreatedAt = existing.CreatedAt
	data, err := f.upsert(ctx, core.TableGoals, record, "")
	if err != nil {
		return core.Goal{}, err
	}
	return decodeFirst[core.Goal](data)
}

// UpsertGoal writes back a full goal row, used for the completion
// transition after a contribution.
func (f *Facade) UpsertGoal(ctx context.Context, goal core.Goal) (core.Goal, error) {
	data, err := f.upsert(ctx, core.TableGoals, goal, "")
	if err != nil {
		return core.Goal{}, err
	}
	return decodeFirst[core.Goal](data)
}

func (f *Facade) DeleteGoal(ctx context.Context, id string) error {
	return f.remove(ctx, core.TableGoals, id)
}

// FetchGoal re-reads a single goal, for the post-contribution refresh.
func (f *Facade) FetchGoal(ctx context.Context, id string) (core.Goal, error) {
	data, err := f.get(ctx, core.TableGoals, "*", id)
	if err != nil {
		return core.Goal{}, err
	}
	var goal core.Goal
	if err := json.Unmarshal(data, &goal); err != nil {
		return core.Goal{}, fmt.Errorf("decode goal: %w", err)
	}
	return goal, nil
}

// AddContribution stores a contribution. The caller re-reads the goal to
// pick up the database-side current_amount update.
func (f *Facade) AddContribution(ctx context.Context, in core.ContributionInput) (core.GoalContribution, error) {
	if err := in.Validate(); err != nil {
		return core.GoalContribution{}, err
	}
	uid, err := f.owner()
	if err != nil {
		return core.GoalContribution{}, err
	}
	data, err := f.upsert(ctx, core.TableContributions, in.Record(uid), "")
	if err != nil {
		return core.GoalContribution{}, err
	}
	return decodeFirst[core.GoalContribution](data)
}

// GetProfile reads the profile row of the signed-in user.
func (f *Facade) GetProfile(ctx context.Context) (core.Profile, error) {
	uid, err := f.owner()
	if err != nil {
		return core.Profile{}, err
	}
	data, err := f.get(ctx, core.TableProfiles, "*", uid)
	if err != nil {
		return core.Profile{}, err
	}
	var p core.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return core.Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return p, nil
}

// UpsertProfile writes the profile row, used by the missing-profile repair.
func (f *Facade) UpsertProfile(ctx context.Context, p core.Profile) (core.Profile, error) {
	data, err := f.upsert(ctx, core.TableProfiles, p, "")
	if err != nil {
		return core.Profile{}, err
	}
	return decodeFirst[core.Profile](data)
}
