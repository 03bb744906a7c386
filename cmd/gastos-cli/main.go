// Command gastos-cli signs in, loads every collection through the
// configured transport and prints the monthly report to the terminal. The
// demo account works against the fixtures without any network access.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"gastos/internal/config"
	"gastos/internal/data"
	"gastos/internal/fixtures"
	"gastos/internal/format"
	"gastos/internal/log"
	"gastos/internal/metrics"
	"gastos/internal/repository"
	"gastos/internal/session"
	"gastos/internal/store"
	"gastos/internal/transport"
)

func main() {
	_ = godotenv.Load()

	now := time.Now()
	email := flag.String("email", fixtures.DemoEmail, "account email")
	password := flag.String("password", "demo", "account password")
	month := flag.Int("month", int(now.Month()), "report month (1-12)")
	year := flag.Int("year", now.Year(), "report year")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := log.New(log.Config{
		Level:     slog.LevelWarn,
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)

	if err := run(context.Background(), cfg, logger, *email, *password, *month, *year); err != nil {
		logger.Error("Command failed", log.FieldError, err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger, email, password string, month, year int) error {
	mode := transport.Mode(cfg.TransportMode)

	tcfg := transport.Config{
		Mode:    mode,
		BaseURL: cfg.BaseURL,
	}
	var auth session.Authenticator
	if mode == transport.ModeDirect {
		repo, err := repository.New(cfg.SupabaseURL, cfg.SupabaseAnonKey, false, logger)
		if err != nil {
			return fmt.Errorf("supabase: %w", err)
		}
		tcfg.Repo = repo
		auth = session.NewDirectAuth(repo)
	} else {
		auth = session.NewRemoteAuth(cfg.BaseURL)
	}

	manager := session.NewManager(auth, logger)
	tcfg.UserID = manager.UserID
	tcfg.Token = manager.Token

	tr, err := transport.NewFactory(logger).Create(tcfg)
	if err != nil {
		return err
	}
	facade := data.New(tr, manager.UserID, logger)
	manager.BindProfiles(facade)
	st := store.New(facade, manager.IsDemo, logger)

	sess, err := manager.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := st.FetchAll(ctx); err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	if msg := st.LastError(); msg != "" {
		logger.Warn("some collections did not load", log.FieldError, msg)
	}

	printReport(os.Stdout, sess, st, month, year)
	return nil
}

func printReport(w io.Writer, sess *session.Session, st *store.Store, month, year int) {
	name := sess.Profile.Email
	if sess.Profile.FullName != nil {
		name = *sess.Profile.FullName
	}
	fmt.Fprintf(w, "%s - %s %d\n\n", name, format.Month(month), year)

	summary := metrics.Summarize(month, year, st.Expenses(), st.Income(), st.Budgets())
	fmt.Fprintf(w, "Ingresos   %s (%s)\n",
		format.Currency(summary.TotalIncome), format.Percentage(float64(summary.IncomeChange), true))
	fmt.Fprintf(w, "Gastos     %s (%s)\n",
		format.Currency(summary.TotalExpenses), format.Percentage(float64(summary.ExpenseChange), true))
	fmt.Fprintf(w, "Balance    %s\n", format.Currency(summary.Balance))
	fmt.Fprintf(w, "Ahorro     %s\n", format.Percentage(float64(summary.SavingsRate), false))

	if budgets := st.Budgets(); len(budgets) > 0 {
		fmt.Fprintf(w, "\nPresupuestos\n")
		expenses := st.Expenses()
		for _, b := range budgets {
			u := metrics.Usage(b, expenses)
			label := b.CategoryID
			if b.Category != nil {
				label = b.Category.Name
			}
			fmt.Fprintf(w, "  %-14s %s de %s (%d%%, %s)\n",
				label, format.Currency(u.Spent), format.Currency(b.Amount), u.Percentage, u.Status)
		}
	}

	if goals := st.Goals(); len(goals) > 0 {
		fmt.Fprintf(w, "\nMetas\n")
		for _, g := range goals {
			p := metrics.Progress(g)
			fmt.Fprintf(w, "  %-20s %s de %s (%d%%)\n",
				g.Name, format.Currency(g.CurrentAmount), format.Currency(g.TargetAmount), p.Display)
		}
	}

	if cards := st.CreditCards(); len(cards) > 0 {
		fmt.Fprintf(w, "\nTarjetas\n")
		for _, c := range cards {
			masked := ""
			if c.LastFourDigits != nil {
				masked = format.CardNumber(*c.LastFourDigits)
			}
			fmt.Fprintf(w, "  %-14s %s\n", c.Name, masked)
		}
	}

	expenses := st.FilteredExpenses()
	if len(expenses) > 0 {
		fmt.Fprintf(w, "\nMovimientos recientes\n")
		for i, e := range expenses {
			if i == 5 {
				break
			}
			fmt.Fprintf(w, "  %s  %-20s %s\n",
				format.Date(e.ExpenseDate.Time), e.Name, format.Currency(e.Amount))
		}
	}
}
