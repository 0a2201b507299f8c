package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"profithopper/internal/bootstrap"
	recommenddto "profithopper/internal/modules/recommend/dto"
	"profithopper/internal/platform/config"
	"profithopper/internal/platform/money"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	catalog    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "profithopper",
		Short:         "Casino trip bankroll tracker and game planner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&flags.catalog, "catalog", "", "game list CSV (URL or path)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug|info|warn|error")

	root.AddCommand(newTUICmd(&flags))
	root.AddCommand(newServeCmd(&flags))
	root.AddCommand(newGamesCmd(&flags))
	root.AddCommand(newBudgetCmd(&flags))
	root.AddCommand(newCatalogCmd(&flags))
	return root
}

// loadApp applies flag overrides on top of the loaded config. Commands that
// print to the terminal default to warn so info logs do not interleave.
func loadApp(flags *globalFlags, defaultLevel string, logOut io.Writer) (*bootstrap.App, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.catalog != "" {
		cfg.CatalogSource = flags.catalog
	}
	switch {
	case flags.logLevel != "":
		cfg.LogLevel = flags.logLevel
	case defaultLevel != "":
		cfg.LogLevel = defaultLevel
	}
	return bootstrap.New(cfg, logOut)
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	var exportDir string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal dashboard",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(flags, "", io.Discard)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(app, recommenddto.DefaultCriteria(), exportDir)
		},
	}
	cmd.Flags().StringVar(&exportDir, "export-dir", ".", "directory for exported files")
	return cmd
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, "", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			if addr == "" {
				addr = app.Config.HTTPAddr
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return bootstrap.Serve(ctx, app, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func newGamesCmd(flags *globalFlags) *cobra.Command {
	criteria := recommenddto.DefaultCriteria()
	var maxMinBet, bankroll string
	var noCap bool
	var sessions int

	cmd := &cobra.Command{
		Use:   "games",
		Short: "Print the ranked game plan for the current trip",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, "warn", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			ctx := context.Background()

			if bankroll != "" || sessions > 0 {
				if err := applySettings(ctx, app, bankroll, sessions); err != nil {
					return err
				}
			}
			if maxMinBet != "" {
				v, err := decimal.NewFromString(maxMinBet)
				if err != nil {
					return fmt.Errorf("invalid --max-min-bet %q", maxMinBet)
				}
				criteria.MaxMinBet = decimal.NewNullDecimal(v)
			}
			criteria.CapToMaxBet = !noCap

			plan, err := app.RecommendCLI.Recommend(ctx, criteria)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !plan.CatalogAvailable {
				_, _ = fmt.Fprintln(out, plan.Message)
				return nil
			}
			_, _ = fmt.Fprintf(out, "session budget %s  max bet %s  %d of %d games match\n",
				money.Format(plan.SessionBudget), money.Format(plan.MaxBet), plan.Matches, plan.CatalogSize)
			if plan.Matches == 0 {
				_, _ = fmt.Fprintln(out, "no games match the current filters")
				return nil
			}

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"#", "Session", "Game", "Type", "RTP", "Min Bet", "Advantage", "Volatility", "Score"})
			table.SetAutoWrapText(false)
			table.SetBorder(false)
			rows := func(games []recommenddto.ScoredGameOutput, alt bool) {
				for _, g := range games {
					session := strconv.Itoa(g.Session)
					if alt {
						session = "alt"
					}
					table.Append([]string{
						strconv.Itoa(g.Rank),
						session,
						g.Name,
						g.Type,
						fmt.Sprintf("%.2f%%", g.RTP),
						money.Format(g.MinBet),
						g.AdvantageLabel,
						g.VolatilityLabel,
						fmt.Sprintf("%.2f", g.Score),
					})
				}
			}
			rows(plan.Primary, false)
			rows(plan.Overflow, true)
			table.Render()
			return nil
		},
	}
	cmd.Flags().Float64Var(&criteria.MinRTP, "min-rtp", criteria.MinRTP, "minimum RTP percent")
	cmd.Flags().StringVar(&maxMinBet, "max-min-bet", "", "hide games whose minimum bet exceeds this amount")
	cmd.Flags().BoolVar(&noCap, "no-cap", false, "allow minimum bets above the session max bet")
	cmd.Flags().StringVar(&criteria.GameType, "type", "", "game type")
	cmd.Flags().StringVar(&criteria.Advantage, "advantage", "", "advantage potential label")
	cmd.Flags().StringVar(&criteria.Volatility, "volatility", "", "volatility label")
	cmd.Flags().StringVar(&criteria.Search, "search", "", "game name substring")
	cmd.Flags().StringVar(&bankroll, "bankroll", "", "starting bankroll override")
	cmd.Flags().IntVar(&sessions, "sessions", 0, "planned sessions override")
	return cmd
}

func newBudgetCmd(flags *globalFlags) *cobra.Command {
	var bankroll string
	var sessions int

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Print the session budget, risk tier and bet limits",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, "warn", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			ctx := context.Background()

			if bankroll != "" || sessions > 0 {
				if err := applySettings(ctx, app, bankroll, sessions); err != nil {
					return err
				}
			}
			cur, err := app.LedgerCLI.Current(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "trip %d at %s\n", cur.TripID, cur.Casino)
			_, _ = fmt.Fprintf(out, "bankroll:       %s (%d of %d sessions left)\n", money.Format(cur.CurrentBankroll), cur.RemainingSessions, cur.PlannedSessions)
			_, _ = fmt.Fprintf(out, "session budget: %s\n", money.Format(cur.SessionBudget))
			_, _ = fmt.Fprintf(out, "risk tier:      %s\n", cur.RiskTier)
			_, _ = fmt.Fprintf(out, "max bet:        %s\n", money.Format(cur.MaxBet))
			_, _ = fmt.Fprintf(out, "stop loss:      %s\n", money.Format(cur.StopLoss))
			return nil
		},
	}
	cmd.Flags().StringVar(&bankroll, "bankroll", "", "starting bankroll override")
	cmd.Flags().IntVar(&sessions, "sessions", 0, "planned sessions override")
	return cmd
}

// applySettings overrides the local trip's bankroll and session count,
// keeping whichever one was not given.
func applySettings(ctx context.Context, app *bootstrap.App, bankrollRaw string, sessions int) error {
	cur, err := app.LedgerCLI.Current(ctx)
	if err != nil {
		return err
	}
	bankroll := cur.StartingBankroll
	if bankrollRaw != "" {
		bankroll, err = decimal.NewFromString(strings.TrimPrefix(bankrollRaw, "$"))
		if err != nil {
			return fmt.Errorf("invalid --bankroll %q", bankrollRaw)
		}
	}
	if sessions <= 0 {
		sessions = cur.PlannedSessions
	}
	_, err = app.LedgerCLI.UpdateSettings(ctx, bankroll, sessions)
	return err
}

func newCatalogCmd(flags *globalFlags) *cobra.Command {
	catalog := &cobra.Command{Use: "catalog", Short: "Inspect the game list"}
	catalog.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Fetch and validate the game list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, "warn", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.CatalogCLI.Check(context.Background())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "source:  %s\n", out.Source)
			if !out.Available {
				_, _ = fmt.Fprintf(w, "status:  unavailable (%s)\n", out.Message)
				return nil
			}
			_, _ = fmt.Fprintf(w, "games:   %d\n", len(out.Games))
			_, _ = fmt.Fprintf(w, "dropped: %d\n", out.Dropped)
			_, _ = fmt.Fprintf(w, "types:   %s\n", strings.Join(out.Types, ", "))
			return nil
		},
	})
	return catalog
}
