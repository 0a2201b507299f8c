package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	cataloginadapter "profithopper/internal/modules/catalog/adapter/in"
	catalogoutadapter "profithopper/internal/modules/catalog/adapter/out"
	catalogservice "profithopper/internal/modules/catalog/service"
	catalogusecase "profithopper/internal/modules/catalog/usecase"
	dashboardinadapter "profithopper/internal/modules/dashboard/adapter/in"
	dashboardusecase "profithopper/internal/modules/dashboard/usecase"
	ledgerinadapter "profithopper/internal/modules/ledger/adapter/in"
	ledgeroutadapter "profithopper/internal/modules/ledger/adapter/out"
	ledgerdomain "profithopper/internal/modules/ledger/domain"
	ledgerservice "profithopper/internal/modules/ledger/service"
	ledgerusecase "profithopper/internal/modules/ledger/usecase"
	recommendinadapter "profithopper/internal/modules/recommend/adapter/in"
	recommendoutadapter "profithopper/internal/modules/recommend/adapter/out"
	recommenddto "profithopper/internal/modules/recommend/dto"
	recommendservice "profithopper/internal/modules/recommend/service"
	recommendusecase "profithopper/internal/modules/recommend/usecase"
	"profithopper/internal/platform/clock"
	"profithopper/internal/platform/config"
	"profithopper/internal/platform/id"
	"profithopper/internal/platform/logging"
	uiapp "profithopper/internal/ui/app"
)

type App struct {
	Config       config.Config
	Log          *logrus.Logger
	LedgerCLI    ledgerinadapter.CLIHandler
	CatalogCLI   cataloginadapter.CLIHandler
	RecommendCLI recommendinadapter.CLIHandler
	DashboardTUI dashboardinadapter.TUIHandler
	HTTP         *dashboardinadapter.HTTPHandler

	closers []func() error
}

// New wires every module. Logs go to logOut.
func New(cfg config.Config, logOut io.Writer) (*App, error) {
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, logOut)
	if err != nil {
		return nil, err
	}
	clk := clock.SystemClock{}

	defaults := ledgerdomain.TripSettings{
		Casino:           cfg.Trip.Casino,
		StartingBankroll: cfg.Trip.StartingBankroll,
		PlannedSessions:  cfg.Trip.NumSessions,
	}
	projector, err := ledgeroutadapter.NewSQLiteTripProjector(cfg.ProjectionDSN)
	if err != nil {
		return nil, fmt.Errorf("new trip projector: %w", err)
	}
	store := ledgeroutadapter.NewMemoryLedgerStore(func() *ledgerdomain.Ledger {
		return ledgerdomain.NewLedger(defaults, cfg.Casinos, clk.Now())
	}, cfg.OwnerIdleTTL, ledgerinadapter.LocalOwner)
	ledgerLog := log.WithField("module", "ledger")
	store.OnRelease(func(owner string) {
		if err := projector.PurgeOwner(context.Background(), owner); err != nil {
			ledgerLog.WithError(err).WithField("owner", owner).Warn("purge released owner")
		}
	})
	policy := ledgerdomain.BudgetPolicy{
		CapEnabled:   cfg.Budget.Enabled,
		CapThreshold: cfg.Budget.Threshold,
		CapAmount:    cfg.Budget.Amount,
	}
	ledgerUC := ledgerusecase.NewInteractor(ledgerservice.NewLedgerService(
		clk,
		store,
		projector,
		ledgeroutadapter.NewCSVExporter(),
		ledgeroutadapter.NewMarkdownReportRenderer(),
		policy,
		ledgerLog,
	))

	catalogUC := catalogusecase.NewInteractor(catalogservice.NewCatalogService(
		clk,
		catalogoutadapter.NewSourceFetcher(&http.Client{Timeout: cfg.CatalogTimeout}),
		catalogoutadapter.NewCSVParser(),
		catalogoutadapter.NewMemoryCache(cfg.CatalogTTL),
		cfg.CatalogSource,
		cfg.CatalogTimeout,
		log.WithField("module", "catalog"),
	))

	recommendUC := recommendusecase.NewInteractor(recommendservice.NewRecommendService(
		recommendoutadapter.NewCatalogGameSource(catalogUC),
		recommendoutadapter.NewLedgerBudgetSource(ledgerUC),
		log.WithField("module", "recommend"),
	))

	dashboardUC := dashboardusecase.NewInteractor(clk, ledgerUC, recommendUC)

	return &App{
		Config:       cfg,
		Log:          log,
		LedgerCLI:    ledgerinadapter.NewCLIHandler(ledgerUC),
		CatalogCLI:   cataloginadapter.NewCLIHandler(catalogUC),
		RecommendCLI: recommendinadapter.NewCLIHandler(recommendUC, ledgerinadapter.LocalOwner),
		DashboardTUI: dashboardinadapter.NewTUIHandler(dashboardUC, ledgerinadapter.LocalOwner),
		HTTP:         dashboardinadapter.NewHTTPHandler(dashboardUC, ledgerUC, recommendUC, catalogUC, id.UUID{}, log.WithField("module", "http")),
		closers:      []func() error{projector.Close},
	}, nil
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// RunTUI blocks until the user quits. Exports land in exportDir.
func RunTUI(app *App, criteria recommenddto.CriteriaInput, exportDir string) error {
	model := uiapp.NewModel(app.DashboardTUI, app.LedgerCLI, app.CatalogCLI, criteria, exportDir)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// Serve runs the JSON API on addr until ctx is cancelled.
func Serve(ctx context.Context, app *App, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.HTTP.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		app.Log.WithField("addr", addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		app.Log.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
