package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"enabler-backend/controller"
	"enabler-backend/dao"
	"enabler-backend/db"
	"enabler-backend/pkg/idgen"
	"enabler-backend/pkg/negotiation"
	"enabler-backend/pkg/notify"
	"enabler-backend/usecase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the schema and serve the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. DB Connection
	conn, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := db.Migrate(ctx, conn, cfg.DB.Driver, logger); err != nil {
		return err
	}

	// 2. Dependency Injection
	unit, err := cfg.CurrencyUnit()
	if err != nil {
		return err
	}
	ids := idgen.New()
	frameworkRepo := dao.NewFrameworkRepository(conn)
	notificationRepo := dao.NewNotificationRepository(conn)
	dispatcher := notify.NewDispatcher(notificationRepo, ids, logger, cfg.NotifyBuffer)

	negotiationUsecase := usecase.NewNegotiationUsecase(
		frameworkRepo,
		dao.NewNegotiationRepository(conn),
		dao.NewBookingRepository(conn),
		negotiation.NewResolver(unit),
		dispatcher,
		ids,
		logger,
	)
	frameworkUsecase := usecase.NewFrameworkUsecase(frameworkRepo, logger)
	notificationUsecase := usecase.NewNotificationUsecase(notificationRepo)

	// 3. Routing
	mux := controller.Routes(
		controller.NewNegotiationController(negotiationUsecase, logger),
		controller.NewFrameworkController(frameworkUsecase, logger),
		controller.NewNotificationController(notificationUsecase, logger),
	)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           controller.Middleware(logger, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 4. Start Server
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("currency", unit.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		serr := srv.Shutdown(shutdownCtx)
		return errors.Join(serr, dispatcher.Close(shutdownCtx))
	})
	return g.Wait()
}
