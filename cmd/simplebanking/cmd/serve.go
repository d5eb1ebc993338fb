package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	grpcadapter "github.com/simaogato/simplebanking-backend/internal/adapter/grpc"
	"github.com/simaogato/simplebanking-backend/internal/adapter/rest"
	"github.com/simaogato/simplebanking-backend/internal/usecase/seeder"
)

const shutdownTimeout = 10 * time.Second

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and gRPC servers",
	Long: `Run the HTTP API on HTTP_ADDR and the gRPC API on GRPC_ADDR.
An empty address disables that listener. When SEED_FILE is set the
fixture accounts are created before the servers start.

Both servers stop gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.StoreDriver, err)
	}
	defer st.close()

	svc := st.bankingService()

	if cfg.SeedFile != "" {
		fixture, err := seeder.LoadFixture(cfg.SeedFile)
		if err != nil {
			return err
		}
		created, err := seeder.NewAccountSeeder(svc, fixture, logger).Seed(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed accounts: %w", err)
		}
		logger.WithField("created", created).Info("accounts seeded")
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.HTTPAddr != "" {
		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           rest.NewRouter(rest.NewHandler(svc, logger), logger),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			logger.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		})
	}

	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.GRPCAddr, err)
		}
		grpcServer := grpcadapter.NewGRPCServer(grpcadapter.NewServer(svc, logger), logger)

		g.Go(func() error {
			logger.WithField("addr", cfg.GRPCAddr).Info("gRPC server listening")
			if err := grpcServer.Serve(lis); err != nil {
				return fmt.Errorf("gRPC server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			grpcServer.GracefulStop()
			return nil
		})
	}

	err = g.Wait()
	logger.Info("servers stopped")
	return err
}
