package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yukikurage/projectflow-api/internal/server"
	"github.com/yukikurage/projectflow-api/internal/services"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	a, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer a.close()

	gin.SetMode(a.cfg.GinMode)

	store, err := server.NewSessionStore(a.cfg)
	if err != nil {
		return err
	}

	// A nil *AIService must not reach the interface, or the 503 check never fires.
	var suggester services.TaskSuggester
	if a.cfg.OpenAIAPIKey != "" {
		suggester = services.NewAIService(a.cfg.OpenAIAPIKey)
	} else {
		a.log.Warn("OPENAI_API_KEY is not set; task generation is disabled")
	}

	svc := server.NewServices(a.db, a.cfg.SessionTTL, suggester)
	router := server.NewRouter(a.db, svc, store, a.log)

	go server.RunSessionJanitor(ctx, svc.Auth, a.cfg.SessionCleanupInterval, a.log)

	srv := &http.Server{
		Addr:    a.cfg.ServerAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Infow("server starting", "addr", a.cfg.ServerAddr, "db_driver", a.cfg.DBDriver, "session_store", a.cfg.SessionStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
