package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/superlists/internal/auth"
	"github.com/mmynk/superlists/internal/lists"
	"github.com/mmynk/superlists/internal/metrics"
	"github.com/mmynk/superlists/internal/middleware"
	"github.com/mmynk/superlists/internal/service"
	"github.com/mmynk/superlists/internal/web"
	"github.com/mmynk/superlists/pkg/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.Storage.Driver)

	m := metrics.New()
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	authenticator := auth.NewMagicLinkAuthenticator(store, newMailer(cfg), cfg.Auth.TokenTTL)
	listsSvc := lists.NewService(store)

	router := mux.NewRouter()
	middleware.InstrumentRouter(router, m)

	// Connect services
	listPath, listHandler := api.NewListServiceHandler(
		service.NewListService(listsSvc, m),
		middleware.PublicRPC(jwtManager),
	)
	router.PathPrefix(listPath).Handler(listHandler)

	authPath, authHandler := api.NewAuthServiceHandler(
		service.NewAuthService(authenticator, jwtManager, store, cfg.Server.BaseURL, m, slog.Default()),
		[]connect.HandlerOption{middleware.PublicRPC(jwtManager)},
		[]connect.HandlerOption{middleware.PrivateRPC(jwtManager)},
	)
	router.PathPrefix(authPath).Handler(authHandler)

	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	pages, err := web.New(web.Config{
		Lists:         listsSvc,
		Users:         store,
		Authenticator: authenticator,
		JWT:           jwtManager,
		Metrics:       m,
		BaseURL:       cfg.Server.BaseURL,
		SecureCookie:  cfg.SecureCookies(),
	})
	if err != nil {
		return err
	}
	pages.Register(router)

	// Session is outermost so the request log sees the user.
	handler := middleware.Session(jwtManager)(middleware.Logging(router))

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		// h2c serves HTTP/2 without TLS, which Connect clients may use.
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", cfg.Server.Addr, "url", cfg.Server.BaseURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
