package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/geoadvisor/backend/internal/config"
	"github.com/geoadvisor/backend/internal/handler"
	advisormodel "github.com/geoadvisor/backend/internal/model/advisor"
	accountservice "github.com/geoadvisor/backend/internal/service/account"
	"github.com/geoadvisor/backend/internal/service/ai"
	chatservice "github.com/geoadvisor/backend/internal/service/chat"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	accounts, err := newAccountStore(cfg.Store)
	if err != nil {
		log.Fatalf("failed to open account store: %v", err)
	}

	// Initialize the completion client. A missing credential disables chat
	// but the server still starts.
	var aiSvc *ai.Service
	if cfg.AI.Enabled() {
		aiSvc, err = ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize completion client: %v", err)
			log.Println("continuing without chat functionality - check the GROQ_* environment variables")
		} else {
			log.Println("completion client initialized successfully")
		}
	} else {
		log.Println("GROQ_API_KEY not configured, chat submissions will be rejected")
	}

	var completer chatservice.Completer
	if aiSvc != nil {
		completer = aiSvc
	}
	chatSvc := chatservice.NewService(accounts, completer)

	examples := advisormodel.NewMemoryStore(advisormodel.Seed())

	router := handler.NewRouter(accounts, chatSvc, aiSvc, examples)

	startServer(ctx, cfg.Server, router)
}

func newAccountStore(cfg config.StoreConfig) (accountservice.Store, error) {
	if cfg.Path == "" {
		log.Println("ACCOUNTS_FILE not set, accounts are kept in memory only")
		return accountservice.NewMemoryStore(), nil
	}

	store, err := accountservice.NewFileStore(cfg.Path)
	if err != nil {
		return nil, err
	}
	log.Printf("account store backed by %s", cfg.Path)
	return store, nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("GeoAdvisor backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
