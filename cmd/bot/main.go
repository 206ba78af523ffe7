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

	"github.com/okatkov/tgsage/internal/config"
	"github.com/okatkov/tgsage/internal/handler"
	"github.com/okatkov/tgsage/internal/handler/webhook"
	"github.com/okatkov/tgsage/internal/i18n"
	"github.com/okatkov/tgsage/internal/model/persona"
	model "github.com/okatkov/tgsage/internal/model/session"
	"github.com/okatkov/tgsage/internal/service/ai"
	"github.com/okatkov/tgsage/internal/service/dispatch"
	"github.com/okatkov/tgsage/internal/service/search"
	sessionsvc "github.com/okatkov/tgsage/internal/service/session"
	"github.com/okatkov/tgsage/internal/service/stream"
	"github.com/okatkov/tgsage/internal/store"
	"github.com/okatkov/tgsage/internal/telegram"
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

	kv, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		log.Fatalf("failed to open store at %s: %v", cfg.Store.Path, err)
	}
	defer kv.Close()

	defaults := model.Defaults{
		Model:        cfg.AI.DefaultModel,
		SystemPrompt: cfg.AI.DefaultSystemPrompt,
		Language:     cfg.AI.DefaultLanguage,
	}
	sessions := sessionsvc.NewService(kv, defaults, cfg.AI.MaxHistory)
	personaStore := persona.NewMemoryStore(persona.Seed())
	loc := i18n.New(cfg.AI.DefaultLanguage)

	tg := telegram.NewClient(cfg.Bot.Token)
	aiClient := ai.NewClient(cfg.AI.BaseURL)
	primary, fallback := searchProviders(cfg.Search)
	aggregator := search.NewAggregator(kv, primary, fallback, cfg.Search.CacheTTL)

	engine := stream.NewEngine(aiClient, tg, sessions, kv, loc, cfg.AI.EditInterval)
	dispatcher := dispatch.New(tg, sessions, personaStore, aggregator, engine, aiClient, loc, cfg.Bot.AllowedUserIDs)

	webhookHandler := webhook.New(dispatcher, cfg.Bot.WebhookSecret)
	router := handler.NewRouter(webhookHandler)

	startServer(ctx, cfg.Server, router)

	// Let detached updates and in-flight completions finish their
	// final edits before the process exits.
	webhookHandler.Wait()
	dispatcher.Wait()
}

// searchProviders picks the primary and fallback backends from the
// configured credentials.
func searchProviders(cfg config.SearchConfig) (primary, fallback search.Provider) {
	switch {
	case cfg.SerperKey != "" && cfg.BraveKey != "":
		return search.NewSerper(cfg.SerperKey), search.NewBrave(cfg.BraveKey)
	case cfg.SerperKey != "":
		return search.NewSerper(cfg.SerperKey), nil
	case cfg.BraveKey != "":
		return search.NewBrave(cfg.BraveKey), nil
	default:
		log.Println("no search provider credentials configured, /search will be unavailable")
		return search.NewSerper(""), nil
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("tgsage listening on %s", serverCfg.Addr)
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
