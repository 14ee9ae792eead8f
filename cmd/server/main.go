package main

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"net/mail"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	emailPkg "clansite/internal/adapters/email"
	"clansite/internal/adapters/files"
	web "clansite/internal/adapters/http"
	"clansite/internal/adapters/http/middleware"
	"clansite/internal/adapters/http/perf"
	"clansite/internal/adapters/storage"
	accountStore "clansite/internal/adapters/storage/account"
	bookingStore "clansite/internal/adapters/storage/booking"
	inquiryStore "clansite/internal/adapters/storage/inquiry"
	quizStore "clansite/internal/adapters/storage/quiz"
	resultStore "clansite/internal/adapters/storage/result"
	settingStore "clansite/internal/adapters/storage/setting"
	"clansite/internal/application/orchestrators"
	"clansite/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// shutdownTimeout bounds how long in-flight requests may run after a signal.
const shutdownTimeout = 20 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	setupLogging(cfg)

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := storage.MigrateDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQuery)

	stores := web.Stores{
		BookingStore: bookingStore.NewSQLiteStore(timedDB),
		InquiryStore: inquiryStore.NewSQLiteStore(timedDB),
		QuizStore:    quizStore.NewSQLiteStore(timedDB),
		ResultStore:  resultStore.NewSQLiteStore(timedDB),
		AdminStore:   accountStore.NewSQLiteStore(timedDB),
		SettingStore: settingStore.NewSQLiteStore(timedDB),
	}

	ctx := context.Background()
	if _, err := orchestrators.ExecuteSeedAdmin(ctx, orchestrators.SeedAdminInput{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
	}, orchestrators.SeedAdminDeps{AdminStore: stores.AdminStore}); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	fileStore, err := files.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to prepare upload dir: %v", err)
	}

	sender, fromAddress := configureEmail(cfg)

	sessions, closeSessions := configureSessions(ctx, cfg)
	defer closeSessions()

	csrfKey := cfg.CSRFKey
	if csrfKey == nil {
		if cfg.IsProduction() {
			log.Fatalf("CSRF_KEY is required in production")
		}
		csrfKey = make([]byte, 32)
		if _, err := rand.Read(csrfKey); err != nil {
			log.Fatalf("failed to generate CSRF key: %v", err)
		}
		slog.Warn("csrf_key_generated", "note", "tokens are invalidated on restart; set CSRF_KEY to keep them")
	}

	srv := web.NewServer(web.Config{
		StaticDir:          cfg.StaticDir,
		Secure:             cfg.IsProduction(),
		CSRFKey:            csrfKey,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		QuizFlagScope:      cfg.QuizFlagScope,
		EmailAddress:       fromAddress,
		SlowRequest:        cfg.SlowRequest,
	}, web.Deps{
		Stores:    stores,
		Files:     fileStore,
		Sender:    sender,
		Sessions:  sessions,
		Collector: collector,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("server_starting",
			"version", version,
			"addr", cfg.Addr,
			"env", cfg.Env,
			"schema", storage.LatestSchemaVersion(),
			"sessions", cfg.SessionBackend,
			"quiz_scope", cfg.QuizFlagScope,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-stop
	slog.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("server_shutdown_failed", "error", err)
	}
	srv.Close()
}

// setupLogging installs the default slog handler.
func setupLogging(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// configureEmail picks Resend when a key is set and returns the bare From
// mailbox used for admin notices.
func configureEmail(cfg config.Config) (emailPkg.Sender, string) {
	var address string
	if cfg.EmailFrom != "" {
		parsed, err := mail.ParseAddress(cfg.EmailFrom)
		if err != nil {
			log.Fatalf("EMAIL_FROM is not a valid address: %v", err)
		}
		address = parsed.Address
	}

	if cfg.ResendAPIKey == "" {
		if cfg.IsProduction() {
			slog.Warn("email_disabled", "reason", "RESEND_API_KEY is not set")
		} else {
			slog.Info("email_sender_configured", "provider", "noop")
		}
		return emailPkg.NewNoopSender(), address
	}
	if address == "" {
		log.Fatalf("EMAIL_FROM is required when RESEND_API_KEY is set")
	}
	slog.Info("email_sender_configured", "provider", "resend", "from", address)
	return emailPkg.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom, cfg.EmailReplyTo), address
}

// configureSessions builds the session store and returns its cleanup.
func configureSessions(ctx context.Context, cfg config.Config) (middleware.SessionStore, func()) {
	if cfg.SessionBackend != config.SessionBackendRedis {
		return middleware.NewMemorySessionStore(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("redis unreachable at %s: %v", cfg.RedisAddr, err)
	}
	return middleware.NewRedisSessionStore(client), func() { client.Close() }
}
