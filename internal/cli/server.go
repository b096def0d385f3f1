package cli

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"community-hub/internal/app"
	"community-hub/internal/config"
	filestore "community-hub/internal/infra/file"
	"community-hub/internal/infra/memory"
	pgstore "community-hub/internal/infra/postgres"
	redisinfra "community-hub/internal/infra/redis"
	"community-hub/internal/mail"
	"community-hub/internal/profanity"
	"community-hub/internal/questions"
	"community-hub/internal/realtime"
	transport "community-hub/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the community server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "3000"
	}

	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	// Document store: postgres when configured, then redis, then the flat
	// file next to the binary.
	var store app.Store
	switch {
	case cfg.Postgres.URL != "":
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store = pgstore.NewDocumentStore(pool)
		log.Printf("using postgres document store")
	case redisClient != nil:
		store = redisinfra.NewDocumentStore(redisClient)
		log.Printf("using redis document store")
	default:
		store = filestore.NewStore(cfg.Storage.File)
		log.Printf("using file document store at %s", cfg.Storage.File)
	}

	docs := app.NewDocuments(store)
	if err := docs.SeedQuestions(ctx, questions.Pool()); err != nil {
		return err
	}

	var limiter transport.RateLimiter
	if redisClient != nil {
		limiter = redisinfra.NewLimiter(redisClient, cfg.RateLimit.PerMinute, time.Minute)
	} else {
		limiter = memory.NewLimiter(cfg.RateLimit.PerMinute, time.Minute)
	}

	var mailer app.Mailer = mail.LogMailer{}
	if cfg.Mail.From != "" {
		sesMailer, err := mail.NewSESMailer(ctx, cfg.Mail.Region, cfg.Mail.From, cfg.Mail.FromName)
		if err != nil {
			return err
		}
		mailer = sesMailer
		log.Printf("mail enabled: from=%s region=%s", cfg.Mail.From, cfg.Mail.Region)
	} else {
		log.Printf("mail disabled: OTP codes are written to the log")
	}

	hub := realtime.NewHub()
	filter := profanity.New()
	tokenTTL := config.Duration(cfg.Auth.TokenTTL, 30*24*time.Hour)

	auth := app.NewAuthService(docs, mailer, cfg.Auth.JWTSecret, tokenTTL)
	posts := app.NewPostService(docs, filter)
	game := app.NewGameService(docs, hub)
	daily := app.NewQuestionService(docs)

	server := transport.NewServer(auth, posts, game, daily, hub, transport.UploadConfig{
		Dir:      cfg.Uploads.Dir,
		MaxBytes: cfg.Uploads.MaxBytes,
	})

	httpServer := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      server.Routes(limiter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Printf("starting community server on :%s", finalPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		log.Println("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return group.Wait()
}
