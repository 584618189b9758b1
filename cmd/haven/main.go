package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	rdb "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/dropDatabas3/haven/internal/audit"
	"github.com/dropDatabas3/haven/internal/auth"
	"github.com/dropDatabas3/haven/internal/config"
	"github.com/dropDatabas3/haven/internal/domain/repository"
	"github.com/dropDatabas3/haven/internal/email"
	"github.com/dropDatabas3/haven/internal/escalation"
	httpserver "github.com/dropDatabas3/haven/internal/http"
	"github.com/dropDatabas3/haven/internal/http/router"
	"github.com/dropDatabas3/haven/internal/metrics"
	"github.com/dropDatabas3/haven/internal/observability/logger"
	"github.com/dropDatabas3/haven/internal/rate"
	"github.com/dropDatabas3/haven/internal/store"
	migrations "github.com/dropDatabas3/haven/migrations/postgres"
)

func main() {
	// .env es opcional; en prod las vars vienen del entorno.
	_ = godotenv.Load()

	var (
		configPath string
		logLevel   string
	)

	root := &cobra.Command{
		Use:   "haven",
		Short: "Haven: herencia digital con dead man's switch",
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("HAVEN_CONFIG"), "Path al YAML de configuración (opcional)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Nivel de log: debug|info|warn|error")

	loadConfig := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logger.Init(logger.Config{Env: cfg.App.Env, Level: logLevel, ServiceName: "haven"})
		return cfg, nil
	}

	root.AddCommand(serveCmd(loadConfig))
	root.AddCommand(checkCmd(loadConfig))
	root.AddCommand(migrateCmd(loadConfig))
	root.AddCommand(seedCmd(loadConfig))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildServices arma el grafo de servicios compartido por serve y check.
type services struct {
	dal        store.DataAccessLayer
	audit      *audit.Service
	email      *email.Service
	auth       *auth.Service
	disclosure *escalation.Disclosure
	scheduler  *escalation.Scheduler
}

func buildServices(ctx context.Context, cfg *config.Config) (*services, error) {
	storeCfg := store.Config{Driver: cfg.Storage.Driver, DSN: cfg.Storage.DSN}
	storeCfg.Postgres.MaxConns = cfg.Storage.Postgres.MaxConns

	dal, err := store.New(ctx, storeCfg)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	tpl, err := email.LoadTemplates()
	if err != nil {
		dal.Close()
		return nil, fmt.Errorf("email templates: %w", err)
	}
	sender := email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.User, cfg.SMTP.Pass)
	if cfg.SMTP.TLSMode != "" {
		sender.TLSMode = cfg.SMTP.TLSMode
	}
	emailSvc := email.NewService(sender, tpl, cfg.Server.BaseURL)

	auditSvc := audit.New(dal.Audit(), dal.Inactivity())
	authSvc := auth.NewService(dal.Users(), cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.AccessTTL())

	disclosure := &escalation.Disclosure{
		Users:    dal.Users(),
		Contacts: dal.Contacts(),
		Vault:    dal.Vault(),
		Audit:    auditSvc,
		Email:    emailSvc,
	}
	scheduler := &escalation.Scheduler{
		Users:       dal.Users(),
		Records:     dal.Inactivity(),
		Rules:       dal.Rules(),
		Contacts:    dal.Contacts(),
		Email:       emailSvc,
		Disclosure:  disclosure,
		Interval:    cfg.EscalationInterval(),
		PageSize:    cfg.Escalation.PageSize,
		Concurrency: cfg.Escalation.Concurrency,
	}

	return &services{
		dal:        dal,
		audit:      auditSvc,
		email:      emailSvc,
		auth:       authSvc,
		disclosure: disclosure,
		scheduler:  scheduler,
	}, nil
}

func buildLimiter(cfg *config.Config) rate.Limiter {
	if !cfg.Rate.Enabled {
		return nil
	}
	if cfg.Cache.Kind == "redis" && cfg.Cache.Redis.Addr != "" {
		client := rdb.NewClient(&rdb.Options{Addr: cfg.Cache.Redis.Addr, DB: cfg.Cache.Redis.DB})
		prefix := cfg.Cache.Redis.Prefix
		if prefix == "" {
			prefix = "haven:rl"
		}
		return rate.NewRedisLimiter(client, prefix, cfg.Rate.MaxRequests, cfg.RateWindow())
	}
	return rate.NewMemoryLimiter(cfg.Rate.MaxRequests, cfg.RateWindow())
}

func serveCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el API y el scheduler de escalamiento",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := buildServices(ctx, cfg)
			if err != nil {
				return err
			}
			defer svc.dal.Close()

			registry := prometheus.NewRegistry()
			if err := metrics.Register(registry); err != nil {
				return fmt.Errorf("metrics: %w", err)
			}

			handler := router.New(router.Deps{
				DAL:                svc.dal,
				Auth:               svc.auth,
				Audit:              svc.audit,
				Email:              svc.email,
				Disclosure:         svc.disclosure,
				Limiter:            buildLimiter(cfg),
				Registry:           registry,
				CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
			})

			go svc.scheduler.Run(ctx)

			logger.L().Info("haven listening",
				logger.Any("addr", cfg.Server.Addr),
				logger.Any("driver", cfg.Storage.Driver),
			)
			return httpserver.Serve(ctx, cfg.Server.Addr, handler)
		},
	}
}

func checkCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Corre un barrido de inactividad y termina (para cron externo)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := buildServices(ctx, cfg)
			if err != nil {
				return err
			}
			defer svc.dal.Close()

			sum, err := svc.scheduler.Sweep(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("processed=%d created=%d failed=%d\n", sum.Processed, sum.Created, sum.Failed)
			return nil
		},
	}
}

func migrateCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones embebidas sobre postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if cfg.Storage.DSN == "" {
				return fmt.Errorf("migrate: falta storage.dsn / DATABASE_URL")
			}

			ctx := context.Background()
			pool, err := pgxpool.New(ctx, cfg.Storage.DSN)
			if err != nil {
				return fmt.Errorf("migrate: pgxpool: %w", err)
			}
			defer pool.Close()

			entries, err := migrations.FS.ReadDir(".")
			if err != nil {
				return err
			}
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				if !e.IsDir() {
					names = append(names, e.Name())
				}
			}
			sort.Strings(names)

			for _, name := range names {
				sql, err := migrations.FS.ReadFile(name)
				if err != nil {
					return err
				}
				logger.L().Info("applying migration", logger.Any("file", name))
				if _, err := pool.Exec(ctx, string(sql)); err != nil {
					return fmt.Errorf("migrate: %s: %w", name, err)
				}
			}
			logger.L().Info("migrations completed", logger.Any("count", len(names)))
			return nil
		},
	}
}

func seedCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	var (
		seedEmail    string
		seedName     string
		seedPassword string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Crea un usuario demo con regla, contacto y un item de vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx := context.Background()
			svc, err := buildServices(ctx, cfg)
			if err != nil {
				return err
			}
			defer svc.dal.Close()

			hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			user, _, err := svc.dal.Users().Create(ctx, repository.CreateUserInput{
				Email:        seedEmail,
				Name:         seedName,
				PasswordHash: string(hash),
			})
			if err != nil {
				return fmt.Errorf("seed: create user: %w", err)
			}

			if err := svc.dal.Rules().Upsert(ctx, repository.Rule{
				UserID:             user.ID,
				InactivityDuration: 30,
			}); err != nil {
				return fmt.Errorf("seed: rule: %w", err)
			}
			if _, err := svc.dal.Contacts().Insert(ctx, user.ID, "contact@example.com"); err != nil {
				return fmt.Errorf("seed: contact: %w", err)
			}
			if _, err := svc.dal.Vault().Insert(ctx, repository.CreateVaultItemInput{
				UserID:   user.ID,
				Provider: "google",
				Name:     "Demo Google Account",
				RecoveryMethods: map[string]any{
					"twoFactorBackups": []any{"11111111"},
				},
			}); err != nil {
				return fmt.Errorf("seed: vault item: %w", err)
			}

			fmt.Printf("seeded user %s (%s)\n", user.ID, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&seedEmail, "email", "demo@example.com", "Email del usuario demo")
	cmd.Flags().StringVar(&seedName, "name", "Demo User", "Nombre del usuario demo")
	cmd.Flags().StringVar(&seedPassword, "password", "demo-password", "Password del usuario demo")
	return cmd
}
