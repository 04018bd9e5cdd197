package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/hourbank/internal/config"
	"github.com/rpggio/hourbank/internal/domain/access"
	"github.com/rpggio/hourbank/internal/domain/activity"
	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/rpggio/hourbank/internal/domain/client"
	"github.com/rpggio/hourbank/internal/domain/consumption"
	"github.com/rpggio/hourbank/internal/domain/contract"
	"github.com/rpggio/hourbank/internal/domain/product"
	"github.com/rpggio/hourbank/internal/domain/renewal"
	"github.com/rpggio/hourbank/internal/domain/ticket"
	"github.com/rpggio/hourbank/internal/mcp"
	"github.com/rpggio/hourbank/internal/scheduler"
	"github.com/rpggio/hourbank/internal/sqlite"
	"github.com/rpggio/hourbank/internal/transport"
	"github.com/spf13/pflag"
)

type options struct {
	configPath  string
	migrateOnly bool
	renewOnce   bool
	asOf        string
	issueKey    bool
	keyUser     string
	keyRole     string
	keyClient   string
	keyNote     string
}

func parseFlags() options {
	var o options
	pflag.StringVarP(&o.configPath, "config", "c", "", "path to YAML config (default $HOURBANK_CONFIG_PATH)")
	pflag.BoolVar(&o.migrateOnly, "migrate-only", false, "apply database migrations and exit")
	pflag.BoolVar(&o.renewOnce, "renew-once", false, "run contract renewal once, print the summary and exit")
	pflag.StringVar(&o.asOf, "as-of", "", "reference date for --renew-once (YYYY-MM-DD, default today)")
	pflag.BoolVar(&o.issueKey, "issue-key", false, "issue an API key, print the token and exit")
	pflag.StringVar(&o.keyUser, "user", "", "user ID for --issue-key")
	pflag.StringVar(&o.keyRole, "role", string(access.RoleAdmin), "role for --issue-key (ADMIN or CLIENT_USER)")
	pflag.StringVar(&o.keyClient, "client", "", "client ID for --issue-key with role CLIENT_USER")
	pflag.StringVar(&o.keyNote, "description", "", "description for --issue-key")
	pflag.Parse()
	return o
}

func main() {
	opts := parseFlags()

	// A missing .env file is fine; explicit environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" || opts.renewOnce || opts.issueKey {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer fileWriter.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("invalid timezone", "timezone", cfg.Timezone, "error", err)
		os.Exit(1)
	}
	today := func() time.Time { return billing.Day(time.Now().In(loc)) }

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	if opts.migrateOnly {
		logger.Info("migrations applied", "db", cfg.DB.Path)
		return
	}

	policy := cfg.Policy()

	clientRepo := sqlite.NewClientRepository(db)
	contractRepo := sqlite.NewContractRepository(db)
	ticketRepo := sqlite.NewTicketRepository(db)
	consumptionRepo := sqlite.NewConsumptionRepository(db)
	productRepo := sqlite.NewProductRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	apiKeyRepo := sqlite.NewAPIKeyRepository(db)

	accessSvc := access.NewService(apiKeyRepo, logger)
	clientSvc := client.NewService(clientRepo, logger)
	contractSvc := contract.NewService(contractRepo, activityRepo, policy, logger)
	ticketSvc := ticket.NewService(ticketRepo, activityRepo, policy, logger)
	consumptionSvc := consumption.NewService(consumptionRepo, contractRepo, policy, logger)
	productSvc := product.NewService(productRepo, logger)
	activitySvc := activity.NewService(activityRepo, logger)
	renewalEngine := renewal.NewEngine(contractRepo, activityRepo, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case opts.issueKey:
		if err := issueKey(ctx, accessSvc, opts); err != nil {
			logger.Error("failed to issue api key", "error", err)
			os.Exit(1)
		}
		return
	case opts.renewOnce:
		if err := renewOnce(ctx, renewalEngine, opts.asOf, today()); err != nil {
			logger.Error("renewal failed", "error", err)
			os.Exit(1)
		}
		return
	}

	handler := mcp.NewHandler(mcp.Services{
		Clients:     clientSvc,
		Contracts:   contractSvc,
		Consumption: consumptionSvc,
		Tickets:     ticketSvc,
		Products:    productSvc,
		Activity:    activitySvc,
		Renewal:     renewalEngine,
		Policy:      policy,
		Today:       today,
	})

	mcpServer := mcp.NewServer(mcp.Config{
		Handler:       handler,
		Resolver:      accessSvc,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	})

	if cfg.Renewal.Enabled {
		at, err := cfg.RenewalOffset()
		if err != nil {
			logger.Error("invalid renewal time", "at", cfg.Renewal.At, "error", err)
			os.Exit(1)
		}
		sched := scheduler.New(renewalEngine, scheduler.RealClock(), loc, at, logger)
		go func() {
			if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("renewal scheduler stopped", "error", err)
			}
		}()
	}

	// Branch based on transport mode
	if cfg.Transport.Mode == "stdio" {
		runStdioMode(ctx, logger, mcpServer)
		return
	}

	auth := transport.StaticPrincipal(access.System())
	if cfg.Auth.Enabled {
		auth = transport.AuthMiddleware(accessSvc)
	}
	router := transport.NewServer(transport.Options{
		Handler: handler,
		Auth:    auth,
		Renewal: renewalEngine,
		MCP: sdkmcp.NewStreamableHTTPHandler(
			func(*http.Request) *sdkmcp.Server { return mcpServer },
			&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
		),
		Today:  today,
		Logger: logger,
	})
	runHTTPMode(ctx, logger, router, cfg.Server.Host, cfg.Server.Port)
}

func issueKey(ctx context.Context, svc *access.Service, opts options) error {
	token, key, err := svc.IssueKey(ctx, access.IssueRequest{
		UserID:      opts.keyUser,
		Role:        access.Role(opts.keyRole),
		ClientID:    opts.keyClient,
		Description: opts.keyNote,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s\n", token)
	fmt.Fprintf(os.Stderr, "issued key for %s (%s)\n", key.UserID, key.Role)
	return nil
}

func renewOnce(ctx context.Context, engine *renewal.Engine, rawAsOf string, today time.Time) error {
	asOf := today
	if rawAsOf != "" {
		d, err := billing.ParseDate(rawAsOf)
		if err != nil {
			return fmt.Errorf("parsing --as-of: %w", err)
		}
		asOf = d
	}
	summary, runErr := engine.Run(ctx, asOf)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return err
	}
	return runErr
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport", "auth", "disabled")

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, handler http.Handler, host string, port int) {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
