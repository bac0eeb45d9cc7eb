package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/sbenali/autostock/internal/auth"
	"github.com/sbenali/autostock/internal/backup"
	"github.com/sbenali/autostock/internal/catalog"
	"github.com/sbenali/autostock/internal/config"
	"github.com/sbenali/autostock/internal/database"
	"github.com/sbenali/autostock/internal/directory"
	appHttp "github.com/sbenali/autostock/internal/http"
	accountHandler "github.com/sbenali/autostock/internal/http/account"
	directoryHandler "github.com/sbenali/autostock/internal/http/directory"
	importHandler "github.com/sbenali/autostock/internal/http/importcsv"
	movementHandler "github.com/sbenali/autostock/internal/http/movement"
	productHandler "github.com/sbenali/autostock/internal/http/product"
	purchaseHandler "github.com/sbenali/autostock/internal/http/purchase"
	saleHandler "github.com/sbenali/autostock/internal/http/sale"
	sessionHandler "github.com/sbenali/autostock/internal/http/session"
	snapshotHandler "github.com/sbenali/autostock/internal/http/snapshot"
	userHandler "github.com/sbenali/autostock/internal/http/user"
	"github.com/sbenali/autostock/internal/importer"
	"github.com/sbenali/autostock/internal/inventory"
	"github.com/sbenali/autostock/internal/purchase"
	"github.com/sbenali/autostock/internal/sale"
	"github.com/sbenali/autostock/internal/state"
	"github.com/sbenali/autostock/internal/treasury"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	snap, err := state.LoadSnapshot(cfg.Store.SnapshotPath)
	if err != nil {
		slog.Error("failed to load snapshot", "error", err, "path", cfg.Store.SnapshotPath)
		os.Exit(1)
	}

	store := state.New(snap, state.NewFilePersister(cfg.Store.SnapshotPath))

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var (
		catalogService   = catalog.NewService(state.NewCatalogStore(store))
		directoryService = directory.NewService(state.NewDirectoryStore(store))
		purchaseService  = purchase.NewService(state.NewPurchaseStore(store))
		saleService      = sale.NewService(state.NewSaleStore(store))
		inventoryService = inventory.NewService(state.NewInventoryStore(store))
		treasuryService  = treasury.NewService(state.NewTreasuryStore(store))
		authService      = auth.NewService(state.NewUserStore(store), tokens)
		importService    = importer.NewService()
	)

	ctx := context.Background()

	if err := seedAdmin(ctx, authService, cfg.Auth.AdminPassword); err != nil {
		slog.Error("failed to seed admin user", "error", err)
		os.Exit(1)
	}

	sinks := []backup.Sink{backup.NewFileSink(cfg.Backup.Dir)}

	if cfg.Backup.PostgresURL != "" {
		db, err := database.New(cfg.Backup.PostgresURL)
		if err != nil {
			slog.Error("failed to connect to backup database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		sinks = append(sinks, backup.NewPostgresSink(db))
	}

	runner := backup.NewRunner(cfg.Backup.Keep, sinks...)
	store.Subscribe(runner.Notify)

	go runner.Run(ctx)

	var (
		sessionH   = sessionHandler.NewHandler(authService)
		productH   = productHandler.NewHandler(catalogService)
		directoryH = directoryHandler.NewHandler(directoryService)
		purchaseH  = purchaseHandler.NewHandler(purchaseService)
		saleH      = saleHandler.NewHandler(saleService)
		movementH  = movementHandler.NewHandler(inventoryService)
		accountH   = accountHandler.NewHandler(treasuryService)
		userH      = userHandler.NewHandler(authService)
		importH    = importHandler.NewHandler(importService, catalogService, authService)
		snapshotH  = snapshotHandler.NewHandler(store, authService)
	)

	router := appHttp.New(
		authService,
		cfg.Server.AllowedOrigins,
		sessionH,
		productH,
		directoryH,
		purchaseH,
		saleH,
		movementH,
		accountH,
		userH,
		importH,
		snapshotH,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// seedAdmin creates the default admin account on first boot so a fresh
// install is reachable. It never overwrites existing users.
func seedAdmin(ctx context.Context, svc *auth.Service, password string) error {
	users, err := svc.ListUsers(ctx)
	if err != nil {
		return err
	}

	if len(users) > 0 {
		return nil
	}

	_, err = svc.CreateUser(ctx, auth.CreateUserParams{
		Username:    "admin",
		Password:    password,
		Role:        auth.RoleAdmin,
		Permissions: []string{auth.PermissionAll},
		Active:      true,
	})

	return err
}
