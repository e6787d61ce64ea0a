package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/cuenta/internal/account"
	accountStore "github.com/MrJamesThe3rd/cuenta/internal/account/store"
	"github.com/MrJamesThe3rd/cuenta/internal/category"
	categoryStore "github.com/MrJamesThe3rd/cuenta/internal/category/store"
	"github.com/MrJamesThe3rd/cuenta/internal/config"
	"github.com/MrJamesThe3rd/cuenta/internal/database"
	"github.com/MrJamesThe3rd/cuenta/internal/goal"
	goalStore "github.com/MrJamesThe3rd/cuenta/internal/goal/store"
	cuentaHttp "github.com/MrJamesThe3rd/cuenta/internal/http"
	accountHandler "github.com/MrJamesThe3rd/cuenta/internal/http/account"
	categoryHandler "github.com/MrJamesThe3rd/cuenta/internal/http/category"
	goalHandler "github.com/MrJamesThe3rd/cuenta/internal/http/goal"
	transactionHandler "github.com/MrJamesThe3rd/cuenta/internal/http/transaction"
	"github.com/MrJamesThe3rd/cuenta/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/cuenta/internal/ledger/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		ledgerService   = ledger.NewService(ledgerStore.New(db))
		accountService  = account.NewService(accountStore.New(db))
		goalService     = goal.NewService(goalStore.New(db), ledgerService)
		categoryService = category.NewService(categoryStore.New(db))
	)

	var (
		transactionH = transactionHandler.NewHandler(ledgerService)
		accountH     = accountHandler.NewHandler(accountService, ledgerService)
		goalH        = goalHandler.NewHandler(goalService)
		categoryH    = categoryHandler.NewHandler(categoryService)
	)

	router := cuentaHttp.New(cfg.Auth.Secret, transactionH, accountH, goalH, categoryH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
