package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/logging"
	"github.com/jafarshop/storefront/internal/money"
	"github.com/jafarshop/storefront/internal/service"
	"github.com/jafarshop/storefront/internal/shopify"
	"github.com/jafarshop/storefront/internal/tui"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Logs would draw over the screen, so only errors get through
	logger, err := logging.New("error", cfg.Environment)
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync()

	formatter, err := money.NewFormatter(cfg.Storefront.Locale, cfg.Storefront.CurrencyPrefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid storefront settings: %v\n", err)
		os.Exit(1)
	}

	client := shopify.NewClient(cfg.CartSource, logger)
	store := service.NewCartStore(uuid.New(), client, service.NewJournal(nil, logger), logger)
	view := service.NewCartView(store, formatter, logger)

	p := tea.NewProgram(tui.New(context.Background(), view), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Cart screen failed: %v\n", err)
		os.Exit(1)
	}
}
