package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/money"
	"github.com/jafarshop/storefront/internal/service"
	"github.com/jafarshop/storefront/internal/shopify"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// An explicit URL overrides CART_SOURCE_URL
	if len(os.Args) > 1 {
		cfg.CartSource.URL = os.Args[1]
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	formatter, err := money.NewFormatter(cfg.Storefront.Locale, cfg.Storefront.CurrencyPrefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid storefront settings: %v\n", err)
		os.Exit(1)
	}

	client := shopify.NewClient(cfg.CartSource, logger)
	store := service.NewCartStore(uuid.New(), client, nil, logger)
	view := service.NewCartView(store, formatter, logger)

	fmt.Printf("🔍 Fetching cart from %s\n\n", client.SourceURL())

	vm, err := view.Reload(context.Background())
	if err != nil {
		fmt.Printf("❌ %s\n", service.MsgCartLoadFailed)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if len(vm.Rows) == 0 {
		fmt.Printf("🛒 The cart is empty.\n")
	}
	for _, row := range vm.Rows {
		fmt.Printf("[%s] %s\n", row.ID, row.Title)
		fmt.Printf("  Price:    %s\n", row.UnitPrice)
		fmt.Printf("  Quantity: %d (min %d)\n", row.Quantity, row.MinQuantity)
		fmt.Printf("  Subtotal: %s\n\n", row.LineSubtotal)
	}

	fmt.Printf("Subtotal: %s\n", vm.Summary.Subtotal)
	fmt.Printf("Total:    %s\n", vm.Summary.Total)
}
