package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DefaultCartSourceURL, cfg.CartSource.URL)
	assert.Equal(t, 10*time.Second, cfg.CartSource.FetchTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, 10000, cfg.Session.MaxSessions)
	assert.Equal(t, "Rs.", cfg.Storefront.CurrencyPrefix)
	assert.Equal(t, "thankyou.html", cfg.Storefront.CheckoutURL)
	assert.False(t, cfg.Database.Enabled())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CART_SOURCE_URL", "http://localhost:9999/cart.json")
	t.Setenv("CART_FETCH_TIMEOUT", "2s")
	t.Setenv("LOCALE", "en-IN")
	t.Setenv("DB_HOST", "db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/cart.json", cfg.CartSource.URL)
	assert.Equal(t, 2*time.Second, cfg.CartSource.FetchTimeout)
	assert.Equal(t, "en-IN", cfg.Storefront.Locale)
	assert.True(t, cfg.Database.Enabled())
}

func TestLoad_RejectsBadDuration(t *testing.T) {
	t.Setenv("CART_FETCH_TIMEOUT", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "CART_FETCH_TIMEOUT")
}

func TestLoad_RejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("SESSION_IDLE_TTL", "0s")

	_, err := Load()
	assert.ErrorContains(t, err, "SESSION_IDLE_TTL")
}

func TestLoad_SessionCap(t *testing.T) {
	t.Setenv("SESSION_MAX", "250")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Session.MaxSessions)

	t.Setenv("SESSION_MAX", "0")
	_, err = Load()
	assert.ErrorContains(t, err, "SESSION_MAX")

	t.Setenv("SESSION_MAX", "lots")
	_, err = Load()
	assert.ErrorContains(t, err, "SESSION_MAX")
}
