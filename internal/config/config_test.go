package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.True(t, cfg.Shop.ConfirmAGB)
	assert.False(t, cfg.Shop.EnableIntangibleProdAgreement)
	assert.True(t, cfg.Shop.MinOrderPrice.IsZero())
	assert.True(t, decimal.NewFromInt(500).Equal(cfg.Shop.LoyaltyThresholds["loyalty_gold"]))
}

func TestLoad_ShopSwitchesFromEnv(t *testing.T) {
	t.Setenv("SHOP_CONFIRM_AGB", "false")
	t.Setenv("SHOP_INTANGIBLE_AGREEMENT", "true")
	t.Setenv("SHOP_MIN_ORDER_PRICE", "19.99")
	t.Setenv("SHOP_LOYALTY_THRESHOLDS", "")

	cfg, err := Load()

	require.NoError(t, err)
	assert.False(t, cfg.Shop.ConfirmAGB)
	assert.True(t, cfg.Shop.EnableIntangibleProdAgreement)
	assert.Equal(t, "19.99", cfg.Shop.MinOrderPrice.String())
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad min price", "SHOP_MIN_ORDER_PRICE", "abc"},
		{"negative min price", "SHOP_MIN_ORDER_PRICE", "-1"},
		{"bad thresholds", "SHOP_LOYALTY_THRESHOLDS", "gold"},
		{"unknown store", "SESSION_STORE", "memcached"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			cfg, err := Load()

			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestValidate_ProductionRequiresSecrets(t *testing.T) {
	cfg := &Config{
		App:     AppConfig{Environment: "production"},
		JWT:     JWTConfig{Secret: "your-secret-key-change-in-production"},
		Session: SessionConfig{Store: "redis"},
	}

	assert.EqualError(t, cfg.Validate(), "JWT_SECRET must be set in production")

	cfg.JWT.Secret = "s3cr3t"
	assert.EqualError(t, cfg.Validate(), "DB_PASSWORD must be set in production")

	cfg.Database.Password = "pw"
	cfg.Session.Store = "memory"
	assert.Error(t, cfg.Validate())

	cfg.Session.Store = "redis"
	assert.NoError(t, cfg.Validate())
}

func TestLoadDatabaseConfig(t *testing.T) {
	dbCfg, err := LoadDatabaseConfig(DatabaseConfig{Host: "db", Port: 5433, MaxConns: 10, MinConns: 2, SSLMode: "disable"})
	require.NoError(t, err)
	assert.Equal(t, "db", dbCfg.Host)
	assert.Equal(t, int32(10), dbCfg.MaxConns)

	_, err = LoadDatabaseConfig(DatabaseConfig{MaxConns: 1, MinConns: 2})
	assert.Error(t, err)
}
