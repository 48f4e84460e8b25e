package config

import (
	"fmt"
	"time"

	"storefront-checkout/internal/infrastructure/database"
)

// LoadDatabaseConfig builds the pool config from the already-loaded
// DatabaseConfig plus the pool tuning variables.
func LoadDatabaseConfig(db DatabaseConfig) (*database.DBConfig, error) {
	if db.MaxConns < db.MinConns {
		return nil, fmt.Errorf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)", db.MaxConns, db.MinConns)
	}

	return &database.DBConfig{
		Host:              db.Host,
		Port:              db.Port,
		Username:          db.User,
		Password:          db.Password,
		DBName:            db.Database,
		SSLMode:           db.SSLMode,
		MaxConns:          int32(db.MaxConns),
		MinConns:          int32(db.MinConns),
		MaxConnLifetime:   getEnvDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
		MaxConnIdleTime:   getEnvDuration("DB_MAX_CONN_IDLE_TIME", time.Minute),
		HealthCheckPeriod: getEnvDuration("DB_HEALTH_CHECK_PERIOD", time.Minute),
		MaxRetries:        getEnvInt("DB_MAX_RETRIES", 5),
		RetryDelay:        getEnvDuration("DB_RETRY_DELAY", time.Second),
		ConnectTimeout:    getEnvDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
	}, nil
}
