package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("OPERATOR_EMAIL", "ops@example.com")
	t.Setenv("OPERATOR_PASSWORD_HASH", "$2a$12$abc")

	//実行環境の値に引きずられないように
	for _, k := range []string{
		"DATABASE_URL", "POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD",
		"POSTGRES_DB", "POSTGRES_SSLMODE", "GO_ENV", "ITEMS_PER_PAGE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5432, cfg.PostgresPort)
	assert.Equal(t, "dev", cfg.GoEnv)
	assert.Equal(t, 20, cfg.ItemsPerPage)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=inventory_db sslmode=disable", cfg.DSN())
}

func TestLoad_DatabaseURLWins(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/inv")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/inv", cfg.DSN())
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.EqualError(t, err, "JWT_SECRET is required")
}

func TestLoad_InvalidPort(t *testing.T) {
	setRequired(t)
	t.Setenv("POSTGRES_PORT", "abc")

	_, err := Load()
	assert.ErrorContains(t, err, "POSTGRES_PORT must be number")
}

func TestLoad_InvalidGoEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("GO_ENV", "staging")

	_, err := Load()
	assert.EqualError(t, err, "GO_ENV must be dev or prod")
}

func TestLoad_ItemsPerPageRange(t *testing.T) {
	setRequired(t)
	t.Setenv("ITEMS_PER_PAGE", "0")

	_, err := Load()
	assert.Error(t, err)
}
