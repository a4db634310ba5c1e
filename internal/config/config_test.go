package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "rental-backend", cfg.JWT.Issuer)
	assert.Equal(t, 24, cfg.JWT.ExpirationHours)
	assert.Equal(t, "rental_db", cfg.Database.Name)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 24, cfg.Backup.IntervalHours)
	assert.False(t, cfg.Backup.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6432")
	t.Setenv("DB_NAME", "rental_prod")
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_abc")
	t.Setenv("BACKUP_BUCKET", "rental-backups")

	cfg := Load()

	require.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6432, cfg.Database.Port)
	assert.Equal(t, "rental_prod", cfg.Database.Name)
	assert.Equal(t, "test-secret", cfg.JWT.Secret)
	assert.Equal(t, "rzp_test_abc", cfg.Razorpay.KeyID)
	assert.Equal(t, "rental-backups", cfg.Backup.Bucket)
}
