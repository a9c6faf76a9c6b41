package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withValues swaps the loaded values for the duration of a test.
func withValues(t *testing.T) {
	t.Helper()
	_ = Load()
	mu.Lock()
	saved := values
	values = make(map[string]string, len(saved))
	for k, v := range saved {
		values[k] = v
	}
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		values = saved
		mu.Unlock()
	})
}

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadPrecedence(t *testing.T) {
	withValues(t)
	dir := t.TempDir()
	jsonPath := write(t, dir, "app.json", `{"app_port": 9000, "db_driver": "postgres", "low_stock_threshold": 3, "debug": true}`)
	envPath := write(t, dir, ".env", "APP_PORT=9100\nJWT_SECRET=from-dotenv\n")
	t.Setenv("APP_PORT", "9200")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	require.NoError(t, loadFromFiles(jsonPath, envPath))

	assert.Equal(t, "9200", AppPort(), "environment wins over files")
	assert.Equal(t, "from-dotenv", JWTSecret())
	assert.Equal(t, "postgres", DatabaseDriver())
	assert.Equal(t, 3, LowStockThreshold())
	assert.Equal(t, "true", Get("DEBUG", ""))
	assert.Equal(t, "", Get("UNRELATED_VARIABLE", ""))
}

func TestMissingFilesFallBackToDefaults(t *testing.T) {
	withValues(t)
	dir := t.TempDir()

	require.NoError(t, loadFromFiles(filepath.Join(dir, "none.json"), filepath.Join(dir, ".env")))
	assert.Equal(t, defaultDatabaseDriver, DatabaseDriver())
	assert.Equal(t, defaultSQLiteDSN, DatabaseDSN())
	assert.Equal(t, defaultAppPort, AppPort())
}

func TestBrokenJSONIsAnError(t *testing.T) {
	withValues(t)
	dir := t.TempDir()
	p := write(t, dir, "app.json", `{"APP_PORT":`)

	err := loadFromFiles(p, filepath.Join(dir, ".env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestDatabaseDriverAndDSN(t *testing.T) {
	withValues(t)

	Set("DB_DRIVER", "MySQL")
	assert.Equal(t, "mysql", DatabaseDriver())
	assert.Equal(t, defaultMySQLDSN, DatabaseDSN())

	Set("DATABASE_DSN", "custom")
	assert.Equal(t, "custom", DatabaseDSN())

	Set("DB_DRIVER", "oracle")
	assert.Equal(t, defaultDatabaseDriver, DatabaseDriver(), "unknown drivers fall back")
}

func TestTypedGetters(t *testing.T) {
	withValues(t)

	Set("UPLOAD_WORKERS", "7")
	Set("CART_TTL", "90m")
	Set("RATE_LIMIT", "many")
	Set("APP_URL", "https://shop.example.com/")

	assert.Equal(t, 7, Int("UPLOAD_WORKERS", 4))
	assert.Equal(t, 90*time.Minute, CartTTL())
	assert.Equal(t, 120, RateLimit(), "malformed ints use the fallback")
	assert.Equal(t, 30*time.Second, Duration("HTTP_READ_TIMEOUT", 30*time.Second))
	assert.Equal(t, "https://shop.example.com", AppURL())
	assert.Equal(t, "https://shop.example.com/uploads", StorageURL())
}
