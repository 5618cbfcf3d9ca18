package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig().MaxQuantity, cfg.MaxQuantity)
}

func TestLoadConfig_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_addr: 127.0.0.1:7000\ndefault_bin: \"37\"\nmax_quantity: 50\nexpiry_tz: UTC\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:7000", cfg.HTTPAddr)
	require.Equal(t, "37", cfg.DefaultBIN)
	require.Equal(t, 50, cfg.MaxQuantity)
	require.True(t, cfg.MetricsEnabled)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_quantity: 0\n"), 0o600))
	_, err = LoadConfig(path)
	require.ErrorContains(t, err, "max_quantity")
}

func TestConfig_ApplyEnv(t *testing.T) {
	env := map[string]string{
		"CARDFORGE_HTTP_ADDR":       ":8088",
		"CARDFORGE_DEFAULT_BIN":     "6011",
		"CARDFORGE_MAX_QUANTITY":    "10",
		"CARDFORGE_EXPIRY_TZ":       "Europe/Berlin",
		"CARDFORGE_METRICS_ENABLED": "false",
	}
	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
	require.Equal(t, ":8088", cfg.HTTPAddr)
	require.Equal(t, "6011", cfg.DefaultBIN)
	require.Equal(t, 10, cfg.MaxQuantity)
	require.False(t, cfg.MetricsEnabled)

	env["CARDFORGE_MAX_QUANTITY"] = "ten"
	require.Error(t, DefaultConfig().ApplyEnv(func(k string) string { return env[k] }))
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultBIN = "4x"
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.ExpiryTZ = "Not/AZone"
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.ExpiryTZ = "Australia/Sydney"
	require.NoError(t, cfg.Validate())
	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, "Australia/Sydney", loc.String())
}
