package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, `from:"StockApp Systems"`, config.Clients.Gmail.SenderQuery)
	assert.Equal(t, "Mappings!A:B", config.Clients.Sheets.MappingRange)
	assert.Equal(t, "30 6 * * 1-5", config.Digest.Schedule)
	assert.False(t, config.IsProduction())
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "foliowatch.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment = "production"

[server]
port = 9090

[clients.gmail]
access_token = "file-token"
`), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, config.IsProduction())
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "file-token", config.Clients.Gmail.AccessToken)

	// Unset sections keep their defaults
	assert.Equal(t, `from:"StockApp Systems"`, config.Clients.Gmail.SenderQuery)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig("/nonexistent/foliowatch.toml")
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Server.Port)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FOLIOWATCH_PORT", "7070")
	t.Setenv("FOLIOWATCH_GMAIL_TOKEN", "env-token")
	t.Setenv("FOLIOWATCH_SHEET_ID", "sheet-123")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "env-token", config.Clients.Gmail.AccessToken)
	assert.Equal(t, "sheet-123", config.Clients.Sheets.SpreadsheetID)
}

func TestValidate(t *testing.T) {
	config := NewDefaultConfig()
	assert.Error(t, config.Validate(), "missing sheet ID and gmail token")

	config.Clients.Sheets.SpreadsheetID = "sheet-123"
	assert.Error(t, config.Validate(), "missing gmail token")

	config.Clients.Gmail.AccessToken = "token"
	assert.NoError(t, config.Validate())
}

func TestGetTokenExpiry(t *testing.T) {
	auth := AuthConfig{TokenExpiry: "2h"}
	assert.Equal(t, "2h0m0s", auth.GetTokenExpiry().String())

	auth.TokenExpiry = "bogus"
	assert.Equal(t, "24h0m0s", auth.GetTokenExpiry().String())
}
