package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	c, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, BackendWorkbook, c.Store.Sheet.Backend)
	assert.Equal(t, "rides.xlsx", c.Store.Sheet.WorkbookPath)
	assert.Equal(t, ":80", c.Store.Server.ListenAddress)

	_, err = os.Stat(path)
	assert.NoError(t, err)

	again, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, c.Store, again.Store)
}

func TestNewReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `
[Sheet]
Backend = "google"
CredentialsFile = "creds.json"
SpreadsheetID = "abc123"
SheetName = "RideBookings"

[Admin]
PasswordHash = "$2a$10$hash"

[Rides]
Timezone = "Australia/Brisbane"
MalformedRows = "skip"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))

	c, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", c.Store.Sheet.SpreadsheetID)
	assert.Equal(t, "RideBookings", c.Store.Sheet.SheetName)
	assert.Equal(t, "$2a$10$hash", c.Store.Admin.PasswordHash)
	assert.Equal(t, "skip", c.Store.Rides.MalformedRows)
	// Unset keys keep their defaults
	assert.Equal(t, ":80", c.Store.Server.ListenAddress)

	loc, err := c.Location()
	require.NoError(t, err)
	assert.Equal(t, "Australia/Brisbane", loc.String())
}

func TestNewEnvOverrides(t *testing.T) {
	t.Setenv("SPREADSHEET_ID", "from-env")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/secrets/creds.json")
	t.Setenv("LISTEN_ADDRESS", ":8080")
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[Sheet]\nBackend = \"google\"\n"), 0600))

	c, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.Store.Sheet.SpreadsheetID)
	assert.Equal(t, "/secrets/creds.json", c.Store.Sheet.CredentialsFile)
	assert.Equal(t, ":8080", c.Store.Server.ListenAddress)
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"google without id", "[Sheet]\nBackend = \"google\"\n"},
		{"unknown backend", "[Sheet]\nBackend = \"postgres\"\n"},
		{"no sheet name", "[Sheet]\nSheetName = \"\"\n"},
		{"bad toml", "[Sheet\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.contents), 0600))
			_, err := New(path)
			assert.Error(t, err)
		})
	}
}

func TestLocationDefault(t *testing.T) {
	c := &Config{}
	loc, err := c.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	c.Store.Rides.Timezone = "Not/AZone"
	_, err = c.Location()
	assert.Error(t, err)
}
