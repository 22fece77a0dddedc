package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	BackendGoogle   = "google"
	BackendWorkbook = "workbook"
)

type SheetConfig struct {
	// google or workbook
	Backend         string
	CredentialsFile string
	SpreadsheetID   string
	SheetName       string
	// Only used by the workbook backend
	WorkbookPath string
}

type ServerConfig struct {
	ListenAddress string
}

type AdminConfig struct {
	// bcrypt hash, see ridectl -hash-password
	PasswordHash string
}

type RidesConfig struct {
	// IANA name, empty means the server's local zone
	Timezone string
	// fail or skip
	MalformedRows string
}

type configStore struct {
	Sheet  SheetConfig
	Server ServerConfig
	Admin  AdminConfig
	Rides  RidesConfig
}

type Config struct {
	Filename string
	Store    configStore
}

// Write the current config out to a toml file.
func (c *Config) Save() error {
	b, err := toml.Marshal(c.Store)
	if err != nil {
		return err
	}
	return os.WriteFile(c.Filename, b, 0600)
}

// Load the current config from a toml file.
func (c *Config) Load() error {
	b, err := os.ReadFile(c.Filename)
	if err != nil {
		return err
	}
	return toml.Unmarshal(b, &c.Store)
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Store.Rides.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Store.Rides.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Store.Rides.Timezone, err)
	}
	return loc, nil
}

func defaults() configStore {
	return configStore{
		Sheet: SheetConfig{
			Backend:      BackendWorkbook,
			SheetName:    "Sheet1",
			WorkbookPath: "rides.xlsx",
		},
		Server: ServerConfig{
			ListenAddress: ":80",
		},
		Rides: RidesConfig{
			MalformedRows: "fail",
		},
	}
}

// New loads filename, writing a default config first if it does not exist.
// Environment variables override the file.
func New(filename string) (*Config, error) {
	c := &Config{
		Filename: filename,
		Store:    defaults(),
	}
	if err := c.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", filename, err)
		}
		if err := c.Save(); err != nil {
			return nil, err
		}
	}
	c.applyEnv()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Store.Sheet.SpreadsheetID, "SPREADSHEET_ID")
	set(&c.Store.Sheet.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	set(&c.Store.Server.ListenAddress, "LISTEN_ADDRESS")
	set(&c.Store.Admin.PasswordHash, "ADMIN_PASSWORD_HASH")
}

func (c *Config) validate() error {
	s := c.Store.Sheet
	switch s.Backend {
	case BackendGoogle:
		if s.SpreadsheetID == "" || s.CredentialsFile == "" {
			return fmt.Errorf("google backend needs SpreadsheetID and CredentialsFile")
		}
	case BackendWorkbook:
		if s.WorkbookPath == "" {
			return fmt.Errorf("workbook backend needs WorkbookPath")
		}
	default:
		return fmt.Errorf("unknown sheet backend %q", s.Backend)
	}
	if s.SheetName == "" {
		return fmt.Errorf("SheetName is required")
	}
	return nil
}
