package internal

import (
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

var coverKeyRe = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Vault  VaultConfig       `yaml:"vault"`
	Panel  PanelConfig       `yaml:"panel"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Panel.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// VaultConfig describes the Markdown vault and how covers are stored in it.
type VaultConfig struct {
	Path string `yaml:"path"`
	// CoverKey is the frontmatter key holding the cover reference.
	CoverKey string `yaml:"cover_key"`
	// AttachmentFolder is where imported images go: "" or "/" for the vault
	// root, "./" or "./sub" relative to the note, anything else from the root.
	AttachmentFolder string `yaml:"attachment_folder"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.CoverKey, validation.Required, validation.Match(coverKeyRe)),
		validation.Field(&c.AttachmentFolder, validation.By(insideVault)),
	)
}

func insideVault(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	cleaned := path.Clean(strings.TrimPrefix(s, "/"))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return fmt.Errorf("must stay inside the vault")
	}
	return nil
}

// PanelConfig tunes the panel event loop.
type PanelConfig struct {
	// SettleDelay is waited after an import before the cover is re-resolved.
	SettleDelay time.Duration `yaml:"settle_delay"`
	// MessageTimeout is how long an error message stays on the panel.
	MessageTimeout time.Duration `yaml:"message_timeout"`
	QueueSize      int           `yaml:"queue_size"`
}

// Validate validates the panel configuration.
func (c *PanelConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SettleDelay, validation.Min(time.Duration(0)), validation.Max(time.Minute)),
		validation.Field(&c.MessageTimeout, validation.Required, validation.Max(time.Minute)),
		validation.Field(&c.QueueSize, validation.Min(0)),
	)
}

// SQLiteConfig holds the import journal location.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Vault: VaultConfig{
			Path:             "./vault",
			CoverKey:         "image",
			AttachmentFolder: "attachments",
		},
		Panel: PanelConfig{
			SettleDelay:    250 * time.Millisecond,
			MessageTimeout: 3 * time.Second,
			QueueSize:      64,
		},
		SQLite: SQLiteConfig{
			Path: "./notecover.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
