package internal

import (
	"strings"
	"testing"
	"time"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfigValid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestVaultConfig_CoverKey(t *testing.T) {
	for key, ok := range map[string]bool{
		"image":       true,
		"cover_image": true,
		"banner.src":  true,
		"":            false,
		"two words":   false,
		"key:":        false,
		"-leading":    false,
	} {
		cfg := VaultConfig{Path: "v", CoverKey: key}
		if err := cfg.Validate(); (err == nil) != ok {
			t.Errorf("cover_key %q: err = %v, want ok=%v", key, err, ok)
		}
	}
}

func TestVaultConfig_AttachmentFolder(t *testing.T) {
	for folder, ok := range map[string]bool{
		"":            true,
		"/":           true,
		"./":          true,
		"./assets":    true,
		"attachments": true,
		"../outside":  false,
		"/../x":       false,
		"a/../../x":   false,
	} {
		cfg := VaultConfig{Path: "v", CoverKey: "image", AttachmentFolder: folder}
		if err := cfg.Validate(); (err == nil) != ok {
			t.Errorf("attachment_folder %q: err = %v, want ok=%v", folder, err, ok)
		}
	}
}

func TestPanelConfig_Bounds(t *testing.T) {
	cfg := NewDefaultConfig().Panel
	cfg.MessageTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero message_timeout should fail")
	}

	cfg = NewDefaultConfig().Panel
	cfg.SettleDelay = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Error("negative settle_delay should fail")
	}

	cfg = NewDefaultConfig().Panel
	cfg.SettleDelay = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero settle_delay should pass: %v", err)
	}
}
