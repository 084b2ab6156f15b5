package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type sample struct {
	Name  string        `yaml:"name"`
	Delay time.Duration `yaml:"delay"`
	Port  int           `yaml:"port"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_ExpandsEnvAndKeepsDefaults(t *testing.T) {
	t.Setenv("NOTECOVER_TEST_NAME", "vault-a")
	p := writeConfig(t, "name: ${NOTECOVER_TEST_NAME}\ndelay: 250ms\n")

	cfg := sample{Port: 8080}
	if err := Load(p, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "vault-a" {
		t.Errorf("name = %q", cfg.Name)
	}
	if cfg.Delay != 250*time.Millisecond {
		t.Errorf("delay = %v", cfg.Delay)
	}
	if cfg.Port != 8080 {
		t.Errorf("port default lost: %d", cfg.Port)
	}
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	p := writeConfig(t, "name: x\nprot: 1\n")
	cfg := sample{Port: 1}
	err := Load(p, &cfg)
	if err == nil || !strings.Contains(err.Error(), "prot") {
		t.Errorf("err = %v, want unknown field error", err)
	}
}

func TestLoad_Validates(t *testing.T) {
	p := writeConfig(t, "port: 0\n")
	cfg := sample{Port: 1}
	err := Load(p, &cfg)
	if err == nil || !strings.Contains(err.Error(), "config validation failed") {
		t.Errorf("err = %v", err)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	p := writeConfig(t, "")
	cfg := sample{Port: 9}
	if err := Load(p, &cfg); err != nil {
		t.Fatalf("empty file should keep defaults: %v", err)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	cfg := sample{Port: 1}
	if err := LoadWithDefaults(missing, "", &cfg); err != nil {
		t.Errorf("missing file without fallback: %v", err)
	}

	fallback := writeConfig(t, "name: fallback\n")
	cfg = sample{Port: 1}
	if err := LoadWithDefaults(missing, fallback, &cfg); err != nil || cfg.Name != "fallback" {
		t.Errorf("fallback: name = %q, err = %v", cfg.Name, err)
	}

	cfg = sample{}
	if err := LoadWithDefaults(missing, "", &cfg); err == nil {
		t.Error("invalid defaults should fail validation")
	}
}
