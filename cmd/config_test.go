package cmd

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/ahasecret/ahasecret/internal/configs"
	kerrors "github.com/ahasecret/ahasecret/internal/errors"
)

func TestConfigInitWritesFile(t *testing.T) {
	setupTestEnvironment(t)

	_, stderr, err := runCLI(t, "config", "init", "--url", "https://secret.example.com", "--retention", "1d", "--no-confirm")
	if err != nil {
		t.Fatalf("config init failed: %v\n%s", err, stderr)
	}

	config, err := configs.Load()
	if err != nil {
		t.Fatalf("Failed to load written config: %v", err)
	}
	if config.Server.URL != "https://secret.example.com" {
		t.Errorf("Expected url to be saved, got %q", config.Server.URL)
	}
	if config.Defaults.Retention != "1d" {
		t.Errorf("Expected retention 1d, got %q", config.Defaults.Retention)
	}
	if config.Defaults.ConfirmReveal {
		t.Error("Expected confirm_reveal to be disabled")
	}
	if !config.History.Enabled {
		t.Error("Expected history to stay enabled")
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	setupTestEnvironment(t)

	if _, _, err := runCLI(t, "config", "init", "--url", "https://one.example.com"); err != nil {
		t.Fatalf("first config init failed: %v", err)
	}

	_, stderr, err := runCLI(t, "config", "init", "--url", "https://two.example.com")
	if !errors.Is(err, os.ErrExist) {
		t.Fatalf("Expected os.ErrExist, got %v", err)
	}
	if !strings.Contains(stderr, "--force") {
		t.Errorf("Expected hint about --force, got: %s", stderr)
	}

	if _, _, err := runCLI(t, "config", "init", "--url", "https://two.example.com", "--force"); err != nil {
		t.Fatalf("config init --force failed: %v", err)
	}
	config, _ := configs.Load()
	if config.Server.URL != "https://two.example.com" {
		t.Errorf("Expected overwritten url, got %q", config.Server.URL)
	}
}

func TestConfigInitValidation(t *testing.T) {
	setupTestEnvironment(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"missing url", []string{"config", "init"}, kerrors.ErrServerURLMissing},
		{"relative url", []string{"config", "init", "--url", "secret.example.com"}, kerrors.ErrParse},
		{"bad retention", []string{"config", "init", "--url", "https://secret.example.com", "--retention", "0"}, kerrors.ErrInvalidRetention},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := os.Stat(configs.Settings.ConfigPath); !os.IsNotExist(err) {
		t.Error("No config should be written for invalid input")
	}
}

func TestConfigShow(t *testing.T) {
	setupTestEnvironment(t)

	if _, _, err := runCLI(t, "config", "init", "--url", "https://secret.example.com"); err != nil {
		t.Fatalf("config init failed: %v", err)
	}

	stdout, _, err := runCLI(t, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}

	for _, want := range []string{"[server]", `url = "https://secret.example.com"`, `retention = "7d"`, configs.Settings.ConfigPath} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Expected %q in output, got:\n%s", want, stdout)
		}
	}
}

func TestRootPrintsBanner(t *testing.T) {
	setupTestEnvironment(t)

	stdout, _, err := runCLI(t)
	if err != nil {
		t.Fatalf("root command failed: %v", err)
	}
	if !strings.Contains(stdout, "ahasecret --help") {
		t.Errorf("Expected help hint, got: %s", stdout)
	}
}
