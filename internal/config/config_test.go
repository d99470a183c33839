package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"rmdesk.org/internal/intent"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Addr != ":8080" {
		t.Errorf("addr = %q", c.Server.Addr)
	}
	if c.Session.TTL != 24*time.Hour {
		t.Errorf("session ttl = %v", c.Session.TTL)
	}
	if c.Lockout.Threshold != 3 || c.Lockout.Window != 15*time.Minute {
		t.Errorf("lockout = %d/%v", c.Lockout.Threshold, c.Lockout.Window)
	}
	labels := c.SupportedLabels()
	if len(labels) != 4 {
		t.Fatalf("supported labels = %v", labels)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
server:
  addr: ":9090"
lockout:
  threshold: 5
  window: 30m
desk:
  supported_intents: [ACCOUNT_BALANCE, GENERAL_BANKING]
  deflection_message: "We will follow up."
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Addr != ":9090" {
		t.Errorf("addr = %q", c.Server.Addr)
	}
	if c.Lockout.Threshold != 5 || c.Lockout.Window != 30*time.Minute {
		t.Errorf("lockout = %d/%v", c.Lockout.Threshold, c.Lockout.Window)
	}
	labels := c.SupportedLabels()
	if len(labels) != 2 || labels[0] != intent.AccountBalance {
		t.Errorf("supported = %v", labels)
	}
	if c.Desk.DeflectionMessage != "We will follow up." {
		t.Errorf("deflection = %q", c.Desk.DeflectionMessage)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RMDESK_ADDR", ":7070")
	t.Setenv("RMDESK_LOCKOUT_THRESHOLD", "4")
	t.Setenv("RMDESK_SESSION_TTL", "1h")
	t.Setenv("RMDESK_SUPPORTED_INTENTS", "ACCOUNT_BALANCE,REMITTANCE_STATUS")

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Addr != ":7070" {
		t.Errorf("addr = %q", c.Server.Addr)
	}
	if c.Lockout.Threshold != 4 {
		t.Errorf("threshold = %d", c.Lockout.Threshold)
	}
	if c.Session.TTL != time.Hour {
		t.Errorf("ttl = %v", c.Session.TTL)
	}
	if labels := c.SupportedLabels(); len(labels) != 2 || labels[1] != intent.RemittanceStatus {
		t.Errorf("supported = %v", labels)
	}
}

func TestLoadRejectsUnknownIntent(t *testing.T) {
	t.Setenv("RMDESK_SUPPORTED_INTENTS", "ACCOUNT_BALANCE,NOT_A_THING")
	if _, err := Load(""); err == nil {
		t.Fatal("expected an error for an unknown intent")
	}
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults, got %v", err)
	}
	if c.Server.Addr != ":8080" {
		t.Errorf("addr = %q", c.Server.Addr)
	}
}
