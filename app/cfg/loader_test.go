package cfg

import (
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// Version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs([]string{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.DBPath != "./data/wedding.db" {
		t.Errorf("Expected default DB path './data/wedding.db', got '%s'", cfg.DBPath)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("Expected worker count 2, got %d", cfg.WorkerCount)
	}
	if cfg.SchedulerInterval != 5*time.Second {
		t.Errorf("Expected scheduler interval 5s, got %v", cfg.SchedulerInterval)
	}
	if cfg.SubscriberBuffer != 16 {
		t.Errorf("Expected subscriber buffer 16, got %d", cfg.SubscriberBuffer)
	}
	if cfg.PingInterval != 30*time.Second {
		t.Errorf("Expected ping interval 30s, got %v", cfg.PingInterval)
	}
	if Get() != cfg {
		t.Error("Expected Get to return the loaded configuration")
	}
}

func TestLoadArgsOverrides(t *testing.T) {
	cfg, err := LoadArgs([]string{
		"--db-path", "/tmp/test.db",
		"--port", "9090",
		"--api-key", "secret",
		"--scheduler-interval", "60",
		"--debug",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("Expected DB path '/tmp/test.db', got '%s'", cfg.DBPath)
	}
	if cfg.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Port)
	}
	if cfg.APIAccessKey != "secret" {
		t.Errorf("Expected API key 'secret', got '%s'", cfg.APIAccessKey)
	}
	if cfg.SchedulerInterval != time.Minute {
		t.Errorf("Expected scheduler interval 1m, got %v", cfg.SchedulerInterval)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}

func TestLoadArgsRejectsInvalidWorkerCount(t *testing.T) {
	if _, err := LoadArgs([]string{"--worker-count", "0"}); err == nil {
		t.Error("Expected error for zero worker count")
	}
}

func TestSelfURL(t *testing.T) {
	cfg := &Cfg{Port: "8080"}
	if got := cfg.SelfURL("/guestbook.xml"); got != "http://localhost:8080/guestbook.xml" {
		t.Errorf("Expected localhost URL, got '%s'", got)
	}

	cfg.BaseUrl = "https://wedding.example.com"
	if got := cfg.SelfURL("/guestbook.xml"); got != "https://wedding.example.com/guestbook.xml" {
		t.Errorf("Expected base URL, got '%s'", got)
	}
}
