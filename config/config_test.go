package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewSeedsDefaults(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "config.yaml"))
	if c.AuthMethod() != "none" {
		t.Errorf("AuthMethod = %q, want %q", c.AuthMethod(), "none")
	}
	if c.RefreshQuantum() != 40*time.Millisecond {
		t.Errorf("RefreshQuantum = %v, want 40ms", c.RefreshQuantum())
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err := c.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.AuthMethod() != "none" {
		t.Errorf("AuthMethod = %q, want default %q", c.AuthMethod(), "none")
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	c := New(path)
	c.s.SocketPath = "/tmp/custom.sock"
	c.s.AutoRepeatRate = 250 * time.Millisecond

	if err := c.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := New(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reloaded.SocketPath() != "/tmp/custom.sock" {
		t.Errorf("SocketPath = %q, want %q", reloaded.SocketPath(), "/tmp/custom.sock")
	}
	if reloaded.AutoRepeatRate() != 250*time.Millisecond {
		t.Errorf("AutoRepeatRate = %v, want 250ms", reloaded.AutoRepeatRate())
	}
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := New(path)
	if err := c.Load(); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoadRejectsKeyfileAuthWithoutPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "auth_method: keyfile\nrefresh_quantum: 40000000\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	c := New(path)
	if err := c.Load(); err == nil {
		t.Fatal("expected error for keyfile auth without keyfile_path")
	}
}

func TestLoadRejectsNonPositiveRefreshQuantum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "auth_method: none\nrefresh_quantum: 0\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	c := New(path)
	if err := c.Load(); err == nil {
		t.Fatal("expected error for non-positive refresh_quantum")
	}
}

func TestResetRestoresDefaultsWithoutPanicking(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c := New(path)
	c.s.AuthMethod = "credentials"

	c.Reset()

	if c.AuthMethod() != "none" {
		t.Errorf("AuthMethod = %q, want default %q after Reset", c.AuthMethod(), "none")
	}
	// Reset must leave the mutex usable; a second Lock/Unlock cycle via
	// any accessor would deadlock or panic if Reset had replaced it.
	c.Reset()
}

func TestConcurrentLoadAndSaveDoNotPanic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c := New(path)
	if err := c.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			c.Load()
		}
		close(done)
	}()
	for i := 0; i < 50; i++ {
		c.Save()
	}
	<-done
}
