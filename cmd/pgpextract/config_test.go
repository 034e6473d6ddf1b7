package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/pgpextract/internal/protocol/armor"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigExample(t *testing.T) {
	cfg, err := loadConfig("ex.config.toml")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.OutputDir != "out" {
		t.Fatalf("unexpected output dir: %q", cfg.OutputDir)
	}
	if cfg.PKESKFile != "pkesk.bin" || cfg.SEIPFile != "encrypted.bin" {
		t.Fatalf("unexpected file names: %q %q", cfg.PKESKFile, cfg.SEIPFile)
	}
	if cfg.StoreDir != "out/artifacts.db" {
		t.Fatalf("unexpected store dir: %q", cfg.StoreDir)
	}
	if cfg.MetricsTextfile != "out/pgpextract.prom" {
		t.Fatalf("unexpected metrics textfile: %q", cfg.MetricsTextfile)
	}
	if cfg.Armor != armor.ModeAuto {
		t.Fatalf("unexpected armor mode: %q", cfg.Armor)
	}
	if cfg.Cipher != "aes-256-cfb" {
		t.Fatalf("unexpected cipher: %q", cfg.Cipher)
	}
	if !cfg.Report {
		t.Fatalf("expected report enabled")
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel)
	}
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, `
cipher = "aes-128-cfb"
`))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := DefaultConfig()
	want.Cipher = "aes-128-cfb"
	if cfg != want {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfigReportDisabled(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, `
report = false
armor = "never"
`))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Report {
		t.Fatalf("expected report disabled")
	}
	if cfg.Armor != armor.ModeNever {
		t.Fatalf("unexpected armor mode: %q", cfg.Armor)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	cases := map[string]string{
		"bad armor":    `armor = "sometimes"`,
		"unknown key":  `outdir = "x"`,
		"nested name":  `seip_file = "a/b.bin"`,
		"empty name":   `pkesk_file = " "`,
		"wrong type":   `report = "yes"`,
		"invalid toml": `output_dir = `,
	}
	for name, content := range cases {
		if _, err := loadConfig(writeConfig(t, content)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error")
	}
}
