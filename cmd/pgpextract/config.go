package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/pgpextract/internal/protocol/armor"
	"github.com/danmuck/pgpextract/internal/sink"
)

// Config is the resolved extraction setup.
type Config struct {
	OutputDir       string
	PKESKFile       string
	SEIPFile        string
	StoreDir        string
	MetricsTextfile string
	Armor           armor.Mode
	Cipher          string
	Report          bool
	LogLevel        string
}

type fileConfig struct {
	OutputDir       string `toml:"output_dir"`
	PKESKFile       string `toml:"pkesk_file"`
	SEIPFile        string `toml:"seip_file"`
	StoreDir        string `toml:"store_dir"`
	MetricsTextfile string `toml:"metrics_textfile"`
	Armor           string `toml:"armor"`
	Cipher          string `toml:"cipher"`
	Report          bool   `toml:"report"`
	LogLevel        string `toml:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		OutputDir: ".",
		PKESKFile: sink.DefaultPKESKFile,
		SEIPFile:  sink.DefaultSEIPFile,
		Armor:     armor.ModeAuto,
		Cipher:    sink.DefaultCipher,
		Report:    true,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("output_dir") {
		cfg.OutputDir = strings.TrimSpace(raw.OutputDir)
	}

	if meta.IsDefined("pkesk_file") {
		name, err := fileName("pkesk_file", raw.PKESKFile)
		if err != nil {
			return Config{}, err
		}
		cfg.PKESKFile = name
	}

	if meta.IsDefined("seip_file") {
		name, err := fileName("seip_file", raw.SEIPFile)
		if err != nil {
			return Config{}, err
		}
		cfg.SEIPFile = name
	}

	if meta.IsDefined("store_dir") {
		cfg.StoreDir = strings.TrimSpace(raw.StoreDir)
	}

	if meta.IsDefined("metrics_textfile") {
		cfg.MetricsTextfile = strings.TrimSpace(raw.MetricsTextfile)
	}

	if meta.IsDefined("armor") {
		mode, err := armor.ParseMode(raw.Armor)
		if err != nil {
			return Config{}, fmt.Errorf("parse armor: %w", err)
		}
		cfg.Armor = mode
	}

	if meta.IsDefined("cipher") {
		if c := strings.TrimSpace(raw.Cipher); c != "" {
			cfg.Cipher = c
		}
	}

	if meta.IsDefined("report") {
		cfg.Report = raw.Report
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	return cfg, nil
}

func fileName(key, raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", fmt.Errorf("parse %s: empty file name", key)
	}
	if strings.ContainsAny(v, `/\`) {
		return "", fmt.Errorf("parse %s: %q must be a bare file name", key, v)
	}
	return v, nil
}
