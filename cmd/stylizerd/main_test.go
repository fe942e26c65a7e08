package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"stylizerd/internal/config"
)

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b ", []string{"a", "b"}},
		{",,a,,", []string{"a"}},
	}
	for _, c := range cases {
		if got := splitCSV(c.in); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("splitCSV(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("STYLIZERD_TEST_KEY", "")
	if got := envOr("STYLIZERD_TEST_KEY", "fallback"); got != "fallback" {
		t.Fatalf("unset: %q", got)
	}
	t.Setenv("STYLIZERD_TEST_KEY", "value")
	if got := envOr("STYLIZERD_TEST_KEY", "fallback"); got != "value" {
		t.Fatalf("set: %q", got)
	}
}

func TestEnvIntOr(t *testing.T) {
	t.Setenv("STYLIZERD_TEST_INT", "")
	if got := envIntOr("STYLIZERD_TEST_INT", 8); got != 8 {
		t.Fatalf("unset: %d", got)
	}
	t.Setenv("STYLIZERD_TEST_INT", "42")
	if got := envIntOr("STYLIZERD_TEST_INT", 8); got != 42 {
		t.Fatalf("set: %d", got)
	}
	t.Setenv("STYLIZERD_TEST_INT", "not-a-number")
	if got := envIntOr("STYLIZERD_TEST_INT", 8); got != 8 {
		t.Fatalf("garbage: %d", got)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	if lg := newLogger("debug"); lg.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("debug: %v", lg.GetLevel())
	}
	if lg := newLogger("WARN"); lg.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("warn: %v", lg.GetLevel())
	}
	// Unknown levels fall back to info.
	if lg := newLogger("chatty"); lg.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("fallback: %v", lg.GetLevel())
	}
}

func TestMergeConfigRespectsExplicitFlags(t *testing.T) {
	root := buildRootCmd()
	if err := root.PersistentFlags().Set("addr", ":1111"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	cfg := config.Config{Addr: ":1111", ModelsDir: "~/models/faces", MaxBodyMB: 8}
	fileCfg := config.Config{Addr: ":9999", DefaultModel: "cartoon-256", MaxBodyMB: 32}
	mergeConfig(&cfg, fileCfg, root)

	if cfg.Addr != ":1111" {
		t.Fatalf("explicit flag overwritten: %q", cfg.Addr)
	}
	if cfg.DefaultModel != "cartoon-256" || cfg.MaxBodyMB != 32 {
		t.Fatalf("file values not filled: %+v", cfg)
	}
}

func TestModelsCommandListsBundles(t *testing.T) {
	dir := t.TempDir()
	bundleDir := filepath.Join(dir, "sketch-128")
	if err := os.MkdirAll(bundleDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	manifest := "version = \"1.0.0\"\ncascade = \"facefinder\"\n"
	if err := os.WriteFile(filepath.Join(bundleDir, "manifest.toml"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(bundleDir, "facefinder"), []byte("c"), 0o644); err != nil {
		t.Fatalf("write cascade: %v", err)
	}

	root := buildRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"models", "--models-dir", dir})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "sketch-128") {
		t.Fatalf("listing: %q", out.String())
	}
}
