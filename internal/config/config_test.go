package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestLoadFile_Basic(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "docredact.yaml", "threads: 4\nmax_bytes: 123\nrecursive: true\ntypes: [email, phone]\n")
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 4 {
		t.Fatalf("expected threads=4, got %#v", cfg.Threads)
	}
	if cfg.MaxBytes == nil || *cfg.MaxBytes != 123 {
		t.Fatalf("expected max_bytes=123, got %#v", cfg.MaxBytes)
	}
	if cfg.Recursive == nil || !*cfg.Recursive {
		t.Fatalf("expected recursive=true")
	}
	if strings.Join(cfg.Types, ",") != "email,phone" {
		t.Fatalf("unexpected types %v", cfg.Types)
	}
	if cfg.Incremental != nil {
		t.Fatalf("unset field should stay nil")
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	p := writeTemp(t, t.TempDir(), "bad.yml", "threads: [\n")
	if _, err := LoadFile(p); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "docredact.yaml", "threads: 1\n")
	writeTemp(t, dir, ".docredact.yaml", "threads: 7\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 7 {
		t.Fatalf("expected threads=7 from .docredact.yaml, got %#v", cfg.Threads)
	}
}

func TestLoadLocal_NoConfig(t *testing.T) {
	if _, err := LoadLocal(t.TempDir()); err == nil {
		t.Fatal("expected error when no local config exists")
	}
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "docredact")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeTemp(t, cfgDir, "config.yml", "threads: 9\n")
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 9 {
		t.Fatalf("expected threads=9 from global config, got %#v", cfg.Threads)
	}
}

func TestLoadGlobal_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")
	if _, err := LoadGlobal(); err == nil {
		t.Fatal("expected error when no global config dir exists")
	}
}

func TestLayers_Precedence(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	if err := os.MkdirAll(filepath.Join(xdg, "docredact"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeTemp(t, filepath.Join(xdg, "docredact"), "config.yml", "catalog: global.json\ntypes: [secrets]\n")
	dir := t.TempDir()
	writeTemp(t, dir, ".docredact.yml", "types: [email]\n")

	l := Load(dir)
	if got := l.Catalog(""); got != "global.json" {
		t.Fatalf("catalog from global layer, got %q", got)
	}
	if got := l.Catalog("cli.json"); got != "cli.json" {
		t.Fatalf("cli catalog wins, got %q", got)
	}
	if got := l.Types(nil); len(got) != 1 || got[0] != "email" {
		t.Fatalf("local types win over global, got %v", got)
	}
	if got := l.Types([]string{"phone"}); got[0] != "phone" {
		t.Fatalf("cli types win, got %v", got)
	}
}

func TestPickHelpers(t *testing.T) {
	one, two := 1, 2
	if PickInt(0, &one, &two) != 1 || PickInt(5, &one, &two) != 5 || PickInt(0, nil, &two) != 2 {
		t.Fatal("PickInt precedence")
	}
	var big int64 = 10
	if PickInt64(0, nil, &big) != 10 {
		t.Fatal("PickInt64 fallback")
	}
	empty, g := "", "g"
	if PickString("", &empty, &g) != "g" {
		t.Fatal("PickString skips empty local")
	}
	f, tr := false, true
	if PickBool(false, false, &f, &tr, true) {
		t.Fatal("local false must win over global true")
	}
	if !PickBool(true, true, &f, nil, false) {
		t.Fatal("explicit flag wins")
	}
	if !PickBool(false, false, nil, nil, true) {
		t.Fatal("default applies when nothing is set")
	}
}

func TestTemplate_RoundTrips(t *testing.T) {
	threads := 3
	b, err := Template(FileConfig{Threads: &threads, Types: []string{"pii"}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(b), "# docredact configuration") {
		t.Fatalf("missing header: %s", b)
	}
	var back FileConfig
	if err := yaml.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back.Threads == nil || *back.Threads != 3 || back.Types[0] != "pii" {
		t.Fatalf("unexpected round trip %#v", back)
	}
}
