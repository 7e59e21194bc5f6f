package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestList(t *testing.T) {
	out, _, err := execute(t, "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"clock", "counter", "theme", "todo-keyed", "todo-unkeyed", "user"} {
		if !strings.Contains(out, name) {
			t.Errorf("list output missing %q:\n%s", name, out)
		}
	}
}

func TestRunCounter(t *testing.T) {
	out, _, err := execute(t, "run", "counter", "--do", "click:inc3", "--do", "click:inc")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "4</span>") {
		t.Errorf("expected count 4 in output:\n%s", out)
	}
}

func TestRunJSON(t *testing.T) {
	out, _, err := execute(t, "run", "counter", "--json", "--do", "click:inc")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 commits, got %d:\n%s", len(lines), out)
	}
	var rec struct {
		Seq uint64 `json:"seq"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatal(err)
	}
	if rec.Seq != 2 {
		t.Errorf("expected seq 2, got %d", rec.Seq)
	}
}

func TestRunUnknownLesson(t *testing.T) {
	_, _, err := execute(t, "run", "nope")
	if err == nil || !strings.Contains(err.Error(), "unknown lesson") {
		t.Fatalf("expected unknown lesson error, got %v", err)
	}
}

func TestRunUnknownKey(t *testing.T) {
	_, _, err := execute(t, "run", "counter", "--do", "click:missing")
	if err == nil || !strings.Contains(err.Error(), `no element with key "missing"`) {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestParseSteps(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "click:inc", want: "click:inc"},
		{in: "input:name=ada", want: "input:name=ada"},
		{in: "wait:250ms", want: "wait:250ms"},
		{in: "click", wantErr: true},
		{in: "input:name", wantErr: true},
		{in: "wait:soon", wantErr: true},
		{in: "hover:x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			steps, err := parseSteps([]string{tt.in})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got := steps[0].String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigFlagOverridesLogLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reactor.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: error\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	flags := &globalFlags{configPath: path, logLevel: "debug"}
	cfg, err := loadConfig(flags)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected flag to win, got %q", cfg.Log.Level)
	}

	flags.logFormat = "xml"
	if _, err := loadConfig(flags); err == nil {
		t.Error("expected invalid log format to fail validation")
	}
}
