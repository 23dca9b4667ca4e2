package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const salesJSON = `{"name":"Sales","children":[
	{"name":"Wii","children":[
		{"name":"Wii Sports","category":"Wii","value":80},
		{"name":"Mario Kart","category":"Wii","value":30}]},
	{"name":"DS","children":[
		{"name":"Tetris","category":"DS","value":20}]}]}`

// runCLI executes the root command in a scratch directory holding sales.json.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	if err := os.WriteFile("sales.json", []byte(salesJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	_, err := runCLI(t, "render", "sales.json", "-f", "svg,json", "-o", "out/chart", "--width", "400", "--cache-backend", "none")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(filepath.Join("out", "chart.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), `data-name="Wii Sports"`) {
		t.Error("svg missing tile")
	}

	data, err := os.ReadFile(filepath.Join("out", "chart.json"))
	if err != nil {
		t.Fatal(err)
	}
	var scene struct {
		Width float64 `json:"width"`
	}
	if err := json.Unmarshal(data, &scene); err != nil {
		t.Fatal(err)
	}
	if scene.Width != 400 {
		t.Errorf("scene width = %v, want the --width override", scene.Width)
	}
}

func TestRenderCommandConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(cfgPath, []byte("height = 300.0\n[cache]\nbackend = \"none\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, "--config", cfgPath, "render", "sales.json", "-f", "json", "-o", "chart.json"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile("chart.json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"height": 300`) {
		t.Error("config file height not applied")
	}
}

func TestRenderCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad format", []string{"render", "sales.json", "-f", "gif", "--cache-backend", "none"}, "INVALID_FORMAT"},
		{"bad viz type", []string{"render", "sales.json", "-t", "pie", "--cache-backend", "none"}, "INVALID_VIZ_TYPE"},
		{"missing file", []string{"render", "nope.json", "--cache-backend", "none"}, "FETCH_FAILED"},
		{"bad width", []string{"render", "sales.json", "--width", "0"}, "INVALID_INPUT"},
		{"bad backend", []string{"render", "sales.json", "--cache-backend", "memcached"}, "INVALID_CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestLegendCommand(t *testing.T) {
	out, err := runCLI(t, "legend", "sales.json", "--cache-backend", "none")
	if err != nil {
		t.Fatalf("legend: %v", err)
	}
	for _, want := range []string{"Wii", "DS", "110", "84.6%"} {
		if !strings.Contains(out, want) {
			t.Errorf("legend output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigInitCommand(t *testing.T) {
	if _, err := runCLI(t, "config", "init", "--width", "1200"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile("treemap.toml")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "width = 1200") {
		t.Errorf("config missing width override:\n%s", data)
	}

	if err := os.WriteFile("keep.toml", []byte("dataset = \"movies\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"config", "init", "keep.toml"})
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(t.Context()); err == nil {
		t.Error("existing file should not be overwritten without --force")
	}
}

func TestCachePathCommand(t *testing.T) {
	out, err := runCLI(t, "cache", "path", "--cache-dir", "/tmp/treemap-cache")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != "/tmp/treemap-cache" {
		t.Errorf("cache path = %q", out)
	}
}

func TestCacheClearCommand(t *testing.T) {
	if _, err := runCLI(t, "render", "sales.json", "-f", "svg"); err != nil {
		t.Fatalf("render: %v", err)
	}
	cacheDir := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)
	entries, err := os.ReadDir(cacheDir)
	if err != nil || len(entries) == 0 {
		t.Fatalf("render should populate %s: %v", cacheDir, err)
	}

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"cache", "clear"})
	if err := root.ExecuteContext(t.Context()); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	var files int
	filepath.WalkDir(cacheDir, func(_ string, d os.DirEntry, _ error) error {
		if d != nil && !d.IsDir() {
			files++
		}
		return nil
	})
	if files != 0 {
		t.Errorf("%d files left after clear", files)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "treemap") {
		t.Error("completion script should mention the command name")
	}
}

func TestDynamicCompletion(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name: "preset prefix",
			args: []string{"render", "mo"},
			want: []string{"movies\tMovie Sales", ":4"},
		},
		{
			name:    "unknown dataset falls back to files",
			args:    []string{"legend", "sales"},
			want:    []string{":0"},
			notWant: []string{"videogames"},
		},
		{
			name:    "format list",
			args:    []string{"render", "-f", "svg,p"},
			want:    []string{"svg,png\n", "svg,pdf\n", ":6"},
			notWant: []string{"svg,svg"},
		},
		{
			name:    "formats follow type",
			args:    []string{"render", "-t", "nodelink", "-f", ""},
			want:    []string{"dot\n", "svg\n"},
			notWant: []string{"json", "html"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, append([]string{"__complete"}, tt.args...)...)
			if err != nil {
				t.Fatalf("__complete: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("completions missing %q:\n%s", want, out)
				}
			}
			for _, bad := range tt.notWant {
				if strings.Contains(out, bad) {
					t.Errorf("completions should not offer %q:\n%s", bad, out)
				}
			}
		})
	}
}
