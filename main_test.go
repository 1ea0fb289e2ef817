package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/game2048/api"
	"github.com/wricardo/mcp-training/game2048/game/config"
	"github.com/wricardo/mcp-training/game2048/transport/mcp"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "2048 Game Server" {
		t.Errorf("Unexpected app name %s", AppName)
	}
}

// parseOptions runs the app with a no-op action and captures the options
func parseOptions(t *testing.T, settings config.Settings, args ...string) options {
	t.Helper()
	app := newApp(settings, nil)

	var got options
	capture := func(ctx context.Context, cmd *cli.Command) error {
		got = optionsFrom(cmd, settings)
		return nil
	}
	app.Action = capture
	for _, sub := range app.Commands {
		sub.Action = capture
	}

	if err := app.Run(context.Background(), append([]string{"game2048"}, args...)); err != nil {
		t.Fatalf("run %v: %v", args, err)
	}
	return got
}

func TestFlagDefaultsFromSettings(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Port = 9191
	settings.ConfigDir = "/srv/presets"
	settings.NgrokDomain = "example.ngrok.app"

	opts := parseOptions(t, settings)

	if opts.addr() != "localhost:9191" {
		t.Errorf("Expected localhost:9191, got %s", opts.addr())
	}
	if opts.configDir != "/srv/presets" {
		t.Errorf("Expected /srv/presets, got %s", opts.configDir)
	}
	if opts.ngrokDomain != "example.ngrok.app" {
		t.Errorf("Expected ngrok domain from settings, got %q", opts.ngrokDomain)
	}
	if opts.sessionTTL != 24*time.Hour || opts.cleanupInterval != time.Hour {
		t.Errorf("Unexpected durations %s / %s", opts.sessionTTL, opts.cleanupInterval)
	}
	if opts.defaultPreset != "" || len(opts.allowedOrigins) != 0 {
		t.Errorf("Expected no default preset and no origin list, got %+v", opts)
	}
}

func TestPresetAndOriginFlags(t *testing.T) {
	settings := config.DefaultSettings()
	settings.DefaultPreset = "endgame"
	settings.AllowedOrigins = []string{"http://localhost:8080"}

	opts := parseOptions(t, settings)
	if opts.defaultPreset != "endgame" || len(opts.allowedOrigins) != 1 {
		t.Errorf("Expected values from settings, got %+v", opts)
	}

	opts = parseOptions(t, settings, "--default-preset", "small",
		"--allowed-origin", "https://a.example", "--allowed-origin", "https://b.example")
	if opts.defaultPreset != "small" {
		t.Errorf("Expected small, got %q", opts.defaultPreset)
	}
	if len(opts.allowedOrigins) != 2 || opts.allowedOrigins[1] != "https://b.example" {
		t.Errorf("Unexpected origins %v", opts.allowedOrigins)
	}
}

func TestFlagsOverrideSettings(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"root", []string{"--port", "7070", "--debug", "--ngrok"}},
		{"server subcommand", []string{"server", "--port", "7070", "--debug", "--ngrok"}},
		{"http alias", []string{"http", "--port", "7070", "--debug", "--ngrok"}},
		{"mcp alias", []string{"stdio-mcp", "--port", "7070", "--debug", "--ngrok"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := parseOptions(t, config.DefaultSettings(), tt.args...)
			if opts.port != 7070 {
				t.Errorf("Expected port 7070, got %d", opts.port)
			}
			if !opts.debug || !opts.ngrokEnabled {
				t.Errorf("Expected debug and ngrok on, got %+v", opts)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	for _, debug := range []bool{true, false} {
		logger, err := newLogger(debug)
		if err != nil {
			t.Fatalf("newLogger(%v): %v", debug, err)
		}
		if logger.Core().Enabled(zap.DebugLevel) != debug {
			t.Errorf("newLogger(%v): debug level enabled = %v", debug, !debug)
		}
	}
}

func TestInitializeServices(t *testing.T) {
	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	opts := options{configDir: "configs"}
	svcs, err := initializeServices(opts, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	info, err := svcs.game.CreateSession(context.Background(), "")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if info.ConfigName != "classic" {
		t.Errorf("Expected the classic preset by default, got %s", info.ConfigName)
	}
	if svcs.sessions.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", svcs.sessions.Count())
	}
}

func TestInitializeServices_DefaultPreset(t *testing.T) {
	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	svcs, err := initializeServices(options{configDir: "configs", defaultPreset: "small"}, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	info, err := svcs.game.CreateSession(context.Background(), "")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if info.ConfigName != "small" {
		t.Errorf("Expected the small preset by default, got %s", info.ConfigName)
	}

	if _, err := initializeServices(options{configDir: "configs", defaultPreset: "nope"}, zap.NewNop()); !errors.Is(err, config.ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound for an unknown default preset, got %v", err)
	}
}

// writePreset writes a minimal valid preset called name to dir/file.json
func writePreset(t *testing.T, dir, file, name string) {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"description":"test","size":4,"messages":{"welcome":"Hi"}}`, name)
	if err := os.WriteFile(filepath.Join(dir, file+".json"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestReloadPresets(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "classic", "Classic")
	writePreset(t, dir, "other", "Other")

	svcs, err := initializeServices(options{configDir: dir, defaultPreset: "other"}, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	writePreset(t, dir, "other", "Other v2")
	if svcs.configs.GetDefault().Name != "Other" {
		t.Fatal("The cached default should not change before a reload")
	}
	if err := reloadPresets(svcs.configs, "other"); err != nil {
		t.Fatalf("reloadPresets: %v", err)
	}
	if got := svcs.configs.GetDefault().Name; got != "Other v2" {
		t.Errorf("Expected the edited default preset, got %s", got)
	}

	os.Remove(filepath.Join(dir, "other.json"))
	if err := reloadPresets(svcs.configs, "other"); !errors.Is(err, config.ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound once the default preset is gone, got %v", err)
	}
}

func TestReloadOnSignal(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "classic", "Classic")

	svcs, err := initializeServices(options{configDir: dir}, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	done := make(chan struct{})
	go func() {
		reloadOnSignal(ctx, sig, svcs.configs, "", zap.NewNop())
		close(done)
	}()

	writePreset(t, dir, "classic", "Classic v2")
	sig <- syscall.SIGHUP

	deadline := time.Now().Add(time.Second)
	for svcs.configs.GetDefault().Name != "Classic v2" {
		if time.Now().After(deadline) {
			t.Fatalf("Expected the reloaded default, got %s", svcs.configs.GetDefault().Name)
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reloadOnSignal did not stop after cancel")
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	opts := options{configDir: filepath.Join(t.TempDir(), "missing")}

	if _, err := initializeServices(opts, zap.NewNop()); err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestMCPHandler(t *testing.T) {
	handler := mcpHandler(mcp.NewClient("http://localhost:0"))

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/mcp", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	body := bytes.NewBufferString(`{"jsonrpc":"2.0","id":7,"method":"tools/list"}`)
	handler(w, httptest.NewRequest("POST", "/mcp", body))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Unexpected content type %s", w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), `"insert_tile"`) {
		t.Errorf("Expected tool list, got %s", w.Body.String())
	}
}

func TestRouterAndStdioDiscovery(t *testing.T) {
	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	svcs, err := initializeServices(options{configDir: "configs"}, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	ts := httptest.NewServer(newRouter(api.NewServer(svcs.game, nil, nil), mcp.NewClient("http://localhost:0")))
	defer ts.Close()

	if !externalAPIAvailable(context.Background(), ts.URL) {
		t.Error("Expected the test server to be detected as an API")
	}

	resp, err := http.Post(ts.URL+"/mcp", "application/json", strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`))
	if err != nil {
		t.Fatalf("POST /mcp: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 from /mcp, got %d", resp.StatusCode)
	}

	if externalAPIAvailable(context.Background(), "http://127.0.0.1:1") {
		t.Error("Nothing listens on port 1")
	}
}

func TestStartInternalAPI(t *testing.T) {
	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svcs, err := initializeServices(options{configDir: "configs"}, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	baseURL, httpServer, err := startInternalAPI(ctx, svcs.game, zap.NewNop())
	if err != nil {
		t.Fatalf("startInternalAPI: %v", err)
	}
	defer httpServer.Close()

	if !strings.HasPrefix(baseURL, "http://127.0.0.1:") {
		t.Errorf("Expected a loopback URL, got %s", baseURL)
	}
	if !externalAPIAvailable(ctx, baseURL) {
		t.Error("Internal API should answer its health check")
	}
}
