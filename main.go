// Command game2048 starts the 2048 game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, config directory, debug logging and optional
// ngrok tunneling. Their defaults come from the environment (and .env).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/game2048/api"
	"github.com/wricardo/mcp-training/game2048/game/config"
	"github.com/wricardo/mcp-training/game2048/game/service"
	"github.com/wricardo/mcp-training/game2048/game/session"
	"github.com/wricardo/mcp-training/game2048/transport/mcp"
	"github.com/wricardo/mcp-training/game2048/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "2048 Game Server"
)

// options is the resolved configuration for one run
type options struct {
	host            string
	port            int
	configDir       string
	debug           bool
	ngrokEnabled    bool
	ngrokAuth       string
	ngrokDomain     string
	sessionTTL      time.Duration
	cleanupInterval time.Duration
	defaultPreset   string
	allowedOrigins  []string
}

func (o options) addr() string {
	return fmt.Sprintf("%s:%d", o.host, o.port)
}

func main() {
	// Load .env file if it exists
	dotenvErr := godotenv.Load()

	settings, err := config.LoadSettingsFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp(settings, dotenvErr)
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

// newApp builds the command tree. Flag defaults come from settings.
func newApp(settings config.Settings, dotenvErr error) *cli.Command {
	run := func(mode func(context.Context, options, *services, *zap.Logger) error) cli.ActionFunc {
		return func(ctx context.Context, cmd *cli.Command) error {
			opts := optionsFrom(cmd, settings)

			logger, err := newLogger(opts.debug)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer logger.Sync()

			switch {
			case dotenvErr == nil:
				logger.Info("loaded environment variables from .env file")
			case !errors.Is(dotenvErr, os.ErrNotExist):
				logger.Warn("error loading .env file", zap.Error(dotenvErr))
			}

			logger.Info("starting",
				zap.String("app", AppName),
				zap.String("version", Version),
				zap.String("mode", cmd.Name))

			svcs, err := initializeServices(opts, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize services: %w", err)
			}
			go svcs.sessions.RunCleanup(ctx, opts.sessionTTL, opts.cleanupInterval)

			return mode(ctx, opts, svcs, logger)
		}
	}

	return &cli.Command{
		Name:    "game2048",
		Usage:   "2048 rules engine with REST, WebSocket and MCP front ends",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: settings.Host, Usage: "HTTP server host"},
			&cli.IntFlag{Name: "port", Value: settings.Port, Usage: "HTTP server port"},
			&cli.StringFlag{Name: "config-dir", Value: settings.ConfigDir, Usage: "Directory containing board presets"},
			&cli.StringFlag{Name: "default-preset", Value: settings.DefaultPreset, Usage: "Preset for sessions created without one"},
			&cli.StringSliceFlag{Name: "allowed-origin", Value: settings.AllowedOrigins, Usage: "Origin allowed to open WebSockets, repeatable (default: any)"},
			&cli.BoolFlag{Name: "debug", Value: settings.Debug, Usage: "Enable debug logging"},
			&cli.BoolFlag{Name: "ngrok", Value: settings.NgrokEnabled, Usage: "Enable ngrok tunnel"},
			&cli.StringFlag{Name: "ngrok-auth", Value: settings.NgrokAuthToken, Usage: "Ngrok auth token (or NGROK_AUTHTOKEN)"},
			&cli.StringFlag{Name: "ngrok-domain", Value: settings.NgrokDomain, Usage: "Custom ngrok domain (optional)"},
		},
		Action: run(runHTTPServer),
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint (default)",
				Action:  run(runHTTPServer),
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server, starting an internal HTTP API if needed",
				Action:  run(runStdioMCP),
			},
		},
	}
}

// optionsFrom reads flags, falling back to settings for anything unset
func optionsFrom(cmd *cli.Command, settings config.Settings) options {
	return options{
		host:            cmd.String("host"),
		port:            cmd.Int("port"),
		configDir:       cmd.String("config-dir"),
		debug:           cmd.Bool("debug"),
		ngrokEnabled:    cmd.Bool("ngrok"),
		ngrokAuth:       cmd.String("ngrok-auth"),
		ngrokDomain:     cmd.String("ngrok-domain"),
		sessionTTL:      settings.SessionTTL,
		cleanupInterval: settings.CleanupInterval,
		defaultPreset:   cmd.String("default-preset"),
		allowedOrigins:  cmd.StringSlice("allowed-origin"),
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// services is the game service plus the managers behind it
type services struct {
	game     service.GameService
	sessions *session.Manager
	configs  *config.Manager
}

// initializeServices wires the session and config managers into the game service
func initializeServices(opts options, logger *zap.Logger) (*services, error) {
	configManager, err := config.NewManager(opts.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if opts.defaultPreset != "" {
		if err := configManager.SetDefault(opts.defaultPreset); err != nil {
			return nil, fmt.Errorf("failed to set default preset: %w", err)
		}
	}

	sessionManager := session.NewManagerWithLogger(logger)
	gameService := service.NewGameService(sessionManager, configManager, logger)

	return &services{game: gameService, sessions: sessionManager, configs: configManager}, nil
}

// reloadPresets drops cached presets so edits on disk take effect, then
// restores the configured default
func reloadPresets(configs *config.Manager, defaultPreset string) error {
	if err := configs.RefreshCache(); err != nil {
		return fmt.Errorf("failed to refresh presets: %w", err)
	}
	if defaultPreset != "" {
		if err := configs.SetDefault(defaultPreset); err != nil {
			return fmt.Errorf("failed to set default preset: %w", err)
		}
	}
	return nil
}

// reloadOnSignal calls reloadPresets for every value on sig until ctx is done
func reloadOnSignal(ctx context.Context, sig <-chan os.Signal, configs *config.Manager, defaultPreset string, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			if err := reloadPresets(configs, defaultPreset); err != nil {
				logger.Error("preset reload failed", zap.Error(err))
				continue
			}
			logger.Info("presets reloaded", zap.String("default", configs.GetDefault().Name))
		}
	}
}

// mcpHandler serves single JSON-RPC messages over plain HTTP POST
func mcpHandler(client *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := client.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// newRouter mounts the API at the root and the MCP endpoint at /mcp
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient))
	return mainRouter
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub and an /mcp proxy endpoint.
// If ngrok is enabled it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, opts options, svcs *services, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := websocket.NewHub(logger)
	hub.AllowOrigins(opts.allowedOrigins...)
	go hub.Run(ctx)

	// SIGHUP re-reads presets from the config directory
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go reloadOnSignal(ctx, hup, svcs.configs, opts.defaultPreset, logger)

	apiServer := api.NewServer(svcs.game, hub, logger)

	addr := opts.addr()
	mcpClient := mcp.NewClient("http://" + addr)
	mainRouter := newRouter(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.Info("HTTP server listening",
			zap.String("addr", addr),
			zap.String("rest", "http://"+addr+"/api"),
			zap.String("websocket", "ws://"+addr+"/ws?session=<session_id>"),
			zap.String("mcp", "http://"+addr+"/mcp"))

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	if opts.ngrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, opts, mainRouter, logger)
		}()
	}

	var err error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-serveErr:
		logger.Error("HTTP server failed", zap.Error(err))
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Warn("HTTP server shutdown error", zap.Error(shutdownErr))
	}

	wg.Wait()
	logger.Info("server stopped")
	return err
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is done
func runNgrokTunnel(ctx context.Context, opts options, handler http.Handler, logger *zap.Logger) {
	if opts.ngrokAuth == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	logger.Info("starting ngrok tunnel")

	tunnel := ngrokConfig.HTTPEndpoint()
	if opts.ngrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.ngrokDomain))
		logger.Info("using custom ngrok domain", zap.String("domain", opts.ngrokDomain))
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(opts.ngrokAuth))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", zap.Error(err))
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Warn("failed to close ngrok tunnel", zap.Error(err))
		}
	}()

	ngrokURL := tun.URL()
	logger.Info("ngrok tunnel established",
		zap.String("url", ngrokURL),
		zap.String("rest", ngrokURL+"/api"),
		zap.String("mcp", ngrokURL+"/mcp"))

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		logger.Warn("ngrok server error", zap.Error(err))
	}
	logger.Info("ngrok tunnel closed")
}

// externalAPIAvailable reports whether an API server answers at baseURL
func externalAPIAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalAPI serves the REST API on a random loopback port and returns its base URL
func startInternalAPI(ctx context.Context, gameService service.GameService, logger *zap.Logger) (string, *http.Server, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	httpServer := &http.Server{
		Handler: api.NewServer(gameService, hub, logger),
	}

	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("internal HTTP server error", zap.Error(err))
		}
	}()

	return "http://" + listener.Addr().String(), httpServer, nil
}

// runStdioMCP runs an MCP stdio server.
// It reuses an external API at localhost on the configured port when one
// answers, otherwise it starts an internal API on a random loopback port.
func runStdioMCP(ctx context.Context, opts options, svcs *services, logger *zap.Logger) error {
	baseURL := fmt.Sprintf("http://localhost:%d", opts.port)
	logger.Info("checking for external API server", zap.String("url", baseURL))

	if externalAPIAvailable(ctx, baseURL) {
		logger.Info("external API server found, using it for MCP", zap.String("url", baseURL))
	} else {
		internalURL, httpServer, err := startInternalAPI(ctx, svcs.game, logger)
		if err != nil {
			return err
		}
		defer httpServer.Close()

		baseURL = internalURL
		logger.Info("started internal HTTP server for MCP stdio", zap.String("url", baseURL))
	}

	mcpClient := mcp.NewClient(baseURL)
	logger.Info("MCP stdio server ready", zap.String("api", baseURL))

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
