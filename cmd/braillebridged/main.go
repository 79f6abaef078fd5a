// Copyright 2026 The braillebridge Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command braillebridged wires together the core, dispatch, update and
// protocol packages into a runnable service: it loads configuration and
// tables, constructs a display driver and screen source, starts the
// update loop and the protocol server, and runs the key-to-command
// translation loop until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/brltty-go/bridge"
	"github.com/brltty-go/bridge/clipboard"
	"github.com/brltty-go/bridge/config"
	"github.com/brltty-go/bridge/dispatch"
	"github.com/brltty-go/bridge/internal/simdriver"
	"github.com/brltty-go/bridge/keytable"
	"github.com/brltty-go/bridge/protocol"
	"github.com/brltty-go/bridge/texttable"
	"github.com/brltty-go/bridge/update"
)

// fsLoader resolves `include` directives against a single base
// directory, shared by both the text-table and key-table compilers
// (their Loader interfaces are structurally identical).
type fsLoader struct {
	dir string
}

func (l fsLoader) Load(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func main() {
	configPath := flag.String("config", "/etc/braillebridge/config.yaml", "path to the service configuration file")
	consoleLog := flag.Bool("console-log", false, "write human-readable logs to stderr instead of JSON")
	flag.Parse()

	logger := newLogger(*consoleLog)

	if err := run(*configPath, logger); err != nil {
		logger.Fatal().Err(err).Msg("braillebridged exiting")
	}
}

func newLogger(console bool) zerolog.Logger {
	if console {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func run(configPath string, logger zerolog.Logger) error {
	cfg := config.New(configPath)
	if err := cfg.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	textLoader := fsLoader{dir: filepath.Dir(cfg.TextTablePath())}
	textSource, err := os.ReadFile(cfg.TextTablePath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read text table: %w", err)
	}
	textTable, err := texttable.Compile(textLoader, filepath.Base(cfg.TextTablePath()), string(textSource))
	if err != nil {
		return fmt.Errorf("compile text table: %w", err)
	}

	keyLoader := fsLoader{dir: filepath.Dir(cfg.KeyTablePath())}
	keySource, err := os.ReadFile(cfg.KeyTablePath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read key table: %w", err)
	}
	keyTable, err := keytable.Compile(keyLoader, filepath.Base(cfg.KeyTablePath()), string(keySource))
	if err != nil {
		return fmt.Errorf("compile key table: %w", err)
	}

	driver, err := newConsoleDriver()
	if err != nil {
		return fmt.Errorf("construct display driver: %w", err)
	}
	if err := driver.Construct(nil); err != nil {
		return fmt.Errorf("initialize display driver: %w", err)
	}
	defer driver.Destruct()

	screen := simdriver.NewScreen(driver.CellCount(), 25)

	bus := bridge.NewBus()
	sessions := bridge.NewSessionRegistry()
	queue := dispatch.NewQueue()
	board := clipboard.New(bus)

	matcher := keytable.NewMatcher(keyTable)
	matcher.SetLongPressTimeout(cfg.LongPressTime())

	matcher.Emit = func(cmd bridge.Command) {
		queue.Enqueue(cmd)
	}

	toggles := dispatch.NewToggleHandler()
	toggles.Register(bridge.ParamSkipIdenticalLines, func(on bool) bool { return on })
	toggles.Register(bridge.ParamAudibleAlerts, func(on bool) bool { return on })

	screenHandler := dispatch.NewScreenHandler(sessions.Current(), screen)
	clipboardHandler := dispatch.NewClipboardHandler(board, nil, func(text string) {
		for _, r := range text {
			screen.InsertKey(r)
		}
	})
	inputHandler := dispatch.NewInputHandler(screen, func(int) { matcher.OnVTSwitch() })

	// Handler order is observable (spec §4.3): input, preferences,
	// toggle, misc, clipboard, screen. Preferences and misc need the
	// Pipeline itself, so the base stack starts with just input and the
	// rest is appended once the Pipeline exists.
	pipeline := dispatch.NewPipeline(queue, bus, []dispatch.Handler{inputHandler}, dispatch.ContextDefault, logger)

	prefsHandler := dispatch.NewPreferencesHandler(pipeline, cfg, nil, bus)
	miscHandler := dispatch.NewMiscHandler(pipeline, nil, nil, nil, func() {
		pipeline.DispatchOne(bridge.CmdRefresh)
	})
	pipeline.AppendHandlers(prefsHandler, toggles, miscHandler, clipboardHandler, screenHandler)

	loop := update.NewLoop(driver, screen, sessions, textTable, bus, queue, logger)

	authenticators := map[protocol.AuthKind]protocol.Authenticator{protocol.AuthNone: protocol.NoneAuthenticator{}}
	switch cfg.AuthMethod() {
	case "keyfile":
		auth, err := protocol.NewKeyfileAuthenticator(cfg.KeyfilePath())
		if err != nil {
			return fmt.Errorf("construct keyfile authenticator: %w", err)
		}
		authenticators = map[protocol.AuthKind]protocol.Authenticator{protocol.AuthKeyfile: auth}
	case "credentials":
		authenticators = map[protocol.AuthKind]protocol.Authenticator{protocol.AuthCredentials: protocol.NewCredentialsAuthenticator(uint32(os.Getuid()))}
	}

	display := protocol.NewDisplayOwnership()

	services := &protocol.Services{
		Driver:       driver,
		Tree:         protocol.NewTTYTree(),
		Params:       protocol.NewParameterBus(bus),
		Display:      display,
		Authenticate: authenticators,
		UnroutedKey: func(ev bridge.KeyEvent) {
			matcher.HandleKeyEvent(ev)
			loop.NeedsUpdate("key event")
		},
		OnDisplayOwnerChanged: func(owned bool) {
			loop.SetClientOwnsDisplay(owned)
		},
	}

	loop.OwnerWrite = func() ([]bridge.BrailleCell, string, bool) {
		owner := display.Owner()
		if owner == nil || owner.Conn == nil {
			return nil, "", false
		}
		req := owner.Conn.LastWrite()
		if req == nil {
			return nil, "", false
		}
		return req.Cells, req.Text, true
	}

	server := protocol.NewServer(cfg.SocketPath(), services, logger)
	if err := server.Listen(); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer server.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go loop.Run(ctx)
	go pipeline.Run(ctx)
	go func() {
		if err := server.Serve(); err != nil {
			logger.Debug().Err(err).Msg("protocol server stopped")
		}
	}()
	go readCommandLoop(ctx, driver, sessions, server)

	logger.Info().Str("socket", cfg.SocketPath()).Msg("braillebridged started")
	<-ctx.Done()
	logger.Info().Msg("braillebridged shutting down")
	return nil
}

// readCommandLoop drains the display driver's key events and routes
// each one to whichever protocol client is focused on the current VT's
// path, falling back to the local dispatcher (services.UnroutedKey) for
// keys no attached client accepts (spec §4.5.5).
func readCommandLoop(ctx context.Context, driver *consoleDriver, sessions *bridge.SessionRegistry, server *protocol.Server) {
	for {
		ev, ok, err := driver.ReadCommand(ctx)
		if err != nil || !ok {
			return
		}
		path := []int{sessions.Current().VT}
		server.RouteKey(path, ev, 0)
	}
}
