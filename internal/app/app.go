// Package app is the composition root: it builds settings, logging, stores,
// the event bus, the catalog service, the relay and the window once, and
// owns their lifecycle.
package app

import (
	"errors"
	"sync/atomic"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/ytget/credential-mapper/internal/catalog"
	"github.com/ytget/credential-mapper/internal/config"
	"github.com/ytget/credential-mapper/internal/events"
	"github.com/ytget/credential-mapper/internal/logger"
	"github.com/ytget/credential-mapper/internal/platform"
	"github.com/ytget/credential-mapper/internal/relay"
	"github.com/ytget/credential-mapper/internal/store"
	"github.com/ytget/credential-mapper/internal/ui"
)

const (
	AppID   = "com.ytget.credential-mapper"
	AppName = "Credential Mapper"
)

// App holds every long-lived component.
type App struct {
	fyne     fyne.App
	window   fyne.Window
	settings *config.Settings
	log      *logger.Logger
	bus      *events.InMemoryBus
	catalog  *catalog.Service
	relay    *relay.Listener
	ui       *ui.RootUI

	closing atomic.Bool
}

// New wires the application on top of fyneApp. Nothing is read or bound yet.
func New(fyneApp fyne.App, version string, relayOpts ...relay.Option) *App {
	fyneApp.Settings().SetTheme(ui.NewCompactTheme())

	settings := config.NewSettings(fyneApp)
	log := logger.New(settings.GetEnv())
	log.Info("starting", "version", version, "env", settings.GetEnv())

	bus := events.NewInMemoryBus(log)

	typeStore := store.NewTypeStore(func() string {
		return platform.TypesFilePath(settings.GetDataDirectory())
	}, log)
	mappingStore := store.NewMappingStore(func() string {
		return platform.MappingFilePath(settings.GetDataDirectory())
	}, log)

	svc := catalog.NewService(typeStore, mappingStore, bus, log)
	listener := relay.NewListener(bus, log, relayOpts...)

	window := fyneApp.NewWindow(AppName)
	root := ui.NewRootUI(window, fyneApp, settings, svc, listener, log)
	root.Subscribe(bus)

	a := &App{
		fyne:     fyneApp,
		window:   window,
		settings: settings,
		log:      log,
		bus:      bus,
		catalog:  svc,
		relay:    listener,
		ui:       root,
	}
	window.SetCloseIntercept(a.requestQuit)
	return a
}

// Start loads the data files and starts the relay when configured to.
func (a *App) Start() {
	a.log.Info("data files",
		"mappings", platform.MappingFilePath(a.settings.GetDataDirectory()),
		"types", platform.TypesFilePath(a.settings.GetDataDirectory()),
	)
	a.ui.Load()

	if a.settings.GetAutoStartRelay() {
		if err := a.relay.Start(); err != nil {
			a.log.Error("relay auto-start failed", "error", err)
		}
	}
}

// requestQuit stops the relay first and quits once it has shut down.
func (a *App) requestQuit() {
	if !a.closing.CompareAndSwap(false, true) {
		return
	}
	if !a.relay.Running() {
		a.fyne.Quit()
		return
	}
	a.relay.StopAsync(func(err error) {
		if err != nil && !errors.Is(err, relay.ErrNotRunning) {
			a.log.Warn("relay stop on quit failed", "error", err)
		}
		fyne.Do(a.fyne.Quit)
	})
}

// Shutdown stops a relay still running after the event loop has exited.
func (a *App) Shutdown() {
	if a.relay.Running() {
		if err := a.relay.Stop(); err != nil && !errors.Is(err, relay.ErrNotRunning) {
			a.log.Warn("relay stop on exit failed", "error", err)
		}
	}
	a.bus.Wait()
	a.log.Info("stopped")
}

// Run builds the application, shows the window and blocks until it quits.
func Run(version string) {
	envErr := config.LoadEnv()

	a := New(fyneapp.NewWithID(AppID), version)
	if envErr != nil {
		a.log.Warn("failed to load .env", "error", envErr)
	}
	a.Start()
	a.window.ShowAndRun()
	a.Shutdown()
}
