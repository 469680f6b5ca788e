package main

import (
	"context"
	"fmt"
	"os"

	"github.com/CPT-Dawn/VoidLink/internal/app"
	"github.com/CPT-Dawn/VoidLink/internal/bluetooth"
	"github.com/CPT-Dawn/VoidLink/internal/config"
	"github.com/CPT-Dawn/VoidLink/internal/event"
	"github.com/CPT-Dawn/VoidLink/internal/logging"
	"github.com/CPT-Dawn/VoidLink/internal/logging/events"
	"github.com/CPT-Dawn/VoidLink/internal/term"
	"github.com/CPT-Dawn/VoidLink/internal/theme"
	"github.com/CPT-Dawn/VoidLink/internal/ui"
)

const (
	commandBuffer = 32
	eventBuffer   = 64
)

func main() {
	cfg, err := config.LoadArgs(os.Args[1:], os.Environ())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(cfg.LogFile)
	logging.SetTraceEnabled(cfg.Trace)

	events.App.Start(map[string]interface{}{
		"tick_rate":       cfg.General.TickRate.String(),
		"scan_on_startup": cfg.General.ScanOnStartup,
	})

	if err := run(cfg); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	events.App.Stop()
}

func run(cfg *config.Config) error {
	session, err := bluetooth.NewSession()
	if err != nil {
		return fmt.Errorf("bluetooth session: %w", err)
	}

	commands := make(chan bluetooth.Command, commandBuffer)
	btEvents := make(chan bluetooth.Event, eventBuffer)

	worker := bluetooth.NewWorker(cfg, session, commands, btEvents)
	go func() {
		worker.Run()
		close(btEvents)
	}()

	terminal, err := term.Init()
	if err != nil {
		close(commands)
		return fmt.Errorf("terminal init: %w", err)
	}
	defer terminal.Restore()
	defer terminal.RecoverAndRestore()

	reader := term.NewReader(os.Stdin)
	mux := event.NewMux(btEvents, reader.Events(), cfg.General.TickRate)
	defer mux.Stop()

	state := app.New(cfg)
	renderer := ui.NewRenderer(theme.FromConfig(cfg.Theme.Palette))

	if cfg.General.ScanOnStartup {
		send(commands, bluetooth.StartScan{})
	}

	ctx := context.Background()
	for state.Running {
		width, height := terminal.Size()
		terminal.Draw(renderer.Frame(state, width, height))

		ev, err := mux.Next(ctx)
		if err != nil {
			break
		}

		switch e := ev.(type) {
		case event.Key:
			dispatch(state.HandleKey(e.Key), state, commands)
		case event.Tick:
			state.OnTick()
		case event.Bluetooth:
			state.HandleBluetooth(e.Event)
		case event.Resize:
			// Size is re-read before every draw; the event only forces
			// an immediate repaint.
		}
	}

	// Closing the command channel tells the worker to shut down.
	close(commands)
	return nil
}

func dispatch(action app.Action, state *app.App, commands chan<- bluetooth.Command) {
	switch a := action.(type) {
	case app.Quit:
		state.Running = false
	case app.SendCommand:
		send(commands, a.Command)
	}
}

// send never blocks the UI loop. A full command buffer means the worker is
// stuck on a long radio operation; dropping the command keeps the UI
// responsive and the drop is traced.
func send(commands chan<- bluetooth.Command, cmd bluetooth.Command) {
	select {
	case commands <- cmd:
	default:
		events.UI.CommandDropped(fmt.Sprintf("%T", cmd))
	}
}
