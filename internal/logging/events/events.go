// Package events groups the structured trace emitters used across the
// application, keyed by subsystem.
package events

import "github.com/CPT-Dawn/VoidLink/internal/logging"

type AppTracer struct{}

type BtTracer struct{}

type UITracer struct{}

var (
	App = AppTracer{}
	Bt  = BtTracer{}
	UI  = UITracer{}
)

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Stop() {
	logging.Trace("app.stop", nil)
}

func (BtTracer) AdapterResolved(name string) {
	logging.Trace("bt.adapter", map[string]interface{}{"name": name})
}

func (BtTracer) DiscoveryStarted() {
	logging.Trace("bt.discovery", map[string]interface{}{"active": true})
}

func (BtTracer) DiscoveryStopped() {
	logging.Trace("bt.discovery", map[string]interface{}{"active": false})
}

func (BtTracer) WorkerStopped() {
	logging.Trace("bt.worker-stop", nil)
}

func (BtTracer) PairingPrompt(kind, device, pin string) {
	logging.Trace("bt.pairing-prompt", map[string]interface{}{
		"kind":   kind,
		"device": device,
		"pin":    pin,
	})
}

func (UITracer) CommandDropped(name string) {
	logging.Trace("ui.command-dropped", map[string]interface{}{"command": name})
}

func (UITracer) ModeChange(mode string) {
	logging.Trace("ui.mode", map[string]interface{}{"mode": mode})
}

func (UITracer) SortCycle(mode string) {
	logging.Trace("ui.sort", map[string]interface{}{"mode": mode})
}
