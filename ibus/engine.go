package ibus

import (
	"sync"

	"github.com/godbus/dbus/v5"

	"voz/bridge"
	"voz/log"
)

const ifaceEngine = "org.freedesktop.IBus.Engine"

// capSurroundingText is the IBus client capability bit for surrounding
// text support.
const capSurroundingText = 1 << 5

// Hooks are the engine lifecycle notifications the bridge wires into its
// dispatcher. All of them run on the bus dispatch goroutine; handlers
// must enqueue rather than touch the target directly.
type Hooks struct {
	FocusIn  func(e *Engine)
	FocusOut func(e *Engine)
	Released func(e *Engine)
}

// Engine is one text-insertion target: a voice-typing engine instance the
// daemon created for the currently focused client. It implements
// bridge.Target by emitting the corresponding engine signals; the daemon
// relays them to the focused application.
type Engine struct {
	conn     *dbus.Conn
	path     dbus.ObjectPath
	capsPath string
	hooks    Hooks

	mu          sync.Mutex
	surrounding bool
}

var _ bridge.Target = (*Engine)(nil)

// Commit atomically inserts text into the focused application.
func (e *Engine) Commit(text string) {
	e.emit("CommitText", textVariant(text, false))
}

// ShowPreview displays text as the transient preedit at the cursor.
// Preedit mode 0 (clear on focus change) keeps half-finished previews
// from being committed when the user clicks elsewhere.
func (e *Engine) ShowPreview(text string, underline bool) {
	e.emit("UpdatePreeditTextWithMode",
		textVariant(text, underline), textLength(text), true, uint32(0))
}

func (e *Engine) HidePreview() {
	e.emit("HidePreeditText")
}

func (e *Engine) DeleteBeforeCursor(count int) {
	if count <= 0 {
		return
	}
	e.emit("DeleteSurroundingText", int32(-count), uint32(count))
}

func (e *Engine) Capabilities() bridge.Capabilities {
	e.mu.Lock()
	defer e.mu.Unlock()
	return bridge.Capabilities{SurroundingText: e.surrounding}
}

func (e *Engine) Path() dbus.ObjectPath { return e.path }

func (e *Engine) emit(member string, values ...any) {
	if err := e.conn.Emit(e.path, ifaceEngine+"."+member, values...); err != nil {
		log.Warnf("emit %s: %v", member, err)
	}
}

func (e *Engine) writeCaps() {
	bridge.WriteCaps(e.capsPath, e.Capabilities())
}

// Methods below are called by the daemon over the bus.

// ProcessKeyEvent passes every key through untouched — this engine only
// injects text, it never intercepts typing.
func (e *Engine) ProcessKeyEvent(keyval, keycode, state uint32) (bool, *dbus.Error) {
	return false, nil
}

func (e *Engine) SetCapabilities(caps uint32) *dbus.Error {
	e.mu.Lock()
	e.surrounding = caps&capSurroundingText != 0
	surrounding := e.surrounding
	e.mu.Unlock()
	e.writeCaps()
	log.EngineCaps(surrounding)
	return nil
}

func (e *Engine) FocusIn() *dbus.Error {
	e.writeCaps()
	if e.hooks.FocusIn != nil {
		e.hooks.FocusIn(e)
	}
	return nil
}

func (e *Engine) FocusOut() *dbus.Error {
	if e.hooks.FocusOut != nil {
		e.hooks.FocusOut(e)
	}
	return nil
}

func (e *Engine) Reset() *dbus.Error {
	if e.hooks.FocusOut != nil {
		e.hooks.FocusOut(e)
	}
	return nil
}

func (e *Engine) Enable() *dbus.Error {
	log.Info("engine enabled")
	return nil
}

func (e *Engine) Disable() *dbus.Error {
	log.Info("engine disabled")
	if e.hooks.FocusOut != nil {
		e.hooks.FocusOut(e)
	}
	return nil
}

func (e *Engine) Destroy() *dbus.Error {
	if e.hooks.Released != nil {
		e.hooks.Released(e)
	}
	return nil
}

func (e *Engine) SetCursorLocation(x, y, w, h int32) *dbus.Error { return nil }

func (e *Engine) SetSurroundingText(text dbus.Variant, cursorPos, anchorPos uint32) *dbus.Error {
	return nil
}

func (e *Engine) PropertyActivate(name string, state uint32) *dbus.Error { return nil }

func (e *Engine) PageUp() *dbus.Error { return nil }

func (e *Engine) PageDown() *dbus.Error { return nil }

func (e *Engine) CursorUp() *dbus.Error { return nil }

func (e *Engine) CursorDown() *dbus.Error { return nil }
