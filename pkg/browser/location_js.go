//go:build js && wasm

package browser

import "syscall/js"

// WindowLocation bridges a Router to window.location and the
// hashchange event.
type WindowLocation struct {
	window js.Value
}

// Window returns the Location for the current browser window.
func Window() *WindowLocation {
	return &WindowLocation{window: js.Global()}
}

// Fragment returns window.location.hash: the current fragment
// including "#", or "" when the URL has none.
func (l *WindowLocation) Fragment() string {
	return l.window.Get("location").Get("hash").String()
}

// SetFragment assigns window.location.hash. The browser records a
// history entry and emits hashchange when the fragment actually
// changes.
func (l *WindowLocation) SetFragment(fragment string) {
	l.window.Get("location").Set("hash", fragment)
}

// Listen registers fn for hashchange events. The returned stop
// function removes the listener and releases the callback; calling it
// again is a no-op.
func (l *WindowLocation) Listen(fn func()) (stop func()) {
	cb := js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	})
	l.window.Call("addEventListener", "hashchange", cb)

	released := false
	return func() {
		if released {
			return
		}
		released = true
		l.window.Call("removeEventListener", "hashchange", cb)
		cb.Release()
	}
}
