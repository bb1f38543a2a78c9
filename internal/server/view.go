package server

import (
	"sync"

	"github.com/showgood/html-preview/internal/viewer"
)

// BrowserView adapts the command hub to the viewer.View contract. The
// "view handle" is whatever browser shell is connected to the hub; it stays
// alive as long as the hub is open, so a shell tab reconnecting keeps the
// same logical session.
type BrowserView struct {
	hub *CommandHub

	mu     sync.Mutex
	onLoad func()
}

func (v *BrowserView) Navigate(url string) error {
	v.hub.Broadcast(Command{Type: "navigate", Value: url})
	return nil
}

func (v *BrowserView) ExecuteScript(script string) error {
	v.hub.Broadcast(Command{Type: "eval", Value: script})
	return nil
}

func (v *BrowserView) IsAlive() bool {
	return !v.hub.Closed()
}

func (v *BrowserView) OnLoadComplete(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onLoad = fn
}

// LoadCompleted is invoked by the /api/loaded callback when the shell
// reports a finished navigation.
func (v *BrowserView) LoadCompleted() {
	v.mu.Lock()
	fn := v.onLoad
	v.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// ViewFactory creates browser views bound to the server's hub.
type ViewFactory struct {
	hub *CommandHub

	mu      sync.Mutex
	current *BrowserView
}

// NewViewFactory returns a factory creating views on hub.
func NewViewFactory(hub *CommandHub) *ViewFactory {
	return &ViewFactory{hub: hub}
}

// NewSession creates a fresh view already navigated to url.
func (f *ViewFactory) NewSession(url string) (viewer.View, error) {
	v := &BrowserView{hub: f.hub}
	f.mu.Lock()
	f.current = v
	f.mu.Unlock()
	if err := v.Navigate(url); err != nil {
		return nil, err
	}
	return v, nil
}

// Current returns the most recently created view, or nil.
func (f *ViewFactory) Current() *BrowserView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}
