package viewer

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/showgood/html-preview/internal/document"
	perrors "github.com/showgood/html-preview/internal/errors"
	"github.com/showgood/html-preview/internal/metrics"
)

// blankURL is the intermediate navigation target used to force a reload
// when only the fragment changes. The underlying widget does not fire a
// load-complete signal for fragment-only navigation.
const blankURL = "about:blank"

// Session is one live preview bound to a view handle. The handle is reused
// across generations; a session is only replaced when its view is gone.
type Session struct {
	ID     string
	view   View
	url    string
	assist bool
	source *document.Source
	keymap map[string]func() error
}

// URL returns the currently displayed URL.
func (s *Session) URL() string { return s.url }

// NavigationAssist reports whether assist mode is on.
func (s *Session) NavigationAssist() bool { return s.assist }

// Source returns the document that last drove this session.
func (s *Session) Source() *document.Source { return s.source }

// Manager owns the single shared preview identity: the one logical display
// slot reused across generation runs.
type Manager struct {
	mu       sync.Mutex
	factory  Factory
	identity string
	active   *Session
	rec      metrics.Recorder

	// Host callbacks around load completion. The editor is raised first,
	// the view presented, and focus restored to the editor so the author
	// keeps typing context. Nil callbacks are skipped.
	RaiseEditor func(*document.Source)
	PresentView func(*Session)
	FocusEditor func(*document.Source)
}

// NewManager returns a session manager creating views through factory and
// tagging sessions with the shared preview identity.
func NewManager(factory Factory, identity string, rec metrics.Recorder) *Manager {
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	return &Manager{factory: factory, identity: identity, rec: rec}
}

// Identity returns the shared preview display identity.
func (m *Manager) Identity() string { return m.identity }

// Active returns the live session, or nil.
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Display shows url for doc in the shared preview session. A live session
// is navigated in place; otherwise a fresh view is created. assist marks
// whether the run's generator wants navigation-assist mode after load.
// Replace-vs-reuse is decided under one lock so no duplicate session can
// leak.
func (m *Manager) Display(doc *document.Source, url string, assist bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s := m.active; s != nil {
		if s.view.IsAlive() {
			s.assist = assist
			s.source = doc
			if needsBlankBounce(s.url, url) {
				// Fragment navigation within the same output is
				// same-document: no reload, no load-complete signal.
				// Bounce through a blank page to force a real load of the
				// regenerated content.
				if err := s.view.Navigate(blankURL); err != nil {
					return err
				}
			}
			s.url = url
			return s.view.Navigate(url)
		}
		slog.Debug("replacing preview session",
			"session", s.ID, "identity", m.identity,
			"error", perrors.NewStaleSession(s.ID))
		m.active = nil
		m.rec.SetLiveSessions(0)
	}

	view, err := m.factory.NewSession(url)
	if err != nil {
		return err
	}
	s := &Session{
		ID:     uuid.NewString(),
		view:   view,
		url:    url,
		assist: assist,
		source: doc,
	}
	view.OnLoadComplete(func() { m.onLoadComplete(s) })
	m.active = s
	m.rec.SetLiveSessions(1)
	return nil
}

// onLoadComplete resumes orchestration once the view finished loading:
// editor to the foreground, view presented, assist toggled for the run's
// generator, focus back on the editor.
func (m *Manager) onLoadComplete(s *Session) {
	m.mu.Lock()
	if m.active != s {
		m.mu.Unlock()
		return
	}
	src, assist := s.source, s.assist
	raise, present, focus := m.RaiseEditor, m.PresentView, m.FocusEditor
	m.mu.Unlock()

	if raise != nil {
		raise(src)
	}
	if present != nil {
		present(s)
	}
	if err := m.ToggleNavigationAssist(s, assist); err != nil {
		slog.Debug("navigation assist toggle failed", "error", err)
	}
	if focus != nil {
		focus(src)
	}
}

// ToggleNavigationAssist intercepts the fixed navigation key set for the
// session when on, forwarding each key as a scripted key trigger into the
// rendered view. When off the keys pass through to default handling.
func (m *Manager) ToggleNavigationAssist(s *Session, on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.assist = on
	if !on {
		s.keymap = nil
		return nil
	}
	s.keymap = make(map[string]func() error, len(NavigationKeys))
	for _, k := range NavigationKeys {
		script := triggerScript(k.Code)
		view := s.view
		s.keymap[k.Name] = func() error { return view.ExecuteScript(script) }
	}
	return nil
}

// HandleKey routes one named key pressed in the session's input scope.
// It returns true when the key was intercepted and forwarded; false means
// default handling applies.
func (m *Manager) HandleKey(name string) bool {
	m.mu.Lock()
	s := m.active
	var fn func() error
	if s != nil && s.assist {
		fn = s.keymap[name]
	}
	m.mu.Unlock()

	if fn == nil {
		return false
	}
	if err := fn(); err != nil {
		slog.Debug("key forward failed", "key", name, "error", err)
	}
	return true
}

// needsBlankBounce reports whether navigating from current to next must go
// through the blank intermediate page. That is the case whenever both URLs
// name the same output and a fragment is involved, including next == current:
// repeating a fragment URL after regeneration would otherwise be treated as
// same-document navigation and never fetch the new content.
func needsBlankBounce(current, next string) bool {
	if stripFragment(current) != stripFragment(next) {
		return false
	}
	return hasFragment(current) || hasFragment(next)
}

func hasFragment(u string) bool {
	return strings.IndexByte(u, '#') >= 0
}

func stripFragment(u string) string {
	if i := strings.IndexByte(u, '#'); i >= 0 {
		return u[:i]
	}
	return u
}
