package bridge

import "sync"

// DisplayMode selects whether the update loop renders screen text or
// screen attributes (spec §3).
type DisplayMode int

const (
	DisplayText DisplayMode = iota
	DisplayAttribute
)

// Session is the per-virtual-terminal state owned by the update loop
// (spec §3). Sessions are created lazily on first reference to a VT and
// destroyed on VT removal or process exit.
type Session struct {
	VT               int
	Window           Window
	TrackCursor      bool
	HideCursor       bool
	DisplayMode      DisplayMode
	ShowScreenCursor bool
	Sliding          bool
	SkipBlankWindows bool
}

// newSession returns a Session with the defaults a freshly attached VT
// should start with.
func newSession(vt int) *Session {
	return &Session{
		VT:               vt,
		TrackCursor:      true,
		ShowScreenCursor: true,
		DisplayMode:      DisplayText,
	}
}

// SessionRegistry owns the set of live Sessions, keyed by VT number. It
// is the update loop's table; nothing else mutates it directly.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[int]*Session
	current  int
}

// NewSessionRegistry returns an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[int]*Session)}
}

// Get returns the Session for vt, creating it with defaults if absent.
func (r *SessionRegistry) Get(vt int) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[vt]
	if !ok {
		s = newSession(vt)
		r.sessions[vt] = s
	}
	return s
}

// Destroy removes the Session for vt, if any.
func (r *SessionRegistry) Destroy(vt int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, vt)
	if r.current == vt {
		r.current = 0
	}
}

// Current returns the Session of the currently selected VT.
func (r *SessionRegistry) Current() *Session {
	r.mu.Lock()
	vt := r.current
	r.mu.Unlock()
	return r.Get(vt)
}

// SetCurrent changes which VT is considered current.
func (r *SessionRegistry) SetCurrent(vt int) {
	r.mu.Lock()
	r.current = vt
	r.mu.Unlock()
}

// CurrentVT reports the VT number considered current.
func (r *SessionRegistry) CurrentVT() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}
