package model

import "time"

// FlashKind categorizes one-shot messages shown on the next rendered page.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Session is the server-side state of one browser session.
// It is stored in Redis keyed by an opaque id carried in a cookie.
type Session struct {
	ID        string                 `json:"-"`
	UserID    string                 `json:"user_id,omitempty"`
	Username  string                 `json:"username,omitempty"`
	ReturnTo  string                 `json:"return_to,omitempty"`
	Flash     map[FlashKind][]string `json:"flash,omitempty"`
	CreatedAt time.Time              `json:"created_at"`

	dirty bool
	renew bool
}

// NewSession returns an empty, unsaved session.
func NewSession() *Session {
	return &Session{CreatedAt: time.Now().UTC()}
}

// IsAuthenticated reports whether a user is logged in on this session.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != ""
}

// Login binds the user to the session and requests an id rotation.
func (s *Session) Login(user *User) {
	s.UserID = user.ID
	s.Username = user.Username
	s.renew = true
	s.dirty = true
}

// Logout removes the user from the session. Pending flashes survive.
func (s *Session) Logout() {
	s.UserID = ""
	s.Username = ""
	s.ReturnTo = ""
	s.renew = true
	s.dirty = true
}

// AddFlash queues a message for the next rendered page.
func (s *Session) AddFlash(kind FlashKind, message string) {
	if s.Flash == nil {
		s.Flash = make(map[FlashKind][]string)
	}
	s.Flash[kind] = append(s.Flash[kind], message)
	s.dirty = true
}

// PopFlashes returns all queued messages and clears them.
func (s *Session) PopFlashes() map[FlashKind][]string {
	if len(s.Flash) == 0 {
		return nil
	}
	flashes := s.Flash
	s.Flash = nil
	s.dirty = true
	return flashes
}

// RememberReturnTo records the pending destination unless one is already set.
// Returns true if the destination was recorded.
func (s *Session) RememberReturnTo(path string) bool {
	if s.ReturnTo != "" || path == "" {
		return false
	}
	s.ReturnTo = path
	s.dirty = true
	return true
}

// ConsumeReturnTo returns the pending destination and clears it.
func (s *Session) ConsumeReturnTo() string {
	dest := s.ReturnTo
	if dest != "" {
		s.ReturnTo = ""
		s.dirty = true
	}
	return dest
}

// IsDirty reports whether the session changed since it was loaded.
func (s *Session) IsDirty() bool {
	return s.dirty
}

// NeedsRenewal reports whether the session id must be rotated on save.
func (s *Session) NeedsRenewal() bool {
	return s.renew
}

// MarkSaved clears the change-tracking flags after a successful save.
func (s *Session) MarkSaved() {
	s.dirty = false
	s.renew = false
}
