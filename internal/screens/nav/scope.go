package nav

import (
	"context"

	"github.com/google/uuid"
)

// Stamp identifies the screen instance and load generation a result
// belongs to.
type Stamp struct {
	ScreenID string
	Gen      int
}

// Scope is the lifetime of one screen instance. Its context is cancelled
// on Dispose, and each Begin supersedes earlier loads.
type Scope struct {
	id     string
	gen    int
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScope returns a live scope with a fresh screen id.
func NewScope() *Scope {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scope{id: uuid.NewString(), ctx: ctx, cancel: cancel}
}

// Begin starts a new load generation.
func (s *Scope) Begin() (context.Context, Stamp) {
	s.gen++
	return s.ctx, Stamp{ScreenID: s.id, Gen: s.gen}
}

// Peek returns the context and stamp of the current generation without
// superseding it. Used for writes that must not cancel a pending load.
func (s *Scope) Peek() (context.Context, Stamp) {
	return s.ctx, Stamp{ScreenID: s.id, Gen: s.gen}
}

// Current reports whether st belongs to this live scope's latest
// generation.
func (s *Scope) Current(st Stamp) bool {
	return s.ctx.Err() == nil && st.ScreenID == s.id && st.Gen == s.gen
}

// Owns reports whether st was issued by this live scope, in any
// generation.
func (s *Scope) Owns(st Stamp) bool {
	return s.ctx.Err() == nil && st.ScreenID == s.id
}

// Dispose cancels in-flight work. Results arriving afterwards are stale.
func (s *Scope) Dispose() {
	s.cancel()
}
