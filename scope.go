package depthlog

import (
	"github.com/petermattis/goid"
	"go.uber.org/atomic"
)

// Scope is a single-use nesting token. Enter raises the calling
// goroutine's depth by one; Exit restores it. A Scope must not be
// copied and must be exited on the goroutine that created it.
//
// The intended form covers every exit path, including panics:
//
//	func handle() {
//		defer depthlog.Enter().Exit()
//		...
//	}
type Scope struct {
	gid  int64
	done atomic.Bool
}

// Enter increments the calling goroutine's depth and returns the
// matching token.
func Enter() *Scope {
	s := &Scope{gid: goid.Get()}
	enter()
	return s
}

// Exit decrements the depth of the goroutine that created the Scope.
// It is idempotent: the second and later calls do nothing. Calling
// Exit from a different goroutine is a no-op, so a leaked token can
// never disturb another goroutine's counter.
func (s *Scope) Exit() {
	if s == nil {
		return
	}
	if goid.Get() != s.gid {
		return
	}
	if !s.done.CompareAndSwap(false, true) {
		return
	}
	leave()
}
