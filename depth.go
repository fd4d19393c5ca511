package depthlog

import (
	"sync"

	"github.com/petermattis/goid"
	"go.uber.org/atomic"
)

// depths maps a goroutine id to its nesting counter. Each entry is
// mutated only by the goroutine it belongs to; the map itself is the
// only shared structure. Entries are removed when the counter returns
// to zero so the map does not grow with goroutine churn.
var depths sync.Map // int64 -> *atomic.Int64

// Depth returns the calling goroutine's current nesting depth.
// A goroutine that never entered a scope reads 0.
func Depth() int {
	v, ok := depths.Load(goid.Get())
	if !ok {
		return 0
	}
	return int(v.(*atomic.Int64).Load())
}

// enter raises the calling goroutine's counter by one.
func enter() int64 {
	gid := goid.Get()
	v, ok := depths.Load(gid)
	if !ok {
		v, _ = depths.LoadOrStore(gid, atomic.NewInt64(0))
	}
	return v.(*atomic.Int64).Inc()
}

// leave lowers the calling goroutine's counter by one. Lowering past
// zero is silently clamped: a mismatched guard is tolerated, never
// turned into a negative depth.
func leave() {
	gid := goid.Get()
	v, ok := depths.Load(gid)
	if !ok {
		return
	}
	c := v.(*atomic.Int64)
	if c.Load() <= 0 {
		depths.Delete(gid)
		return
	}
	if c.Dec() == 0 {
		depths.Delete(gid)
	}
}
