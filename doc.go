// Package depthlog augments rs/zerolog with call-depth-aware
// formatting: a per-goroutine nesting counter raised and lowered by
// scope tokens, surfaced as a %D pattern token in logfmt file output
// and as depth-proportional indentation on the console.
//
// Key features
//   - Goroutine-local depth counter with a defer-friendly scope guard
//   - Single-character pattern mini-language with pluggable tokens
//   - Indenting console decorator with ANSI-colored function names
//   - File rotation via lumberjack with a logfmt reference layout
//   - Offline call-tree reconstruction from logfmt output (tree/)
//
// Typical usage
//
//	svc, err := depthlog.Init(depthlog.DefaultConfig())
//	if err != nil { panic(err) }
//	defer svc.Close()
//
//	func handle() {
//		defer depthlog.Enter().Exit()
//		svc.Infof("processing")       // indented one level on console
//	}
package depthlog
