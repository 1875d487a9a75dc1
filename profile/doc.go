// Package profile provides optional runtime profiling for confxml.
//
// Profiling is backed by [github.com/pkg/profile] and compiled in only with
// the "pprof" build tag. Without the tag every [Profiler] is a no-op and
// [Modes] is empty.
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/confxml"}
//	defer p.Start().Stop()
//
// Profile files are written to Path with names matching the mode, for
// example cpu.pprof. Analyze them with "go tool pprof":
//
//	go tool pprof -http=: ./confxml /tmp/confxml/cpu.pprof
//
// With the tag, [net/http/pprof] handlers are also registered on the default
// HTTP mux.
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
