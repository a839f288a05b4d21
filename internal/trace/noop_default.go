//go:build !trace

package trace

// Default is the Sink selected by this build: Noop unless the "trace"
// tag is set.
var Default Sink = Noop{}
