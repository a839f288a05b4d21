//go:build trace

package trace

import (
	"fmt"
	"os"
)

// Verbose writes one line per event to stderr. Selected by the
// "trace" build tag in place of Noop.
type Verbose struct{}

func (Verbose) Step(pc int, opcode byte) {
	fmt.Fprintf(os.Stderr, "trace: pc=%d opcode=0x%02X\n", pc, opcode)
}

func (Verbose) Call(class, method, descriptor string) {
	fmt.Fprintf(os.Stderr, "trace: call %s.%s%s\n", class, method, descriptor)
}

// Default is the Sink selected by this build: Verbose when the
// "trace" tag is set.
var Default Sink = Verbose{}

var _ Sink = Verbose{}
