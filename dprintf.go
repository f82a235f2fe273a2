package coredb

import (
	"log"
	"os"
)

// debugEnabled gates DPrintf on the COREDB_DEBUG environment variable,
// following the same opt-in verbose-tracing convention the teacher package
// uses for its own DPrintf.
var debugEnabled = os.Getenv("COREDB_DEBUG") != ""

// DPrintf logs a trace line when COREDB_DEBUG is set, and is a no-op
// otherwise. Internal state transitions (page caching, eviction, page
// creation, table registration) are traced through it rather than through a
// structured logging package -- the engine has no externally consumed log
// stream, only debug tracing.
func DPrintf(format string, args ...any) {
	if debugEnabled {
		log.Printf(format, args...)
	}
}
