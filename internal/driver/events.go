package driver

import "time"

// EventKind tells whether a file entered or left the pipeline.
type EventKind int

const (
	// EventFileStart indicates that a worker picked up a file.
	EventFileStart EventKind = iota
	EventFileDone
)

// Event describes a per-file progress boundary during CheckDir.
type Event struct {
	Kind    EventKind
	Path    string
	Index   int // position in the sorted file list
	Total   int
	Errors  int           // diagnostics with error severity, EventFileDone only
	Cached  bool          // result replayed from the disk cache
	Elapsed time.Duration // EventFileDone only
}

// Observer receives progress events. CheckDir calls it from worker
// goroutines, so implementations must be safe for concurrent use.
type Observer func(Event)

func (o Observer) emit(e Event) {
	if o != nil {
		o(e)
	}
}
