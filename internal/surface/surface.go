// Package surface defines the contract between the session host and a
// rendering surface: a window that displays an HTML document, runs its
// scripts, and reports messages posted by the page.
package surface

// EventKind distinguishes messages coming from the page.
type EventKind string

const (
	// EventMessage carries a form submission posted through window.tissue.post.
	EventMessage EventKind = "message"
	// EventScriptResult carries the diagnostic outcome of an injected script.
	EventScriptResult EventKind = "script.result"
)

// Event is a single message from the page.
type Event struct {
	Kind EventKind
	Data string
}

// Sink receives page events. Surfaces may call it from any goroutine,
// including before their factory has returned.
type Sink func(Event)

// Options configure the window a surface creates.
type Options struct {
	Title  string
	Width  int
	Height int
	// Debug enables developer tools where the surface supports them.
	Debug bool
	// Addr is the listen address for surfaces served over loopback.
	Addr string
}

// Surface is a single window hosting one document.
type Surface interface {
	// Bridge returns the script that defines window.tissue.post and
	// window.tissue.result for this surface. It is embedded into the document.
	Bridge() string
	// SetHTML replaces the displayed document.
	SetHTML(doc string) error
	// Eval schedules script for execution in the page. It does not wait for
	// the script to run and is safe to call from any goroutine.
	Eval(script string) error
	// Run blocks until the window is closed.
	Run() error
	// Terminate asks the window to close, which makes Run return.
	Terminate()
	// Destroy releases the window after Run has returned.
	Destroy()
}

// Factory creates a surface that reports page events to sink.
type Factory func(opts Options, sink Sink) (Surface, error)
