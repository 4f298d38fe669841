package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/google/uuid"

	"tissue/internal/form"
	"tissue/internal/input"
	"tissue/internal/numeric"
	"tissue/internal/protocol"
	"tissue/internal/surface"
	"tissue/internal/watcher"
)

const eventBufferSize = 64

// ErrInvocation reports a function call that panicked instead of returning.
var ErrInvocation = errors.New("function invocation failed")

// Func is the function a session evaluates on each submission. It receives
// one value per input, in input order.
type Func[F numeric.Float] func([]F) F

// Options configure a Host.
type Options struct {
	Surface    surface.Options
	NewSurface surface.Factory
	// Stylesheet is an optional CSS file inlined into the form and
	// re-applied whenever it changes.
	Stylesheet string
}

type eventKind int

const (
	eventSubmit eventKind = iota
	eventScriptResult
	eventStylesheet
)

type event struct {
	kind eventKind
	data string
}

// Host runs one window: it renders the form, evaluates submissions and
// writes results back into the page.
type Host[F numeric.Float] struct {
	id     string
	fn     Func[F]
	inputs []input.Descriptor
	opts   Options

	handle Cell[surface.Surface]
	events chan event
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.RWMutex
	state State

	// Owned by the dispatch goroutine once the session is running.
	bridge     string
	stylesheet string
}

// NewHost validates inputs and prepares a session. Nothing is shown until Run.
func NewHost[F numeric.Float](fn Func[F], inputs []input.Descriptor, opts Options) (*Host[F], error) {
	if fn == nil {
		return nil, fmt.Errorf("nil function")
	}
	if opts.NewSurface == nil {
		return nil, fmt.Errorf("no surface factory")
	}
	if err := input.Validate(inputs); err != nil {
		return nil, err
	}

	// The context ends when the session closes.
	ctx, cancel := context.WithCancel(context.Background())
	return &Host[F]{
		id:     uuid.New().String(),
		fn:     fn,
		inputs: append([]input.Descriptor(nil), inputs...),
		opts:   opts,
		events: make(chan event, eventBufferSize),
		ctx:    ctx,
		cancel: cancel,
		state:  StateStarting,
	}, nil
}

// ID identifies the session in logs.
func (h *Host[F]) ID() string { return h.id }

// State returns the current lifecycle state.
func (h *Host[F]) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

func (h *Host[F]) setState(s State) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
}

// Run opens the window and blocks until it is closed. Errors before the
// window opens wrap ErrStartup; a submission never makes Run return.
func (h *Host[F]) Run() error {
	if h.State() != StateStarting {
		return fmt.Errorf("session %s: already %s", h.id, h.State())
	}
	if !acquire() {
		return ErrSessionActive
	}
	defer release()

	if path := h.opts.Stylesheet; path != "" {
		css, err := os.ReadFile(path)
		if err != nil {
			return h.abort(fmt.Errorf("%w: read stylesheet: %w", ErrStartup, err))
		}
		h.stylesheet = string(css)
	}

	sf, err := h.opts.NewSurface(h.opts.Surface, h.sink)
	if err != nil {
		return h.abort(fmt.Errorf("%w: create surface: %w", ErrStartup, err))
	}
	h.handle.Set(sf)
	h.bridge = sf.Bridge()

	doc, err := h.render()
	if err != nil {
		sf.Destroy()
		return h.abort(fmt.Errorf("%w: %w", ErrStartup, err))
	}
	if err := sf.SetHTML(doc); err != nil {
		sf.Destroy()
		return h.abort(fmt.Errorf("%w: load document: %w", ErrStartup, err))
	}

	var styleWatch *watcher.Watcher
	if path := h.opts.Stylesheet; path != "" {
		styleWatch, err = watcher.New(path, func(_ string, content []byte) {
			h.post(event{kind: eventStylesheet, data: string(content)})
		})
		if err != nil {
			// Non-fatal: the form works without live restyling.
			log.Printf("session %s: failed to watch stylesheet %s: %v", h.id, path, err)
		}
	}

	h.setState(StateRunning)
	log.Printf("session %s: %s has started with %d inputs", h.id, h.opts.Surface.Title, len(h.inputs))

	h.wg.Add(1)
	go h.dispatch()

	runErr := sf.Run()

	h.setState(StateClosed)
	h.cancel()
	h.wg.Wait()
	if styleWatch != nil {
		styleWatch.Close()
	}
	sf.Destroy()
	log.Printf("session %s: window closed", h.id)

	if runErr != nil {
		return fmt.Errorf("session %s: event loop: %w", h.id, runErr)
	}
	return nil
}

// abort ends a session that never reached the event loop.
func (h *Host[F]) abort(err error) error {
	h.setState(StateClosed)
	h.cancel()
	return err
}

// sink is handed to the surface. It may run on any goroutine, including
// before the surface factory returns.
func (h *Host[F]) sink(ev surface.Event) {
	switch ev.Kind {
	case surface.EventMessage:
		h.post(event{kind: eventSubmit, data: ev.Data})
	case surface.EventScriptResult:
		h.post(event{kind: eventScriptResult, data: ev.Data})
	default:
		log.Printf("session %s: unknown surface event %q", h.id, ev.Kind)
	}
}

// post queues ev for the dispatch loop. Events arriving after close are
// dropped.
func (h *Host[F]) post(ev event) {
	select {
	case h.events <- ev:
	case <-h.ctx.Done():
	}
}

// dispatch is the single consumer of page events.
func (h *Host[F]) dispatch() {
	defer h.wg.Done()

	for {
		select {
		case <-h.ctx.Done():
			return
		case ev := <-h.events:
			h.handleEvent(ev)
		}
	}
}

func (h *Host[F]) handleEvent(ev event) {
	switch ev.kind {
	case eventSubmit:
		h.submit(ev.data)
	case eventScriptResult:
		log.Printf("session %s: script result: %s", h.id, ev.data)
	case eventStylesheet:
		h.restyle(ev.data)
	}
}

// submit evaluates one submission and requests the output update. A bad
// submission is logged and leaves the output untouched.
func (h *Host[F]) submit(msg string) {
	result, err := h.evaluate(msg)
	if err != nil {
		log.Printf("session %s: dropped submission: %v", h.id, err)
		return
	}

	sf, err := h.handle.Get(h.ctx)
	if err != nil {
		return
	}
	if err := sf.Eval(protocol.Reported(protocol.OutputScript(result))); err != nil {
		log.Printf("session %s: output update failed: %v", h.id, err)
	}
}

// evaluate parses msg, calls the function and formats its result.
func (h *Host[F]) evaluate(msg string) (string, error) {
	values, err := protocol.ParseSubmission[F](msg, len(h.inputs))
	if err != nil {
		return "", err
	}

	y, err := h.invoke(values)
	if err != nil {
		return "", err
	}
	return numeric.Format(y), nil
}

func (h *Host[F]) invoke(values []F) (y F, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInvocation, r)
		}
	}()
	return h.fn(values), nil
}

func (h *Host[F]) restyle(css string) {
	h.stylesheet = css
	doc, err := h.render()
	if err != nil {
		log.Printf("session %s: restyle failed: %v", h.id, err)
		return
	}

	sf, ok := h.handle.Load()
	if !ok {
		return
	}
	if err := sf.SetHTML(doc); err != nil {
		log.Printf("session %s: reload failed: %v", h.id, err)
	}
}

func (h *Host[F]) render() (string, error) {
	return form.Generate(h.inputs, form.Page{
		Title:      h.opts.Surface.Title,
		Stylesheet: h.stylesheet,
		Bridge:     h.bridge,
	})
}
