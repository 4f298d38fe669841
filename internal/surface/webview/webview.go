//go:build cgo

// Package webview hosts the form in a native window with an embedded
// webview. The event loop runs on the thread that calls Run, which must be
// the main thread; the webview binding locks it at init.
package webview

import (
	"errors"
	"fmt"

	wv "github.com/webview/webview_go"

	"tissue/internal/surface"
)

const (
	postBinding   = "__tissue_post"
	resultBinding = "__tissue_result"
)

const bridge = `window.tissue = {
	post: function (m) { return window.` + postBinding + `(String(m)); },
	result: function (r) { return window.` + resultBinding + `(String(r)); }
};`

// Surface is a webview-backed window.
type Surface struct {
	w wv.WebView
}

// New creates the window and binds the page callbacks to sink.
func New(opts surface.Options, sink surface.Sink) (surface.Surface, error) {
	w := wv.New(opts.Debug)
	if w == nil {
		return nil, errors.New("webview: create window failed")
	}

	w.SetTitle(opts.Title)
	w.SetSize(opts.Width, opts.Height, wv.HintNone)

	if err := w.Bind(postBinding, func(msg string) {
		sink(surface.Event{Kind: surface.EventMessage, Data: msg})
	}); err != nil {
		w.Destroy()
		return nil, fmt.Errorf("webview: bind %s: %w", postBinding, err)
	}
	if err := w.Bind(resultBinding, func(result string) {
		sink(surface.Event{Kind: surface.EventScriptResult, Data: result})
	}); err != nil {
		w.Destroy()
		return nil, fmt.Errorf("webview: bind %s: %w", resultBinding, err)
	}

	return &Surface{w: w}, nil
}

func (s *Surface) Bridge() string { return bridge }

// SetHTML and Eval go through Dispatch so they run on the UI thread no
// matter which goroutine calls them.
func (s *Surface) SetHTML(doc string) error {
	s.w.Dispatch(func() { s.w.SetHtml(doc) })
	return nil
}

func (s *Surface) Eval(script string) error {
	s.w.Dispatch(func() { s.w.Eval(script) })
	return nil
}

func (s *Surface) Run() error {
	s.w.Run()
	return nil
}

func (s *Surface) Terminate() { s.w.Terminate() }

func (s *Surface) Destroy() { s.w.Destroy() }
