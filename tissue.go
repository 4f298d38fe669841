// Package tissue shows a function of several numbers as a form in a native
// window. Each submission calls the function with the form's current values
// and displays the result in the same window.
//
// Example usage:
//
//	err := tissue.Run(func(x []float32) float32 { return x[0] + x[1] },
//		[]tissue.Input{tissue.Number(234.289), tissue.Number(235.6)})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Run must be called from the main goroutine: the native window's event loop
// is bound to the main thread.
package tissue

import (
	"fmt"

	"tissue/internal/config"
	"tissue/internal/input"
	"tissue/internal/numeric"
	"tissue/internal/realtime"
	"tissue/internal/session"
	"tissue/internal/surface"
	"tissue/internal/surface/webview"
)

// Float is the set of numeric types a function can take and return.
type Float = numeric.Float

// Input describes one positional parameter: a Number, a Text or a Slider.
type Input = input.Descriptor

type (
	// Number is a numeric field with a default value.
	Number = input.Number
	// Text is a field with a textual default, parsed as a number on submit.
	Text = input.Text
	// Slider is a range control. Its bounds are not re-checked on submit.
	Slider = input.Slider
)

// Option overrides a setting loaded from the environment.
type Option func(*config.Config)

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(c *config.Config) { c.Title = title }
}

// WithSize sets the window size in pixels.
func WithSize(width, height int) Option {
	return func(c *config.Config) {
		c.Width = width
		c.Height = height
	}
}

// WithBrowser serves the form to a local browser on addr instead of opening
// a native window. addr must be a loopback address.
func WithBrowser(addr string) Option {
	return func(c *config.Config) {
		c.Surface = config.SurfaceBrowser
		c.Addr = addr
	}
}

// WithStylesheet inlines the CSS file at path and reapplies it on change.
func WithStylesheet(path string) Option {
	return func(c *config.Config) { c.Stylesheet = path }
}

// WithDebug toggles developer tools.
func WithDebug(debug bool) Option {
	return func(c *config.Config) { c.Debug = debug }
}

// Run shows the form for fn and blocks until the window is closed. It
// returns an error only if the window cannot be opened.
func Run[F Float](fn func([]F) F, inputs []Input, opts ...Option) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("tissue: %w", err)
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("tissue: %w", err)
	}

	host, err := session.NewHost(session.Func[F](fn), inputs, session.Options{
		Surface: surface.Options{
			Title:  cfg.Title,
			Width:  cfg.Width,
			Height: cfg.Height,
			Debug:  cfg.Debug,
			Addr:   cfg.Addr,
		},
		NewSurface: factory(cfg.Surface),
		Stylesheet: cfg.Stylesheet,
	})
	if err != nil {
		return fmt.Errorf("tissue: %w", err)
	}
	return host.Run()
}

func factory(kind string) surface.Factory {
	if kind == config.SurfaceBrowser {
		return realtime.Factory
	}
	return webview.New
}
