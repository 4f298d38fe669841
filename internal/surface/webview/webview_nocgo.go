//go:build !cgo

package webview

import (
	"errors"

	"tissue/internal/surface"
)

// New reports that the native window is unavailable in builds without cgo.
func New(opts surface.Options, sink surface.Sink) (surface.Surface, error) {
	return nil, errors.New("webview: native window requires cgo; set TISSUE_SURFACE=browser")
}
