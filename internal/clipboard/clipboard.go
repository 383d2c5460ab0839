// Package clipboard provides the clipboard writers used by the form controller.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog/log"
)

// ErrUnsupported indicates no clipboard utility is available on this system
// (for example xclip/xsel/wl-copy missing on Linux).
var ErrUnsupported = errors.New("system clipboard is not available")

// ErrWrite indicates the clipboard utility failed to accept the text.
var ErrWrite = errors.New("failed to write to system clipboard")

// System writes to the operating system clipboard.
type System struct{}

// WriteText copies text to the system clipboard.
func (System) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	log.Debug().Int("bytes", len(text)).Msg("Copied text to system clipboard")
	return nil
}

// Browser is used when the copy happens client-side (the web form calls
// navigator.clipboard). It only records that a copy took place.
type Browser struct{}

// WriteText does nothing; the browser already holds the text.
func (Browser) WriteText(text string) error {
	log.Debug().Int("bytes", len(text)).Msg("Copy handled by browser")
	return nil
}
