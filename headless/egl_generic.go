//go:build !linux

package headless

import (
	"errors"

	"github.com/richinsley/goshaderpreset/graphics"
	"github.com/rs/zerolog"
)

func NewHeadless(width, height int, logger zerolog.Logger) (graphics.Context, error) {
	return nil, errors.New("egl headless rendering is not supported on this platform")
}
