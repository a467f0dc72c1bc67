// Package io defines the shared reader/writer contract implemented by the
// concrete dicom and metaimage format adapters.
package io

import (
	stdio "io"

	"github.com/itohio/EasyRobot/pkg/gamma/image"
)

// Reader decodes an image.Image from a format-specific byte stream.
type Reader interface {
	Read(r stdio.Reader) (image.Image, error)
}

// Writer encodes an image.Image to a format-specific byte stream.
type Writer interface {
	Write(w stdio.Writer, img image.Image) error
}
