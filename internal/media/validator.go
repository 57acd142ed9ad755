package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

const (
	DefaultMaxBytes     = 5 * 1024 * 1024
	DefaultMaxDimension = 4000
)

type Format string

const (
	FormatJPEG Format = "JPEG"
	FormatPNG  Format = "PNG"
	FormatWEBP Format = "WEBP"
)

var formatsByMime = map[string]Format{
	"image/jpeg": FormatJPEG,
	"image/png":  FormatPNG,
	"image/webp": FormatWEBP,
}

func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatPNG:
		return ".png"
	case FormatWEBP:
		return ".webp"
	default:
		return ""
	}
}

var (
	ErrTooLarge           = errors.New("image file too large, maximum size is 5MB")
	ErrInvalidFormat      = errors.New("invalid image format, allowed formats: JPEG, PNG, WEBP")
	ErrInvalidImage       = errors.New("invalid image file")
	ErrDimensionsTooLarge = errors.New("image dimensions too large, maximum is 4000x4000")
)

// Validator checks uploaded images before they are stored.
type Validator struct {
	MaxBytes     int64
	MaxDimension int
}

func NewValidator() *Validator {
	return &Validator{
		MaxBytes:     DefaultMaxBytes,
		MaxDimension: DefaultMaxDimension,
	}
}

// Validate reads the whole image (up to MaxBytes+1) and returns its format and
// content. WEBP dimensions are not checked, there is no decoder for it in use.
func (v *Validator) Validate(r io.Reader) (Format, []byte, error) {
	content, err := io.ReadAll(io.LimitReader(r, v.MaxBytes+1))
	if err != nil {
		return "", nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(content)) > v.MaxBytes {
		return "", nil, ErrTooLarge
	}
	if len(content) == 0 {
		return "", nil, ErrInvalidImage
	}

	mtype := mimetype.Detect(content)
	format, ok := formatsByMime[mtype.String()]
	if !ok {
		return "", nil, ErrInvalidFormat
	}

	if format == FormatWEBP {
		return format, content, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return "", nil, ErrInvalidImage
	}
	if cfg.Width > v.MaxDimension || cfg.Height > v.MaxDimension {
		return "", nil, ErrDimensionsTooLarge
	}

	return format, content, nil
}
