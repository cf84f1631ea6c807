// Package convert turns uploaded files into the data-URI images stored on
// notes. Images are kept as-is after validation; PDFs become a page-sized
// placeholder image derived from the first page geometry.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	"image/png"
	"log/slog"
	"math"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"github.com/aretw0/studyshare/pkg/core"
)

const (
	mimePDF = "application/pdf"
	mimePNG = "image/png"

	// DefaultPDFScale matches the viewport scale used to render a PDF page.
	DefaultPDFScale = 1.5

	// maxSide bounds either dimension of a generated image.
	maxSide = 8192
)

// File is an uploaded file.
type File struct {
	Name string
	// MIME is the declared media type. When empty it is sniffed from Data
	// and, failing that, guessed from the extension of Name.
	MIME string
	Data []byte
}

// Converter turns a file into a data-URI image.
type Converter interface {
	Convert(ctx context.Context, f File) (string, error)
}

// Thumbnailer derives a thumbnail from a full image data URI.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, fullImage string) (string, error)
}

// ConversionError reports a file that could not be turned into an image.
// It matches core.ErrConversion with errors.Is.
type ConversionError struct {
	File string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s: %v", e.File, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

func (e *ConversionError) Is(target error) bool { return target == core.ErrConversion }

// Option configures the default converter.
type Option func(*DefaultConverter)

// WithThumbnailWidth downscales thumbnails wider than n pixels. Zero keeps
// the thumbnail identical to the full image.
func WithThumbnailWidth(n int) Option {
	return func(c *DefaultConverter) { c.thumbWidth = n }
}

// WithPDFScale sets the factor applied to the PDF page size.
func WithPDFScale(scale float64) Option {
	return func(c *DefaultConverter) {
		if scale > 0 {
			c.pdfScale = scale
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *DefaultConverter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// DefaultConverter is the standard Converter and Thumbnailer.
type DefaultConverter struct {
	thumbWidth int
	pdfScale   float64
	logger     *slog.Logger
}

// New creates the default converter.
func New(opts ...Option) *DefaultConverter {
	c := &DefaultConverter{
		pdfScale: DefaultPDFScale,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert returns a data URI for f. Images are validated and embedded
// unchanged; PDFs are validated and replaced by a PNG of the first page's
// size times the PDF scale.
func (c *DefaultConverter) Convert(ctx context.Context, f File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mediaType := DetectMIME(f)
	switch {
	case strings.HasPrefix(mediaType, "image/"):
		if _, _, err := image.DecodeConfig(bytes.NewReader(f.Data)); err != nil {
			return "", &ConversionError{File: f.Name, Err: fmt.Errorf("invalid image: %w", err)}
		}
		return core.EncodeDataURI(mediaType, f.Data), nil

	case mediaType == mimePDF:
		data, err := c.renderPDF(f)
		if err != nil {
			return "", &ConversionError{File: f.Name, Err: err}
		}
		c.logger.Debug("pdf converted", "file", f.Name, "bytes", len(data))
		return core.EncodeDataURI(mimePNG, data), nil

	default:
		return "", &ConversionError{File: f.Name, Err: fmt.Errorf("unsupported file type %q", mediaType)}
	}
}

// Thumbnail downscales fullImage to the configured width, preserving the
// aspect ratio. Images already narrow enough, remote URLs and a zero width
// return fullImage unchanged.
func (c *DefaultConverter) Thumbnail(ctx context.Context, fullImage string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.thumbWidth <= 0 {
		return fullImage, nil
	}

	data, _, err := core.DecodeDataURI(fullImage)
	if errors.Is(err, core.ErrNotDataURI) {
		return fullImage, nil
	}
	if err != nil {
		return "", &ConversionError{File: "thumbnail", Err: err}
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", &ConversionError{File: "thumbnail", Err: fmt.Errorf("invalid image: %w", err)}
	}

	b := src.Bounds()
	if b.Dx() <= c.thumbWidth {
		return fullImage, nil
	}

	height := max(1, b.Dy()*c.thumbWidth/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, c.thumbWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return "", &ConversionError{File: "thumbnail", Err: err}
	}
	return core.EncodeDataURI(mimePNG, buf.Bytes()), nil
}

// renderPDF validates the document and returns a white PNG sized like its
// first page.
func (c *DefaultConverter) renderPDF(f File) (data []byte, err error) {
	width, height, err := firstPageSize(f.Data)
	if err != nil {
		return nil, err
	}

	w := clampSide(width * c.pdfScale)
	h := clampSide(height * c.pdfScale)

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// firstPageSize returns the MediaBox dimensions of page 1 in PDF points.
// US Letter is assumed when no MediaBox is found.
func firstPageSize(data []byte) (width, height float64, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid PDF: %w", err)
	}
	if reader.NumPage() == 0 {
		return 0, 0, errors.New("PDF has no pages")
	}

	page := reader.Page(1)
	if page.V.IsNull() {
		return 0, 0, errors.New("PDF first page is missing")
	}

	// MediaBox may be inherited from an ancestor Pages node.
	for node := page.V; !node.IsNull(); node = node.Key("Parent") {
		box := node.Key("MediaBox")
		if box.Len() == 4 {
			width = math.Abs(box.Index(2).Float64() - box.Index(0).Float64())
			height = math.Abs(box.Index(3).Float64() - box.Index(1).Float64())
			if width > 0 && height > 0 {
				return width, height, nil
			}
		}
	}
	return 612, 792, nil
}

func clampSide(v float64) int {
	return min(maxSide, max(1, int(math.Round(v))))
}

// DetectMIME returns the media type of f: the declared type without
// parameters, else the sniffed type, else the type implied by the extension.
func DetectMIME(f File) string {
	if f.MIME != "" {
		if mt, _, err := mime.ParseMediaType(f.MIME); err == nil {
			return mt
		}
	}
	if len(f.Data) > 0 {
		sniffed := http.DetectContentType(f.Data)
		if mt, _, err := mime.ParseMediaType(sniffed); err == nil && mt != "application/octet-stream" && mt != "text/plain" {
			return mt
		}
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Name))); byExt != "" {
		if mt, _, err := mime.ParseMediaType(byExt); err == nil {
			return mt
		}
	}
	return "application/octet-stream"
}

// Accepts reports whether f is a file type notes can be created from:
// any image or a PDF.
func Accepts(f File) bool {
	mt := DetectMIME(f)
	return strings.HasPrefix(mt, "image/") || mt == mimePDF
}

// IsImage reports whether f is an image.
func IsImage(f File) bool {
	return strings.HasPrefix(DetectMIME(f), "image/")
}

var _ Converter = (*DefaultConverter)(nil)
var _ Thumbnailer = (*DefaultConverter)(nil)
