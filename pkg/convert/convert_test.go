package convert_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studyshare/pkg/convert"
	"github.com/aretw0/studyshare/pkg/core"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// pdfBytes builds a minimal single-page PDF with a valid xref table.
func pdfBytes(width, height int) []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] >>", width, height),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func decodeURI(t *testing.T, uri string) image.Image {
	t.Helper()
	data, mime, err := core.DecodeDataURI(uri)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(mime, "image/"), "mime %s", mime)
	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestConvert_Image(t *testing.T) {
	data := pngBytes(t, 40, 20)

	uri, err := convert.New().Convert(context.Background(), convert.File{Name: "scan.png", Data: data})

	require.NoError(t, err)
	assert.Equal(t, core.EncodeDataURI("image/png", data), uri)
}

func TestConvert_PDF(t *testing.T) {
	uri, err := convert.New().Convert(context.Background(), convert.File{Name: "essay.pdf", Data: pdfBytes(200, 100)})

	require.NoError(t, err)
	img := decodeURI(t, uri)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())
}

func TestConvert_PDFScale(t *testing.T) {
	c := convert.New(convert.WithPDFScale(1))

	uri, err := c.Convert(context.Background(), convert.File{Name: "a.pdf", MIME: "application/pdf", Data: pdfBytes(50, 80)})

	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 50, 80), decodeURI(t, uri).Bounds())
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name string
		file convert.File
	}{
		{"text file", convert.File{Name: "notes.txt", Data: []byte("hello")}},
		{"corrupt image", convert.File{Name: "x.png", MIME: "image/png", Data: []byte("not a png")}},
		{"corrupt pdf", convert.File{Name: "x.pdf", MIME: "application/pdf", Data: []byte("%PDF-1.4 garbage")}},
		{"empty", convert.File{Name: "empty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := convert.New().Convert(context.Background(), tt.file)

			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrConversion)
			var convErr *convert.ConversionError
			assert.True(t, errors.As(err, &convErr))
		})
	}
}

func TestConvert_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := convert.New().Convert(ctx, convert.File{Name: "a.png", Data: pngBytes(t, 2, 2)})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestThumbnail(t *testing.T) {
	full := core.EncodeDataURI("image/png", pngBytes(t, 400, 200))
	ctx := context.Background()

	same, err := convert.New().Thumbnail(ctx, full)
	require.NoError(t, err)
	assert.Equal(t, full, same, "no width keeps the full image")

	small, err := convert.New(convert.WithThumbnailWidth(100)).Thumbnail(ctx, full)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 50), decodeURI(t, small).Bounds())

	wide, err := convert.New(convert.WithThumbnailWidth(1000)).Thumbnail(ctx, full)
	require.NoError(t, err)
	assert.Equal(t, full, wide, "narrow images are not upscaled")

	remote := "https://images.pexels.com/photos/6224/hands-people-woman-working.jpg"
	got, err := convert.New(convert.WithThumbnailWidth(100)).Thumbnail(ctx, remote)
	require.NoError(t, err)
	assert.Equal(t, remote, got)
}

func TestDetectMIME(t *testing.T) {
	assert.Equal(t, "image/png", convert.DetectMIME(convert.File{Data: pngBytes(t, 1, 1)}))
	assert.Equal(t, "image/jpeg", convert.DetectMIME(convert.File{MIME: "image/jpeg; q=1"}))
	assert.Equal(t, "application/pdf", convert.DetectMIME(convert.File{Data: pdfBytes(10, 10)}))
	assert.Equal(t, "application/pdf", convert.DetectMIME(convert.File{Name: "doc.PDF"}))
	assert.Equal(t, "application/octet-stream", convert.DetectMIME(convert.File{Name: "blob"}))
}

func TestAccepts(t *testing.T) {
	assert.True(t, convert.Accepts(convert.File{Name: "a.png", Data: pngBytes(t, 1, 1)}))
	assert.True(t, convert.Accepts(convert.File{Name: "a.pdf", Data: pdfBytes(1, 1)}))
	assert.True(t, convert.Accepts(convert.File{Name: "photo.jpg"}))
	assert.False(t, convert.Accepts(convert.File{Name: "notes.txt", Data: []byte("plain text")}))
	assert.False(t, convert.Accepts(convert.File{Name: "archive.zip", MIME: "application/zip"}))
}
