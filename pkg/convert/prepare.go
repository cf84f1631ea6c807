package convert

import (
	"context"
	"fmt"

	"github.com/aretw0/studyshare/pkg/core"
)

// PrepareRequest is the raw upload form.
type PrepareRequest struct {
	Title string
	Class string
	// Tags is the comma-separated tag list as typed.
	Tags string
	File File
	// Thumbnail is an optional custom thumbnail. It must be an image.
	Thumbnail *File
}

// Prepare converts an upload into a core.NoteInput ready for
// Collection.AddNote.
//
// Workflow:
//  1. Reject files that are neither images nor PDFs.
//  2. Convert the file into the full image.
//  3. Use the custom thumbnail when given, else derive one when conv is a
//     Thumbnailer. An empty thumbnail makes the collection reuse the full image.
//  4. Parse the tag list.
//
// Validation of title and class is left to AddNote.
func Prepare(ctx context.Context, conv Converter, req PrepareRequest) (core.NoteInput, error) {
	if !Accepts(req.File) {
		return core.NoteInput{}, &ConversionError{
			File: req.File.Name,
			Err:  fmt.Errorf("only images and PDF files are supported, got %s", DetectMIME(req.File)),
		}
	}

	full, err := conv.Convert(ctx, req.File)
	if err != nil {
		return core.NoteInput{}, err
	}

	var thumbnail string
	switch {
	case req.Thumbnail != nil:
		if !IsImage(*req.Thumbnail) {
			return core.NoteInput{}, fmt.Errorf("%w: thumbnail %s must be an image file", core.ErrValidation, req.Thumbnail.Name)
		}
		if thumbnail, err = conv.Convert(ctx, *req.Thumbnail); err != nil {
			return core.NoteInput{}, err
		}
	default:
		if t, ok := conv.(Thumbnailer); ok {
			if thumbnail, err = t.Thumbnail(ctx, full); err != nil {
				return core.NoteInput{}, err
			}
		}
	}

	return core.NoteInput{
		Title:     req.Title,
		Class:     req.Class,
		Tags:      core.ParseTags(req.Tags),
		FullImage: full,
		Thumbnail: thumbnail,
		FileName:  req.File.Name,
	}, nil
}
