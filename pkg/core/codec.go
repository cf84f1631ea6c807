package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the persisted timestamp format: ISO-8601, UTC, milliseconds.
// Decoding accepts any RFC 3339 timestamp.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// noteRecord is the persisted shape of a Note. Field names are fixed for
// compatibility with previously stored data.
type noteRecord struct {
	ID        recordID `json:"id"`
	Title     string   `json:"title"`
	Class     string   `json:"class"`
	Tags      []string `json:"tags"`
	Thumbnail string   `json:"thumbnail"`
	FullImage string   `json:"fullImage"`
	Date      string   `json:"date"`
	FileName  string   `json:"fileName,omitempty"`
}

// recordID is written as a JSON string but also accepts the numeric ids
// of older payloads.
type recordID string

func (id *recordID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = recordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = recordID(n.String())
	return nil
}

// EncodeNotes serializes notes into the persisted JSON array layout.
func EncodeNotes(notes []Note) ([]byte, error) {
	records := make([]noteRecord, len(notes))
	for i, n := range notes {
		tags := n.Tags
		if tags == nil {
			tags = []string{}
		}
		records[i] = noteRecord{
			ID:        recordID(n.ID),
			Title:     n.Title,
			Class:     n.Class,
			Tags:      tags,
			Thumbnail: n.Thumbnail,
			FullImage: n.FullImage,
			Date:      n.CreatedAt.UTC().Format(DateLayout),
			FileName:  n.FileName,
		}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("core.EncodeNotes: %w", err)
	}
	return data, nil
}

// DecodeNotes parses the persisted JSON array layout.
// Missing tags decode as an empty slice and missing fileName as "".
// A record without an id or with an unparseable date fails the whole payload.
func DecodeNotes(data []byte) ([]Note, error) {
	var records []noteRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("core.DecodeNotes: %w", err)
	}

	notes := make([]Note, 0, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("core.DecodeNotes: record %d: missing id", i)
		}
		created, err := time.Parse(time.RFC3339Nano, r.Date)
		if err != nil {
			return nil, fmt.Errorf("core.DecodeNotes: record %s: date: %w", r.ID, err)
		}
		notes = append(notes, Note{
			ID:        string(r.ID),
			Title:     r.Title,
			Class:     r.Class,
			Tags:      normalizeTags(r.Tags),
			Thumbnail: r.Thumbnail,
			FullImage: r.FullImage,
			CreatedAt: created.UTC(),
			FileName:  r.FileName,
		})
	}
	return notes, nil
}
