// Package export reads a watch-history export into loosely-typed events.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// RawEvent is one entry of the export. Nothing in it is trusted: every field
// records whether it was present with the expected type.
type RawEvent struct {
	Time      OptionalString    `json:"time"`
	Title     OptionalString    `json:"title"`
	TitleURL  OptionalString    `json:"titleUrl"`
	Header    OptionalString    `json:"header"`
	Subtitles OptionalSubtitles `json:"subtitles"`
}

// OptionalString is a JSON string that may be missing, null, or of another type.
type OptionalString struct {
	Value   string
	Present bool
}

// Some returns a present OptionalString.
func Some(s string) OptionalString {
	return OptionalString{Value: s, Present: true}
}

func (s *OptionalString) UnmarshalJSON(b []byte) error {
	*s = OptionalString{}
	if isNull(b) {
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		// Wrong type is the same as absent.
		return nil
	}
	*s = Some(v)
	return nil
}

func (s OptionalString) MarshalJSON() ([]byte, error) {
	if !s.Present {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

type Subtitle struct {
	Name OptionalString `json:"name"`
}

// OptionalSubtitles is the channel / artist credit list of an event.
type OptionalSubtitles struct {
	Items   []Subtitle
	Present bool
}

func (s *OptionalSubtitles) UnmarshalJSON(b []byte) error {
	*s = OptionalSubtitles{}
	if isNull(b) {
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	items := make([]Subtitle, 0, len(raw))
	for _, r := range raw {
		var sub Subtitle
		if isObject(r) {
			if err := json.Unmarshal(r, &sub); err != nil {
				sub = Subtitle{}
			}
		}
		items = append(items, sub)
	}
	*s = OptionalSubtitles{Items: items, Present: true}
	return nil
}

func (s OptionalSubtitles) MarshalJSON() ([]byte, error) {
	if !s.Present {
		return []byte("null"), nil
	}
	return json.Marshal(s.Items)
}

// Len is the number of credits, zero when absent.
func (s OptionalSubtitles) Len() int {
	if !s.Present {
		return 0
	}
	return len(s.Items)
}

// First returns the name of the first credit, if there is one.
func (s OptionalSubtitles) First() OptionalString {
	if s.Len() == 0 {
		return OptionalString{}
	}
	return s.Items[0].Name
}

// MalformedInputError means the export is not a JSON array of objects. It is
// the only error that aborts a run.
type MalformedInputError struct {
	// Index of the offending element, or -1 when the document itself is bad.
	Index int
	Err   error
}

func (e *MalformedInputError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("malformed export: %v", e.Err)
	}
	return fmt.Sprintf("malformed export: element %d: %v", e.Index, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

var (
	errNotArray  = errors.New("top level is not an array")
	errNotObject = errors.New("not an object")
)

// Parse decodes a whole export. A document that is not an array of objects is
// rejected outright; there is no partial result.
func Parse(data []byte) ([]RawEvent, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &MalformedInputError{Index: -1, Err: errNotArray}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, &MalformedInputError{Index: -1, Err: err}
	}

	events := make([]RawEvent, 0, len(items))
	for i, item := range items {
		if !isObject(item) {
			return nil, &MalformedInputError{Index: i, Err: errNotObject}
		}
		var ev RawEvent
		if err := json.Unmarshal(item, &ev); err != nil {
			return nil, &MalformedInputError{Index: i, Err: err}
		}
		events = append(events, ev)
	}
	return events, nil
}

// Load reads r to the end and parses it.
func Load(r io.Reader) ([]RawEvent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	return Parse(data)
}

// LoadFile parses the export at path; "-" reads stdin.
func LoadFile(path string) ([]RawEvent, error) {
	if path == "-" {
		return Load(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func isNull(b []byte) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}

func isObject(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{'
}
