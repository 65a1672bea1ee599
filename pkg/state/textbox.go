package state

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/scene-engine/pkg/stream"
)

// Textbox holds the lines written by records, wrapped for display.
type Textbox struct {
	Width int      `json:"width"`
	Lines []string `json:"lines,omitempty"`
}

// NewTextbox returns an empty textbox wrapping at width columns.
func NewTextbox(width int) *Textbox {
	return &Textbox{Width: width}
}

func (t *Textbox) Clear() {
	t.Lines = nil
}

func (t *Textbox) AddLine(text string) {
	t.Lines = append(t.Lines, text)
}

// Wrapped returns the lines as displayed.
func (t *Textbox) Wrapped() []string {
	var out []string
	for _, line := range t.Lines {
		if t.Width > 0 {
			line = wordwrap.String(line, t.Width)
		}
		out = append(out, strings.Split(line, "\n")...)
	}
	return out
}

// String returns the displayed text.
func (t *Textbox) String() string {
	return strings.Join(t.Wrapped(), "\n")
}

// Sync saves or restores the raw lines.
func (t *Textbox) Sync(s *stream.Serializer) {
	n := uint16(len(t.Lines))
	s.SyncUint16(&n)
	if s.IsLoading() {
		t.Lines = make([]string, n)
	}
	for i := range t.Lines {
		s.SyncString(&t.Lines[i])
	}
	if s.IsLoading() && n == 0 {
		t.Lines = nil
	}
}
