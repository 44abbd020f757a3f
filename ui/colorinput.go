package ui

import "strings"

// Key codes handled by ColorInput.
const (
	KeyEnter     = '\r'
	KeyNewline   = '\n'
	KeyEscape    = 27
	KeyBackspace = 127
	KeyCtrlH     = 8
)

const maxColorLen = len("0x000000")

// ColorInput is a hex color entry field. Valid text is handed to Apply on
// Enter; invalid text keeps the field open with Err set.
type ColorInput struct {
	Apply func(hex string) error

	active bool
	text   []byte
	err    error
}

// NewColorInput returns a closed field that calls apply on Enter.
func NewColorInput(apply func(hex string) error) *ColorInput {
	return &ColorInput{Apply: apply}
}

// Begin opens the field with initial text.
func (c *ColorInput) Begin(initial string) {
	c.active = true
	c.err = nil
	c.text = append(c.text[:0], initial...)
}

// Active reports whether the field is taking input.
func (c *ColorInput) Active() bool { return c.active }

// Text is the current content.
func (c *ColorInput) Text() string { return string(c.text) }

// Err is the error of the last rejected Enter.
func (c *ColorInput) Err() error { return c.err }

// Cancel closes the field without applying.
func (c *ColorInput) Cancel() {
	c.active = false
	c.err = nil
}

// HandleKey processes one input byte and reports whether it was consumed.
func (c *ColorInput) HandleKey(b byte) bool {
	if !c.active {
		return false
	}
	switch {
	case b == KeyEnter || b == KeyNewline:
		if err := c.Apply(c.Text()); err != nil {
			c.err = err
			return true
		}
		c.active = false
		c.err = nil
	case b == KeyEscape:
		c.Cancel()
	case b == KeyBackspace || b == KeyCtrlH:
		if len(c.text) > 0 {
			c.text = c.text[:len(c.text)-1]
		}
	case isColorChar(b):
		if len(c.text) < maxColorLen {
			c.text = append(c.text, b)
		}
	}
	return true
}

func isColorChar(b byte) bool {
	return b == '#' || b == 'x' || b == 'X' || strings.IndexByte("0123456789abcdefABCDEF", b) >= 0
}
