// Package render turns style tokens into terminal escape sequences.
package render

import (
	"github.com/chmouel/gitsummary/internal/theme"
	"github.com/muesli/termenv"
)

// Renderer styles a piece of text. Implementations must not change the text
// itself: coloured and plain output differ only by escape sequences.
type Renderer interface {
	Style(tokens []theme.Token, text string) string
}

// New returns the ANSI renderer when color is true and the plain one
// otherwise.
func New(color bool) Renderer {
	if color {
		return ANSI{}
	}
	return Plain{}
}

// ANSI wraps text in SGR sequences: the requested codes joined by ';' and a
// trailing reset.
type ANSI struct{}

// Style implements Renderer.
func (ANSI) Style(tokens []theme.Token, text string) string {
	if len(tokens) == 0 {
		return text
	}
	s := termenv.String(text)
	for _, tok := range tokens {
		s = apply(s, tok)
	}
	return s.String()
}

func apply(s termenv.Style, tok theme.Token) termenv.Style {
	switch tok {
	case theme.Bold:
		return s.Bold()
	case theme.Flashing:
		return s.Blink()
	case theme.Green:
		return s.Foreground(termenv.ANSIGreen)
	case theme.Magenta:
		return s.Foreground(termenv.ANSIMagenta)
	case theme.Red:
		return s.Foreground(termenv.ANSIRed)
	case theme.Yellow:
		return s.Foreground(termenv.ANSIYellow)
	}
	return s
}

// Plain is the no-colour renderer.
type Plain struct{}

// Style implements Renderer.
func (Plain) Style(_ []theme.Token, text string) string {
	return text
}
