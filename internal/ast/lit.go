package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// IntValue decodes an Integer or Character literal. H/h and X suffixes
// select base 16.
func (l *BasicLit) IntValue() (uint64, error) {
	text := l.Tok.Text
	base := 10
	switch {
	case l.Kind == LitCharacter:
		text, base = strings.TrimSuffix(text, "X"), 16
	case l.Kind != LitInteger:
		return 0, fmt.Errorf("%s literal %q is not an integer", l.Kind, text)
	case strings.HasSuffix(text, "H") || strings.HasSuffix(text, "h"):
		text, base = text[:len(text)-1], 16
	}
	return strconv.ParseUint(text, base, 64)
}

// RealValue decodes a Real literal. The D exponent marker is accepted as E.
func (l *BasicLit) RealValue() (float64, error) {
	if l.Kind != LitReal {
		return 0, fmt.Errorf("%s literal %q is not a real", l.Kind, l.Tok.Text)
	}
	text := strings.Map(func(r rune) rune {
		if r == 'D' || r == 'd' {
			return 'E'
		}
		return r
	}, l.Tok.Text)
	return strconv.ParseFloat(text, 64)
}

// StringValue returns the contents of a String literal without quotes.
func (l *BasicLit) StringValue() string {
	text := l.Tok.Text
	if l.Kind != LitString || len(text) < 2 {
		return text
	}
	return text[1 : len(text)-1]
}

// CharValue decodes a Character literal such as 41X.
func (l *BasicLit) CharValue() (rune, error) {
	if l.Kind != LitCharacter {
		return 0, fmt.Errorf("%s literal %q is not a character", l.Kind, l.Tok.Text)
	}
	v, err := l.IntValue()
	if err != nil {
		return 0, err
	}
	if v > 0x10FFFF {
		return 0, fmt.Errorf("character literal %q out of range", l.Tok.Text)
	}
	return rune(v), nil
}
