// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package codec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-text/typesetting/font"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// Font errors.
var (
	// ErrNotSpriteFont is returned when the definition lacks the HGEFONT header.
	ErrNotSpriteFont = errors.New("codec: not a sprite font definition")
)

// ParseFont parses TrueType/OpenType font bytes and returns the face.
// Used to validate .ttf/.otf data and to carry the parsed face into the
// resource pool. font.Face embeds the thread-safe *font.Font.
func ParseFont(data []byte) (*font.Face, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("codec: parse font: %w", err)
	}
	return face, nil
}

// SpriteFontGlyph is one glyph entry of a sprite font definition.
type SpriteFontGlyph struct {
	Rune        rune
	X, Y, W, H  float64
	PreAdvance  float64
	PostAdvance float64
}

// SpriteFontDef is a parsed HGE-style sprite font definition: a companion
// bitmap name plus per-glyph texture rectangles.
type SpriteFontDef struct {
	Bitmap string
	Glyphs []SpriteFontGlyph
}

// ParseSpriteFontDef parses an HGE sprite font definition file:
//
//	[HGEFONT]
//	Bitmap=font.png
//	Char="A",1,1,30,38,-2,1
//
// Legacy files from Chinese-language games are frequently GBK-encoded; when
// the bytes are not valid UTF-8 they are transcoded from GBK first.
func ParseSpriteFontDef(data []byte) (*SpriteFontDef, error) {
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("codec: sprite font definition encoding: %w", err)
		}
		data = decoded
	}

	def := &SpriteFontDef{}
	seenHeader := false

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "" || strings.HasPrefix(line, ";"):
			continue
		case strings.EqualFold(line, "[HGEFONT]"):
			seenHeader = true
		case strings.HasPrefix(line, "Bitmap="):
			def.Bitmap = strings.TrimSpace(strings.TrimPrefix(line, "Bitmap="))
		case strings.HasPrefix(line, "Char="):
			g, err := parseGlyphLine(strings.TrimPrefix(line, "Char="))
			if err != nil {
				return nil, err
			}
			def.Glyphs = append(def.Glyphs, g)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("codec: read sprite font definition: %w", err)
	}

	if !seenHeader {
		return nil, ErrNotSpriteFont
	}
	if def.Bitmap == "" && len(def.Glyphs) == 0 {
		return nil, errors.New("codec: empty sprite font definition")
	}
	return def, nil
}

// parseGlyphLine parses `"A",x,y,w,h,pre,post` or `$41,x,y,w,h,pre,post`.
func parseGlyphLine(s string) (SpriteFontGlyph, error) {
	var g SpriteFontGlyph

	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, `"`):
		rest := s[1:]
		r, size := utf8.DecodeRuneInString(rest)
		if r == utf8.RuneError {
			return g, fmt.Errorf("codec: bad glyph literal: %q", s)
		}
		g.Rune = r
		rest = rest[size:]
		if !strings.HasPrefix(rest, `",`) {
			return g, fmt.Errorf("codec: bad glyph line: %q", s)
		}
		s = rest[2:]
	case strings.HasPrefix(s, "$"):
		comma := strings.IndexByte(s, ',')
		if comma < 0 {
			return g, fmt.Errorf("codec: bad glyph line: %q", s)
		}
		code, err := strconv.ParseUint(s[1:comma], 16, 32)
		if err != nil {
			return g, fmt.Errorf("codec: bad glyph code: %q", s)
		}
		g.Rune = rune(code)
		s = s[comma+1:]
	default:
		return g, fmt.Errorf("codec: bad glyph line: %q", s)
	}

	fields := strings.Split(s, ",")
	if len(fields) < 4 {
		return g, fmt.Errorf("codec: bad glyph geometry: %q", s)
	}
	vals := make([]float64, 0, 6)
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return g, fmt.Errorf("codec: bad glyph value %q: %w", f, err)
		}
		vals = append(vals, v)
	}

	g.X, g.Y, g.W, g.H = vals[0], vals[1], vals[2], vals[3]
	if len(vals) > 4 {
		g.PreAdvance = vals[4]
	}
	if len(vals) > 5 {
		g.PostAdvance = vals[5]
	}
	return g, nil
}
