package birch

import (
	"math"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// TextAlign controls horizontal alignment of laid-out lines.
type TextAlign uint8

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)

// TextStyle describes how a TextSpan is set.
type TextStyle struct {
	FontFamily string
	FontSize   float64
	// LineHeight is a multiple of FontSize; 0 uses the face's own metrics.
	LineHeight    float64
	LetterSpacing float64
	Align         TextAlign
}

// DefaultFontSize is used when a TextStyle leaves FontSize at zero.
const DefaultFontSize = 14

func (s TextStyle) size() float64 {
	if s.FontSize <= 0 {
		return DefaultFontSize
	}
	return s.FontSize
}

// FontFace is a face plus the factor mapping its native pixels to the
// requested font size. Scale is 1 for faces opened at the requested size.
type FontFace struct {
	Face  font.Face
	Scale float64
}

// TextMeasurer supplies font faces for text layout. FontRepository
// implements it.
type TextMeasurer interface {
	FontFace(family string, size float64) FontFace
}

// fallbackFace scales basicfont to size.
func fallbackFace(size float64) FontFace {
	return FontFace{Face: basicfont.Face7x13, Scale: size / float64(basicfont.Face7x13.Height)}
}

// --- TextLayout ---

// TextLine is one laid-out line. X is the aligned left edge and Baseline the
// baseline offset, both in local units.
type TextLine struct {
	Text     string
	X        float64
	Baseline float64
	Width    float64
}

// TextLayout is the result of LayoutText.
type TextLayout struct {
	Lines      []TextLine
	Width      float64
	Height     float64
	LineHeight float64
	Face       FontFace
	// LetterSpacing in native face pixels, for drawing.
	LetterSpacing float64
}

// LayoutText breaks text into lines with face metrics from m. A positive
// wrapWidth wraps at word boundaries and becomes the alignment width. A nil
// m uses the built-in fallback face.
func LayoutText(m TextMeasurer, text string, style TextStyle, wrapWidth float64) TextLayout {
	var ff FontFace
	if m != nil {
		ff = m.FontFace(style.FontFamily, style.size())
	}
	if ff.Face == nil {
		ff = fallbackFace(style.size())
	}
	if ff.Scale <= 0 {
		ff.Scale = 1
	}

	metrics := ff.Face.Metrics()
	lh := fixedToFloat(metrics.Height) * ff.Scale
	if style.LineHeight > 0 {
		lh = style.LineHeight * style.size()
	}
	ascent := fixedToFloat(metrics.Ascent) * ff.Scale

	l := &lineBreaker{
		face:    ff.Face,
		scale:   ff.Scale,
		spacing: style.LetterSpacing,
		wrap:    wrapWidth,
	}
	l.run(text)

	out := TextLayout{
		Lines:         l.lines,
		LineHeight:    lh,
		Face:          ff,
		LetterSpacing: style.LetterSpacing / ff.Scale,
	}
	var maxW float64
	for _, ln := range out.Lines {
		maxW = math.Max(maxW, ln.Width)
	}
	alignW := maxW
	if wrapWidth > 0 {
		alignW = wrapWidth
	}
	for i := range out.Lines {
		ln := &out.Lines[i]
		switch style.Align {
		case TextAlignLeft:
		case TextAlignCenter:
			ln.X = (alignW - ln.Width) / 2
		case TextAlignRight:
			ln.X = alignW - ln.Width
		}
		ln.Baseline = float64(i)*lh + ascent
	}
	out.Width = maxW
	out.Height = float64(len(out.Lines)) * lh
	return out
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// lineBreaker accumulates words into lines, measuring with kerning and
// letter spacing.
type lineBreaker struct {
	face    font.Face
	scale   float64
	spacing float64
	wrap    float64

	lines []TextLine
	start int // byte offset of current line
	width float64
}

func (l *lineBreaker) advance(prev, r rune, hasPrev bool) float64 {
	adv, ok := l.face.GlyphAdvance(r)
	if !ok {
		return 0
	}
	w := fixedToFloat(adv)
	if hasPrev {
		w += fixedToFloat(l.face.Kern(prev, r))
	}
	return w*l.scale + l.spacing
}

func (l *lineBreaker) flush(s string, end int, width float64) {
	l.lines = append(l.lines, TextLine{Text: s[l.start:end], Width: math.Max(width, 0)})
}

func (l *lineBreaker) run(s string) {
	var (
		cursor    float64
		lastSpace = -1 // byte offset of last space on the line
		spaceW    float64
		prev      rune
		hasPrev   bool
	)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == '\n' {
			l.flush(s, i, cursor)
			i += size
			l.start, cursor, lastSpace, hasPrev = i, 0, -1, false
			continue
		}
		adv := l.advance(prev, r, hasPrev)
		if l.wrap > 0 && r != ' ' && cursor+adv > l.wrap && lastSpace >= 0 {
			l.flush(s, lastSpace, spaceW)
			// Re-measure the word that moved to the next line.
			l.start = lastSpace + 1
			i, cursor, lastSpace, hasPrev = l.start, 0, -1, false
			continue
		}
		if r == ' ' {
			lastSpace, spaceW = i, cursor
		}
		cursor += adv
		prev, hasPrev = r, true
		i += size
	}
	if l.start < len(s) || len(l.lines) == 0 || s[len(s)-1] == '\n' {
		l.flush(s, len(s), cursor)
	}
}
