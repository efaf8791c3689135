package overlay

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"
)

const resetSeq = "\x1b[0m"

// shadowColor is the 256-color index of the drop shadow.
const shadowColor = "238"

// PlaceOverlay draws fg on top of bg with fg's top-left corner at (x, y).
// With center set, x and y offset fg from the centered position instead.
// With shadow set, fg gets a one-cell drop shadow to its right and below.
// Both strings may carry ANSI styling.
func PlaceOverlay(x, y int, fg, bg string, shadow, center bool) string {
	fgLines, fgWidth := getLines(fg)
	bgLines, bgWidth := getLines(bg)
	bgHeight := len(bgLines)

	if shadow {
		fgLines, fgWidth = addShadow(fgLines, fgWidth)
	}
	fgHeight := len(fgLines)

	if fgWidth >= bgWidth && fgHeight >= bgHeight {
		return strings.Join(fgLines, "\n")
	}

	if center {
		x += (bgWidth - fgWidth) / 2
		y += (bgHeight - fgHeight) / 2
	}
	x = clamp(x, 0, max(bgWidth-fgWidth, 0))
	y = clamp(y, 0, max(bgHeight-fgHeight, 0))

	var b strings.Builder
	for i, bgLine := range bgLines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i < y || i >= y+fgHeight {
			b.WriteString(bgLine)
			continue
		}

		pos := 0
		if x > 0 {
			left := truncate.String(bgLine, uint(x))
			pos = ansi.PrintableRuneWidth(left)
			b.WriteString(left)
			b.WriteString(resetSeq)
			if pos < x {
				b.WriteString(strings.Repeat(" ", x-pos))
				pos = x
			}
		}

		fgLine := fgLines[i-y]
		b.WriteString(fgLine)
		b.WriteString(resetSeq)
		pos += ansi.PrintableRuneWidth(fgLine)

		lineWidth := ansi.PrintableRuneWidth(bgLine)
		right := cutLeft(bgLine, pos)
		if gap := lineWidth - pos - ansi.PrintableRuneWidth(right); gap > 0 {
			b.WriteString(strings.Repeat(" ", gap))
		}
		b.WriteString(right)
	}
	return b.String()
}

// getLines splits s into lines and returns the widest printable width.
func getLines(s string) (lines []string, widest int) {
	lines = strings.Split(s, "\n")
	for _, l := range lines {
		if w := ansi.PrintableRuneWidth(l); w > widest {
			widest = w
		}
	}
	return lines, widest
}

// addShadow pads every line to width and appends a shadow column and row.
func addShadow(lines []string, width int) ([]string, int) {
	cell := termenv.String("░").Foreground(termenv.ANSI256.Color(shadowColor)).String()
	out := make([]string, 0, len(lines)+1)
	for i, l := range lines {
		if pad := width - ansi.PrintableRuneWidth(l); pad > 0 {
			l += strings.Repeat(" ", pad)
		}
		if i == 0 {
			l += " "
		} else {
			l += cell
		}
		out = append(out, l)
	}
	out = append(out, " "+strings.Repeat(cell, width))
	return out, width + 1
}

// cutLeft drops the first n printable cells of s and keeps the ANSI state in
// effect at the cut so the remainder is styled as before. A wide rune that
// straddles the cut is dropped.
func cutLeft(s string, n int) string {
	var (
		out, pending, seq strings.Builder
		pos               int
		inSeq, started    bool
	)
	for _, r := range s {
		if r == ansi.Marker {
			inSeq = true
		}
		if inSeq {
			seq.WriteRune(r)
			if ansi.IsTerminator(r) {
				inSeq = false
				switch {
				case started:
					out.WriteString(seq.String())
				case strings.HasSuffix(seq.String(), "[0m"):
					pending.Reset()
				default:
					pending.WriteString(seq.String())
				}
				seq.Reset()
			}
			continue
		}
		if pos >= n {
			if !started {
				out.WriteString(pending.String())
				started = true
			}
			out.WriteRune(r)
		}
		pos += runewidth.RuneWidth(r)
	}
	return out.String()
}

func clamp(v, lower, upper int) int {
	return min(max(v, lower), upper)
}
