package region

import (
	"slices"
	"strings"
)

// Markers identifies a managed region inside a line-oriented document.
type Markers struct {
	// Start is the literal text of the region's opening comment line,
	// matched as a substring.
	Start string

	// End is the literal text of the region's closing comment line,
	// matched as a substring. The region extends past this line until the
	// brace depth counted from it returns to zero.
	End string

	// Targets are selector tokens that identify stray blocks belonging to
	// the region when the marker pair itself is absent. Used only by Remove.
	Targets []string
}

// Span is a half-open line range [Start, End) within a document.
type Span struct {
	Start int
	End   int
}

// Len returns the number of lines covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Locate scans lines for the managed region. It returns the span of the
// first start marker through the brace-balanced closure following the first
// end marker at or after it, or ok=false when either marker is missing.
//
// A start marker without a subsequent end marker is treated as "no region";
// malformed files are never partially matched.
func (m Markers) Locate(lines []string) (Span, bool) {
	start := -1
	for i, line := range lines {
		if strings.Contains(line, m.Start) {
			start = i
			break
		}
	}
	if start < 0 {
		return Span{}, false
	}

	for i := start; i < len(lines); i++ {
		if !strings.Contains(lines[i], m.End) {
			continue
		}

		// Extend through the block opened around the end marker. The depth
		// count starts on the marker line itself so a trailing one-line
		// block still closes the region.
		depth := 0
		for j := i; j < len(lines); j++ {
			depth += strings.Count(lines[j], "{") - strings.Count(lines[j], "}")
			if depth <= 0 && strings.Contains(lines[j], "}") {
				return Span{Start: start, End: j + 1}, true
			}
		}

		// Never closed: the region is just the marker line itself.
		return Span{Start: start, End: i + 1}, true
	}

	return Span{}, false
}

// Extract returns a copy of the current region's lines, or nil when the
// region is absent.
func (m Markers) Extract(lines []string) []string {
	span, ok := m.Locate(lines)
	if !ok {
		return nil
	}
	return slices.Clone(lines[span.Start:span.End])
}

// Inject returns the document with the region replaced by content. When no
// region exists the content is appended at end of file, preceded by one
// blank separator line if the current last line is non-blank. Empty content
// returns the input unchanged so a failed template resolution can never
// truncate a user file.
//
// Content is expected to be a well-formed region (an Extract result);
// injecting the same content twice yields the same document.
func (m Markers) Inject(lines []string, content []string) []string {
	if len(content) == 0 {
		return lines
	}

	span, ok := m.Locate(lines)
	if !ok {
		out := slices.Clone(lines)
		if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, "")
		}
		return append(out, content...)
	}

	out := make([]string, 0, len(lines)-span.Len()+len(content))
	out = append(out, lines[:span.Start]...)
	out = append(out, content...)
	out = append(out, lines[span.End:]...)
	return out
}

// Remove deletes the managed region and any stray blocks keyed by the
// target tokens. Marker regions are spliced out first (repeatedly, so a
// file that somehow grew duplicate marker pairs is fully cleaned), then a
// token scan drops every brace-delimited block whose opening line contains
// one of m.Targets. Running Remove on its own output is a no-op.
func (m Markers) Remove(lines []string) []string {
	out := lines
	for {
		span, ok := m.Locate(out)
		if !ok {
			break
		}
		next := make([]string, 0, len(out)-span.Len())
		next = append(next, out[:span.Start]...)
		next = append(next, out[span.End:]...)
		out = next
	}

	if len(m.Targets) == 0 {
		return out
	}
	return m.removeTargetBlocks(out)
}

// removeTargetBlocks drops brace-delimited blocks whose first line contains
// a target token, tracking depth from that line until it closes.
func (m Markers) removeTargetBlocks(lines []string) []string {
	out := make([]string, 0, len(lines))
	skipping := false
	depth := 0

	for _, line := range lines {
		if !skipping {
			for _, target := range m.Targets {
				if strings.Contains(line, target) {
					skipping = true
					depth = 0
					break
				}
			}
		}
		if skipping {
			depth += strings.Count(line, "{") - strings.Count(line, "}")
			if depth <= 0 && strings.Contains(line, "}") {
				skipping = false
			}
			continue
		}
		out = append(out, line)
	}

	return out
}

// SplitLines breaks text into lines for splice operations. CRLF endings are
// normalized to LF and a trailing newline does not produce a final empty
// element, so SplitLines("a\nb\n") is ["a", "b"].
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// JoinLines is the inverse of SplitLines. The result always carries a
// trailing newline.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n") + "\n"
}
