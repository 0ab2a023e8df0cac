// Package markdown normalizes HTML-derived markdown: it trims boilerplate
// around the article body, restores paragraph spacing lost during conversion,
// and re-indents nested lists from their numbering tokens.
package markdown

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type markerKind int

const (
	markerNone markerKind = iota
	markerNumber
	markerLetter
	markerBullet
)

type blockKind int

const (
	blockNormal blockKind = iota
	blockHeader
	blockListItem
	blockCodeStart
	blockCodeEnd
)

// blockType is the classification attached to a line for the duration of one
// Normalize call. depth and marker are meaningful only for blockListItem.
type blockType struct {
	kind   blockKind
	depth  int
	marker markerKind
}

func (b blockType) isListItem() bool {
	return b.kind == blockListItem
}

// normalizeForComparison strips everything except letters, digits and
// whitespace and collapses runs of whitespace, so markdown syntax noise does
// not block a match against the plain reference.
func normalizeForComparison(text string) string {
	var b strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// findContentBoundaries returns the half-open line range of real content.
// The start is the first 3-line window whose normalized text contains the
// plain reference's first paragraph; the end is the last trailer marker line
// strictly after the start. Both default to the full range.
func findContentBoundaries(markdown, plain string) (int, int) {
	firstPlainPara := strings.TrimSpace(strings.SplitN(plain, "\n\n", 2)[0])
	lines := splitLines(markdown)

	startIdx := 0
	ref := normalizeForComparison(firstPlainPara)
	for i := 0; i+3 <= len(lines); i++ {
		combined := strings.Join(lines[i:i+3], " ")
		if strings.Contains(normalizeForComparison(combined), ref) {
			startIdx = i
			break
		}
	}

	endIdx := len(lines)
	for i := len(lines) - 1; i > startIdx; i-- {
		line := lines[i]
		if strings.Contains(line, "## Related posts") ||
			strings.Contains(line, "Blog Comments") ||
			strings.Contains(line, "Contents") ||
			(strings.HasPrefix(line, "##") && !strings.Contains(line, "Summary")) {
			endIdx = i
			break
		}
	}
	return startIdx, endIdx
}

func getListMarker(line string) markerKind {
	trimmed := strings.TrimLeft(line, " \t")
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return markerNone
	}
	first, _ := utf8.DecodeRuneInString(fields[0])
	switch {
	case first >= '0' && first <= '9':
		// Covers "1", "1.", "1.1", "1.1." and composites like "1.a".
		return markerNumber
	case first >= 'a' && first <= 'z':
		return markerLetter
	case first == '*' || first == '-':
		return markerBullet
	}
	return markerNone
}

// getListDepth derives nesting depth from the first token's numbering. A dot
// directly after a number counts one level; a trailing dot after the final
// number contributes one less ("1." is 0, "1.2" and "1.2." are both 1).
// Tokens without dots fall back to leading-indentation depth.
func getListDepth(line string) int {
	spaces := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		spaces++
	}
	trimmed := strings.TrimLeft(line, " \t")
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return 0
	}

	foundNumber := false
	dots := 0
scan:
	for _, c := range fields[0] {
		switch c {
		case '`', '[', '<', '\'', '"', '(':
			break scan
		}
		if c >= '0' && c <= '9' {
			foundNumber = true
		} else if c == '.' && foundNumber {
			dots++
			foundNumber = false
		}
	}

	if dots > 0 {
		if foundNumber {
			// The last dot was not trailing the final number.
			return dots
		}
		return dots - 1
	}
	return spaces / 4
}

func getBlockType(line string, inCodeBlock bool) blockType {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return blockType{kind: blockNormal}
	}
	if strings.HasPrefix(trimmed, "#") {
		return blockType{kind: blockHeader}
	}
	if marker := getListMarker(trimmed); marker != markerNone {
		return blockType{kind: blockListItem, depth: getListDepth(line), marker: marker}
	}
	if strings.HasPrefix(trimmed, "```") {
		if inCodeBlock {
			return blockType{kind: blockCodeEnd}
		}
		return blockType{kind: blockCodeStart}
	}
	return blockType{kind: blockNormal}
}

func indentLine(line string, depth int) string {
	return strings.Repeat("    ", depth) + strings.TrimLeft(line, " \t")
}

func normalizeListItem(line string, depth int) string {
	trimmed := strings.TrimLeft(line, " \t")
	if depth > 0 {
		return indentLine(trimmed, depth)
	}
	return trimmed
}

// isListContinuation reports whether line is wrapped prose belonging to the
// preceding list item: not itself a fresh marker, and at or below the item's
// depth without opening a header.
func isListContinuation(line string, prev blockType) bool {
	if !prev.isListItem() {
		return false
	}
	trimmed := strings.TrimLeft(line, " \t")
	if getListMarker(trimmed) != markerNone {
		return false
	}
	lineDepth := getListDepth(line)
	return lineDepth > prev.depth || (lineDepth == prev.depth && !strings.HasPrefix(trimmed, "#"))
}

func needsSpacingBefore(current, prev blockType) bool {
	switch current.kind {
	case blockHeader, blockCodeStart:
		return true
	case blockListItem:
		return !prev.isListItem()
	}
	return false
}

func needsSpacingAfter(current, next blockType) bool {
	switch current.kind {
	case blockHeader, blockCodeEnd:
		return true
	case blockListItem:
		return !next.isListItem()
	case blockNormal:
		switch next.kind {
		case blockHeader, blockListItem, blockNormal:
			return true
		}
	}
	return false
}

// isInCodeOrLink reports whether the byte position pos in text sits inside
// inline code, an HTML tag, or a markdown link label/target.
func isInCodeOrLink(text string, pos int) bool {
	before := text[:pos]
	if strings.Count(before, "`")%2 != 0 {
		return true
	}

	htmlDepth := 0
	for _, c := range before {
		switch c {
		case '<':
			htmlDepth++
		case '>':
			htmlDepth--
		}
	}
	if htmlDepth > 0 {
		return true
	}

	inBrackets := 0
	inParens := 0
	chars := []rune(before)
	for i, c := range chars {
		switch c {
		case '[':
			inBrackets++
		case ']':
			inBrackets--
			if inBrackets == 0 && i+1 < len(chars) && chars[i+1] == '(' {
				inParens++
			}
		case '(':
			if inBrackets == 0 {
				inParens++
			}
		case ')':
			if inBrackets == 0 {
				inParens--
			}
		}
	}
	return inBrackets > 0 || inParens > 0
}

// splitHeaderContent repairs lines where the upstream converter glued a header
// onto trailing prose. Only the first unprotected #-run followed by whitespace
// or end of line splits; everything from it onward becomes the second line.
func splitHeaderContent(line string) []string {
	var result []string
	var current strings.Builder

	for pos := 0; pos < len(line); {
		c, size := utf8.DecodeRuneInString(line[pos:])
		if c == '#' && !isInCodeOrLink(line, pos) {
			run := 0
			for pos+run < len(line) && line[pos+run] == '#' {
				run++
			}
			afterHash := pos + run
			if afterHash == len(line) || isWhitespaceAt(line, afterHash) {
				if head := strings.TrimSpace(current.String()); head != "" {
					result = append(result, head)
				}
				current.Reset()
				current.WriteString(line[pos:])
				break
			}
		}
		current.WriteRune(c)
		pos += size
	}

	if tail := strings.TrimSpace(current.String()); tail != "" {
		result = append(result, tail)
	}
	return result
}

func isWhitespaceAt(s string, pos int) bool {
	r, _ := utf8.DecodeRuneInString(s[pos:])
	return unicode.IsSpace(r)
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		return lines[:n-1]
	}
	return lines
}

// Normalize rewrites markdown derived from HTML conversion using plain as a
// reference extraction of the same document. It trims boilerplate outside the
// content boundaries, separates blocks with exactly one blank line, and
// re-indents list items. It never fails; degenerate input degrades to less
// normalization, not an error.
func Normalize(markdown, plain string) string {
	lines := splitLines(markdown)
	startIdx, endIdx := findContentBoundaries(markdown, plain)
	content := lines[startIdx:endIdx]

	var result []string
	var currentBlock []string
	inCodeBlock := false
	inList := false
	prevType := blockType{kind: blockNormal}

	flush := func() {
		if len(currentBlock) > 0 {
			result = append(result, strings.Join(currentBlock, "\n"))
			currentBlock = currentBlock[:0:0]
		}
	}

	for i, line := range content {
		subLines := splitHeaderContent(strings.TrimRight(line, " \t\r"))
		for j, splitLine := range subLines {
			if splitLine == "" {
				continue
			}
			if strings.HasPrefix(splitLine, "```") {
				inCodeBlock = !inCodeBlock
			}

			isContinuation := isListContinuation(splitLine, prevType)
			var currentType blockType
			if isContinuation {
				currentType = prevType
			} else {
				currentType = getBlockType(splitLine, inCodeBlock)
			}

			if currentType.isListItem() {
				if !inList {
					inList = true
					flush()
				}
			} else if !isContinuation && inList {
				inList = false
				flush()
			}

			// A split-off header always opens its own block.
			if j > 0 && currentType.kind == blockHeader {
				flush()
			}

			nextType := blockType{kind: blockNormal}
			if i < len(content)-1 {
				nextType = getBlockType(content[i+1], inCodeBlock)
			}

			if needsSpacingBefore(currentType, prevType) {
				flush()
			}

			var normalized string
			switch {
			case currentType.isListItem():
				actualDepth := 0
				if prevType.isListItem() {
					switch {
					case prevType.marker == markerNumber && currentType.marker == markerLetter:
						actualDepth = prevType.depth + 1
					case prevType.marker == markerLetter && currentType.marker == markerNumber:
						if prevType.depth > 0 {
							actualDepth = prevType.depth - 1
						}
					case prevType.marker == markerLetter && currentType.marker == markerLetter:
						actualDepth = prevType.depth
					default:
						actualDepth = currentType.depth
					}
				}
				// Record the effective depth so the next item and any
				// continuation lines inherit it.
				currentType.depth = actualDepth
				normalized = normalizeListItem(splitLine, actualDepth)
			case currentType.kind == blockNormal && prevType.isListItem() && isListContinuation(splitLine, prevType):
				normalized = indentLine(splitLine, prevType.depth+1)
			default:
				normalized = splitLine
			}
			currentBlock = append(currentBlock, normalized)

			if j == len(subLines)-1 &&
				needsSpacingAfter(currentType, nextType) &&
				!(nextType.isListItem() && inList) {
				flush()
			}
			prevType = currentType
		}
	}

	flush()

	kept := result[:0]
	for _, block := range result {
		if block != "" {
			kept = append(kept, block)
		}
	}
	return strings.Join(kept, "\n\n")
}
