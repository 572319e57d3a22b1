package ingest

import (
	"regexp"
	"strings"
)

// MinDataFields is the minimum number of delimiter-separated fields a data
// line needs to survive normalization.
const MinDataFields = 6

// lineBreak splits on LF with an optional preceding CR.
var lineBreak = regexp.MustCompile(`\r?\n`)

// excludedRow matches event/stage/treatment annotation rows that instrument
// exports interleave with samples.
var excludedRow = regexp.MustCompile(`(?i),(Event|Stage|Treatment)`)

// headerPrefixes start the real header row. Matching is case-sensitive.
var headerPrefixes = []string{`"Time"`, "Time,", "AcqTime"}

// txtPreambleLines is the fixed metadata block after the first line of a
// TXT export.
const txtPreambleLines = 2

// Normalized is the clean tabular text produced from one payload.
type Normalized struct {
	Text       string
	Delimiter  rune
	HeaderLine string
	Kept       int // data lines kept, header excluded
	Dropped    int // data lines dropped after the header
}

// SplitLines splits text on CRLF/LF boundaries.
func SplitLines(text string) []string {
	return lineBreak.Split(text, -1)
}

// DetectDelimiter returns tab if the first non-blank line contains a tab,
// comma otherwise.
func DetectDelimiter(lines []string) rune {
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if strings.ContainsRune(l, '\t') {
			return '\t'
		}
		return ','
	}
	return ','
}

// IsHeaderLine reports whether a line starts the tabular header.
func IsHeaderLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	for _, p := range headerPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

// keepDataLine applies the row filter to a line after the header.
func keepDataLine(line string, delimiter rune) bool {
	if excludedRow.MatchString(line) {
		return false
	}
	return len(strings.Split(line, string(delimiter))) >= MinDataFields
}

// StripTxtPreamble drops the two metadata lines that follow the first line
// of a TXT export: [L0, L1, L2, L3, ...] becomes [L0, L3, ...].
func StripTxtPreamble(text string) string {
	lines := SplitLines(text)
	if len(lines) <= 1 {
		return text
	}
	kept := []string{lines[0]}
	if len(lines) > 1+txtPreambleLines {
		kept = append(kept, lines[1+txtPreambleLines:]...)
	}
	return strings.Join(kept, "\n")
}

// Normalize locates the header row, drops everything before it, filters
// annotation and short rows after it and joins the survivors with "\n".
// The header line is always the first output line.
func Normalize(text string) (Normalized, error) {
	lines := SplitLines(text)
	delimiter := DetectDelimiter(lines)

	headerIdx := -1
	for i, l := range lines {
		if IsHeaderLine(l) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return Normalized{}, ErrHeaderNotFound
	}

	out := make([]string, 0, len(lines)-headerIdx)
	out = append(out, lines[headerIdx])

	n := Normalized{
		Delimiter:  delimiter,
		HeaderLine: lines[headerIdx],
	}
	for _, l := range lines[headerIdx+1:] {
		if keepDataLine(l, delimiter) {
			out = append(out, l)
			n.Kept++
		} else if strings.TrimSpace(l) != "" {
			n.Dropped++
		}
	}

	n.Text = strings.Join(out, "\n")
	return n, nil
}
