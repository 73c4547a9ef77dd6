package portal

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/tejasvp/resultboard/internal/domain/model"
)

// nameNotFound is reported when the sheet parsed but carried no name line.
const nameNotFound = "NAME_NOT_FOUND"

// The sheets print either a semester (SGPA) or cumulative (CGPA) figure.
var (
	sgpaRe = regexp.MustCompile(`SGPA\s*[:\-]?\s*([0-9]+(?:\.[0-9]+)?)`)
	cgpaRe = regexp.MustCompile(`CGPA\s*[:\-]?\s*([0-9]+(?:\.[0-9]+)?)`)
	nameRe = regexp.MustCompile(`Name of the Student\s*:?\s*([A-Z][A-Za-z .']*)`)
)

// ExtractRecord parses the name and SGPA out of a result-sheet PDF. A sheet
// without a parseable score still yields a record, with SGPA set to NaN, so
// callers decide whether to keep or skip it.
func ExtractRecord(usn string, sheet []byte) (model.StudentRecord, error) {
	text, err := sheetText(sheet)
	if err != nil {
		return model.StudentRecord{}, fmt.Errorf("%w: %w", ErrExtract, err)
	}
	return RecordFromText(usn, text), nil
}

// RecordFromText builds a record from the flattened sheet text.
func RecordFromText(usn, text string) model.StudentRecord {
	record := model.StudentRecord{
		USN:  usn,
		Name: extractName(text),
		SGPA: math.NaN(),
	}
	if sgpa, ok := extractSGPA(text); ok {
		record.SGPA = sgpa
	}
	return record
}

// sheetText flattens the PDF into plain text.
func sheetText(sheet []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(sheet), int64(len(sheet)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	text, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(text); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// extractName finds the student name either on the marker line after the
// colon or on the line that follows it.
func extractName(text string) string {
	if m := nameRe.FindStringSubmatch(text); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			return name
		}
	}

	lines := splitLines(text)
	for i, line := range lines {
		if !strings.Contains(line, "Name of the Student") {
			continue
		}
		if _, after, found := strings.Cut(line, ":"); found {
			if name := strings.TrimSpace(after); name != "" {
				return name
			}
		}
		if i+1 < len(lines) {
			return lines[i+1]
		}
	}
	return nameNotFound
}

// extractSGPA pulls the semester figure, falling back to the cumulative one.
func extractSGPA(text string) (float64, bool) {
	m := sgpaRe.FindStringSubmatch(text)
	if m == nil {
		m = cgpaRe.FindStringSubmatch(text)
	}
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
