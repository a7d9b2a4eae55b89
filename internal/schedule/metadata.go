// Package schedule holds the pure recurrence engine: the bracket-header
// codec that rides on a grid cell's display text, and the predicate that
// decides whether a recurring activity is due on a given date.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Igor-TCA/kanban-calender-app/internal/model"
)

// Recurrence is a stored recurrence code. The codes are the wire format:
// existing cell text must keep decoding, so they never change.
type Recurrence string

const (
	Once     Recurrence = "unica"
	Daily    Recurrence = "diaria"
	Weekly   Recurrence = "semanal"
	Biweekly Recurrence = "quinzenal"
	Monthly  Recurrence = "mensal"
)

// DefaultRecurrence is substituted when a cell carries no recurrence tag.
const DefaultRecurrence = Weekly

func (r Recurrence) Valid() bool {
	switch r {
	case Once, Daily, Weekly, Biweekly, Monthly:
		return true
	}
	return false
}

func (r Recurrence) String() string { return string(r) }

// ParseRecurrence maps a code to its Recurrence, defaulting to Weekly for
// anything unrecognized. Codes are case-insensitive.
func ParseRecurrence(code string) Recurrence {
	r := Recurrence(strings.ToLower(strings.TrimSpace(code)))
	if !r.Valid() {
		return DefaultRecurrence
	}
	return r
}

// Metadata is the structured header embedded at the front of an activity's
// text. Immutable once decoded.
type Metadata struct {
	Title      string
	Priority   int
	Recurrence Recurrence

	// CreatedOn is zero when the text carried no (valid) date tag.
	CreatedOn time.Time
}

var (
	priorityPat   = regexp.MustCompile(`(?i)\[P([0-3])\]`)
	recurrencePat = regexp.MustCompile(`(?i)\[(unica|diaria|semanal|quinzenal|mensal)\]`)
	datePat       = regexp.MustCompile(`\[(\d{4}-\d{2}-\d{2})\]`)
	timePrefixPat = regexp.MustCompile(`^\s*\[(\d{2}:\d{2})\]\s*`)
	headerPat     = regexp.MustCompile(`^\s*(\[[^\]]+\]\s*)+`)
)

// Encode serializes a header in front of a title:
//
//	[P<priority>][<code>][<YYYY-MM-DD>] <title>
//
// createdOn defaults to today when zero. The title is trimmed but otherwise
// unvalidated; empty titles are rejected one layer up.
func Encode(title string, priority int, r Recurrence, createdOn time.Time) string {
	if createdOn.IsZero() {
		createdOn = time.Now()
	}
	if !r.Valid() {
		r = DefaultRecurrence
	}
	return fmt.Sprintf("[P%d][%s][%s] %s",
		model.ClampPriority(priority), r, createdOn.Format(model.DateLayout),
		strings.TrimSpace(title))
}

// Decode extracts the metadata header from text. It is total: malformed or
// missing fields fall back to defaults (priority 3, weekly, no date) and the
// remainder becomes the title. A leading [HH:MM] time prefix belongs to the
// grid, not the header, and is stripped before the header is read.
func Decode(text string) Metadata {
	return Metadata{
		Title:      ExtractTitle(text),
		Priority:   extractPriority(text),
		Recurrence: extractRecurrence(text),
		CreatedOn:  extractCreatedOn(text),
	}
}

// ExtractTitle strips the leading time prefix and every leading bracket
// group, returning the trimmed remainder. Bracket groups appearing after the
// title text begins are left alone.
func ExtractTitle(text string) string {
	if text == "" {
		return ""
	}
	s := timePrefixPat.ReplaceAllString(text, "")
	s = headerPat.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ExtractTimeLabel returns the leading [HH:MM] prefix, if any.
func ExtractTimeLabel(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	m := timePrefixPat.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func extractPriority(text string) int {
	m := priorityPat.FindStringSubmatch(text)
	if m == nil {
		return model.DefaultPriority
	}
	p, err := strconv.Atoi(m[1])
	if err != nil {
		return model.DefaultPriority
	}
	return p
}

func extractRecurrence(text string) Recurrence {
	m := recurrencePat.FindStringSubmatch(text)
	if m == nil {
		return DefaultRecurrence
	}
	return Recurrence(strings.ToLower(m[1]))
}

func extractCreatedOn(text string) time.Time {
	m := datePat.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}
	}
	d, err := time.Parse(model.DateLayout, m[1])
	if err != nil {
		// Pattern-shaped but not a real date, e.g. [2024-13-40].
		return time.Time{}
	}
	return d
}
