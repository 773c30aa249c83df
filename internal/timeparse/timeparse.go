// Package timeparse turns free-form date/time text into a concrete local
// time. Input is matched against an ordered list of strategies; the first
// strategy that accepts the text wins.
//
// Numeric date order is ambiguous by design: "03/04/2024 10:00" is parsed as
// month/day/year because that layout is tried first, falling back to
// day/month/year only when the first interpretation is impossible (e.g.
// "25/04/2024"). This mirrors the fixed layout order below rather than any
// locale awareness.
package timeparse

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Layout is the canonical date-time format accepted and rendered everywhere.
const Layout = "2006-01-02 15:04"

// ErrUnrecognized is returned when no strategy accepts the input.
var ErrUnrecognized = errors.New("unrecognized date/time text")

// relativeDays maps relative-day keywords to a day offset from now.
var relativeDays = map[string]int{
	"today":      0,
	"tomorrow":   1,
	"next week":  7,
	"next month": 30,
}

// timeShortcuts maps time-of-day words to a clock time.
var timeShortcuts = map[string]string{
	"morning":   "09:00",
	"noon":      "12:00",
	"afternoon": "14:00",
	"evening":   "18:00",
	"night":     "20:00",
	"midnight":  "00:00",
}

// alternateLayouts are tried in order after the canonical layout and the
// keyword strategies. All are 24-hour. Order is load-bearing; see the
// package comment.
var alternateLayouts = []string{
	Layout,
	"1/2/2006 15:04",  // M/D/Y
	"2/1/2006 15:04",  // D/M/Y
	"2006/1/2 15:04",  // Y/M/D
	"1-2-2006 15:04",  // M-D-Y
	"2-1-2006 15:04",  // D-M-Y
}

var (
	relativeRe     = regexp.MustCompile(`^(today|tomorrow|next week|next month)\s+at\s+(.+)$`)
	dateShortcutRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+(\w+)`)
)

// Parser resolves date/time text relative to a clock.
type Parser struct {
	now func() time.Time
}

func New() *Parser {
	return &Parser{now: time.Now}
}

// NewWithClock injects the "current moment" used by relative-day keywords.
func NewWithClock(now func() time.Time) *Parser {
	return &Parser{now: now}
}

// Parse converts text like "2024-05-01 09:30", "tomorrow at evening" or
// "3/4/2024 10:00" into a local time. Returns ErrUnrecognized (wrapped) when
// nothing matches; no strategy ever panics.
func (p *Parser) Parse(text string) (time.Time, error) {
	text = strings.ToLower(strings.TrimSpace(text))

	strategies := []func(string) (time.Time, bool){
		p.parseCanonical,
		p.parseRelative,
		p.parseDateShortcut,
		p.parseAlternate,
	}
	for _, try := range strategies {
		if t, ok := try(text); ok {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, text)
}

// Format renders a time in the canonical layout.
func (p *Parser) Format(t time.Time) string {
	return t.Format(Layout)
}

func (p *Parser) parseCanonical(text string) (time.Time, bool) {
	t, err := time.ParseInLocation(Layout, text, time.Local)
	return t, err == nil
}

// parseRelative handles "<keyword> at <time-phrase>". The keyword picks a day
// offset from now, truncated to the date; the time-phrase supplies hour and
// minute with seconds zeroed.
func (p *Parser) parseRelative(text string) (time.Time, bool) {
	m := relativeRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	days := relativeDays[m[1]]
	clock, ok := p.parseTimePart(m[2])
	if !ok {
		return time.Time{}, false
	}
	base := p.now().AddDate(0, 0, days)
	return time.Date(base.Year(), base.Month(), base.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.Local), true
}

// parseDateShortcut handles "YYYY-MM-DD <word>" with a time-of-day word.
func (p *Parser) parseDateShortcut(text string) (time.Time, bool) {
	m := dateShortcutRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	clock, ok := timeShortcuts[m[2]]
	if !ok {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(Layout, m[1]+" "+clock, time.Local)
	return t, err == nil
}

func (p *Parser) parseAlternate(text string) (time.Time, bool) {
	for _, layout := range alternateLayouts {
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// timePartLayouts are the clock formats accepted after "at". The dot form is
// normalized to a colon before matching.
var timePartLayouts = []string{
	"15:04",
	"3:04pm",
	"3:04 pm",
}

// parseTimePart resolves a time-phrase: a time-of-day word, else a clock
// time. Only hour and minute of the result are meaningful.
func (p *Parser) parseTimePart(text string) (time.Time, bool) {
	if clock, ok := timeShortcuts[text]; ok {
		t, err := time.ParseInLocation("15:04", clock, time.Local)
		return t, err == nil
	}
	text = strings.ReplaceAll(text, ".", ":")
	for _, layout := range timePartLayouts {
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
