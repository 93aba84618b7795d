// Package timewindow converts between business-local calendar dates and the
// millisecond epoch timestamps used by the Clover API.
package timewindow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	// Embedded zone database so the operational zone resolves on minimal images.
	_ "time/tzdata"
)

var (
	ErrInvalidTimeInput = errors.New("invalid date or time input")
	ErrInvalidAnchor    = errors.New("anchor must be start, end or exact")
)

// Anchor selects which wall-clock instant of a calendar day a conversion lands on.
type Anchor string

const (
	AnchorStart Anchor = "start"
	AnchorEnd   Anchor = "end"
	AnchorExact Anchor = "exact"
)

// instant layouts without an offset, interpreted in the codec's zone
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// Readable is a provider timestamp rendered for humans.
type Readable struct {
	UTC   string `json:"utc"`
	Local string `json:"local"`
}

type Codec struct {
	loc *time.Location
}

// NewCodec builds a codec bound to the named IANA zone.
func NewCodec(zone string) (*Codec, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", zone, err)
	}
	return &Codec{loc: loc}, nil
}

func (c *Codec) Location() *time.Location {
	return c.loc
}

// ToEpochMillis parses a bare date ("2006-01-02") or a full instant and
// returns the anchored instant in epoch milliseconds.
//
// start and end move the wall clock to 00:00:00 and 23:59:00 of the calendar
// day in the codec's zone. exact keeps the time of day of an instant input and
// uses 12:00:00 for a bare date.
func (c *Codec) ToEpochMillis(input string, anchor Anchor) (int64, error) {
	t, hasTime, err := c.parse(input)
	if err != nil {
		return 0, err
	}

	switch anchor {
	case AnchorStart, AnchorEnd:
		return c.DateToEpochMillis(t, anchor)
	case AnchorExact:
		if hasTime {
			return t.UnixMilli(), nil
		}
		return c.DateToEpochMillis(t, anchor)
	default:
		return 0, ErrInvalidAnchor
	}
}

// DateToEpochMillis anchors the calendar date of d, as seen in the codec's
// zone, and returns epoch milliseconds.
func (c *Codec) DateToEpochMillis(d time.Time, anchor Anchor) (int64, error) {
	y, m, day := d.In(c.loc).Date()

	var hour, minute int
	switch anchor {
	case AnchorStart:
	case AnchorEnd:
		hour, minute = 23, 59
	case AnchorExact:
		hour = 12
	default:
		return 0, ErrInvalidAnchor
	}

	return time.Date(y, m, day, hour, minute, 0, 0, c.loc).UnixMilli(), nil
}

// ToReadable renders epoch milliseconds as ISO-8601 strings in UTC and in the
// codec's zone.
func (c *Codec) ToReadable(epochMillis int64) Readable {
	t := time.UnixMilli(epochMillis)
	return Readable{
		UTC:   t.UTC().Format(time.RFC3339),
		Local: t.In(c.loc).Format(time.RFC3339),
	}
}

// FromEpochMillis returns the instant in the codec's zone.
func (c *Codec) FromEpochMillis(epochMillis int64) time.Time {
	return time.UnixMilli(epochMillis).In(c.loc)
}

// Today returns midnight of now's calendar date in the codec's zone.
func (c *Codec) Today(now time.Time) time.Time {
	return c.DateOf(now)
}

// DateOf returns midnight of t's calendar date in the codec's zone.
func (c *Codec) DateOf(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc)
}

func (c *Codec) parse(input string) (time.Time, bool, error) {
	s := strings.TrimSpace(input)

	if !strings.Contains(s, "T") {
		t, err := time.ParseInLocation(time.DateOnly, s, c.loc)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("%w: %q", ErrInvalidTimeInput, input)
		}
		return t, false, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(c.loc), true, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, c.loc); err == nil {
			return t, true, nil
		}
	}

	return time.Time{}, false, fmt.Errorf("%w: %q", ErrInvalidTimeInput, input)
}
