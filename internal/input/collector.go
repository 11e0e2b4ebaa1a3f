package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/djlord-it/gsctl/internal/domain"
)

// Prompter asks the operator for one line of text.
// The placeholder is a presentation hint only and never becomes the answer.
type Prompter interface {
	Prompt(ctx context.Context, label, placeholder string) (string, error)
}

// Placeholders shown next to each prompt.
const (
	StartDatePlaceholder = "2025-10-02"
	StartTimePlaceholder = "12:00"
	EndDatePlaceholder   = "2025-10-02"
	EndTimePlaceholder   = "12:15"
	NamePlaceholder      = "ISS (ZARYA)"
	Line1Placeholder     = "1 25544U 98067A   25235.75642456  .00011222  00000+0  20339-3 0  9993"
	Line2Placeholder     = "2 25544  51.6355 332.1708 0003307 260.2831  99.7785 15.50129787525648"
	RXPlaceholder        = "145800000"
	TXPlaceholder        = "437500000"
)

var errEmpty = errors.New("must not be empty")

// ParseFloat alone also takes hex floats and inf/nan spellings.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

var errNotDecimal = errors.New("not a decimal number")

// Collector gathers the fields of a job one prompt at a time.
// It stops at the first failure; there is no re-prompt loop.
type Collector struct {
	prompter Prompter
	out      io.Writer
}

func NewCollector(p Prompter, out io.Writer) *Collector {
	if out == nil {
		out = io.Discard
	}
	return &Collector{prompter: p, out: out}
}

// Collect runs the prompts in order: start, end, element set, frequencies.
func (c *Collector) Collect(ctx context.Context) (domain.CollectedFields, error) {
	fmt.Fprintln(c.out, "Creating a new tracking job...")
	fmt.Fprintln(c.out)

	var fields domain.CollectedFields
	var err error

	fields.Window.Start, err = c.dateTime(ctx, "Start", StartDatePlaceholder, StartTimePlaceholder)
	if err != nil {
		return domain.CollectedFields{}, err
	}
	fields.Window.End, err = c.dateTime(ctx, "End", EndDatePlaceholder, EndTimePlaceholder)
	if err != nil {
		return domain.CollectedFields{}, err
	}

	fields.Elements, err = c.elementSet(ctx)
	if err != nil {
		return domain.CollectedFields{}, err
	}

	fields.Frequencies.RX, err = c.frequency(ctx, "RX", "rx_frequency", RXPlaceholder)
	if err != nil {
		return domain.CollectedFields{}, err
	}
	fields.Frequencies.TX, err = c.frequency(ctx, "TX", "tx_frequency", TXPlaceholder)
	if err != nil {
		return domain.CollectedFields{}, err
	}

	return fields, nil
}

func (c *Collector) dateTime(ctx context.Context, label, datePlaceholder, timePlaceholder string) (time.Time, error) {
	date, err := c.prompter.Prompt(ctx, label+" date:", datePlaceholder)
	if err != nil {
		return time.Time{}, err
	}
	clock, err := c.prompter.Prompt(ctx, label+" time:", timePlaceholder)
	if err != nil {
		return time.Time{}, err
	}
	return ParseUserDateTime(date, clock)
}

func (c *Collector) elementSet(ctx context.Context) (domain.OrbitalElementSet, error) {
	name, err := c.line(ctx, "Satellite name:", NamePlaceholder, "tle0")
	if err != nil {
		return domain.OrbitalElementSet{}, err
	}
	line1, err := c.line(ctx, "TLE Line 1:", Line1Placeholder, "tle1")
	if err != nil {
		return domain.OrbitalElementSet{}, err
	}
	line2, err := c.line(ctx, "TLE Line 2:", Line2Placeholder, "tle2")
	if err != nil {
		return domain.OrbitalElementSet{}, err
	}
	return domain.OrbitalElementSet{Name: name, Line1: line1, Line2: line2}, nil
}

// line prompts for free text and trims it. Only emptiness is rejected.
func (c *Collector) line(ctx context.Context, label, placeholder, field string) (string, error) {
	raw, err := c.prompter.Prompt(ctx, label, placeholder)
	if err != nil {
		return "", err
	}
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", &ParseError{Field: field, Value: raw, Err: errEmpty}
	}
	return v, nil
}

func (c *Collector) frequency(ctx context.Context, label, field, placeholder string) (float64, error) {
	raw, err := c.prompter.Prompt(ctx, label+" frequency (Hz):", placeholder)
	if err != nil {
		return 0, err
	}
	return ParseFrequency(field, raw)
}

// ParseFrequency parses a decimal frequency in Hz. Out-of-range values
// such as 1e400 are rejected, so the result always encodes as a JSON number.
func ParseFrequency(field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if !decimalPattern.MatchString(s) {
		return 0, &ParseError{Field: field, Value: raw, Err: errNotDecimal}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{Field: field, Value: raw, Err: errors.Unwrap(err)}
	}
	return v, nil
}
