package record

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrStringTooLong = errors.New("record: string is too long")
	ErrNegativeValue = errors.New("record: rev must be a non-negative number")
	ErrRevOutOfRange = errors.New("record: rev does not fit a float32")
	ErrFieldCount    = errors.New("record: wrong number of fields")
)

// Row is one stored record. Text fields hold raw bytes, limited by RowSchema.
type Row struct {
	Stb      string
	Title    string
	Provider string
	Date     string
	Rev      float32
	Time     string
}

type textField struct {
	col int
	val string
}

// text returns the text columns in validation order.
func (r Row) text() []textField {
	return []textField{
		{ColStb, r.Stb},
		{ColTitle, r.Title},
		{ColProvider, r.Provider},
		{ColDate, r.Date},
		{ColTime, r.Time},
	}
}

// Validate checks text lengths first (stb, title, provider, date, time), then rev.
// The first failing field decides the error.
func (r Row) Validate() error {
	if err := r.validateText(); err != nil {
		return err
	}
	return validateRev(r.Rev)
}

func (r Row) validateText() error {
	for _, f := range r.text() {
		col := RowSchema.Cols[f.col]
		if len(f.val) > col.Size {
			return fmt.Errorf("%w: %s has %d bytes, max %d", ErrStringTooLong, col.Name, len(f.val), col.Size)
		}
	}
	return nil
}

func validateRev(v float32) error {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeValue, v)
	}
	return nil
}

// ParseRow builds a validated row from the six insert tokens
// stb, title, provider, date, rev, time.
func ParseRow(fields []string) (Row, error) {
	if len(fields) != RowSchema.NumCols() {
		return Row{}, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), RowSchema.NumCols())
	}

	r := Row{
		Stb:      fields[ColStb],
		Title:    fields[ColTitle],
		Provider: fields[ColProvider],
		Date:     fields[ColDate],
		Time:     fields[ColTime],
	}
	if err := r.validateText(); err != nil {
		return Row{}, err
	}

	rev, err := strconv.ParseFloat(fields[ColRev], 32)
	if errors.Is(err, strconv.ErrRange) && rev > 0 {
		return Row{}, fmt.Errorf("%w: %q", ErrRevOutOfRange, fields[ColRev])
	}
	if err != nil {
		return Row{}, fmt.Errorf("%w: %q", ErrNegativeValue, fields[ColRev])
	}
	r.Rev = float32(rev)
	if err := validateRev(r.Rev); err != nil {
		return Row{}, err
	}
	return r, nil
}

// FormatRev renders rev with six fractional digits: 8 -> "8.000000".
func FormatRev(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 6, 64)
}

// FormatRow renders the select line "(stb, title, provider, date, rev, time)".
func FormatRow(r Row) string {
	return "(" + strings.Join([]string{
		r.Stb,
		r.Title,
		r.Provider,
		r.Date,
		FormatRev(r.Rev),
		r.Time,
	}, ", ") + ")"
}

func (r Row) String() string { return FormatRow(r) }
