package record

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRow_OK(t *testing.T) {
	r, err := ParseRow([]string{"stb2", "thehobbit", "warnerbros", "2014-04-02", "8.00", "2:45"})
	require.NoError(t, err)
	require.Equal(t, hobbitRow(), r)
}

func TestParseRow_FieldCount(t *testing.T) {
	_, err := ParseRow([]string{"stb2", "thehobbit"})
	require.ErrorIs(t, err, ErrFieldCount)
}

func TestParseRow_StringTooLong(t *testing.T) {
	cases := map[string][]string{
		"stb":      {strings.Repeat("a", 33), "t", "p", "d", "1", "t"},
		"title":    {"s", strings.Repeat("a", 256), "p", "d", "1", "t"},
		"provider": {"s", "t", strings.Repeat("a", 256), "d", "1", "t"},
		"date":     {"s", "t", "p", strings.Repeat("a", 11), "1", "t"},
		"time":     {"s", "t", "p", "d", "1", strings.Repeat("a", 5)},
	}
	for name, fields := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRow(fields)
			require.ErrorIs(t, err, ErrStringTooLong)
			require.Contains(t, err.Error(), name)
		})
	}
}

func TestParseRow_StringCheckedBeforeRev(t *testing.T) {
	_, err := ParseRow([]string{strings.Repeat("a", 33), "t", "p", "d", "-1.00", "t"})
	require.ErrorIs(t, err, ErrStringTooLong)
	require.NotErrorIs(t, err, ErrNegativeValue)
}

func TestParseRow_FirstTextFieldWins(t *testing.T) {
	_, err := ParseRow([]string{"s", strings.Repeat("a", 256), "p", "d", "1", strings.Repeat("a", 5)})
	require.ErrorIs(t, err, ErrStringTooLong)
	require.Contains(t, err.Error(), "title")
}

func TestParseRow_Rev(t *testing.T) {
	for _, bad := range []string{"-1.00", "-0.5", "abc", "NaN", "Inf", "-1e40"} {
		t.Run(bad, func(t *testing.T) {
			_, err := ParseRow([]string{"s", "t", "p", "d", bad, "t"})
			require.ErrorIs(t, err, ErrNegativeValue)
		})
	}

	for in, want := range map[string]string{
		"0":    "0.000000",
		"8":    "8.000000",
		"8.00": "8.000000",
		"4.5":  "4.500000",
		"701":  "701.000000",
		"0.1":  "0.100000",
	} {
		r, err := ParseRow([]string{"s", "t", "p", "d", in, "t"})
		require.NoError(t, err, in)
		assert.Equal(t, want, FormatRev(r.Rev), in)
	}
}

func TestParseRow_RevOutOfRange(t *testing.T) {
	for _, in := range []string{"1e39", "3.5e38"} {
		_, err := ParseRow([]string{"s", "t", "p", "d", in, "t"})
		require.ErrorIs(t, err, ErrRevOutOfRange, in)
		require.NotErrorIs(t, err, ErrNegativeValue, in)
	}

	// the largest float32 still fits
	r, err := ParseRow([]string{"s", "t", "p", "d", "3.4e38", "t"})
	require.NoError(t, err)
	assert.InDelta(t, 3.4e38, float64(r.Rev), 1e32)
}

func TestRow_Validate(t *testing.T) {
	require.NoError(t, hobbitRow().Validate())

	r := hobbitRow()
	r.Rev = -1
	require.ErrorIs(t, r.Validate(), ErrNegativeValue)

	r = hobbitRow()
	r.Date = "2014-04-02T00"
	require.ErrorIs(t, r.Validate(), ErrStringTooLong)
}

func TestFormatRow(t *testing.T) {
	assert.Equal(t, "(a, b, c, d, 0.000000, e)", FormatRow(Row{Stb: "a", Title: "b", Provider: "c", Date: "d", Time: "e"}))
	assert.Equal(t, FormatRow(hobbitRow()), hobbitRow().String())
}
