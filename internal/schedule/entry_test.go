package schedule

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryString(t *testing.T) {
	e := Entry{ClassName: "Algebra", Day: "Monday", Time: "9:00"}
	assert.Equal(t, "Algebra - Monday at 9:00", e.String())
}

func TestParseEntry(t *testing.T) {
	tests := []struct {
		in   string
		want Entry
	}{
		{in: "Algebra - Monday at 9:00", want: Entry{"Algebra", "Monday", "9:00"}},
		{in: "Intro - Part 2 - Monday at 9:00", want: Entry{"Intro", "Part 2 - Monday", "9:00"}},
		{in: "Yoga - Meet at gym Friday at 7:00", want: Entry{"Yoga", "Meet at gym Friday", "7:00"}},
		{in: "A - B at ", want: Entry{"A", "B", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEntry(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEntryRoundTripsPlainFields(t *testing.T) {
	for _, e := range []Entry{
		{"Biology", "Tuesday", "10:00"},
		{"Art History", "someday", "after lunch"},
	} {
		got, err := ParseEntry(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}
}

func TestParseEntryMissingSeparators(t *testing.T) {
	for _, in := range []string{"", "Algebra", "Algebra Monday at 9:00", "Algebra - Monday 9:00"} {
		_, err := ParseEntry(in)
		assert.Error(t, err, in)
	}
}

func TestParseEntryErrorKeepsRunesWhole(t *testing.T) {
	// 'é' is two bytes, so a byte cut at 57 would land inside a rune.
	_, err := ParseEntry(strings.Repeat("é", 40))
	require.Error(t, err)
	assert.True(t, utf8.ValidString(err.Error()))
	assert.Contains(t, err.Error(), "...")
}
