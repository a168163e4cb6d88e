package domain

import (
	"strings"
	"testing"
	"time"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindKeyValue(t *testing.T) {
	text := "STID = KMSO STNM = 727730 TIME = 170401/0100"

	t.Run("walks keys in order", func(t *testing.T) {
		id, rest, err := findKeyValue(text, "STID", isAlphaNum, unicode.IsSpace)
		require.NoError(t, err)
		assert.Equal(t, "KMSO", id)
		assert.Equal(t, " STNM = 727730 TIME = 170401/0100", rest)

		num, rest, err := findKeyValue(rest, "STNM", isNumberStart, isIntEnd)
		require.NoError(t, err)
		assert.Equal(t, "727730", num)

		tm, rest, err := findKeyValue(rest, "TIME", isDigit, isTimeEnd)
		require.NoError(t, err)
		assert.Equal(t, "170401/0100", tm)
		assert.Empty(t, rest)
	})

	t.Run("missing key", func(t *testing.T) {
		_, rest, err := findKeyValue(text, "SLAT", isNumberStart, isFloatEnd)
		require.ErrorIs(t, err, ErrMalformedKeyValue)
		assert.Equal(t, text, rest)
	})

	t.Run("no value after key", func(t *testing.T) {
		_, _, err := findKeyValue("STIM = ", "STIM", isNumberStart, isIntEnd)
		require.ErrorIs(t, err, ErrMalformedKeyValue)
	})
}

func TestFindSectionBoundary(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   int
		wantOK bool
	}{
		{"empty line", "A = 1\n\nB = 2", 7, true},
		{"whitespace line", "A = 1\n   \nB = 2", 10, true},
		{"punctuation only", "A = 1\n = \nB = 2", 10, true},
		{"no blank line", "A = 1\nB = 2\nC = 3", 0, false},
		{"boundary at end", "A = 1\n\n", 0, false},
		{"empty", "", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := findSectionBoundary(tc.text)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFindNextNTokens(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		n       int
		want    int
		wantOK  bool
		wantErr bool
	}{
		{"group followed by more", "a b c d", 2, 3, true, false},
		{"ends inside last token", "a b c", 3, 5, true, false},
		{"trailing whitespace", "a b c \n", 3, 5, true, false},
		{"wrapped across lines", "a\nb\n  c d", 3, 7, true, false},
		{"only whitespace", "  \n\t ", 3, 0, false, false},
		{"empty", "", 3, 0, false, false},
		{"partial group", "a b", 3, 0, false, true},
		{"partial group trailing space", "a b ", 3, 0, false, true},
		{"zero group size", "a b", 0, 0, false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok, err := findNextNTokens(tc.text, tc.n)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrTokenCount)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFindNextNTokens_ChunksReconstructText(t *testing.T) {
	text := "727730 170401/0000 1.0\n2.0 727730 170401/0100\n  3.0 4.0 727730 170401/0200 5.0 6.0"

	var chunks []string
	remaining := text
	for {
		end, ok, err := findNextNTokens(remaining, 4)
		require.NoError(t, err)
		if !ok {
			break
		}
		chunks = append(chunks, remaining[:end])
		remaining = remaining[end:]
	}

	require.Len(t, chunks, 3)
	assert.Equal(t, text, strings.Join(chunks, "")+remaining)
	for _, c := range chunks {
		assert.Len(t, strings.Fields(c), 4)
	}
}

func TestParseValidTime(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := parseValidTime("170401/0100")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2017, 4, 1, 1, 0, 0, 0, time.UTC), got)
	})

	for _, bad := range []string{
		"",
		"170401-0100",
		"1704010100",
		"17041/00100",
		"1704O1/0100",
		"171301/0000",
		"170431/0000",
		"170401/2400",
		"170401/0060",
	} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := parseValidTime(bad)
			require.ErrorIs(t, err, ErrInvalidTimestamp)
		})
	}
}

func TestParseFloatKV_Sentinel(t *testing.T) {
	v, _, err := parseFloatKV("EQLV = -9999.00 LFCT = 1.5", "EQLV")
	require.NoError(t, err)
	assert.True(t, IsMissing(v))
	assert.Nil(t, optional[HectoPascal](v))

	v, _, err = parseFloatKV("EQLV = -9999.00 LFCT = 1.5", "LFCT")
	require.NoError(t, err)
	assert.False(t, IsMissing(v))
	require.NotNil(t, optional[HectoPascal](v))
	assert.Equal(t, HectoPascal(1.5), *optional[HectoPascal](v))
}
