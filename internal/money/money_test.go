package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"12.34", 1234},
		{"5", 500},
		{"0.99", 99},
		{".50", 50},
		{"7.5", 750},
		{"0", 0},
		{" 19.99 ", 1999},
	}
	for _, c := range cases {
		got, err := ParseCents(c.in)
		require.NoError(t, err, "input %q", c.in)
		assert.Equal(t, c.want, got, "input %q", c.in)
	}
}

func TestParseCentsRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "-1.00", "12.345", "abc", "1.2.3", "1,50"} {
		_, err := ParseCents(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "12.34", FormatCents(1234))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "5.00", FormatCents(500))
	assert.Equal(t, "-1.50", FormatCents(-150))
}

func TestRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 1999, 123456} {
		got, err := ParseCents(FormatCents(cents))
		require.NoError(t, err)
		assert.Equal(t, cents, got)
	}
}
