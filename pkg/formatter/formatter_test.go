package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	cases := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		12345:    "12,345",
		1234567:  "1,234,567",
		-9876543: "-9,876,543",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatNumber(in), "FormatNumber(%d)", in)
	}
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0.840", FormatFloat(0.84, 3))
	assert.Equal(t, "166.67", FormatFloat(500.0/3, 2))
}

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, `a\_b \*c\* 1\.5 \(x\) \#tag \\`, EscapeMarkdownV2(`a_b *c* 1.5 (x) #tag \`))
	assert.Equal(t, "мем", EscapeMarkdownV2("мем"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "Мем и...", Truncate("Мем из паблика", 8))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}
