package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `Device report
Serial 123456789

AJ Table #0 Stage A - 256 Frequencies
----------------------------------------
01234 56789 10000
99999

AJ Table #0 Stage N - 256 Frequencies
----------------------------------------
00000 00500
12345

AJ Table #1 Other - 16 Frequencies
-----
11111 22222
`

func TestExtractEndToEnd(t *testing.T) {
	text := "Stage A - 256 Frequencies\n----------\n01234 56789\n"

	tables := Extract(text)

	assert.Equal(t, []float64{1.234, 6.789}, tables.StageA.Values())
	assert.True(t, tables.StageN.IsEmpty())
}

func TestExtractBothSections(t *testing.T) {
	tables := Extract(sampleExport)

	assert.Equal(t, []float64{1.234, 56.789, 10.0, 99.999}, tables.StageA.Values())
	assert.Equal(t, []float64{0, 0.5, 12.345}, tables.StageN.Values())
}

func TestExtractOneTokenPerLine(t *testing.T) {
	var b strings.Builder
	b.WriteString("AJ Table #0 Stage A - 256 Frequencies\n-----\n")
	var want []float64
	for i := 0; i < 256; i++ {
		token := fmt.Sprintf("%05d", i*389%100000)
		fmt.Fprintf(&b, "  %3d: %s\n", i, token)
		v, err := Convert(token)
		require.NoError(t, err)
		want = append(want, v)
	}

	tables := Extract(b.String())

	require.Equal(t, 256, tables.StageA.Len())
	assert.Equal(t, want, tables.StageA.Values())
}

func TestExtractNoHeaders(t *testing.T) {
	tables := Extract("12345 67890\nnothing to see here\n")

	assert.True(t, tables.StageA.IsEmpty())
	assert.True(t, tables.StageN.IsEmpty())
}

func TestExtractHeaderWithoutSeparatorIsIgnored(t *testing.T) {
	tables := Extract("Stage A - 256 Frequencies\n12345\n")
	assert.True(t, tables.StageA.IsEmpty())
}

func TestExtractStopsAtNextStageHeader(t *testing.T) {
	text := "Stage A - 256 Frequencies\n---\n11111\nStage N - 256 Frequencies\n---\n22222\n"

	tables := Extract(text)

	assert.Equal(t, []float64{11.111}, tables.StageA.Values())
	assert.Equal(t, []float64{22.222}, tables.StageN.Values())
}

func TestExtractUnicodeSeparator(t *testing.T) {
	tables := Extract("Stage N - 256 Frequencies\n──────\n12345\n")
	assert.Equal(t, []float64{12.345}, tables.StageN.Values())
}

func TestExtractSectionCustomLabel(t *testing.T) {
	seq := ExtractSection(sampleExport, "Other - 16 Frequencies")
	assert.Equal(t, []float64{11.111, 22.222}, seq.Values())
}

func TestExtractTokens(t *testing.T) {
	t.Run("adjacent non digits", func(t *testing.T) {
		assert.Equal(t, []float64{12.345}, ExtractTokens("12345x"))
		assert.Equal(t, []float64{12.345}, ExtractTokens("x12345"))
		assert.Equal(t, []float64{12.345, 67.89}, ExtractTokens("a12345b67890c"))
	})

	t.Run("wrong widths are ignored whole", func(t *testing.T) {
		assert.Empty(t, ExtractTokens("1234"))
		assert.Empty(t, ExtractTokens("123456"))
		assert.Empty(t, ExtractTokens("1234567890"))
		assert.Equal(t, []float64{54.321}, ExtractTokens("1234 54321 123456"))
	})

	t.Run("order is top to bottom left to right", func(t *testing.T) {
		got := ExtractTokens("30000 10000\n20000\n\n40000")
		assert.Equal(t, []float64{30, 10, 20, 40}, got)
	})

	t.Run("windows line endings", func(t *testing.T) {
		assert.Equal(t, []float64{1.111, 2.222}, ExtractTokens("01111\r\n02222\r\n"))
	})
}

func TestConvert(t *testing.T) {
	cases := map[string]float64{
		"00000": 0.0,
		"99999": 99.999,
		"12345": 12.345,
		"01234": 1.234,
		"10000": 10.0,
		"00001": 0.001,
	}
	for token, want := range cases {
		got, err := Convert(token)
		require.NoError(t, err, token)
		assert.Equal(t, want, got, token)
	}
}

func TestConvertRejectsMalformedTokens(t *testing.T) {
	for _, token := range []string{"", "1234", "123456", "12a45", "-1234"} {
		_, err := Convert(token)
		assert.ErrorIs(t, err, ErrBadToken, token)
	}
}
