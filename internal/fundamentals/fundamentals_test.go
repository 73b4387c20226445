package fundamentals

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idxlab/terminal/internal/contracts"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fundamentals.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadNormalizesAndMapsColumns(t *testing.T) {
	path := writeTemp(t, "symbol,pbv,per,roe,div_yield,eps_growth\n"+
		"bbca,4.2,22,0.21,0.02,0.12\n"+
		"TLKM.JK,1.4,11,0.18,0.05,0.08\n")

	book, err := Load(path)
	require.NoError(t, err)
	require.Len(t, book, 2)

	f, ok := book.Get("BBCA.JK")
	require.True(t, ok)
	assert.Equal(t, 0.21, f.ROE)
	// "per" feeds PE.
	assert.Equal(t, 22.0, f.PE)

	f, ok = book.Get("TLKM.JK")
	require.True(t, ok)
	assert.Equal(t, 0.05, f.DivYield)

	_, ok = book.Get("UNVR.JK")
	assert.False(t, ok)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	book, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	require.NoError(t, err)
	assert.Nil(t, book)

	_, ok := book.Get("BBCA.JK")
	assert.False(t, ok)
}

func TestLoadRejectsMissingSymbolColumn(t *testing.T) {
	path := writeTemp(t, "pbv,roe\n1.0,0.1\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadBadNumbersDefaultToZero(t *testing.T) {
	path := writeTemp(t, "symbol,roe,pe\nBBCA,n/a,12\n")

	book, err := Load(path)
	require.NoError(t, err)

	f, ok := book.Get("BBCA.JK")
	require.True(t, ok)
	assert.Equal(t, 0.0, f.ROE)
	assert.Equal(t, 12.0, f.PE)
}

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		f       contracts.Fundamentals
		score   int
		quality string
	}{
		{
			name: "high quality compounder",
			f: contracts.Fundamentals{
				ROE: 0.22, Margin: 0.25, RevenueGrowth: 0.18,
				EPSGrowth: 0.20, DebtToEquity: 0.5, PE: 10,
			},
			// 8+5+8+6+5+5.
			score:   37,
			quality: QualityHigh,
		},
		{
			name:    "mid tier",
			f:       contracts.Fundamentals{ROE: 0.12, RevenueGrowth: 0.08},
			score:   10,
			quality: QualityMid,
		},
		{
			name:    "leveraged and expensive",
			f:       contracts.Fundamentals{DebtToEquity: 2.5, PE: 55},
			score:   -10,
			quality: QualityLow,
		},
		{
			name:    "empty row",
			f:       contracts.Fundamentals{},
			score:   0,
			quality: QualityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, quality := Score(tt.f)
			assert.Equal(t, tt.score, score)
			assert.Equal(t, tt.quality, quality)
		})
	}
}

func TestStyles(t *testing.T) {
	deepValue := contracts.Fundamentals{PBV: 0.8, ROE: 0.16, PE: 9, EPSGrowth: 0.12, DivYield: 0.05}
	assert.Equal(t, []string{"VALUE", "GROWTH", "DIVIDEND", "MAGIC", "TURNAROUND"}, Styles(deepValue))

	expensive := contracts.Fundamentals{PBV: 5, ROE: 0.30, PE: 45}
	assert.Empty(t, Styles(expensive))
}
