package universe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idxlab/terminal/internal/contracts"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadNormalizesAndDeduplicates(t *testing.T) {
	path := writeTemp(t, "universe.csv", "bbca\nBBCA.JK\n\n# comment\ntlkm.jk\n")

	symbols, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"BBCA.JK", "TLKM.JK"}, symbols)
}

func TestLoadEmptyUniverseIsAnError(t *testing.T) {
	path := writeTemp(t, "universe.csv", "\n# only comments\n")

	_, err := Load(path)

	assert.Error(t, err)
}

func TestLoadMissingFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestLoadSectorMap(t *testing.T) {
	path := writeTemp(t, "sector_map.csv", "Ticker,Sector\nBBCA.JK,Banking\nadro,Energy\n,Empty\n")

	m, err := LoadSectorMap(path)

	require.NoError(t, err)
	assert.Equal(t, "Banking", m.Sector("BBCA.JK"))
	assert.Equal(t, "Energy", m.Sector("ADRO.JK"))
	assert.Equal(t, contracts.SectorUnknown, m.Sector("XXXX.JK"))
}

func TestLoadSectorMapMissingFileYieldsEmptyMap(t *testing.T) {
	m, err := LoadSectorMap(filepath.Join(t.TempDir(), "nope.csv"))

	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.Equal(t, contracts.SectorUnknown, m.Sector("BBCA.JK"))
}

func TestHeuristicSector(t *testing.T) {
	assert.Equal(t, "BANKS", heuristicSector("BBRI.JK"))
	assert.Equal(t, "TELCO", heuristicSector("TLKM.JK"))
	assert.Equal(t, "CONSUMER", heuristicSector("UNVR.JK"))
	assert.Equal(t, "OTHER", heuristicSector("GOTO.JK"))
}
