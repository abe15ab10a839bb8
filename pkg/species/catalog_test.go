package species

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLookupPrefersLongestMatch(t *testing.T) {
	c := Builtin()

	p, ok := c.Lookup("Golden Pothos (Epipremnum aureum)")
	require.True(t, ok)
	assert.Equal(t, "pothos", p.Match)

	p, ok = c.Lookup("Snake Plant")
	require.True(t, ok)
	assert.Equal(t, "snake plant", p.Match)

	_, ok = c.Lookup("")
	assert.False(t, ok)
	_, ok = c.Lookup("Mystery vine")
	assert.False(t, ok)
}

func TestArid(t *testing.T) {
	c := Builtin()
	assert.True(t, c.Arid("Christmas Cactus"))
	assert.True(t, c.Arid("Aloe vera"))
	assert.True(t, c.Arid("some succulent"))
	assert.False(t, c.Arid("Boston Fern"))
	assert.False(t, c.Arid(""))
}

func TestLoadCSVOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "species.csv")
	data := "\uFEFFSpecies,Family,Water Days,Fertilize_Days,Mist,Notes\n" +
		"Fern,fern,3,21,yes,Bathroom friendly\n" +
		"Peace Lily,arum,6,,no,Droops when thirsty\n" +
		"Broken,,0,10,no,\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := Load(path, "")
	require.NoError(t, err)

	p, ok := c.Lookup("Boston fern")
	require.True(t, ok)
	assert.Equal(t, 3, p.WaterDays)
	assert.True(t, p.MistOK)

	p, ok = c.Lookup("peace lily")
	require.True(t, ok)
	assert.Equal(t, 30, p.FertilizeDays)
	assert.Equal(t, "Droops when thirsty", p.Notes)

	_, ok = c.Lookup("broken")
	assert.False(t, ok)
}

func TestLoadXLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "species.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"species", "family", "water_days", "fertilize_days", "mist_ok"},
		{"string of pearls", "succulent", 12, 60, "no"},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	c, err := Load("", path)
	require.NoError(t, err)
	p, ok := c.Lookup("String of Pearls")
	require.True(t, ok)
	assert.Equal(t, 12, p.WaterDays)
	assert.True(t, c.Arid("string of pearls"))
}

func TestParseRowsRequiresColumns(t *testing.T) {
	_, err := parseRows([][]string{{"name", "colour"}})
	assert.Error(t, err)
}
