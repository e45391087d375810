package catalog

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipment-catalog/internal"
	"equipment-catalog/internal/util"
)

func raw(name, category string, weight, cost any) internal.RawItem {
	return internal.RawItem{
		"name":              name,
		"equipmentCategory": category,
		"weight":            weight,
		"cost":              cost,
	}
}

func TestConvertEntriesVibroblade(t *testing.T) {
	entries, err := ConvertEntries([]internal.RawItem{raw("Vibroblade", "WeaponBasicMelee", "3", "50")})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, internal.Entry{
		ID:      "vibroblade",
		Name:    internal.LocalizedName{En: "Vibroblade", Fr: "Vibroblade"},
		Type:    "weapon basic melee",
		WeightG: 1361,
		Cost:    50,
	}, entries[0])
}

func TestConvertEntriesNumericFields(t *testing.T) {
	entries, err := ConvertEntries([]internal.RawItem{
		raw("Power Cell", "Ammunition", json.Number("2.5"), json.Number("10.9")),
		raw("Glowrod", "Utility", float64(1), 10),
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "glowrod", entries[0].ID)
	assert.Equal(t, 454, entries[0].WeightG)
	assert.Equal(t, 10, entries[0].Cost)

	assert.Equal(t, "power-cell", entries[1].ID)
	assert.Equal(t, 1134, entries[1].WeightG)
	assert.Equal(t, 10, entries[1].Cost)
}

func TestConvertEntriesFirstDuplicateWins(t *testing.T) {
	items := []internal.RawItem{
		raw("Medpac", "MedicalKit", "1", "300"),
		raw("Armoring Kit", "ArmoringKit", "12", "150"),
		raw("medpac", "MedicalKit", "2", "999"),
		raw("Medpac!", "Utility", "not-a-number", "x"),
	}

	entries, err := ConvertEntries(items)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var medpac internal.Entry
	for _, e := range entries {
		if e.ID == "medpac" {
			medpac = e
		}
	}
	assert.Equal(t, "Medpac", medpac.Name.En)
	assert.Equal(t, 300, medpac.Cost)
	assert.Equal(t, "medical kit", medpac.Type)
}

func TestConvertEntriesDropsExactlyOneDuplicate(t *testing.T) {
	items := []internal.RawItem{
		raw("Comlink", "Communications", "1", "25"),
		raw("Datapad", "DataRecordingAndStorage", "1", "75"),
		raw("Comlink", "Communications", "1", "25"),
	}

	entries, err := ConvertEntries(items)
	require.NoError(t, err)
	assert.Len(t, entries, len(items)-1)
}

func TestConvertEntriesSortedCaseInsensitive(t *testing.T) {
	items := []internal.RawItem{
		raw("zabrak Horn Charm", "Utility", "0", "1"),
		raw("Blaster Pistol", "WeaponSimpleBlaster", "2", "300"),
		raw("atlatl", "WeaponSimpleBlaster", "2", "100"),
		raw("Bowcaster", "WeaponMartialBlaster", "16", "1100"),
		raw("Électro-jabber", "WeaponBasicMelee", "2", "200"),
	}

	entries, err := ConvertEntries(items)
	require.NoError(t, err)
	require.Len(t, entries, len(items))

	for i := 1; i < len(entries); i++ {
		prev := strings.ToLower(entries[i-1].Name.En)
		cur := strings.ToLower(entries[i].Name.En)
		assert.LessOrEqual(t, prev, cur, "entries %d and %d out of order", i-1, i)
	}
	assert.Equal(t, "atlatl", entries[0].ID)
	assert.Equal(t, "electro-jabber", entries[len(entries)-1].ID)
	for _, e := range entries {
		assert.True(t, util.IsSlug(e.ID), e.ID)
	}
}

func TestConvertEntriesDuplicateSpellings(t *testing.T) {
	items := []internal.RawItem{
		raw("Stim Pack", "MedicalKit", "1", "10"),
		raw("stim-pack", "MedicalKit", "1", "10"),
		raw("STIM PACK II", "MedicalKit", "1", "10"),
		raw("Stim  Pack II", "MedicalKit", "1", "20"),
	}

	entries, err := ConvertEntries(items)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "stim-pack", entries[0].ID)
	assert.Equal(t, "Stim Pack", entries[0].Name.En)
	assert.Equal(t, "stim-pack-ii", entries[1].ID)
	assert.Equal(t, "STIM PACK II", entries[1].Name.En)
}

func TestConvertEntriesFailures(t *testing.T) {
	cases := []struct {
		name string
		item internal.RawItem
		want error
	}{
		{name: "missing name", item: internal.RawItem{"equipmentCategory": "Utility", "weight": "1", "cost": "1"}, want: internal.ErrParse},
		{name: "name not a string", item: internal.RawItem{"name": json.Number("42"), "equipmentCategory": "Utility", "weight": "1", "cost": "1"}, want: internal.ErrParse},
		{name: "empty name", item: raw("", "Utility", "1", "1"), want: internal.ErrInvalidName},
		{name: "unsluggable name", item: raw("★★★", "Utility", "1", "1"), want: internal.ErrInvalidName},
		{name: "bad weight", item: raw("Crate", "Utility", "heavy", "1"), want: internal.ErrParse},
		{name: "bool cost", item: raw("Crate", "Utility", "1", true), want: internal.ErrParse},
		{name: "missing category", item: internal.RawItem{"name": "Crate", "weight": "1", "cost": "1"}, want: internal.ErrParse},
		{name: "null weight", item: raw("Crate", "Utility", nil, "1"), want: internal.ErrParse},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items := []internal.RawItem{raw("Vibroblade", "WeaponBasicMelee", "3", "50"), tc.item}
			entries, err := ConvertEntries(items)
			require.Error(t, err)
			assert.Nil(t, entries)
			assert.True(t, errors.Is(err, tc.want), err.Error())
		})
	}
}

func TestConvertEntriesEmpty(t *testing.T) {
	entries, err := ConvertEntries(nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
