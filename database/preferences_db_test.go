package database

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetPreferences_DefaultsWhenUnset(t *testing.T) {
	db := testDB(t)

	prefs, err := GetPreferences(db, "sheila")
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), prefs)
}

func TestSetPreference_Upserts(t *testing.T) {
	db := testDB(t)

	require.NoError(t, SetPreference(db, "sheila", PrefMale, false))
	require.NoError(t, SetPreference(db, "sheila", PrefMale, false))
	require.NoError(t, SetPreference(db, "sheila", PrefLifeLines, false))

	prefs, err := GetPreferences(db, "sheila")
	require.NoError(t, err)
	assert.False(t, prefs.Male)
	assert.False(t, prefs.LifeLines)
	assert.True(t, prefs.Female)

	require.NoError(t, SetPreference(db, "sheila", PrefMale, true))
	prefs, err = GetPreferences(db, "sheila")
	require.NoError(t, err)
	assert.True(t, prefs.Male)

	other, err := GetPreferences(db, "patrick")
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), other)
}

func TestSetPreference_RejectsUnknownKey(t *testing.T) {
	db := testDB(t)
	assert.Error(t, SetPreference(db, "sheila", "dark_mode", true))
}

func TestSavePreferences_RoundTrip(t *testing.T) {
	db := testDB(t)
	want := Preferences{MotherSide: true, Female: true, FamilyLines: true}

	require.NoError(t, SavePreferences(db, "sheila", want))
	got, err := GetPreferences(db, "sheila")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, DeletePreferences(db, "sheila"))
	got, err = GetPreferences(db, "sheila")
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), got)
}
