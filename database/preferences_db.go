package database

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// Preference keys, as stored in the preferences table.
const (
	PrefMotherSide  = "mother_side"
	PrefFatherSide  = "father_side"
	PrefFemale      = "female"
	PrefMale        = "male"
	PrefSpouseLines = "spouse_lines"
	PrefLifeLines   = "life_lines"
	PrefFamilyLines = "family_lines"
)

// PreferenceKeys lists every known toggle.
var PreferenceKeys = []string{
	PrefMotherSide, PrefFatherSide, PrefFemale, PrefMale,
	PrefSpouseLines, PrefLifeLines, PrefFamilyLines,
}

// Preferences is the flat set of named boolean toggles a user keeps.
type Preferences struct {
	MotherSide  bool `json:"mother_side"`
	FatherSide  bool `json:"father_side"`
	Female      bool `json:"female"`
	Male        bool `json:"male"`
	SpouseLines bool `json:"spouse_lines"`
	LifeLines   bool `json:"life_lines"`
	FamilyLines bool `json:"family_lines"`
}

// DefaultPreferences has every toggle on.
func DefaultPreferences() Preferences {
	return Preferences{
		MotherSide: true, FatherSide: true, Female: true, Male: true,
		SpouseLines: true, LifeLines: true, FamilyLines: true,
	}
}

func (p *Preferences) field(key string) *bool {
	switch key {
	case PrefMotherSide:
		return &p.MotherSide
	case PrefFatherSide:
		return &p.FatherSide
	case PrefFemale:
		return &p.Female
	case PrefMale:
		return &p.Male
	case PrefSpouseLines:
		return &p.SpouseLines
	case PrefLifeLines:
		return &p.LifeLines
	case PrefFamilyLines:
		return &p.FamilyLines
	}
	return nil
}

// IsValidPreferenceKey checks if a string names a known toggle
func IsValidPreferenceKey(key string) bool {
	var p Preferences
	return p.field(key) != nil
}

// Set changes one toggle by key. It reports false for an unknown key.
func (p *Preferences) Set(key string, value bool) bool {
	f := p.field(key)
	if f == nil {
		return false
	}
	*f = value
	return true
}

// GetPreferences loads a user's toggles. Keys never stored keep their default.
func GetPreferences(db Querier, username string) (Preferences, error) {
	prefs := DefaultPreferences()

	queryBuilder := psql.Select("pref_key", "value").
		From("preferences").
		Where(sq.Eq{"username": username})
	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return prefs, fmt.Errorf("failed to build SQL for GetPreferences: %w", err)
	}

	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return prefs, fmt.Errorf("failed to query preferences for %s: %w", username, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var value bool
		if err := rows.Scan(&key, &value); err != nil {
			return prefs, fmt.Errorf("failed to scan preference row for %s: %w", username, err)
		}
		if f := prefs.field(key); f != nil {
			*f = value
		}
	}
	if err = rows.Err(); err != nil {
		return prefs, fmt.Errorf("error iterating preference rows for %s: %w", username, err)
	}
	return prefs, nil
}

// SetPreference inserts or updates a single toggle.
func SetPreference(db Querier, username, key string, value bool) error {
	if !IsValidPreferenceKey(key) {
		return fmt.Errorf("unknown preference key %q", key)
	}

	queryBuilder := psql.Insert("preferences").
		Columns("username", "pref_key", "value", "updated_at").
		Values(username, key, value, time.Now().Unix()).
		Suffix("ON CONFLICT(username, pref_key) DO UPDATE SET").
		Suffix("value = excluded.value,").
		Suffix("updated_at = excluded.updated_at")

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for SetPreference: %w", err)
	}
	if _, err = db.Exec(sqlStr, args...); err != nil {
		return fmt.Errorf("failed to set preference %s for %s: %w", key, username, err)
	}
	return nil
}

// SavePreferences writes every toggle in one transaction.
func SavePreferences(db *sql.DB, username string, prefs Preferences) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin preferences transaction: %w", err)
	}
	for _, key := range PreferenceKeys {
		if err := SetPreference(tx, username, key, *prefs.field(key)); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit preferences for %s: %w", username, err)
	}
	return nil
}

// DeletePreferences removes every stored toggle of a user.
func DeletePreferences(db Querier, username string) error {
	queryBuilder := psql.Delete("preferences").Where(sq.Eq{"username": username})
	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for DeletePreferences: %w", err)
	}
	if _, err := db.Exec(sqlStr, args...); err != nil {
		return fmt.Errorf("failed to delete preferences for %s: %w", username, err)
	}
	return nil
}
