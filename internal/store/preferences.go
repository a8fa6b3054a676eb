package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	entsql "entgo.io/ent/dialect/sql"
)

// Preference names.
const (
	prefTTSRate  = "tts_rate"
	prefTTSPitch = "tts_pitch"
	prefAutoplay = "autoplay_enabled"
)

// Bounds for the rate and pitch settings.
const (
	MinVoiceValue = 0.5
	MaxVoiceValue = 2.0
)

// Preferences are the narration settings chosen on the settings screen.
type Preferences struct {
	TTSRate  float64
	TTSPitch float64
	Autoplay bool
}

// DefaultPreferences returns normal rate and pitch with autoplay off.
func DefaultPreferences() Preferences {
	return Preferences{TTSRate: 1.0, TTSPitch: 1.0, Autoplay: false}
}

// Clamp keeps rate and pitch within [MinVoiceValue, MaxVoiceValue].
func (p Preferences) Clamp() Preferences {
	p.TTSRate = min(max(p.TTSRate, MinVoiceValue), MaxVoiceValue)
	p.TTSPitch = min(max(p.TTSPitch, MinVoiceValue), MaxVoiceValue)
	return p
}

// PreferenceRepo persists Preferences as name/value rows.
type PreferenceRepo struct {
	s *Store
}

// Load returns the stored preferences, with defaults for unset or
// unparseable values.
func (r *PreferenceRepo) Load(ctx context.Context) (Preferences, error) {
	query, args := builder().
		Select("name", "value").
		From(builder().Table(tablePreferences)).
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Preferences{}, fmt.Errorf("load preferences: %w", err)
	}
	defer rows.Close()

	p := DefaultPreferences()
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return Preferences{}, fmt.Errorf("scan preference: %w", err)
		}
		switch name {
		case prefTTSRate:
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				p.TTSRate = f
			}
		case prefTTSPitch:
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				p.TTSPitch = f
			}
		case prefAutoplay:
			if b, err := strconv.ParseBool(value); err == nil {
				p.Autoplay = b
			}
		}
	}
	if err := rows.Err(); err != nil {
		return Preferences{}, err
	}
	return p.Clamp(), nil
}

// Save stores every field of p.
func (r *PreferenceRepo) Save(ctx context.Context, p Preferences) error {
	p = p.Clamp()
	values := map[string]string{
		prefTTSRate:  strconv.FormatFloat(p.TTSRate, 'f', -1, 64),
		prefTTSPitch: strconv.FormatFloat(p.TTSPitch, 'f', -1, 64),
		prefAutoplay: strconv.FormatBool(p.Autoplay),
	}

	return r.s.withTx(ctx, func(tx *sql.Tx) error {
		for name, value := range values {
			query, args := builder().Insert(tablePreferences).
				Columns("name", "value").
				Values(name, value).
				OnConflict(
					entsql.ConflictColumns("name"),
					entsql.ResolveWithNewValues(),
				).
				Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("save preference %s: %w", name, err)
			}
		}
		return nil
	})
}

// Clear removes all stored preferences.
func (r *PreferenceRepo) Clear(ctx context.Context) error {
	return r.s.withTx(ctx, func(tx *sql.Tx) error {
		query, args := builder().Delete(tablePreferences).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear preferences: %w", err)
		}
		return nil
	})
}
