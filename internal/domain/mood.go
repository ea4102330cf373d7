package domain

import (
	"errors"
	"fmt"
	"time"
)

// MoodKeyPrefix prefixes every per-day mood key.
const MoodKeyPrefix = "@mood_tracker"

// ErrInvalidMood is returned when a value is not one of the known moods.
var ErrInvalidMood = errors.New("mood must be one of \"good\", \"okay\" or \"bad\"")

// Mood is a single wellness self-report. The zero value is not a valid mood.
type Mood uint8

const (
	MoodGood Mood = iota + 1
	MoodOkay
	MoodBad
)

// Moods lists every valid mood in display order.
var Moods = []Mood{MoodGood, MoodOkay, MoodBad}

// ParseMood converts the stored text form into a Mood.
func ParseMood(s string) (Mood, error) {
	switch s {
	case "good":
		return MoodGood, nil
	case "okay":
		return MoodOkay, nil
	case "bad":
		return MoodBad, nil
	}
	return 0, ErrInvalidMood
}

func (m Mood) String() string {
	switch m {
	case MoodGood:
		return "good"
	case MoodOkay:
		return "okay"
	case MoodBad:
		return "bad"
	}
	return fmt.Sprintf("Mood(%d)", uint8(m))
}

// Label is the patient-facing name shown next to the mood button.
func (m Mood) Label() string {
	switch m {
	case MoodGood:
		return "İyi"
	case MoodOkay:
		return "Orta"
	case MoodBad:
		return "Kötü"
	}
	return ""
}

// Valid reports whether m is one of the declared moods.
func (m Mood) Valid() bool {
	return m >= MoodGood && m <= MoodBad
}

func (m Mood) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, ErrInvalidMood
	}
	return []byte(m.String()), nil
}

func (m *Mood) UnmarshalText(b []byte) error {
	v, err := ParseMood(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MoodEntry is the mood recorded for one local calendar day.
// Mood is nil when nothing was recorded that day.
type MoodEntry struct {
	Day  string `json:"day"`
	Mood *Mood  `json:"mood"`
}

// MoodKey returns the storage key for the local calendar day containing t.
// Month and day are not zero-padded.
func MoodKey(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%s_%d-%d-%d", MoodKeyPrefix, y, int(m), d)
}
