package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// MedicationsKey holds the whole serialized medication list.
	MedicationsKey = "@medications_list"
	// DosePlaceholder is stored when no dose was given.
	DosePlaceholder = "—"
	// CreatedAtLayout renders creation dates the way the app displays them.
	CreatedAtLayout = "02.01.2006"
)

// Frequency is how often a medication is taken. The zero value is invalid.
type Frequency uint8

const (
	FrequencyDaily Frequency = iota + 1
	FrequencyEveryOtherDay
	FrequencyWeekly1
	FrequencyWeekly3
	FrequencyAsNeeded
)

// Frequencies lists every valid frequency in display order.
var Frequencies = []Frequency{
	FrequencyDaily,
	FrequencyEveryOtherDay,
	FrequencyWeekly1,
	FrequencyWeekly3,
	FrequencyAsNeeded,
}

// ParseFrequency accepts the canonical identifier or the display label that
// older clients persisted.
func ParseFrequency(s string) (Frequency, bool) {
	s = strings.TrimSpace(s)
	for _, f := range Frequencies {
		if s == f.String() || s == f.Label() {
			return f, true
		}
	}
	return 0, false
}

func (f Frequency) String() string {
	switch f {
	case FrequencyDaily:
		return "daily"
	case FrequencyEveryOtherDay:
		return "every-other-day"
	case FrequencyWeekly1:
		return "weekly-1"
	case FrequencyWeekly3:
		return "weekly-3"
	case FrequencyAsNeeded:
		return "as-needed"
	}
	return fmt.Sprintf("Frequency(%d)", uint8(f))
}

// Label is the patient-facing text for f.
func (f Frequency) Label() string {
	switch f {
	case FrequencyDaily:
		return "Her gün"
	case FrequencyEveryOtherDay:
		return "Günaşırı"
	case FrequencyWeekly1:
		return "Haftada 1"
	case FrequencyWeekly3:
		return "Haftada 3"
	case FrequencyAsNeeded:
		return "Gerektiğinde"
	}
	return ""
}

func (f Frequency) MarshalText() ([]byte, error) {
	if _, ok := ParseFrequency(f.String()); !ok {
		return nil, fmt.Errorf("invalid frequency %d", uint8(f))
	}
	return []byte(f.String()), nil
}

func (f *Frequency) UnmarshalText(b []byte) error {
	v, ok := ParseFrequency(string(b))
	if !ok {
		return fmt.Errorf("unknown frequency %q", string(b))
	}
	*f = v
	return nil
}

// MedicationRecord is a personal medication reminder.
type MedicationRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Dose      string    `json:"dose"`
	Time      string    `json:"time"`
	Frequency Frequency `json:"frequency"`
	CreatedAt string    `json:"createdAt"`

	// RawFrequency keeps stored frequency text that names no known
	// Frequency, so the record round-trips unchanged.
	RawFrequency string `json:"-"`
}

type medicationRecordJSON struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Dose      string          `json:"dose"`
	Time      string          `json:"time"`
	Frequency json.RawMessage `json:"frequency"`
	CreatedAt string          `json:"createdAt"`
}

// FrequencyLabel is the patient-facing frequency, falling back to the
// stored text for frequencies this version does not know.
func (m MedicationRecord) FrequencyLabel() string {
	if l := m.Frequency.Label(); l != "" {
		return l
	}
	return m.RawFrequency
}

func (m MedicationRecord) MarshalJSON() ([]byte, error) {
	freq := m.RawFrequency
	if m.Frequency.Label() != "" {
		freq = m.Frequency.String()
	}
	fb, err := json.Marshal(freq)
	if err != nil {
		return nil, err
	}
	return json.Marshal(medicationRecordJSON{
		ID:        m.ID,
		Name:      m.Name,
		Dose:      m.Dose,
		Time:      m.Time,
		Frequency: fb,
		CreatedAt: m.CreatedAt,
	})
}

// UnmarshalJSON never fails on the frequency: unknown labels and non-string
// values are kept in RawFrequency instead of rejecting the whole list.
func (m *MedicationRecord) UnmarshalJSON(b []byte) error {
	var v medicationRecordJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*m = MedicationRecord{ID: v.ID, Name: v.Name, Dose: v.Dose, Time: v.Time, CreatedAt: v.CreatedAt}

	var text string
	if err := json.Unmarshal(v.Frequency, &text); err != nil {
		text = string(v.Frequency)
	}
	if f, ok := ParseFrequency(text); ok {
		m.Frequency = f
	} else {
		m.RawFrequency = text
	}
	return nil
}

// MedicationInput is the raw form submission for a new record.
type MedicationInput struct {
	Name      string `json:"name"`
	Dose      string `json:"dose"`
	Time      string `json:"time"`
	Frequency string `json:"frequency"`
}

// ValidationCode identifies which field of a form was rejected.
type ValidationCode string

const (
	MissingName      ValidationCode = "missing_name"
	MissingTime      ValidationCode = "missing_time"
	MissingFrequency ValidationCode = "missing_frequency"
)

// ValidationError reports a rejected form field. It is the only error the
// medication registry surfaces.
type ValidationError struct {
	Code ValidationCode
}

func (e *ValidationError) Error() string {
	switch e.Code {
	case MissingName:
		return "medication name is required"
	case MissingTime:
		return "time is required"
	case MissingFrequency:
		return "frequency must be selected"
	case MissingFields:
		return "all fields are required"
	case InvalidEmail:
		return "a valid e-mail address is required"
	case MissingCategory:
		return "a category must be selected"
	case UnknownCategory:
		return "unknown category"
	case QuestionTooShort:
		return "question must be at least 10 characters"
	}
	return "invalid medication: " + string(e.Code)
}

var (
	ErrMissingName      = &ValidationError{Code: MissingName}
	ErrMissingTime      = &ValidationError{Code: MissingTime}
	ErrMissingFrequency = &ValidationError{Code: MissingFrequency}
)

// Validate checks in in field order and returns the parsed frequency.
func (in MedicationInput) Validate() (Frequency, error) {
	if strings.TrimSpace(in.Name) == "" {
		return 0, ErrMissingName
	}
	if strings.TrimSpace(in.Time) == "" {
		return 0, ErrMissingTime
	}
	f, ok := ParseFrequency(in.Frequency)
	if !ok {
		return 0, ErrMissingFrequency
	}
	return f, nil
}
