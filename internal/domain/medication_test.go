package domain_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"oncocare/internal/domain"
)

func TestMedicationInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      domain.MedicationInput
		wantErr error
		want    domain.Frequency
	}{
		{"missing name", domain.MedicationInput{Name: "  ", Time: "08:00", Frequency: "daily"}, domain.ErrMissingName, 0},
		{"missing time", domain.MedicationInput{Name: "Tamoksifen", Time: "\t", Frequency: "daily"}, domain.ErrMissingTime, 0},
		{"missing frequency", domain.MedicationInput{Name: "Tamoksifen", Time: "08:00"}, domain.ErrMissingFrequency, 0},
		{"unknown frequency", domain.MedicationInput{Name: "Tamoksifen", Time: "08:00", Frequency: "hourly"}, domain.ErrMissingFrequency, 0},
		{"name checked first", domain.MedicationInput{}, domain.ErrMissingName, 0},
		{"canonical", domain.MedicationInput{Name: "Anastrozol", Time: "22:00", Frequency: "weekly-3"}, nil, domain.FrequencyWeekly3},
		{"legacy label", domain.MedicationInput{Name: "Anastrozol", Time: "22:00", Frequency: "Günaşırı"}, nil, domain.FrequencyEveryOtherDay},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.in.Validate()
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Validate() err = %v; want %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("Validate() = %v; want %v", got, tc.want)
			}
		})
	}
}

func TestValidationErrorAs(t *testing.T) {
	_, err := domain.MedicationInput{Name: "x"}.Validate()
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Code != domain.MissingTime {
		t.Errorf("code = %q; want %q", verr.Code, domain.MissingTime)
	}
}

func TestMedicationRecordJSON(t *testing.T) {
	rec := domain.MedicationRecord{
		ID: "1", Name: "Tamoksifen", Dose: domain.DosePlaceholder, Time: "08:00",
		Frequency: domain.FrequencyDaily, CreatedAt: "18.10.2026",
	}
	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"1","name":"Tamoksifen","dose":"—","time":"08:00","frequency":"daily","createdAt":"18.10.2026"}`
	if string(b) != want {
		t.Errorf("got %s; want %s", b, want)
	}
}

func TestMedicationRecordJSON_LegacyLabel(t *testing.T) {
	raw := `[{"id":"1729238400000","name":"Letrozol","dose":"2.5 mg","time":"09:30","frequency":"Haftada 1","createdAt":"18.10.2024"}]`
	var list []domain.MedicationRecord
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list) != 1 || list[0].Frequency != domain.FrequencyWeekly1 {
		t.Fatalf("unexpected decode: %+v", list)
	}
}

func TestFrequencyMarshalInvalid(t *testing.T) {
	if _, err := domain.Frequency(0).MarshalText(); err == nil {
		t.Fatal("expected error for zero frequency")
	}
	var f domain.Frequency
	if err := f.UnmarshalText([]byte("Ayda 1")); err == nil {
		t.Fatal("expected error for unknown frequency")
	}
}

func TestMedicationRecordJSON_UnknownFrequency(t *testing.T) {
	raw := `[{"id":"a","name":"Letrozol","dose":"2.5 mg","time":"09:30","frequency":"Ayda 1","createdAt":"18.10.2024"},` +
		`{"id":"b","name":"Tamoksifen","dose":"20 mg","time":"08:00","frequency":"Her gün","createdAt":"18.10.2024"},` +
		`{"id":"c","name":"Eski","dose":"—","time":"07:00","frequency":3,"createdAt":"01.01.2024"}]`
	var list []domain.MedicationRecord
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		t.Fatalf("one unknown frequency must not fail the list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("decoded %d records, want 3", len(list))
	}
	if list[0].Frequency != 0 || list[0].RawFrequency != "Ayda 1" || list[0].FrequencyLabel() != "Ayda 1" {
		t.Errorf("unknown label not kept: %+v", list[0])
	}
	if list[1].Frequency != domain.FrequencyDaily || list[1].FrequencyLabel() != "Her gün" {
		t.Errorf("known label lost: %+v", list[1])
	}
	if list[2].RawFrequency != "3" {
		t.Errorf("non-string frequency = %q", list[2].RawFrequency)
	}

	b, err := json.Marshal(list[:2])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"frequency":"Ayda 1"`) || !strings.Contains(string(b), `"frequency":"daily"`) {
		t.Errorf("re-encoded list = %s", b)
	}
}
