package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name: "valid",
			doc: &Document{
				ProjectDescription:  "Gasum Loiste",
				ActivityDescription: "Engineering",
				Comment:             "IAT/FAT/SAT documentation",
			},
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "missing project",
			doc:     &Document{ActivityDescription: "Engineering"},
			wantErr: ErrEmptyProject,
		},
		{
			name:    "missing activity",
			doc:     &Document{ProjectDescription: "Gasum Loiste"},
			wantErr: ErrEmptyActivity,
		},
		{
			name: "empty free text is fine",
			doc: &Document{
				ProjectDescription:  "OPTIMAX APPS&MODELS CZ 2024 WP-12081.04",
				ActivityDescription: "Optimax - demo",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEvent(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   *Event
		wantErr error
	}{
		{
			name:  "valid",
			event: &Event{Subject: "Discussing Optimax", Start: start, End: start.Add(time.Hour)},
		},
		{
			name:    "nil event",
			event:   nil,
			wantErr: ErrInvalidEvent,
		},
		{
			name:    "missing subject",
			event:   &Event{Start: start, End: start.Add(time.Hour)},
			wantErr: ErrEmptySubject,
		},
		{
			name:    "end before start",
			event:   &Event{Subject: "Sync", Start: start, End: start.Add(-time.Minute)},
			wantErr: ErrInvalidTimeRange,
		},
		{
			name:  "zero-length event",
			event: &Event{Subject: "Reminder", Start: start, End: start},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEvent(tt.event)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateEvent() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateEvent() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
