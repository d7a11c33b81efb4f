// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/robolog/internal/models"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("expected the same validator instance")
	}
}

func TestValidateLogEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		event     models.LogEvent
		wantErr   bool
		wantField string
	}{
		{
			name:  "plain event",
			event: models.LogEvent{RobotID: "r-1", Level: "INFO", Message: "moved arm"},
		},
		{
			name:  "submission end with session",
			event: models.LogEvent{RobotID: "r-1", Tag: "submission_end", SessionID: "s-1"},
		},
		{
			name:      "missing robot id",
			event:     models.LogEvent{Level: "INFO", Message: "orphan"},
			wantErr:   true,
			wantField: "robotId",
		},
		{
			name:      "negative timestamp",
			event:     models.LogEvent{RobotID: "r-1", Timestamp: -1},
			wantErr:   true,
			wantField: "timestamp",
		},
		{
			name:      "submission end without session",
			event:     models.LogEvent{RobotID: "r-1", Tag: "SUBMISSION_END"},
			wantErr:   true,
			wantField: "accountLessonId",
		},
		{
			name:      "oversized level",
			event:     models.LogEvent{RobotID: "r-1", Level: strings.Repeat("X", 65)},
			wantErr:   true,
			wantField: "level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateLogEvent(&tt.event)
			if !tt.wantErr {
				if verr != nil {
					t.Fatalf("unexpected validation error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("expected validation error")
			}
			found := false
			for _, fe := range verr.Errors() {
				if fe.Field() == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected failure on %s, got %v", tt.wantField, verr)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	verr := ValidateLogEvent(&models.LogEvent{Tag: "submission_end"})
	if verr == nil {
		t.Fatal("expected validation error")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %s", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "robotId is required") {
		t.Errorf("message = %s", apiErr.Message)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("expected two field details, got %#v", apiErr.Details)
	}
}
