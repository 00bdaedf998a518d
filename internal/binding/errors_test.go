package binding

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestErrorsPreserveOrder(t *testing.T) {
	e := NewErrors()
	e.Add("owner", "first_name", "", "must not be blank")
	e.Add("owner", "telephone", "abc", "must be numeric")

	out, err := e.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	var decoded []Error
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("len = %d, want 2", len(decoded))
	}
	if decoded[0].FieldName != "first_name" || decoded[1].FieldName != "telephone" {
		t.Errorf("order not preserved: %v", decoded)
	}
}

func TestErrorsSingleLine(t *testing.T) {
	e := NewErrors()
	e.Add("pet", "name", "", "must not be blank")

	out, err := e.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if strings.ContainsAny(out, "\n\r") {
		t.Errorf("output contains line breaks: %q", out)
	}
}

func TestNewErrorsWithID(t *testing.T) {
	tests := []struct {
		name   string
		bodyID int
		empty  bool
	}{
		{"unassigned body id is accepted", 0, true},
		{"assigned body id is rejected", 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewErrorsWithID(tt.bodyID)
			if e.Empty() != tt.empty {
				t.Errorf("Empty() = %v, want %v", e.Empty(), tt.empty)
			}
		})
	}
}

func TestNewErrorsWithIDs(t *testing.T) {
	tests := []struct {
		name   string
		pathID int
		bodyID int
		empty  bool
	}{
		{"matching ids", 5, 5, true},
		{"body id omitted", 5, 0, true},
		{"mismatched ids", 5, 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewErrorsWithIDs(tt.pathID, tt.bodyID)
			if e.Empty() != tt.empty {
				t.Errorf("Empty() = %v, want %v", e.Empty(), tt.empty)
			}
		})
	}
}

func TestMismatchMessageNamesPathID(t *testing.T) {
	e := NewErrorsWithIDs(5, 6)
	out, err := e.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if !strings.Contains(out, "does not match pathId: 5") {
		t.Errorf("output %q missing path id mismatch message", out)
	}
}

func TestEmptyErrorsSerializeToEmptyArray(t *testing.T) {
	out, err := NewErrors().ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if out != "[]" {
		t.Errorf("ToJSON() = %q, want %q", out, "[]")
	}
}
