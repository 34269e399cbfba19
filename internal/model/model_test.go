package model

import (
	"encoding/json"
	"testing"
	"time"
)

// The API responses serialize these structs directly, so their JSON keys
// must be the same snake_case the hand-built DTOs use.
func TestSerializedModelsUseSnakeCaseKeys(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name string
		v    interface{}
		keys []string
	}{
		{"school", School{ID: 1, Name: "Springfield", Code: "SPRING24", AdminID: 9, CreatedAt: now, UpdatedAt: now},
			[]string{"id", "name", "school_code", "admin_id", "created_at", "updated_at"}},
		{"scholarship", Scholarship{ID: 1, SchoolCode: "SPRING24", Title: "STEM", Amount: 5000, Deadline: now},
			[]string{"id", "school_code", "title", "description", "amount", "deadline", "eligibility"}},
		{"fee", Fee{ID: 1, SchoolCode: "SPRING24", Title: "Lab", Amount: 120, DueDate: now},
			[]string{"id", "school_code", "title", "amount", "due_date", "category"}},
		{"notice", Notice{ID: 1, SchoolCode: "SPRING24", Title: "Exam", Content: "Mon", Priority: PriorityNormal},
			[]string{"id", "school_code", "title", "content", "priority"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := json.Marshal(tc.v)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var m map[string]json.RawMessage
			if err := json.Unmarshal(raw, &m); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			for _, k := range tc.keys {
				if _, ok := m[k]; !ok {
					t.Errorf("missing key %q in %s", k, raw)
				}
			}
			for k := range m {
				if k != "" && (k[0] >= 'A' && k[0] <= 'Z') {
					t.Errorf("exported Go field name leaked into JSON: %q", k)
				}
			}
		})
	}
}
