package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestJSONTimeAcceptsCommonLayouts(t *testing.T) {
	inputs := []string{
		`"2026-08-14T10:30:00Z"`,
		`"2026-08-14T10:30:00+05:30"`,
		`"2026-08-14T10:30:00.123456"`,
		`"2026-08-14T10:30:00"`,
		`"2026-08-14"`,
	}
	for _, in := range inputs {
		var jt JSONTime
		if err := json.Unmarshal([]byte(in), &jt); err != nil {
			t.Errorf("unmarshal %s: %v", in, err)
		}
		if jt.Time().IsZero() {
			t.Errorf("unmarshal %s produced zero time", in)
		}
	}

	var jt JSONTime
	if err := json.Unmarshal([]byte(`"14/08/2026"`), &jt); err == nil {
		t.Error("slash date should be rejected")
	}
}

func TestJSONTimeMarshalsRFC3339(t *testing.T) {
	src := time.Date(2026, 8, 14, 10, 30, 0, 0, time.UTC)
	out, err := json.Marshal(JSONTime(src))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2026-08-14T10:30:00Z"` {
		t.Errorf("got %s", out)
	}
}
