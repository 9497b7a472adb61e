package date

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	day, err := Parse("2026-02-14")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if Key(day) != "2026-02-14" {
		t.Errorf("Key = %s, want 2026-02-14", Key(day))
	}

	stamped, err := Parse("2026-02-14T18:30:00Z")
	if err != nil {
		t.Fatalf("Parse of RFC3339 returned error: %v", err)
	}
	if Key(stamped) != "2026-02-14" {
		t.Errorf("RFC3339 truncated Key = %s, want 2026-02-14", Key(stamped))
	}
	if stamped.Hour() != 0 {
		t.Errorf("time of day should be stripped, got hour %d", stamped.Hour())
	}

	if _, err := Parse("02/14/2026"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestToday(t *testing.T) {
	if Today() != Key(time.Now()) {
		t.Errorf("Today = %s", Today())
	}
}
