package history

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/maam00/glasshouse/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "glasshouse.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSnapshot(winRate, toxic float64) models.Snapshot {
	return models.Snapshot{
		"performance": {"win_rate": winRate, "contribution_margin": 6.0},
		"toxic":       {"remaining_count": toxic},
		"inventory":   {"total": 1200},
	}
}

func TestSaveAndGet(t *testing.T) {
	s := testStore(t)

	snap := testSnapshot(91.5, 40)
	if err := s.Save("2026-02-14", snap); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := s.Get("2026-02-14")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Value("performance", "win_rate") != 91.5 {
		t.Errorf("win_rate = %v, want 91.5", got.Value("performance", "win_rate"))
	}
	if got.Value("toxic", "remaining_count") != 40 {
		t.Errorf("toxic = %v, want 40", got.Value("toxic", "remaining_count"))
	}
}

func TestGetMissingDate(t *testing.T) {
	s := testStore(t)

	if _, err := s.Get("2026-01-01"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveReplacesExistingDate(t *testing.T) {
	s := testStore(t)

	if err := s.Save("2026-02-14", testSnapshot(80, 40)); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := s.Save("2026-02-14", testSnapshot(92, 38)); err != nil {
		t.Fatalf("second Save returned error: %v", err)
	}

	got, err := s.Get("2026-02-14")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Value("performance", "win_rate") != 92 {
		t.Errorf("win_rate = %v, want replacement value 92", got.Value("performance", "win_rate"))
	}
}

func TestLatestAndPrevious(t *testing.T) {
	s := testStore(t)

	dates := []string{"2026-02-12", "2026-02-13", "2026-02-14"}
	for i, d := range dates {
		if err := s.Save(d, testSnapshot(float64(80+i), 40)); err != nil {
			t.Fatalf("Save(%s) returned error: %v", d, err)
		}
	}

	date, snap, err := s.Latest()
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if date != "2026-02-14" || snap.Value("performance", "win_rate") != 82 {
		t.Errorf("Latest = %s / %v", date, snap.Value("performance", "win_rate"))
	}

	date, snap, err = s.Previous("2026-02-14")
	if err != nil {
		t.Fatalf("Previous returned error: %v", err)
	}
	if date != "2026-02-13" || snap.Value("performance", "win_rate") != 81 {
		t.Errorf("Previous = %s / %v", date, snap.Value("performance", "win_rate"))
	}

	if _, _, err := s.Previous("2026-02-12"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Previous before first date: err = %v, want ErrNotFound", err)
	}
}

func TestRecent(t *testing.T) {
	s := testStore(t)

	for _, d := range []string{"2026-02-10", "2026-02-11", "2026-02-12", "2026-02-13"} {
		if err := s.Save(d, testSnapshot(90, 40)); err != nil {
			t.Fatalf("Save(%s) returned error: %v", d, err)
		}
	}

	days, err := s.Recent(2)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("len(days) = %d, want 2", len(days))
	}
	if days[0].Date != "2026-02-13" || days[1].Date != "2026-02-12" {
		t.Errorf("dates = %s, %s; want newest first", days[0].Date, days[1].Date)
	}
}

func TestSaveInsights(t *testing.T) {
	s := testStore(t)

	runID, err := s.SaveInsights(&models.Insights{
		VelocityInsight: "Daily sales of 24.5 homes trail the 29 needed for guidance.",
		GuidanceInsight: "Projected revenue lands 12% short without acceleration.",
		PatternInsight:  "Win rate above 90% confirms disciplined pricing.",
	})
	if err != nil {
		t.Fatalf("SaveInsights returned error: %v", err)
	}
	if runID == "" {
		t.Fatal("expected a run id")
	}

	secondID, err := s.SaveInsights(&models.Insights{PatternInsight: "x"})
	if err != nil {
		t.Fatalf("second SaveInsights returned error: %v", err)
	}
	if secondID == runID {
		t.Error("run ids should be unique")
	}
}
