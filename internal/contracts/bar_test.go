package contracts

import (
	"testing"
	"time"
)

func series(closes ...float64) PriceSeries {
	s := make(PriceSeries, len(closes))
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		s[i] = Bar{Date: day.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}
	return s
}

func TestPriceSeries_At(t *testing.T) {
	s := series(10, 11, 12)

	last, ok := s.At(1)
	if !ok || last.Close != 12 {
		t.Errorf("At(1) = %v, %v; want close 12", last.Close, ok)
	}

	prev, ok := s.At(3)
	if !ok || prev.Close != 10 {
		t.Errorf("At(3) = %v, %v; want close 10", prev.Close, ok)
	}

	if _, ok := s.At(4); ok {
		t.Error("At(4) should run off the start of a 3-bar series")
	}
	if _, ok := s.At(0); ok {
		t.Error("At(0) is not a valid offset")
	}
}

func TestPriceSeries_Returns(t *testing.T) {
	s := series(100, 110, 99)
	rets := s.Returns()
	if len(rets) != 2 {
		t.Fatalf("Returns() length = %d, want 2", len(rets))
	}
	if diff := rets[0] - 0.10; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("rets[0] = %v, want 0.10", rets[0])
	}
	if diff := rets[1] - (-0.10); diff > 1e-9 || diff < -1e-9 {
		t.Errorf("rets[1] = %v, want -0.10", rets[1])
	}
}

func TestConvictionTier(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{92, "TIER-1 ELITE"},
		{85, "TIER-1 ELITE"},
		{70, "TIER-2 STRONG"},
		{55, "TIER-3 EARLY"},
		{40, "TIER-4 WATCH"},
		{10, "TIER-5 NO EDGE"},
	}
	for _, tt := range tests {
		if got := ConvictionTier(tt.score); got != tt.want {
			t.Errorf("ConvictionTier(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestSectorMap_Sector(t *testing.T) {
	var nilMap SectorMap
	if got := nilMap.Sector("BBCA"); got != SectorUnknown {
		t.Errorf("nil map Sector() = %s, want %s", got, SectorUnknown)
	}

	m := SectorMap{"BBCA": "FINANCIALS"}
	if got := m.Sector("BBCA"); got != "FINANCIALS" {
		t.Errorf("Sector(BBCA) = %s, want FINANCIALS", got)
	}
	if got := m.Sector("ZZZZ"); got != SectorUnknown {
		t.Errorf("Sector(ZZZZ) = %s, want %s", got, SectorUnknown)
	}
}
