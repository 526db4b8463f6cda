package analysis

import (
	"testing"

	"github.com/slfx77/fallout-xbox-360-utils-sub002/espm"
)

func TestBestName(t *testing.T) {
	t.Run("full name beats editor id", func(t *testing.T) {
		s := newTestSession(t, &espm.Record{FormID: 1, Kind: espm.KindNPC, EditorID: "MrBurkeRef", FullName: "Mister Burke"})
		if got := s.BestName(1); got != "Mister Burke" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("editor id when no full name", func(t *testing.T) {
		s := newTestSession(t, &espm.Record{FormID: 1, Kind: espm.KindQuest, EditorID: "MQ01"})
		if got := s.BestName(1); got != "MQ01" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("hex fallback for unknown and unnamed", func(t *testing.T) {
		s := newTestSession(t, &espm.Record{FormID: 0xAB, Kind: espm.KindCell})
		if got := s.BestName(0xAB); got != "0x000000AB" {
			t.Fatalf("got %q", got)
		}
		if got := s.BestName(0xDEADBEEF); got != "0xDEADBEEF" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("null FormID is never resolved", func(t *testing.T) {
		s := newTestSession(t)
		if got := s.BestName(0); got != "0x00000000" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("placed instance inherits base name", func(t *testing.T) {
		s := newTestSession(t,
			&espm.Record{FormID: 0x10, Kind: espm.KindPlacedNPC, Placed: &espm.PlacedData{Base: 0x20}},
			&espm.Record{FormID: 0x20, Kind: espm.KindNPC, FullName: "Lucas Simms"},
		)
		if got := s.BestName(0x10); got != "Lucas Simms" {
			t.Fatalf("instance should inherit base name, got %q", got)
		}
	})

	t.Run("base chase prefers base name over own editor id", func(t *testing.T) {
		s := newTestSession(t,
			&espm.Record{FormID: 0x10, Kind: espm.KindPlacedNPC, EditorID: "SimmsRef", Placed: &espm.PlacedData{Base: 0x20}},
			&espm.Record{FormID: 0x20, Kind: espm.KindNPC, FullName: "Lucas Simms"},
		)
		if got := s.BestName(0x10); got != "Lucas Simms" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("own editor id when base yields nothing", func(t *testing.T) {
		s := newTestSession(t,
			&espm.Record{FormID: 0x10, Kind: espm.KindPlacedObject, EditorID: "SpawnMarker", Placed: &espm.PlacedData{Base: 0x99}},
		)
		if got := s.BestName(0x10); got != "SpawnMarker" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("cyclic base chain falls back to hex", func(t *testing.T) {
		s := newTestSession(t,
			&espm.Record{FormID: 0x10, Kind: espm.KindPlacedObject, Placed: &espm.PlacedData{Base: 0x20}},
			&espm.Record{FormID: 0x20, Kind: espm.KindPlacedObject, Placed: &espm.PlacedData{Base: 0x10}},
		)
		if got := s.BestName(0x10); got != "0x00000010" {
			t.Fatalf("cyclic base chain should degrade to hex, got %q", got)
		}
	})
}

func TestEditorID(t *testing.T) {
	s := newTestSession(t, &espm.Record{FormID: 1, Kind: espm.KindQuest, EditorID: "MQ01"})

	if got, ok := s.EditorID(1); !ok || got != "MQ01" {
		t.Fatalf("got %q, %v", got, ok)
	}
	if _, ok := s.EditorID(2); ok {
		t.Fatalf("unknown FormID should not report an editor id")
	}
	if _, ok := s.EditorID(0); ok {
		t.Fatalf("null FormID should not report an editor id")
	}
}
