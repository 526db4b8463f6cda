package espm

import "testing"

func TestStoreFirstWriterWins(t *testing.T) {
	s := NewStore()

	first := &Record{FormID: 0x10, Kind: KindNPC, EditorID: "First"}
	second := &Record{FormID: 0x10, Kind: KindCreature, EditorID: "Second"}

	if !s.Insert(first) {
		t.Fatalf("first insert should succeed")
	}
	if s.Insert(second) {
		t.Fatalf("duplicate insert should be discarded")
	}
	if got := s.Get(0x10); got.EditorID != "First" {
		t.Fatalf("first writer should win, got %q", got.EditorID)
	}
	if s.Duplicates() != 1 {
		t.Fatalf("expected 1 duplicate, got %d", s.Duplicates())
	}
}

func TestStoreNullFormID(t *testing.T) {
	s := NewStore()
	if s.Insert(&Record{FormID: 0}) {
		t.Fatalf("null FormID must never be stored")
	}
	if s.Get(0) != nil {
		t.Fatalf("null FormID must never resolve")
	}
	if s.Insert(nil) {
		t.Fatalf("nil record must be rejected")
	}
}

func TestStoreInsertionOrder(t *testing.T) {
	s := NewStore()
	want := []FormID{0x30, 0x10, 0x20}
	for _, id := range want {
		s.Insert(&Record{FormID: id, Kind: KindTopic})
	}
	got := s.FormIDs()
	if len(got) != len(want) {
		t.Fatalf("expected %d ids, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("insertion order not preserved at %d: want %s, got %s", i, want[i], got[i])
		}
	}
}

func TestStoreByKind(t *testing.T) {
	s := NewStore()
	s.Insert(&Record{FormID: 1, Kind: KindNPC})
	s.Insert(&Record{FormID: 2, Kind: KindTopic})
	s.Insert(&Record{FormID: 3, Kind: KindNPC})

	npcs := s.ByKind(KindNPC)
	if len(npcs) != 2 || npcs[0].FormID != 1 || npcs[1].FormID != 3 {
		t.Fatalf("ByKind should return matching records in insertion order, got %v", npcs)
	}
	if got := s.ByKind(KindQuest); got != nil {
		t.Fatalf("expected no quests, got %v", got)
	}
}
