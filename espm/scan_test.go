package espm

import (
	"bytes"
	"encoding/binary"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestScanDump(t *testing.T) {
	log := zaptest.NewLogger(t)
	be := binary.BigEndian

	t.Run("carves records out of garbage", func(t *testing.T) {
		var dump bytes.Buffer
		dump.Write(bytes.Repeat([]byte{0xDE, 0xAD}, 64))
		dump.Write(rec(be, "NPC_", 0x100, 0, sub(be, "FULL", zstr("Moira Brown"))))
		dump.Write([]byte("INFO")) // bait: signature with no plausible record behind it
		dump.Write(bytes.Repeat([]byte{0x00}, 32))
		dump.Write(rec(be, "DIAL", 0x200, 0, sub(be, "EDID", zstr("GREETING"))))
		dump.Write(bytes.Repeat([]byte{0xFF}, 16))

		store, err := ScanDump(bytes.NewReader(dump.Bytes()), log)
		if err != nil {
			t.Fatalf("ScanDump: %v", err)
		}
		if store.Len() != 2 {
			t.Fatalf("expected 2 carved records, got %d", store.Len())
		}
		npc := store.Get(0x100)
		if npc == nil || npc.FullName != "Moira Brown" || npc.Provenance != FromDump {
			t.Fatalf("carved NPC wrong: %+v", npc)
		}
		if store.Get(0x200) == nil {
			t.Fatalf("carved DIAL missing")
		}
	})

	t.Run("duplicates resolve to first occurrence", func(t *testing.T) {
		var dump bytes.Buffer
		dump.Write(rec(be, "QUST", 0x300, 0, sub(be, "FULL", zstr("Wasteland Survival Guide"))))
		dump.Write(rec(be, "QUST", 0x300, 0, sub(be, "FULL", zstr("Corrupted Copy"))))

		store, err := ScanDump(bytes.NewReader(dump.Bytes()), log)
		if err != nil {
			t.Fatalf("ScanDump: %v", err)
		}
		if got := store.Get(0x300).FullName; got != "Wasteland Survival Guide" {
			t.Fatalf("first occurrence should win, got %q", got)
		}
		if store.Duplicates() != 1 {
			t.Fatalf("expected 1 duplicate, got %d", store.Duplicates())
		}
	})

	t.Run("truncated tail record is skipped", func(t *testing.T) {
		whole := rec(be, "CELL", 0x400, 0, sub(be, "FULL", zstr("Rivet City")))
		var dump bytes.Buffer
		dump.Write(rec(be, "CELL", 0x500, 0, sub(be, "EDID", zstr("Intact"))))
		dump.Write(whole[:len(whole)-6]) // cut mid subrecord

		store, err := ScanDump(bytes.NewReader(dump.Bytes()), log)
		if err != nil {
			t.Fatalf("ScanDump: %v", err)
		}
		if store.Get(0x500) == nil {
			t.Fatalf("intact record should survive")
		}
		if store.Get(0x400) != nil {
			t.Fatalf("truncated record should be rejected")
		}
	})

	t.Run("empty input yields empty store", func(t *testing.T) {
		store, err := ScanDump(bytes.NewReader(nil), log)
		if err != nil {
			t.Fatalf("ScanDump: %v", err)
		}
		if store.Len() != 0 {
			t.Fatalf("expected empty store, got %d records", store.Len())
		}
	})
}
