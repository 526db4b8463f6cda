package analysis

import (
	"go.uber.org/zap"

	"github.com/slfx77/fallout-xbox-360-utils-sub002/espm"
)

// maxListDepth bounds leveled list nesting. Together with the per-call
// visited set this keeps resolution finite on self-referential input.
const maxListDepth = 8

// SpawnTable maps every leveled list that yields at least one leaf to its
// flattened sequence of leaf actor FormIDs. Ordering is depth-first in
// source order and duplicates are kept - deduplication is a presentation
// concern. The returned map is owned by the session and must not be
// modified.
func (s *Session) SpawnTable() map[espm.FormID][]espm.FormID {
	s.spawnOnce.Do(s.buildSpawnTable)
	return s.spawnTable
}

// ResolveList returns the flattened leaves of a single leveled list, nil when
// the list is unknown or yields nothing.
func (s *Session) ResolveList(id espm.FormID) []espm.FormID {
	return s.SpawnTable()[id]
}

func (s *Session) buildSpawnTable() {
	table := make(map[espm.FormID][]espm.FormID)
	for _, kind := range []espm.Kind{espm.KindLeveledNPC, espm.KindLeveledCreature} {
		for _, rec := range s.store.ByKind(kind) {
			var leaves []espm.FormID
			s.flattenList(rec.FormID, maxListDepth, make(map[espm.FormID]bool), &leaves)
			if len(leaves) > 0 {
				table[rec.FormID] = leaves
			}
		}
	}
	s.spawnTable = table
	s.log.Debug("Spawn tables flattened", zap.Int("lists", len(table)))
}

func (s *Session) flattenList(id espm.FormID, depth int, visited map[espm.FormID]bool, out *[]espm.FormID) {
	if depth <= 0 || visited[id] {
		// silent truncation - cyclic and deeply nested lists are legal input
		return
	}
	visited[id] = true

	rec := s.store.Get(id)
	if rec == nil || rec.LeveledList == nil {
		return
	}
	for _, e := range rec.LeveledList.Entries {
		if e.Target.IsNull() {
			continue
		}
		if t := s.store.Get(e.Target); t != nil && t.LeveledList != nil {
			s.flattenList(e.Target, depth-1, visited, out)
			continue
		}
		*out = append(*out, e.Target)
	}
}
