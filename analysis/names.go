package analysis

import "github.com/slfx77/fallout-xbox-360-utils-sub002/espm"

// baseChaseLimit bounds instance-to-base reference chains. Dump-recovered
// placed records can point at each other in loops.
const baseChaseLimit = 8

// BestName resolves a FormID to the best available display name: the
// record's own full name, then - for placed references - the name of the
// base record it is an instance of, then the editor ID, then the hex
// literal. It never fails.
func (s *Session) BestName(id espm.FormID) string {
	if name, ok := s.bestName(id, baseChaseLimit); ok {
		return name
	}
	return id.String()
}

func (s *Session) bestName(id espm.FormID, depth int) (string, bool) {
	if depth <= 0 || id.IsNull() {
		return "", false
	}
	rec := s.store.Get(id)
	if rec == nil {
		return "", false
	}
	if rec.FullName != "" {
		return rec.FullName, true
	}
	if rec.Placed != nil && !rec.Placed.Base.IsNull() {
		// an unnamed instance inherits its base object's name
		if name, ok := s.bestName(rec.Placed.Base, depth-1); ok {
			return name, true
		}
	}
	if rec.EditorID != "" {
		return rec.EditorID, true
	}
	return "", false
}

// EditorID returns the record's editor ID when one is known.
func (s *Session) EditorID(id espm.FormID) (string, bool) {
	rec := s.store.Get(id)
	if rec == nil || rec.EditorID == "" {
		return "", false
	}
	return rec.EditorID, true
}
