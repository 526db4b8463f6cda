package espm

// Store is a flat FormID keyed record collection with insert-if-absent
// semantics: the first record seen under a FormID wins and later duplicates
// are discarded, never merged or overwritten. Duplicates are common in
// dump-recovered data and this tie-break is deliberate.
//
// Once loading is finished the store is treated as read-only, which makes it
// safe to share between resolvers without synchronization.
type Store struct {
	records map[FormID]*Record
	order   []FormID // insertion order for deterministic iteration
	dupes   int
}

func NewStore() *Store {
	return &Store{records: make(map[FormID]*Record)}
}

// Insert adds a record unless its FormID is already taken. Records with a
// null FormID are rejected - zero never names anything.
func (s *Store) Insert(r *Record) bool {
	if r == nil || r.FormID.IsNull() {
		return false
	}
	if _, exists := s.records[r.FormID]; exists {
		s.dupes++
		return false
	}
	s.records[r.FormID] = r
	s.order = append(s.order, r.FormID)
	return true
}

// Get returns the record for the given FormID or nil. Null FormID never
// resolves.
func (s *Store) Get(id FormID) *Record {
	if id.IsNull() {
		return nil
	}
	return s.records[id]
}

func (s *Store) Len() int {
	return len(s.records)
}

// Duplicates reports how many records were discarded by first-writer-wins.
func (s *Store) Duplicates() int {
	return s.dupes
}

// FormIDs returns all stored FormIDs in insertion order. The returned slice
// is owned by the store and must not be modified.
func (s *Store) FormIDs() []FormID {
	return s.order
}

// ByKind returns records of the given kind in insertion order.
func (s *Store) ByKind(k Kind) []*Record {
	var out []*Record
	for _, id := range s.order {
		if r := s.records[id]; r.Kind == k {
			out = append(out, r)
		}
	}
	return out
}
