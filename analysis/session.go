// Package analysis rebuilds the derived structures an analyst needs from a
// flat, possibly incomplete record collection: FormID name resolution,
// flattened spawn tables, actor spawn locations and dialogue conversation
// graphs.
//
// Every query here is total - missing references, cycles and contradictory
// data degrade to empty results, bounded truncation or documented fallbacks.
// Nothing throws, because incomplete input is the expected common case, not
// an anomaly.
package analysis

import (
	"sync"

	"go.uber.org/zap"

	"github.com/slfx77/fallout-xbox-360-utils-sub002/espm"
)

// Session owns the derived structures for one loaded record store. Each
// structure is a pure function of the immutable store, built on first use and
// never mutated afterwards, so concurrent queries need no locking beyond the
// sync.Once guards.
type Session struct {
	store *espm.Store
	log   *zap.Logger

	spawnOnce  sync.Once
	spawnTable map[espm.FormID][]espm.FormID

	actorOnce  sync.Once
	actorIndex map[espm.FormID]Locations

	treeOnce sync.Once
	tree     *Tree
}

func NewSession(store *espm.Store, log *zap.Logger) *Session {
	return &Session{store: store, log: log}
}

// Store exposes the underlying read-only record collection.
func (s *Session) Store() *espm.Store {
	return s.store
}
