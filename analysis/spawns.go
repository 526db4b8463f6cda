package analysis

import (
	"go.uber.org/zap"

	"github.com/slfx77/fallout-xbox-360-utils-sub002/espm"
)

// RefLocation is a package-anchored "near reference" spawn location.
type RefLocation struct {
	Target espm.FormID
	Radius uint32
}

// Locations are the spawn locations contributed by an actor's AI packages.
// Entries are not deduplicated - several packages may anchor to the same
// place and presentation decides what to collapse.
type Locations struct {
	Cells []espm.FormID
	Refs  []RefLocation
}

func (l Locations) IsEmpty() bool {
	return len(l.Cells) == 0 && len(l.Refs) == 0
}

// ActorLocations returns the package-anchored cells and reference locations
// of an actor, zero value when the actor is unknown or has no usable
// packages.
func (s *Session) ActorLocations(actor espm.FormID) Locations {
	s.actorOnce.Do(s.buildActorIndex)
	return s.actorIndex[actor]
}

func (s *Session) buildActorIndex() {
	index := make(map[espm.FormID]Locations)
	for _, kind := range []espm.Kind{espm.KindNPC, espm.KindCreature} {
		for _, rec := range s.store.ByKind(kind) {
			if rec.Actor == nil || len(rec.Actor.Packages) == 0 {
				continue
			}
			var loc Locations
			for _, pkgID := range rec.Actor.Packages {
				pkg := s.store.Get(pkgID)
				if pkg == nil || pkg.Package == nil || !pkg.Package.HasLocation {
					// missing or location-less packages are skipped silently
					continue
				}
				switch pkg.Package.Loc {
				case espm.PackageLocNearRef:
					if !pkg.Package.Target.IsNull() {
						loc.Refs = append(loc.Refs, RefLocation{Target: pkg.Package.Target, Radius: pkg.Package.Radius})
					}
				case espm.PackageLocInCell:
					if !pkg.Package.Target.IsNull() {
						loc.Cells = append(loc.Cells, pkg.Package.Target)
					}
				default:
					// other location kinds are not modeled
				}
			}
			if !loc.IsEmpty() {
				index[rec.FormID] = loc
			}
		}
	}
	s.actorIndex = index
	s.log.Debug("Actor spawn index built", zap.Int("actors", len(index)))
}

// SpawnCandidates answers "who can actually stand here" for a placed
// reference's base FormID: the flattened leveled list when the base is one,
// otherwise the base itself.
func (s *Session) SpawnCandidates(base espm.FormID) []espm.FormID {
	if base.IsNull() {
		return nil
	}
	if leaves, ok := s.SpawnTable()[base]; ok {
		return leaves
	}
	return []espm.FormID{base}
}

// PlacedSpawnInfo unions the AI package locations across every spawn
// candidate of a placed reference's base FormID - the "where might this
// marker actually spawn, and where is it sent" answer.
func (s *Session) PlacedSpawnInfo(base espm.FormID) Locations {
	var out Locations
	for _, actor := range s.SpawnCandidates(base) {
		loc := s.ActorLocations(actor)
		out.Cells = append(out.Cells, loc.Cells...)
		out.Refs = append(out.Refs, loc.Refs...)
	}
	return out
}
