package analysis

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/slfx77/fallout-xbox-360-utils-sub002/espm"
)

func newTestSession(t *testing.T, recs ...*espm.Record) *Session {
	t.Helper()
	store := espm.NewStore()
	for _, r := range recs {
		store.Insert(r)
	}
	return NewSession(store, zaptest.NewLogger(t))
}

func npc(id espm.FormID, name string, packages ...espm.FormID) *espm.Record {
	return &espm.Record{
		FormID:   id,
		Kind:     espm.KindNPC,
		FullName: name,
		Actor:    &espm.ActorData{Packages: packages},
	}
}

func leveledNPCs(id espm.FormID, targets ...espm.FormID) *espm.Record {
	list := &espm.LeveledListData{}
	for _, t := range targets {
		list.Entries = append(list.Entries, espm.LeveledEntry{Target: t, Level: 1, Count: 1})
	}
	return &espm.Record{FormID: id, Kind: espm.KindLeveledNPC, LeveledList: list}
}

func aiPackage(id espm.FormID, loc espm.PackageLoc, target espm.FormID, radius uint32) *espm.Record {
	return &espm.Record{
		FormID: id,
		Kind:   espm.KindPackage,
		Package: &espm.PackageData{
			HasLocation: true,
			Loc:         loc,
			Target:      target,
			Radius:      radius,
		},
	}
}

func dialTopic(id espm.FormID, quest, speaker espm.FormID) *espm.Record {
	return &espm.Record{
		FormID: id,
		Kind:   espm.KindTopic,
		Topic:  &espm.TopicData{Quest: quest, Speaker: speaker},
	}
}

func dialInfo(id, topicID espm.FormID, data espm.InfoData) *espm.Record {
	data.Topic = topicID
	return &espm.Record{FormID: id, Kind: espm.KindInfo, Info: &data}
}
