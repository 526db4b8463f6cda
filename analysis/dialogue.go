package analysis

import (
	"go.uber.org/zap"

	"github.com/slfx77/fallout-xbox-360-utils-sub002/espm"
)

// Topic is a dialogue topic with its ordered response chain. The chain keeps
// source order - it is presented as "alternative response N" and is never
// re-sorted by any condition (condition evaluation is out of scope here).
type Topic struct {
	FormID   espm.FormID
	EditorID string
	FullName string
	Prompt   string
	Type     byte
	Quest    espm.FormID
	Speaker  espm.FormID // consensus-resolved, zero when nothing claims it
	Infos    []*espm.Record
}

// QuestTree groups the topics belonging to one quest.
type QuestTree struct {
	Quest  espm.FormID
	Name   string
	Topics []*Topic
}

// Tree is the whole dialogue graph of a load: quest trees plus topics with
// no resolvable quest.
type Tree struct {
	Quests     map[espm.FormID]*QuestTree
	QuestOrder []espm.FormID
	Orphans    []*Topic

	topics []*Topic
	index  map[espm.FormID]*Topic // topic and INFO FormIDs, first writer wins
}

// Topics returns every topic in source order.
func (t *Tree) Topics() []*Topic {
	return t.topics
}

// TopicByForm resolves a topic FormID - or the FormID of any INFO within a
// chain - to the owning topic. Nil when unknown.
func (t *Tree) TopicByForm(id espm.FormID) *Topic {
	if id.IsNull() {
		return nil
	}
	return t.index[id]
}

// DialogueTree builds (once) and returns the dialogue graph.
func (s *Session) DialogueTree() *Tree {
	s.treeOnce.Do(s.buildDialogue)
	return s.tree
}

func (s *Session) buildDialogue() {
	tree := &Tree{
		Quests: make(map[espm.FormID]*QuestTree),
		index:  make(map[espm.FormID]*Topic),
	}

	byForm := make(map[espm.FormID]*Topic)
	for _, rec := range s.store.ByKind(espm.KindTopic) {
		t := &Topic{
			FormID:   rec.FormID,
			EditorID: rec.EditorID,
			FullName: rec.FullName,
		}
		if rec.Topic != nil {
			t.Prompt = rec.Topic.Prompt
			t.Type = rec.Topic.Type
			t.Quest = rec.Topic.Quest
		}
		byForm[t.FormID] = t
		tree.topics = append(tree.topics, t)
	}

	// group INFOs by owning topic, preserving source order
	dangling := 0
	for _, rec := range s.store.ByKind(espm.KindInfo) {
		if rec.Info == nil || rec.Info.Topic.IsNull() {
			continue
		}
		t := byForm[rec.Info.Topic]
		if t == nil {
			// owning topic never made it out of the dump
			dangling++
			continue
		}
		t.Infos = append(t.Infos, rec)
	}

	for _, t := range tree.topics {
		// a topic that does not declare its quest borrows it from its chain
		if t.Quest.IsNull() {
			for _, inf := range t.Infos {
				if !inf.Info.Quest.IsNull() {
					t.Quest = inf.Info.Quest
					break
				}
			}
		}

		// FormID index over topics and their chains, first writer wins -
		// recovered dumps routinely contain the same chain twice
		if _, taken := tree.index[t.FormID]; !taken {
			tree.index[t.FormID] = t
		}
		for _, inf := range t.Infos {
			if _, taken := tree.index[inf.FormID]; !taken {
				tree.index[inf.FormID] = t
			}
		}

		t.Speaker = s.resolveSpeaker(t)

		if t.Quest.IsNull() {
			tree.Orphans = append(tree.Orphans, t)
			continue
		}
		q := tree.Quests[t.Quest]
		if q == nil {
			q = &QuestTree{Quest: t.Quest, Name: s.BestName(t.Quest)}
			tree.Quests[t.Quest] = q
			tree.QuestOrder = append(tree.QuestOrder, t.Quest)
		}
		q.Topics = append(q.Topics, t)
	}

	s.tree = tree
	s.log.Debug("Dialogue graph built",
		zap.Int("quests", len(tree.Quests)),
		zap.Int("topics", len(tree.topics)),
		zap.Int("orphans", len(tree.Orphans)),
		zap.Int("danglingInfos", dangling))
}

// resolveSpeaker decides who speaks a topic. A topic-level speaker is
// authoritative; otherwise the chain is tallied and a speaker with a proper
// full name beats raw plurality. Ties go to whoever was encountered first in
// chain order, which keeps the answer deterministic.
func (s *Session) resolveSpeaker(t *Topic) espm.FormID {
	rec := s.store.Get(t.FormID)
	if rec != nil && rec.Topic != nil && !rec.Topic.Speaker.IsNull() {
		return rec.Topic.Speaker
	}

	counts := make(map[espm.FormID]int)
	var seen []espm.FormID
	for _, inf := range t.Infos {
		sp := inf.Info.Speaker
		if sp.IsNull() {
			continue
		}
		if counts[sp] == 0 {
			seen = append(seen, sp)
		}
		counts[sp]++
	}
	if len(seen) == 0 {
		return 0
	}

	var best espm.FormID
	bestCount := 0
	for _, sp := range seen {
		if r := s.store.Get(sp); r == nil || r.FullName == "" {
			continue
		}
		if counts[sp] > bestCount {
			best, bestCount = sp, counts[sp]
		}
	}
	if !best.IsNull() {
		return best
	}
	for _, sp := range seen {
		if counts[sp] > bestCount {
			best, bestCount = sp, counts[sp]
		}
	}
	return best
}
