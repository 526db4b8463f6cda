package analysis

import "github.com/slfx77/fallout-xbox-360-utils-sub002/espm"

// EndReason classifies what happens when a topic runs out of player choices.
type EndReason int

const (
	EndNoData   EndReason = iota // no usable responses at all
	EndChoices                   // conversation continues via Choices
	EndGoodbye                   // every response is flagged goodbye
	EndScripted                  // a result script takes over
	EndParent                    // choices continue from the parent topic
	EndTopLevel                  // back to the top-level topic picker
)

func (e EndReason) String() string {
	switch e {
	case EndNoData:
		return "no data"
	case EndChoices:
		return "choices"
	case EndGoodbye:
		return "goodbye"
	case EndScripted:
		return "scripted"
	case EndParent:
		return "parent topic"
	case EndTopLevel:
		return "top level"
	}
	return "unknown"
}

// noPromptPlaceholder is shown when every prompt source comes up empty.
const noPromptPlaceholder = "<no prompt>"

// Choice is one player option: the topic it leads to, the INFO that offered
// it and the text to show.
type Choice struct {
	Target espm.FormID
	Source espm.FormID
	Prompt string
}

// NavigateOptions filter the chain to an active quest and/or speaker. Zero
// means no filtering.
type NavigateOptions struct {
	Quest   espm.FormID
	Speaker espm.FormID
}

// Navigation is the player-choice traversal answer for one topic.
type Navigation struct {
	Topic   espm.FormID
	Infos   []*espm.Record // filtered chain, source order
	Choices []Choice
	Added   []espm.FormID // unlocked for later, never offered as choices
	End     EndReason
	Parent  espm.FormID // set when End == EndParent
}

// NavigateTopic computes the filtered response chain, the player choices and
// the end-of-conversation classification for a topic. Total: unknown topics
// and empty chains come back as EndNoData, never as an error.
func (s *Session) NavigateTopic(id espm.FormID, opts NavigateOptions) Navigation {
	nav := Navigation{Topic: id, End: EndNoData}

	tree := s.DialogueTree()
	t := tree.TopicByForm(id)
	if t == nil {
		return nav
	}
	nav.Topic = t.FormID

	filtered := filterChain(t, opts)
	nav.Infos = filtered
	if len(filtered) == 0 {
		return nav
	}

	nav.Added = collectAdded(filtered)
	nav.Choices = s.collectChoices(t, filtered)
	if len(nav.Choices) > 0 {
		nav.End = EndChoices
		return nav
	}

	// no choices left - classify the end, in priority order
	switch {
	case allGoodbye(filtered):
		nav.End = EndGoodbye
	case anyScripted(filtered):
		nav.End = EndScripted
	default:
		if parent := s.findParent(t, opts); parent != nil {
			nav.Parent = parent.FormID
			nav.Choices = s.collectChoices(parent, filterChain(parent, opts))
			nav.End = EndParent
		} else {
			nav.End = EndTopLevel
		}
	}
	return nav
}

// filterChain keeps INFOs matching the active quest and speaker filters. An
// INFO that does not declare its own quest or speaker is judged by the
// topic's - that is what the chain would show in game.
func filterChain(t *Topic, opts NavigateOptions) []*espm.Record {
	if opts.Quest.IsNull() && opts.Speaker.IsNull() {
		return t.Infos
	}
	var out []*espm.Record
	for _, inf := range t.Infos {
		if !opts.Quest.IsNull() {
			quest := inf.Info.Quest
			if quest.IsNull() {
				quest = t.Quest
			}
			if quest != opts.Quest {
				continue
			}
		}
		if !opts.Speaker.IsNull() {
			speaker := inf.Info.Speaker
			if speaker.IsNull() {
				speaker = t.Speaker
			}
			if speaker != opts.Speaker {
				continue
			}
		}
		out = append(out, inf)
	}
	return out
}

// collectChoices gathers explicitly-linked topics across the chain. Links
// back to the current topic are suppressed and the first INFO linking to a
// target is recorded as its source.
func (s *Session) collectChoices(t *Topic, infos []*espm.Record) []Choice {
	var out []Choice
	seen := make(map[espm.FormID]bool)
	for _, inf := range infos {
		for _, target := range inf.Info.Linked {
			if target.IsNull() || target == t.FormID || seen[target] {
				continue
			}
			seen[target] = true
			out = append(out, Choice{
				Target: target,
				Source: inf.FormID,
				Prompt: s.choicePrompt(inf, target),
			})
		}
	}
	return out
}

// choicePrompt picks the text shown for a choice: the offering INFO's own
// prompt, the first prompt inside the target topic, the target topic's
// placeholder prompt, its display name or editor ID, or a literal
// placeholder when everything is empty.
func (s *Session) choicePrompt(source *espm.Record, target espm.FormID) string {
	if source.Info.Prompt != "" {
		return source.Info.Prompt
	}
	if tt := s.DialogueTree().TopicByForm(target); tt != nil {
		for _, inf := range tt.Infos {
			if inf.Info.Prompt != "" {
				return inf.Info.Prompt
			}
		}
		if tt.Prompt != "" {
			return tt.Prompt
		}
		if tt.FullName != "" {
			return tt.FullName
		}
		if tt.EditorID != "" {
			return tt.EditorID
		}
	}
	return noPromptPlaceholder
}

func collectAdded(infos []*espm.Record) []espm.FormID {
	var out []espm.FormID
	seen := make(map[espm.FormID]bool)
	for _, inf := range infos {
		for _, id := range inf.Info.Added {
			if id.IsNull() || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func allGoodbye(infos []*espm.Record) bool {
	for _, inf := range infos {
		if !inf.Info.Flags.Has(espm.InfoGoodbye) {
			return false
		}
	}
	return true
}

func anyScripted(infos []*espm.Record) bool {
	for _, inf := range infos {
		if inf.Info.HasResult {
			return true
		}
	}
	return false
}

// findParent looks for a topic whose own chain links to the current one -
// the conversation falls back there when a chain dead-ends. The active quest
// is searched first, then the orphans; first match wins. This reproduces
// behavior observed empirically in game, it is not verified ground truth.
func (s *Session) findParent(t *Topic, opts NavigateOptions) *Topic {
	quest := opts.Quest
	if quest.IsNull() {
		quest = t.Quest
	}

	tree := s.DialogueTree()
	if q := tree.Quests[quest]; q != nil {
		if p := firstLinkingTopic(q.Topics, t.FormID); p != nil {
			return p
		}
	}
	return firstLinkingTopic(tree.Orphans, t.FormID)
}

func firstLinkingTopic(topics []*Topic, target espm.FormID) *Topic {
	for _, p := range topics {
		if p.FormID == target {
			continue
		}
		for _, inf := range p.Infos {
			for _, linked := range inf.Info.Linked {
				if linked == target {
					return p
				}
			}
		}
	}
	return nil
}
