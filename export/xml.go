package export

import (
	"sort"
	"strconv"

	"github.com/beevik/etree"
	"github.com/maruel/natural"

	"github.com/slfx77/fallout-xbox-360-utils-sub002/analysis"
	"github.com/slfx77/fallout-xbox-360-utils-sub002/config"
	"github.com/slfx77/fallout-xbox-360-utils-sub002/espm"
)

// writeXML renders the dialogue tree as a single XML document - quests
// ordered naturally by display name, topics and response chains kept in
// source order.
func writeXML(path string, sess *analysis.Session, cfg *config.DialogueConfig) error {
	tree := sess.DialogueTree()

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("dialogue")

	quests := append([]espm.FormID(nil), tree.QuestOrder...)
	sort.SliceStable(quests, func(i, j int) bool {
		return natural.Less(tree.Quests[quests[i]].Name, tree.Quests[quests[j]].Name)
	})

	for _, questID := range quests {
		q := tree.Quests[questID]
		qe := root.CreateElement("quest")
		qe.CreateAttr("id", q.Quest.String())
		qe.CreateAttr("name", q.Name)
		for _, topic := range q.Topics {
			writeTopicXML(qe, sess, topic, cfg)
		}
	}

	if len(tree.Orphans) > 0 {
		oe := root.CreateElement("orphans")
		for _, topic := range tree.Orphans {
			writeTopicXML(oe, sess, topic, cfg)
		}
	}

	doc.Indent(2)
	return doc.WriteToFile(path)
}

func writeTopicXML(parent *etree.Element, sess *analysis.Session, topic *analysis.Topic, cfg *config.DialogueConfig) {
	te := parent.CreateElement("topic")
	te.CreateAttr("id", topic.FormID.String())
	te.CreateAttr("name", sess.BestName(topic.FormID))
	if topic.EditorID != "" {
		te.CreateAttr("editorID", topic.EditorID)
	}
	if !topic.Speaker.IsNull() {
		te.CreateAttr("speaker", sess.BestName(topic.Speaker))
	}

	nav := sess.NavigateTopic(topic.FormID, analysis.NavigateOptions{})
	te.CreateAttr("end", nav.End.String())

	for n, inf := range topic.Infos {
		ie := te.CreateElement("info")
		ie.CreateAttr("id", inf.FormID.String())
		ie.CreateAttr("alternative", strconv.Itoa(n+1))
		if inf.Info.Prompt != "" {
			ie.CreateAttr("prompt", inf.Info.Prompt)
		}
		if !inf.Info.Speaker.IsNull() {
			ie.CreateAttr("speaker", sess.BestName(inf.Info.Speaker))
		}
		if inf.Info.Flags.Has(espm.InfoGoodbye) {
			ie.CreateAttr("goodbye", "true")
		}
		if inf.Info.HasResult {
			ie.CreateAttr("scripted", "true")
		}
		if cfg.IncludeResponses {
			for _, resp := range inf.Info.Responses {
				re := ie.CreateElement("response")
				re.CreateAttr("emotion", strconv.Itoa(int(resp.Emotion)))
				re.SetText(resp.Text)
			}
		}
	}

	for _, choice := range nav.Choices {
		ce := te.CreateElement("choice")
		ce.CreateAttr("target", choice.Target.String())
		ce.CreateAttr("prompt", choice.Prompt)
	}
	if cfg.IncludeAddedTopics {
		for _, added := range nav.Added {
			ae := te.CreateElement("added")
			ae.CreateAttr("target", added.String())
			ae.CreateAttr("name", sess.BestName(added))
		}
	}
}
