package export

import (
	"path/filepath"
	"testing"

	"github.com/beevik/etree"

	"github.com/slfx77/fallout-xbox-360-utils-sub002/config"
)

func TestWriteXML(t *testing.T) {
	sess := exportSession(t)
	path := filepath.Join(t.TempDir(), "out.xml")

	cfg := &config.DialogueConfig{IncludeAddedTopics: true, IncludeResponses: true}
	if err := writeXML(path, sess, cfg); err != nil {
		t.Fatalf("writeXML() error = %v", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		t.Fatalf("unable to parse output: %v", err)
	}

	root := doc.SelectElement("dialogue")
	if root == nil {
		t.Fatal("missing dialogue root element")
	}

	quests := root.SelectElements("quest")
	if len(quests) != 1 {
		t.Fatalf("quest count = %d, want 1", len(quests))
	}
	if got := quests[0].SelectAttrValue("id", ""); got != "0x00000500" {
		t.Errorf("quest id = %q", got)
	}

	topics := quests[0].SelectElements("topic")
	if len(topics) != 1 {
		t.Fatalf("topic count = %d, want 1", len(topics))
	}
	topic := topics[0]
	if got := topic.SelectAttrValue("editorID", ""); got != "GreetingTopic" {
		t.Errorf("topic editorID = %q", got)
	}
	if got := topic.SelectAttrValue("speaker", ""); got != "Mister Burke" {
		t.Errorf("topic speaker = %q", got)
	}

	infos := topic.SelectElements("info")
	if len(infos) != 1 {
		t.Fatalf("info count = %d, want 1", len(infos))
	}
	if got := infos[0].SelectAttrValue("alternative", ""); got != "1" {
		t.Errorf("info alternative = %q", got)
	}
	if got := infos[0].SelectAttrValue("prompt", ""); got != "Hello there" {
		t.Errorf("info prompt = %q", got)
	}

	responses := infos[0].SelectElements("response")
	if len(responses) != 1 || responses[0].Text() != "Well, hello." {
		t.Fatalf("responses = %v", responses)
	}
}

func TestWriteXML_ResponsesExcluded(t *testing.T) {
	sess := exportSession(t)
	path := filepath.Join(t.TempDir(), "out.xml")

	cfg := &config.DialogueConfig{IncludeAddedTopics: false, IncludeResponses: false}
	if err := writeXML(path, sess, cfg); err != nil {
		t.Fatalf("writeXML() error = %v", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		t.Fatalf("unable to parse output: %v", err)
	}

	if got := doc.FindElements("//response"); len(got) != 0 {
		t.Errorf("found %d response elements, want none", len(got))
	}
}

func TestWriteXML_OrphanTopics(t *testing.T) {
	sess := exportSession(t)
	path := filepath.Join(t.TempDir(), "out.xml")

	// exportSession has no orphan topics, the section should be absent
	cfg := &config.DialogueConfig{}
	if err := writeXML(path, sess, cfg); err != nil {
		t.Fatalf("writeXML() error = %v", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		t.Fatalf("unable to parse output: %v", err)
	}

	if doc.FindElement("//orphans") != nil {
		t.Error("orphans element present without orphan topics")
	}
}
