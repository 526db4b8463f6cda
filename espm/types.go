// Package espm models Fallout 3 era plugin records - the flat FormID keyed
// record collection every derived structure is rebuilt from. Records come
// either from an intact little-endian PC master file or are carved out of a
// big-endian Xbox 360 process memory dump, so the collection is never
// guaranteed to be complete, unique or acyclic.
package espm

import "fmt"

// FormID is a 32-bit identifier uniquely naming a game-data record within a
// load. Zero always means "no reference" and is never resolved.
type FormID uint32

func (id FormID) IsNull() bool {
	return id == 0
}

func (id FormID) String() string {
	return fmt.Sprintf("0x%08X", uint32(id))
}

// Kind tags the modeled record types. Anything we have no use for is kept as
// KindOther so its names still participate in FormID resolution.
type Kind int

const (
	KindOther Kind = iota
	KindNPC
	KindCreature
	KindLeveledNPC
	KindLeveledCreature
	KindPackage
	KindTopic
	KindInfo
	KindQuest
	KindPlacedNPC
	KindPlacedCreature
	KindPlacedObject
	KindCell
)

var kindNames = map[Kind]string{
	KindOther:           "OTHER",
	KindNPC:             "NPC_",
	KindCreature:        "CREA",
	KindLeveledNPC:      "LVLN",
	KindLeveledCreature: "LVLC",
	KindPackage:         "PACK",
	KindTopic:           "DIAL",
	KindInfo:            "INFO",
	KindQuest:           "QUST",
	KindPlacedNPC:       "ACHR",
	KindPlacedCreature:  "ACRE",
	KindPlacedObject:    "REFR",
	KindCell:            "CELL",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("KIND(%d)", int(k))
}

func (k Kind) IsActor() bool {
	return k == KindNPC || k == KindCreature
}

func (k Kind) IsLeveledList() bool {
	return k == KindLeveledNPC || k == KindLeveledCreature
}

func (k Kind) IsPlaced() bool {
	return k == KindPlacedNPC || k == KindPlacedCreature || k == KindPlacedObject
}

// Provenance notes where a record was decoded from. Display only - it never
// affects resolution logic.
type Provenance int

const (
	FromMaster Provenance = iota // little-endian PC master file
	FromDump                     // big-endian console memory dump
)

func (p Provenance) String() string {
	if p == FromDump {
		return "dump"
	}
	return "master"
}

// PackageLoc is the modeled part of the AI package location type.
type PackageLoc int32

const (
	PackageLocNearRef PackageLoc = 0
	PackageLocInCell  PackageLoc = 1
	// everything else is deliberately not modeled and ignored
)

// InfoFlags carries dialogue response flags from the INFO DATA subrecord.
type InfoFlags uint16

const (
	InfoGoodbye         InfoFlags = 0x0001
	InfoRandom          InfoFlags = 0x0002
	InfoSayOnce         InfoFlags = 0x0004
	InfoRunImmediately  InfoFlags = 0x0008
	InfoInfoRefusal     InfoFlags = 0x0010
	InfoRandomEnd       InfoFlags = 0x0020
	InfoRunForRumors    InfoFlags = 0x0040
	InfoSpeechChallenge InfoFlags = 0x0080
)

func (f InfoFlags) Has(mask InfoFlags) bool {
	return f&mask != 0
}

// ActorData holds fields specific to NPC_ and CREA records.
type ActorData struct {
	Packages []FormID
}

// LeveledEntry is a single LVLO spawn table entry. Level and count are
// display-only and irrelevant to resolution.
type LeveledEntry struct {
	Level  int16
	Target FormID
	Count  int16
}

// LeveledListData holds the ordered entries of an LVLN/LVLC spawn table.
type LeveledListData struct {
	Entries []LeveledEntry
}

// PackageData holds the modeled part of a PACK record (PLDT subrecord).
type PackageData struct {
	HasLocation bool
	Loc         PackageLoc
	Target      FormID
	Radius      uint32
}

// TopicData holds fields specific to DIAL records.
type TopicData struct {
	Speaker FormID // authoritative topic-level speaker, zero when absent
	Quest   FormID
	Prompt  string
	Type    byte
}

// Response is a single voiced line within an INFO record.
type Response struct {
	Text         string
	Emotion      uint32
	EmotionValue int32
	Number       byte
}

// InfoData holds fields specific to INFO records.
type InfoData struct {
	Topic     FormID // owning DIAL
	Speaker   FormID
	Quest     FormID
	Prompt    string
	Responses []Response
	Linked    []FormID // explicit player-choice links (TCLT)
	Added     []FormID // topics unlocked for later, never offered as choices
	Flags     InfoFlags
	HasResult bool // result script attached
}

// PlacedData holds the base reference of ACHR/ACRE/REFR records.
type PlacedData struct {
	Base FormID
}

// Record is the static per-kind schema: common identification plus at most
// one kind-specific payload. Field sets are declared here once, not
// discovered dynamically.
type Record struct {
	FormID     FormID
	Kind       Kind
	Provenance Provenance
	EditorID   string
	FullName   string

	Actor       *ActorData
	LeveledList *LeveledListData
	Package     *PackageData
	Topic       *TopicData
	Info        *InfoData
	Placed      *PlacedData
}
