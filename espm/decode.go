package espm

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

// Plugin framing constants (Fallout 3 era, 24-byte headers).
const (
	headerLen        = 24
	subHeaderLen     = 6
	compressedFlag   = 0x00040000
	maxSaneDataSize  = 1 << 20 // no legitimate record body comes close
	groupTopicChilds = 7       // GRUP type: children of a DIAL record
)

var sigKinds = map[string]Kind{
	"NPC_": KindNPC,
	"CREA": KindCreature,
	"LVLN": KindLeveledNPC,
	"LVLC": KindLeveledCreature,
	"PACK": KindPackage,
	"DIAL": KindTopic,
	"INFO": KindInfo,
	"QUST": KindQuest,
	"ACHR": KindPlacedNPC,
	"ACRE": KindPlacedCreature,
	"REFR": KindPlacedObject,
	"CELL": KindCell,
}

// DecodePlugin reads a little-endian PC master file and returns the record
// store. Unknown record kinds are kept as KindOther so their names still
// resolve. Malformed record bodies contribute whatever fields were decoded
// before the damage - input incompleteness is the expected common case.
func DecodePlugin(r io.Reader, log *zap.Logger) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read plugin: %w", err)
	}
	if len(data) < headerLen || string(data[:4]) != "TES4" {
		return nil, errors.New("not a plugin file: TES4 header is missing")
	}

	store := NewStore()
	order := binary.LittleEndian

	// Children of a DIAL record are framed in a type 7 group - INFOs missing
	// an explicit TPIC inherit the owning topic from the enclosing group.
	type topicScope struct {
		end   int
		topic FormID
	}
	var scopes []topicScope

	pos := 0
	for pos+headerLen <= len(data) {
		for len(scopes) > 0 && pos >= scopes[len(scopes)-1].end {
			scopes = scopes[:len(scopes)-1]
		}

		sig := string(data[pos : pos+4])
		if sig == "GRUP" {
			size := int(order.Uint32(data[pos+4 : pos+8]))
			if size < headerLen || pos+size > len(data) {
				log.Warn("Malformed group header, stopping walk", zap.Int("offset", pos))
				break
			}
			if int32(order.Uint32(data[pos+12:pos+16])) == groupTopicChilds {
				scopes = append(scopes, topicScope{
					end:   pos + size,
					topic: FormID(order.Uint32(data[pos+8 : pos+12])),
				})
			}
			pos += headerLen
			continue
		}

		dataSize := int(order.Uint32(data[pos+4 : pos+8]))
		flags := order.Uint32(data[pos+8 : pos+12])
		formID := FormID(order.Uint32(data[pos+12 : pos+16]))

		if pos+headerLen+dataSize > len(data) {
			log.Warn("Truncated record, stopping walk", zap.String("sig", sig), zap.Int("offset", pos))
			break
		}
		body := data[pos+headerLen : pos+headerLen+dataSize]
		pos += headerLen + dataSize

		if sig == "TES4" {
			// file header record carries no game data we care about
			continue
		}

		if flags&compressedFlag != 0 {
			if body, err = inflate(body, order); err != nil {
				log.Debug("Unable to decompress record, skipping", zap.Stringer("formID", formID), zap.Error(err))
				continue
			}
		}

		rec, derr := decodeRecordBody(order, sig, formID, body, FromMaster)
		if derr != nil {
			log.Debug("Malformed record body, keeping partial fields", zap.Stringer("formID", formID), zap.String("sig", sig), zap.Error(derr))
		}
		if rec.Kind == KindInfo && rec.Info.Topic.IsNull() && len(scopes) > 0 {
			rec.Info.Topic = scopes[len(scopes)-1].topic
		}
		store.Insert(rec)
	}

	log.Debug("Plugin decoded", zap.Int("records", store.Len()), zap.Int("duplicates", store.Duplicates()))
	return store, nil
}

func inflate(body []byte, order binary.ByteOrder) ([]byte, error) {
	if len(body) < 4 {
		return nil, errors.New("compressed record too short")
	}
	want := order.Uint32(body[:4])
	if want > maxSaneDataSize {
		return nil, fmt.Errorf("implausible decompressed size %d", want)
	}
	zr, err := zlib.NewReader(bytes.NewReader(body[4:]))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	out, err := io.ReadAll(io.LimitReader(zr, int64(want)))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// decodeRecordBody maps the subrecords we model onto the static record
// schema. It always returns a usable record - on framing damage the fields
// decoded so far are kept and the error describes the rest.
func decodeRecordBody(order binary.ByteOrder, sig string, formID FormID, body []byte, prov Provenance) (*Record, error) {
	rec := &Record{FormID: formID, Kind: sigKinds[sig], Provenance: prov}

	switch rec.Kind {
	case KindNPC, KindCreature:
		rec.Actor = &ActorData{}
	case KindLeveledNPC, KindLeveledCreature:
		rec.LeveledList = &LeveledListData{}
	case KindPackage:
		rec.Package = &PackageData{}
	case KindTopic:
		rec.Topic = &TopicData{}
	case KindInfo:
		rec.Info = &InfoData{}
	case KindPlacedNPC, KindPlacedCreature, KindPlacedObject:
		rec.Placed = &PlacedData{}
	}

	var pending *Response

	err := walkSubrecords(order, body, func(stype string, payload []byte) {
		switch stype {
		case "EDID":
			rec.EditorID = zstring(payload)
			return
		case "FULL":
			rec.FullName = zstring(payload)
			return
		}

		switch rec.Kind {
		case KindNPC, KindCreature:
			if stype == "PKID" && len(payload) >= 4 {
				rec.Actor.Packages = append(rec.Actor.Packages, FormID(order.Uint32(payload)))
			}

		case KindLeveledNPC, KindLeveledCreature:
			if stype == "LVLO" {
				switch {
				case len(payload) >= 12:
					rec.LeveledList.Entries = append(rec.LeveledList.Entries, LeveledEntry{
						Level:  int16(order.Uint16(payload)),
						Target: FormID(order.Uint32(payload[4:])),
						Count:  int16(order.Uint16(payload[8:])),
					})
				case len(payload) >= 8:
					// short form seen in older plugins
					rec.LeveledList.Entries = append(rec.LeveledList.Entries, LeveledEntry{
						Level:  int16(order.Uint16(payload)),
						Target: FormID(order.Uint32(payload[4:])),
						Count:  1,
					})
				}
			}

		case KindPackage:
			if stype == "PLDT" && len(payload) >= 12 {
				rec.Package.HasLocation = true
				rec.Package.Loc = PackageLoc(int32(order.Uint32(payload)))
				rec.Package.Target = FormID(order.Uint32(payload[4:]))
				rec.Package.Radius = order.Uint32(payload[8:])
			}

		case KindTopic:
			switch stype {
			case "QSTI":
				if rec.Topic.Quest.IsNull() && len(payload) >= 4 {
					rec.Topic.Quest = FormID(order.Uint32(payload))
				}
			case "ANAM":
				if len(payload) >= 4 {
					rec.Topic.Speaker = FormID(order.Uint32(payload))
				}
			case "PNAM":
				rec.Topic.Prompt = zstring(payload)
			case "DATA":
				if len(payload) >= 1 {
					rec.Topic.Type = payload[0]
				}
			}

		case KindInfo:
			switch stype {
			case "TPIC":
				if len(payload) >= 4 {
					rec.Info.Topic = FormID(order.Uint32(payload))
				}
			case "QSTI":
				if rec.Info.Quest.IsNull() && len(payload) >= 4 {
					rec.Info.Quest = FormID(order.Uint32(payload))
				}
			case "ANAM":
				if len(payload) >= 4 {
					rec.Info.Speaker = FormID(order.Uint32(payload))
				}
			case "PNAM":
				rec.Info.Prompt = zstring(payload)
			case "DATA":
				if len(payload) >= 4 {
					rec.Info.Flags = InfoFlags(order.Uint16(payload[2:]))
				}
			case "TRDT":
				if len(payload) >= 13 {
					pending = &Response{
						Emotion:      order.Uint32(payload),
						EmotionValue: int32(order.Uint32(payload[4:])),
						Number:       payload[12],
					}
				}
			case "NAM1":
				if pending == nil {
					pending = &Response{}
				}
				pending.Text = zstring(payload)
				rec.Info.Responses = append(rec.Info.Responses, *pending)
				pending = nil
			case "TCLT":
				if len(payload) >= 4 {
					rec.Info.Linked = append(rec.Info.Linked, FormID(order.Uint32(payload)))
				}
			case "NAME":
				if len(payload) >= 4 {
					rec.Info.Added = append(rec.Info.Added, FormID(order.Uint32(payload)))
				}
			case "SCDA", "SCTX":
				if len(payload) > 0 {
					rec.Info.HasResult = true
				}
			}

		case KindPlacedNPC, KindPlacedCreature, KindPlacedObject:
			if stype == "NAME" && len(payload) >= 4 {
				rec.Placed.Base = FormID(order.Uint32(payload))
			}
		}
	})

	return rec, err
}

// walkSubrecords iterates type/size framed subrecords, handling the XXXX
// size-override convention. It stops at the first framing overrun.
func walkSubrecords(order binary.ByteOrder, body []byte, fn func(sig string, payload []byte)) error {
	var oversize int
	for pos := 0; pos < len(body); {
		if pos+subHeaderLen > len(body) {
			return fmt.Errorf("dangling subrecord header at %d", pos)
		}
		sig := string(body[pos : pos+4])
		if !plausibleSig([]byte(sig)) {
			return fmt.Errorf("implausible subrecord signature at %d", pos)
		}
		size := int(order.Uint16(body[pos+4 : pos+6]))
		pos += subHeaderLen

		if sig == "XXXX" {
			if size == 4 && pos+4 <= len(body) {
				oversize = int(order.Uint32(body[pos : pos+4]))
			}
			pos += size
			continue
		}
		if oversize > 0 {
			size, oversize = oversize, 0
		}
		if pos+size > len(body) {
			return fmt.Errorf("subrecord %s overruns record body at %d", sig, pos)
		}
		fn(sig, body[pos:pos+size])
		pos += size
	}
	return nil
}

func plausibleSig(sig []byte) bool {
	if len(sig) != 4 {
		return false
	}
	for _, c := range sig {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' {
			return false
		}
	}
	return true
}

// zstring decodes a NUL terminated Windows-1252 plugin string.
func zstring(payload []byte) string {
	if i := bytes.IndexByte(payload, 0); i >= 0 {
		payload = payload[:i]
	}
	if len(payload) == 0 {
		return ""
	}
	ascii := true
	for _, c := range payload {
		if c >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(payload)
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(payload)
	if err != nil {
		// should not happen - Windows-1252 decodes any byte
		return string(payload)
	}
	return string(out)
}
