package lobby

import (
	"sort"

	"github.com/martengale/foxbox/internal/protocol/sfs2x"
)

// tupleSlots is the fixed arity of the settings tuple. The client reads the
// array positionally, so both the count and every slot tag are load-bearing.
const tupleSlots = 21

// tupleSchema pins the expected tag per slot, indexed by position. Strings
// are checked as UTF_STRING but accept TEXT, matching the codec's string
// rule.
var tupleSchema = [tupleSlots]sfs2x.TypeID{
	0:  sfs2x.TypeUTFString, // display name
	1:  sfs2x.TypeByte,      // kind-of-lobby
	2:  sfs2x.TypeUTFString, // version key
	3:  sfs2x.TypeShort,     // game-setup
	4:  sfs2x.TypeShort,     // rules-set
	5:  sfs2x.TypeBool,      // replay flag
	6:  sfs2x.TypeShort,     // location
	7:  sfs2x.TypeBoolArray, // per-slot human-HQ-invalid
	8:  sfs2x.TypeBool,      // AI-fill flag
	9:  sfs2x.TypeByte,      // map-size
	10: sfs2x.TypeShort,     // terrain
	11: sfs2x.TypeByte,      // speed
	12: sfs2x.TypeUTFString, // map name
	13: sfs2x.TypeInt,       // seed
	14: sfs2x.TypeShort,     // latitude
	15: sfs2x.TypeByte,      // resource-min
	16: sfs2x.TypeByte,      // resource-presence
	17: sfs2x.TypeShort,     // colony-class
	18: sfs2x.TypeBoolArray, // game-options
	19: sfs2x.TypeSFSObject, // team-assignments
	20: sfs2x.TypeSFSObject, // handicap-assignments
}

// ToTuple serializes the settings as the 21-slot positional array the
// client expects. Slot order is fixed; see tupleSchema.
func (s Settings) ToTuple() *sfs2x.Array {
	teams := sfs2x.NewObject()
	for _, key := range sortedKeys(s.Teams) {
		teams.PutShort(key, s.Teams[key])
	}
	handicaps := sfs2x.NewObject()
	for _, key := range sortedKeys(s.Handicaps) {
		handicaps.PutShort(key, s.Handicaps[key])
	}

	return sfs2x.NewArray().
		AddString(s.Name).
		AddByte(s.KindOfLobby).
		AddString(s.VersionKey).
		AddShort(s.GameSetup).
		AddShort(s.RulesSet).
		AddBool(s.Replay).
		AddShort(s.Location).
		AddBoolArray(s.HumanHQInvalid).
		AddBool(s.AIFill).
		AddByte(s.MapSize).
		AddShort(s.Terrain).
		AddByte(s.Speed).
		AddString(s.MapName).
		AddInt(s.Seed).
		AddShort(s.Latitude).
		AddByte(s.ResourceMin).
		AddByte(s.ResourcePresence).
		AddShort(s.ColonyClass).
		AddBoolArray(s.GameOptions).
		AddObject(teams).
		AddObject(handicaps)
}

// FromTuple parses the 21-slot array back into a settings record.
// maxPlayers is context the tuple does not carry (it belongs to the room).
// Any arity or slot-tag disagreement is a SchemaMismatchError naming the
// offending slot; slot -1 means the arity itself was wrong.
func FromTuple(arr *sfs2x.Array, maxPlayers int) (Settings, error) {
	if arr == nil {
		return Settings{}, schemaErrorf(-1, "nil tuple")
	}
	if arr.Len() != tupleSlots {
		return Settings{}, schemaErrorf(-1, "got %d slots, want %d", arr.Len(), tupleSlots)
	}
	t := tupleReader{arr: arr}

	s := Settings{MaxPlayers: maxPlayers}
	s.Name = t.str(0)
	s.KindOfLobby = t.byt(1)
	s.VersionKey = t.str(2)
	s.GameSetup = t.short(3)
	s.RulesSet = t.short(4)
	s.Replay = t.flag(5)
	s.Location = t.short(6)
	s.HumanHQInvalid = t.bools(7)
	s.AIFill = t.flag(8)
	s.MapSize = t.byt(9)
	s.Terrain = t.short(10)
	s.Speed = t.byt(11)
	s.MapName = t.str(12)
	s.Seed = t.int(13)
	s.Latitude = t.short(14)
	s.ResourceMin = t.byt(15)
	s.ResourcePresence = t.byt(16)
	s.ColonyClass = t.short(17)
	s.GameOptions = t.bools(18)
	s.Teams = t.shortMap(19)
	s.Handicaps = t.shortMap(20)
	if t.err != nil {
		return Settings{}, t.err
	}

	if n := len(s.GameOptions); n != GameOptionCount {
		return Settings{}, schemaErrorf(18, "got %d game options, want %d", n, GameOptionCount)
	}
	return s, nil
}

// sortedKeys gives the assignment objects a deterministic wire order. The
// contract does not require it, but stable bytes keep round-trip tests and
// client-side diffing honest.
func sortedKeys(m map[string]int16) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// tupleReader accumulates the first slot error so the happy path reads
// straight through without per-slot error plumbing.
type tupleReader struct {
	arr *sfs2x.Array
	err error
}

// slot fetches position i and enforces the schema tag, treating TEXT as a
// valid stand-in wherever the schema expects UTF_STRING.
func (t *tupleReader) slot(i int) (sfs2x.Value, bool) {
	if t.err != nil {
		return sfs2x.Value{}, false
	}
	v, err := t.arr.At(i)
	if err != nil {
		t.err = schemaErrorf(i, "missing slot")
		return sfs2x.Value{}, false
	}
	want := tupleSchema[i]
	got := v.Type()
	if got != want && !(want == sfs2x.TypeUTFString && got == sfs2x.TypeText) {
		t.err = schemaErrorf(i, "got tag %s, want %s", got, want)
		return sfs2x.Value{}, false
	}
	return v, true
}

func (t *tupleReader) str(i int) string {
	if v, ok := t.slot(i); ok {
		s, _ := v.Text()
		return s
	}
	return ""
}

func (t *tupleReader) byt(i int) byte {
	if v, ok := t.slot(i); ok {
		b, _ := v.Byte()
		return b
	}
	return 0
}

func (t *tupleReader) short(i int) int16 {
	if v, ok := t.slot(i); ok {
		n, _ := v.Short()
		return n
	}
	return 0
}

func (t *tupleReader) int(i int) int32 {
	if v, ok := t.slot(i); ok {
		n, _ := v.Int()
		return n
	}
	return 0
}

func (t *tupleReader) flag(i int) bool {
	if v, ok := t.slot(i); ok {
		b, _ := v.Bool()
		return b
	}
	return false
}

func (t *tupleReader) bools(i int) []bool {
	if v, ok := t.slot(i); ok {
		a, _ := v.BoolArray()
		return a
	}
	return nil
}

// shortMap rebuilds a player-keyed SHORT map from an SFS_OBJECT slot. A
// non-SHORT value inside the object is a schema mismatch at that slot.
func (t *tupleReader) shortMap(i int) map[string]int16 {
	v, ok := t.slot(i)
	if !ok {
		return nil
	}
	obj, _ := v.Object()
	out := make(map[string]int16, obj.Len())
	for _, key := range obj.Keys() {
		n, err := obj.GetShort(key)
		if err != nil {
			t.err = schemaErrorf(i, "entry %q: %v", key, err)
			return nil
		}
		out[key] = n
	}
	return out
}
