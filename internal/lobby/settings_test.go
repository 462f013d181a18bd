package lobby

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martengale/foxbox/internal/protocol/sfs2x"
)

// fullSettings exercises every field, including non-zero assignments.
func fullSettings() Settings {
	s := DefaultSettings("Northern Front")
	s.KindOfLobby = 2
	s.VersionKey = "1.7.3"
	s.GameSetup = 4
	s.RulesSet = 1
	s.Replay = true
	s.Location = 12
	s.HumanHQInvalid[3] = true
	s.AIFill = true
	s.MapSize = 3
	s.Terrain = 7
	s.Speed = 2
	s.MapName = "tundra_04"
	s.Seed = 987654321
	s.Latitude = -45
	s.ResourceMin = 1
	s.ResourcePresence = 2
	s.ColonyClass = 5
	s.GameOptions[0] = true
	s.GameOptions[31] = true
	s.Teams["steam:100"] = 1
	s.Teams["epic:abc"] = 2
	s.Handicaps["steam:100"] = -10
	s.MaxPlayers = 6
	return s
}

func TestSettingsTupleRoundTrip(t *testing.T) {
	orig := fullSettings()

	tuple := orig.ToTuple()
	require.Equal(t, 21, tuple.Len())

	got, err := FromTuple(tuple, orig.MaxPlayers)
	require.NoError(t, err)
	assert.Equal(t, orig, got)
}

func TestSettingsTupleRoundTripDefaults(t *testing.T) {
	orig := DefaultSettings("empty")

	got, err := FromTuple(orig.ToTuple(), orig.MaxPlayers)
	require.NoError(t, err)
	assert.Equal(t, orig, got)
}

func TestFromTupleLongNameAsText(t *testing.T) {
	// A display name past the short-string limit rides as TEXT; the
	// schema accepts it wherever it expects UTF_STRING.
	orig := DefaultSettings(strings.Repeat("x", sfs2x.MaxUTFStringLen+1))

	tuple := orig.ToTuple()
	v, err := tuple.At(0)
	require.NoError(t, err)
	require.Equal(t, sfs2x.TypeText, v.Type())

	got, err := FromTuple(tuple, orig.MaxPlayers)
	require.NoError(t, err)
	assert.Equal(t, orig.Name, got.Name)
}

// defaultSlot appends the schema-correct zero value for tuple position i.
func defaultSlot(a *sfs2x.Array, i int) {
	switch tupleSchema[i] {
	case sfs2x.TypeUTFString:
		a.AddString("")
	case sfs2x.TypeByte:
		a.AddByte(0)
	case sfs2x.TypeShort:
		a.AddShort(0)
	case sfs2x.TypeInt:
		a.AddInt(0)
	case sfs2x.TypeBool:
		a.AddBool(false)
	case sfs2x.TypeBoolArray:
		if i == 18 {
			a.AddBoolArray(make([]bool, GameOptionCount))
		} else {
			a.AddBoolArray(make([]bool, hqSlotCount))
		}
	case sfs2x.TypeSFSObject:
		a.AddObject(sfs2x.NewObject())
	}
}

// buildTuple assembles a schema-valid tuple, letting a single slot be
// replaced. corrupt < 0 leaves every slot at its default.
func buildTuple(corrupt int, with func(*sfs2x.Array)) *sfs2x.Array {
	a := sfs2x.NewArray()
	for i := 0; i < tupleSlots; i++ {
		if i == corrupt {
			with(a)
			continue
		}
		defaultSlot(a, i)
	}
	return a
}

func TestFromTupleArityMismatch(t *testing.T) {
	twenty := sfs2x.NewArray()
	for i := 0; i < tupleSlots-1; i++ {
		defaultSlot(twenty, i)
	}
	twentyTwo := buildTuple(-1, nil).AddBool(false)

	for name, arr := range map[string]*sfs2x.Array{
		"nil tuple": nil,
		"20 slots":  twenty,
		"22 slots":  twentyTwo,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := FromTuple(arr, MaxPlayers)
			require.ErrorIs(t, err, ErrSchemaMismatch)

			var sm *SchemaMismatchError
			require.ErrorAs(t, err, &sm)
			assert.Equal(t, -1, sm.Slot)
		})
	}
}

func TestFromTupleWrongSlotTag(t *testing.T) {
	cases := []struct {
		name string
		slot int
		with func(*sfs2x.Array)
	}{
		{"string where short expected", 3, func(a *sfs2x.Array) { a.AddString("4") }},
		{"int where byte expected", 9, func(a *sfs2x.Array) { a.AddInt(3) }},
		{"short where int expected", 13, func(a *sfs2x.Array) { a.AddShort(42) }},
		{"array where object expected", 19, func(a *sfs2x.Array) { a.AddArray(sfs2x.NewArray()) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromTuple(buildTuple(tc.slot, tc.with), MaxPlayers)
			require.ErrorIs(t, err, ErrSchemaMismatch)

			var sm *SchemaMismatchError
			require.ErrorAs(t, err, &sm)
			assert.Equal(t, tc.slot, sm.Slot)
		})
	}
}

func TestFromTupleGameOptionCount(t *testing.T) {
	for _, n := range []int{31, 33} {
		arr := buildTuple(18, func(a *sfs2x.Array) { a.AddBoolArray(make([]bool, n)) })

		_, err := FromTuple(arr, MaxPlayers)
		require.ErrorIs(t, err, ErrSchemaMismatch)

		var sm *SchemaMismatchError
		require.ErrorAs(t, err, &sm)
		assert.Equal(t, 18, sm.Slot)
	}
}

func TestFromTupleBadAssignmentEntry(t *testing.T) {
	arr := buildTuple(20, func(a *sfs2x.Array) {
		a.AddObject(sfs2x.NewObject().PutString("steam:100", "not a short"))
	})

	_, err := FromTuple(arr, MaxPlayers)
	require.ErrorIs(t, err, ErrSchemaMismatch)

	var sm *SchemaMismatchError
	require.ErrorAs(t, err, &sm)
	assert.Equal(t, 20, sm.Slot)
}

func TestSettingsValidate(t *testing.T) {
	valid := DefaultSettings("ok")
	require.NoError(t, valid.Validate())

	noName := DefaultSettings("")
	require.ErrorIs(t, noName.Validate(), ErrInvalidSettings)

	tooFew := DefaultSettings("ok")
	tooFew.MaxPlayers = 1
	require.ErrorIs(t, tooFew.Validate(), ErrInvalidSettings)

	tooMany := DefaultSettings("ok")
	tooMany.MaxPlayers = MaxPlayers + 1
	require.ErrorIs(t, tooMany.Validate(), ErrInvalidSettings)

	badOptions := DefaultSettings("ok")
	badOptions.GameOptions = make([]bool, GameOptionCount-1)
	require.ErrorIs(t, badOptions.Validate(), ErrInvalidSettings)
}

func TestSettingsCloneIsDeep(t *testing.T) {
	orig := fullSettings()
	clone := orig.Clone()
	require.Equal(t, orig, clone)

	clone.GameOptions[5] = !clone.GameOptions[5]
	clone.HumanHQInvalid[0] = true
	clone.Teams["gog:new"] = 3
	clone.Handicaps["steam:100"] = 99

	assert.False(t, orig.GameOptions[5])
	assert.False(t, orig.HumanHQInvalid[0])
	assert.NotContains(t, orig.Teams, "gog:new")
	assert.Equal(t, int16(-10), orig.Handicaps["steam:100"])
}

func TestSchemaMismatchErrorText(t *testing.T) {
	err := schemaErrorf(7, "got tag %s, want %s", sfs2x.TypeInt, sfs2x.TypeBoolArray)
	assert.Contains(t, err.Error(), "slot 7")
	assert.True(t, errors.Is(err, ErrSchemaMismatch))

	arity := schemaErrorf(-1, "got 20 slots, want 21")
	assert.NotContains(t, arity.Error(), "slot -1")
}
