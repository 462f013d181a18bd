// Package sfs2x implements the SmartFoxServer 2X binary protocol subset the
// lobby speaks: the tagged typed-value codec, the c/a/p message envelope and
// the length-prefixed TCP framing.
//
// Every value on the wire is a 1-byte type tag followed by a tag-specific
// body; all integers are big-endian. SFS_OBJECT preserves insertion order,
// which matters because the game client serializes its lobby structures
// positionally and re-reads them the same way. The codec is strict: unknown
// tags, truncated bodies and trailing bytes are malformed frames, not
// recoverable conditions.
package sfs2x

// TypeID is the 1-byte wire tag identifying a value's type.
type TypeID byte

// Wire type tags. Values are fixed by the SFS2X protocol; changing any of
// them breaks interop with unmodified clients.
const (
	TypeNull           TypeID = 0
	TypeBool           TypeID = 1
	TypeByte           TypeID = 2
	TypeShort          TypeID = 3
	TypeInt            TypeID = 4
	TypeLong           TypeID = 5
	TypeFloat          TypeID = 6
	TypeDouble         TypeID = 7
	TypeUTFString      TypeID = 8
	TypeBoolArray      TypeID = 9
	TypeByteArray      TypeID = 10
	TypeShortArray     TypeID = 11
	TypeIntArray       TypeID = 12
	TypeLongArray      TypeID = 13
	TypeFloatArray     TypeID = 14
	TypeDoubleArray    TypeID = 15
	TypeUTFStringArray TypeID = 16
	TypeSFSArray       TypeID = 17
	TypeSFSObject      TypeID = 18
	TypeClass          TypeID = 19 // never produced, rejected on decode
	TypeText           TypeID = 20 // long string form, 4-byte length
)

var typeNames = map[TypeID]string{
	TypeNull:           "NULL",
	TypeBool:           "BOOL",
	TypeByte:           "BYTE",
	TypeShort:          "SHORT",
	TypeInt:            "INT",
	TypeLong:           "LONG",
	TypeFloat:          "FLOAT",
	TypeDouble:         "DOUBLE",
	TypeUTFString:      "UTF_STRING",
	TypeBoolArray:      "BOOL_ARRAY",
	TypeByteArray:      "BYTE_ARRAY",
	TypeShortArray:     "SHORT_ARRAY",
	TypeIntArray:       "INT_ARRAY",
	TypeLongArray:      "LONG_ARRAY",
	TypeFloatArray:     "FLOAT_ARRAY",
	TypeDoubleArray:    "DOUBLE_ARRAY",
	TypeUTFStringArray: "UTF_STRING_ARRAY",
	TypeSFSArray:       "SFS_ARRAY",
	TypeSFSObject:      "SFS_OBJECT",
	TypeClass:          "CLASS",
	TypeText:           "TEXT",
}

func (t TypeID) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Codec limits.
const (
	// MaxUTFStringLen is the longest string the short UTF_STRING form can
	// carry. Longer strings encode as TEXT.
	MaxUTFStringLen = 32767

	// maxDecodeDepth bounds SFS_OBJECT/SFS_ARRAY nesting on decode.
	maxDecodeDepth = 64

	// DefaultMaxFrameSize is the default cap on a single decoded frame,
	// shared by both transports.
	DefaultMaxFrameSize = 16 << 20
)
