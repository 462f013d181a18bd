package sfs2x

// Value is a single tagged protocol value. The zero Value is NULL.
//
// Values are immutable once constructed; the contained slices are shared,
// not copied, so callers must not mutate a slice after handing it to a
// constructor.
type Value struct {
	typ TypeID
	v   any
}

// Type returns the wire tag of the value.
func (v Value) Type() TypeID { return v.typ }

// IsNull reports whether the value carries the NULL tag.
func (v Value) IsNull() bool { return v.typ == TypeNull }

// Constructors. One per wire tag; strings pick their tag at encode time
// based on length (see encode.go), so NewString covers both UTF_STRING and
// TEXT.

func NewNull() Value                     { return Value{typ: TypeNull} }
func NewBool(b bool) Value               { return Value{typ: TypeBool, v: b} }
func NewByte(b byte) Value               { return Value{typ: TypeByte, v: b} }
func NewShort(n int16) Value             { return Value{typ: TypeShort, v: n} }
func NewInt(n int32) Value               { return Value{typ: TypeInt, v: n} }
func NewLong(n int64) Value              { return Value{typ: TypeLong, v: n} }
func NewFloat(f float32) Value           { return Value{typ: TypeFloat, v: f} }
func NewDouble(f float64) Value          { return Value{typ: TypeDouble, v: f} }
func NewString(s string) Value           { return Value{typ: stringTag(s), v: s} }
func NewBoolArray(a []bool) Value        { return Value{typ: TypeBoolArray, v: a} }
func NewByteArray(a []byte) Value        { return Value{typ: TypeByteArray, v: a} }
func NewShortArray(a []int16) Value      { return Value{typ: TypeShortArray, v: a} }
func NewIntArray(a []int32) Value        { return Value{typ: TypeIntArray, v: a} }
func NewLongArray(a []int64) Value       { return Value{typ: TypeLongArray, v: a} }
func NewFloatArray(a []float32) Value    { return Value{typ: TypeFloatArray, v: a} }
func NewDoubleArray(a []float64) Value   { return Value{typ: TypeDoubleArray, v: a} }
func NewUTFStringArray(a []string) Value { return Value{typ: TypeUTFStringArray, v: a} }
func NewArrayValue(a *Array) Value       { return Value{typ: TypeSFSArray, v: a} }
func NewObjectValue(o *Object) Value     { return Value{typ: TypeSFSObject, v: o} }

// stringTag picks the canonical tag for a string: the short UTF_STRING form
// whenever the byte length fits, TEXT otherwise.
func stringTag(s string) TypeID {
	if len(s) > MaxUTFStringLen {
		return TypeText
	}
	return TypeUTFString
}

// Strict accessors. Each returns ErrTypeMismatch (as a TypeMismatchError)
// when the value carries a different tag. Text is the one sanctioned dual
// read: UTF_STRING and TEXT are interchangeable wherever a string is
// expected.

func (v Value) Bool() (bool, error) {
	if v.typ != TypeBool {
		return false, typeMismatch(TypeBool, v.typ)
	}
	return v.v.(bool), nil
}

func (v Value) Byte() (byte, error) {
	if v.typ != TypeByte {
		return 0, typeMismatch(TypeByte, v.typ)
	}
	return v.v.(byte), nil
}

func (v Value) Short() (int16, error) {
	if v.typ != TypeShort {
		return 0, typeMismatch(TypeShort, v.typ)
	}
	return v.v.(int16), nil
}

func (v Value) Int() (int32, error) {
	if v.typ != TypeInt {
		return 0, typeMismatch(TypeInt, v.typ)
	}
	return v.v.(int32), nil
}

func (v Value) Long() (int64, error) {
	if v.typ != TypeLong {
		return 0, typeMismatch(TypeLong, v.typ)
	}
	return v.v.(int64), nil
}

func (v Value) Float() (float32, error) {
	if v.typ != TypeFloat {
		return 0, typeMismatch(TypeFloat, v.typ)
	}
	return v.v.(float32), nil
}

func (v Value) Double() (float64, error) {
	if v.typ != TypeDouble {
		return 0, typeMismatch(TypeDouble, v.typ)
	}
	return v.v.(float64), nil
}

// Text returns the string payload of a UTF_STRING or TEXT value.
func (v Value) Text() (string, error) {
	if v.typ != TypeUTFString && v.typ != TypeText {
		return "", typeMismatch(TypeUTFString, v.typ)
	}
	return v.v.(string), nil
}

func (v Value) BoolArray() ([]bool, error) {
	if v.typ != TypeBoolArray {
		return nil, typeMismatch(TypeBoolArray, v.typ)
	}
	return v.v.([]bool), nil
}

func (v Value) ByteArray() ([]byte, error) {
	if v.typ != TypeByteArray {
		return nil, typeMismatch(TypeByteArray, v.typ)
	}
	return v.v.([]byte), nil
}

func (v Value) ShortArray() ([]int16, error) {
	if v.typ != TypeShortArray {
		return nil, typeMismatch(TypeShortArray, v.typ)
	}
	return v.v.([]int16), nil
}

func (v Value) IntArray() ([]int32, error) {
	if v.typ != TypeIntArray {
		return nil, typeMismatch(TypeIntArray, v.typ)
	}
	return v.v.([]int32), nil
}

func (v Value) LongArray() ([]int64, error) {
	if v.typ != TypeLongArray {
		return nil, typeMismatch(TypeLongArray, v.typ)
	}
	return v.v.([]int64), nil
}

func (v Value) FloatArray() ([]float32, error) {
	if v.typ != TypeFloatArray {
		return nil, typeMismatch(TypeFloatArray, v.typ)
	}
	return v.v.([]float32), nil
}

func (v Value) DoubleArray() ([]float64, error) {
	if v.typ != TypeDoubleArray {
		return nil, typeMismatch(TypeDoubleArray, v.typ)
	}
	return v.v.([]float64), nil
}

func (v Value) UTFStringArray() ([]string, error) {
	if v.typ != TypeUTFStringArray {
		return nil, typeMismatch(TypeUTFStringArray, v.typ)
	}
	return v.v.([]string), nil
}

func (v Value) Array() (*Array, error) {
	if v.typ != TypeSFSArray {
		return nil, typeMismatch(TypeSFSArray, v.typ)
	}
	return v.v.(*Array), nil
}

func (v Value) Object() (*Object, error) {
	if v.typ != TypeSFSObject {
		return nil, typeMismatch(TypeSFSObject, v.typ)
	}
	return v.v.(*Object), nil
}

// AsInt widens BYTE and SHORT to int32. It exists for envelope fields where
// clients legitimately send the narrowest integer that fits; it is the only
// cross-tag numeric read in the codec.
func (v Value) AsInt() (int32, error) {
	switch v.typ {
	case TypeByte:
		return int32(v.v.(byte)), nil
	case TypeShort:
		return int32(v.v.(int16)), nil
	case TypeInt:
		return v.v.(int32), nil
	default:
		return 0, typeMismatch(TypeInt, v.typ)
	}
}

// AsLong widens BYTE, SHORT and INT to int64.
func (v Value) AsLong() (int64, error) {
	switch v.typ {
	case TypeByte:
		return int64(v.v.(byte)), nil
	case TypeShort:
		return int64(v.v.(int16)), nil
	case TypeInt:
		return int64(v.v.(int32)), nil
	case TypeLong:
		return v.v.(int64), nil
	default:
		return 0, typeMismatch(TypeLong, v.typ)
	}
}
