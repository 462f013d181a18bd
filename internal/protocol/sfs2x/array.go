package sfs2x

import "fmt"

// Array is an SFS_ARRAY: an ordered sequence of tagged values.
type Array struct {
	items []Value
}

// NewArray returns an empty SFS_ARRAY.
func NewArray() *Array { return &Array{} }

// Len returns the element count.
func (a *Array) Len() int { return len(a.items) }

// Add appends a value and returns the array for chaining.
func (a *Array) Add(v Value) *Array {
	a.items = append(a.items, v)
	return a
}

// Typed append helpers.

func (a *Array) AddNull() *Array                  { return a.Add(NewNull()) }
func (a *Array) AddBool(b bool) *Array            { return a.Add(NewBool(b)) }
func (a *Array) AddByte(b byte) *Array            { return a.Add(NewByte(b)) }
func (a *Array) AddShort(n int16) *Array          { return a.Add(NewShort(n)) }
func (a *Array) AddInt(n int32) *Array            { return a.Add(NewInt(n)) }
func (a *Array) AddLong(n int64) *Array           { return a.Add(NewLong(n)) }
func (a *Array) AddFloat(f float32) *Array        { return a.Add(NewFloat(f)) }
func (a *Array) AddDouble(f float64) *Array       { return a.Add(NewDouble(f)) }
func (a *Array) AddString(s string) *Array        { return a.Add(NewString(s)) }
func (a *Array) AddBoolArray(v []bool) *Array     { return a.Add(NewBoolArray(v)) }
func (a *Array) AddByteArray(v []byte) *Array     { return a.Add(NewByteArray(v)) }
func (a *Array) AddShortArray(v []int16) *Array   { return a.Add(NewShortArray(v)) }
func (a *Array) AddIntArray(v []int32) *Array     { return a.Add(NewIntArray(v)) }
func (a *Array) AddArray(n *Array) *Array         { return a.Add(NewArrayValue(n)) }
func (a *Array) AddObject(o *Object) *Array       { return a.Add(NewObjectValue(o)) }

// At returns the element at index i.
func (a *Array) At(i int) (Value, error) {
	if i < 0 || i >= len(a.items) {
		return Value{}, fmt.Errorf("%w: index %d, len %d", ErrIndexOutOfRange, i, len(a.items))
	}
	return a.items[i], nil
}

// Typed element reads, used heavily by the positional settings tuple.

func (a *Array) BoolAt(i int) (bool, error) {
	v, err := a.At(i)
	if err != nil {
		return false, err
	}
	return v.Bool()
}

func (a *Array) ByteAt(i int) (byte, error) {
	v, err := a.At(i)
	if err != nil {
		return 0, err
	}
	return v.Byte()
}

func (a *Array) ShortAt(i int) (int16, error) {
	v, err := a.At(i)
	if err != nil {
		return 0, err
	}
	return v.Short()
}

func (a *Array) IntAt(i int) (int32, error) {
	v, err := a.At(i)
	if err != nil {
		return 0, err
	}
	return v.Int()
}

func (a *Array) LongAt(i int) (int64, error) {
	v, err := a.At(i)
	if err != nil {
		return 0, err
	}
	return v.Long()
}

func (a *Array) StringAt(i int) (string, error) {
	v, err := a.At(i)
	if err != nil {
		return "", err
	}
	return v.Text()
}

func (a *Array) BoolArrayAt(i int) ([]bool, error) {
	v, err := a.At(i)
	if err != nil {
		return nil, err
	}
	return v.BoolArray()
}

func (a *Array) ArrayAt(i int) (*Array, error) {
	v, err := a.At(i)
	if err != nil {
		return nil, err
	}
	return v.Array()
}

func (a *Array) ObjectAt(i int) (*Object, error) {
	v, err := a.At(i)
	if err != nil {
		return nil, err
	}
	return v.Object()
}
