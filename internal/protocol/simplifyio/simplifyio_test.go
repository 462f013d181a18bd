package simplifyio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteString(&buf, "name", "Commander"))
	require.NoError(t, WriteInt32(&buf, "port", 27015))
	require.NoError(t, WriteInt16(&buf, "team", -3))
	require.NoError(t, WriteByteField(&buf, "slot", 9))
	require.NoError(t, WriteBool(&buf, "ready", true))
	require.NoError(t, WriteFloat32(&buf, "speed", 1.5))
	require.NoError(t, WriteBoolArray(&buf, "flags", []bool{true, false, true}))

	name, err := ReadString(&buf, "name")
	require.NoError(t, err)
	assert.Equal(t, "Commander", name)

	port, err := ReadInt32(&buf, "port")
	require.NoError(t, err)
	assert.Equal(t, int32(27015), port)

	team, err := ReadInt16(&buf, "team")
	require.NoError(t, err)
	assert.Equal(t, int16(-3), team)

	slot, err := ReadByteField(&buf, "slot")
	require.NoError(t, err)
	assert.Equal(t, byte(9), slot)

	ready, err := ReadBool(&buf, "ready")
	require.NoError(t, err)
	assert.True(t, ready)

	speed, err := ReadFloat32(&buf, "speed")
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), speed)

	flags, err := ReadBoolArray(&buf, "flags")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, flags)

	assert.Zero(t, buf.Len(), "all bytes consumed")
}

func TestWireLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInt32(&buf, "ip", 7))

	// 4-byte key length, key, tag, 4-byte value.
	raw := buf.Bytes()
	require.Len(t, raw, 4+2+1+4)
	assert.Equal(t, uint32(2), binary.BigEndian.Uint32(raw[0:4]))
	assert.Equal(t, []byte("ip"), raw[4:6])
	assert.Equal(t, byte(TagInt32), raw[6])
	assert.Equal(t, uint32(7), binary.BigEndian.Uint32(raw[7:11]))
}

func TestKeyMismatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteString(&buf, "actual", "v"))

	_, err := ReadString(&buf, "expected")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeyMismatch)

	var km *KeyMismatchError
	require.ErrorAs(t, err, &km)
	assert.Equal(t, "expected", km.Want)
	assert.Equal(t, "actual", km.Got)
}

func TestTagMismatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBool(&buf, "ready", true))

	_, err := ReadInt32(&buf, "ready")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrKeyMismatch)
	assert.Contains(t, err.Error(), "unexpected type tag")
}

func TestTruncatedField(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInt32(&buf, "port", 99))

	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()-2])
	_, err := ReadInt32(truncated, "port")
	assert.Error(t, err)
}

func TestRejectsHugeLength(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(1<<30)))

	_, err := ReadRawString(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds limit")
}
