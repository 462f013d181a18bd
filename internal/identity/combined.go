package identity

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/martengale/foxbox/internal/protocol/simplifyio"
)

// Keyed field names inside the CombinedID blob.
const (
	fieldIP       = "ip"
	fieldPort     = "port"
	fieldProvider = "provider"
)

// CombinedID is a player identity plus the network endpoint peers dial for
// rendezvous. The binary form rides inside the game-start broadcast.
type CombinedID struct {
	Player   PlayerID
	IP       string
	Port     int
	Provider string
}

// Encode serializes the blob: the raw player identity (storefront enum plus
// length-prefixed id and display name), then the endpoint as SimplifyIO
// keyed fields. The provider field is always written; decoders tolerate its
// absence for older blobs.
func (c CombinedID) Encode() ([]byte, error) {
	var buf bytes.Buffer

	if err := binary.Write(&buf, binary.BigEndian, int32(c.Player.Storefront)); err != nil {
		return nil, fmt.Errorf("write storefront: %w", err)
	}
	if err := simplifyio.WriteRawString(&buf, c.Player.ID); err != nil {
		return nil, fmt.Errorf("write player id: %w", err)
	}
	if err := simplifyio.WriteRawString(&buf, c.Player.DisplayName); err != nil {
		return nil, fmt.Errorf("write display name: %w", err)
	}

	if err := simplifyio.WriteString(&buf, fieldIP, c.IP); err != nil {
		return nil, err
	}
	if err := simplifyio.WriteInt32(&buf, fieldPort, int32(c.Port)); err != nil {
		return nil, err
	}
	if err := simplifyio.WriteString(&buf, fieldProvider, c.Provider); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DecodeCombinedID parses a blob produced by Encode.
func DecodeCombinedID(data []byte) (CombinedID, error) {
	r := bytes.NewReader(data)
	var c CombinedID

	var storefront int32
	if err := binary.Read(r, binary.BigEndian, &storefront); err != nil {
		return CombinedID{}, fmt.Errorf("read storefront: %w", err)
	}
	c.Player.Storefront = Storefront(storefront)

	id, err := simplifyio.ReadRawString(r)
	if err != nil {
		return CombinedID{}, fmt.Errorf("read player id: %w", err)
	}
	c.Player.ID = id

	name, err := simplifyio.ReadRawString(r)
	if err != nil {
		return CombinedID{}, fmt.Errorf("read display name: %w", err)
	}
	c.Player.DisplayName = name

	ip, err := simplifyio.ReadString(r, fieldIP)
	if err != nil {
		return CombinedID{}, err
	}
	c.IP = ip

	port, err := simplifyio.ReadInt32(r, fieldPort)
	if err != nil {
		return CombinedID{}, err
	}
	c.Port = int(port)

	provider, err := simplifyio.ReadString(r, fieldProvider)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return c, nil
		}
		return CombinedID{}, err
	}
	c.Provider = provider

	if r.Len() != 0 {
		return CombinedID{}, fmt.Errorf("%d trailing bytes after combined id", r.Len())
	}
	return c, nil
}
