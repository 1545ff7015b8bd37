package property

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"github.com/NeowayLabs/drmresource/mode"
)

type (
	// Snapshot is a serializable copy of an Object. Loading it back with
	// FromSnapshot gives descriptors that validate exactly like the
	// captured ones, without a card.
	Snapshot struct {
		ObjectID   uint32             `cbor:"1,keyasint"`
		ObjectType uint32             `cbor:"2,keyasint"`
		Properties []PropertySnapshot `cbor:"3,keyasint,omitempty"`
	}

	PropertySnapshot struct {
		ID      uint32         `cbor:"1,keyasint"`
		Name    string         `cbor:"2,keyasint"`
		Flags   uint32         `cbor:"3,keyasint"`
		Value   uint64         `cbor:"4,keyasint"`
		Values  []uint64       `cbor:"5,keyasint,omitempty"`
		Enums   []EnumSnapshot `cbor:"6,keyasint,omitempty"`
		BlobIDs []uint32       `cbor:"7,keyasint,omitempty"`
	}

	EnumSnapshot struct {
		Value uint64 `cbor:"1,keyasint"`
		Name  string `cbor:"2,keyasint"`
	}
)

var (
	snapEncMode cbor.EncMode
	snapDecMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	snapEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthAllowed,
	}
	snapDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR decoder mode: %v", err))
	}
}

func (o *Object) Snapshot() Snapshot {
	s := Snapshot{ObjectID: o.id, ObjectType: o.typ}
	for _, p := range o.props {
		ps := PropertySnapshot{
			ID:      p.id,
			Name:    p.name,
			Flags:   p.flags,
			Value:   p.value,
			Values:  p.Values(),
			BlobIDs: p.BlobIDs(),
		}
		for _, e := range p.enums {
			ps.Enums = append(ps.Enums, EnumSnapshot{Value: e.Value, Name: e.Name})
		}
		s.Properties = append(s.Properties, ps)
	}
	return s
}

func FromSnapshot(s Snapshot) *Object {
	o := NewObject(s.ObjectID, s.ObjectType)
	for _, ps := range s.Properties {
		info := &mode.PropertyInfo{
			ID:      ps.ID,
			Flags:   ps.Flags,
			Name:    ps.Name,
			Values:  ps.Values,
			BlobIDs: ps.BlobIDs,
		}
		for _, e := range ps.Enums {
			info.Enums = append(info.Enums, Enum{Value: e.Value, Name: e.Name})
		}
		o.add(New(info, ps.Value))
	}
	return o
}

func EncodeSnapshot(s Snapshot) ([]byte, error) {
	data, err := snapEncMode.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "encode snapshot")
	}
	return data, nil
}

func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := snapDecMode.Unmarshal(data, &s); err != nil {
		return Snapshot{}, errors.Wrap(err, "decode snapshot")
	}
	return s, nil
}

// NewSnapshotEncoder writes a stream of snapshots, one per object.
func NewSnapshotEncoder(w io.Writer) *cbor.Encoder {
	return snapEncMode.NewEncoder(w)
}

func NewSnapshotDecoder(r io.Reader) *cbor.Decoder {
	return snapDecMode.NewDecoder(r)
}
