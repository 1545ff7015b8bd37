package property_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeowayLabs/drmresource/mode"
	"github.com/NeowayLabs/drmresource/property"
)

func TestSnapshotReplaysValidation(t *testing.T) {
	obj, err := property.LoadObject(newPlaneDriver(), 31, mode.ObjectPlane)
	require.NoError(t, err)

	data, err := property.EncodeSnapshot(obj.Snapshot())
	require.NoError(t, err)
	snap, err := property.DecodeSnapshot(data)
	require.NoError(t, err)
	replay := property.FromSnapshot(snap)

	assert.Equal(t, obj.ID(), replay.ID())
	assert.Equal(t, obj.Type(), replay.Type())
	require.Len(t, replay.Properties(), len(obj.Properties()))

	for i, p := range obj.Properties() {
		r := replay.Properties()[i]
		assert.Equal(t, p.String(), r.String())
		for v := uint64(0); v < 10; v++ {
			assert.Equal(t, p.ValidateChange(v), r.ValidateChange(v), "%s=%d", p.Name(), v)
		}
	}
}

func TestSnapshotStream(t *testing.T) {
	a := property.NewObject(1, mode.ObjectCrtc, property.New(rangeInfo(3, "VRR_ENABLED", 0, 1), 0))
	b := property.NewObject(2, mode.ObjectConnector, property.New(&mode.PropertyInfo{
		ID:    4,
		Flags: mode.PropEnum,
		Name:  "DPMS",
		Enums: []mode.PropertyEnum{{Value: 0, Name: "On"}, {Value: 3, Name: "Off"}},
	}, 3))

	var buf bytes.Buffer
	enc := property.NewSnapshotEncoder(&buf)
	require.NoError(t, enc.Encode(a.Snapshot()))
	require.NoError(t, enc.Encode(b.Snapshot()))

	dec := property.NewSnapshotDecoder(&buf)
	var got []property.Snapshot
	for {
		var s property.Snapshot
		err := dec.Decode(&s)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, s)
	}
	require.Len(t, got, 2)
	assert.Equal(t, uint32(mode.ObjectConnector), got[1].ObjectType)

	dpms, err := property.FromSnapshot(got[1]).Get("DPMS")
	require.NoError(t, err)
	v, err := dpms.EnumValueWithName("Off")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v)
}

func TestDecodeSnapshotGarbage(t *testing.T) {
	_, err := property.DecodeSnapshot([]byte{0xff, 0x00})
	assert.Error(t, err)
}
