package hal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeowayLabs/drmresource/hal"
	"github.com/NeowayLabs/drmresource/mode"
	"github.com/NeowayLabs/drmresource/property"
)

// enum entries as registered by drm_plane_create_color_properties
func colorEncoding() *property.Property {
	return property.New(&mode.PropertyInfo{
		ID:     60,
		Flags:  mode.PropEnum,
		Name:   hal.PropColorEncoding,
		Values: []uint64{0, 1},
		Enums: []mode.PropertyEnum{
			{Value: 0, Name: "ITU-R BT.601 YCbCr"},
			{Value: 1, Name: "ITU-R BT.709 YCbCr"},
		},
	}, 0)
}

func TestColorEncodingTable(t *testing.T) {
	table := property.HalEnumMap{}
	property.ParseEnums(colorEncoding(), hal.ColorEncodings, table)

	for hv, want := range map[hal.Standard]uint64{
		hal.StandardBT709:     1,
		hal.StandardBT601_625: 0,
		hal.StandardBT601_525: 0,
	} {
		v, err := property.HalToDrmEnum(uint32(hv), table)
		require.NoError(t, err, "standard %#x", hv)
		assert.Equal(t, want, v)
	}

	// driver without BT.2020 support
	_, err := property.HalToDrmEnum(uint32(hal.StandardBT2020), table)
	assert.Equal(t, property.ErrNotFound, err)
}

func TestTables(t *testing.T) {
	tables := hal.Tables()
	assert.Len(t, tables, 5)
	assert.Equal(t, hal.BlendModes, tables[hal.PropBlendMode])

	tables[hal.PropDPMS] = nil
	assert.NotNil(t, hal.Tables()[hal.PropDPMS])

	for name, table := range tables {
		seen := map[uint32]bool{}
		for _, e := range table {
			assert.False(t, seen[e.Value], "%s: duplicate HAL value %d", name, e.Value)
			seen[e.Value] = true
		}
	}
}
