package property_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeowayLabs/drmresource/mode"
	"github.com/NeowayLabs/drmresource/property"
)

type setCall struct {
	objID, objType, propID uint32
	value                  uint64
}

// fakeDriver serves property metadata from memory.
type fakeDriver struct {
	objects map[uint32]*mode.ObjectProperties
	props   map[uint32]*mode.PropertyInfo
	setErr  error
	sets    []setCall
}

func (d *fakeDriver) GetObjectProperties(objID, objType uint32) (*mode.ObjectProperties, error) {
	o, ok := d.objects[objID]
	if !ok {
		return nil, errors.New("ENOENT")
	}
	return o, nil
}

func (d *fakeDriver) GetProperty(propID uint32) (*mode.PropertyInfo, error) {
	p, ok := d.props[propID]
	if !ok {
		return nil, errors.New("ENOENT")
	}
	return p, nil
}

func (d *fakeDriver) SetObjectProperty(objID, objType, propID uint32, value uint64) error {
	if d.setErr != nil {
		return d.setErr
	}
	d.sets = append(d.sets, setCall{objID, objType, propID, value})
	return nil
}

func newPlaneDriver() *fakeDriver {
	planeType := &mode.PropertyInfo{
		ID:     8,
		Flags:  mode.PropEnum | mode.PropImmutable,
		Name:   "type",
		Values: []uint64{0, 1, 2},
		Enums: []mode.PropertyEnum{
			{Value: 0, Name: "Overlay"},
			{Value: 1, Name: "Primary"},
			{Value: 2, Name: "Cursor"},
		},
	}
	return &fakeDriver{
		objects: map[uint32]*mode.ObjectProperties{
			31: {
				ObjectID:   31,
				ObjectType: mode.ObjectPlane,
				Props:      []uint32{8, 30, 10},
				Values:     []uint64{1, 0, 2},
			},
		},
		props: map[uint32]*mode.PropertyInfo{
			8:  planeType,
			30: blendInfo(),
			10: rangeInfo(10, "zpos", 0, 7),
		},
	}
}

func TestLoadObject(t *testing.T) {
	drv := newPlaneDriver()
	obj, err := property.LoadObject(drv, 31, mode.ObjectPlane)
	require.NoError(t, err)

	assert.Equal(t, uint32(31), obj.ID())
	assert.Equal(t, uint32(mode.ObjectPlane), obj.Type())
	require.Len(t, obj.Properties(), 3)

	typ, err := obj.Get("type")
	require.NoError(t, err)
	v, err := typ.Value()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
	assert.True(t, typ.IsImmutable())

	zpos, err := obj.ByID(10)
	require.NoError(t, err)
	assert.Equal(t, "zpos", zpos.Name())

	_, err = obj.Get("alpha")
	assert.True(t, errors.Is(err, property.ErrNotFound))
	_, err = obj.ByID(99)
	assert.True(t, errors.Is(err, property.ErrNotFound))
}

func TestLoadObjectErrors(t *testing.T) {
	drv := newPlaneDriver()
	_, err := property.LoadObject(drv, 40, mode.ObjectPlane)
	assert.Error(t, err)

	delete(drv.props, 30)
	_, err = property.LoadObject(drv, 31, mode.ObjectPlane)
	assert.Error(t, err)
}

func TestLoadObjectMisalignedValues(t *testing.T) {
	drv := newPlaneDriver()
	drv.objects[31].Values = drv.objects[31].Values[:1]

	_, err := property.LoadObject(drv, 31, mode.ObjectPlane)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 properties, 1 values")
}

func TestObjectsOwnTheirDescriptors(t *testing.T) {
	drv := newPlaneDriver()
	a, err := property.LoadObject(drv, 31, mode.ObjectPlane)
	require.NoError(t, err)
	b, err := property.LoadObject(drv, 31, mode.ObjectPlane)
	require.NoError(t, err)

	pa, _ := a.Get("zpos")
	pb, _ := b.Get("zpos")
	pa.UpdateValue(5)
	v, _ := pb.Value()
	assert.Equal(t, uint64(2), v)
}

func TestObjectSet(t *testing.T) {
	drv := newPlaneDriver()
	obj, err := property.LoadObject(drv, 31, mode.ObjectPlane)
	require.NoError(t, err)

	require.NoError(t, obj.Set(drv, "zpos", 4))
	assert.Equal(t, []setCall{{31, mode.ObjectPlane, 10, 4}}, drv.sets)
	zpos, _ := obj.Get("zpos")
	v, _ := zpos.Value()
	assert.Equal(t, uint64(4), v)

	err = obj.Set(drv, "zpos", 8)
	assert.True(t, errors.Is(err, property.ErrInvalidValue))
	assert.Len(t, drv.sets, 1)

	err = obj.Set(drv, "type", 0)
	assert.True(t, errors.Is(err, property.ErrInvalidValue), "immutable")

	err = obj.Set(drv, "rotation", 1)
	assert.True(t, errors.Is(err, property.ErrNotFound))
}

func TestObjectSetDriverFailureKeepsCache(t *testing.T) {
	drv := newPlaneDriver()
	obj, err := property.LoadObject(drv, 31, mode.ObjectPlane)
	require.NoError(t, err)

	drv.setErr = errors.New("EINVAL")
	assert.Error(t, obj.Set(drv, "pixel blend mode", 2))

	blend, _ := obj.Get("pixel blend mode")
	v, _ := blend.Value()
	assert.Equal(t, uint64(0), v)
}

func TestObjectParseEnums(t *testing.T) {
	obj, err := property.LoadObject(newPlaneDriver(), 31, mode.ObjectPlane)
	require.NoError(t, err)

	table, err := obj.ParseEnums("pixel blend mode", []property.HalEnum{
		{Value: 2, Name: "Pre-multiplied"},
		{Value: 9, Name: "Unknown"},
	})
	require.NoError(t, err)
	assert.Equal(t, property.HalEnumMap{2: 1}, table)

	_, err = obj.ParseEnums("zpos", nil)
	assert.True(t, errors.Is(err, property.ErrInvalidType))

	_, err = obj.ParseEnums("alpha", nil)
	assert.True(t, errors.Is(err, property.ErrNotFound))
}

func TestObjectParseEnumsRefusesBitmask(t *testing.T) {
	rotation := property.New(rotationInfo(), 1)
	obj := property.NewObject(31, mode.ObjectPlane, rotation)

	_, err := obj.ParseEnums("rotation", []property.HalEnum{{Value: 4, Name: "rotate-180"}})
	assert.True(t, errors.Is(err, property.ErrInvalidType))

	// the package level helper yields bit indices, callers shift them
	table := property.HalEnumMap{}
	property.ParseEnums(rotation, []property.HalEnum{{Value: 4, Name: "rotate-180"}}, table)
	bit, err := property.HalToDrmEnum(4, table)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), bit)
	assert.True(t, rotation.ValidateChange(1<<bit))
}

func TestNewObjectDuplicateNames(t *testing.T) {
	first := property.New(rangeInfo(1, "zpos", 0, 3), 0)
	second := property.New(rangeInfo(2, "zpos", 0, 9), 0)
	obj := property.NewObject(5, mode.ObjectPlane, first, second)

	p, err := obj.Get("zpos")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), p.ID())
	assert.Len(t, obj.Properties(), 2)
}
