package property

import (
	"log/slog"

	"github.com/pkg/errors"
)

// Object owns the descriptors of one KMS object (plane, crtc or
// connector).
type Object struct {
	id    uint32
	typ   uint32
	props []*Property
	names map[string]*Property
}

// NewObject groups already built descriptors. Later duplicates of a name
// are kept in Properties but not returned by Get.
func NewObject(id, typ uint32, props ...*Property) *Object {
	o := &Object{
		id:    id,
		typ:   typ,
		names: make(map[string]*Property, len(props)),
	}
	for _, p := range props {
		o.add(p)
	}
	return o
}

func (o *Object) add(p *Property) {
	o.props = append(o.props, p)
	if _, ok := o.names[p.Name()]; !ok {
		o.names[p.Name()] = p
	}
}

// LoadObject enumerates the properties of an object and builds one
// descriptor per property with its current value.
func LoadObject(drv Driver, id, typ uint32) (*Object, error) {
	list, err := drv.GetObjectProperties(id, typ)
	if err != nil {
		return nil, err
	}

	if len(list.Values) != len(list.Props) {
		return nil, errors.Errorf("object %d: %d properties, %d values",
			id, len(list.Props), len(list.Values))
	}

	o := NewObject(id, typ)
	for i, propID := range list.Props {
		info, err := drv.GetProperty(propID)
		if err != nil {
			return nil, errors.Wrapf(err, "object %d", id)
		}
		o.add(New(info, list.Values[i]))
	}

	log.Debug("loaded object properties", "object", id, "count", len(o.props))
	return o, nil
}

func (o *Object) ID() uint32 { return o.id }

// Type returns the mode.Object* type of the object.
func (o *Object) Type() uint32 { return o.typ }

// Properties returns the descriptors in driver order.
func (o *Object) Properties() []*Property {
	return append([]*Property(nil), o.props...)
}

// Get returns the descriptor with the given driver name.
func (o *Object) Get(name string) (*Property, error) {
	p, ok := o.names[name]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "object %d has no property %q", o.id, name)
	}
	return p, nil
}

func (o *Object) ByID(id uint32) (*Property, error) {
	for _, p := range o.props {
		if p.ID() == id {
			return p, nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "object %d has no property %d", o.id, id)
}

// ParseEnums builds the translation table of the named enum property.
// Bitmask properties are refused: their entries are bit indices, not
// values ValidateChange accepts.
func (o *Object) ParseEnums(name string, enums []HalEnum) (HalEnumMap, error) {
	p, err := o.Get(name)
	if err != nil {
		return nil, err
	}
	if !p.IsEnum() {
		return nil, errors.Wrapf(ErrInvalidType, "property %q is %s", name, p.Type())
	}
	out := make(HalEnumMap, len(enums))
	ParseEnums(p, enums, out)
	return out, nil
}

// Set validates v, writes it to the driver and, once the driver accepted
// it, updates the cached value.
func (o *Object) Set(drv Driver, name string, v uint64) error {
	p, err := o.Get(name)
	if err != nil {
		return err
	}
	if !p.ValidateChange(v) {
		return errors.Wrapf(ErrInvalidValue, "%s=%d", name, v)
	}
	if err := drv.SetObjectProperty(o.id, o.typ, p.ID(), v); err != nil {
		return err
	}
	p.UpdateValue(v)
	return nil
}

// Print dumps every descriptor at debug level.
func (o *Object) Print(logger *slog.Logger) {
	if logger == nil {
		logger = log
	}
	logger.Debug("object", "id", o.id, "type", o.typ, "properties", len(o.props))
	for _, p := range o.props {
		p.Print(logger)
	}
}
