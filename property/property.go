// Package property wraps the properties a DRM driver exposes on its KMS
// objects (planes, crtcs and connectors).
//
// A Property caches the driver metadata (type, range, enum entries) and the
// last known value so a composition layer can validate a whole set of
// changes before it commits any of them. Validation and mutation are two
// separate steps: ValidateChange never modifies the descriptor and
// UpdateValue never rejects a value.
package property

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/NeowayLabs/drmresource/mode"
)

// Type is the kind of a property, derived from its driver flags.
type Type int

const (
	TypeInt Type = iota
	TypeEnum
	TypeObject
	TypeBlob
	TypeBitmask
	TypeInvalid
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeEnum:
		return "enum"
	case TypeObject:
		return "object"
	case TypeBlob:
		return "blob"
	case TypeBitmask:
		return "bitmask"
	}
	return "invalid"
}

// Enum is one named value of an enum or bitmask property.
type Enum = mode.PropertyEnum

// Property is the descriptor of one driver property. The zero value is an
// uninitialized descriptor of TypeInvalid.
type Property struct {
	id    uint32
	typ   Type
	flags uint32
	name  string
	value uint64

	values  []uint64
	enums   []Enum
	blobIDs []uint32
}

// New builds a descriptor from the driver metadata and the current value
// of the property on its object.
func New(info *mode.PropertyInfo, value uint64) *Property {
	p := &Property{}
	p.init(info, value)
	return p
}

func (p *Property) init(info *mode.PropertyInfo, value uint64) {
	p.id = info.ID
	p.flags = info.Flags
	p.name = info.Name
	p.value = value
	p.values = append([]uint64(nil), info.Values...)
	p.enums = append([]Enum(nil), info.Enums...)
	p.blobIDs = append([]uint32(nil), info.BlobIDs...)
	p.typ = typeOf(info.Flags)
}

func typeOf(flags uint32) Type {
	switch {
	case flags&mode.PropRange != 0:
		return TypeInt
	case flags&mode.PropEnum != 0:
		return TypeEnum
	case flags&mode.PropExtendedType == mode.PropObject:
		return TypeObject
	case flags&mode.PropBlob != 0:
		return TypeBlob
	case flags&mode.PropBitmask != 0:
		return TypeBitmask
	case flags&mode.PropExtendedType == mode.PropSignedRange:
		return TypeInt
	}
	return TypeInvalid
}

func (p *Property) ID() uint32 { return p.id }

func (p *Property) Name() string { return p.name }

// SetName renames the descriptor. Lookups through an Object keep using
// the driver name.
func (p *Property) SetName(name string) { p.name = name }

// Type returns TypeInvalid until the descriptor is built from driver
// metadata.
func (p *Property) Type() Type {
	if !p.initialized() {
		return TypeInvalid
	}
	return p.typ
}

// Flags returns the raw driver flags.
func (p *Property) Flags() uint32 { return p.flags }

func (p *Property) Values() []uint64 { return append([]uint64(nil), p.values...) }

func (p *Property) Enums() []Enum { return append([]Enum(nil), p.enums...) }

func (p *Property) BlobIDs() []uint32 { return append([]uint32(nil), p.blobIDs...) }

func (p *Property) initialized() bool {
	return p.id != 0
}

// Value returns the cached value. It fails with ErrUninitialized when the
// descriptor was never built from driver metadata.
func (p *Property) Value() (uint64, error) {
	if !p.initialized() {
		return 0, ErrUninitialized
	}
	return p.value, nil
}

func (p *Property) IsImmutable() bool {
	return p.initialized() && p.flags&mode.PropImmutable != 0
}

func (p *Property) IsRange() bool {
	return p.initialized() && p.flags&mode.PropRange != 0
}

func (p *Property) IsSignedRange() bool {
	return p.initialized() && p.flags&mode.PropExtendedType == mode.PropSignedRange
}

func (p *Property) IsBitmask() bool {
	return p.initialized() && p.flags&mode.PropBitmask != 0
}

func (p *Property) IsEnum() bool {
	return p.initialized() && p.flags&mode.PropEnum != 0
}

// IsAtomic reports whether the property is only visible to atomic clients.
func (p *Property) IsAtomic() bool {
	return p.initialized() && p.flags&mode.PropAtomic != 0
}

// RangeMin returns the lower bound of a range or signed range property.
// Signed bounds are returned in two's complement.
func (p *Property) RangeMin() (uint64, error) {
	return p.bound(0)
}

// RangeMax returns the upper bound of a range or signed range property.
func (p *Property) RangeMax() (uint64, error) {
	return p.bound(1)
}

func (p *Property) bound(i int) (uint64, error) {
	if !p.IsRange() && !p.IsSignedRange() {
		return 0, ErrInvalidType
	}
	if len(p.values) <= i {
		return 0, ErrUninitialized
	}
	return p.values[i], nil
}

// ValidateChange reports whether v may be written to the property.
// Immutable properties accept nothing; object and blob properties accept
// any id.
func (p *Property) ValidateChange(v uint64) bool {
	if !p.initialized() {
		log.Debug("property is not initialized", "value", v)
		return false
	}
	if p.IsImmutable() {
		log.Debug("property is immutable", "property", p.name)
		return false
	}

	switch {
	case p.IsRange():
		min, max, ok := p.bounds()
		if !ok || v < min || v > max {
			p.reject(v, "out of range", "min", min, "max", max)
			return false
		}
	case p.IsSignedRange():
		min, max, ok := p.bounds()
		if !ok || int64(v) < int64(min) || int64(v) > int64(max) {
			p.reject(v, "out of signed range", "min", int64(min), "max", int64(max))
			return false
		}
	case p.IsEnum():
		if !p.hasEnumValue(v) {
			p.reject(v, "not an enum value")
			return false
		}
	case p.IsBitmask():
		mask := p.bitmask()
		if v&^mask != 0 {
			p.reject(v, "bits outside of mask", "mask", fmt.Sprintf("%#x", mask))
			return false
		}
	}
	return true
}

func (p *Property) reject(v uint64, reason string, args ...any) {
	log.Debug("invalid property value",
		append([]any{"property", p.name, "value", v, "reason", reason}, args...)...)
}

func (p *Property) bounds() (min, max uint64, ok bool) {
	if len(p.values) < 2 {
		return 0, 0, false
	}
	return p.values[0], p.values[1], true
}

func (p *Property) hasEnumValue(v uint64) bool {
	for _, e := range p.enums {
		if e.Value == v {
			return true
		}
	}
	if len(p.enums) == 0 {
		// enum entries were not reported, fall back to the value list
		for _, val := range p.values {
			if val == v {
				return true
			}
		}
	}
	return false
}

// bitmask is the set of bits named by the bitmask entries.
func (p *Property) bitmask() uint64 {
	var mask uint64
	for _, bit := range p.values {
		if bit < 64 {
			mask |= 1 << bit
		}
	}
	for _, e := range p.enums {
		if e.Value < 64 {
			mask |= 1 << e.Value
		}
	}
	return mask
}

// UpdateValue overwrites the cached value. It does not validate v; callers
// run ValidateChange first and update once the commit succeeded.
func (p *Property) UpdateValue(v uint64) {
	p.value = v
}

// EnumValueWithName returns the driver value of the enum entry called
// name. For bitmask properties the value is the bit index.
func (p *Property) EnumValueWithName(name string) (uint64, error) {
	for _, e := range p.enums {
		if e.Name == name {
			return e.Value, nil
		}
	}
	return 0, ErrNotFound
}

// EnumName returns the name of the enum entry with driver value v.
func (p *Property) EnumName(v uint64) (string, bool) {
	for _, e := range p.enums {
		if e.Value == v {
			return e.Name, true
		}
	}
	return "", false
}

func (p *Property) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (id=%d type=%s flags=%#x", p.name, p.id, p.Type(), p.flags)
	if p.IsImmutable() {
		sb.WriteString(" immutable")
	}
	if p.IsAtomic() {
		sb.WriteString(" atomic")
	}
	fmt.Fprintf(&sb, ") value=%d", p.value)

	switch {
	case p.IsSignedRange():
		if min, max, ok := p.bounds(); ok {
			fmt.Fprintf(&sb, " range=[%d, %d]", int64(min), int64(max))
		}
	case p.IsRange():
		if min, max, ok := p.bounds(); ok {
			fmt.Fprintf(&sb, " range=[%d, %d]", min, max)
		}
	}
	if len(p.enums) > 0 {
		names := make([]string, 0, len(p.enums))
		for _, e := range p.enums {
			names = append(names, fmt.Sprintf("%s=%d", e.Name, e.Value))
		}
		fmt.Fprintf(&sb, " enums={%s}", strings.Join(names, ", "))
	}
	if len(p.blobIDs) > 0 {
		fmt.Fprintf(&sb, " blobs=%v", p.blobIDs)
	}
	return sb.String()
}

// LogValue implements slog.LogValuer.
func (p *Property) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Uint64("id", uint64(p.id)),
		slog.String("name", p.name),
		slog.String("type", p.Type().String()),
		slog.Uint64("value", p.value),
	}
	if min, max, ok := p.bounds(); ok && (p.IsRange() || p.IsSignedRange()) {
		attrs = append(attrs, slog.Uint64("min", min), slog.Uint64("max", max))
	}
	if len(p.enums) > 0 {
		attrs = append(attrs, slog.Int("enums", len(p.enums)))
	}
	return slog.GroupValue(attrs...)
}

// Print dumps the descriptor at debug level. A nil logger uses the package
// logger.
func (p *Property) Print(logger *slog.Logger) {
	if logger == nil {
		logger = log
	}
	logger.Debug(p.String())
}
