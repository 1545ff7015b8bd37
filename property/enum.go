package property

// HalEnum pairs a HAL enum value with the name the driver uses for the
// matching enum entry.
type HalEnum struct {
	Value uint32 `yaml:"hal"`
	Name  string `yaml:"name"`
}

// HalEnumMap translates HAL enum values into driver enum values.
type HalEnumMap map[uint32]uint64

// ParseEnums adds to out every pair of enums whose name is one of the
// enum entries of p. Pairs the driver does not know are skipped. out must
// not be nil. For a bitmask property the table holds bit indices; shift
// them into a mask before validating or writing.
func ParseEnums(p *Property, enums []HalEnum, out HalEnumMap) {
	for _, e := range enums {
		v, err := p.EnumValueWithName(e.Name)
		if err != nil {
			log.Debug("enum not supported by driver",
				"property", p.Name(), "name", e.Name, "hal", e.Value)
			continue
		}
		out[e.Value] = v
	}
}

// HalToDrmEnum returns the driver value for hal, or ErrNotFound.
func HalToDrmEnum(hal uint32, table HalEnumMap) (uint64, error) {
	v, ok := table[hal]
	if !ok {
		return 0, ErrNotFound
	}
	return v, nil
}
