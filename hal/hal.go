// Package hal holds the HAL side of the enum translation tables: the enum
// values a composer works with, paired with the names upstream kernel
// drivers give the matching property enum entries.
package hal

import "github.com/NeowayLabs/drmresource/property"

type (
	BlendMode uint32
	// Standard is the color standard field of a dataspace.
	Standard uint32
	// Range is the range field of a dataspace.
	Range     uint32
	PlaneType uint32
	PowerMode uint32
)

const (
	BlendModeNone          BlendMode = 1
	BlendModePremultiplied BlendMode = 2
	BlendModeCoverage      BlendMode = 3
)

const (
	standardShift = 16

	StandardBT709                   Standard = 1 << standardShift
	StandardBT601_625               Standard = 2 << standardShift
	StandardBT601_625Unadjusted     Standard = 3 << standardShift
	StandardBT601_525               Standard = 4 << standardShift
	StandardBT601_525Unadjusted     Standard = 5 << standardShift
	StandardBT2020                  Standard = 6 << standardShift
	StandardBT2020ConstantLuminance Standard = 7 << standardShift
)

const (
	rangeShift = 27

	RangeFull    Range = 1 << rangeShift
	RangeLimited Range = 2 << rangeShift
)

const (
	PlaneTypeOverlay PlaneType = iota
	PlaneTypePrimary
	PlaneTypeCursor
)

const (
	PowerModeOff PowerMode = iota
	PowerModeDoze
	PowerModeOn
	PowerModeDozeSuspend
)

// Property names the tables below are matched against.
const (
	PropBlendMode     = "pixel blend mode"
	PropColorEncoding = "COLOR_ENCODING"
	PropColorRange    = "COLOR_RANGE"
	PropPlaneType     = "type"
	PropDPMS          = "DPMS"
)

var (
	BlendModes = []property.HalEnum{
		{Value: uint32(BlendModeNone), Name: "None"},
		{Value: uint32(BlendModePremultiplied), Name: "Pre-multiplied"},
		{Value: uint32(BlendModeCoverage), Name: "Coverage"},
	}

	// ColorEncodings has no entry for the unadjusted and constant
	// luminance variants, the kernel has no encoding for them.
	ColorEncodings = []property.HalEnum{
		{Value: uint32(StandardBT709), Name: "ITU-R BT.709 YCbCr"},
		{Value: uint32(StandardBT601_625), Name: "ITU-R BT.601 YCbCr"},
		{Value: uint32(StandardBT601_525), Name: "ITU-R BT.601 YCbCr"},
		{Value: uint32(StandardBT2020), Name: "ITU-R BT.2020 YCbCr"},
	}

	ColorRanges = []property.HalEnum{
		{Value: uint32(RangeFull), Name: "YCbCr full range"},
		{Value: uint32(RangeLimited), Name: "YCbCr limited range"},
	}

	PlaneTypes = []property.HalEnum{
		{Value: uint32(PlaneTypeOverlay), Name: "Overlay"},
		{Value: uint32(PlaneTypePrimary), Name: "Primary"},
		{Value: uint32(PlaneTypeCursor), Name: "Cursor"},
	}

	DPMSModes = []property.HalEnum{
		{Value: uint32(PowerModeOn), Name: "On"},
		{Value: uint32(PowerModeDoze), Name: "Standby"},
		{Value: uint32(PowerModeDozeSuspend), Name: "Suspend"},
		{Value: uint32(PowerModeOff), Name: "Off"},
	}
)

// Tables returns the built-in tables keyed by property name. The map is
// fresh on every call.
func Tables() map[string][]property.HalEnum {
	return map[string][]property.HalEnum{
		PropBlendMode:     BlendModes,
		PropColorEncoding: ColorEncodings,
		PropColorRange:    ColorRanges,
		PropPlaneType:     PlaneTypes,
		PropDPMS:          DPMSModes,
	}
}
