package mesh

import (
	"strconv"
	"strings"
)

// BCType is the boundary marker id carried by a boundary side record. Values
// below BCUserDefined have conventional names; anything above is a user
// marker and round-trips as a plain number.
type BCType uint16

const (
	// BCNone marks a side without a boundary condition
	BCNone BCType = iota

	BCInflow
	BCOutflow
	BCWall
	BCSlipWall
	BCSymmetry
	BCPeriodic
	BCFarfield
	BCIsothermal
	BCAdiabatic
	BCDirichlet
	BCNeumann
	BCInterface

	// BCUserDefined is the first marker id without a conventional name
	BCUserDefined BCType = 100
)

var bcNames = map[BCType]string{
	BCNone:       "None",
	BCInflow:     "Inflow",
	BCOutflow:    "Outflow",
	BCWall:       "Wall",
	BCSlipWall:   "SlipWall",
	BCSymmetry:   "Symmetry",
	BCPeriodic:   "Periodic",
	BCFarfield:   "Farfield",
	BCIsothermal: "Isothermal",
	BCAdiabatic:  "Adiabatic",
	BCDirichlet:  "Dirichlet",
	BCNeumann:    "Neumann",
	BCInterface:  "Interface",
}

// String returns the conventional name, or the decimal id for user markers.
func (bc BCType) String() string {
	if name, ok := bcNames[bc]; ok {
		return name
	}
	return strconv.Itoa(int(bc))
}

// BCNameMap maps the boundary names used by mesh generators to markers.
// Keys are lowercase.
var BCNameMap = map[string]BCType{
	"inlet":   BCInflow,
	"inflow":  BCInflow,
	"outlet":  BCOutflow,
	"outflow": BCOutflow,
	"exit":    BCOutflow,

	"wall":          BCWall,
	"no_slip":       BCWall,
	"noslip":        BCWall,
	"slip":          BCSlipWall,
	"slip_wall":     BCSlipWall,
	"inviscid_wall": BCSlipWall,

	"symmetry":   BCSymmetry,
	"farfield":   BCFarfield,
	"far_field":  BCFarfield,
	"freestream": BCFarfield,
	"periodic":   BCPeriodic,

	"isothermal": BCIsothermal,
	"adiabatic":  BCAdiabatic,
	"dirichlet":  BCDirichlet,
	"neumann":    BCNeumann,
	"interface":  BCInterface,
}

// ParseBCName converts a boundary name to a marker. Numeric names are taken
// as the marker id itself. Unrecognized names report ok == false.
func ParseBCName(name string) (bc BCType, ok bool) {
	lowerName := strings.ToLower(strings.TrimSpace(name))
	if bc, ok = BCNameMap[lowerName]; ok {
		return
	}
	for k, v := range bcNames {
		if strings.ToLower(v) == lowerName {
			return k, true
		}
	}
	if id, err := strconv.ParseUint(lowerName, 10, 16); err == nil {
		return BCType(id), true
	}
	return BCNone, false
}
