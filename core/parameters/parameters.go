/*
Package parameters holds the tunable parameters of a query engine.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parameters

// EngineParameter is a key for an engine parameter.
type EngineParameter int

const (
	none EngineParameter = iota
	P_THRESHOLD_STEPS      // number of intersection ratio steps between 0 and 1
	P_THRESHOLD_FILTER     // filter intersection dispatch by query thresholds
	P_INTERSECTION_ROOT    // default intersection root policy
	P_STOPPER
)

// Values for P_INTERSECTION_ROOT.
const (
	RootScrollParent = "scroll-parent"
	RootOffsetParent = "offset-parent"
	RootDocument     = "document"
)

// Registers is a set of engine parameters. Registers may be derived from
// a parent set; unset parameters are then looked up in the parent.
type Registers struct {
	params [P_STOPPER]interface{}
	parent *Registers
}

// ----------------------------------------------------------------------

// NewRegisters creates a parameter set, initialized to default values.
func NewRegisters() *Registers {
	regs := &Registers{}
	initParameters(&regs.params)
	return regs
}

func initParameters(p *[P_STOPPER]interface{}) {
	p[P_THRESHOLD_STEPS] = 100               // an int: 100 steps => 101 ratios
	p[P_THRESHOLD_FILTER] = true             // a bool
	p[P_INTERSECTION_ROOT] = RootScrollParent // a string
}

// Derive creates an empty parameter set, falling back to regs for any
// parameter not pushed explicitly.
func (regs *Registers) Derive() *Registers {
	return &Registers{parent: regs}
}

// Push sets a parameter value.
func (regs *Registers) Push(key EngineParameter, value interface{}) *Registers {
	checkKey(key)
	regs.params[key] = value
	return regs
}

// Get returns the value of a parameter, consulting parent registers if necessary.
func (regs *Registers) Get(key EngineParameter) interface{} {
	checkKey(key)
	for r := regs; r != nil; r = r.parent {
		if value := r.params[key]; value != nil {
			return value
		}
	}
	var defaults [P_STOPPER]interface{}
	initParameters(&defaults)
	return defaults[key]
}

func checkKey(key EngineParameter) {
	if key <= none || key >= P_STOPPER {
		panic("parameter key outside range of engine parameters")
	}
}

// S returns a string parameter.
func (regs *Registers) S(key EngineParameter) string {
	return regs.Get(key).(string)
}

// N returns an int parameter.
func (regs *Registers) N(key EngineParameter) int {
	return regs.Get(key).(int)
}

// B returns a bool parameter.
func (regs *Registers) B(key EngineParameter) bool {
	return regs.Get(key).(bool)
}
