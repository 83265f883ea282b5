package query

import (
	"sort"
	"strconv"
	"strings"

	"github.com/npillmayer/cquery/core"
	"github.com/npillmayer/cquery/core/dimen"
	"github.com/npillmayer/cquery/core/parameters"
)

// Arguments understood by the engine. Other arguments are accepted and
// stored.
const (
	ArgIntersectionRoot      = "intersection-root"
	ArgIntersectionThreshold = "intersection-threshold"
)

// Meta is the metadata of a query: the properties it references, with the
// raw operands they are compared to, and the arguments of its `using`
// clause. Names are kept in order of appearance.
type Meta struct {
	varNames   []string
	vars       map[string][]string
	argNames   []string
	args       map[string]string
	thresholds []float64
}

func newMeta() *Meta {
	return &Meta{
		vars: make(map[string][]string),
		args: make(map[string]string),
	}
}

func (m *Meta) addVar(name string, operand string) {
	ops, ok := m.vars[name]
	if !ok {
		m.varNames = append(m.varNames, name)
	}
	if operand != "" {
		ops = append(ops, operand)
	}
	m.vars[name] = ops
}

func (m *Meta) addArg(key, value string) error {
	if _, dup := m.args[key]; dup {
		return core.Error(core.EDUPLICATE, "duplicate argument %q", key)
	}
	switch key {
	case ArgIntersectionRoot:
		switch value {
		case parameters.RootDocument, parameters.RootOffsetParent, parameters.RootScrollParent:
		default:
			return core.Error(core.EINVALID, "invalid intersection root %q", value)
		}
	case ArgIntersectionThreshold:
		t, err := parseThresholds(value)
		if err != nil {
			return err
		}
		m.thresholds = t
	}
	m.argNames = append(m.argNames, key)
	m.args[key] = value
	return nil
}

// merge adds the variables and arguments of a sub-query.
func (m *Meta) merge(other *Meta) error {
	for _, name := range other.varNames {
		ops := other.vars[name]
		if len(ops) == 0 {
			m.addVar(name, "")
		}
		for _, op := range ops {
			m.addVar(name, op)
		}
	}
	for _, key := range other.argNames {
		if err := m.addArg(key, other.args[key]); err != nil {
			return err
		}
	}
	return nil
}

// VarNames returns the property names referenced by a query.
func (m *Meta) VarNames() []string {
	return append([]string(nil), m.varNames...)
}

// Operands returns the raw literals a property is compared to.
func (m *Meta) Operands(name string) []string {
	return m.vars[name]
}

// ArgNames returns the keys of a query's `using` clause.
func (m *Meta) ArgNames() []string {
	return append([]string(nil), m.argNames...)
}

// Arg returns the value of argument key.
func (m *Meta) Arg(key string) (string, bool) {
	v, ok := m.args[key]
	return v, ok
}

// Args returns a copy of all the arguments.
func (m *Meta) Args() map[string]string {
	args := make(map[string]string, len(m.args))
	for k, v := range m.args {
		args[k] = v
	}
	return args
}

func (m *Meta) propsOf(c Category) []string {
	var props []string
	for _, name := range m.varNames {
		if PropertyFor(name).Category == c {
			props = append(props, name)
		}
	}
	return props
}

// IntersectionProps returns the referenced intersection properties.
func (m *Meta) IntersectionProps() []string { return m.propsOf(Intersection) }

// OffsetProps returns the referenced offset properties.
func (m *Meta) OffsetProps() []string { return m.propsOf(Offset) }

// SizeProps returns the referenced size properties.
func (m *Meta) SizeProps() []string { return m.propsOf(Size) }

// PercentageSizeProps returns the size properties compared to a percentage.
func (m *Meta) PercentageSizeProps() []string {
	var props []string
	for _, name := range m.SizeProps() {
		for _, op := range m.vars[name] {
			if strings.HasSuffix(op, "%") {
				props = append(props, name)
				break
			}
		}
	}
	return props
}

// IntersectionThresholds returns the ratios of argument
// `intersection-threshold`, sorted ascending, or nil.
func (m *Meta) IntersectionThresholds() []float64 {
	return m.thresholds
}

// Root returns the requested intersection root (one of the parameters.Root…
// values), or "" for the default.
func (m *Meta) Root() string {
	return m.args[ArgIntersectionRoot]
}

// Needs tells which observations a query depends on.
type Needs struct {
	Resize       bool // target's own size
	OffsetParent bool // offset parent's size and position
	Intersection bool // intersection with a root
}

// Needs derives the observations required to evaluate a query.
// A query without any property still needs resize observation, to
// report the target's rect.
func (m *Meta) Needs() Needs {
	n := Needs{
		OffsetParent: len(m.OffsetProps()) > 0 || len(m.PercentageSizeProps()) > 0,
		Intersection: len(m.IntersectionProps()) > 0,
	}
	n.Resize = len(m.varNames) > len(m.IntersectionProps()) || len(m.varNames) == 0
	return n
}

func parseThresholds(value string) ([]float64, error) {
	var t []float64
	for _, f := range strings.Fields(value) {
		l, err := dimen.ParseLength(f)
		if err != nil {
			return nil, err
		}
		r := l.Value
		if l.Percent {
			r /= 100
		}
		if r < 0 || r > 1 {
			return nil, core.Error(core.EINVALID, "intersection threshold out of range: %s", f)
		}
		t = append(t, r)
	}
	if len(t) == 0 {
		return nil, core.Error(core.EINVALID, "empty intersection threshold list")
	}
	sort.Float64s(t)
	return t, nil
}

func (m *Meta) String() string {
	var b strings.Builder
	b.WriteString("vars=" + strings.Join(m.varNames, ","))
	if len(m.argNames) > 0 {
		b.WriteString(" args=")
		for i, k := range m.argNames {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(k + ":" + m.args[k])
		}
	}
	if m.thresholds != nil {
		b.WriteString(" thresholds=" + strconv.Itoa(len(m.thresholds)))
	}
	return b.String()
}
