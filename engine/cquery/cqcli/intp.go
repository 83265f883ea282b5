package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/cquery/core"
	"github.com/npillmayer/cquery/engine/cquery"
	"github.com/npillmayer/cquery/engine/dom"
	"github.com/npillmayer/cquery/engine/query"
	"github.com/pterm/pterm"
)

// Op codes of interpreter commands.
const (
	NOOP int = iota
	QUIT
	HELP
	MATCH
	RESIZE
	MOVE
	SCROLL
	FLUSH
	HANDLES
	DISPOSE
	PARSE
	QUERIES
)

var commands = map[string]int{
	"quit":    QUIT,
	"help":    HELP,
	"match":   MATCH,
	"resize":  RESIZE,
	"move":    MOVE,
	"scroll":  SCROLL,
	"flush":   FLUSH,
	"handles": HANDLES,
	"dispose": DISPOSE,
	"parse":   PARSE,
	"queries": QUERIES,
}

// Command is a parsed command line.
type Command struct {
	code   int
	target string // selector, XPath or markup
	query  string // rest of line for match and parse
	nums   []float64
}

// Intp is our interpreter object.
type Intp struct {
	doc     *dom.Document
	host    *dom.Host
	engine  *cquery.Engine
	handles []*cquery.QueryHandle // numbered from 1, nil when disposed
	log     []string              // change notifications, newest last
}

// NewIntp sets up an interpreter for a scene and matches the scene's
// queries.
func NewIntp(scene *Scene) (*Intp, error) {
	doc, err := scene.Document()
	if err != nil {
		return nil, err
	}
	params, err := scene.Registers()
	if err != nil {
		return nil, err
	}
	host := dom.NewHost(doc)
	env, err := cquery.Init(host, "", params)
	if err != nil {
		return nil, err
	}
	intp := &Intp{doc: doc, host: host, engine: env.Engine()}
	for _, q := range scene.Queries {
		if _, err := intp.match(q.Target, q.Query, q.Immediate); err != nil {
			return nil, err
		}
	}
	return intp, nil
}

func (intp *Intp) parseCommand(line string) (*Command, error) {
	word, rest := cut(strings.TrimSpace(line))
	code, ok := commands[strings.ToLower(word)]
	if !ok {
		return nil, core.Error(core.EINVALID, "unknown command %q, try 'help'", word)
	}
	cmd := &Command{code: code}
	switch code {
	case MATCH:
		cmd.target, cmd.query = cutTarget(rest)
		if cmd.target == "" {
			return nil, core.Error(core.EINVALID, "usage: match <target> <query>")
		}
	case PARSE:
		cmd.query = rest
	case RESIZE, MOVE:
		cmd.target, rest = cutTarget(rest)
		nums, err := numbers(rest, 2)
		if err != nil || cmd.target == "" {
			return nil, core.Error(core.EINVALID, "usage: %s <target> <x> <y>", word)
		}
		cmd.nums = nums
	case SCROLL:
		nums, err := numbers(rest, 2)
		if err != nil {
			return nil, core.Error(core.EINVALID, "usage: scroll <dx> <dy>")
		}
		cmd.nums = nums
	case DISPOSE:
		nums, err := numbers(rest, 1)
		if err != nil {
			return nil, core.Error(core.EINVALID, "usage: dispose <handle#>")
		}
		cmd.nums = nums
	case HELP:
		cmd.query = rest
	}
	return cmd, nil
}

func (intp *Intp) execute(cmd *Command) (quit bool, err error) {
	switch cmd.code {
	case QUIT:
		return true, nil
	case HELP:
		help(cmd.query)
	case MATCH:
		var hs []*cquery.QueryHandle
		if hs, err = intp.match(cmd.target, cmd.query, true); err == nil {
			pterm.Printfln("%d handle(s) created", len(hs))
		}
	case RESIZE, MOVE:
		var els []*dom.Element
		if els, err = intp.targets(cmd.target); err != nil {
			return
		}
		for _, el := range els {
			if cmd.code == RESIZE {
				el.Resize(cmd.nums[0], cmd.nums[1])
			} else {
				el.Move(cmd.nums[0], cmd.nums[1])
			}
		}
		intp.flush()
	case SCROLL:
		intp.doc.Scroll(cmd.nums[0], cmd.nums[1])
		intp.flush()
	case FLUSH:
		intp.flush()
	case HANDLES:
		intp.showHandles()
	case DISPOSE:
		n := int(cmd.nums[0])
		if n < 1 || n > len(intp.handles) || intp.handles[n-1] == nil {
			return false, core.Error(core.EMISSING, "no handle #%d", n)
		}
		intp.handles[n-1].Dispose()
		intp.handles[n-1] = nil
	case PARSE:
		var q *query.Query
		if q, err = intp.engine.Cache().Parse(cmd.query); err == nil {
			pterm.Printfln("%s", q)
			pterm.Printfln("meta: %s", q.Meta())
			n := q.Meta().Needs()
			pterm.Printfln("needs: resize=%v offset-parent=%v intersection=%v",
				n.Resize, n.OffsetParent, n.Intersection)
		}
	case QUERIES:
		for _, s := range intp.engine.Cache().Complete("") {
			pterm.Println(s)
		}
	}
	return false, err
}

// targets looks up elements by XPath (starting with '/'), CSS selector or
// markup.
func (intp *Intp) targets(spec string) ([]*dom.Element, error) {
	var els []*dom.Element
	var err error
	if strings.HasPrefix(spec, "/") {
		els, err = intp.doc.XPath(spec)
	} else {
		els, err = intp.doc.Elements(spec)
	}
	if err == nil && len(els) == 0 {
		err = core.Error(core.EMISSING, "no element for %q", spec)
	}
	return els, err
}

func (intp *Intp) match(target, q string, immediate bool) ([]*cquery.QueryHandle, error) {
	els, err := intp.targets(target)
	if err != nil {
		return nil, err
	}
	var hs []*cquery.QueryHandle
	for _, el := range els {
		h, err := intp.engine.MatchRect(el, q, immediate)
		if err != nil {
			return hs, err
		}
		n := len(intp.handles) + 1
		h.OnChange(func(c cquery.Change) {
			intp.log = append(intp.log, fmt.Sprintf("#%d %s %q -> %s (%s)",
				n, h.Target(), h.Query().Source(), c.Result, c.Cause))
		})
		intp.handles = append(intp.handles, h)
		hs = append(hs, h)
	}
	return hs, nil
}

// flush lets the host deliver observations and prints the resulting
// change notifications.
func (intp *Intp) flush() int {
	start := len(intp.log)
	n := intp.host.Flush()
	tracer().Debugf("host delivered %d entries", n)
	for _, l := range intp.log[start:] {
		pterm.Info.Println(l)
	}
	return len(intp.log) - start
}

func (intp *Intp) showHandles() {
	data := pterm.TableData{{"#", "target", "query", "state", "result", "rect"}}
	for i, h := range intp.handles {
		if h == nil {
			continue
		}
		rect := ""
		if r := h.Rect(); r != nil {
			rect = r.Bounds.String()
		}
		data = append(data, []string{
			strconv.Itoa(i + 1), h.Target().String(), h.Query().Source(),
			h.State().String(), h.Result().String(), rect,
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		tracer().Errorf(err.Error())
	}
}

// cut splits off the first word of s.
func cut(s string) (string, string) {
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}

// cutTarget splits off a target, which may be quoted to contain blanks.
func cutTarget(s string) (string, string) {
	if strings.HasPrefix(s, `"`) {
		if i := strings.Index(s[1:], `"`); i >= 0 {
			return s[1 : i+1], strings.TrimSpace(s[i+2:])
		}
	}
	return cut(s)
}

func numbers(s string, n int) ([]float64, error) {
	fields := strings.Fields(s)
	if len(fields) != n {
		return nil, core.Error(core.EINVALID, "expected %d numbers", n)
	}
	nums := make([]float64, n)
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSuffix(f, "px"), 64)
		if err != nil {
			return nil, err
		}
		nums[i] = x
	}
	return nums, nil
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	switch strings.ToLower(topic) {
	case "query", "queries":
		pterm.Info.Println("Query language")
		pterm.Println(`
	width >= 400px                      comparison (=, :, <, <=, >, >=)
	min-width: 400px                    same as width >= 400px
	100px <= width <= 500px             range
	not(height > 10%)                   negation, (...) groups
	a > 1px and b < 2px or c            left to right, no precedence
	{small: width <= 300px; large: width > 300px}
	                                    composite query
	... using intersection-root: document, intersection-threshold: 0 50% 100%
	                                    arguments

	Properties: width, height, inner-*, outer-*, top, left, right, bottom,
	intersection-width/height/top/left/right/bottom/ratio`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	match <target> <query>      match a query; target is a selector, an XPath or markup
	resize <target> <w> <h>     resize elements, then flush
	move <target> <dx> <dy>     move elements, then flush
	scroll <dx> <dy>            scroll the document, then flush
	flush                       deliver pending observations
	handles                     list query handles
	dispose <n>                 dispose handle #n
	parse <query>               show a parsed query
	queries                     list cached queries
	help [query]                this text, or the query language
	quit                        leave`)
	}
}
