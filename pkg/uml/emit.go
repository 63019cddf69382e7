package uml

import (
	"fmt"
	"strings"

	"github.com/protouml/protouml/pkg/errors"
	"github.com/protouml/protouml/pkg/schema"
)

// Diagram markers and fixed header lines. The pragma keeps PlantUML from
// inventing intermediate package levels; the style directive hides the
// empty-compartment clutter on classes without methods.
const (
	startMarker    = "@startuml"
	endMarker      = "@enduml"
	layoutPragma   = "!pragma useIntermediatePackages false"
	styleDirective = "hide empty members"
)

// Options configures one diagram generation.
type Options struct {
	// Layout overrides the package-wrap heuristic thresholds.
	// Nil means DefaultLayoutConfig.
	Layout *LayoutConfig
}

// Diagram is the synthesized diagram text plus summary counts.
type Diagram struct {
	Text     string
	Entities int
	Edges    int
}

// Generate synthesizes the PlantUML text for one schema file. Each call is
// self-contained: the type index, resolver, and edge set live and die with
// the call, so concurrent generations never interact.
func Generate(file *schema.File, opts Options) (*Diagram, error) {
	if file == nil || file.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidSchema, "schema file is nil")
	}

	idx, err := BuildIndex(file.Root)
	if err != nil {
		return nil, err
	}

	cfg := DefaultLayoutConfig()
	if opts.Layout != nil {
		cfg = *opts.Layout
	}
	layout := AnalyzePackage(file.Root, file.Package, cfg)

	e := &emitter{
		idx:   idx,
		res:   NewResolver(idx),
		edges: NewEdgeSet(),
	}

	e.push(startMarker)
	e.push(layoutPragma)
	e.push(styleDirective)
	if layout.Wrap {
		e.push(fmt.Sprintf("package %q {", layout.Title))
	}
	if err := e.namespace(file.Root); err != nil {
		return nil, err
	}
	for _, edge := range e.edges.Lines() {
		e.push(edge)
	}
	if layout.Wrap {
		e.push("}")
	}
	e.push(endMarker)

	return &Diagram{
		Text:     strings.Join(e.lines, "\n") + "\n",
		Entities: e.entities,
		Edges:    e.edges.Len(),
	}, nil
}

// emitter accumulates diagram lines for a single generation call.
type emitter struct {
	idx      *TypeIndex
	res      *Resolver
	edges    *EdgeSet
	lines    []string
	entities int
}

func (e *emitter) push(line string) {
	e.lines = append(e.lines, line)
}

// namespace emits every entity reachable from ns in declaration order.
// Namespace levels themselves are flattened; grouping is purely the
// package-wrap decision made up front.
func (e *emitter) namespace(ns *schema.Namespace) error {
	for _, n := range ns.Children {
		switch d := n.(type) {
		case *schema.Namespace:
			if err := e.namespace(d); err != nil {
				return err
			}
		case *schema.Message:
			if err := e.message(d); err != nil {
				return err
			}
		case *schema.Enum:
			e.enum(d)
		case *schema.Service:
			e.service(d)
		}
	}
	return nil
}

// message emits one class block, its mutual-exclusion notes, and - when the
// message declares nested enums - a "<Name> Types" grouping holding the
// class and those enums under their bare names. Nested messages are
// flattened into their own top-level blocks afterwards.
func (e *emitter) message(m *schema.Message) error {
	var nestedEnums []*schema.Enum
	var nestedMessages []*schema.Message
	for _, n := range m.Nested {
		switch d := n.(type) {
		case *schema.Enum:
			nestedEnums = append(nestedEnums, d)
		case *schema.Message:
			nestedMessages = append(nestedMessages, d)
		}
	}

	if len(nestedEnums) > 0 {
		e.push(fmt.Sprintf("package %q {", m.Name+" Types"))
	}

	e.push("class " + m.Name + " {")

	// Mutual-exclusion groups, in first-member declaration order.
	var groupOrder []string
	groups := make(map[string][]string)

	for i := range m.Fields {
		f := &m.Fields[i]
		if f.Reserved {
			continue
		}

		raw, err := FieldType(f, m.Name)
		if err != nil {
			return err
		}
		resolved := e.res.ResolveTypeName(raw, m.Name)

		e.push("  " + camelCase(f.Name) + " : " + displayType(f, resolved))

		if f.OneOf != "" {
			if _, seen := groups[f.OneOf]; !seen {
				groupOrder = append(groupOrder, f.OneOf)
			}
			groups[f.OneOf] = append(groups[f.OneOf], camelCase(f.Name))
		}

		// Well-known and unresolved types are displayed but never linked.
		if e.idx.Known(resolved) && !IsWellKnown(raw) {
			e.edges.Add(m.Name, e.res.RelationKindOf(resolved), CardinalityOf(f), resolved)
		}
	}

	e.push("}")
	e.entities++

	// A one-member group is trivially always set; no annotation.
	for _, name := range groupOrder {
		members := groups[name]
		if len(members) < 2 {
			continue
		}
		e.push("note bottom of " + m.Name)
		e.push("  exactly one of " + strings.Join(members, " or ") + " is set")
		e.push("end note")
	}

	for _, en := range nestedEnums {
		e.enum(en)
	}
	if len(nestedEnums) > 0 {
		e.push("}")
	}

	for _, nm := range nestedMessages {
		if err := e.message(nm); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) enum(en *schema.Enum) {
	e.push("enum " + en.Name + " {")
	for _, v := range en.Values {
		e.push("  " + v.Name)
	}
	e.push("}")
	e.entities++
}

// service emits one interface block and, per RPC, reference edges to the
// request and response types (deduplicated like field edges).
func (e *emitter) service(s *schema.Service) {
	e.push("interface " + s.Name + " {")
	for _, rpc := range s.RPCs {
		e.push(fmt.Sprintf("  %s(%s) : %s", rpc.Name, rpc.Request, rpc.Response))
		e.edges.Add(s.Name, KindReference, CardinalityRequired, rpc.Request)
		e.edges.Add(s.Name, KindReference, CardinalityRequired, rpc.Response)
	}
	e.push("}")
	e.entities++
}

// displayType renders the field's type column: map fields as map<k,v>,
// repeated fields with a [] suffix, optional and mutual-exclusion members
// with a ? suffix. The markers combine.
func displayType(f *schema.Field, resolved string) string {
	if f.Map {
		return fmt.Sprintf("map<%s,%s>", f.MapKey, resolved)
	}
	t := resolved
	if f.Repeated {
		t += "[]"
	}
	if f.Optional || f.OneOf != "" {
		t += "?"
	}
	return t
}

// camelCase converts snake_case to camelCase: underscores are removed and
// the letter following each underscore is uppercased. Already-camelCase and
// single-word names pass through unchanged.
func camelCase(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	upper := false
	for _, r := range s {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			b.WriteString(strings.ToUpper(string(r)))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
