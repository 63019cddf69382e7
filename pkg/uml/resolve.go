package uml

import (
	"fmt"
	"strings"

	"github.com/protouml/protouml/pkg/errors"
	"github.com/protouml/protouml/pkg/schema"
)

// wellKnownPrefix matches types from the protobuf standard library
// (google.protobuf.Timestamp and friends). Such fields are displayed
// but never produce relationship edges.
const wellKnownPrefix = "google.protobuf."

// Cardinality describes how many target instances a relationship carries.
// The values double as the PlantUML multiplicity labels.
type Cardinality string

const (
	CardinalityRequired Cardinality = "1"
	CardinalityOptional Cardinality = "0..1"
	CardinalityMultiple Cardinality = "0..*"
)

// RelationKind is the connector drawn between two entities. Messages are
// contained (composition), enums are referenced (aggregation).
type RelationKind string

const (
	KindContainment RelationKind = "*--"
	KindReference   RelationKind = "o--"
)

// Resolver maps declared field types onto classified entities and decides
// relationship semantics. It is cheap to construct and tied to one index.
type Resolver struct {
	index *TypeIndex
}

// NewResolver creates a resolver over the given type index.
func NewResolver(idx *TypeIndex) *Resolver {
	return &Resolver{index: idx}
}

// FieldType extracts the field's raw declared type name. A field without a
// type marks a malformed schema and is fatal for the generation call.
func FieldType(f *schema.Field, parent string) (string, error) {
	if f == nil || f.Type == "" {
		name := "(unnamed)"
		if f != nil && f.Name != "" {
			name = f.Name
		}
		return "", errors.New(errors.ErrCodeInvalidField, "field %s in %s has no type", name, parent)
	}
	return f.Type, nil
}

// ResolveTypeName maps a raw declared type to its canonical entity name.
// Bare names are tried first; the legacy "Parent_Name" composite covers
// fields that reference a nested enum through the parent message. Names
// resolving to neither are returned untouched and treated as external or
// primitive types downstream (no edge).
func (r *Resolver) ResolveTypeName(raw, parent string) string {
	if r.index.Known(raw) {
		return raw
	}
	if composite := parent + "_" + raw; r.index.Known(composite) {
		return composite
	}
	return raw
}

// IsWellKnown reports whether the type name carries the reserved
// protobuf standard-library prefix.
func IsWellKnown(raw string) bool {
	return strings.HasPrefix(raw, wellKnownPrefix)
}

// CardinalityOf decides a field's cardinality: maps and repeated fields are
// multiple, optional and mutual-exclusion members are optional, everything
// else is required. A nil field defaults to required.
func CardinalityOf(f *schema.Field) Cardinality {
	if f == nil {
		return CardinalityRequired
	}
	switch {
	case f.Map || f.Repeated:
		return CardinalityMultiple
	case f.Optional || f.OneOf != "":
		return CardinalityOptional
	default:
		return CardinalityRequired
	}
}

// RelationKindOf decides the connector for a resolved target: reference for
// enums, containment for messages and for anything unresolved (the safe
// fallback, so a single ambiguous field never aborts generation).
func (r *Resolver) RelationKindOf(target string) RelationKind {
	if r.index.IsEnum(target) {
		return KindReference
	}
	return KindContainment
}

// EdgeSet is the order-preserving deduplicated set of relationship lines
// for one generation call. Two edges are identical only when source, kind,
// cardinality, and target all match; the same entity pair may appear with
// different cardinalities.
type EdgeSet struct {
	seen  map[string]struct{}
	lines []string
}

// NewEdgeSet creates an empty edge set.
func NewEdgeSet() *EdgeSet {
	return &EdgeSet{seen: make(map[string]struct{})}
}

// Add composes and records one relationship edge, unless an identical
// edge already exists. Insertion order is preserved.
func (s *EdgeSet) Add(source string, kind RelationKind, card Cardinality, target string) {
	line := fmt.Sprintf("%s %s %q %s", source, kind, card, target)
	if _, dup := s.seen[line]; dup {
		return
	}
	s.seen[line] = struct{}{}
	s.lines = append(s.lines, line)
}

// Lines returns the edges in insertion order.
func (s *EdgeSet) Lines() []string {
	return s.lines
}

// Len returns the number of distinct edges.
func (s *EdgeSet) Len() int {
	return len(s.lines)
}
