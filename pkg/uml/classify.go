package uml

import (
	"github.com/protouml/protouml/pkg/errors"
	"github.com/protouml/protouml/pkg/schema"
)

// TypeIndex records every entity declared in one schema: the full set of
// known names and the subset that are enumerations.
//
// Enums nested inside a message are registered twice, under their bare name
// and under the composite "Parent_EnumName" form. Both naming conventions
// appear in the wild for nested-enum field references, so resolution must
// accept either alias; they point at the same entity.
type TypeIndex struct {
	known map[string]struct{}
	enums map[string]struct{}
}

// BuildIndex walks the namespace tree and classifies every declaration.
// It visits every nested namespace reachable from root and recurses into
// nested messages to find enums at arbitrary depth. An entity without a
// name makes the whole schema unusable and returns an error.
func BuildIndex(root *schema.Namespace) (*TypeIndex, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidSchema, "schema tree is nil")
	}
	idx := &TypeIndex{
		known: make(map[string]struct{}),
		enums: make(map[string]struct{}),
	}
	if err := idx.walk(root.Children); err != nil {
		return nil, err
	}
	return idx, nil
}

// Known reports whether name is a declared entity (under any accepted alias).
func (idx *TypeIndex) Known(name string) bool {
	_, ok := idx.known[name]
	return ok
}

// IsEnum reports whether name refers to an enumeration.
func (idx *TypeIndex) IsEnum(name string) bool {
	_, ok := idx.enums[name]
	return ok
}

func (idx *TypeIndex) walk(nodes []schema.Node) error {
	for _, n := range nodes {
		switch d := n.(type) {
		case *schema.Namespace:
			if err := idx.walk(d.Children); err != nil {
				return err
			}
		case *schema.Message:
			if err := idx.message(d); err != nil {
				return err
			}
		case *schema.Enum:
			if d.Name == "" {
				return errors.New(errors.ErrCodeInvalidSchema, "enum without a name")
			}
			idx.addEnum(d.Name)
		case *schema.Service:
			if d.Name == "" {
				return errors.New(errors.ErrCodeInvalidSchema, "service without a name")
			}
			idx.known[d.Name] = struct{}{}
		}
	}
	return nil
}

func (idx *TypeIndex) message(m *schema.Message) error {
	if m.Name == "" {
		return errors.New(errors.ErrCodeInvalidSchema, "message without a name")
	}
	idx.known[m.Name] = struct{}{}

	for _, n := range m.Nested {
		switch d := n.(type) {
		case *schema.Message:
			if err := idx.message(d); err != nil {
				return err
			}
		case *schema.Enum:
			if d.Name == "" {
				return errors.New(errors.ErrCodeInvalidSchema, "enum without a name in message %s", m.Name)
			}
			idx.addEnum(d.Name)
			idx.addEnum(m.Name + "_" + d.Name)
		}
	}
	return nil
}

func (idx *TypeIndex) addEnum(name string) {
	idx.known[name] = struct{}{}
	idx.enums[name] = struct{}{}
}
