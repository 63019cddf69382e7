// Package schema defines the navigable schema tree consumed by the diagram
// generator, plus a loader that builds it from parsed Protocol Buffer files.
//
// The tree is a closed set of node shapes: a [Namespace] contains declarations,
// a [Message] carries ordered fields and optionally nested declarations, an
// [Enum] carries named integer values, and a [Service] carries RPC signatures.
// Consumers dispatch on the concrete type via type switches; no other node
// kinds exist.
//
// Parsing raw .proto source is delegated to github.com/jhump/protoreflect;
// this package only translates its descriptors into the tree above.
package schema

// Node is one declaration in the schema tree.
// The concrete types are [*Namespace], [*Message], [*Enum], and [*Service].
type Node interface {
	node()
}

// File is one loaded schema file: its dotted package path and the root
// namespace holding all top-level declarations.
type File struct {
	// Name is the file name as given to the loader (e.g., "user.proto").
	Name string

	// Package is the dotted package path (e.g., "com.example.api").
	// Empty if the file declares no package.
	Package string

	// Root contains the file's declarations. When Package is set, Root is
	// the head of a namespace chain mirroring the package segments, with
	// the declarations in the deepest namespace.
	Root *Namespace
}

// Namespace is a named level of the package hierarchy.
// Children preserves declaration order.
type Namespace struct {
	Name     string
	Children []Node
}

// Message is a composite type with ordered fields.
// Nested holds message-local declarations (nested messages and enums),
// in declaration order.
type Message struct {
	Name   string
	Fields []Field
	Nested []Node
}

// Field is one member of a message.
type Field struct {
	// Name is the declared field name (typically snake_case).
	Name string

	// Type is the declared type name: a primitive ("string", "int32"),
	// a bare entity name ("Address", "Status"), or a fully qualified
	// well-known type ("google.protobuf.Timestamp"). For map fields,
	// Type holds the value type and MapKey/MapValue are set.
	Type string

	Repeated bool
	Optional bool

	// Reserved marks a placeholder for a reserved field name. Reserved
	// fields carry no type and are skipped by emitters.
	Reserved bool

	// Map is true for map<key, value> fields.
	Map      bool
	MapKey   string
	MapValue string

	// OneOf names the mutual-exclusion group this field belongs to,
	// or is empty. Proto3 synthetic optional oneofs are folded into
	// Optional and never appear here.
	OneOf string
}

// Enum is a named set of integer constants.
type Enum struct {
	Name   string
	Values []EnumValue
}

// EnumValue is one named constant of an enum.
type EnumValue struct {
	Name   string
	Number int32
}

// Service is a named set of RPC signatures.
type Service struct {
	Name string
	RPCs []RPC
}

// RPC is one method of a service, with bare request/response type names.
type RPC struct {
	Name     string
	Request  string
	Response string
}

func (*Namespace) node() {}
func (*Message) node()   {}
func (*Enum) node()      {}
func (*Service) node()   {}
