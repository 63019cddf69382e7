package schema

import (
	"path/filepath"
	"strings"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/protouml/protouml/pkg/errors"
)

// wellKnownPrefix marks types from the protobuf standard library.
// Fields of these types are displayed but never linked (see pkg/uml).
const wellKnownPrefix = "google.protobuf."

// Load parses the .proto file at path and returns its schema tree.
// Imports are resolved relative to the file's directory; the standard
// google/protobuf imports are resolved from compiled-in descriptors.
func Load(path string) (*File, error) {
	parser := protoparse.Parser{
		ImportPaths: []string{filepath.Dir(path)},
	}
	fds, err := parser.ParseFiles(filepath.Base(path))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parse %s", path)
	}
	return fromDescriptor(fds[0]), nil
}

// LoadSource parses in-memory .proto source. The name is used for error
// messages and import resolution, and becomes [File.Name].
func LoadSource(name, source string) (*File, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{name: source}),
	}
	fds, err := parser.ParseFiles(name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parse %s", name)
	}
	return fromDescriptor(fds[0]), nil
}

// fromDescriptor translates a linked file descriptor into the schema tree.
func fromDescriptor(fd *desc.FileDescriptor) *File {
	var decls []Node
	for _, md := range fd.GetMessageTypes() {
		decls = append(decls, fromMessage(md))
	}
	for _, ed := range fd.GetEnumTypes() {
		decls = append(decls, fromEnum(ed))
	}
	for _, sd := range fd.GetServices() {
		decls = append(decls, fromService(sd))
	}

	pkg := fd.GetPackage()
	root := &Namespace{Children: decls}
	if pkg != "" {
		// Mirror the package segments as a namespace chain, deepest
		// level holding the declarations.
		segments := strings.Split(pkg, ".")
		root.Name = segments[len(segments)-1]
		for i := len(segments) - 2; i >= 0; i-- {
			root = &Namespace{Name: segments[i], Children: []Node{root}}
		}
	}

	return &File{
		Name:    fd.GetName(),
		Package: pkg,
		Root:    root,
	}
}

func fromMessage(md *desc.MessageDescriptor) *Message {
	msg := &Message{Name: md.GetName()}

	for _, fd := range md.GetFields() {
		msg.Fields = append(msg.Fields, fromField(fd))
	}
	// Reserved names survive as typeless placeholder fields so tooling
	// can list them; emitters skip them.
	for _, name := range md.AsDescriptorProto().GetReservedName() {
		msg.Fields = append(msg.Fields, Field{Name: name, Reserved: true})
	}
	for _, nested := range md.GetNestedMessageTypes() {
		if nested.IsMapEntry() {
			continue // synthetic map<k,v> entry, not a declaration
		}
		msg.Nested = append(msg.Nested, fromMessage(nested))
	}
	for _, ed := range md.GetNestedEnumTypes() {
		msg.Nested = append(msg.Nested, fromEnum(ed))
	}

	return msg
}

func fromField(fd *desc.FieldDescriptor) Field {
	f := Field{
		Name:     fd.GetName(),
		Repeated: fd.IsRepeated() && !fd.IsMap(),
	}

	if fd.IsMap() {
		f.Map = true
		f.MapKey = typeName(fd.GetMapKeyType())
		f.MapValue = typeName(fd.GetMapValueType())
		f.Type = f.MapValue
	} else {
		f.Type = typeName(fd)
	}

	// Proto3 optional is represented as a synthetic single-member oneof;
	// only real oneofs are mutual-exclusion groups. Proto2 spells the
	// same presence semantics as an explicit field label instead.
	if oo := fd.GetOneOf(); oo != nil {
		if oo.IsSynthetic() {
			f.Optional = true
		} else {
			f.OneOf = oo.GetName()
		}
	} else if !fd.GetFile().IsProto3() && !f.Repeated && !f.Map &&
		fd.AsFieldDescriptorProto().GetLabel() == descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL {
		f.Optional = true
	}

	return f
}

func fromEnum(ed *desc.EnumDescriptor) *Enum {
	e := &Enum{Name: ed.GetName()}
	for _, v := range ed.GetValues() {
		e.Values = append(e.Values, EnumValue{Name: v.GetName(), Number: v.GetNumber()})
	}
	return e
}

func fromService(sd *desc.ServiceDescriptor) *Service {
	s := &Service{Name: sd.GetName()}
	for _, m := range sd.GetMethods() {
		s.RPCs = append(s.RPCs, RPC{
			Name:     m.GetName(),
			Request:  entityName(m.GetInputType().GetName(), m.GetInputType().GetFullyQualifiedName()),
			Response: entityName(m.GetOutputType().GetName(), m.GetOutputType().GetFullyQualifiedName()),
		})
	}
	return s
}

// typeName resolves a field descriptor to the declared type name used in
// the tree: bare names for local entities, fully qualified names for
// well-known types, and protobuf keywords for scalars.
func typeName(fd *desc.FieldDescriptor) string {
	if md := fd.GetMessageType(); md != nil {
		return entityName(md.GetName(), md.GetFullyQualifiedName())
	}
	if ed := fd.GetEnumType(); ed != nil {
		return entityName(ed.GetName(), ed.GetFullyQualifiedName())
	}
	return scalarName(fd.GetType())
}

func entityName(name, qualified string) string {
	if strings.HasPrefix(qualified, wellKnownPrefix) {
		return qualified
	}
	return name
}

// scalarName maps descriptor scalar kinds back to protobuf keywords.
func scalarName(t descriptorpb.FieldDescriptorProto_Type) string {
	switch t {
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return "double"
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		return "float"
	case descriptorpb.FieldDescriptorProto_TYPE_INT64:
		return "int64"
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64:
		return "uint64"
	case descriptorpb.FieldDescriptorProto_TYPE_INT32:
		return "int32"
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		return "fixed64"
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		return "fixed32"
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return "bool"
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return "string"
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return "bytes"
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32:
		return "uint32"
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		return "sfixed32"
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		return "sfixed64"
	case descriptorpb.FieldDescriptorProto_TYPE_SINT32:
		return "sint32"
	case descriptorpb.FieldDescriptorProto_TYPE_SINT64:
		return "sint64"
	default:
		return strings.ToLower(strings.TrimPrefix(t.String(), "TYPE_"))
	}
}
