package uml

import (
	"testing"

	"github.com/protouml/protouml/pkg/errors"
	"github.com/protouml/protouml/pkg/schema"
)

func TestBuildIndexClassifiesEntities(t *testing.T) {
	root := &schema.Namespace{Children: []schema.Node{
		&schema.Message{Name: "User"},
		&schema.Enum{Name: "Role"},
		&schema.Service{Name: "UserService"},
	}}

	idx, err := BuildIndex(root)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	for _, name := range []string{"User", "Role", "UserService"} {
		if !idx.Known(name) {
			t.Errorf("Known(%q) = false, want true", name)
		}
	}
	if !idx.IsEnum("Role") {
		t.Error("IsEnum(Role) = false, want true")
	}
	if idx.IsEnum("User") {
		t.Error("IsEnum(User) = true, want false")
	}
	if idx.Known("Unknown") {
		t.Error("Known(Unknown) = true, want false")
	}
}

func TestBuildIndexRegistersNestedEnumAliases(t *testing.T) {
	root := &schema.Namespace{Children: []schema.Node{
		&schema.Message{
			Name: "User",
			Nested: []schema.Node{
				&schema.Enum{Name: "Status"},
			},
		},
	}}

	idx, err := BuildIndex(root)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	// Both the bare name and the legacy composite resolve to the enum.
	for _, alias := range []string{"Status", "User_Status"} {
		if !idx.Known(alias) {
			t.Errorf("Known(%q) = false, want true", alias)
		}
		if !idx.IsEnum(alias) {
			t.Errorf("IsEnum(%q) = false, want true", alias)
		}
	}
}

func TestBuildIndexRecursesDeepNesting(t *testing.T) {
	// Enum nested two messages deep, inside a nested namespace.
	root := &schema.Namespace{Children: []schema.Node{
		&schema.Namespace{Name: "inner", Children: []schema.Node{
			&schema.Message{
				Name: "Outer",
				Nested: []schema.Node{
					&schema.Message{
						Name: "Middle",
						Nested: []schema.Node{
							&schema.Enum{Name: "Deep"},
						},
					},
				},
			},
		}},
	}}

	idx, err := BuildIndex(root)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	for _, name := range []string{"Outer", "Middle", "Deep", "Middle_Deep"} {
		if !idx.Known(name) {
			t.Errorf("Known(%q) = false, want true", name)
		}
	}
	// The composite uses the immediate parent, not the whole chain.
	if idx.Known("Outer_Deep") {
		t.Error("Known(Outer_Deep) = true, want false")
	}
}

func TestBuildIndexRejectsMalformedTree(t *testing.T) {
	tests := []struct {
		name string
		root *schema.Namespace
	}{
		{
			name: "nil root",
			root: nil,
		},
		{
			name: "unnamed message",
			root: &schema.Namespace{Children: []schema.Node{&schema.Message{}}},
		},
		{
			name: "unnamed enum",
			root: &schema.Namespace{Children: []schema.Node{&schema.Enum{}}},
		},
		{
			name: "unnamed service",
			root: &schema.Namespace{Children: []schema.Node{&schema.Service{}}},
		},
		{
			name: "unnamed nested enum",
			root: &schema.Namespace{Children: []schema.Node{
				&schema.Message{Name: "User", Nested: []schema.Node{&schema.Enum{}}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildIndex(tt.root)
			if err == nil {
				t.Fatal("BuildIndex() error = nil, want error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidSchema) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidSchema)
			}
		})
	}
}
