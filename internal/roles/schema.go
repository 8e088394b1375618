// Handles reflection-based role derivation for struct types.

package roles

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/invopop/jsonschema"
)

var errNotStruct = errors.New("type must be a struct or pointer to struct")

// Options tunes FromType.
type Options struct {
	// Exposed restricts the roles to the listed properties. Empty exposes every
	// property.
	Exposed []string
	// Display names the property presented through the Display role.
	Display string
}

// Schema is the role namespace of a struct type plus field accessors.
type Schema struct {
	name    string
	roles   *Map
	columns []Column
	byRole  map[Role]int
	display Role
}

// FromType reflects t, a struct or pointer to struct, into a Schema.
//
// Properties are enumerated with JSON Schema reflection so names, order,
// descriptions and required flags follow the JSON encoding of the type.
func FromType(t reflect.Type, opts Options) (*Schema, error) {
	structType := t
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w, got %s", errNotStruct, t)
	}

	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	js := r.ReflectFromType(structType)

	required := make(map[string]bool, len(js.Required))
	for _, name := range js.Required {
		required[name] = true
	}
	exposed := make(map[string]bool, len(opts.Exposed))
	for _, name := range opts.Exposed {
		exposed[name] = true
	}

	fields := make(map[string]reflect.StructField)
	for _, f := range reflect.VisibleFields(structType) {
		if !f.IsExported() || f.Anonymous || f.Tag.Get("json") == "-" {
			continue
		}
		name := jsonFieldName(&f)
		if _, ok := fields[name]; !ok {
			fields[name] = f
		}
	}

	var names []string
	props := make(map[string]*jsonschema.Schema)
	if js.Properties != nil {
		for pair := js.Properties.Oldest(); pair != nil; pair = pair.Next() {
			if _, ok := fields[pair.Key]; !ok {
				continue
			}
			if len(exposed) != 0 && !exposed[pair.Key] {
				continue
			}
			names = append(names, pair.Key)
			props[pair.Key] = pair.Value
		}
	}

	s := &Schema{
		name:    structType.String(),
		roles:   build(structType.String(), names, opts.Display),
		byRole:  make(map[Role]int),
		display: Invalid,
	}
	for _, r := range s.roles.Properties() {
		name := s.roles.Name(r)
		f := fields[name]
		s.byRole[r] = len(s.columns)
		s.columns = append(s.columns, Column{
			Name:        name,
			Role:        r,
			Type:        goTypeToColumnType(f.Type),
			Required:    required[name],
			Description: props[name].Description,
			goType:      f.Type,
			index:       f.Index,
		})
	}
	if opts.Display != "" {
		if r, ok := s.roles.Role(opts.Display); ok {
			s.display = r
		} else {
			slog.Warn("Display property is not a role", "owner", s.name, "property", opts.Display)
		}
	}
	return s, nil
}

// SchemaFor is FromType for the type parameter T.
func SchemaFor[T any](opts Options) (*Schema, error) {
	return FromType(reflect.TypeFor[T](), opts)
}

// Name returns the name of the reflected struct type.
func (s *Schema) Name() string {
	return s.name
}

// Roles returns the role namespace.
func (s *Schema) Roles() *Map {
	return s.roles
}

// Columns returns the property columns in role order.
func (s *Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Column returns the column backing role r.
func (s *Schema) Column(r Role) (Column, bool) {
	r = s.resolve(r)
	i, ok := s.byRole[r]
	if !ok {
		return Column{}, false
	}
	return s.columns[i], true
}

// DisplayRole returns the property role presented through Display, or Invalid.
func (s *Schema) DisplayRole() Role {
	return s.display
}

// resolve maps Display to the configured display property role.
func (s *Schema) resolve(r Role) Role {
	if r == Display {
		return s.display
	}
	return r
}

// Get reads role r from item, a pointer to the struct (or the struct itself).
//
// Object returns item unchanged. It returns false for unknown roles, nil
// pointers and fields behind nil embedded pointers.
func (s *Schema) Get(item any, r Role) (any, bool) {
	if r == Object {
		return item, item != nil
	}
	i, ok := s.byRole[s.resolve(r)]
	if !ok {
		return nil, false
	}
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, false
	}
	f, err := v.FieldByIndexErr(s.columns[i].index)
	if err != nil {
		return nil, false
	}
	return f.Interface(), true
}

// Set writes value into role r of item, which must be a non-nil pointer to the
// struct.
//
// value is coerced to the field type. The Object role cannot be written.
func (s *Schema) Set(item any, r Role, value any) bool {
	i, ok := s.byRole[s.resolve(r)]
	if !ok {
		return false
	}
	v := reflect.ValueOf(item)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return false
	}
	f, err := v.Elem().FieldByIndexErr(s.columns[i].index)
	if err != nil || !f.CanSet() {
		return false
	}
	nv, ok := coerce(value, f.Type())
	if !ok {
		return false
	}
	f.Set(nv)
	return true
}
