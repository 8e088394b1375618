package roles

import (
	"reflect"
	"slices"
	"testing"
	"time"
)

type person struct {
	Name     string    `json:"name" jsonschema:"description=Display name"`
	Age      int       `json:"age,omitempty"`
	Score    float64   `json:"score"`
	Active   bool      `json:"active"`
	Born     time.Time `json:"born"`
	Tags     []string  `json:"tags"`
	Avatar   []byte    `json:"avatar"`
	ID       string    `json:"id"`
	Index    int       `json:"index"`
	Hidden   string    `json:"-"`
	internal string
}

type Base struct {
	Created int64 `json:"created"`
}

type embedded struct {
	Base
	Title string `json:"title"`
}

// TestFromType tests reflection of struct types into schemas.
func TestFromType(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		s, err := SchemaFor[*person](Options{})
		if err != nil {
			t.Fatalf("SchemaFor failed: %v", err)
		}
		want := []string{"name", "age", "score", "active", "born", "tags", "avatar"}
		var got []string
		for _, c := range s.Columns() {
			got = append(got, c.Name)
		}
		if !slices.Equal(got, want) {
			t.Errorf("Columns() = %v, want %v", got, want)
		}
		if name := s.Roles().Name(Object); name != ObjectName {
			t.Errorf("Name(Object) = %q, want %q", name, ObjectName)
		}
		if s.Roles().Has(Display) {
			t.Error("Display role registered without a display property")
		}
		r, ok := s.Roles().Role("name")
		if !ok || r != Object+1 {
			t.Errorf("Role(name) = %v, %v, want %v, true", r, ok, Object+1)
		}
		r, ok = s.Roles().Role("avatar")
		if !ok || r != Object+7 {
			t.Errorf("Role(avatar) = %v, %v, want %v, true", r, ok, Object+7)
		}
		for _, name := range []string{"id", "index", "Hidden", "internal"} {
			if _, ok := s.Roles().Role(name); ok {
				t.Errorf("Role(%q) registered, want excluded", name)
			}
		}
	})

	t.Run("column types", func(t *testing.T) {
		s, err := SchemaFor[person](Options{})
		if err != nil {
			t.Fatalf("SchemaFor failed: %v", err)
		}
		tests := []struct {
			name string
			want ColumnType
		}{
			{"name", ColumnTypeText},
			{"age", ColumnTypeNumber},
			{"score", ColumnTypeNumber},
			{"active", ColumnTypeBool},
			{"born", ColumnTypeDate},
			{"tags", ColumnTypeJSONB},
			{"avatar", ColumnTypeBlob},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				r, _ := s.Roles().Role(tt.name)
				c, ok := s.Column(r)
				if !ok {
					t.Fatalf("Column(%v) not found", r)
				}
				if c.Type != tt.want {
					t.Errorf("Type = %q, want %q", c.Type, tt.want)
				}
			})
		}
		r, _ := s.Roles().Role("name")
		if c, _ := s.Column(r); c.Description != "Display name" {
			t.Errorf("Description = %q, want %q", c.Description, "Display name")
		}
	})

	t.Run("exposed and display", func(t *testing.T) {
		s, err := SchemaFor[*person](Options{Exposed: []string{"age", "name"}, Display: "name"})
		if err != nil {
			t.Fatalf("SchemaFor failed: %v", err)
		}
		want := map[Role]string{Display: DisplayName, Object: ObjectName, Object + 1: "name", Object + 2: "age"}
		if got := s.Roles().Names(); !reflect.DeepEqual(got, want) {
			t.Errorf("Names() = %v, want %v", got, want)
		}
		p := &person{Name: "ada"}
		if v, ok := s.Get(p, Display); !ok || v != "ada" {
			t.Errorf("Get(Display) = %v, %v, want ada, true", v, ok)
		}
		if s.DisplayRole() != Object+1 {
			t.Errorf("DisplayRole() = %v, want %v", s.DisplayRole(), Object+1)
		}
	})

	t.Run("embedded", func(t *testing.T) {
		s, err := SchemaFor[*embedded](Options{})
		if err != nil {
			t.Fatalf("SchemaFor failed: %v", err)
		}
		r, ok := s.Roles().Role("created")
		if !ok {
			t.Fatalf("Role(created) not registered: %v", s.Roles().Names())
		}
		e := &embedded{Base: Base{Created: 7}}
		if v, ok := s.Get(e, r); !ok || v != int64(7) {
			t.Errorf("Get(created) = %v, %v, want 7, true", v, ok)
		}
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name string
			typ  reflect.Type
		}{
			{"int", reflect.TypeFor[int]()},
			{"pointer to string", reflect.TypeFor[*string]()},
			{"map", reflect.TypeFor[map[string]any]()},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := FromType(tt.typ, Options{}); err == nil {
					t.Error("FromType() error = nil, want error")
				}
			})
		}
	})
}

// TestSchema tests field access through roles.
func TestSchema(t *testing.T) {
	s, err := SchemaFor[*person](Options{})
	if err != nil {
		t.Fatalf("SchemaFor failed: %v", err)
	}
	role := func(name string) Role {
		r, ok := s.Roles().Role(name)
		if !ok {
			t.Fatalf("Role(%q) not found", name)
		}
		return r
	}

	t.Run("Get", func(t *testing.T) {
		p := &person{Name: "ada", Age: 36}
		if v, ok := s.Get(p, role("age")); !ok || v != 36 {
			t.Errorf("Get(age) = %v, %v, want 36, true", v, ok)
		}
		if v, ok := s.Get(p, Object); !ok || v != p {
			t.Errorf("Get(Object) = %v, %v, want the item", v, ok)
		}
		if _, ok := s.Get((*person)(nil), role("age")); ok {
			t.Error("Get(nil) ok = true, want false")
		}
		if _, ok := s.Get(p, Object+100); ok {
			t.Error("Get(unknown) ok = true, want false")
		}
	})

	t.Run("Set", func(t *testing.T) {
		t.Run("valid", func(t *testing.T) {
			born := time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC)
			tests := []struct {
				name  string
				value any
				check func(p *person) bool
			}{
				{"age", 42, func(p *person) bool { return p.Age == 42 }},
				{"age", float64(43), func(p *person) bool { return p.Age == 43 }},
				{"age", "44", func(p *person) bool { return p.Age == 44 }},
				{"score", 3, func(p *person) bool { return p.Score == 3 }},
				{"score", "2.5", func(p *person) bool { return p.Score == 2.5 }},
				{"name", 12, func(p *person) bool { return p.Name == "12" }},
				{"name", 1.5, func(p *person) bool { return p.Name == "1.5" }},
				{"active", "true", func(p *person) bool { return p.Active }},
				{"active", float64(1), func(p *person) bool { return p.Active }},
				{"born", "1815-12-10T00:00:00Z", func(p *person) bool { return p.Born.Equal(born) }},
				{"tags", []any{"a", "b"}, func(p *person) bool { return slices.Equal(p.Tags, []string{"a", "b"}) }},
				{"name", nil, func(p *person) bool { return p.Name == "" }},
			}
			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					p := &person{Name: "x"}
					if !s.Set(p, role(tt.name), tt.value) {
						t.Fatalf("Set(%s, %v) = false, want true", tt.name, tt.value)
					}
					if !tt.check(p) {
						t.Errorf("Set(%s, %v) stored %+v", tt.name, tt.value, p)
					}
				})
			}
		})

		t.Run("errors", func(t *testing.T) {
			tests := []struct {
				name  string
				item  any
				role  Role
				value any
			}{
				{"fractional into int", &person{}, role("age"), 1.5},
				{"text into int", &person{}, role("age"), "abc"},
				{"text into bool", &person{}, role("active"), "maybe"},
				{"bad date", &person{}, role("born"), "yesterday"},
				{"struct not pointer", person{}, role("age"), 1},
				{"nil pointer", (*person)(nil), role("age"), 1},
				{"object role", &person{}, Object, &person{}},
				{"unknown role", &person{}, Object + 100, 1},
			}
			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					if s.Set(tt.item, tt.role, tt.value) {
						t.Error("Set() = true, want false")
					}
				})
			}
		})
	})
}
