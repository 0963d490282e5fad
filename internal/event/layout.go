package event

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownLayout = errors.New("unknown record layout")
	ErrNotStructured = errors.New("layout has no fields")
	ErrMissingField  = errors.New("missing field")
	ErrFieldKind     = errors.New("field kind mismatch")
	ErrFieldOffset   = errors.New("field offset mismatch")
	ErrExtraFields   = errors.New("extra fields")
	ErrBatchShape    = errors.New("batch length is not a whole number of records")
)

type Kind uint8

const (
	KindBool Kind = iota + 1
	KindU8
	KindU16
	KindU64
	KindF32
)

func (k Kind) Size() int {
	switch k {
	case KindBool, KindU8:
		return 1
	case KindU16:
		return 2
	case KindF32:
		return 4
	case KindU64:
		return 8
	default:
		return 0
	}
}

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU64:
		return "u64"
	case KindF32:
		return "f32"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Field describes one packed little-endian record member.
type Field struct {
	Name   string
	Kind   Kind
	Offset int
}

// Layout describes a packed sensor record shape. The registry below is
// closed: decoders exist only for registered layouts, and every layout
// decodes into the canonical model.Event.
type Layout struct {
	Name   string
	Fields []Field
}

func (l Layout) RecordSize() int {
	size := 0
	for _, f := range l.Fields {
		size += f.Kind.Size()
	}
	return size
}

func (l Layout) field(name string) (Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

var registry = map[string]Layout{
	"dvs": {
		Name: "dvs",
		Fields: []Field{
			{Name: "t", Kind: KindU64, Offset: 0},
			{Name: "x", Kind: KindU16, Offset: 8},
			{Name: "y", Kind: KindU16, Offset: 10},
			{Name: "on", Kind: KindBool, Offset: 12},
		},
	},
	"dat": {
		Name: "dat",
		Fields: []Field{
			{Name: "t", Kind: KindU64, Offset: 0},
			{Name: "x", Kind: KindU16, Offset: 8},
			{Name: "y", Kind: KindU16, Offset: 10},
			{Name: "payload", Kind: KindU8, Offset: 12},
		},
	},
	"es-atis": {
		Name: "es-atis",
		Fields: []Field{
			{Name: "t", Kind: KindU64, Offset: 0},
			{Name: "x", Kind: KindU16, Offset: 8},
			{Name: "y", Kind: KindU16, Offset: 10},
			{Name: "exposure", Kind: KindBool, Offset: 12},
			{Name: "polarity", Kind: KindBool, Offset: 13},
		},
	},
}

// Lookup returns the registered layout with the given name.
func Lookup(name string) (Layout, bool) {
	l, ok := registry[name]
	return l, ok
}

// Registered lists the supported layouts in name order.
func Registered() []Layout {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Layout, 0, len(names))
	for _, name := range names {
		out = append(out, registry[name])
	}
	return out
}

// ValidateLayout checks a caller-declared layout against the registered one
// of the same name. Validation fails before any decoding happens, so a
// rejected batch never reaches the engine.
func ValidateLayout(declared Layout) error {
	expected, ok := registry[declared.Name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayout, declared.Name)
	}
	if len(declared.Fields) == 0 {
		return fmt.Errorf("%w: %q", ErrNotStructured, declared.Name)
	}
	for _, want := range expected.Fields {
		got, ok := declared.field(want.Name)
		if !ok {
			return fmt.Errorf("%w: %q requires field %q", ErrMissingField, declared.Name, want.Name)
		}
		if got.Kind != want.Kind {
			return fmt.Errorf("%w: field %q must be %s (got %s)", ErrFieldKind, want.Name, want.Kind, got.Kind)
		}
		if got.Offset != want.Offset {
			return fmt.Errorf("%w: field %q must be at offset %d (got %d)", ErrFieldOffset, want.Name, want.Offset, got.Offset)
		}
	}
	if len(declared.Fields) != len(expected.Fields) {
		return fmt.Errorf("%w: %q expects %d fields (got %d)", ErrExtraFields, declared.Name, len(expected.Fields), len(declared.Fields))
	}
	return nil
}
