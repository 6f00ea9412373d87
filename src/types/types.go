package types

import "fmt"

// Kind is one of the primitive kinds that inference can produce.
type Kind uint8

const (
	// Unknown is the sentinel for anything that inference could not resolve.
	Unknown Kind = iota
	// Int is a lua integer.
	Int
	// Float is a lua float. It is never coerced to or from Int.
	Float
	// String is a lua string.
	String
	// Bool is a lua boolean.
	Bool
)

const (
	// NameUnknown is a label for the unknown kind.
	NameUnknown = "unknown"
	// NameInt is a label for the int type.
	NameInt = "int"
	// NameFloat is a label for the float type.
	NameFloat = "float"
	// NameString is a label for the string type.
	NameString = "string"
	// NameBool is a label for the bool type.
	NameBool = "bool"
)

var (
	kindNames = [...]string{
		Unknown: NameUnknown,
		Int:     NameInt,
		Float:   NameFloat,
		String:  NameString,
		Bool:    NameBool,
	}
	// Primitives maps each supported primitive kind name to its kind. These
	// names double as the conversion functions that inference understands,
	// for example int("12") or string(12).
	Primitives = map[string]Kind{
		NameInt:    Int,
		NameFloat:  Float,
		NameString: String,
		NameBool:   Bool,
	}
)

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Known reports whether the kind is one of the concrete primitives.
func (k Kind) Known() bool { return k != Unknown && int(k) < len(kindNames) }

// ByName resolves a primitive kind name like "int" to its kind. The unknown
// label is not a primitive so it does not resolve.
func ByName(name string) (Kind, bool) {
	kind, ok := Primitives[name]
	return kind, ok
}

// Comparable reports whether a and b are both concrete, and so can be checked
// against each other at all.
func Comparable(a, b Kind) bool { return a.Known() && b.Known() }

// Conflict reports whether two kinds are both concrete and disagree.
func Conflict(a, b Kind) bool { return Comparable(a, b) && a != b }
