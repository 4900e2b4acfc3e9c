// Package schema holds the parsed form of a FIX protocol specification:
// field definitions, the shared header and trailer, messages, components and
// repeating groups. Producing a Tree from its on-disk form is the job of an
// external loader; the fix package only consumes it.
package schema

import (
	"fmt"

	"github.com/0x5487/fixcore/protocol"
)

// Tree is a complete FIX specification for one protocol version.
type Tree struct {
	Major       int
	Minor       int
	ServicePack int
	// FIXT marks a transport-layer specification (FIXT.1.1).
	FIXT bool

	Fields     []FieldDef
	Header     []Element
	Trailer    []Element
	Messages   []MessageDef
	Components []ComponentDef
}

// Version returns the BeginString this specification describes, e.g. "FIX.4.4".
func (t *Tree) Version() string {
	if t.FIXT {
		return fmt.Sprintf("FIXT.%d.%d", t.Major, t.Minor)
	}
	return fmt.Sprintf("FIX.%d.%d", t.Major, t.Minor)
}

// Component returns the component definition with the given name.
func (t *Tree) Component(name string) (*ComponentDef, bool) {
	for i := range t.Components {
		if t.Components[i].Name == name {
			return &t.Components[i], true
		}
	}
	return nil, false
}

// FieldDef defines a field number, its name, type and allowed values.
type FieldDef struct {
	Number int
	Name   string
	Type   protocol.FieldType
	Values []Value
}

// Value is one enumerated value of a field.
type Value struct {
	Enum        string
	Description string
}

// MessageDef describes one message type.
type MessageDef struct {
	Name     string
	MsgType  string
	Category protocol.MessageCategory
	Elements []Element
}

// ComponentDef is a named, reusable list of elements.
type ComponentDef struct {
	Name     string
	Elements []Element
}

// ElementKind tells what an Element refers to.
type ElementKind uint8

const (
	KindField ElementKind = iota + 1
	KindGroup
	KindComponent
)

func (k ElementKind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindGroup:
		return "group"
	case KindComponent:
		return "component"
	}
	return "unknown"
}

// Element is an entry in a header, trailer, message, component or group body.
// For groups, Name is the NumInGroup field and Elements is the repetition shape;
// the first element determines the delimiter.
type Element struct {
	Kind     ElementKind
	Name     string
	Required bool
	Elements []Element
}

// Field references a field definition by name.
func Field(name string, required bool) Element {
	return Element{Kind: KindField, Name: name, Required: required}
}

// Group declares a repeating group counted by the field called name.
func Group(name string, required bool, elements ...Element) Element {
	return Element{Kind: KindGroup, Name: name, Required: required, Elements: elements}
}

// Component references a component definition by name.
func Component(name string, required bool) Element {
	return Element{Kind: KindComponent, Name: name, Required: required}
}
