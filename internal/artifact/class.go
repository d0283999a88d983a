package artifact

import "errors"

var ErrNoMembers = errors.New("class declares no members")

// Class is a compiled type declaration.
type Class struct {
	Package   string   `cbor:"1,keyasint"`
	Name      string   `cbor:"2,keyasint"`
	Modifiers []string `cbor:"3,keyasint,omitempty"`
	Members   []Method `cbor:"4,keyasint,omitempty"`
}

// Method is a member declared by a Class.
type Method struct {
	Name      string   `cbor:"1,keyasint"`
	Modifiers []string `cbor:"2,keyasint,omitempty"`
	Result    string   `cbor:"3,keyasint"`
}

// QualifiedName returns Package + "." + Name.
func (c *Class) QualifiedName() string {
	if c.Package == "" {
		return c.Name
	}
	return c.Package + "." + c.Name
}

// FirstMember returns the first declared member in declaration order.
func (c *Class) FirstMember() (Method, error) {
	if len(c.Members) == 0 {
		return Method{}, ErrNoMembers
	}
	return c.Members[0], nil
}
