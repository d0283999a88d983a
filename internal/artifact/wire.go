package artifact

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the wire encoding.
const (
	fieldClassPackage   protowire.Number = 1
	fieldClassName      protowire.Number = 2
	fieldClassModifiers protowire.Number = 3
	fieldClassMembers   protowire.Number = 4

	fieldMethodName      protowire.Number = 1
	fieldMethodModifiers protowire.Number = 2
	fieldMethodResult    protowire.Number = 3
)

// WireCodec encodes classes as tagged, length-prefixed protobuf wire fields.
// Unknown fields are skipped on decode.
type WireCodec struct{}

func (WireCodec) Name() string { return "wire" }
func (WireCodec) Tag() byte    { return 'w' }

func (WireCodec) Encode(c *Class) ([]byte, error) {
	var b []byte
	b = appendString(b, fieldClassPackage, c.Package)
	b = appendString(b, fieldClassName, c.Name)
	for _, m := range c.Modifiers {
		b = appendString(b, fieldClassModifiers, m)
	}
	for _, m := range c.Members {
		var mb []byte
		mb = appendString(mb, fieldMethodName, m.Name)
		for _, mod := range m.Modifiers {
			mb = appendString(mb, fieldMethodModifiers, mod)
		}
		mb = appendString(mb, fieldMethodResult, m.Result)

		b = protowire.AppendTag(b, fieldClassMembers, protowire.BytesType)
		b = protowire.AppendBytes(b, mb)
	}
	return b, nil
}

func (WireCodec) Decode(data []byte) (*Class, error) {
	c := &Class{}
	err := consumeFields(data, func(num protowire.Number, v []byte) error {
		switch num {
		case fieldClassPackage:
			c.Package = string(v)
		case fieldClassName:
			c.Name = string(v)
		case fieldClassModifiers:
			c.Modifiers = append(c.Modifiers, string(v))
		case fieldClassMembers:
			m, err := decodeMethod(v)
			if err != nil {
				return fmt.Errorf("member %d: %w", len(c.Members), err)
			}
			c.Members = append(c.Members, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func decodeMethod(data []byte) (Method, error) {
	var m Method
	err := consumeFields(data, func(num protowire.Number, v []byte) error {
		switch num {
		case fieldMethodName:
			m.Name = string(v)
		case fieldMethodModifiers:
			m.Modifiers = append(m.Modifiers, string(v))
		case fieldMethodResult:
			m.Result = string(v)
		}
		return nil
	})
	return m, err
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// consumeFields walks data and calls fn for every length-delimited field.
// Fields of other wire types are skipped.
func consumeFields(data []byte, fn func(num protowire.Number, v []byte) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		if typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
			continue
		}

		v, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		if err := fn(num, v); err != nil {
			return err
		}
	}
	return nil
}
