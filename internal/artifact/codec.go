package artifact

import (
	"bytes"
	"errors"
	"fmt"
)

// Magic identifies a typekeeper artifact.
var Magic = [4]byte{'T', 'K', 'A', 'F'}

// Version is the current header version.
const Version byte = 1

// HeaderSize is magic(4) + version(1) + codec tag(1).
const HeaderSize = 6

var (
	ErrBadMagic        = errors.New("not a typekeeper artifact")
	ErrUnknownVersion  = errors.New("unsupported artifact version")
	ErrUnknownCodec    = errors.New("unknown artifact codec")
	ErrTruncatedHeader = errors.New("truncated artifact header")
)

// Codec turns a Class into a payload and back.
type Codec interface {
	// Name is the configuration name of the codec, e.g. "cbor".
	Name() string
	// Tag is the header byte identifying the codec.
	Tag() byte
	Encode(c *Class) ([]byte, error)
	Decode(data []byte) (*Class, error)
}

var codecs = []Codec{CBORCodec{}, WireCodec{}}

// CodecByName returns the codec configured as name.
func CodecByName(name string) (Codec, error) {
	for _, c := range codecs {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

func codecByTag(tag byte) (Codec, error) {
	for _, c := range codecs {
		if c.Tag() == tag {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: tag %q", ErrUnknownCodec, tag)
}

// Marshal encodes class with codec and prefixes the artifact header.
func Marshal(codec Codec, class *Class) ([]byte, error) {
	payload, err := codec.Encode(class)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", class.QualifiedName(), err)
	}

	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize+len(payload)))
	buf.Write(Magic[:])
	buf.WriteByte(Version)
	buf.WriteByte(codec.Tag())
	buf.Write(payload)
	return buf.Bytes(), nil
}

// Unmarshal checks the header and decodes the payload with the codec it
// names.
func Unmarshal(data []byte) (*Class, error) {
	if len(data) < HeaderSize {
		return nil, ErrTruncatedHeader
	}
	if !bytes.Equal(data[:4], Magic[:]) {
		return nil, ErrBadMagic
	}
	if data[4] != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVersion, data[4])
	}
	codec, err := codecByTag(data[5])
	if err != nil {
		return nil, err
	}

	class, err := codec.Decode(data[HeaderSize:])
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", codec.Name(), err)
	}
	return class, nil
}
