package artifact

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("artifact: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// CBORCodec encodes classes as canonical CBOR, so equal classes always
// produce equal bytes.
type CBORCodec struct{}

func (CBORCodec) Name() string { return "cbor" }
func (CBORCodec) Tag() byte    { return 'c' }

func (CBORCodec) Encode(c *Class) ([]byte, error) {
	return cborEncMode.Marshal(c)
}

func (CBORCodec) Decode(data []byte) (*Class, error) {
	var c Class
	if err := cbor.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
