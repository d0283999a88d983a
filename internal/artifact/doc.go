// Package artifact defines the compiled form of a compilation unit and its
// on-disk binary encoding.
//
// # Format
//
// Every artifact starts with a fixed header followed by a codec payload:
//
//	offset  size  field
//	0       4     magic "TKAF"
//	4       1     format version (1)
//	5       1     codec tag ('c' canonical CBOR, 'w' protobuf wire)
//	6       ...   payload produced by the codec
//
// The header lets a reader decode an artifact regardless of which codec the
// writer was configured with.
//
// # Codecs
//
//   - CBORCodec: canonical CBOR, deterministic for equal classes
//   - WireCodec: tagged, length-prefixed protobuf wire encoding
//
// Typical usage:
//
//	data, err := artifact.Marshal(artifact.CBORCodec{}, class)
//	class, err := artifact.Unmarshal(data)
package artifact
