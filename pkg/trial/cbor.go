package trial

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborEnc encodes with Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys, smallest integer encoding, no indefinite-length items.
// Same logical data always produces identical bytes.
var cborEnc = func() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("trial: CBOR encoder initialization failed: " + err.Error())
	}

	return mode
}()

// MarshalCBOR encodes the snapshot as a deterministic CBOR map. Key order
// is canonical (sorted), not insertion order; insertion order is a
// presentation concern the JSON and YAML encodings preserve instead.
func (s Snapshot) MarshalCBOR() ([]byte, error) {
	data, err := cborEnc.Marshal(s.Map())
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	return data, nil
}
