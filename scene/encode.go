package scene

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// EncodeFlat gob-encodes a Flat scene into the byte buffer that travels
// once inside RegisterWorkerResponse.SceneBytes (§4.6): serialized at the
// coordinator, handed to every joining worker unchanged.
func EncodeFlat(flat Flat) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(flat); err != nil {
		return nil, fmt.Errorf("scene: encoding flat scene: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeFlat reverses EncodeFlat.
func DecodeFlat(data []byte) (Flat, error) {
	var flat Flat
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&flat); err != nil {
		return Flat{}, fmt.Errorf("scene: decoding flat scene: %w", err)
	}
	return flat, nil
}
