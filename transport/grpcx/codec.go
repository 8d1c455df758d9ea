// Package grpcx implements the rpcapi.RpcTransport contract over real
// google.golang.org/grpc wire framing, without a protoc/buf code
// generation step: messages are plain Go structs from package rpcapi,
// carried by a package-level gob encoding.Codec and dispatched through a
// hand-registered grpc.ServiceDesc (§6, §10).
package grpcx

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// codecName is the content-subtype grpc negotiates for this codec; it
// must be lowercase per grpc's content-subtype convention.
const codecName = "gob"

// gobCodec implements encoding.Codec by gob-encoding whatever struct
// value it is given, in place of the usual protobuf marshaling.
type gobCodec struct{}

func (gobCodec) Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("grpcx: gob marshal: %w", err)
	}
	return buf.Bytes(), nil
}

func (gobCodec) Unmarshal(data []byte, v interface{}) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("grpcx: gob unmarshal: %w", err)
	}
	return nil
}

func (gobCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(gobCodec{})
}
