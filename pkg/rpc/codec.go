package rpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// codecName is the gRPC content-subtype this codec registers under;
// clients must dial with grpc.CallContentSubtype(codecName).
const codecName = "warden-json"

// jsonCodec marshals RPC messages as JSON instead of protobuf wire
// format, so the hand-written ServiceDesc in service.go can dispatch
// plain Go structs without a .proto-generated marshaler.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("warden-json marshal: %w", err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("warden-json unmarshal: %w", err)
	}
	return nil
}

func (jsonCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
