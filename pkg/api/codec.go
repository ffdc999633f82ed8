// Package api defines the TapNGo Connect services: their procedures,
// request and response messages, handler constructors and typed clients.
//
// Messages are plain Go structs carried by a JSON codec, so any HTTP
// client can call a unary procedure with
//
//	POST /tapngo.v1.PaymentService/CreateOrder
//	Content-Type: application/json
//
// Token and fiat amounts are base-unit integers (6 decimals) encoded as
// JSON strings. Rates are decimal strings.
package api

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// JSONCodec marshals messages with encoding/json. It registers under the
// name "json", replacing Connect's protobuf-only JSON codec.
type JSONCodec struct{}

// Name implements connect.Codec.
func (JSONCodec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal implements connect.Codec.
func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to decode %T: %w", msg, err)
	}
	return nil
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
}
