// Package api defines the superlists RPC messages and the Connect plumbing
// that carries them: procedure names, handler constructors and typed clients.
//
// The contract lives in proto/superlists/v1/superlists.proto. Messages here
// mirror it field for field and travel as JSON using the proto field names,
// so any HTTP client that speaks the Connect protocol with
// "Content-Type: application/json" can call the API.
package api

import (
	"encoding/json"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// jsonCodec replaces connect's protobuf-only "json" codec so that plain
// structs can be sent over the Connect protocol. Protobuf messages go
// through protojson with proto field names, matching the struct tags.
type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	if m, ok := msg.(proto.Message); ok {
		return protojson.MarshalOptions{UseProtoNames: true}.Marshal(m)
	}
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if m, ok := msg.(proto.Message); ok {
		return protojson.UnmarshalOptions{DiscardUnknown: true}.Unmarshal(data, m)
	}
	return json.Unmarshal(data, msg)
}

// WithJSON is the option every handler and client in this package is built with.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
