package service

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Amounts go on the wire as JSON numbers. Quoted strings are still accepted.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// jsonCodec encodes messages as plain JSON. Messages are Go structs, not
// generated protobuf types, so Connect's protojson codec cannot serve them.
// Name "json" keeps the Connect protocol's application/json content type.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	return json.Unmarshal(data, msg)
}
