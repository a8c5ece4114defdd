package rpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/loopcap/internal/loop"
	"github.com/danielpatrickdp/loopcap/internal/sequence"
	"github.com/danielpatrickdp/loopcap/internal/store"
)

// #region messages
// ClassifyRequest carries one sequence as raw entries.
type ClassifyRequest struct {
	Name    string              `json:"name"`
	Entries []sequence.RawEntry `json:"entries"`
}

// ClassifyResponse carries the classification of one sequence.
type ClassifyResponse struct {
	Name   string      `json:"name"`
	Result loop.Result `json:"result"`
}

// ListRunsRequest pages persisted validation runs.
type ListRunsRequest struct {
	Limit int `json:"limit,omitempty"`
}

// ListRunsResponse lists runs newest first.
type ListRunsResponse struct {
	Runs []store.RunRecord `json:"runs"`
}

// #endregion messages

// #region codec
// toStruct converts a JSON-tagged Go value into a Struct via its JSON form.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	s := new(structpb.Struct)
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("encode struct: %w", err)
	}
	return s, nil
}

// fromStruct decodes a Struct into a JSON-tagged Go value.
func fromStruct(s *structpb.Struct, v any) error {
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode struct: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal message: %w", err)
	}
	return nil
}

// #endregion codec
