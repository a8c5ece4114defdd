package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/loopcap/internal/loop"
	"github.com/danielpatrickdp/loopcap/internal/sequence"
	"github.com/danielpatrickdp/loopcap/internal/store"
)

// #region client-struct
// Client wraps a gRPC connection to a LoopService.
type Client struct {
	conn   *grpc.ClientConn
	client LoopServiceClient
}

// #endregion client-struct

// #region constructor
// NewClient connects to a LoopService at addr.
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{
		conn:   conn,
		client: NewLoopServiceClient(conn),
	}, nil
}

// NewClientWithService creates a Client with an injected service implementation.
// Used for testing without a real gRPC connection.
func NewClientWithService(svc LoopServiceClient) *Client {
	return &Client{client: svc}
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region classify
// Classify sends raw entries for classification. Unavailable servers are
// retried up to twice.
func (c *Client) Classify(ctx context.Context, name string, entries []sequence.RawEntry) (loop.Result, error) {
	in, err := toStruct(ClassifyRequest{Name: name, Entries: entries})
	if err != nil {
		return loop.Result{}, err
	}
	var resp *structpb.Struct
	err = withRetry(ctx, func() (err error) {
		resp, err = c.client.Classify(ctx, in)
		return err
	})
	if err != nil {
		return loop.Result{}, fmt.Errorf("classify rpc: %w", err)
	}
	var out ClassifyResponse
	if err := fromStruct(resp, &out); err != nil {
		return loop.Result{}, err
	}
	return out.Result, nil
}

// #endregion classify

// #region list-runs
// ListRuns fetches up to limit persisted runs; limit <= 0 uses the server default.
func (c *Client) ListRuns(ctx context.Context, limit int) ([]store.RunRecord, error) {
	in, err := toStruct(ListRunsRequest{Limit: limit})
	if err != nil {
		return nil, err
	}
	var resp *structpb.Struct
	err = withRetry(ctx, func() (err error) {
		resp, err = c.client.ListRuns(ctx, in)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list runs rpc: %w", err)
	}
	var out ListRunsResponse
	if err := fromStruct(resp, &out); err != nil {
		return nil, err
	}
	return out.Runs, nil
}

// #endregion list-runs
