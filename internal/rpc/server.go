package rpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/loopcap/internal/loop"
	"github.com/danielpatrickdp/loopcap/internal/metrics"
	"github.com/danielpatrickdp/loopcap/internal/sequence"
	"github.com/danielpatrickdp/loopcap/internal/store"
)

// DefaultRunLimit applies when ListRuns is called without a limit.
const DefaultRunLimit = 20

// RunLister is the part of store.Store the service reads.
type RunLister interface {
	ListRuns(limit int) ([]store.RunRecord, error)
}

// #region server
// Server implements LoopServiceServer. runs and rec may be nil.
type Server struct {
	runs RunLister
	rec  *metrics.Recorder
	log  *slog.Logger
}

var _ LoopServiceServer = (*Server)(nil)

// NewServer creates the LoopService implementation.
func NewServer(runs RunLister, rec *metrics.Recorder, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{runs: runs, rec: rec, log: log}
}

// Classify extracts the sequence from raw entries and classifies it.
func (s *Server) Classify(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ClassifyRequest
	if err := fromStruct(in, &req); err != nil {
		s.observe("invalid_argument")
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if len(req.Entries) == 0 {
		s.observe("invalid_argument")
		return nil, status.Error(codes.InvalidArgument, "classify: no entries")
	}

	seq := sequence.Extract(req.Name, req.Entries)
	start := time.Now()
	res := loop.Classify(seq)
	if s.rec != nil {
		s.rec.ObserveClassification(res, time.Since(start))
	}
	s.log.Debug("classified", "sequence", req.Name, "loop_type", res.LoopType, "components", res.ComponentNames())

	out, err := toStruct(ClassifyResponse{Name: req.Name, Result: res})
	if err != nil {
		s.observe("internal")
		return nil, status.Error(codes.Internal, err.Error())
	}
	s.observe("ok")
	return out, nil
}

// ListRuns returns persisted validation runs, newest first.
func (s *Server) ListRuns(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s.runs == nil {
		return nil, status.Error(codes.Unimplemented, "list runs: no store configured")
	}
	var req ListRunsRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if req.Limit <= 0 {
		req.Limit = DefaultRunLimit
	}

	runs, err := s.runs.ListRuns(req.Limit)
	if err != nil {
		s.log.Error("list runs failed", "error", err)
		return nil, status.Error(codes.Internal, err.Error())
	}
	if runs == nil {
		runs = []store.RunRecord{}
	}
	out, err := toStruct(ListRunsResponse{Runs: runs})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func (s *Server) observe(outcome string) {
	if s.rec != nil {
		s.rec.ObserveRequest("grpc", outcome)
	}
}

// #endregion server
