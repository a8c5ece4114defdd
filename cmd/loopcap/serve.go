package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/danielpatrickdp/loopcap/internal/api"
	"github.com/danielpatrickdp/loopcap/internal/metrics"
	"github.com/danielpatrickdp/loopcap/internal/rpc"
	"github.com/danielpatrickdp/loopcap/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var dbFlag, grpcAddr, httpAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve classification over gRPC and the HTTP API (with /metrics)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if grpcAddr == "" {
				grpcAddr = a.cfg.GRPCAddr
			}
			if httpAddr == "" {
				httpAddr = a.cfg.HTTPAddr
			}

			st, err := store.NewStore(a.dbPath(dbFlag))
			if err != nil {
				return ioError(fmt.Errorf("open db: %w", err))
			}
			defer st.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := a.serve(ctx, st, grpcAddr, httpAddr); err != nil {
				return ioError(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbFlag, "db", "", "database path (default from config)")
	cmd.Flags().StringVar(&grpcAddr, "grpc-addr", "", "gRPC listen address (default from config)")
	cmd.Flags().StringVar(&httpAddr, "http-addr", "", "HTTP listen address (default from config)")
	return cmd
}

// serve runs both listeners until ctx is done or one of them fails.
func (a *app) serve(ctx context.Context, st *store.Store, grpcAddr, httpAddr string) error {
	rec := metrics.New(prometheus.DefaultRegisterer)

	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("listen grpc %s: %w", grpcAddr, err)
	}
	gs := grpc.NewServer()
	rpc.RegisterLoopServiceServer(gs, rpc.NewServer(st, rec, a.log))

	gin.SetMode(gin.ReleaseMode)
	hs := &http.Server{
		Addr:              httpAddr,
		Handler:           api.SetupRouter(api.Deps{
			Runs:      st,
			Validator: st,
			Gate:      &a.cfg.Gate,
			Workers:   a.cfg.Workers,
			Recorder:  rec,
			Logger:    a.log,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("grpc listening", "addr", lis.Addr().String())
		if err := gs.Serve(lis); err != nil {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		a.log.Info("http listening", "addr", httpAddr)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		gs.GracefulStop()
		return hs.Shutdown(sctx)
	})
	return g.Wait()
}
