package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/loopcap/internal/loop"
	"github.com/danielpatrickdp/loopcap/internal/rpc"
	"github.com/danielpatrickdp/loopcap/internal/sequence"
)

func newClassifyCmd(a *app) *cobra.Command {
	var (
		name   string
		brief  bool
		remote string
	)
	cmd := &cobra.Command{
		Use:   "classify <sequence.json>",
		Short: "Classify one sequence file (a JSON array of raw entries)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return ioError(fmt.Errorf("read %s: %w", path, err))
			}
			var entries []sequence.RawEntry
			if err := json.Unmarshal(data, &entries); err != nil {
				return ioError(fmt.Errorf("parse %s: %w", path, err))
			}

			var res loop.Result
			if remote != "" {
				res, err = classifyRemote(cmd.Context(), remote, name, entries)
				if err != nil {
					return ioError(err)
				}
			} else {
				res = loop.Classify(sequence.Extract(name, entries))
			}
			a.log.Debug("classified", "sequence", name, "loop_type", res.LoopType, "remote", remote != "")

			if brief {
				fmt.Fprintln(a.out, briefLine(name, res))
				return nil
			}
			enc := json.NewEncoder(a.out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"name": name, "result": res})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "sequence name (default: file name)")
	cmd.Flags().BoolVar(&brief, "brief", false, "print one summary line instead of JSON")
	cmd.Flags().StringVar(&remote, "remote", "", "classify via a LoopService at this gRPC address")
	return cmd
}

func classifyRemote(ctx context.Context, addr, name string, entries []sequence.RawEntry) (loop.Result, error) {
	c, err := rpc.NewClient(addr)
	if err != nil {
		return loop.Result{}, err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return c.Classify(ctx, name, entries)
}

func briefLine(name string, res loop.Result) string {
	lt := string(res.LoopType)
	if lt == "" {
		lt = "-"
	}
	line := fmt.Sprintf("%s\t%s\t[%s]\t%s", name, lt, strings.Join(res.ComponentNames(), ","), res.Confidence)
	if res.Diagnostics.Reason != "" {
		line += "\t(" + res.Diagnostics.Reason + ")"
	}
	return line
}
