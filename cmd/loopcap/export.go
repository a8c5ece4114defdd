package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/loopcap/internal/sequence"
	"github.com/danielpatrickdp/loopcap/internal/store"
	"github.com/danielpatrickdp/loopcap/internal/validation"
)

func newExportCmd(a *app) *cobra.Command {
	var dbFlag, corpusOut, labelsOut string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the database corpus and labels back out as fixture files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if corpusOut == "" && labelsOut == "" {
				return usageError("nothing to export: give --corpus and/or --labels")
			}

			st, err := store.NewStore(a.dbPath(dbFlag))
			if err != nil {
				return ioError(fmt.Errorf("open db: %w", err))
			}
			defer st.Close()

			if corpusOut != "" {
				n, err := exportCorpus(st, corpusOut)
				if err != nil {
					return ioError(err)
				}
				fmt.Fprintf(a.out, "wrote %d sequences to %s\n", n, corpusOut)
			}
			if labelsOut != "" {
				n, err := exportLabels(st, labelsOut)
				if err != nil {
					return ioError(err)
				}
				fmt.Fprintf(a.out, "wrote %d labels to %s\n", n, labelsOut)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbFlag, "db", "", "database path (default from config)")
	cmd.Flags().StringVar(&corpusOut, "corpus", "", "corpus output path (.json or .yaml)")
	cmd.Flags().StringVar(&labelsOut, "labels", "", "labels output path (.json or .yaml)")
	return cmd
}

func exportCorpus(st *store.Store, path string) (int, error) {
	names, err := st.SequenceNames()
	if err != nil {
		return 0, err
	}
	f := validation.CorpusFile{
		Description: "exported from loopcap database",
		Sequences:   make(map[string][]sequence.RawEntry, len(names)),
	}
	for _, name := range names {
		entries, ok, err := st.RawSequence(name)
		if err != nil {
			return 0, err
		}
		if ok {
			f.Sequences[name] = entries
		}
	}
	return len(f.Sequences), validation.WriteFixtureFile(path, &f)
}

func exportLabels(st *store.Store, path string) (int, error) {
	names, err := st.LabelNames()
	if err != nil {
		return 0, err
	}
	f := validation.LabelsFile{
		Description: "exported from loopcap database",
		Labels:      make(map[string]validation.FixtureLabel, len(names)),
	}
	for _, name := range names {
		l, ok, err := st.Label(name)
		if err != nil {
			return 0, err
		}
		if ok {
			f.Labels[name] = validation.FixtureLabelFrom(l)
		}
	}
	return len(f.Labels), validation.WriteFixtureFile(path, &f)
}
