package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/loopcap/internal/sequence"
	"github.com/danielpatrickdp/loopcap/internal/store"
	"github.com/danielpatrickdp/loopcap/internal/validation"
)

func newImportCmd(a *app) *cobra.Command {
	var dbFlag, corpusPath, labelsPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load corpus and label fixtures into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if corpusPath == "" && labelsPath == "" {
				return usageError("nothing to import: give --corpus and/or --labels")
			}

			var (
				corpus map[string][]sequence.RawEntry
				labels map[string]validation.Label
			)
			if corpusPath != "" {
				cf, err := validation.LoadCorpusFile(corpusPath)
				if err != nil {
					return ioError(err)
				}
				corpus = cf.Sequences
			}
			if labelsPath != "" {
				lf, err := validation.LoadLabelsFile(labelsPath)
				if err != nil {
					return ioError(err)
				}
				labels = lf.ToLabels()
			}

			st, err := store.NewStore(a.dbPath(dbFlag))
			if err != nil {
				return ioError(fmt.Errorf("open db: %w", err))
			}
			defer st.Close()

			nSeq, nLab, err := st.Import(corpus, labels)
			if err != nil {
				return ioError(err)
			}
			a.log.Info("import complete", "db", a.dbPath(dbFlag), "sequences", nSeq, "labels", nLab)
			fmt.Fprintf(a.out, "imported %d sequences, %d labels\n", nSeq, nLab)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbFlag, "db", "", "database path (default from config)")
	cmd.Flags().StringVar(&corpusPath, "corpus", "", "corpus fixture (JSON or YAML)")
	cmd.Flags().StringVar(&labelsPath, "labels", "", "labels fixture (JSON or YAML)")
	return cmd
}
