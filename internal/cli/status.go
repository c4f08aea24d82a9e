package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KamyarZeinalipour/HumanAnnotation-UI-Ar-Text-To-Cross/internal/batch"
	"github.com/KamyarZeinalipour/HumanAnnotation-UI-Ar-Text-To-Cross/internal/store"
)

// StatusOptions holds flags for the status command.
type StatusOptions struct {
	*RootOptions
	Batch          string
	Start          int
	Backend        string
	AnnotationsDir string
}

// Status is the progress report for one batch/record-store pair.
type Status struct {
	Batch       string `json:"batch"`
	BatchLen    int    `json:"batch_len"`
	ResumeIndex int    `json:"resume_index"`
	Remaining   int    `json:"remaining"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatusOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show annotation progress for a batch",
		Long: `Show where a session over the given batch would resume.

The resume index is computed exactly as a new session would compute it:
the maximum recorded index combined with the requested start, plus one.

Example:
  annotate status --batch ./batches/chunk_01.csv
  annotate status --batch ./batches/chunk_01.csv --store sqlite --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showStatus(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Batch, "batch", "", "path to the input batch file")
	cmd.Flags().IntVar(&opts.Start, "start", 0, "requested starting index")
	cmd.Flags().StringVar(&opts.Backend, "store", store.BackendCSV, "record store backend (csv|sqlite)")
	cmd.Flags().StringVar(&opts.AnnotationsDir, "annotations-dir", store.DefaultDir, "directory for record files")
	_ = cmd.MarkFlagRequired("batch")

	return cmd
}

func showStatus(opts *StatusOptions, cmd *cobra.Command) error {
	b, err := batch.Load(opts.Batch)
	if err != nil {
		return err
	}

	st, err := store.Open(opts.Backend, opts.AnnotationsDir, b.Name)
	if err != nil {
		return err
	}
	defer st.Close()

	resume, err := st.ResumeIndex(context.Background(), opts.Start)
	if err != nil {
		return err
	}

	status := Status{
		Batch:       b.Name,
		BatchLen:    b.Len(),
		ResumeIndex: resume,
		Remaining:   max(0, b.Len()-resume),
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), status)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "batch:        %s\n", status.Batch)
	fmt.Fprintf(cmd.OutOrStdout(), "examples:     %d\n", status.BatchLen)
	fmt.Fprintf(cmd.OutOrStdout(), "resume index: %d\n", status.ResumeIndex)
	fmt.Fprintf(cmd.OutOrStdout(), "remaining:    %d\n", status.Remaining)
	return nil
}
