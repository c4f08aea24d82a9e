package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KamyarZeinalipour/HumanAnnotation-UI-Ar-Text-To-Cross/internal/batch"
	"github.com/KamyarZeinalipour/HumanAnnotation-UI-Ar-Text-To-Cross/internal/config"
	"github.com/KamyarZeinalipour/HumanAnnotation-UI-Ar-Text-To-Cross/internal/match"
	"github.com/KamyarZeinalipour/HumanAnnotation-UI-Ar-Text-To-Cross/internal/session"
	"github.com/KamyarZeinalipour/HumanAnnotation-UI-Ar-Text-To-Cross/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Config         string
	Annotator      string
	Batch          string
	Start          int
	Backend        string
	AnnotationsDir string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start or resume an annotation session",
		Long: `Start or resume an annotation session over a batch file.

The session resumes from the record store: examples already annotated in a
previous run are never presented again. Each example is shown with its
best-matching extract sentence; enter a rating (A-E or SKIPPING) and an
optional comment, and the decision is appended durably before the next
example appears.

Example:
  annotate run --batch ./batches/chunk_01.csv --annotator kamyar
  annotate run --config annotate.yaml --start 40 --store sqlite`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to YAML config file")
	cmd.Flags().StringVar(&opts.Annotator, "annotator", "", "annotator identity recorded with every annotation")
	cmd.Flags().StringVar(&opts.Batch, "batch", "", "path to the input batch file")
	cmd.Flags().IntVar(&opts.Start, "start", 0, "requested starting index")
	cmd.Flags().StringVar(&opts.Backend, "store", "", "record store backend (csv|sqlite)")
	cmd.Flags().StringVar(&opts.AnnotationsDir, "annotations-dir", "", "directory for record files")

	return cmd
}

// resolveConfig merges the config file (if any) with flag overrides and
// validates the result. Flags win over the file.
func resolveConfig(opts *RunOptions, flags interface{ Changed(string) bool }) (config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.LoadFile(opts.Config); err != nil {
			return cfg, err
		}
	}

	if flags.Changed("annotator") {
		cfg.Annotator = opts.Annotator
	}
	if flags.Changed("batch") {
		cfg.Batch = opts.Batch
	}
	if flags.Changed("start") {
		cfg.Start = opts.Start
	}
	if flags.Changed("store") {
		cfg.Backend = opts.Backend
	}
	if flags.Changed("annotations-dir") {
		cfg.AnnotationsDir = opts.AnnotationsDir
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runSession(opts *RunOptions, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := resolveConfig(opts, cmd.Flags())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := batch.Load(cfg.Batch)
	if err != nil {
		return err
	}

	matcher, err := match.Default()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Backend, cfg.AnnotationsDir, b.Name)
	if err != nil {
		return err
	}
	defer st.Close()

	sess, err := session.New(ctx, b, st, matcher, session.Options{
		Annotator: cfg.Annotator,
		Start:     cfg.Start,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	return annotateLoop(ctx, sess, b.Name, cmd.InOrStdin(), cmd.OutOrStdout())
}

// annotateLoop is the terminal UI adapter: present, read a rating and a
// comment, submit, repeat. EOF on input ends the session cleanly; progress
// already submitted is durable.
func annotateLoop(ctx context.Context, sess *session.Session, batchName string, in io.Reader, out io.Writer) error {
	if sess.Exhausted() {
		fmt.Fprintln(out, "Nothing left to annotate.")
		return nil
	}

	scanner := bufio.NewScanner(in)
	disp, err := sess.Current()
	if err != nil {
		return err
	}

	for {
		printDisplay(out, batchName, disp)

		rating, ok := promptRating(scanner, out)
		if !ok {
			fmt.Fprintln(out, "\nSession paused. Run again to resume.")
			return nil
		}
		comments, ok := promptLine(scanner, out, "COMMENTS (optional): ")
		if !ok {
			fmt.Fprintln(out, "\nSession paused. Run again to resume.")
			return nil
		}

		next, err := sess.Submit(ctx, rating, comments)
		if session.IsAppendFailed(err) {
			fmt.Fprintf(out, "Could not record annotation: %v\nThe example is shown again; retry when the problem is fixed.\n", err)
			continue
		}
		if err != nil {
			return err
		}

		if sess.Exhausted() {
			fmt.Fprintln(out, "All examples annotated.")
			return nil
		}
		disp = next
	}
}

func printDisplay(out io.Writer, batchName string, d session.Display) {
	fmt.Fprintf(out, "\n=== %s — example %d ===\n", batchName, d.Index)
	fmt.Fprintf(out, "EXTRACT:  %s\n", d.Extract)
	if d.BestSentence.Valid {
		fmt.Fprintf(out, "MOST RELATED SENTENCE: %s\n", d.BestSentence)
	}
	fmt.Fprintf(out, "ANSWER:   %s\n", d.Answer)
	fmt.Fprintf(out, "CATEGORY: %s\n", d.Category)
	fmt.Fprintf(out, "CLUE:     %s\n", d.Clue)
}

// promptRating reads lines until one parses as a valid rating.
// ok is false on input EOF.
func promptRating(scanner *bufio.Scanner, out io.Writer) (session.Rating, bool) {
	for {
		line, ok := promptLine(scanner, out, "RATING (A/B/C/D/E/SKIPPING): ")
		if !ok {
			return "", false
		}
		rating := session.Rating(strings.ToUpper(strings.TrimSpace(line)))
		if rating.Valid() {
			return rating, true
		}
		fmt.Fprintf(out, "Unknown rating %q.\n", line)
	}
}

func promptLine(scanner *bufio.Scanner, out io.Writer, prompt string) (string, bool) {
	fmt.Fprint(out, prompt)
	if !scanner.Scan() {
		return "", false
	}
	return scanner.Text(), true
}
