package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/vocabdb/internal/db"
	"github.com/roach88/vocabdb/internal/journal"
)

// JournalOptions holds flags shared by the journal subcommands.
type JournalOptions struct {
	*RootOptions
	Database string
	Store    string // store instance ID; optional when the journal holds one store
	AtSeq    int64  // snapshot only
}

// JournalRecord is the output form of one journal record.
type JournalRecord struct {
	Seq       int64  `json:"seq"`
	Batch     int64  `json:"batch"`
	Op        string `json:"op"`
	ElementID db.ID  `json:"element_id"`
	Type      string `json:"type"`
	DBString  string `json:"db_string"`
	Hash      string `json:"hash"`
}

// StoreInfo is the output form of a journal.StoreSummary.
type StoreInfo struct {
	StoreID  string `json:"store_id"`
	Entries  int64  `json:"entries"`
	Batches  int64  `json:"batches"`
	FirstSeq int64  `json:"first_seq"`
	LastSeq  int64  `json:"last_seq"`
}

// VerifyResult reports a hash chain check.
type VerifyResult struct {
	Intact  bool   `json:"intact"`
	Checked int    `json:"checked"`
	Seq     int64  `json:"seq,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// NewJournalCommand creates the journal command and its subcommands.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect a registry journal",
		Long: `Inspect a SQLite journal written by compile --journal.

Examples:
  vocabdb journal stores --db ./vocab.db
  vocabdb journal verify --db ./vocab.db
  vocabdb journal history 7 --db ./vocab.db
  vocabdb journal snapshot --db ./vocab.db --at 12 --format json`,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to the SQLite journal (required)")
	_ = cmd.MarkPersistentFlagRequired("db")
	cmd.PersistentFlags().StringVar(&opts.Store, "store", "", "store instance ID (default: the only store)")

	cmd.AddCommand(newJournalStoresCommand(opts))
	cmd.AddCommand(newJournalVerifyCommand(opts))
	cmd.AddCommand(newJournalHistoryCommand(opts))
	cmd.AddCommand(newJournalSnapshotCommand(opts))

	return cmd
}

func newJournalStoresCommand(opts *JournalOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "stores",
		Short:         "List the store instances recorded in the journal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(opts, cmd, func(ctx context.Context, f *OutputFormatter, j *journal.Journal) error {
				summaries, err := j.Stores(ctx)
				if err != nil {
					return f.fail(ExitCommandError, ErrCodeJournalFailed, err.Error(), nil)
				}
				stores := make([]StoreInfo, len(summaries))
				for i, s := range summaries {
					stores[i] = StoreInfo(s)
				}
				if f.JSON() {
					return f.Success(stores)
				}
				if len(stores) == 0 {
					fmt.Fprintln(f.Writer, "No stores recorded.")
					return nil
				}
				for _, s := range stores {
					fmt.Fprintf(f.Writer, "%s  %d entries  %d batches  seq %d-%d\n",
						s.StoreID, s.Entries, s.Batches, s.FirstSeq, s.LastSeq)
				}
				return nil
			})
		},
	}
}

func newJournalVerifyCommand(opts *JournalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Recompute the journal hash chain",
		Long: `Recompute every record hash and chain link from the first record.

Exit codes:
  0 - Journal intact
  1 - Journal corrupted
  2 - Command error`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(opts, cmd, func(ctx context.Context, f *OutputFormatter, j *journal.Journal) error {
				n, err := j.Verify(ctx)
				var corrupt *journal.CorruptionError
				switch {
				case errors.As(err, &corrupt):
					return outputCorruption(f, n, corrupt)
				case err != nil:
					return f.fail(ExitCommandError, ErrCodeJournalFailed, err.Error(), nil)
				}
				if f.JSON() {
					return f.Success(VerifyResult{Intact: true, Checked: n})
				}
				fmt.Fprintf(f.Writer, "✓ Journal intact: %d record(s) verified\n", n)
				return nil
			})
		},
	}
}

func outputCorruption(f *OutputFormatter, checked int, corrupt *journal.CorruptionError) error {
	if f.JSON() {
		if err := f.Encode(CLIResponse{
			Status: "error",
			Data:   VerifyResult{Checked: checked, Seq: corrupt.Seq, Reason: corrupt.Reason},
			Error:  &CLIError{Code: ErrCodeCorrupted, Message: corrupt.Error()},
		}); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(f.Writer, "✗ Journal corrupted at seq %d: %s\n", corrupt.Seq, corrupt.Reason)
		fmt.Fprintf(f.Writer, "  %d record(s) verified before the break\n", checked)
	}
	return WrapExitError(ExitFailure, "journal verification failed", corrupt)
}

func newJournalHistoryCommand(opts *JournalOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "history <element-id>",
		Short:         "Show every recorded version of one element",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(opts, cmd, func(ctx context.Context, f *OutputFormatter, j *journal.Journal) error {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil || id <= 0 {
					return f.fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("invalid element id %q", args[0]), nil)
				}
				storeID, err := resolveStore(ctx, j, opts.Store)
				if err != nil {
					return f.fail(ExitCommandError, ErrCodeJournalFailed, err.Error(), nil)
				}
				records, err := j.History(ctx, storeID, db.ID(id))
				if err != nil {
					return f.fail(ExitCommandError, ErrCodeJournalFailed, err.Error(), nil)
				}
				return outputRecords(f, records, fmt.Sprintf("No records for element %d.", id))
			})
		},
	}
}

func newJournalSnapshotCommand(opts *JournalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Show the elements registered at a point in the journal",
		Long: `Replay the records of one store and print the last recorded state of
every element still registered. --at stops the replay at that seq.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(opts, cmd, func(ctx context.Context, f *OutputFormatter, j *journal.Journal) error {
				storeID, err := resolveStore(ctx, j, opts.Store)
				if err != nil {
					return f.fail(ExitCommandError, ErrCodeJournalFailed, err.Error(), nil)
				}
				live, err := j.Snapshot(ctx, storeID, opts.AtSeq)
				if err != nil {
					return f.fail(ExitCommandError, ErrCodeJournalFailed, err.Error(), nil)
				}
				ids := make([]db.ID, 0, len(live))
				for id := range live {
					ids = append(ids, id)
				}
				slices.Sort(ids)
				records := make([]journal.Record, len(ids))
				for i, id := range ids {
					records[i] = live[id]
				}
				return outputRecords(f, records, "No elements registered.")
			})
		},
	}
	cmd.Flags().Int64Var(&opts.AtSeq, "at", 0, "replay up to and including this seq (0 = all)")
	return cmd
}

// withJournal opens the journal named by --db, runs fn and closes it.
// The journal must already exist.
func withJournal(opts *JournalOptions, cmd *cobra.Command, fn func(context.Context, *OutputFormatter, *journal.Journal) error) error {
	f := opts.formatter(cmd)
	if _, err := os.Stat(opts.Database); err != nil {
		return f.fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("journal not found: %s", opts.Database), nil)
	}
	j, err := journal.Open(opts.Database, journal.WithLogger(opts.newLogger(f.GetErrWriter())))
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeJournalFailed, fmt.Sprintf("opening journal: %v", err), nil)
	}
	defer j.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, f, j)
}

// resolveStore returns storeID, or the journal's only store when storeID
// is empty.
func resolveStore(ctx context.Context, j *journal.Journal, storeID string) (string, error) {
	if storeID != "" {
		return storeID, nil
	}
	stores, err := j.Stores(ctx)
	if err != nil {
		return "", err
	}
	switch len(stores) {
	case 0:
		return "", fmt.Errorf("journal is empty")
	case 1:
		return stores[0].StoreID, nil
	}
	return "", fmt.Errorf("journal holds %d stores; use --store", len(stores))
}

func outputRecords(f *OutputFormatter, records []journal.Record, empty string) error {
	out := make([]JournalRecord, len(records))
	for i, r := range records {
		out[i] = JournalRecord{
			Seq:       r.Seq,
			Batch:     r.Batch,
			Op:        string(r.Op),
			ElementID: r.ElementID,
			Type:      r.Type,
			DBString:  r.DBString,
			Hash:      r.Hash,
		}
	}
	if f.JSON() {
		return f.Success(out)
	}
	if len(out) == 0 {
		fmt.Fprintln(f.Writer, empty)
		return nil
	}
	for _, r := range out {
		fmt.Fprintf(f.Writer, "[%d] %s %d %s\n", r.Seq, r.Op, r.ElementID, r.DBString)
	}
	return nil
}
