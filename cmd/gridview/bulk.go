// Approve and reject commands: bulk status changes over selected rows.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mesh-intelligence/gridview/internal/source"
	"github.com/mesh-intelligence/gridview/pkg/engine"
	"github.com/spf13/cobra"
)

var approveCmd = &cobra.Command{
	Use:   "approve <id>...",
	Short: "Approve the rows with the given ids",
	Long: `Approve sets the status of every given row to "approved" in one bulk
operation. Ids may be full identifiers or any unambiguous value of the id
column.

Example:
  gridview approve 0198f2a1-1111-7abc-8def-000000000001`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBulk(cmd, args, engine.ActionApprove)
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject <id>...",
	Short: "Reject the rows with the given ids",
	Long: `Reject sets the status of every given row to "rejected" in one bulk
operation.

Example:
  gridview reject 0198f2a1-1111-7abc-8def-000000000001`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBulk(cmd, args, engine.ActionReject)
	},
}

// runBulk drives one confirm-and-submit cycle: the id arguments become the
// selection, the coordinator snapshots them, and the submit callback writes
// the new status. A failed submit leaves row statuses untouched so the same
// invocation can be retried.
func runBulk(cmd *cobra.Command, ids []string, kind engine.ActionKind) error {
	ctx := cmd.Context()

	src, err := openTable()
	if err != nil {
		fmt.Fprintln(os.Stderr, string(kind)+":", err)
		os.Exit(exitSysError)
	}
	defer src.Close()

	var affected int64
	coord := engine.NewCoordinator(func(ctx context.Context, ids []string, kind engine.ActionKind) error {
		n, err := src.SetStatus(ctx, ids, statusFor(kind))
		if err != nil {
			return err
		}
		affected = n
		return nil
	}, logger)

	sel := engine.NewSelection(ids...)
	req, err := coord.Open(kind, sel)
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}

	if _, err := coord.Submit(ctx); err != nil {
		return err
	}

	if flagJSON {
		fmt.Printf("{\"request_id\": %q, \"action\": %q, \"affected\": %d}\n",
			req.RequestID, kind, affected)
		return nil
	}
	fmt.Printf("Marked %d row(s) %s\n", affected, statusFor(kind))
	return nil
}

// statusFor maps a bulk action to the status value it writes.
func statusFor(kind engine.ActionKind) string {
	if kind == engine.ActionReject {
		return source.StatusRejected
	}
	return source.StatusApproved
}
