package cmd

import (
	"github.com/spf13/cobra"

	alfserrors "github.com/DrMatrix007/matrix-alfs/internal/errors"
)

func newPartitionsCmd(h *host) *cobra.Command {
	return &cobra.Command{
		Use:   "partitions",
		Short: "Choose the boot and main partitions",
		Long: `List the host partitions and choose the boot and main partitions
for the build. Nothing on disk is modified.

Type 'exit' at either prompt to cancel.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel, ok, err := h.selector(cmd).SelectAll(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return alfserrors.New(alfserrors.ErrCodeSelectionCancelled, "cancelled selecting partitions", nil)
			}
			h.writer(cmd).Linef("Selected partitions: %s", sel)
			return nil
		},
	}
}
