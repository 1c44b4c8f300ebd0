package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kilianp07/ferry/core/model"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <length>...",
		Short: "Print the vehicle category of each length in centimetres",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				n, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("invalid length %q: %w", a, err)
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%dcm\t%s\n", n, model.Classify(n)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
