// Command gribjump reads GRIB2 messages and extracts individual
// grid-point values or ranges without unpacking a whole field.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gribjump",
		Short:         "Random-access value extraction for GRIB2 messages",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newExtractCmd())
	root.AddCommand(newMetaCmd())
	root.AddCommand(newQueryCmd())

	return root
}
