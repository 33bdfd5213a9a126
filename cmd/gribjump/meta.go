package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecmwf/gribjump"
)

// newMetaCmd prints the harvested GribInfo records of a metadata file
// as JSON, for inspection.
func newMetaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "meta <metadata-file>",
		Short: "Print the GribInfo records stored in a metadata file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := gribjump.ReadMetaFile(args[0])
			if err != nil {
				return err
			}
			for i, info := range infos {
				data, err := info.ToJSON()
				if err != nil {
					return err
				}
				fmt.Printf("--- message %d ---\n%s\n", i, data)
			}
			return nil
		},
	}
}
