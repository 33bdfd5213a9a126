package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ecmwf/gribjump"
	"github.com/ecmwf/gribjump/internal/gjconfig"
	"github.com/ecmwf/gribjump/internal/gjlog"
)

// newExtractCmd mirrors the original tool's "--extract data.grib" mode:
// harvest every message's metadata and persist it to a binary metadata
// file for later "query" runs.
func newExtractCmd() *cobra.Command {
	var metaPath string

	cmd := &cobra.Command{
		Use:   "extract <grib-file>",
		Short: "Harvest GribInfo metadata from a GRIB2 file and write a metadata file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gribPath := args[0]
			if metaPath == "" {
				metaPath = gribPath + ".bin"
			}

			cfg, err := gjconfig.Load()
			if err != nil {
				return err
			}
			log := gjlog.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)

			data, err := os.ReadFile(gribPath)
			if err != nil {
				return fmt.Errorf("read %s: %w", gribPath, err)
			}

			infos, err := harvestAllMessages(data)
			if err != nil {
				return err
			}
			log.Info().Str("file", gribPath).Int("messages", len(infos)).Msg("harvested GribInfo")

			if err := gribjump.WriteMetaFile(metaPath, infos); err != nil {
				return err
			}
			log.Info().Str("meta", metaPath).Msg("wrote metadata file")
			return nil
		},
	}

	cmd.Flags().StringVar(&metaPath, "meta", "", "metadata file to write (default: <input>.bin)")
	return cmd
}

// harvestAllMessages walks every GRIB2 message in data, harvesting a
// GribInfo for each from its own section-framed offset range.
func harvestAllMessages(data []byte) ([]*gribjump.GribInfo, error) {
	var infos []*gribjump.GribInfo
	off := 0
	for off < len(data) {
		msgLen, err := gribjump.MessageLength(data[off:])
		if err != nil {
			return nil, fmt.Errorf("message at offset %d: %w", off, err)
		}
		raw := data[off : off+msgLen]

		hs, err := gribjump.ParseMessageHeader(raw)
		if err != nil {
			return nil, fmt.Errorf("message at offset %d: %w", off, err)
		}
		info := gribjump.NewGribInfo()
		if err := info.Update(hs); err != nil {
			return nil, fmt.Errorf("message at offset %d: %w", off, err)
		}
		info.MsgStartOffset = uint64(off)
		info.TotalLength = uint64(msgLen)
		infos = append(infos, info)

		off += msgLen
	}
	return infos, nil
}
