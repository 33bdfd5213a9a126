package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ecmwf/gribjump"
)

// newQueryCmd mirrors the original tool's "--query --msg=N data.grib
// i0 i1 i2 ..." mode: given a metadata file and a message index, pull
// either a single value or a set of [start,end) ranges. A point can
// also be named by --lat/--lon instead of a logical index, resolved
// against the message's Lambert grid.
func newQueryCmd() *cobra.Command {
	var metaPath string
	var msgIndex int
	var lat, lon float64

	cmd := &cobra.Command{
		Use:   "query <grib-file> [index-or-range-pairs...]",
		Short: "Query one or more values from a GRIB2 message by logical index or lat/lon",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gribPath := args[0]
			if metaPath == "" {
				metaPath = gribPath + ".bin"
			}

			infos, err := gribjump.ReadMetaFile(metaPath)
			if err != nil {
				return err
			}
			if msgIndex < 0 || msgIndex >= len(infos) {
				return fmt.Errorf("message index %d out of range (file has %d messages)", msgIndex, len(infos))
			}
			info := infos[msgIndex]

			ex, err := gribjump.NewExtractor(info)
			if err != nil {
				return err
			}

			r, err := gribjump.OpenFileByteReader(gribPath)
			if err != nil {
				return err
			}
			defer r.Close()

			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
					return fmt.Errorf("--lat and --lon must be given together")
				}
				index, err := logicalIndexForLatLon(gribPath, info, lat, lon)
				if err != nil {
					return err
				}
				v, err := ex.ValueAt(r, index)
				if err != nil {
					return err
				}
				fmt.Printf("value: %v\n", v)
				return nil
			}

			rest := args[1:]
			if len(rest) == 0 {
				return fmt.Errorf("no index, range, or --lat/--lon given")
			}
			if len(rest) == 1 {
				index, err := strconv.ParseInt(rest[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid index %q: %w", rest[0], err)
				}
				v, err := ex.ValueAt(r, index)
				if err != nil {
					return err
				}
				fmt.Printf("value: %v\n", v)
				return nil
			}

			if len(rest)%2 != 0 {
				return fmt.Errorf("range arguments must come in start/end pairs, got %d values", len(rest))
			}
			var ranges []gribjump.Range
			for i := 0; i < len(rest); i += 2 {
				start, err := strconv.ParseInt(rest[i], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid range start %q: %w", rest[i], err)
				}
				end, err := strconv.ParseInt(rest[i+1], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid range end %q: %w", rest[i+1], err)
				}
				ranges = append(ranges, gribjump.Range{Start: start, End: end})
			}
			values, err := ex.ValuesInRanges(r, ranges)
			if err != nil {
				return err
			}
			fmt.Printf("values: %v\n", values)
			return nil
		},
	}

	cmd.Flags().StringVar(&metaPath, "meta", "", "metadata file to read (default: <grib-file>.bin)")
	cmd.Flags().IntVar(&msgIndex, "msg", 0, "which message (0-based) to query")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude (degrees north) to resolve to a logical index")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude (degrees east) to resolve to a logical index")
	return cmd
}

// logicalIndexForLatLon re-parses the message's own Section 3 (the
// metadata file doesn't carry grid geometry) and maps (lat, lon) to
// the logical index Extractor expects.
func logicalIndexForLatLon(gribPath string, info *gribjump.GribInfo, lat, lon float64) (int64, error) {
	data, err := os.ReadFile(gribPath)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", gribPath, err)
	}
	start := info.MsgStartOffset
	end := start + info.TotalLength
	if end > uint64(len(data)) {
		return 0, fmt.Errorf("message bounds [%d,%d) exceed file length %d", start, end, len(data))
	}
	raw := data[start:end]

	grid, err := gribjump.ParseLambertGrid(raw)
	if err != nil {
		return 0, err
	}
	gi := gribjump.GridIndex{Grid: grid}
	index, ok := gi.LogicalIndex(lat, lon)
	if !ok {
		return 0, fmt.Errorf("(%g, %g) falls outside the grid", lat, lon)
	}
	return index, nil
}
