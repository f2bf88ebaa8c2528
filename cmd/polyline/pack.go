package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/polyline"
	"github.com/gogpu/polyline/worker"
)

var packCmd = &cobra.Command{
	Use:   "pack [file]",
	Short: "Pack GeoJSON line strings into a flat float buffer",
	Long: `
pack converts every line string of a GeoJSON input into the packed parameter
layout, back to back, and writes the buffer as a JSON array or as
little-endian float64 values.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "-"
		if len(args) == 1 {
			name = args[0]
		}
		return runPack(name, cmd.OutOrStdout())
	},
}

func init() {
	flags := packCmd.Flags()
	flags.String("format", "json", "Output format: json or binary.")
	flags.StringP("output", "o", "", "Output file; standard output when empty.")
}

func runPack(name string, stdout io.Writer) error {
	opts, err := geometryOptions(conf)
	if err != nil {
		return err
	}
	data, err := readInput(name)
	if err != nil {
		return err
	}
	geometries, err := loadGeometries(data, opts)
	if err != nil {
		return err
	}

	var batch worker.Batch
	for _, g := range geometries {
		batch.Add(g)
	}
	polyline.Logger().Debug("packed", "geometries", batch.Len(), "values", len(batch.Buffer()),
		"layout", polyline.PackLayoutVersion)

	path := conf.GetString("output")
	if path == "" {
		return writePacked(stdout, conf.GetString("format"), batch.Buffer())
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writePacked(f, conf.GetString("format"), batch.Buffer()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writePacked(out io.Writer, format string, buf []float64) error {
	w := bufio.NewWriter(out)
	var err error
	switch format {
	case "json":
		err = json.NewEncoder(w).Encode(buf)
	case "binary":
		err = binary.Write(w, binary.LittleEndian, buf)
	default:
		return fmt.Errorf("unknown format %q, want json or binary", format)
	}
	if err != nil {
		return err
	}
	return w.Flush()
}
