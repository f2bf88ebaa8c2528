package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/polyline"
	"github.com/gogpu/polyline/worker"
)

var tessellateCmd = &cobra.Command{
	Use:   "tessellate [file]",
	Short: "Tessellate GeoJSON line strings and print mesh statistics",
	Long: `
tessellate reads a GeoJSON FeatureCollection, Feature or LineString from a file
or standard input ("-"), tessellates every line string in parallel and prints
one line of statistics per mesh. With --preview it also draws the meshes on an
equirectangular PNG.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "-"
		if len(args) == 1 {
			name = args[0]
		}
		return runTessellate(cmd, name, cmd.OutOrStdout())
	},
}

func init() {
	flags := tessellateCmd.Flags()
	flags.Int("workers", 0, "Number of tessellation goroutines, 0 for GOMAXPROCS.")
	flags.String("preview", "", "Write an equirectangular PNG preview to this file.")
	flags.Int("preview-width", 1024, "Preview width in pixels; the height is half of it.")
}

func runTessellate(cmd *cobra.Command, name string, out io.Writer) error {
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
	meshes, err := worker.Tessellate(cmd.Context(), batch.Buffer(), batch.Len(),
		worker.WithWorkers(conf.GetInt("workers")))
	if err != nil {
		return err
	}

	printStats(out, geometries, meshes)

	if path := conf.GetString("preview"); path != "" {
		if err := writePreview(path, conf.GetInt("preview-width"), geometries, meshes); err != nil {
			return err
		}
		polyline.Logger().Debug("preview written", "path", path)
	}
	return nil
}

func printStats(w io.Writer, geometries []*polyline.Geometry, meshes []*polyline.Mesh) {
	p := message.NewPrinter(language.English)
	var vertices, segments int
	for i, m := range meshes {
		g := geometries[i]
		p.Fprintf(w, "line %d: %v, %d positions -> %d vertices, %d segments, bounding radius %.0f m\n",
			i, g.LineType(), g.NumPositions(), m.VertexCount(), m.SegmentCount(), m.BoundingSphere.Radius)
		vertices += m.VertexCount()
		segments += m.SegmentCount()
	}
	p.Fprintf(w, "total: %d lines, %d vertices, %d segments\n", len(meshes), vertices, segments)
}

func writePreview(path string, width int, geometries []*polyline.Geometry, meshes []*polyline.Mesh) error {
	if width < 2 {
		return fmt.Errorf("preview width %d is too small", width)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := renderPreview(f, width, geometries, meshes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
