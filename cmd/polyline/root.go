package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gogpu/polyline"
	"github.com/gogpu/polyline/ellipsoid"
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "polyline",
	Short: "Tessellate polylines on an ellipsoid",
	Long: `
polyline reads GeoJSON line strings, subdivides them along geodesics or rhumb
lines and reports the resulting line meshes. It can also pack the geometries
into the flat float buffer used to hand them to background workers.`,
	SilenceUsage: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		setupLogging()
	},
}

// conf holds flag, environment and config file values. Flags take
// precedence over environment variables, which override the config file.
var conf = viper.New()

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.String("config", "",
		"Configuration file. Overridden by environment variables and flags.")
	flags.BoolP("verbose", "v", false, "Log debug output to stderr.")
	flags.String("line-type", "geodesic", "Path between positions: geodesic, rhumb or straight.")
	flags.Float64("granularity", polyline.DefaultGranularity,
		"Maximum angle in radians between subdivided vertices.")
	flags.Float64("width", 1, "Line width, used when the input has no stroke-width.")
	flags.Bool("follow-surface", true, "Subdivide segments along the ellipsoid surface.")
	flags.Bool("per-vertex", false, "Interpret colors per vertex instead of per segment.")
	flags.String("ellipsoid", "wgs84", "Reference ellipsoid: wgs84, unit or rx,ry,rz in meters.")

	RootCmd.AddCommand(tessellateCmd, packCmd)

	bindFlags(conf, flags, tessellateCmd.Flags(), packCmd.Flags())
	conf.SetEnvPrefix("POLYLINE")
	conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	conf.AutomaticEnv()

	cobra.OnInitialize(func() {
		cfg := conf.GetString("config")
		if cfg == "" {
			return
		}
		conf.SetConfigFile(cfg)
		if err := conf.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "reading config %s: %v\n", cfg, err)
			os.Exit(1)
		}
	})
}

func bindFlags(v *viper.Viper, sets ...*flag.FlagSet) {
	for _, fs := range sets {
		if err := v.BindPFlags(fs); err != nil {
			panic(err)
		}
	}
}

func setupLogging() {
	if !conf.GetBool("verbose") {
		return
	}
	polyline.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))
}

// geometryOptions builds polyline options from the configuration.
// Width is only set when given explicitly so that stroke-width properties
// still apply.
func geometryOptions(v *viper.Viper) ([]polyline.Option, error) {
	lineType, err := polyline.ParseLineType(v.GetString("line-type"))
	if err != nil {
		return nil, err
	}
	e, err := parseEllipsoid(v.GetString("ellipsoid"))
	if err != nil {
		return nil, err
	}

	opts := []polyline.Option{
		polyline.WithLineType(lineType),
		polyline.WithGranularity(v.GetFloat64("granularity")),
		polyline.WithFollowSurface(v.GetBool("follow-surface")),
		polyline.WithColorsPerVertex(v.GetBool("per-vertex")),
		polyline.WithEllipsoid(e),
	}
	if v.IsSet("width") {
		opts = append(opts, polyline.WithWidth(v.GetFloat64("width")))
	}
	return opts, nil
}

func parseEllipsoid(s string) (*ellipsoid.Ellipsoid, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wgs84":
		return ellipsoid.WGS84, nil
	case "unit":
		return ellipsoid.UnitSphere, nil
	}

	var x, y, z float64
	if _, err := fmt.Sscanf(s, "%g,%g,%g", &x, &y, &z); err != nil {
		return nil, fmt.Errorf("ellipsoid %q: want wgs84, unit or rx,ry,rz: %w", s, err)
	}
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, fmt.Errorf("ellipsoid %q: radii must be positive", s)
	}
	return ellipsoid.New(x, y, z), nil
}
