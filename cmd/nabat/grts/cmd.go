package grts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/NABat/tools/cmd/nabat/frames"
	"github.com/NABat/tools/cmd/nabat/logging"
	"github.com/NABat/tools/cmd/nabat/wfs"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Cmd = &cobra.Command{
	Use: "grts",

	Short: "Commands for the GRTS cells of the NABat sampling frames.",

	Long: `Each sampling frame is a grid of 10km (5km in Hawaii and Puerto Rico)
cells ordered by a GRTS draw. Lookups between coordinates and GRTS ids use
the frame lookup tables, one <Frame>.csv per frame with frame_id and GRTS_ID
columns, found in the directory given by --lookup-dir.`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func index() *Index {
	return NewIndex(viper.GetString("grts.lookup-dir"), logging.Logger())
}

var lookupCmd = &cobra.Command{
	Use: "lookup <latitude> <longitude>",

	Short: "Prints the GRTS id of the cell containing a WGS84 coordinate.",

	Example: `
  nabat grts lookup --frame=conus 40.75384858 -113.8450646`,

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			cmd.Usage()
			os.Exit(1)
		}

		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			cmd.Printf("Invalid latitude: %s\n", args[0])
			os.Exit(1)
		}

		lon, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			cmd.Printf("Invalid longitude: %s\n", args[1])
			os.Exit(1)
		}

		id, err := index().GRTS(lat, lon, viper.GetString("grts.frame"))
		if err != nil {
			cmd.Println(err)
			os.Exit(1)
		}

		fmt.Fprintln(cmd.OutOrStdout(), id)
	},
}

var geometryCmd = &cobra.Command{
	Use: "geometry <grts id>",

	Short: "Prints the geometry of a GRTS cell.",

	Example: `
  nabat grts geometry --frame=conus 1005
  nabat grts geometry --frame=conus --format=geojson --proj=native 1005`,

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			cmd.Usage()
			os.Exit(1)
		}

		id, err := strconv.Atoi(args[0])
		if err != nil {
			cmd.Printf("Invalid GRTS id: %s\n", args[0])
			os.Exit(1)
		}

		p, err := ParseProjection(viper.GetString("grts.geometry.proj"))
		if err != nil {
			cmd.Println(err)
			os.Exit(1)
		}

		frame := viper.GetString("grts.frame")
		x := index()

		switch format := viper.GetString("grts.geometry.format"); format {
		case "bounds":
			b, err := x.Bounds(id, frame, p)
			if err != nil {
				cmd.Println(err)
				os.Exit(1)
			}

			fmt.Fprintf(os.Stdout, "%f,%f,%f,%f\n", b.Min[0], b.Min[1], b.Max[0], b.Max[1])

		case "geojson":
			poly, err := x.Polygon(id, frame, p)
			if err != nil {
				cmd.Println(err)
				os.Exit(1)
			}

			f := geojson.NewFeature(poly)
			f.Properties["GRTS_ID"] = id
			f.Properties["frame"] = frame

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")

			if err := enc.Encode(f); err != nil {
				cmd.Println(err)
				os.Exit(1)
			}

		default:
			cmd.Printf("Format %q must be one of bounds or geojson\n", format)
			os.Exit(1)
		}
	},
}

var fetchCmd = &cobra.Command{
	Use: "fetch",

	Short: "Downloads the GRTS cells of a frame from ScienceBase as GeoJSON.",

	Example: `
  nabat grts fetch --frame=conus --state=Utah --high-priority > utah.geojson`,

	Run: func(cmd *cobra.Command, args []string) {
		client, err := wfs.New(viper.GetString("wfs.url"), viper.GetDuration("wfs.timeout"), logging.Logger())
		if err != nil {
			cmd.Println(err)
			os.Exit(1)
		}

		q := &wfs.Query{
			State:        viper.GetString("grts.fetch.state"),
			HighPriority: viper.GetBool("grts.fetch.high-priority"),
		}

		fc, err := client.Cells(context.Background(), viper.GetString("grts.frame"), q)
		if err != nil {
			cmd.Println(err)
			os.Exit(1)
		}

		out := os.Stdout

		if path := viper.GetString("grts.fetch.out"); path != "" {
			if out, err = os.Create(path); err != nil {
				cmd.Println(err)
				os.Exit(1)
			}

			defer out.Close()
		}

		b, err := fc.MarshalJSON()
		if err != nil {
			cmd.Println(err)
			os.Exit(1)
		}

		out.Write(b)
		out.Write([]byte("\n"))

		cmd.Printf("Fetched %d cells\n", len(fc.Features))
	},
}

func init() {
	pflags := Cmd.PersistentFlags()

	pflags.String("frame", frames.Conus, "Sampling frame: Alaska, Canada, Conus, Hawaii, Mexico or PuertoRico.")
	pflags.String("lookup-dir", "lookups", "Directory of the frame lookup tables.")

	viper.BindPFlag("grts.frame", pflags.Lookup("frame"))
	viper.BindPFlag("grts.lookup-dir", pflags.Lookup("lookup-dir"))

	// Longitudes in the frames are negative and must not parse as flags.
	lookupCmd.Flags().SetInterspersed(false)

	flags := geometryCmd.Flags()

	flags.String("format", "bounds", "Output format: bounds or geojson.")
	flags.String("proj", "wgs84", "Projection of the output: wgs84 or native.")

	viper.BindPFlag("grts.geometry.format", flags.Lookup("format"))
	viper.BindPFlag("grts.geometry.proj", flags.Lookup("proj"))

	flags = fetchCmd.Flags()

	flags.String("state", "", "Only cells intersecting the named state or province.")
	flags.Bool("high-priority", false, "Only the high priority cells (top 5%) of the frame.")
	flags.String("out", "", "File to write the GeoJSON to. Defaults to stdout.")
	flags.String("url", wfs.DefaultServiceURL, "ScienceBase mapping service URL.")
	flags.Duration("timeout", 0, "HTTP timeout. Zero means no timeout.")

	viper.BindPFlag("grts.fetch.state", flags.Lookup("state"))
	viper.BindPFlag("grts.fetch.high-priority", flags.Lookup("high-priority"))
	viper.BindPFlag("grts.fetch.out", flags.Lookup("out"))
	viper.BindPFlag("wfs.url", flags.Lookup("url"))
	viper.BindPFlag("wfs.timeout", flags.Lookup("timeout"))

	Cmd.AddCommand(lookupCmd)
	Cmd.AddCommand(geometryCmd)
	Cmd.AddCommand(fetchCmd)
}
