package main

import (
	"fmt"
	"os"

	"github.com/NABat/tools/cmd/nabat/bulkupload"
	"github.com/NABat/tools/cmd/nabat/fname"
	"github.com/NABat/tools/cmd/nabat/night"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var autoTimesCmd = &cobra.Command{
	Use: "auto-times <recording>...",

	Short: "Prints the automatic survey start and end times of recordings.",

	Long: `The survey of a monitoring night starts 15 minutes after sunset and
ends 15 minutes before the following sunrise. Recordings made before noon
belong to the previous night. Sun times are computed for the site set by
site.latitude, site.longitude and site.timezone (Denver by default).`,

	Example: `
  nabat auto-times 1005_NE_20190705_013000.wav
  nabat auto-times --latitude=40.75 --longitude=-113.84 1005_NE_20190705_013000.wav`,

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Usage()
			os.Exit(1)
		}

		site, err := night.SiteFromConfig(viper.GetViper())
		if err != nil {
			cmd.Println(err)
			os.Exit(1)
		}

		failed := false

		for _, path := range args {
			p, err := fname.Parse(path)
			if err != nil {
				cmd.Println(err)
				failed = true
				continue
			}

			start, end, err := site.AutoTimes(p.Time)
			if err != nil {
				cmd.Printf("%s: %s\n", path, err)
				failed = true
				continue
			}

			fmt.Fprintf(os.Stdout, "%s,%s,%s\n", path, start.Format(bulkupload.TimeLayout), end.Format(bulkupload.TimeLayout))
		}

		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	flags := autoTimesCmd.Flags()

	flags.Float64("latitude", night.Denver.Latitude, "Latitude of the site.")
	flags.Float64("longitude", night.Denver.Longitude, "Longitude of the site.")
	flags.String("timezone", night.DefaultTimezone, "IANA time zone of the site.")

	viper.BindPFlag("site.latitude", flags.Lookup("latitude"))
	viper.BindPFlag("site.longitude", flags.Lookup("longitude"))
	viper.BindPFlag("site.timezone", flags.Lookup("timezone"))
}
