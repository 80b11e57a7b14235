package generate

import (
	"context"
	"os"
	"os/signal"

	"github.com/NABat/tools/cmd/nabat/bulkupload"
	"github.com/NABat/tools/cmd/nabat/logging"
	"github.com/NABat/tools/cmd/nabat/night"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Cmd = &cobra.Command{
	Use: "generate-bulkupload <dir>...",

	Short: "Generates NABat bulk upload files from folders of recordings.",

	Long: `Each directory holding .wav recordings, directly or in a subdirectory,
gets a _batchupload.csv with one row per recording. Rows are built from the
recording name and its GUANO metadata. Recordings whose metadata cannot be read
are listed in _problems.csv instead.

With --use-previous, directories that already have a _batchupload.csv and no
_problems.csv are not read again.

With --auto-times, empty survey start and end times are filled with the times
15 minutes after sunset and before sunrise of the monitoring night at the
configured site (site.latitude, site.longitude, site.timezone).`,

	Example: `
  nabat generate-bulkupload ./2019
  nabat generate-bulkupload --use-previous --auto-times --workers=4 ./2019`,

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Usage()
			os.Exit(1)
		}

		v, err := bulkupload.ParseVersion(viper.GetString("generate-bulkupload.version"))
		if err != nil {
			cmd.Println(err)
			os.Exit(1)
		}

		logger := logging.Logger()

		g := bulkupload.NewGenerator(logger)
		g.Version = v
		g.Recursive = viper.GetBool("generate-bulkupload.recursive")
		g.UsePrevious = viper.GetBool("generate-bulkupload.use-previous")

		if n := viper.GetInt("generate-bulkupload.workers"); n > 0 {
			g.Workers = n
		}

		if viper.GetBool("generate-bulkupload.auto-times") {
			if g.Site, err = night.SiteFromConfig(viper.GetViper()); err != nil {
				cmd.Println(err)
				os.Exit(1)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var records, problems int

		for _, dir := range args {
			res, err := g.Run(ctx, dir)
			if err != nil {
				cmd.Printf("Error generating bulk upload for '%s': %s\n", dir, err)
				os.Exit(1)
			}

			records += len(res.Records)
			problems += len(res.Problems)
		}

		cmd.Printf("Wrote %d records, %d problems\n", records, problems)
	},
}

func init() {
	flags := Cmd.Flags()

	flags.BoolP("recursive", "r", true, "Include recordings in subdirectories.")
	flags.Bool("use-previous", false, "Reuse existing bulk upload files without problems.")
	flags.Int("workers", 0, "Recordings read concurrently. Defaults to the number of CPUs.")
	flags.String("version", bulkupload.Latest.String(), "Bulk upload template version: 1 or 2.")
	flags.Bool("auto-times", false, "Fill empty survey times from sunset and sunrise at the site.")

	viper.BindPFlag("generate-bulkupload.recursive", flags.Lookup("recursive"))
	viper.BindPFlag("generate-bulkupload.use-previous", flags.Lookup("use-previous"))
	viper.BindPFlag("generate-bulkupload.workers", flags.Lookup("workers"))
	viper.BindPFlag("generate-bulkupload.version", flags.Lookup("version"))
	viper.BindPFlag("generate-bulkupload.auto-times", flags.Lookup("auto-times"))
}
