package main

import (
	"os"
	"path/filepath"

	"github.com/NABat/tools/cmd/nabat/bulkupload"
	"github.com/NABat/tools/cmd/nabat/fname"
	"github.com/NABat/tools/cmd/nabat/logging"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var parseCmd = &cobra.Command{
	Use: "parse-filename <path>...",

	Short: "Parses the GRTS id, site name and time from recording names.",

	Long: `Recorders and analysis software mangle the NABat recording name
<GRTS id>_<site>_<YYYYMMDD>_<HHMMSS>.wav in various ways. The names are
normalized and the parts are printed with the canonical name. Use --rename
to rename the files to their canonical name.`,

	Example: `
  nabat parse-filename "NABat_1005-NE_20190704_231500_000.wav"
  nabat parse-filename --rename ./recordings/*.wav`,

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Usage()
			os.Exit(1)
		}

		rename := viper.GetBool("parse-filename.rename")
		logger := logging.Logger()

		tw := tablewriter.NewWriter(os.Stdout)
		tw.SetAutoFormatHeaders(false)
		tw.SetHeader([]string{"Path", "GRTS Cell Id", "Site Name", "Recording Time", "Name"})

		failed := false

		for _, path := range args {
			p, err := fname.Parse(path)
			if err != nil {
				logger.Warnw("skipping file", "path", path, "error", err)
				failed = true
				continue
			}

			name := p.Filename()
			tw.Append([]string{path, p.GrtsID, p.SiteName, p.Time.Format(bulkupload.TimeLayout), name})

			if !rename || filepath.Base(path) == name {
				continue
			}

			dest := filepath.Join(filepath.Dir(path), name)

			if _, err := os.Stat(dest); err == nil {
				logger.Warnw("not renaming, destination exists", "path", path, "dest", dest)
				failed = true
				continue
			}

			if err := os.Rename(path, dest); err != nil {
				logger.Errorw("rename failed", "path", path, "error", err)
				failed = true
				continue
			}

			logger.Debugw("renamed", "path", path, "dest", dest)
		}

		tw.Render()

		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	flags := parseCmd.Flags()

	flags.Bool("rename", false, "Rename files to their canonical name.")

	viper.BindPFlag("parse-filename.rename", flags.Lookup("rename"))
}
