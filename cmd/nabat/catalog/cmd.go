package catalog

import (
	"os"

	"github.com/NABat/tools/cmd/nabat/bulkupload"
	"github.com/NABat/tools/cmd/nabat/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Cmd = &cobra.Command{
	Use: "catalog",

	Short: "Manages a SQLite catalog of bulk upload records.",

	Long: `The catalog collects the rows of bulk upload files across seasons and
sites in a single recordings table. Each load is tagged with a load id and
the path of the file it came from. Query it with 'nabat query --db'.`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var loadCmd = &cobra.Command{
	Use: "load <path>...",

	Short: "Loads bulk upload files into the catalog.",

	Example: `
  nabat catalog load --db nabat.db ./2019 ./2020/upload.csv`,

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Usage()
			os.Exit(1)
		}

		logger := logging.Logger()

		c, err := Open(viper.GetString("catalog.db"))
		if err != nil {
			cmd.Println(err)
			os.Exit(1)
		}

		defer c.Close()

		for _, path := range args {
			files, err := bulkupload.Find(path)
			if err != nil {
				cmd.Println(err)
				os.Exit(1)
			}

			for _, file := range files {
				records, err := bulkupload.ReadFile(file)
				if err != nil {
					cmd.Println(err)
					os.Exit(1)
				}

				id, err := c.Load(file, records)
				if err != nil {
					cmd.Println(err)
					os.Exit(1)
				}

				logger.Infow("loaded", "path", file, "records", len(records), "load_id", id)
			}
		}
	},
}

var recordsCmd = &cobra.Command{
	Use: "records <grts id>",

	Short: "Writes the catalog records of a GRTS cell as a bulk upload file.",

	Example: `
  nabat catalog records --db nabat.db 1005 > 1005.csv`,

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			cmd.Usage()
			os.Exit(1)
		}

		v, err := bulkupload.ParseVersion(viper.GetString("catalog.records.version"))
		if err != nil {
			cmd.Println(err)
			os.Exit(1)
		}

		c, err := Open(viper.GetString("catalog.db"))
		if err != nil {
			cmd.Println(err)
			os.Exit(1)
		}

		defer c.Close()

		records, err := c.Records(args[0])
		if err != nil {
			cmd.Println(err)
			os.Exit(1)
		}

		w := bulkupload.NewWriter(os.Stdout, v)

		if err := w.WriteAll(records); err != nil {
			cmd.Println(err)
			os.Exit(1)
		}

		if err := w.Flush(); err != nil {
			cmd.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	pflags := Cmd.PersistentFlags()

	pflags.String("db", "nabat.db", "Path to the catalog database.")

	viper.BindPFlag("catalog.db", pflags.Lookup("db"))

	flags := recordsCmd.Flags()

	flags.String("version", bulkupload.Latest.String(), "Bulk upload template version: 1 or 2.")

	viper.BindPFlag("catalog.records.version", flags.Lookup("version"))

	Cmd.AddCommand(loadCmd)
	Cmd.AddCommand(recordsCmd)
}
