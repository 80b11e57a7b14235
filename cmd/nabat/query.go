package main

import (
	"io/ioutil"
	"os"

	"github.com/NABat/tools/cmd/nabat/bulkupload"
	"github.com/NABat/tools/cmd/nabat/catalog"
	"github.com/NABat/tools/cmd/nabat/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var queryCmd = &cobra.Command{
	Use: "query ( - | <sql> ) [<path>...]",

	Short: "Executes a SQL query against bulk upload files or a catalog.",

	Long: `Bulk upload files, or directories holding _batchupload.csv files, are
loaded into a transient recordings table before the query runs. Alternatively
--db queries a catalog built with 'catalog load'.`,

	Example: `
Inline:

  $ nabat query "select grts_cell_id, count(*) from recordings group by 1" ./recordings

Use - to read from stdin:

  $ nabat query - ./2019 ./2020
  select location_name, auto_id, count(*)
  from recordings
  group by location_name, auto_id
  ^D

Against a catalog:

  $ nabat query --db nabat.db "select distinct source from recordings"
`,

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			cmd.Usage()
			os.Exit(1)
		}

		dsn := viper.GetString("query.db")

		switch {
		case dsn == "" && len(args) < 2:
			cmd.Println("At least one path or --db is required.")
			os.Exit(1)

		case dsn != "" && len(args) > 1:
			cmd.Println("Paths cannot be combined with --db. Use 'catalog load' to add them.")
			os.Exit(1)

		case dsn == "":
			dsn = ":memory:"
		}

		stmt := args[0]

		// Read the SQL from stdin
		if stmt == "-" {
			b, err := ioutil.ReadAll(os.Stdin)
			if err != nil {
				cmd.Println(err)
				os.Exit(1)
			}

			stmt = string(b)
		}

		var (
			c   *catalog.Catalog
			err error
		)

		if dsn == ":memory:" {
			c, err = catalog.Open(dsn)
		} else {
			c, err = catalog.OpenReadOnly(dsn)
		}

		if err != nil {
			cmd.Println(err)
			os.Exit(1)
		}

		defer c.Close()

		logger := logging.Logger()

		for _, path := range args[1:] {
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

				if _, err := c.Load(file, records); err != nil {
					cmd.Println(err)
					os.Exit(1)
				}

				logger.Debugw("loaded", "path", file, "records", len(records))
			}
		}

		if err := c.Query(stmt, os.Stdout); err != nil {
			cmd.Printf("query error: %s\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	flags := queryCmd.Flags()

	flags.String("db", "", "Catalog database to query.")

	viper.BindPFlag("query.db", flags.Lookup("db"))
}
