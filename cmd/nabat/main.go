package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/NABat/tools/cmd/nabat/catalog"
	"github.com/NABat/tools/cmd/nabat/generate"
	"github.com/NABat/tools/cmd/nabat/grts"
	"github.com/NABat/tools/cmd/nabat/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	// Site time zones must resolve on hosts without a zoneinfo database.
	_ "time/tzdata"
)

var mainCmd = &cobra.Command{
	Use: "nabat",

	Short: "Commands for managing North American Bat Monitoring Program data.",

	Long: `Tools for NABat acoustic surveys: GRTS cell lookups for the sampling
frames, recording name parsing, GUANO metadata and bulk upload files.

Options may also be set in a nabat.yaml file in the current or home directory,
or with NABAT_ prefixed environment variables, e.g. NABAT_GRTS_LOOKUP_DIR.`,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initConfig()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use: "version",

	Short: "Prints the version of the program.",

	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "%s\n", progVersion)
	},
}

func initConfig() {
	if path := viper.GetString("config"); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("nabat")
		viper.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("nabat")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config: %s\n", err)
			os.Exit(1)
		}

		return
	}

	logging.Logger().Debugw("loaded config", "path", viper.ConfigFileUsed())
}

func init() {
	pflags := mainCmd.PersistentFlags()

	pflags.String("config", "", "Path to a config file. Defaults to nabat.yaml in the current or home directory.")
	pflags.BoolP("verbose", "v", false, "Log debug output to stderr.")

	viper.BindPFlag("config", pflags.Lookup("config"))
	viper.BindPFlag("verbose", pflags.Lookup("verbose"))

	mainCmd.AddCommand(versionCmd)
	mainCmd.AddCommand(framesCmd)
	mainCmd.AddCommand(parseCmd)
	mainCmd.AddCommand(metadataCmd)
	mainCmd.AddCommand(autoTimesCmd)
	mainCmd.AddCommand(validateCmd)
	mainCmd.AddCommand(queryCmd)
	mainCmd.AddCommand(generate.Cmd)
	mainCmd.AddCommand(grts.Cmd)
	mainCmd.AddCommand(catalog.Cmd)
}

func main() {
	defer logging.Sync()

	if err := mainCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
