package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/NABat/tools/cmd/nabat/bulkupload"
	"github.com/NABat/tools/cmd/nabat/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// recordings expands directories in paths to the .wav files below them.
func recordings(paths []string, recursive bool) ([]string, error) {
	var files []string

	for _, path := range paths {
		stat, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !stat.IsDir() {
			files = append(files, path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if p != path && !recursive {
					return filepath.SkipDir
				}

				return nil
			}

			if strings.ToLower(filepath.Ext(p)) == ".wav" {
				files = append(files, p)
			}

			return nil
		})

		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

var metadataCmd = &cobra.Command{
	Use: "update-metadata <path>...",

	Short: "Writes the NABat GUANO tags of recordings.",

	Long: `The NABat|Grid Cell GRTS ID and NABat|Site Name tags are set from the
recording name. With --from, the NABat tags are also set from the matching
row of a bulk upload file, matched by Audio Recording Name.`,

	Example: `
  nabat update-metadata ./recordings
  nabat update-metadata --from ./recordings/_batchupload.csv ./recordings`,

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Usage()
			os.Exit(1)
		}

		logger := logging.Logger()

		files, err := recordings(args, viper.GetBool("update-metadata.recursive"))
		if err != nil {
			cmd.Println(err)
			os.Exit(1)
		}

		index := make(map[string]*bulkupload.Record)

		if path := viper.GetString("update-metadata.from"); path != "" {
			records, err := bulkupload.ReadFile(path)
			if err != nil {
				cmd.Println(err)
				os.Exit(1)
			}

			for _, r := range records {
				index[r.AudioRecordingName] = r
			}
		}

		var updated, failed int

		for _, path := range files {
			rec := index[filepath.Base(path)]

			if _, err := bulkupload.UpdateMetadata(path, rec); err != nil {
				logger.Warnw("metadata not updated", "path", path, "error", err)
				failed++
				continue
			}

			logger.Debugw("updated metadata", "path", path, "row", rec != nil)
			updated++
		}

		cmd.Printf("Updated %d of %d recordings\n", updated, len(files))

		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	flags := metadataCmd.Flags()

	flags.String("from", "", "Bulk upload file to take NABat tag values from.")
	flags.BoolP("recursive", "r", true, "Include recordings in subdirectories.")

	viper.BindPFlag("update-metadata.from", flags.Lookup("from"))
	viper.BindPFlag("update-metadata.recursive", flags.Lookup("recursive"))
}
