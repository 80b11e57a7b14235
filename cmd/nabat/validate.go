package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/NABat/tools/cmd/nabat/bulkupload"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use: "validate <path>...",

	Short: "Validates bulk upload files.",

	Long: `Checks each row of a bulk upload file: the GRTS cell id is a positive
integer, the location name is present, coordinates are in range, times parse
and the survey starts before it ends, and the recording is a .wav file.
Directories are searched for _batchupload.csv files.`,

	Example: `
  nabat validate ./recordings
  nabat validate upload.csv`,

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Println("At least one path is required.")
			os.Exit(1)
		}

		bold := color.New(color.Bold, color.FgRed).SprintFunc()
		ok := color.New(color.FgGreen).SprintFunc()

		hasErrors := false

		for _, path := range args {
			files, err := bulkupload.Find(path)
			if err != nil {
				fmt.Printf("Error inspecting '%s': %s\n", path, err)
				hasErrors = true
				continue
			}

			for _, file := range files {
				records, lines, err := bulkupload.ReadFileLines(file)
				if err != nil {
					fmt.Printf("Error reading '%s': %s\n", file, err)
					hasErrors = true
					continue
				}

				errs := bulkupload.Validate(records)

				if len(errs) == 0 {
					fmt.Printf("%s: %s\n", file, ok("everything looks good"))
					continue
				}

				hasErrors = true

				fmt.Printf("* Errors found in '%s':\n", bold(file))

				idx := make([]int, 0, len(errs))
				for i := range errs {
					idx = append(idx, i)
				}

				sort.Ints(idx)

				for _, i := range idx {
					fmt.Printf("    line %d: %s\n", lines[i], strings.Join(errs[i], ", "))
				}

				fmt.Println("")
			}
		}

		if hasErrors {
			os.Exit(1)
		}
	},
}
