package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/NABat/tools/cmd/nabat/frames"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var framesCmd = &cobra.Command{
	Use: "frames",

	Short: "Lists the NABat sampling frames.",

	Run: func(cmd *cobra.Command, args []string) {
		tw := tablewriter.NewWriter(os.Stdout)
		tw.SetAutoFormatHeaders(false)
		tw.SetHeader([]string{"Frame", "Cell (km)", "Columns", "Rows", "Parallels", "Origin", "Priority cutoff", "ScienceBase"})

		for _, name := range frames.Names() {
			s, _ := frames.Lookup(name)
			p := s.Projection

			tw.Append([]string{
				s.Name,
				strconv.FormatFloat(s.Meters/1000, 'f', -1, 64),
				strconv.Itoa(s.Cols()),
				strconv.Itoa(s.Rows()),
				fmt.Sprintf("%g, %g", p.Lat1, p.Lat2),
				fmt.Sprintf("%g, %g", p.Lat0, p.Lon0),
				strconv.Itoa(s.PriorityCutoff),
				s.ScienceBaseID,
			})
		}

		tw.Render()
	},
}
