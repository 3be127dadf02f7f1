package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ringmask/ringmask/pkg/overlay"
)

// defaultsCmd represents the defaults command
var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the effective styling defaults",
	Long: `Prints the styling defaults every new slide and look-and-feel starts
from, after the config file has been applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "SETTING\tVALUE\t")
		fmt.Fprintf(w, "tint color\t%s\t\n", overlay.DefaultTintColor())
		fmt.Fprintf(w, "ring count\t%d\t\n", overlay.DefaultRingCount())
		fmt.Fprintf(w, "ring thickness\t%d px\t\n", overlay.DefaultRingThickness())
		fmt.Fprintf(w, "padding\t%d px\t\n", overlay.DefaultPadding())
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(defaultsCmd)
}
