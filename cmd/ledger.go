package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ringmask/ringmask/pkg/ledger"
)

// ledgerCmd represents the ledger command
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Interact with the visibility ledger database",
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every recorded identity and the version the user last saw",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openLedgerDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.List(context.Background())
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("The ledger is empty: everything will count as new.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "SCOPE\tSEEN VERSION\tSEEN AT\t")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t\n", e.Scope, e.Triple, e.SeenAt.Format("2006-01-02 15:04:05"))
		}
		w.Flush()
		return nil
	},
}

// forgetCmd represents the forget command
var forgetCmd = &cobra.Command{
	Use:   "forget <scope>...",
	Short: "Remove recorded identities so they count as new again",
	Long: `Removes ledger records by scope, as printed by "ledger list"
(overlay, overlay/slide, or overlay/slide/ring). Forgetting an overlay
scope does not cascade to its slides or rings.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openLedgerDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		for _, scope := range args {
			db.Unregister(splitScope(scope))
			fmt.Printf("Forgot %s\n", scope)
		}
		return nil
	},
}

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the ledger entirely",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openLedgerDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.List(context.Background())
		if err != nil {
			return err
		}
		for _, e := range entries {
			db.Unregister(splitScope(e.Scope))
		}
		fmt.Printf("Removed %d record(s).\n", len(entries))
		return nil
	},
}

// shellCmd represents the shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive shell to the ledger database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ledgerDBPath(cmd)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("ledger database not found: %s", path)
		}

		// Check if sqlite3 is in PATH
		sqlitePath, err := exec.LookPath("sqlite3")
		if err != nil {
			return fmt.Errorf("sqlite3 command not found in your PATH. Please install it to use the ledger shell")
		}

		// Print schema first
		fmt.Println("--> Ledger schema:")
		schemaCmd := exec.Command(sqlitePath, path, ".schema")
		schemaCmd.Stdout = os.Stdout
		schemaCmd.Stderr = os.Stderr
		if err := schemaCmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: couldn't retrieve schema: %v\n", err)
		}
		fmt.Println("\n--> Starting interactive shell... (Ctrl+D to exit)")

		c := exec.Command(sqlitePath, path)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr

		return c.Run()
	},
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
	ledgerCmd.AddCommand(listCmd)
	ledgerCmd.AddCommand(forgetCmd)
	ledgerCmd.AddCommand(clearCmd)
	ledgerCmd.AddCommand(shellCmd)
	ledgerCmd.PersistentFlags().String("path", "", "Ledger database path (default from config ledger.path)")
}

func ledgerDBPath(cmd *cobra.Command) string {
	path, _ := cmd.Parent().PersistentFlags().GetString("path")
	if path == "" {
		path = viper.GetString("ledger.path")
	}
	return path
}

func openLedgerDB(cmd *cobra.Command) (*ledger.SQLite, error) {
	return ledger.OpenSQLite(ledgerDBPath(cmd))
}

// splitScope parses a scope string back into a ledger key. Scopes print
// as overlay[/slide[/ring]].
func splitScope(scope string) ledger.Key {
	parts := strings.SplitN(scope, "/", 3)
	key := ledger.Key{Overlay: parts[0]}
	if len(parts) > 1 {
		key.Slide = parts[1]
	}
	if len(parts) > 2 {
		key.Ring = parts[2]
	}
	return key
}
