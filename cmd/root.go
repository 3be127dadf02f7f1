package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ringmask/ringmask/internal/utils"
	"github.com/ringmask/ringmask/pkg/compositor"
	"github.com/ringmask/ringmask/pkg/overlay"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ringmask",
	Short: "Coach-mark overlay engine: decide what is new, composite the mask.",
	Long: `ringmask drives versioned coach-mark overlays: it keeps a ledger of
what the user has already seen, decides per slide and per ring whether
anything is new, and composites a dimmed mask with ring-highlighted
holes around the regions worth pointing at.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ringmask.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".ringmask")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.ringmask.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default values for all keys
	viper.SetDefault("defaults.tintcolor", compositor.ARGB(0xC0000000).String())
	viper.SetDefault("defaults.ringcount", 4)
	viper.SetDefault("defaults.ringthickness", 10)
	viper.SetDefault("defaults.padding", 2)
	viper.SetDefault("ledger.path", "ringmask.sqlite")
	viper.SetDefault("ledger.remote", "")

	applyDefaults()

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

// applyDefaults pushes the configured styling defaults into the overlay
// engine so every slide and look-and-feel built afterwards picks them up.
func applyDefaults() {
	if tint, err := utils.ParseARGB(viper.GetString("defaults.tintcolor")); err == nil {
		overlay.SetDefaultTintColor(compositor.ARGB(tint))
	} else {
		utils.Log.Warnf("ignoring bad defaults.tintcolor: %v", err)
	}
	if n := viper.GetInt("defaults.ringcount"); n > 0 {
		overlay.SetDefaultRingCount(n)
	}
	if px := viper.GetInt("defaults.ringthickness"); px > 0 {
		overlay.SetDefaultRingThickness(px)
	}
	if px := viper.GetInt("defaults.padding"); px >= 0 {
		overlay.SetDefaultPadding(px)
	}
}
