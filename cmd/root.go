package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath   string
	portOverride string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "weave",
	Short: "Weave - model file storage API",
	Long: "Weave serves the /api/s3 routes of the Weave dashboard.\n\n" +
		"Users list their uploaded model files with signed download links\n" +
		"and upload new files through an external presign function.",
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVarP(&portOverride, "port", "p", "", "port to listen on (overrides PORT)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
