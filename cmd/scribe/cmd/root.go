package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"legal-scribe/cmd/scribe/cmd/serve"
	"legal-scribe/cmd/scribe/cmd/transcribe"
	"legal-scribe/cmd/scribe/cmd/version"
)

var Verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Speech-to-text transcription for legal discovery",
	Long: `Speech-to-text transcription for legal discovery.

- serve runs the HTTP API the browser front end talks to
- transcribe runs local audio files through a provider from the terminal
- exports are available as text, JSON, PDF, or XLSX`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
}
