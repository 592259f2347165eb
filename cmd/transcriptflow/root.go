package main

import (
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "transcriptflow",
	Short: "Improve, summarize and translate transcripts with Gemini",
	Long: `transcriptflow cleans up plain-text transcripts with Google Gemini:
it improves grammar, writes a short summary and optionally translates both.

Run "transcriptflow serve" for the browser API, "transcriptflow watch" to
process files dropped into the input folder, or "transcriptflow process"
for a one-off batch.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file loaded before the config")
}
