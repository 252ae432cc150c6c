package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// settings is the viper instance every command binds its flags to.
var settings = viper.New()

var rootCmd = &cobra.Command{
	Use:   "serpscan",
	Short: "Track brand visibility across SERP features",
	Long: `serpscan searches a list of keywords, finds every mention of a brand in the
returned result pages and attributes each mention to a SERP feature
(organic results, ads, knowledge graph, related searches, ...).

Configuration is read from a .env file, environment variables and flags.
Set SERPAPI_KEY to query the provider, or PAYLOAD_DIR to scan saved responses.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log encoding (json or console)")
	rootCmd.PersistentFlags().String("payload-dir", "", "read saved payloads from this directory instead of the provider")
	_ = settings.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = settings.BindPFlag("LOG_FORMAT", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = settings.BindPFlag("PAYLOAD_DIR", rootCmd.PersistentFlags().Lookup("payload-dir"))

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}
