// Package cli implements the dumpcsv command-line surface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leengari/dumpcsv/internal/convert"
	"github.com/leengari/dumpcsv/internal/logging"
)

// Execute runs the CLI and returns the process exit code
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		outputDir  string
		nullMarker string
		delimiter  string
		configPath string
		seqURL     string
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:   "dumpcsv <dump-file>",
		Short: "Convert a MySQL dump file into one CSV file per table",
		Long: "dumpcsv parses the CREATE TABLE and INSERT statements of a MySQL dump\n" +
			"and writes one CSV file per table, header row included, into the output\n" +
			"directory.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Precedence: flag > config file > default
			if configPath != "" {
				fc, err := loadFileConfig(configPath)
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("null") && fc.NullMarker != nil {
					nullMarker = *fc.NullMarker
				}
				if !cmd.Flags().Changed("delimiter") && fc.Delimiter != "" {
					delimiter = fc.Delimiter
				}
			}

			delim, err := parseDelimiter(delimiter)
			if err != nil {
				return err
			}

			logger, closeFn := logging.Setup(seqURL, verbose)
			defer closeFn()

			_, err = convert.Run(convert.Options{
				DumpPath:   args[0],
				OutputDir:  outputDir,
				NullMarker: nullMarker,
				Delimiter:  delim,
				Logger:     logger,
			})
			return err
		},
	}

	rootCmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for the generated CSV files (required)")
	rootCmd.Flags().StringVar(&nullMarker, "null", "NULL", "text emitted for SQL NULL values")
	rootCmd.Flags().StringVar(&delimiter, "delimiter", ",", "CSV field delimiter (single character)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "optional YAML file with output options")
	rootCmd.Flags().StringVar(&seqURL, "seq-url", "", "forward logs to a Seq server at this URL")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	_ = rootCmd.MarkFlagRequired("output-dir")

	return rootCmd
}

func parseDelimiter(s string) (rune, error) {
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	if runes[0] == '"' || runes[0] == '\n' || runes[0] == '\r' {
		return 0, fmt.Errorf("delimiter %q conflicts with CSV quoting", s)
	}
	return runes[0], nil
}
