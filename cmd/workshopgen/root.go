package main

import (
	"fmt"
	"os"

	"github.com/nao1215/workshopgen/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. Running it without a subcommand
// generates the workshop file.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workshopgen",
		Short: "Generate a Garry's Mod workshop.lua from a Steam Workshop collection",
		Long: `workshopgen downloads a Steam Workshop collection page and writes a Lua file
that makes a Garry's Mod server send every item of the collection to its
clients (one resource.AddWorkshop line per item).

Progress is logged to stderr. If the output file cannot be opened the
generated content is printed to stdout instead.

Examples:
  # Generate ./workshop.lua for the default collection
  workshopgen

  # Generate for a specific collection into the server autorun directory
  workshopgen -i 1182709177 -o garrysmod/lua/autorun/server

  # Custom file name, errors only
  workshopgen -i 1182709177 -f content.lua -q

  # Do not record the run in the history database
  workshopgen --no-history`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGenerateCmd,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Directory the generated file is written to")
	cmd.Flags().StringP("filename", "f", config.DefaultFilename,
		"Name of the generated file")
	cmd.Flags().StringP("id", "i", config.DefaultCollectionID,
		"Steam Workshop collection id")
	cmd.Flags().BoolP("quiet", "q", false,
		"Only log errors")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .workshopgen in current or home directory)")
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")
	cmd.Flags().String("history-dir", config.XDGDataDir(),
		"Directory of the history database")
	cmd.Flags().String("base-url", config.DefaultBaseURL,
		"Endpoint the collection id is appended to")
	_ = cmd.Flags().MarkHidden("base-url")

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
