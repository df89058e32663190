package cmd

import (
	"fmt"
	"os"

	"github.com/jhprinz/chainstore/cmd/bench"
	"github.com/jhprinz/chainstore/cmd/util"
	"github.com/jhprinz/chainstore/lib/medium/engines/filemedium"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	Version = "0.3.1"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "chainstore",
		Short: "layered lookup cache with persistent column media",
		Long: fmt.Sprintf(`chainstore (v%s)

A composable multi-layer lookup and caching library written in Go:
chained key-value layers over in-memory caches and ordered-batch
column media, with write buffering and multi-destination fan-out.`, Version),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := util.BindCommandFlags(cmd); err != nil {
				return err
			}
			return util.InitLoggers(viper.GetString("log-level"))
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of chainstore",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("chainstore v%s\n", Version)
		},
	}

	// inspectCmd prints the header and cells of a column file
	inspectCmd = &cobra.Command{
		Use:   "inspect [file]",
		Short: "Inspect a column file",
		Long:  `Inspect a column file: print its cell dimension, value range and every written cell.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dim, _ := cmd.Flags().GetInt("dim")
			size, _ := cmd.Flags().GetInt("size")

			med, err := filemedium.Open(args[0], dim, uint64(size))
			if err != nil {
				return err
			}
			defer med.Close()

			fmt.Printf("file:   %s\n", args[0])
			fmt.Printf("dim:    %d\n", dim)
			fmt.Printf("values: %d\n", med.Size())

			for offset := uint64(0); offset < med.Size(); offset++ {
				v, err := med.GetValue(offset)
				if err != nil {
					return err
				}
				if v.IsAbsent() {
					continue
				}
				fmt.Printf("%8d  %s\n", offset, v)
			}
			return nil
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(bench.BenchCommands)
	RootCmd.AddCommand(inspectCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags for inspect command
	inspectCmd.Flags().Int("dim", 1, util.WrapString("Components per value cell of the column file"))
	inspectCmd.Flags().Int("size", 0, util.WrapString("Expected value range of the column file (0 to accept the stored range)"))

	// Add Flags
	key := "log-level"
	RootCmd.PersistentFlags().String(key, "info", util.WrapString("log level to use (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
