// Package cmd implements the command-line interface for chainstore. It
// provides a hierarchical command structure with tooling around the chain,
// store and medium layers.
//
// The package is organized into several subpackages:
//
//   - bench: Benchmarks for the chain layers over a chosen medium engine
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// The root command additionally carries the inspect command for examining
// column files and the version command.
//
// See chainstore -help for a list of all commands.
package cmd
