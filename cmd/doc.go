// Package cmd implements the command-line interface for the sgc study
// group collection. It provides a hierarchical command structure with
// operations for running the server and interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - auth: Commands for identity operations (register, login)
//   - group: Commands for study group operations (add, show, remove, etc.)
//   - serve: Commands for starting and configuring the sgc server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See sgc -help for a list of all commands.
package cmd
