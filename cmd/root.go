package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/sgc/cmd/auth"
	"github.com/ValentinKolb/sgc/cmd/group"
	"github.com/ValentinKolb/sgc/cmd/serve"
	"github.com/ValentinKolb/sgc/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "sgc",
		Short: "study group collection server and client",
		Long: fmt.Sprintf(`sgc (v%s)

A client/server system managing a shared collection of study groups.
The server owns the authoritative in-memory collection; clients
authenticate, then create, modify and query study groups over a
pluggable RPC transport.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of sgc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sgc v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(auth.AuthCommands)
	RootCmd.AddCommand(group.GroupCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use (json, gob, binary)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "udp", util.WrapString("transport to use (udp, tcp)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
