package auth

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/sgc/cmd/util"
	"github.com/ValentinKolb/sgc/rpc/client"
	"github.com/spf13/cobra"
)

var (
	authSvc client.IAuthService

	// AuthCommands represents the auth command group
	AuthCommands = &cobra.Command{
		Use:               "auth",
		Short:             "Register and log in identities",
		PersistentPreRunE: setupAuthClient,
	}

	registerCmd = &cobra.Command{
		Use:   "register [name] [password]",
		Short: "Register a new identity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := authSvc.Register(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("registered identity %q\n", args[0])
			return nil
		},
	}

	loginCmd = &cobra.Command{
		Use:   "login [name] [password]",
		Short: "Log in and print a credential",
		Long:  "Log in and print a credential. Export it as SGC_TOKEN (or pass it via --token) to use the group commands. With --token-file the credential is written to the given file instead.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := authSvc.Login(args[0], args[1])
			if err != nil {
				return err
			}

			if path, _ := cmd.Flags().GetString("token-file"); path != "" {
				if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
					return fmt.Errorf("failed to write token file: %w", err)
				}
				fmt.Printf("credential written to %s\n", path)
				return nil
			}

			fmt.Println(token)
			return nil
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the auth command
	util.SetupRPCClientFlags(AuthCommands)

	// Add subcommands
	AuthCommands.AddCommand(registerCmd)
	AuthCommands.AddCommand(loginCmd)

	loginCmd.Flags().String("token-file", "", util.WrapString("Write the credential to this file (mode 0600) instead of printing it"))
}

// setupAuthClient initializes the RPC auth client
func setupAuthClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	config := util.GetClientConfig()

	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetClientTransport()
	if err != nil {
		return err
	}

	authSvc, err = client.NewRPCAuthService(*config, t, s)
	return err
}
