package group

import (
	"fmt"

	"github.com/ValentinKolb/sgc/cmd/util"
	"github.com/ValentinKolb/sgc/rpc/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	groupSvc client.IGroupService

	// GroupCommands represents the group command group
	GroupCommands = &cobra.Command{
		Use:               "group",
		Short:             "Perform study group operations",
		PersistentPreRunE: setupGroupClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the group command
	util.SetupRPCClientFlags(GroupCommands)

	key := "token"
	GroupCommands.PersistentFlags().String(key, "", util.WrapString("Credential obtained from 'sgc auth login'. Can also be set via SGC_TOKEN"))

	key = "token-file"
	GroupCommands.PersistentFlags().String(key, "", util.WrapString("File holding the credential, as written by 'sgc auth login --token-file'"))

	key = "output-file"
	GroupCommands.PersistentFlags().String(key, "", util.WrapString("Path of the client-local output file. File-destined result lines are appended to it; empty discards them"))

	// Add subcommands
	GroupCommands.AddCommand(addCmd)
	GroupCommands.AddCommand(updateCmd)
	GroupCommands.AddCommand(removeCmd)
	GroupCommands.AddCommand(removeLowerCmd)
	GroupCommands.AddCommand(clearCmd)
	GroupCommands.AddCommand(showCmd)
	GroupCommands.AddCommand(infoCmd)
	GroupCommands.AddCommand(countByAdminCmd)
	GroupCommands.AddCommand(groupByIDCmd)
	GroupCommands.AddCommand(hasCmd)
}

// setupGroupClient initializes the RPC group client with the bound credential
func setupGroupClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	token := util.GetToken()
	if token == "" {
		return fmt.Errorf("no credential: log in first and pass the token via --token or SGC_TOKEN")
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

	groupSvc, err = client.NewRPCGroupService(token, *config, t, s)
	return err
}

// printResult prints console lines and appends file lines to the output file
func printResult(res client.OpResult) error {
	for _, line := range res.Console {
		fmt.Println(line)
	}
	return util.AppendLines(viper.GetString("output-file"), res.File)
}
