package serve

import (
	"fmt"
	"strings"

	cmdUtil "github.com/ValentinKolb/sgc/cmd/util"
	"github.com/ValentinKolb/sgc/rpc/common"
	"github.com/ValentinKolb/sgc/rpc/server"
	"github.com/ValentinKolb/sgc/rpc/transport"
	"github.com/ValentinKolb/sgc/rpc/transport/tcp"
	"github.com/ValentinKolb/sgc/rpc/transport/udp"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the sgc server",
		Long:    `Start the sgc server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is SGC_<flag> (e.g. SGC_TIMEOUT=15)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(initConfig)

	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:6600", cmdUtil.WrapString("The address on which the server will listen (e.g. localhost:6600)"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("Request timeout in seconds"))

	key = "token-secret"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Secret used to sign credentials. Required; set it via SGC_TOKEN_SECRET in production"))

	key = "token-expiry-hours"
	ServeCmd.PersistentFlags().Int(key, 24, cmdUtil.WrapString("Lifetime of issued credentials in hours"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Optional address for the Prometheus metrics endpoint (e.g. localhost:9090). Empty disables it"))

	key = "tcp-workers"
	ServeCmd.PersistentFlags().Int(key, 16, cmdUtil.WrapString("Maximum concurrent workers per connection (only for tcp)"))

	key = "write-buffer"
	ServeCmd.PersistentFlags().Int(key, 512, cmdUtil.WrapString("The size of the socket write buffer (in KB)"))

	key = "read-buffer"
	ServeCmd.PersistentFlags().Int(key, 512, cmdUtil.WrapString("The size of the socket read buffer (in KB)"))

	key = "tcp-nodelay"
	ServeCmd.PersistentFlags().Bool(key, true, cmdUtil.WrapString("Whether to enable TCP_NODELAY (only for tcp)"))

	key = "tcp-keepalive"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The keepalive interval in seconds (only for tcp)"))

	key = "tcp-linger"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The linger time in seconds (only for tcp)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and
// environment variables into the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	serveCmdConfig.Transport = common.ServerTransportConfig{
		Endpoint: viper.GetString("endpoint"),
		SocketConf: common.SocketConf{
			WriteBufferSize: viper.GetInt("write-buffer") * 1024,
			ReadBufferSize:  viper.GetInt("read-buffer") * 1024,
		},
		TCPConf: common.TCPConf{
			TCPNoDelay:      viper.GetBool("tcp-nodelay"),
			TCPKeepAliveSec: viper.GetInt("tcp-keepalive"),
			TCPLingerSec:    viper.GetInt("tcp-linger"),
		},
	}
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.TokenSecret = viper.GetString("token-secret")
	serveCmdConfig.TokenExpiryHours = viper.GetInt("token-expiry-hours")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	if serveCmdConfig.TokenSecret == "" {
		return fmt.Errorf("token secret is required (--token-secret or SGC_TOKEN_SECRET)")
	}

	return nil
}

// run starts the sgc server
func run(_ *cobra.Command, _ []string) error {

	// parse the serializer
	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	// parse the transport
	var t transport.IRPCServerTransport
	switch viper.GetString("transport") {
	case "udp":
		t = udp.NewUDPServerTransport()
	case "tcp":
		t = tcp.NewTCPServerTransport(viper.GetInt("tcp-workers"))
	default:
		return fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		s,
	)

	return serv.Serve()
}

// initConfig reads in env files and ENV variables if set.
func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("sgc")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}
