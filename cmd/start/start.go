package start

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/arcana-network/frostsigner/config"
	"github.com/arcana-network/frostsigner/node"
)

const (
	configFileFlag    = "config"
	serverPortFlag    = "server-port"
	unixSocketFlag    = "unix-socket"
	telemetryPortFlag = "telemetry-port"
	logLevelFlag      = "log-level"
	nonceGuardTTLFlag = "nonce-guard-ttl"
)

var cfgFilePath string
var conf = config.GetDefaultConfig()

func GetCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "start",
		Short: "Command to start the node",
		RunE:  runCommand,
	}

	setFlags(cmd)
	return cmd
}

func setFlags(cmd *cobra.Command) {
	setConfigFileFlags(cmd)
	setParamsFlags(cmd)
}

func setConfigFileFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&cfgFilePath,
		configFileFlag,
		"./config.json",
		"Used to specify JSON config file path",
	)
}

func setParamsFlags(cmd *cobra.Command) {
	d := config.GetDefaultConfig()
	cmd.Flags().StringVar(
		&conf.HttpServerPort,
		serverPortFlag,
		d.HttpServerPort,
		"Used to specify the JSON-RPC server port",
	)

	cmd.Flags().StringVar(
		&conf.UnixSocket,
		unixSocketFlag,
		"",
		"Used to listen on a unix socket instead of a TCP port",
	)

	cmd.Flags().StringVar(
		&conf.TelemetryPort,
		telemetryPortFlag,
		d.TelemetryPort,
		"Used to specify the prometheus metrics port, empty to disable",
	)

	cmd.Flags().StringVar(
		&conf.LogLevel,
		logLevelFlag,
		d.LogLevel,
		"Used to specify the log level",
	)

	cmd.Flags().StringVar(
		&conf.NonceGuardTTL,
		nonceGuardTTLFlag,
		d.NonceGuardTTL,
		"Used to specify how long used signing commitments are remembered",
	)

	cmd.MarkFlagsMutuallyExclusive(serverPortFlag, unixSocketFlag)
}

func runCommand(cmd *cobra.Command, _ []string) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return node.Start(c)
}

// loadConfig reads the config file when it exists, otherwise the flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if _, err := os.Stat(cfgFilePath); err == nil {
		c, err := config.ReadConfigJson(cfgFilePath)
		if err != nil {
			log.Infof("Config file parsing error")
			return nil, err
		}
		if err := c.VerifyRequired(); err != nil {
			log.Infof("Config missing error")
			return nil, err
		}
		return c, nil
	}

	if conf.UnixSocket != "" && !cmd.Flags().Changed(serverPortFlag) {
		conf.HttpServerPort = ""
	}
	if err := conf.VerifyRequired(); err != nil {
		log.Infof("Params flag error %s", err)
		return nil, err
	}
	return conf, nil
}
