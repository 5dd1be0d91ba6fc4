package util

import (
	"fmt"
	"github.com/ValentinKolb/dkvnode/rpc/common"
	"github.com/ValentinKolb/dkvnode/rpc/node"
	"github.com/ValentinKolb/dkvnode/rpc/serializer"
	"github.com/ValentinKolb/dkvnode/rpc/transport"
	"github.com/ValentinKolb/dkvnode/rpc/transport/tcp"
	"github.com/ValentinKolb/dkvnode/rpc/transport/unix"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strings"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50

	// EnvPrefix is the prefix of all environment variables (e.g. DKVNODE_TIMEOUT_MS)
	EnvPrefix = "dkvnode"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig loads .env files and makes viper read DKVNODE_* environment variables
func InitConfig() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// --------------------------------------------------------------------------
// Remote node flags
// --------------------------------------------------------------------------

// SetupNodeFlags adds the flags describing the remote node to a command
func SetupNodeFlags(cmd *cobra.Command) {
	key := "node"
	cmd.PersistentFlags().String(key, "node-1=localhost:8080", WrapString("The remote node in the format name=host:port. The name must match the name the node is served with"))

	key = "socket-path"
	cmd.PersistentFlags().String(key, "", WrapString("Unix socket path of the remote node (only for the unix transport, overrides host:port)"))

	key = "timeout-ms"
	cmd.PersistentFlags().Int64(key, node.DefaultNodeTimeoutMillis, WrapString("Timeout in milliseconds for connecting and for every command"))

	key = "max-frame-length"
	cmd.PersistentFlags().Int(key, node.DefaultMaxFrameLength, WrapString("Largest accepted response frame in bytes"))

	key = "bucket"
	cmd.PersistentFlags().String(key, "default", WrapString("The bucket the store commands operate on"))

	SetupSocketFlags(cmd)
}

// SetupSocketFlags adds the socket tuning flags shared by client and server
func SetupSocketFlags(cmd *cobra.Command) {
	key := "transport-write-buffer"
	cmd.PersistentFlags().Int(key, 0, WrapString("The size of the socket write buffer (in KB, 0 = OS default)"))

	key = "transport-read-buffer"
	cmd.PersistentFlags().Int(key, 0, WrapString("The size of the socket read buffer (in KB, 0 = OS default)"))

	key = "transport-tcp-nodelay"
	cmd.PersistentFlags().Bool(key, true, WrapString("Whether to enable TCP_NODELAY (only for tcp)"))

	key = "transport-tcp-keepalive"
	cmd.PersistentFlags().Int(key, 0, WrapString("The keepalive interval (in seconds, only for tcp, 0 = disabled)"))

	key = "transport-tcp-linger"
	cmd.PersistentFlags().Int(key, 0, WrapString("The linger time (in seconds, only for tcp, 0 = OS default)"))
}

// GetSocketConf reads the socket tuning flags from viper
func GetSocketConf() (common.SocketConf, common.TCPConf) {
	socketConf := common.SocketConf{
		WriteBufferSize: viper.GetInt("transport-write-buffer") * 1024,
		ReadBufferSize:  viper.GetInt("transport-read-buffer") * 1024,
	}
	tcpConf := common.TCPConf{
		TCPNoDelay:      viper.GetBool("transport-tcp-nodelay"),
		TCPKeepAliveSec: viper.GetInt("transport-tcp-keepalive"),
		TCPLingerSec:    viper.GetInt("transport-tcp-linger"),
	}
	return socketConf, tcpConf
}

// GetNodeConfiguration parses the --node flag
func GetNodeConfiguration() (common.ServerConfiguration, error) {
	return common.ParseServerConfiguration(viper.GetString("node"))
}

// GetBucket returns the bucket store commands operate on
func GetBucket() string {
	return viper.GetString("bucket")
}

// --------------------------------------------------------------------------
// Serializer and transport selection
// --------------------------------------------------------------------------

// GetSerializer creates a serializer based on configuration
func GetSerializer() (serializer.IRPCSerializer, error) {
	return serializer.New(viper.GetString("serializer"))
}

// GetClientTransport returns the constructor of the configured client transport
func GetClientTransport() (func() transport.IRPCClientTransport, error) {
	switch viper.GetString("transport") {
	case "tcp":
		return tcp.NewTCPClientTransport, nil
	case "unix":
		return unix.NewUnixClientTransport, nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}

// GetServerTransport creates the configured server transport
func GetServerTransport() (transport.IRPCServerTransport, error) {
	switch viper.GetString("transport") {
	case "tcp":
		return tcp.NewTCPDefaultServerTransport(), nil
	case "unix":
		return unix.NewUnixDefaultServerTransport(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}

// NewNodeFactory builds a remote node factory from the configuration
func NewNodeFactory() (node.IRemoteNodeFactory, error) {
	s, err := GetSerializer()
	if err != nil {
		return nil, err
	}
	t, err := GetClientTransport()
	if err != nil {
		return nil, err
	}

	opts := []node.FactoryOption{
		node.WithSerializer(s),
		node.WithTransport(t),
		node.WithDefaultTimeoutMillis(viper.GetInt64("timeout-ms")),
		node.WithDefaultMaxFrameLength(viper.GetInt("max-frame-length")),
		node.WithSocketConf(GetSocketConf()),
	}

	if socketPath := viper.GetString("socket-path"); socketPath != "" {
		opts = append(opts, node.WithEndpointResolver(func(common.ServerConfiguration) string {
			return socketPath
		}))
	}

	return node.NewRemoteNodeFactory(opts...), nil
}
