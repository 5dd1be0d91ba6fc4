package serve

import (
	"context"
	"fmt"
	cmdUtil "github.com/ValentinKolb/dkvnode/cmd/util"
	"github.com/ValentinKolb/dkvnode/lib/store/mstore"
	"github.com/ValentinKolb/dkvnode/rpc/common"
	"github.com/ValentinKolb/dkvnode/rpc/node"
	"github.com/ValentinKolb/dkvnode/rpc/server"
	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var (
	serveCmdConfig = &common.ServeConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start a dkvnode",
		Long:    `Start a node answering the commands of remote nodes on the given endpoint. The node serves an in-memory store. The configuration can be set via command line flags or environment variables. The format of the environment variables is DKVNODE_<flag> (e.g. DKVNODE_MAX_FRAME_LENGTH=1048576)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// add flags
	key := "name"
	ServeCmd.PersistentFlags().String(key, "node-1", cmdUtil.WrapString("Name of this node. Remote nodes address it by this name and ping answers with it"))

	key = "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the node will listen (e.g. localhost:8080, /tmp/dkvnode.sock, ...)"))

	key = "max-frame-length"
	ServeCmd.PersistentFlags().Int(key, node.DefaultMaxFrameLength, cmdUtil.WrapString("Largest accepted command frame in bytes. Larger frames close the connection"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 0, cmdUtil.WrapString("Idle timeout in seconds of a connection (0 = none)"))

	key = "workers"
	ServeCmd.PersistentFlags().Int(key, 64, cmdUtil.WrapString("How many commands of one connection are processed concurrently"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Address to serve prometheus metrics on (e.g. :9090, empty = disabled)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	cmdUtil.SetupSocketFlags(ServeCmd)
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the serve configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	serveCmdConfig.Name = viper.GetString("name")
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.MaxFrameLength = viper.GetInt("max-frame-length")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.MaxWorkersPerConn = viper.GetInt("workers")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.SocketConf, serveCmdConfig.TCPConf = cmdUtil.GetSocketConf()

	if serveCmdConfig.Name == "" {
		return fmt.Errorf("the node name must not be empty")
	}
	if serveCmdConfig.MaxFrameLength <= 0 {
		return fmt.Errorf("invalid max frame length %d", serveCmdConfig.MaxFrameLength)
	}

	return common.InitLoggers(serveCmdConfig.LogLevel)
}

// run starts the node and blocks until it receives SIGINT or SIGTERM
func run(_ *cobra.Command, _ []string) error {
	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	t, err := cmdUtil.GetServerTransport()
	if err != nil {
		return err
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		s,
		mstore.NewMemoryStore(),
		server.NewIStoreServerAdapter(serveCmdConfig.Name),
	)

	if err := serv.Serve(); err != nil {
		return err
	}

	var metricsServer *http.Server
	if serveCmdConfig.MetricsEndpoint != "" {
		metricsServer = serveMetrics(serveCmdConfig.MetricsEndpoint)
	}

	// wait for shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	received := <-sig
	server.Logger.Infof("Received %s, shutting down", received)

	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(ctx)
	}

	return serv.Close()
}

// serveMetrics exposes all VictoriaMetrics series of the process on /metrics
func serveMetrics(endpoint string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	srv := &http.Server{Addr: endpoint, Handler: mux}
	go func() {
		server.Logger.Infof("Serving metrics on %s/metrics", endpoint)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			server.Logger.Errorf("Metrics endpoint failed: %v", err)
		}
	}()
	return srv
}
