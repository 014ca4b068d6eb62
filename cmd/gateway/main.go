// Command gateway runs the HTTP/SSE node: it fronts the SOME/IP body-domain
// services with a REST API and a JSON event stream, falling back to mock
// responses for any service that isn't currently live.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bodycontrol/someip-gateway/config"
	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/client"
	"github.com/bodycontrol/someip-gateway/internal/gateway"
	"github.com/bodycontrol/someip-gateway/internal/logging"
	"github.com/bodycontrol/someip-gateway/internal/metrics"
	"github.com/bodycontrol/someip-gateway/internal/someip"
)

// gatewayClientID identifies this gateway instance in every SOME/IP request
// header it issues; there is only ever one gateway in this deployment.
const gatewayClientID uint16 = 0x0002

var (
	configPath string
	httpPort   uint16
)

var rootCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Run the SOME/IP body-domain HTTP/SSE gateway",
	RunE:  run,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config-path", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().Uint16Var(&httpPort, "http-port", 0, "HTTP port to listen on (overrides the configuration file)")
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Fatal("gateway: exiting")
	}
}

func run(*cobra.Command, []string) error {
	clientID, err := config.RequireEnv("VSOMEIP_APPLICATION_NAME")
	if err != nil {
		return err
	}
	if _, err := config.RequireEnv("VSOMEIP_CONFIGURATION"); err != nil {
		return err
	}

	cfg := loadConfig()
	if httpPort != 0 {
		cfg.Gateway.HTTPPort = httpPort
	}
	config.Set(cfg)

	closeLog, err := logging.Configure(logging.Config{
		Level:     cfg.Logging.Level,
		Directory: logDirectory(cfg),
		Filename:  "gateway.log",
	})
	if err != nil {
		return err
	}
	defer closeLog()

	metrics.MustRegister(prometheus.DefaultRegisterer)

	rt, err := someip.NewRuntime(clientID, 0, cfg.Network.MethodCallTimeout)
	if err != nil {
		return err
	}
	defer rt.Stop()

	desired := make(map[someip.ServiceKey][]someip.EventGroupKey, len(catalog.Services))
	for _, svc := range catalog.Services {
		key := someip.ServiceKey{ServiceID: svc, InstanceID: catalog.InstanceID}
		desired[key] = []someip.EventGroupKey{{ServiceKey: key, GroupID: catalog.EventGroup}}
	}

	cl := client.New(rt, nil, gatewayClientID)
	avail := someip.NewClientAvailability(rt, rt.Endpoint.LocalPort(), desired, cl.HandleAvailabilityChange)
	cl.Avail = avail

	bus := gateway.NewBroadcaster(cfg.Gateway.SSEIdleLimit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, gctx := errgroup.WithContext(ctx)
	rt.Start(gctx)
	group.Go(func() error {
		avail.RetryDiscovery(gctx)
		return nil
	})
	gateway.RunHeartbeat(gctx, group, bus)

	router := gateway.NewRouter(cl, bus, time.Now())
	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Gateway.HTTPPort), Handler: router}
	group.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	log.WithField("port", cfg.Gateway.HTTPPort).Info("gateway: listening")
	return group.Wait()
}

func loadConfig() *config.Configuration {
	if configPath == "" {
		return config.Default()
	}
	cfg, err := config.FromFile(configPath)
	if err != nil {
		log.WithError(err).Warn("gateway: failed to load configuration file, using defaults")
		return config.Default()
	}
	return cfg
}

func logDirectory(cfg *config.Configuration) string {
	if !cfg.Logging.LogToFile {
		return ""
	}
	return cfg.Logging.Directory
}
