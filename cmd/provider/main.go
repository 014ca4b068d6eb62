// Command provider runs the SOME/IP service-provider node: it offers the
// door, window, light, and seat services, simulates the underlying
// hardware, and answers method calls from the gateway node.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bodycontrol/someip-gateway/config"
	"github.com/bodycontrol/someip-gateway/internal/bodystate"
	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/logging"
	"github.com/bodycontrol/someip-gateway/internal/metrics"
	"github.com/bodycontrol/someip-gateway/internal/provider"
	"github.com/bodycontrol/someip-gateway/internal/simulator"
	"github.com/bodycontrol/someip-gateway/internal/someip"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "provider",
	Short: "Run the SOME/IP body-domain service provider",
	RunE:  run,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config-path", "c", "", "Path to a YAML configuration file")
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Fatal("provider: exiting")
	}
}

func run(*cobra.Command, []string) error {
	appName, err := config.RequireEnv("VSOMEIP_APPLICATION_NAME")
	if err != nil {
		return err
	}
	if _, err := config.RequireEnv("VSOMEIP_CONFIGURATION"); err != nil {
		return err
	}

	cfg := loadConfig()
	config.Set(cfg)

	closeLog, err := logging.Configure(logging.Config{
		Level:     cfg.Logging.Level,
		Directory: logDirectory(cfg),
		Filename:  "provider.log",
	})
	if err != nil {
		return err
	}
	defer closeLog()

	metrics.MustRegister(prometheus.DefaultRegisterer)

	rt, err := someip.NewRuntime(appName, catalog.ServiceDiscoveryPort, cfg.Network.MethodCallTimeout)
	if err != nil {
		return err
	}
	defer rt.Stop()

	discoveryTarget := &net.UDPAddr{IP: net.IPv4bcast, Port: int(catalog.ServiceDiscoveryPort)}
	localPort := rt.Endpoint.LocalPort()
	offered := make([]someip.OfferedService, 0, len(catalog.Services))
	for _, svc := range catalog.Services {
		offered = append(offered, someip.OfferedService{
			Key:  someip.ServiceKey{ServiceID: svc, InstanceID: catalog.InstanceID},
			Port: localPort,
		})
	}
	announcer, err := someip.NewServiceAnnouncer(rt, discoveryTarget, offered)
	if err != nil {
		return err
	}

	store := bodystate.NewStore()
	engine := provider.NewEngine(rt, announcer, store, cfg.Simulator.Seed)
	engine.RegisterDoorHandlers()
	engine.RegisterWindowHandlers()
	engine.RegisterLightHandlers()
	engine.RegisterSeatHandlers()

	sim := simulator.New(store, engine, simulator.Config{
		EventInterval:     cfg.Simulator.EventInterval,
		AutoEventsEnabled: cfg.Simulator.AutoEventsEnabled,
		Seed:              cfg.Simulator.Seed,
	})
	engine.SetSimulator(sim)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, gctx := errgroup.WithContext(ctx)
	rt.Start(gctx)
	if err := announcer.Start(gctx); err != nil {
		return err
	}
	sim.Start(gctx, group)

	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Network.MetricsPort),
		Handler: promhttp.Handler(),
	}
	group.Go(func() error {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		return metricsSrv.Close()
	})

	log.WithField("app", appName).Info("provider: listening")
	<-gctx.Done()
	log.Info("provider: shutting down")
	sim.Stop()
	_ = announcer.Stop()
	return group.Wait()
}

func loadConfig() *config.Configuration {
	if configPath == "" {
		return config.Default()
	}
	cfg, err := config.FromFile(configPath)
	if err != nil {
		log.WithError(err).Warn("provider: failed to load configuration file, using defaults")
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
