// Package config loads and exposes the shared configuration for both the
// service-provider and gateway binaries. It follows the teacher's
// Get()/Update() pattern (see environment/docker.go's config.Get()/
// config.Update() call sites): a single in-process Configuration guarded by
// a mutex, read with Get and mutated only through Update so callers never
// hold a stale copy across a write.
package config

import (
	"os"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// NetworkConfiguration describes where the SOME/IP transport listens/dials.
type NetworkConfiguration struct {
	BindAddress          string        `yaml:"bind_address" default:"0.0.0.0"`
	ServiceDiscoveryPort  uint16        `yaml:"service_discovery_port" default:"30490"`
	MethodCallTimeout    time.Duration `yaml:"method_call_timeout" default:"5s"`
	ServiceDiscoveryTimeout time.Duration `yaml:"service_discovery_timeout" default:"10s"`
	TCPConnectTimeout    time.Duration `yaml:"tcp_connect_timeout" default:"3s"`
	MetricsPort          uint16        `yaml:"metrics_port" default:"9100"`
}

// SimulatorConfiguration controls the hardware simulator's background ticks.
type SimulatorConfiguration struct {
	EventInterval     time.Duration `yaml:"event_interval" default:"15s"`
	AutoEventsEnabled bool          `yaml:"auto_events_enabled" default:"true"`
	Seed              int64         `yaml:"seed" default:"0"`
}

// GatewayConfiguration controls the HTTP/SSE surface of the gateway binary.
type GatewayConfiguration struct {
	HTTPPort     uint16        `yaml:"http_port" default:"8080"`
	SSEHeartbeat time.Duration `yaml:"sse_heartbeat" default:"30s"`
	SSEIdleLimit time.Duration `yaml:"sse_idle_limit" default:"10m"`
}

// LoggingConfiguration mirrors the teacher's logging setup (level + optional
// rotating file sink alongside stderr).
type LoggingConfiguration struct {
	Level     string `yaml:"level" default:"info"`
	LogToFile bool   `yaml:"log_to_file" default:"false"`
	Directory string `yaml:"directory" default:"/var/log/someip-gateway"`
}

// Configuration is the full set of values either binary reads at startup.
type Configuration struct {
	// AppName and ConfigPath are populated from VSOMEIP_APPLICATION_NAME and
	// VSOMEIP_CONFIGURATION respectively, not from the YAML file itself.
	AppName    string `yaml:"-"`
	ConfigPath string `yaml:"-"`

	Network   NetworkConfiguration   `yaml:"network"`
	Simulator SimulatorConfiguration `yaml:"simulator"`
	Gateway   GatewayConfiguration   `yaml:"gateway"`
	Logging   LoggingConfiguration   `yaml:"logging"`
}

var (
	mu  sync.RWMutex
	cfg *Configuration
)

// Default returns a Configuration populated entirely from struct tag
// defaults, used when no config file is present.
func Default() *Configuration {
	c := &Configuration{}
	if err := defaults.Set(c); err != nil {
		// defaults.Set only fails on unsupported field types; a programmer
		// error in this struct, not a runtime condition.
		panic(errors.Wrap(err, "config: invalid default tags"))
	}
	return c
}

// FromFile reads and parses a YAML configuration file, filling in any field
// the file omits with its struct-tag default.
func FromFile(path string) (*Configuration, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config: could not read configuration file")
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrap(err, "config: could not parse configuration file")
	}
	return c, nil
}

// Set installs c as the process-wide configuration, replacing any existing
// one. Called once at startup after the environment/CLI values are merged
// in.
func Set(c *Configuration) {
	mu.Lock()
	defer mu.Unlock()
	cfg = c
}

// Get returns the current process-wide configuration. Panics if Set has not
// been called yet — every binary's main() must call Set before spawning any
// component that reads config.
func Get() *Configuration {
	mu.RLock()
	defer mu.RUnlock()
	if cfg == nil {
		panic("config: Get called before Set")
	}
	return cfg
}

// Update mutates the process-wide configuration under the write lock,
// mirroring environment/docker.go's config.Update(func(c *Configuration){...})
// call shape.
func Update(fn func(c *Configuration)) {
	mu.Lock()
	defer mu.Unlock()
	fn(cfg)
}

// RequireEnv reads a required environment variable, returning an error
// (rather than panicking) so cmd/ can log and exit(1) per spec — both
// VSOMEIP_CONFIGURATION and VSOMEIP_APPLICATION_NAME are fatal-if-absent.
func RequireEnv(name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", errors.Errorf("config: required environment variable %s is not set", name)
	}
	return v, nil
}
