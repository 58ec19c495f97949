package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	fileutil "github.com/projectdiscovery/utils/file"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables that can be set from the YAML file. Command line
// flags take precedence over every value here.
type Config struct {
	Workers    int           `yaml:"workers"`
	SpawnDelay time.Duration `yaml:"spawn_delay"`
	MaxHosts   int           `yaml:"max_hosts"`
	Prioritize bool          `yaml:"prioritize"`

	PingTimeout  time.Duration `yaml:"ping_timeout"`
	PingAttempts int           `yaml:"ping_attempts"`

	TCPTimeout    time.Duration `yaml:"tcp_timeout"`
	TCPDelay      time.Duration `yaml:"tcp_delay"`
	TCPPorts      []int         `yaml:"tcp_ports"`
	LivenessPorts []int         `yaml:"liveness_ports"`

	SSH SSHConfig `yaml:"ssh"`

	RDNS         bool          `yaml:"rdns"`
	RDNSTimeout  time.Duration `yaml:"rdns_timeout"`
	RDNSCache    int           `yaml:"rdns_cache"`
	RDNSCacheTTL time.Duration `yaml:"rdns_cache_ttl"`

	LogDir string `yaml:"log_dir"`
	NoLog  bool   `yaml:"no_log"`
}

// SSHConfig tunes remote sessions and selects the discovery profile.
type SSHConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	Terminal      string        `yaml:"terminal"`
	SettleWindow  time.Duration `yaml:"settle_window"`
	MaxEmptyReads int           `yaml:"max_empty_reads"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	Escape        string        `yaml:"escape"`
	Profiles      string        `yaml:"profiles"`
	Profile       string        `yaml:"profile"`
}

// DefaultConfig returns the built-in tunables.
func DefaultConfig() Config {
	return Config{
		Workers:      100,
		SpawnDelay:   10 * time.Millisecond,
		MaxHosts:     65534,
		PingTimeout:  2 * time.Second,
		PingAttempts: 2,
		TCPTimeout:   500 * time.Millisecond,
		TCPDelay:     25 * time.Millisecond,
		SSH: SSHConfig{
			Timeout:       10 * time.Second,
			Terminal:      "vt100",
			SettleWindow:  time.Second,
			MaxEmptyReads: 25,
			PollInterval:  50 * time.Millisecond,
			Escape:        "~.",
		},
		RDNSTimeout:  time.Second,
		RDNSCache:    4096,
		RDNSCacheTTL: 10 * time.Minute,
		LogDir:       "logs",
	}
}

// LoadConfig reads a YAML file and merges it onto the defaults. A missing
// file is not an error; a file with out-of-range values is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" || !fileutil.FileExists(path) {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the probes and the shell loop cannot run with.
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value int64
	}{
		{"workers", int64(c.Workers)},
		{"ping_timeout", int64(c.PingTimeout)},
		{"ping_attempts", int64(c.PingAttempts)},
		{"tcp_timeout", int64(c.TCPTimeout)},
		{"ssh.timeout", int64(c.SSH.Timeout)},
		{"ssh.max_empty_reads", int64(c.SSH.MaxEmptyReads)},
		{"ssh.poll_interval", int64(c.SSH.PollInterval)},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be greater than zero", p.name)
		}
	}
	nonNegative := []struct {
		name  string
		value int64
	}{
		{"spawn_delay", int64(c.SpawnDelay)},
		{"max_hosts", int64(c.MaxHosts)},
		{"tcp_delay", int64(c.TCPDelay)},
		{"ssh.settle_window", int64(c.SSH.SettleWindow)},
	}
	for _, n := range nonNegative {
		if n.value < 0 {
			return fmt.Errorf("%s must not be negative", n.name)
		}
	}
	if c.RDNS && (c.RDNSCache <= 0 || c.RDNSTimeout <= 0) {
		return fmt.Errorf("rdns_cache and rdns_timeout must be greater than zero")
	}
	return nil
}

func defaultConfigLocation() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cartographer", "config.yaml")
}
