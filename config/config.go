// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/units"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/consts"
	"github.com/ava-labs/ftledger/contract"
	"github.com/ava-labs/ftledger/meter"
	"github.com/ava-labs/ftledger/pebble"
	"github.com/ava-labs/ftledger/server"
	"github.com/ava-labs/ftledger/trace"
	"github.com/ava-labs/ftledger/transfer"
)

const (
	defaultDataDir         = ".ftledger"
	defaultHTTPHost        = "127.0.0.1"
	defaultHTTPPort        = 9650
	defaultShutdownTimeout = 10 * time.Second
	defaultLogMaxSize      = 8 // MB
	defaultLogMaxFiles     = 5
	defaultLogMaxAge       = 30 // days
	defaultPebbleCacheSize = 64 * units.MiB
	defaultStreamBacklog   = 1_024
)

var ErrInvalidPort = errors.New("invalid http port")

type Config struct {
	// Storage pricing
	StorageCostPerUnit amount.U128 `json:"storageCostPerUnit" yaml:"storageCostPerUnit"`
	StorageUnitBytes   uint64      `json:"storageUnitBytes"   yaml:"storageUnitBytes"`

	// Transfer calls
	NotifyTimeout time.Duration         `json:"notifyTimeout" yaml:"notifyTimeout"`
	Receivers     map[account.ID]string `json:"receivers"     yaml:"receivers"` // account -> hook URL

	// Native value handed out at startup
	NativeAllocations map[account.ID]amount.U128 `json:"nativeAllocations" yaml:"nativeAllocations"`

	// Logging
	LogLevel    logging.Level `json:"logLevel"    yaml:"-"`
	LogDir      string        `json:"logDir"      yaml:"logDir"`
	LogMaxSize  int           `json:"logMaxSize"  yaml:"logMaxSize"`
	LogMaxFiles int           `json:"logMaxFiles" yaml:"logMaxFiles"`
	LogMaxAge   int           `json:"logMaxAge"   yaml:"logMaxAge"`

	// Storage
	DataDir         string `json:"dataDir"         yaml:"dataDir"`
	PebbleCacheSize int    `json:"pebbleCacheSize" yaml:"pebbleCacheSize"`

	// HTTP
	HTTPHost             string        `json:"httpHost"             yaml:"httpHost"`
	HTTPPort             uint16        `json:"httpPort"             yaml:"httpPort"`
	AllowedOrigins       []string      `json:"allowedOrigins"       yaml:"allowedOrigins"`
	AllowedHosts         []string      `json:"allowedHosts"         yaml:"allowedHosts"`
	ShutdownTimeout      time.Duration `json:"shutdownTimeout"      yaml:"shutdownTimeout"`
	StreamingBacklogSize int           `json:"streamingBacklogSize" yaml:"streamingBacklogSize"`

	// Tracing
	TraceEnabled    bool    `json:"traceEnabled"    yaml:"traceEnabled"`
	TraceSampleRate float64 `json:"traceSampleRate" yaml:"traceSampleRate"`
	TraceEndpoint   string  `json:"traceEndpoint"   yaml:"traceEndpoint"`

	loaded bool
}

// New parses a JSON config. Fields missing from [b] keep their defaults.
func New(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefault()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
		c.loaded = true
	}
	return c, c.Verify()
}

// NewYAML parses a YAML config. Fields missing from [b] keep their
// defaults.
func NewYAML(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefault()
	if len(b) > 0 {
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
		var levels struct {
			LogLevel string `yaml:"logLevel"`
		}
		if err := yaml.Unmarshal(b, &levels); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
		if len(levels.LogLevel) > 0 {
			level, err := logging.ToLevel(levels.LogLevel)
			if err != nil {
				return nil, err
			}
			c.LogLevel = level
		}
		c.loaded = true
	}
	return c, c.Verify()
}

func (c *Config) setDefault() {
	pricing := meter.DefaultPricing()
	c.StorageCostPerUnit = pricing.CostPerUnit
	c.StorageUnitBytes = pricing.UnitBytes
	c.NotifyTimeout = transfer.DefaultNotifyTimeout
	c.LogLevel = logging.Info
	c.LogMaxSize = defaultLogMaxSize
	c.LogMaxFiles = defaultLogMaxFiles
	c.LogMaxAge = defaultLogMaxAge
	c.DataDir = defaultDataDir
	c.PebbleCacheSize = defaultPebbleCacheSize
	c.HTTPHost = defaultHTTPHost
	c.HTTPPort = defaultHTTPPort
	c.AllowedOrigins = []string{"*"}
	c.AllowedHosts = []string{"localhost"}
	c.ShutdownTimeout = defaultShutdownTimeout
	c.StreamingBacklogSize = defaultStreamBacklog
	c.TraceEndpoint = trace.DefaultEndpoint
}

func (c *Config) Verify() error {
	if c.HTTPPort == 0 {
		return ErrInvalidPort
	}
	for id := range c.Receivers {
		if _, err := account.Parse(string(id)); err != nil {
			return err
		}
	}
	for id := range c.NativeAllocations {
		if _, err := account.Parse(string(id)); err != nil {
			return err
		}
	}
	return c.GetPricing().Verify()
}

func (c *Config) GetPricing() meter.Pricing {
	return meter.Pricing{
		CostPerUnit: c.StorageCostPerUnit,
		UnitBytes:   c.StorageUnitBytes,
	}
}

func (c *Config) GetContractConfig() contract.Config {
	return contract.Config{
		Pricing:       c.GetPricing(),
		NotifyTimeout: c.NotifyTimeout,
	}
}

func (c *Config) GetPebbleConfig() pebble.Config {
	cfg := pebble.NewDefaultConfig()
	cfg.CacheSize = c.PebbleCacheSize
	return cfg
}

func (c *Config) GetTraceConfig() *trace.Config {
	return &trace.Config{
		Enabled:         c.TraceEnabled,
		TraceSampleRate: c.TraceSampleRate,
		Endpoint:        c.TraceEndpoint,
		AppName:         consts.Name,
		Version:         consts.Version.String(),
	}
}

func (c *Config) GetServerConfig() server.Config {
	cfg := server.NewDefaultConfig()
	cfg.AllowedOrigins = c.AllowedOrigins
	cfg.AllowedHosts = c.AllowedHosts
	cfg.ShutdownTimeout = c.ShutdownTimeout
	return cfg
}

func (c *Config) GetHTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

func (c *Config) Loaded() bool { return c.loaded }
