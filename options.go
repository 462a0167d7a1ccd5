package framepresent

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/opd-ai/framepresent/worker"
)

// Options contains configuration for a Display.
type Options struct {
	// PoolSize is the fixed number of recycled frame buffers.
	PoolSize int

	// MaxFrameBytes sizes each buffer to the largest expected frame.
	MaxFrameBytes int

	// SwapInterval bounds the maximum presentation rate (16ms for 60Hz).
	SwapInterval time.Duration

	// SyncPolicy selects how draws consult the producer handshake.
	SyncPolicy worker.SyncPolicy
}

// NewOptions creates Options with default configuration: a two-buffer
// pool sized for frames up to 1024x2048 RGBA and ~60Hz pacing.
func NewOptions() *Options {
	return &Options{
		PoolSize:      2,
		MaxFrameBytes: 1024 * 2048 * 4,
		SwapInterval:  worker.DefaultSwapInterval,
		SyncPolicy:    worker.SyncAuto,
	}
}

// optionsDocument is the YAML shape of an options file.
type optionsDocument struct {
	PoolSize      int    `yaml:"pool_size"`
	MaxFrameBytes int    `yaml:"max_frame_bytes"`
	SwapInterval  string `yaml:"swap_interval"`
	SyncPolicy    string `yaml:"sync_policy"`
}

// LoadOptions reads Options from a YAML document, filling unset fields
// with defaults. Example document:
//
//	pool_size: 3
//	max_frame_bytes: 8388608
//	swap_interval: 16ms
//	sync_policy: auto   # auto | wait | immediate
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading options file: %w", err)
	}

	var doc optionsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing options file: %w", err)
	}

	opts := NewOptions()
	if doc.PoolSize > 0 {
		opts.PoolSize = doc.PoolSize
	}
	if doc.MaxFrameBytes > 0 {
		opts.MaxFrameBytes = doc.MaxFrameBytes
	}
	if doc.SwapInterval != "" {
		d, err := time.ParseDuration(doc.SwapInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing swap_interval: %w", err)
		}
		opts.SwapInterval = d
	}
	switch doc.SyncPolicy {
	case "", "auto":
		opts.SyncPolicy = worker.SyncAuto
	case "wait":
		opts.SyncPolicy = worker.SyncWaitProducer
	case "immediate":
		opts.SyncPolicy = worker.SyncImmediate
	default:
		return nil, fmt.Errorf("unknown sync_policy %q", doc.SyncPolicy)
	}
	return opts, nil
}
