package dupfind

import (
	"fmt"
	"math"
	"time"
)

// allowed values for -sleep, in milliseconds. Mirrors rdfind's supported
// sleep granularity (Options.cc's -sleep parsing).
var allowedSleepMillis = map[int]bool{
	0: true, 1: true, 2: true, 3: true, 4: true, 5: true,
	10: true, 25: true, 50: true, 100: true,
}

const (
	// MinBufferSize is the smallest -buffersize accepted.
	MinBufferSize = 1
	// MaxBufferSize is the largest -buffersize accepted (128 MiB).
	MaxBufferSize = 128 << 20

	// firstBytesSize and lastBytesSize are fixed at rdfind's defaults; the
	// CLI surface in SPEC_FULL has no flag to override them.
	firstBytesSize = 64
	lastBytesSize  = 64
)

// Config is the immutable, validated settings record threaded through
// every pipeline stage. It replaces the teacher's package-level globals
// (see DESIGN.md's Config entry) with an explicit value
// the ingest callback, Pipeline, Mutator, ActionDriver and Reporter all
// receive directly.
type Config struct {
	MinSize              uint64
	MaxSize              uint64 // 0 on the CLI means unlimited; resolved to math.MaxUint64 here
	FollowSymlinks       bool
	RemoveIdenticalInode bool
	Checksum             ChecksumKind
	ChecksumForFirstLast ChecksumKind
	BufferSize           int
	Deterministic        bool
	MakeResultsFile      bool
	MakeSymlinks         bool
	MakeHardlinks        bool
	DeleteDuplicates     bool
	DryRun               bool
	OutputName           string
	SleepBetweenFiles    time.Duration
	Progress             bool
	FirstBytesSize       uint64
	LastBytesSize        uint64
}

// NewConfig returns a Config with rdfind-equivalent defaults.
func NewConfig() *Config {
	return &Config{
		MinSize:              1, // -ignoreempty defaults to true
		MaxSize:              math.MaxUint64,
		FollowSymlinks:       false,
		RemoveIdenticalInode: true,
		Checksum:             ChecksumSHA1,
		ChecksumForFirstLast: ChecksumXXH128,
		BufferSize:           1 << 20,
		Deterministic:        true,
		MakeResultsFile:      true,
		MakeSymlinks:         false,
		MakeHardlinks:        false,
		DeleteDuplicates:     false,
		DryRun:               false,
		OutputName:           "results.txt",
		SleepBetweenFiles:    0,
		Progress:             false,
		FirstBytesSize:       firstBytesSize,
		LastBytesSize:        lastBytesSize,
	}
}

// ApplyMaxSizeFlag remaps the "-maxsize 0" CLI convention ("unlimited") to
// the internal unbounded sentinel. Must run before Validate.
func (c *Config) ApplyMaxSizeFlag(raw uint64) {
	if raw == 0 {
		c.MaxSize = math.MaxUint64
		return
	}
	c.MaxSize = raw
}

// SetSleepMillis validates and sets -sleep. Only the values rdfind itself
// accepts are admissible.
func (c *Config) SetSleepMillis(ms int) error {
	if !allowedSleepMillis[ms] {
		return fmt.Errorf("dupfind: unsupported -sleep value %dms (supported: 0,1,2,3,4,5,10,25,50,100)", ms)
	}
	c.SleepBetweenFiles = time.Duration(ms) * time.Millisecond
	return nil
}

// SetBufferSize validates and sets -buffersize.
func (c *Config) SetBufferSize(n int) error {
	if n < MinBufferSize || n > MaxBufferSize {
		return fmt.Errorf("dupfind: -buffersize must be in [%d, %d], got %d", MinBufferSize, MaxBufferSize, n)
	}
	c.BufferSize = n
	return nil
}

// Validate cross-checks the assembled configuration. Mutually
// contradictory options are a fatal, pre-ingest error (spec.md's
// "Configuration" error kind).
func (c *Config) Validate() error {
	// DESIGN NOTES open question: preserve rdfind's "exit if minsize >
	// maxsize", using a strict comparison so minsize == maxsize is legal
	// (it just means "only files of exactly this size").
	if c.MinSize > c.MaxSize {
		return fmt.Errorf("dupfind: -minsize (%d) must not exceed -maxsize (%d)", c.MinSize, c.MaxSize)
	}
	if c.BufferSize < MinBufferSize || c.BufferSize > MaxBufferSize {
		return fmt.Errorf("dupfind: -buffersize must be in [%d, %d]", MinBufferSize, MaxBufferSize)
	}
	actions := 0
	if c.MakeSymlinks {
		actions++
	}
	if c.MakeHardlinks {
		actions++
	}
	if c.DeleteDuplicates {
		actions++
	}
	if actions > 1 {
		return fmt.Errorf("dupfind: -makesymlinks, -makehardlinks and -deleteduplicates are mutually exclusive")
	}
	return nil
}
