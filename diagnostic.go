package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lixenwraith/eventlog/formatter"
)

// ChannelConfig describes one diagnostic file channel
type ChannelConfig struct {
	Name        string // File base name, also the backup prefix
	Tag         string // Line tag, see formatter.Tag*
	Directory   string
	Extension   string
	Encoding    string
	MaxSize     int64 // Rotation threshold in bytes
	BackupSlots int   // Backup names "<Name>.<N>.bak", N in [0, BackupSlots)
	Enabled     bool
}

// Channel is an append-only diagnostic file rotated into numbered backups
type Channel struct {
	mu sync.Mutex

	name        string
	tag         string
	directory   string
	path        string
	enc         textEncoding
	maxSize     int64
	backupSlots int
	enabled     bool

	file      *os.File
	formatter *formatter.Formatter

	state       *State
	internalLog func(format string, args ...any)
}

// NewChannel creates a channel. The file is opened on first write.
func NewChannel(cfg ChannelConfig) (*Channel, error) {
	te, err := lookupEncoding(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		return nil, fmtErrorf("channel name cannot be empty")
	}
	if cfg.MaxSize <= 0 {
		return nil, fmtErrorf("channel '%s' max size must be positive: %d", cfg.Name, cfg.MaxSize)
	}
	if cfg.BackupSlots < 0 {
		return nil, fmtErrorf("channel '%s' backup slots cannot be negative: %d", cfg.Name, cfg.BackupSlots)
	}

	filename := cfg.Name
	if cfg.Extension != "" {
		filename += "." + cfg.Extension
	}

	return &Channel{
		name:        cfg.Name,
		tag:         cfg.Tag,
		directory:   cfg.Directory,
		path:        filepath.Join(cfg.Directory, filename),
		enc:         te,
		maxSize:     cfg.MaxSize,
		backupSlots: cfg.BackupSlots,
		enabled:     cfg.Enabled,
		formatter:   formatter.New(),
		state:       &State{},
	}, nil
}

// Name returns the channel name
func (c *Channel) Name() string {
	return c.name
}

// Path returns the active file path
func (c *Channel) Path() string {
	return c.path
}

// BackupPath returns the path of backup slot n
func (c *Channel) BackupPath(n int) string {
	return filepath.Join(c.directory, fmt.Sprintf("%s.%d.%s", c.name, n, backupExtension))
}

// Enabled reports whether writes reach the file
func (c *Channel) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// SetEnabled turns the channel on or off. Disabling releases the file.
func (c *Channel) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
	if !enabled {
		c.closeLocked()
	}
}

// Write appends one line built from args
func (c *Channel) Write(args ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return nil
	}
	return c.writeLocked(c.formatter.Format(c.tag, time.Now(), args...))
}

// Writef appends one printf-style line
func (c *Channel) Writef(format string, args ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return nil
	}
	return c.writeLocked(c.formatter.Formatf(c.tag, time.Now(), format, args...))
}

// Close releases the file handle; the next write reopens it
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Channel) writeLocked(line []byte) error {
	data, err := c.enc.encode(string(line))
	if err != nil {
		return c.failLocked(fmtErrorf("failed to encode line for '%s': %w", c.path, err))
	}

	if c.file == nil {
		file, err := openAppend(c.path, c.enc)
		if err != nil {
			return c.failLocked(err)
		}
		c.file = file
	}

	if _, err := c.file.Write(data); err != nil {
		return c.failLocked(fmtErrorf("failed to write to '%s': %w", c.path, err))
	}
	if err := c.file.Sync(); err != nil {
		return c.failLocked(fmtErrorf("failed to sync '%s': %w", c.path, err))
	}

	fi, err := c.file.Stat()
	if err != nil {
		return c.failLocked(fmtErrorf("failed to stat '%s': %w", c.path, err))
	}
	if fi.Size() >= c.maxSize {
		c.rotateLocked()
	}
	return nil
}

// rotateLocked moves the active file to the first free backup slot.
// With every slot taken the file stays in place and keeps growing.
func (c *Channel) rotateLocked() {
	if err := c.closeLocked(); err != nil {
		c.logInternal("failed to close '%s' before rotation: %v\n", c.path, err)
	}

	for n := 0; n < c.backupSlots; n++ {
		backup := c.BackupPath(n)
		if _, err := os.Stat(backup); !os.IsNotExist(err) {
			continue
		}
		if err := os.Rename(c.path, backup); err != nil {
			c.state.RotationFailures.Add(1)
			c.logInternal("failed to rename '%s' to '%s': %v\n", c.path, backup, err)
			return
		}
		c.state.Rotations.Add(1)
		return
	}

	c.state.RotationFailures.Add(1)
	c.logInternal("all %d backup slots of '%s' are taken, file keeps growing\n", c.backupSlots, c.name)
}

func (c *Channel) closeLocked() error {
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	if err != nil {
		return fmtErrorf("failed to close '%s': %w", c.path, err)
	}
	return nil
}

// failLocked releases the handle so the next write starts over
func (c *Channel) failLocked(err error) error {
	_ = c.closeLocked()
	c.state.IOErrors.Add(1)
	c.logInternal("%v\n", err)
	return err
}

func (c *Channel) logInternal(format string, args ...any) {
	if c.internalLog != nil {
		c.internalLog(format, args...)
	}
}

// Diagnostics groups the three independent diagnostic channels
type Diagnostics struct {
	Error *Channel
	Debug *Channel
	Info  *Channel
}

// Channels returns the channels in a fixed order
func (d *Diagnostics) Channels() []*Channel {
	return []*Channel{d.Error, d.Debug, d.Info}
}

// Close releases every channel file
func (d *Diagnostics) Close() error {
	var finalErr error
	for _, ch := range d.Channels() {
		if ch == nil {
			continue
		}
		finalErr = combineErrors(finalErr, ch.Close())
	}
	return finalErr
}

// newDiagnostics builds the channels described by cfg
func newDiagnostics(cfg *Config) (*Diagnostics, error) {
	channelDefs := []struct {
		name    string
		tag     string
		enabled bool
	}{
		{ChannelTraceError, formatter.TagError, cfg.EnableTraceError},
		{ChannelTraceDebug, formatter.TagDebug, cfg.EnableTraceDebug},
		{ChannelDebugInfo, formatter.TagInfo, cfg.EnableDebugInfo},
	}

	channels := make([]*Channel, len(channelDefs))
	for i, def := range channelDefs {
		ch, err := NewChannel(ChannelConfig{
			Name:        def.name,
			Tag:         def.tag,
			Directory:   cfg.Directory,
			Extension:   cfg.Extension,
			Encoding:    cfg.Encoding,
			MaxSize:     cfg.diagMaxSizeBytes(),
			BackupSlots: int(cfg.BackupSlots),
			Enabled:     def.enabled,
		})
		if err != nil {
			return nil, err
		}
		channels[i] = ch
	}

	return &Diagnostics{Error: channels[0], Debug: channels[1], Info: channels[2]}, nil
}
