package config

import (
	"time"

	"github.com/hjang25/roomchat/internal/proto"
)

// Config holds server configuration values.
type Config struct {
	// ListenAddr is the TCP address of the chat protocol listener.
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
	// StatusAddr is the address of the HTTP status API; empty disables it.
	StatusAddr string `mapstructure:"status_addr" yaml:"status_addr"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// MaxLineBytes caps one inbound wire line, terminator included.
	// The protocol maximum, and the default, is proto.MaxLineLen.
	MaxLineBytes int `mapstructure:"max_line_bytes" yaml:"max_line_bytes"`
	// ReadTimeout bounds each socket read on a chat session; zero
	// waits indefinitely.
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	// WriteTimeout bounds each socket write on a chat session; zero
	// waits indefinitely.
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	// DequeueWait bounds how long a receiver session blocks on an empty
	// delivery queue before rechecking its exit conditions.
	DequeueWait time.Duration `mapstructure:"dequeue_wait" yaml:"dequeue_wait"`
	// ShutdownTimeout bounds graceful shutdown of the status API.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		ListenAddr:      ":9025",
		StatusAddr:      ":9026",
		LogLevel:        "info",
		MaxLineBytes:    proto.MaxLineLen,
		DequeueWait:     time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.ListenAddr != "" {
		c.ListenAddr = other.ListenAddr
	}
	if other.StatusAddr != "" {
		c.StatusAddr = other.StatusAddr
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.MaxLineBytes != 0 {
		c.MaxLineBytes = other.MaxLineBytes
	}
	if other.ReadTimeout != 0 {
		c.ReadTimeout = other.ReadTimeout
	}
	if other.WriteTimeout != 0 {
		c.WriteTimeout = other.WriteTimeout
	}
	if other.DequeueWait != 0 {
		c.DequeueWait = other.DequeueWait
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
}
