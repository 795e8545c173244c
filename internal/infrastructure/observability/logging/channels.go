// Package logging provides structured logging channels for newsletter
// operations.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Channel represents a logical logging channel for different system components
type Channel string

const (
	// System channels
	ChannelSystem   Channel = "system"   // General system operations
	ChannelStartup  Channel = "startup"  // Application startup and initialization
	ChannelShutdown Channel = "shutdown" // Application shutdown and cleanup

	// Business logic channels
	ChannelNewsletter Channel = "newsletter" // Subscriber lifecycle operations
	ChannelEmail      Channel = "email"      // Email dispatch
	ChannelTracking   Channel = "tracking"   // Open/click tracking
	ChannelContent    Channel = "content"    // Blog post loading
	ChannelAuth       Channel = "auth"       // Admin authentication

	// Infrastructure channels
	ChannelDatabase Channel = "database" // Storage backend operations
	ChannelWebhook  Channel = "webhook"  // Webhook relay

	// Monitoring channels
	ChannelSlowQuery Channel = "slow-query" // Slow database queries
	ChannelDebug     Channel = "debug"      // Debug information
)

// ChanneledLogger provides structured logging with multiple channels
type ChanneledLogger struct {
	channels map[Channel]*slog.Logger
	config   *LoggerConfig
	configMu sync.RWMutex
}

// LoggerConfig contains configuration options for the channeled logger
type LoggerConfig struct {
	OutputToFile    bool   `json:"outputToFile"`    // Whether to write logs to files
	OutputToConsole bool   `json:"outputToConsole"` // Whether to write logs to console
	LogDirectory    string `json:"logDirectory"`    // Directory for log files
	JSONFormat      bool   `json:"jsonFormat"`      // Use JSON format for structured logging
	IncludeSource   bool   `json:"includeSource"`   // Include source file and line in logs

	DefaultLevel  slog.Level             `json:"defaultLevel"`  // Default log level
	ChannelLevels map[Channel]slog.Level `json:"channelLevels"` // Per-channel log levels
}

// DefaultLoggerConfig returns a sensible default configuration
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		OutputToFile:    true,
		OutputToConsole: true,
		LogDirectory:    "logs",
		JSONFormat:      true,
		IncludeSource:   false,
		DefaultLevel:    slog.LevelInfo,
		ChannelLevels:   make(map[Channel]slog.Level),
	}
}

var allChannels = []Channel{
	ChannelSystem, ChannelStartup, ChannelShutdown,
	ChannelNewsletter, ChannelEmail, ChannelTracking, ChannelContent, ChannelAuth,
	ChannelDatabase, ChannelWebhook,
	ChannelSlowQuery, ChannelDebug,
}

// NewChanneledLogger creates a new channeled logger with the given configuration
func NewChanneledLogger(config *LoggerConfig) (*ChanneledLogger, error) {
	if config == nil {
		config = DefaultLoggerConfig()
	}

	logger := &ChanneledLogger{
		channels: make(map[Channel]*slog.Logger),
		config:   config,
	}

	if config.OutputToFile {
		if err := os.MkdirAll(config.LogDirectory, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	for _, channel := range allChannels {
		channelLogger, err := logger.createChannelLogger(channel)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger for channel %s: %w", channel, err)
		}
		logger.channels[channel] = channelLogger
	}

	return logger, nil
}

// createChannelLogger creates a slog.Logger for a specific channel
func (cl *ChanneledLogger) createChannelLogger(channel Channel) (*slog.Logger, error) {
	cl.configMu.RLock()
	defer cl.configMu.RUnlock()

	level := cl.config.DefaultLevel
	if channelLevel, exists := cl.config.ChannelLevels[channel]; exists {
		level = channelLevel
	}

	var writers []io.Writer
	if cl.config.OutputToConsole {
		writers = append(writers, os.Stdout)
	}
	if cl.config.OutputToFile {
		filename := fmt.Sprintf("%s.log", string(channel))
		logPath := filepath.Join(cl.config.LogDirectory, filename)

		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", logPath, err)
		}
		writers = append(writers, file)
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = os.Stdout
	case 1:
		writer = writers[0]
	default:
		writer = io.MultiWriter(writers...)
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cl.config.IncludeSource,
	}

	var handler slog.Handler
	if cl.config.JSONFormat {
		handler = slog.NewJSONHandler(writer, handlerOpts)
	} else {
		handler = slog.NewTextHandler(writer, handlerOpts)
	}

	return slog.New(handler).With(slog.String("channel", string(channel))), nil
}

func (cl *ChanneledLogger) System() *slog.Logger     { return cl.channels[ChannelSystem] }
func (cl *ChanneledLogger) Startup() *slog.Logger    { return cl.channels[ChannelStartup] }
func (cl *ChanneledLogger) Shutdown() *slog.Logger   { return cl.channels[ChannelShutdown] }
func (cl *ChanneledLogger) Newsletter() *slog.Logger { return cl.channels[ChannelNewsletter] }
func (cl *ChanneledLogger) Email() *slog.Logger      { return cl.channels[ChannelEmail] }
func (cl *ChanneledLogger) Tracking() *slog.Logger   { return cl.channels[ChannelTracking] }
func (cl *ChanneledLogger) Content() *slog.Logger    { return cl.channels[ChannelContent] }
func (cl *ChanneledLogger) Auth() *slog.Logger       { return cl.channels[ChannelAuth] }
func (cl *ChanneledLogger) Database() *slog.Logger   { return cl.channels[ChannelDatabase] }
func (cl *ChanneledLogger) Webhook() *slog.Logger    { return cl.channels[ChannelWebhook] }
func (cl *ChanneledLogger) SlowQuery() *slog.Logger  { return cl.channels[ChannelSlowQuery] }
func (cl *ChanneledLogger) Debug() *slog.Logger      { return cl.channels[ChannelDebug] }

// GetChannel returns a logger for a specific channel
func (cl *ChanneledLogger) GetChannel(channel Channel) *slog.Logger {
	if logger, exists := cl.channels[channel]; exists {
		return logger
	}
	return cl.channels[ChannelSystem]
}

// WithOperation returns a logger with operation context
func (cl *ChanneledLogger) WithOperation(channel Channel, operation string) *slog.Logger {
	return cl.GetChannel(channel).With(slog.String("operation", operation))
}

// LogSlowQuery logs a slow database query
func (cl *ChanneledLogger) LogSlowQuery(query string, duration time.Duration, backend string) {
	cl.SlowQuery().Warn("Slow query detected",
		slog.String("query", sanitizeQuery(query)),
		slog.Duration("duration", duration),
		slog.String("backend", backend),
		slog.String("timestamp", time.Now().Format(time.RFC3339)),
	)
}

// SetChannelLevel changes the level for one channel at runtime
func (cl *ChanneledLogger) SetChannelLevel(channel Channel, level slog.Level) error {
	cl.configMu.Lock()
	cl.config.ChannelLevels[channel] = level
	cl.configMu.Unlock()

	channelLogger, err := cl.createChannelLogger(channel)
	if err != nil {
		return err
	}
	cl.channels[channel] = channelLogger
	return nil
}

// GetChannelLevels reports the effective level per channel
func (cl *ChanneledLogger) GetChannelLevels() map[string]string {
	cl.configMu.RLock()
	defer cl.configMu.RUnlock()

	levels := make(map[string]string, len(allChannels))
	for _, channel := range allChannels {
		level := cl.config.DefaultLevel
		if override, exists := cl.config.ChannelLevels[channel]; exists {
			level = override
		}
		levels[string(channel)] = level.String()
	}
	return levels
}

// sanitizeQuery collapses whitespace so multi-line SQL logs on one line.
func sanitizeQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
