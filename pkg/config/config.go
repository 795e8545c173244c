package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Config carries all environment-derived settings. It is built once at
// process start and injected; nothing below this layer reads the
// environment directly.
type Config struct {
	// Site identity
	SiteURL   string
	SiteTitle string

	// Subscriber storage backends, probed in priority order:
	// Turso -> local sqlite -> Mongo -> Redis -> JSON file.
	TursoDatabaseURL string
	TursoAuthToken   string
	SQLitePath       string
	MongoURL         string
	MongoDatabase    string
	RedisURL         string
	SubscribersFile  string

	// File-backed tracking stores
	TrackingFile  string
	SentPostsFile string

	// Email dispatch
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string

	// Webhook relay targets (comma-separated)
	WebhookURLs []string

	// Admin auth
	AdminPasswordHash string
	JWTSecret         string
	LegacyAPIToken    string

	// Hosting traits
	ReadOnlyFS bool
}

// FromEnv builds the Config from the process environment. The selection of
// which backends are active happens here, exactly once.
func FromEnv() *Config {
	loadEnvFile()

	cfg := &Config{
		SiteURL:   getEnvString("SITE_URL", "http://localhost:8080"),
		SiteTitle: getEnvString("SITE_TITLE", "Shop Guide"),

		TursoDatabaseURL: os.Getenv("TURSO_DATABASE_URL"),
		TursoAuthToken:   os.Getenv("TURSO_AUTH_TOKEN"),
		SQLitePath:       os.Getenv("SQLITE_PATH"),
		MongoURL:         os.Getenv("MONGO_URL"),
		MongoDatabase:    getEnvString("MONGO_DATABASE", "newsletter"),
		RedisURL:         os.Getenv("REDIS_URL"),
		SubscribersFile:  filepath.Join(DataDir, "newsletter-subscribers.json"),

		TrackingFile:  filepath.Join(DataDir, "newsletter-tracking.json"),
		SentPostsFile: filepath.Join(DataDir, "sent-blog-posts.json"),

		ResendAPIKey:  os.Getenv("RESEND_API_KEY"),
		EmailFrom:     getEnvString("EMAIL_FROM", "newsletter@shopguide.blog"),
		EmailFromName: getEnvString("EMAIL_FROM_NAME", "Shop Guide"),

		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		LegacyAPIToken:    os.Getenv("NEWSLETTER_API_TOKEN"),

		ReadOnlyFS: getEnvBool("READ_ONLY_FS", os.Getenv("VERCEL") != ""),
	}

	if urls := os.Getenv("SUBSCRIBE_WEBHOOK_URLS"); urls != "" {
		for _, u := range strings.Split(urls, ",") {
			if u = strings.TrimSpace(u); u != "" {
				cfg.WebhookURLs = append(cfg.WebhookURLs, u)
			}
		}
	}

	return cfg
}

// TursoConfigured reports whether the edge relational backend is usable.
func (c *Config) TursoConfigured() bool {
	return c.TursoDatabaseURL != "" && c.TursoAuthToken != ""
}

// SQLiteConfigured reports whether a local sqlite path was provided.
func (c *Config) SQLiteConfigured() bool { return c.SQLitePath != "" }

// MongoConfigured reports whether the document-store backend is usable.
func (c *Config) MongoConfigured() bool { return c.MongoURL != "" }

// RedisConfigured reports whether the key-value backend is usable.
func (c *Config) RedisConfigured() bool { return c.RedisURL != "" }

// EmailConfigured reports whether transactional email can be sent.
func (c *Config) EmailConfigured() bool { return c.ResendAPIKey != "" }
