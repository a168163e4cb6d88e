package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors the environment variables as a TOML document:
//
//	[kafka]
//	brokers = ["kafka-1:9092", "kafka-2:9092"]
//	source_topic = "raw-bufkit-files"
//
//	[pipeline]
//	batch_size = 20
//	sink = "sqlite"
//
//	[sqlite]
//	path = "/var/lib/bufkit/soundings.db"
type fileConfig struct {
	Kafka struct {
		Brokers     []string `toml:"brokers"`
		SourceTopic string   `toml:"source_topic"`
		SinkTopic   string   `toml:"sink_topic"`
		GroupID     string   `toml:"group_id"`
	} `toml:"kafka"`

	HTTP struct {
		Addr string `toml:"addr"`
	} `toml:"http"`

	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`

	Pipeline struct {
		BatchSize          int    `toml:"batch_size"`
		BatchFlushInterval string `toml:"batch_flush_interval"`
		ShutdownTimeout    string `toml:"shutdown_timeout"`
		MaxFileBytes       int64  `toml:"max_file_bytes"`
		Sink               string `toml:"sink"`
	} `toml:"pipeline"`

	SQLite struct {
		Path string `toml:"path"`
	} `toml:"sqlite"`

	Mapbox struct {
		Enabled   *bool  `toml:"enabled"`
		Timeout   string `toml:"timeout"`
		CacheSize int    `toml:"cache_size"`
	} `toml:"mapbox"`
}

// applyFile decodes a TOML config file and exports its values as environment
// variables that are not already set. The Mapbox token is never read from the
// file.
func applyFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	for key, value := range fc.env() {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("set %s from config file: %w", key, err)
		}
	}
	return nil
}

// env returns the non-zero file values keyed by environment variable name.
func (fc fileConfig) env() map[string]string {
	out := make(map[string]string)
	set := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	setInt := func(key string, value int64) {
		if value != 0 {
			out[key] = strconv.FormatInt(value, 10)
		}
	}

	set("KAFKA_BROKERS", strings.Join(fc.Kafka.Brokers, ","))
	set("KAFKA_SOURCE_TOPIC", fc.Kafka.SourceTopic)
	set("KAFKA_SINK_TOPIC", fc.Kafka.SinkTopic)
	set("KAFKA_GROUP_ID", fc.Kafka.GroupID)
	set("HTTP_ADDR", fc.HTTP.Addr)
	set("LOG_LEVEL", fc.Log.Level)
	set("LOG_FORMAT", fc.Log.Format)
	setInt("BATCH_SIZE", int64(fc.Pipeline.BatchSize))
	set("BATCH_FLUSH_INTERVAL", fc.Pipeline.BatchFlushInterval)
	set("SHUTDOWN_TIMEOUT", fc.Pipeline.ShutdownTimeout)
	setInt("MAX_FILE_BYTES", fc.Pipeline.MaxFileBytes)
	set("SINK", fc.Pipeline.Sink)
	set("SQLITE_PATH", fc.SQLite.Path)
	if fc.Mapbox.Enabled != nil {
		out["MAPBOX_ENABLED"] = strconv.FormatBool(*fc.Mapbox.Enabled)
	}
	set("MAPBOX_TIMEOUT", fc.Mapbox.Timeout)
	setInt("MAPBOX_CACHE_SIZE", int64(fc.Mapbox.CacheSize))
	return out
}
