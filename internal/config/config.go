// Package config provides application configuration structures and helpers.
package config

import (
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ServerConfig holds the configuration settings for the summary server.
type ServerConfig struct {
	Addr            string // Server address
	Logger          *zap.SugaredLogger
	StoreInterval   int    // Interval for persisting summaries to file (in seconds)
	FileStoragePath string // Path to the file for summary storage
	Restore         bool   // Whether to restore summaries from file on startup
	DatabaseDsn     string // Data Source Name for PostgreSQL
}

// ReporterConfig holds the configuration settings for the reporter.
type ReporterConfig struct {
	ServerAddr     string // Summary server address
	ReportInterval int    // Interval for sending summaries (in seconds)
	PollInterval   int    // Interval for collecting metrics (in seconds)
	ClientTimeout  int    // HTTP client timeout (in seconds)
	EventLogPath   string // Local event-log file used when no server is configured
}

// NewServerConfig creates and returns a new ServerConfig by parsing flags and environment variables.
func NewServerConfig() *ServerConfig {
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{"stdout", "server.log"}

	logger := zap.Must(logCfg.Build())

	cfg := &ServerConfig{}
	flag.StringVar(&cfg.Addr, "a", "localhost:8080", "HTTP server address")
	flag.IntVar(&cfg.StoreInterval, "i", 300, "store interval")
	flag.StringVar(&cfg.FileStoragePath, "f", "./tmp/summaries-db.json", "path to summaries file")
	flag.BoolVar(&cfg.Restore, "r", true, "load summaries from last file")
	flag.StringVar(&cfg.DatabaseDsn, "d", "", "DB connection string")
	flag.Parse()

	cfg.Logger = logger.Sugar()

	readServerEnvironment(cfg)

	return cfg
}

func readServerEnvironment(cfg *ServerConfig) {
	if addr := os.Getenv("ADDRESS"); addr != "" {
		cfg.Addr = addr
	}

	storeIntervalEnv := os.Getenv("STORE_INTERVAL")
	if storeIntervalEnv != "" {
		v, err := strconv.Atoi(storeIntervalEnv)
		if err == nil {
			cfg.StoreInterval = v
		} else {
			log.Printf("invalid STORE_INTERVAL env var: %v", err)
		}
	}

	if fsp := os.Getenv("FILE_STORAGE_PATH"); fsp != "" {
		cfg.FileStoragePath = fsp
	}

	if dbDsn := os.Getenv("DATABASE_DSN"); dbDsn != "" {
		cfg.DatabaseDsn = dbDsn
	}

	restoreEnv := os.Getenv("RESTORE")
	if restoreEnv != "" {
		v, err := strconv.ParseBool(restoreEnv)
		if err == nil {
			cfg.Restore = v
		} else {
			log.Printf("invalid RESTORE env var: %v", err)
		}
	}
}

// NewReporterConfig creates and returns a new ReporterConfig by parsing flags and environment variables.
func NewReporterConfig() *ReporterConfig {
	cfg := &ReporterConfig{}
	flag.StringVar(&cfg.ServerAddr, "a", "", "HTTP server address (must include http(s)://); empty writes to a local event log")
	flag.IntVar(&cfg.ReportInterval, "r", 10, "report interval")
	flag.IntVar(&cfg.PollInterval, "p", 2, "poll interval")
	flag.IntVar(&cfg.ClientTimeout, "t", 10, "client timeout")
	flag.StringVar(&cfg.EventLogPath, "f", "./tmp/summaries.jsonl", "path to local event log")
	flag.Parse()

	readReporterEnvironment(cfg)

	if cfg.ServerAddr != "" && !strings.HasPrefix(cfg.ServerAddr, "http://") && !strings.HasPrefix(cfg.ServerAddr, "https://") {
		cfg.ServerAddr = "http://" + cfg.ServerAddr
	}

	return cfg
}

func readReporterEnvironment(cfg *ReporterConfig) {
	if addr := os.Getenv("ADDRESS"); addr != "" {
		cfg.ServerAddr = addr
	}

	reportIntervalEnv := os.Getenv("REPORT_INTERVAL")
	if reportIntervalEnv != "" {
		v, err := strconv.Atoi(reportIntervalEnv)
		if err == nil {
			cfg.ReportInterval = v
		} else {
			log.Printf("invalid REPORT_INTERVAL env var: %v", err)
		}
	}

	pollIntervalEnv := os.Getenv("POLL_INTERVAL")
	if pollIntervalEnv != "" {
		v, err := strconv.Atoi(pollIntervalEnv)
		if err == nil {
			cfg.PollInterval = v
		} else {
			log.Printf("invalid POLL_INTERVAL env var: %v", err)
		}
	}

	if elp := os.Getenv("EVENT_LOG_PATH"); elp != "" {
		cfg.EventLogPath = elp
	}
}
