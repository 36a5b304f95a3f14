package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/treelang/go-tree-lsp/internal/config"
	"github.com/treelang/go-tree-lsp/internal/lsp"
	"github.com/treelang/go-tree-lsp/internal/protocol"
	"github.com/treelang/go-tree-lsp/internal/server"
)

const (
	version = "0.1.0"
)

var (
	tcpMode    bool
	tcpPort    int
	logLevel   string
	logFile    string
	configPath string
)

func init() {
	// Command-line flags
	flag.BoolVar(&tcpMode, "tcp", false, "Run server in TCP mode (for debugging)")
	flag.IntVar(&tcpPort, "port", 8765, "TCP port to listen on (used with -tcp)")
	flag.StringVar(&logLevel, "log-level", config.Default().Log.Level, "Log level: debug, info, notice, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")
	flag.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr, "go-tree-lsp version %s\n\n", version)
	fmt.Fprintf(os.Stderr, "Usage: go-tree-lsp [options]\n\n")
	fmt.Fprintf(os.Stderr, "Language server for level-order tree documents\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()

	// Print version if requested
	if flag.NArg() > 0 && flag.Arg(0) == "version" {
		fmt.Printf("go-tree-lsp version %s\n", version)
		os.Exit(0)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg)

	fmt.Fprintf(os.Stderr, "go-tree-lsp version %s starting...\n", version)
	fmt.Fprintf(os.Stderr, "Transport: ")
	if tcpMode {
		fmt.Fprintf(os.Stderr, "TCP (port %d)\n", tcpPort)
	} else {
		fmt.Fprintf(os.Stderr, "STDIO\n")
	}
	fmt.Fprintf(os.Stderr, "Log level: %s\n", cfg.Log.Level)

	documents := server.NewDocumentStore()
	handler := lsp.NewHandler(documents, protocol.ServerInfo{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
	})
	srv := server.New(handler, cfg.ReadBufferSize)

	log := commonlog.GetLogger("go-tree-lsp")
	if tcpMode {
		if err := srv.RunTCP(fmt.Sprintf("127.0.0.1:%d", tcpPort)); err != nil {
			log.Criticalf("TCP server error: %v", err)
			os.Exit(1)
		}
	} else {
		if err := srv.RunStdio(); err != nil {
			log.Criticalf("STDIO server error: %v", err)
			os.Exit(1)
		}
	}

	log.Noticef("shutting down with %d documents open", documents.Len())
	log.Debugf("open documents: %v", documents.URIs())
}

// loadConfig merges the optional config file with flag overrides. Only
// flags given on the command line win over the file; an untouched flag
// default never clobbers a file setting.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.Log.Level = logLevel
		case "log-file":
			cfg.Log.File = logFile
		}
	})

	return cfg, nil
}

// setupLogging configures the logging backend from the merged settings.
func setupLogging(cfg *config.Config) {
	var path *string
	if cfg.Log.File != "" {
		path = &cfg.Log.File
	}

	commonlog.Configure(verbosityFor(cfg.Log.Level), path)
}

// verbosityFor maps a named level onto commonlog's verbosity scale.
func verbosityFor(level string) int {
	switch level {
	case "debug":
		return 2
	case "info":
		return 1
	case "warn":
		return -1
	case "error":
		return -2
	default:
		return 0
	}
}
