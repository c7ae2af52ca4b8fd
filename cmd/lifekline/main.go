package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Dime2015/lifekline/internal/app"
	"github.com/Dime2015/lifekline/internal/constants"
	"github.com/Dime2015/lifekline/internal/log"
	"github.com/Dime2015/lifekline/pkg/config"
)

func main() {
	cfgFile := flag.String("config", "config.yaml", "Path to configuration source:\n\t\t\t  YAML: config.yaml\n\t\t\t  SQLite: config.db")
	cfgBackend := flag.String("config-backend", "yaml", "Configuration backend type: 'yaml' for YAML files, 'sqlite' for SQLite databases")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("lifekline %s\n", constants.Version)
		os.Exit(0)
	}

	// Load configuration
	cfgData, err := loadConfig(*cfgFile, *cfgBackend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set up logging
	if err := initLogging(*debug, cfgData); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Create and run the application
	application := app.New(cfgData, log.GetSugaredLogger())
	if err := application.Run(context.Background()); err != nil {
		log.Errorf("Application error: %v", err)
		os.Exit(1)
	}
}

func initLogging(debug bool, cfgData *config.ConfigData) error {
	if cfgData.Logging.File != "" {
		return log.InitWithRotation(debug, log.FileRotation{
			Path:       cfgData.Logging.File,
			MaxSizeMB:  cfgData.Logging.MaxSizeMB,
			MaxBackups: cfgData.Logging.MaxBackups,
			MaxAgeDays: cfgData.Logging.MaxAgeDays,
		})
	}
	return log.Init(debug)
}

func loadConfig(cfgFile, cfgBackend string) (*config.ConfigData, error) {
	filename, _ := filepath.Abs(cfgFile)

	var provider config.ConfigProvider
	var err error

	switch cfgBackend {
	case "yaml":
		provider = config.NewYAMLProvider(filename)
	case "sqlite":
		provider, err = config.NewSQLiteProvider(filename)
		if err != nil {
			return nil, fmt.Errorf("error creating SQLite provider: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported configuration backend: %s. Use 'yaml' or 'sqlite'", cfgBackend)
	}
	defer provider.Close()

	cfgData, err := provider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error reading config file. Did you pass the -config flag? Run with -h for help: %w", err)
	}

	if err := config.ApplyEnv(cfgData); err != nil {
		return nil, err
	}

	return cfgData, nil
}
