package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ASLaskin/CalenAI/internal/config"
	appLog "github.com/ASLaskin/CalenAI/internal/log"
)

var configPath string

func main() {
	// .env is optional; shell environment still applies without it.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "calenai",
		Short:        "Conversational scheduling assistant backed by a local model",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "calenai.yaml", "path to config file")

	root.AddCommand(newChatCmd(), newServeCmd(), newExportCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the config file, applies environment overrides and
// sets the log level before anything else runs.
func loadConfig() (*config.Config, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", configPath)
		return nil, err
	}
	conf.ApplyEnv()
	appLog.SetLevel(conf.LogLevel)

	appLog.Debug("effective config",
		"ollama_url", conf.OllamaURL,
		"model", conf.Model,
		"calendar_file", conf.CalendarFile,
		"history_file", conf.HistoryFile,
		"listen", conf.Listen,
		"horizon_days", conf.HorizonDays,
	)
	return conf, nil
}
