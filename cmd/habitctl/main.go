package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/Dias221467/HabitFlow/internal/cli"
	"github.com/Dias221467/HabitFlow/internal/config"
	"github.com/Dias221467/HabitFlow/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	// Command output goes to stdout; keep logs out of it.
	logger.InitLogger(cfg.LogLevel)
	logger.Log.SetOutput(os.Stderr)
	logrus.SetOutput(os.Stderr)

	if err := cli.NewRootCommand(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}
