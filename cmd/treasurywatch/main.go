package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"TreasuryWatch/internal/collector"
	"TreasuryWatch/internal/config"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	commander.Register(&mnavCmd{}, "pipelines")
	commander.Register(&flowsCmd{}, "pipelines")
	commander.Register(&runCmd{}, "pipelines")
	commander.Register(&serveCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func loadConfig() (*config.Config, error) {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	return config.Load(cfgPath)
}

func httpOptions(cfg *config.Config) collector.HTTPOptions {
	return collector.HTTPOptions{
		Proxy:     cfg.Proxy,
		Timeout:   cfg.Sources.Timeout,
		UserAgent: cfg.Sources.UserAgent,
		APIKey:    cfg.Sources.APIKey,
	}
}
