package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"

	"github.com/pointsplit/2468/internal/api"
	"github.com/pointsplit/2468/internal/config"
	"github.com/pointsplit/2468/internal/game"
	"github.com/pointsplit/2468/internal/storage/bbolt"
)

const version = "v1.0.0"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`2468 - score tracker for the 2468 card game

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT            Port to listen on (default: 8080)
  DB_PATH         Path to the BoltDB file (default: 2468.db)
  DEBUG           Enable debug logging (default: false)
`, os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("2468 %s\n", version)
		return
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	cfg, err := config.FromEnv()
	if err != nil {
		zerologlog.Fatal().Err(err).Msg("config")
	}
	if *portFlag != "" {
		cfg.Port = *portFlag
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	store, err := bbolt.Open(cfg.DBPath)
	if err != nil {
		zerologlog.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open store")
	}
	defer store.Close()

	// Gin setup with zerolog request logging
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		zerologlog.Info().
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("dur", time.Since(start)).
			Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	manager := game.NewManager(store, zerologlog.Logger)
	api.New(manager, zerologlog.Logger).Mount(r)

	zerologlog.Info().Str("port", cfg.Port).Msg("listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		zerologlog.Fatal().Err(err).Msg("server")
	}
}
