package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/jesus-guti/tqr-rpe/internal/config"
	"github.com/jesus-guti/tqr-rpe/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultPlayers is the demo roster used when no names are passed
var defaultPlayers = []string{
	"Jude Bellingham",
	"Lamine Yamal",
	"Vinícius Júnior",
}

func main() {
	baseURL := flag.String("base-url", "http://localhost:8080", "base URL printed in per-player submission links")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	cfg := config.MustLoad()

	ctx := context.Background()
	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	names := flag.Args()
	if len(names) == 0 {
		names = defaultPlayers
	}

	fmt.Println("Seeding players...")
	for _, name := range names {
		player, err := db.Players.Create(ctx, name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", name, err)
			continue
		}
		fmt.Printf("  %s\n", player.Name)
		fmt.Printf("    token: %s\n", player.AuthToken)
		fmt.Printf("    link:  %s/?token=%s\n", *baseURL, player.AuthToken)
	}
	fmt.Println("Done.")
}
