package main

import (
	"flag"
	"fmt"
	"os"

	"quiz-master/internal/config"
	"quiz-master/internal/database"
)

func main() {
	var (
		source = flag.String("source", "file://database/migrations", "migration source URL")
		down   = flag.Bool("down", false, "roll back the most recent migration instead of migrating up")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *down {
		if err := database.RollbackMigrations(*source, cfg.GetDSN()); err != nil {
			fmt.Fprintf(os.Stderr, "rollback failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("rolled back one migration")
		return
	}

	if err := database.RunMigrations(*source, cfg.GetDSN()); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("migrations applied")
}
