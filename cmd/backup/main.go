package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stemsi/reportcard-backend/internal/cache"
	"github.com/stemsi/reportcard-backend/internal/config"
	"github.com/stemsi/reportcard-backend/internal/database"
	"github.com/stemsi/reportcard-backend/internal/logger"
	"github.com/stemsi/reportcard-backend/internal/repository"
	"github.com/stemsi/reportcard-backend/internal/service"
	"golang.org/x/term"
)

func main() {
	var (
		outDir string
		yes    bool
	)
	flag.StringVar(&outDir, "dir", ".", "Directory the export file is written to")
	flag.BoolVar(&yes, "yes", false, "Replace existing data without asking")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 || (args[0] == "import" && len(args) < 2) {
		printUsage()
		os.Exit(2)
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	// Without Redis the import still runs; cached forms expire on their own.
	var purger *cache.Purger
	if rdb, err := database.NewRedisClient(ctx, cfg, log); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, cache will not be purged")
	} else {
		defer rdb.Close()
		purger = cache.NewPurger(rdb)
	}

	// ─── Initialize Service ────────────────────────────────────────────
	store := repository.NewStore(pool)
	var backupService *service.BackupService
	if purger != nil {
		backupService = service.NewBackupService(store, purger, log)
	} else {
		backupService = service.NewBackupService(store, nil, log)
	}

	switch args[0] {
	case "export":
		file, err := backupService.Export(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Export failed")
		}
		path := filepath.Join(outDir, file.FileName)
		if err := os.WriteFile(path, file.Data, 0o644); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to write export")
		}
		fmt.Printf("Exported to %s (%d bytes)\n", path, len(file.Data))

	case "import":
		path := args[1]
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to read export file")
		}

		if !yes && !confirm("All schools, classes, schemas, students and marks will be replaced. Continue?") {
			fmt.Println("Aborted, nothing was changed")
			return
		}

		res, err := backupService.Import(ctx, data)
		if err != nil {
			log.Fatal().Err(err).Msg("Import failed, existing data kept")
		}
		fmt.Printf("Imported export of %s: %d schools, %d classes, %d schemas, %d students, %d marks, %d media\n",
			res.ExportedAt,
			res.Counts.Schools, res.Counts.Classes, res.Counts.MarksheetSchemas,
			res.Counts.Students, res.Counts.Marks, res.Counts.Media,
		)

	default:
		printUsage()
		os.Exit(2)
	}
}

// confirm asks a yes/no question on the terminal. Without a terminal it
// answers no; pass -yes for scripted imports.
func confirm(question string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "stdin is not a terminal, pass -yes to import non-interactively")
		return false
	}

	fmt.Printf("%s [y/N]: ", question)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: backup [flags] export | import <file>")
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}
