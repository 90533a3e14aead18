// Command backup creates, lists and restores database backups outside the
// server's nightly schedule.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"survivor-league/config"
	"survivor-league/database"
	"survivor-league/logging"
	"survivor-league/services"
)

func main() {
	list := flag.Bool("list", false, "list local backups")
	restore := flag.String("restore", "", "restore the backup with this timestamp (2006-01-02_15-04-05)")
	collections := flag.String("collections", "", "comma-separated collections to restore (default: all)")
	yes := flag.Bool("yes", false, "skip the restore confirmation prompt")
	flag.Parse()

	fmt.Println("💾 Survivor League Backup Tool")
	fmt.Println("==============================")

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Configure(cfg.ToLoggingConfig())

	db, err := database.NewMongoConnection(ctx, cfg.ToDatabaseConfig())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close(ctx)

	var uploader services.ObjectUploader
	if cfg.IsStorageConfigured() && *restore == "" && !*list {
		s3Uploader, err := services.NewS3Uploader(ctx, cfg.ToS3Config())
		if err != nil {
			log.Fatalf("Failed to configure object storage: %v", err)
		}
		uploader = s3Uploader
	}
	backupService := services.NewBackupService(db, uploader, services.BackupConfig{BackupDir: cfg.Backup.BackupDir})

	switch {
	case *list:
		listBackups(backupService)
	case *restore != "":
		restoreBackup(ctx, backupService, *restore, splitCollections(*collections), *yes)
	default:
		createBackup(ctx, backupService, cfg.Backup.BackupDir)
	}
}

func createBackup(ctx context.Context, backupService *services.BackupService, dir string) {
	fmt.Printf("🔄 Starting manual backup...\n")
	fmt.Printf("📁 Backup directory: %s\n", dir)
	startTime := time.Now()

	info, err := backupService.CreateBackup(ctx)
	if err != nil {
		log.Fatalf("Manual backup failed: %v", err)
	}

	fmt.Println("\n✅ Manual backup completed successfully!")
	fmt.Printf("🆔 Backup: %s (%s)\n", info.Timestamp, info.ID)
	for _, name := range info.Collections {
		fmt.Printf("   %-14s %d documents\n", name, info.Documents[name])
	}
	fmt.Printf("📦 Size: %d bytes, uploaded: %t\n", info.Size, info.Uploaded)
	fmt.Printf("⏱️  Duration: %v\n", time.Since(startTime).Round(time.Millisecond))
}

func listBackups(backupService *services.BackupService) {
	backups, err := backupService.ListBackups()
	if err != nil {
		log.Fatalf("Failed to list backups: %v", err)
	}
	if len(backups) == 0 {
		fmt.Println("No backups found")
		return
	}
	for _, b := range backups {
		fmt.Printf("  %s  %10d bytes  %s\n", b.Timestamp, b.Size, strings.Join(b.Collections, ","))
	}
}

func restoreBackup(ctx context.Context, backupService *services.BackupService, timestamp string, collections []string, skipPrompt bool) {
	target := "all collections"
	if len(collections) > 0 {
		target = strings.Join(collections, ", ")
	}
	fmt.Printf("⚠️  Restoring %s from backup %s replaces the current data.\n", target, timestamp)

	if !skipPrompt {
		fmt.Print("Type 'yes' to continue: ")
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.TrimSpace(answer) != "yes" {
			fmt.Println("Restore cancelled")
			return
		}
	}

	if err := backupService.RestoreBackup(ctx, timestamp, collections); err != nil {
		log.Fatalf("Restore failed: %v", err)
	}
	fmt.Println("✅ Restore completed successfully!")
}

func splitCollections(value string) []string {
	var result []string
	for _, name := range strings.Split(value, ",") {
		if name = strings.TrimSpace(name); name != "" {
			result = append(result, name)
		}
	}
	return result
}
