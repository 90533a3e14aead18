package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"survivor-league/logging"

	"github.com/google/uuid"
)

// DefaultBackupCollections are dumped when no collections are configured
var DefaultBackupCollections = []string{"contestants", "players", "player_tribes", "pick_ems", "picks", "counters"}

// CollectionStore dumps and restores whole collections. database.MongoDB implements it.
type CollectionStore interface {
	DumpCollection(ctx context.Context, name string, w io.Writer) (int, error)
	RestoreCollection(ctx context.Context, name string, r io.Reader) (int, error)
}

type BackupService struct {
	store       CollectionStore
	uploader    ObjectUploader
	backupDir   string
	logger      *logging.Logger
	collections []string
	now         func() time.Time
}

type BackupConfig struct {
	BackupDir   string
	Collections []string
}

type BackupInfo struct {
	ID          string         `json:"id"`
	Timestamp   string         `json:"timestamp"`
	CreatedAt   time.Time      `json:"created_at"`
	Size        int64          `json:"size"`
	Collections []string       `json:"collections"`
	Documents   map[string]int `json:"documents,omitempty"`
	Uploaded    bool           `json:"uploaded"`
}

// NewBackupService creates a backup service. uploader may be nil to keep
// backups on local disk only.
func NewBackupService(store CollectionStore, uploader ObjectUploader, config BackupConfig) *BackupService {
	collections := config.Collections
	if len(collections) == 0 {
		collections = DefaultBackupCollections
	}

	return &BackupService{
		store:       store,
		uploader:    uploader,
		backupDir:   config.BackupDir,
		logger:      logging.WithPrefix("BackupService"),
		collections: collections,
		now:         time.Now,
	}
}

// CreateBackup dumps every collection into backup_<timestamp>/ and uploads the
// files when an uploader is configured
func (bs *BackupService) CreateBackup(ctx context.Context) (*BackupInfo, error) {
	now := bs.now()
	timestamp := now.Format("2006-01-02_15-04-05")
	name := "backup_" + timestamp
	backupPath := filepath.Join(bs.backupDir, name)

	bs.logger.Infof("Starting backup to %s", backupPath)

	if err := os.MkdirAll(backupPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	info := &BackupInfo{
		ID:          uuid.NewString(),
		Timestamp:   timestamp,
		CreatedAt:   now.UTC(),
		Collections: bs.collections,
		Documents:   make(map[string]int, len(bs.collections)),
	}

	for _, collectionName := range bs.collections {
		count, err := bs.backupCollection(ctx, collectionName, backupPath)
		if err != nil {
			bs.logger.Errorf("Failed to backup collection %s: %v", collectionName, err)
			return nil, fmt.Errorf("failed to backup collection %s: %w", collectionName, err)
		}
		info.Documents[collectionName] = count
		bs.logger.Infof("Backed up %d documents from collection %s", count, collectionName)
	}

	if err := bs.writeMetadata(backupPath, info); err != nil {
		bs.logger.Warnf("Failed to create backup metadata: %v", err)
	}

	if bs.uploader != nil {
		if err := bs.upload(ctx, name, backupPath); err != nil {
			return nil, err
		}
		info.Uploaded = true
	}

	info.Size = bs.calculateBackupSize(backupPath)
	bs.logger.Infof("Backup %s completed at %s (%d bytes)", info.ID, backupPath, info.Size)
	return info, nil
}

func (bs *BackupService) backupCollection(ctx context.Context, collectionName, backupPath string) (int, error) {
	outputFile := filepath.Join(backupPath, collectionName+".json")
	file, err := os.Create(outputFile)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	return bs.store.DumpCollection(ctx, collectionName, file)
}

func (bs *BackupService) writeMetadata(backupPath string, info *BackupInfo) error {
	file, err := os.Create(filepath.Join(backupPath, "metadata.json"))
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(info)
}

func (bs *BackupService) loadMetadata(backupPath string) (*BackupInfo, error) {
	file, err := os.Open(filepath.Join(backupPath, "metadata.json"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var info BackupInfo
	if err := json.NewDecoder(file).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

// upload sends every file of a backup directory under <name>/
func (bs *BackupService) upload(ctx context.Context, name, backupPath string) error {
	entries, err := os.ReadDir(backupPath)
	if err != nil {
		return fmt.Errorf("failed to read backup directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := bs.uploadFile(ctx, name+"/"+entry.Name(), filepath.Join(backupPath, entry.Name())); err != nil {
			return err
		}
	}
	bs.logger.Infof("Uploaded backup %s", name)
	return nil
}

func (bs *BackupService) uploadFile(ctx context.Context, key, filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer file.Close()

	contentType := "application/x-ndjson"
	if strings.HasSuffix(key, "metadata.json") {
		contentType = "application/json"
	}
	return bs.uploader.Upload(ctx, key, file, contentType)
}

// CleanupOldBackups removes local backups older than retentionDays
func (bs *BackupService) CleanupOldBackups(retentionDays int) error {
	if retentionDays <= 0 {
		bs.logger.Info("Backup cleanup disabled (retention days <= 0)")
		return nil
	}

	bs.logger.Infof("Cleaning up backups older than %d days", retentionDays)
	cutoffTime := bs.now().AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(bs.backupDir)
	if err != nil {
		return fmt.Errorf("failed to read backup directory: %w", err)
	}

	deletedCount := 0
	for _, entry := range entries {
		if !entry.IsDir() || !isBackupDir(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			bs.logger.Warnf("Failed to get info for %s: %v", entry.Name(), err)
			continue
		}

		if info.ModTime().Before(cutoffTime) {
			backupPath := filepath.Join(bs.backupDir, entry.Name())
			if err := os.RemoveAll(backupPath); err != nil {
				bs.logger.Warnf("Failed to remove old backup %s: %v", backupPath, err)
			} else {
				bs.logger.Infof("Removed old backup: %s", entry.Name())
				deletedCount++
			}
		}
	}

	bs.logger.Infof("Cleanup completed. Removed %d old backups", deletedCount)
	return nil
}

func isBackupDir(name string) bool {
	return strings.HasPrefix(name, "backup_") && len(name) > len("backup_")
}

// RestoreBackup restores a backup by timestamp. An empty collection list
// restores every configured collection.
func (bs *BackupService) RestoreBackup(ctx context.Context, timestamp string, collections []string) error {
	backupPath := filepath.Join(bs.backupDir, "backup_"+timestamp)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup %s: %w", timestamp, ErrNotFound)
	}

	if meta, err := bs.loadMetadata(backupPath); err != nil {
		bs.logger.Warnf("Could not load backup metadata: %v", err)
	} else {
		bs.logger.Infof("Restoring backup %s from %s", meta.ID, meta.CreatedAt.Format(time.RFC3339))
	}

	if len(collections) == 0 {
		collections = bs.collections
	}

	for _, collectionName := range collections {
		if err := bs.restoreCollection(ctx, collectionName, backupPath); err != nil {
			bs.logger.Errorf("Failed to restore collection %s: %v", collectionName, err)
			return fmt.Errorf("failed to restore collection %s: %w", collectionName, err)
		}
	}

	bs.logger.Infof("Restore completed successfully from %s", backupPath)
	return nil
}

func (bs *BackupService) restoreCollection(ctx context.Context, collectionName, backupPath string) error {
	file, err := os.Open(filepath.Join(backupPath, collectionName+".json"))
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer file.Close()

	count, err := bs.store.RestoreCollection(ctx, collectionName, file)
	if err != nil {
		return err
	}
	bs.logger.Infof("Restored %d documents to collection %s", count, collectionName)
	return nil
}

// ListBackups returns local backups, newest first
func (bs *BackupService) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(bs.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := make([]BackupInfo, 0)
	for _, entry := range entries {
		if !entry.IsDir() || !isBackupDir(entry.Name()) {
			continue
		}

		stat, err := entry.Info()
		if err != nil {
			bs.logger.Warnf("Failed to get info for %s: %v", entry.Name(), err)
			continue
		}

		backupPath := filepath.Join(bs.backupDir, entry.Name())
		backup := BackupInfo{
			Timestamp:   strings.TrimPrefix(entry.Name(), "backup_"),
			CreatedAt:   stat.ModTime(),
			Collections: bs.collections,
		}
		if meta, err := bs.loadMetadata(backupPath); err == nil {
			backup = *meta
		}
		backup.Size = bs.calculateBackupSize(backupPath)
		backups = append(backups, backup)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp > backups[j].Timestamp
	})
	return backups, nil
}

func (bs *BackupService) calculateBackupSize(backupPath string) int64 {
	var totalSize int64

	err := filepath.Walk(backupPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})
	if err != nil {
		bs.logger.Warnf("Failed to calculate backup size for %s: %v", backupPath, err)
		return 0
	}
	return totalSize
}
