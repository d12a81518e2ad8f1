package uploads

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Backup copies Src into a timestamped folder under Dest once a day at
// Hour:Minute and removes copies older than Retention.
type Backup struct {
	Src       string
	Dest      string
	Retention time.Duration
	Hour      int
	Minute    int
}

// Run blocks until ctx is cancelled.
func (b Backup) Run(ctx context.Context) {
	for {
		now := time.Now()
		next := b.nextRun(now)
		log.Printf("⏳ Next image backup scheduled at: %s", next.Format("2006-01-02 15:04:05"))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if dest, err := b.RunOnce(time.Now()); err != nil {
			log.Printf("❌ Failed to back up images: %v", err)
		} else {
			log.Printf("✅ Images backed up to %s", dest)
		}
	}
}

// RunOnce makes one copy stamped with now and prunes old copies.
func (b Backup) RunOnce(now time.Time) (string, error) {
	dest := filepath.Join(b.Dest, now.Format("2006-01-02_15-04-05"))
	if err := copyDir(b.Src, dest); err != nil {
		return "", err
	}
	b.cleanup(now)
	return dest, nil
}

func (b Backup) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), b.Hour, b.Minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())
		if entry.IsDir() {
			if err := copyDir(srcPath, destPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, destPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	return writeFile(dest, in)
}

// cleanup removes backup folders whose modification time is before the
// retention window.
func (b Backup) cleanup(now time.Time) {
	entries, err := os.ReadDir(b.Dest)
	if err != nil {
		log.Printf("❌ Failed to read backup directory: %v", err)
		return
	}
	cutoff := now.Add(-b.Retention)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folder := filepath.Join(b.Dest, entry.Name())
		info, err := os.Stat(folder)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.RemoveAll(folder); err != nil {
				log.Printf("❌ Failed to remove old backup %s: %v", folder, err)
			} else {
				log.Printf("🗑️ Removed old backup: %s", folder)
			}
		}
	}
}
