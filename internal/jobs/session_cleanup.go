package jobs

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"prepvoice/interview/internal/repositories"

	"github.com/robfig/cron/v3"
)

// SessionCleanupJob removes interview sessions that were started but never
// finalized, together with recordings that outlived the retention window.
type SessionCleanupJob struct {
	repo   *repositories.SessionRepository
	config *CleanupConfig
	cron   *cron.Cron
}

// CleanupConfig contains configuration for the cleanup job
type CleanupConfig struct {
	Schedule  string        // Cron schedule (e.g., "0 3 * * *" for 3 AM daily)
	TTL       time.Duration // Age after which an unfinalized session is stale
	UploadDir string        // Directory holding uploaded recordings
	Enabled   bool          // Whether to run cleanups
}

// NewSessionCleanupJob creates a new cleanup job
func NewSessionCleanupJob(repo *repositories.SessionRepository, config *CleanupConfig) *SessionCleanupJob {
	return &SessionCleanupJob{
		repo:   repo,
		config: config,
		cron:   cron.New(),
	}
}

// Start begins the scheduled cleanup job
func (scj *SessionCleanupJob) Start() error {
	if !scj.config.Enabled {
		log.Println("Session cleanup is disabled, skipping scheduler")
		return nil
	}

	log.Printf("Starting session cleanup with schedule: %s", scj.config.Schedule)

	_, err := scj.cron.AddFunc(scj.config.Schedule, func() {
		if err := scj.RunCleanup(); err != nil {
			log.Printf("Cleanup job failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup job: %w", err)
	}

	scj.cron.Start()
	log.Println("Session cleanup started successfully")

	return nil
}

// Stop stops the scheduled cleanup job
func (scj *SessionCleanupJob) Stop() {
	if scj.cron != nil {
		scj.cron.Stop()
		log.Println("Session cleanup stopped")
	}
}

// RunCleanup performs a single cleanup run
func (scj *SessionCleanupJob) RunCleanup() error {
	cutoff := time.Now().Add(-scj.config.TTL)

	deleted, err := scj.repo.DeleteStaleUnfinalized(cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete stale sessions: %w", err)
	}
	if deleted > 0 {
		log.Printf("Deleted %d stale unfinalized sessions", deleted)
	}

	removed, err := scj.pruneRecordings(cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune recordings: %w", err)
	}
	if removed > 0 {
		log.Printf("Removed %d expired recordings", removed)
	}

	return nil
}

// pruneRecordings deletes uploaded recordings older than the cutoff. Reports
// keep their analysis results, so the raw audio does not need to outlive the
// retention window.
func (scj *SessionCleanupJob) pruneRecordings(cutoff time.Time) (int, error) {
	pattern := filepath.Join(scj.config.UploadDir, "interview_*.wav")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				log.Printf("Failed to remove recording %s: %v", path, err)
				continue
			}
			removed++
		}
	}

	return removed, nil
}
