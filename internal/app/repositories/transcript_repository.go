package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/pkg/kvstore"
)

// TranscriptRepository keeps transcripts in the "transcripts" table
type TranscriptRepository struct {
	store kvstore.Store
	mu    sync.Mutex
}

// NewTranscriptRepository creates a new TranscriptRepository
func NewTranscriptRepository(store kvstore.Store) *TranscriptRepository {
	return &TranscriptRepository{store: store}
}

// Get returns the student's transcript, empty when none exists yet
func (r *TranscriptRepository) Get(ctx context.Context, studentID int64) (*models.Transcript, error) {
	all, err := loadTable[models.Transcript](ctx, r.store, kvstore.KeyTranscripts)
	if err != nil {
		return nil, fmt.Errorf("failed to load transcripts: %w", err)
	}
	for i := range all {
		if all[i].StudentID == studentID {
			return &all[i], nil
		}
	}
	return &models.Transcript{StudentID: studentID, Entries: []models.TranscriptEntry{}}, nil
}

// Save inserts or replaces the student's transcript
func (r *TranscriptRepository) Save(ctx context.Context, transcript *models.Transcript) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := loadTable[models.Transcript](ctx, r.store, kvstore.KeyTranscripts)
	if err != nil {
		return fmt.Errorf("failed to load transcripts: %w", err)
	}

	replaced := false
	for i := range all {
		if all[i].StudentID == transcript.StudentID {
			all[i] = *transcript
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, *transcript)
	}

	if err := r.store.Set(ctx, kvstore.KeyTranscripts, all); err != nil {
		return fmt.Errorf("failed to save transcripts: %w", err)
	}
	return nil
}
