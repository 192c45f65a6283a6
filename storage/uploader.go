package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

type UploadResult struct {
	Key      string `json:"key"`
	Location string `json:"location"`
	ETag     string `json:"etag"`
}

// FileUploader stores objects under a key and exposes them by public URL.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// UploadJSON marshals v and stores it as application/json.
func UploadJSON(ctx context.Context, u FileUploader, key string, v interface{}) (*UploadResult, error) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return u.Upload(ctx, key, "application/json", bytes.NewReader(payload))
}

// TournamentArchiveKey is the object key of a finalized tournament's results.
func TournamentArchiveKey(tournamentID int) string {
	return fmt.Sprintf("tournaments/%d/final.json", tournamentID)
}
