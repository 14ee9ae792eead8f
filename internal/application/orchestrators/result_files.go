package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"clansite/internal/adapters/files"
	"clansite/internal/domain/result"
)

// FileStore persists uploaded files and returns their public URL.
type FileStore interface {
	Save(originalName string, src io.Reader) (string, error)
	Remove(fileURL string) error
}

// ResultStoreForFiles defines the store interface needed by the result lifecycle.
type ResultStoreForFiles interface {
	GetByID(ctx context.Context, id string) (result.Result, error)
	Save(ctx context.Context, r result.Result) error
	Update(ctx context.Context, r result.Result) error
	Delete(ctx context.Context, id string) error
}

// ResultFileDeps holds dependencies for the result orchestrators.
type ResultFileDeps struct {
	ResultStore ResultStoreForFiles
	Files       FileStore
	GenerateID  func() string
	Now         func() time.Time
}

// UploadedFile is a file received with a request.
type UploadedFile struct {
	Name string
	Body io.Reader
}

// --- Upload ---

// UploadResultInput carries a new result for a player.
type UploadResultInput struct {
	PlayerPhone string
	PlayerName  string
	File        *UploadedFile
}

// ExecuteUploadResult stores the file and then the row pointing at it.
// PRE: none
// POST: on success the row's FileURL names a stored file; on failure no file is left behind
func ExecuteUploadResult(ctx context.Context, input UploadResultInput, deps ResultFileDeps) (result.Result, error) {
	if input.File == nil {
		return result.Result{}, result.ErrNoFile
	}

	url, err := deps.Files.Save(input.File.Name, input.File.Body)
	if err != nil {
		return result.Result{}, fmt.Errorf("store result file: %w", err)
	}

	r := result.Result{
		ID:          deps.GenerateID(),
		PlayerPhone: input.PlayerPhone,
		PlayerName:  input.PlayerName,
		FileURL:     url,
		UploadedAt:  deps.Now(),
	}
	if err := deps.ResultStore.Save(ctx, r); err != nil {
		removeQuietly(deps.Files, url)
		return result.Result{}, fmt.Errorf("save result: %w", err)
	}

	slog.Info("result_uploaded", "result_id", r.ID, "file_url", url)
	return r, nil
}

// --- Update ---

// UpdateResultInput carries new metadata and, optionally, a replacement file.
type UpdateResultInput struct {
	ID          string
	PlayerPhone string
	PlayerName  string
	File        *UploadedFile
}

// ExecuteUpdateResult rewrites a result's metadata and swaps its file if one is given.
// The old file is removed only after the row points at the new one.
// POST: result.ErrNotFound when no row has the ID
func ExecuteUpdateResult(ctx context.Context, input UpdateResultInput, deps ResultFileDeps) (result.Result, error) {
	current, err := deps.ResultStore.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, result.ErrNotFound) {
			return result.Result{}, err
		}
		return result.Result{}, fmt.Errorf("load result: %w", err)
	}

	updated := current
	updated.PlayerPhone = input.PlayerPhone
	updated.PlayerName = input.PlayerName

	var newURL string
	if input.File != nil {
		newURL, err = deps.Files.Save(input.File.Name, input.File.Body)
		if err != nil {
			return result.Result{}, fmt.Errorf("store result file: %w", err)
		}
		updated.FileURL = newURL
	}

	if err := deps.ResultStore.Update(ctx, updated); err != nil {
		if newURL != "" {
			removeQuietly(deps.Files, newURL)
		}
		if errors.Is(err, result.ErrNotFound) {
			return result.Result{}, err
		}
		return result.Result{}, fmt.Errorf("update result: %w", err)
	}

	if newURL != "" && current.FileURL != newURL {
		removeQuietly(deps.Files, current.FileURL)
	}

	slog.Info("result_updated", "result_id", updated.ID, "file_replaced", newURL != "")
	return updated, nil
}

// --- Delete ---

// ExecuteDeleteResult removes the file and then the row.
// The two steps are not atomic; a crash between them leaves an orphan row
// whose file is already gone.
// POST: result.ErrNotFound when no row has the ID
func ExecuteDeleteResult(ctx context.Context, id string, deps ResultFileDeps) error {
	r, err := deps.ResultStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, result.ErrNotFound) {
			return err
		}
		return fmt.Errorf("load result: %w", err)
	}

	if err := deps.Files.Remove(r.FileURL); err != nil {
		if !errors.Is(err, files.ErrOutsideStore) {
			return fmt.Errorf("remove result file: %w", err)
		}
		slog.Warn("result_file_remove_failed", "result_id", id, "file_url", r.FileURL, "error", err)
	}

	if err := deps.ResultStore.Delete(ctx, id); err != nil {
		if errors.Is(err, result.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete result: %w", err)
	}

	slog.Info("result_deleted", "result_id", id)
	return nil
}

// removeQuietly deletes a file whose failure must not fail the caller.
func removeQuietly(store FileStore, url string) {
	if err := store.Remove(url); err != nil {
		slog.Warn("result_file_remove_failed", "file_url", url, "error", err)
	}
}
