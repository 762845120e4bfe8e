package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/models"
)

func newTestFileIndexRepo(t *testing.T) (FileIndexRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTestDB(t)
	return NewPgFileIndexRepository(db, logger.Nop()), mock
}

func TestFindFileIndex_Success(t *testing.T) {
	repo, mock := newTestFileIndexRepo(t)

	now := time.Now()
	rows := sqlmock.
		NewRows([]string{"image_id", "file_path", "file_name", "uploaded_at"}).
		AddRow("img-1", "/files/a.png", "a.png", now).
		AddRow("img-2", "/files/b.png", "b.png", now.Add(time.Minute))

	mock.ExpectQuery("SELECT image_id, file_path, file_name, uploaded_at FROM file_entries").
		WithArgs("john@example.com").
		WillReturnRows(rows)

	index, err := repo.Find(context.Background(), "John@Example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index.OwnerEmail != "john@example.com" {
		t.Errorf("expected lowercased owner email, got %s", index.OwnerEmail)
	}
	if len(index.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(index.Entries))
	}
	if index.Entries[0].ImageID != "img-1" {
		t.Errorf("expected entries in upload order, got %s first", index.Entries[0].ImageID)
	}
}

func TestFindFileIndex_NoRows(t *testing.T) {
	repo, mock := newTestFileIndexRepo(t)

	mock.ExpectQuery("SELECT image_id, file_path, file_name, uploaded_at FROM file_entries").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"image_id", "file_path", "file_name", "uploaded_at"}))

	_, err := repo.Find(context.Background(), "ghost@example.com")
	if !errors.Is(err, ErrFileIndexNotFound) {
		t.Fatalf("expected ErrFileIndexNotFound, got %v", err)
	}
}

func TestAppendFileEntries_Success(t *testing.T) {
	repo, mock := newTestFileIndexRepo(t)

	now := time.Now()
	entries := []models.FileEntry{
		{ImageID: "img-1", FilePath: "/files/a.png", FileName: "a.png", UploadedAt: now},
		{ImageID: "img-2", FilePath: "/files/b.png", FileName: "b.png", UploadedAt: now},
	}

	mock.ExpectExec("INSERT INTO file_entries").
		WithArgs(
			"img-1", "john@example.com", "/files/a.png", "a.png", now,
			"img-2", "john@example.com", "/files/b.png", "b.png", now,
		).
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := repo.AppendEntries(context.Background(), "John@Example.com", entries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAppendFileEntries_DBError(t *testing.T) {
	repo, mock := newTestFileIndexRepo(t)

	mock.ExpectExec("INSERT INTO file_entries").
		WillReturnError(errors.New("db network error"))

	err := repo.AppendEntries(context.Background(), "john@example.com", []models.FileEntry{{ImageID: "img-1"}})
	if err == nil || !strings.Contains(err.Error(), "unexpected DB error") {
		t.Fatalf("expected wrapped unexpected DB error, got %v", err)
	}
}

func TestRenameFileEntry_Success(t *testing.T) {
	repo, mock := newTestFileIndexRepo(t)

	mock.ExpectExec("UPDATE file_entries SET file_name").
		WithArgs("renamed.png", "/files/a.png", "john@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RenameEntry(context.Background(), "john@example.com", "/files/a.png", "renamed.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRenameFileEntry_NotFound(t *testing.T) {
	repo, mock := newTestFileIndexRepo(t)

	mock.ExpectExec("UPDATE file_entries SET file_name").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RenameEntry(context.Background(), "john@example.com", "/files/ghost.png", "x.png")
	if !errors.Is(err, ErrFileEntryNotFound) {
		t.Fatalf("expected ErrFileEntryNotFound, got %v", err)
	}
}

func TestRemoveFileEntry_Success(t *testing.T) {
	repo, mock := newTestFileIndexRepo(t)

	mock.ExpectExec("DELETE FROM file_entries").
		WithArgs("/files/a.png", "john@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RemoveEntry(context.Background(), "john@example.com", "/files/a.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRemoveFileEntry_NotFound(t *testing.T) {
	repo, mock := newTestFileIndexRepo(t)

	mock.ExpectExec("DELETE FROM file_entries").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RemoveEntry(context.Background(), "john@example.com", "/files/ghost.png")
	if !errors.Is(err, ErrFileEntryNotFound) {
		t.Fatalf("expected ErrFileEntryNotFound, got %v", err)
	}
}

func TestRenameFileOwner_Success(t *testing.T) {
	repo, mock := newTestFileIndexRepo(t)

	mock.ExpectExec("UPDATE file_entries SET owner_email").
		WithArgs("new@example.com", "old@example.com").
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := repo.RenameOwner(context.Background(), "Old@Example.com", "New@Example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRenameFileOwner_NoIndex(t *testing.T) {
	repo, mock := newTestFileIndexRepo(t)

	mock.ExpectExec("UPDATE file_entries SET owner_email").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RenameOwner(context.Background(), "ghost@example.com", "new@example.com")
	if !errors.Is(err, ErrFileIndexNotFound) {
		t.Fatalf("expected ErrFileIndexNotFound, got %v", err)
	}
}

func TestReplaceFileIndex_DeletesThenInserts(t *testing.T) {
	repo, mock := newTestFileIndexRepo(t)

	now := time.Now()
	index := models.FileIndex{
		OwnerEmail: "john@example.com",
		Entries: []models.FileEntry{
			{ImageID: "img-1", FilePath: "/files/a.png", FileName: "a.png", UploadedAt: now},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM file_entries").
		WithArgs("john@example.com").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO file_entries").
		WithArgs("img-1", "john@example.com", "/files/a.png", "a.png", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Replace(context.Background(), index); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReplaceFileIndex_EmptyEntriesOnlyDeletes(t *testing.T) {
	repo, mock := newTestFileIndexRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM file_entries").
		WithArgs("john@example.com").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	if err := repo.Replace(context.Background(), models.FileIndex{OwnerEmail: "john@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDeleteFileIndex_Success(t *testing.T) {
	repo, mock := newTestFileIndexRepo(t)

	mock.ExpectExec("DELETE FROM file_entries").
		WithArgs("john@example.com").
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := repo.Delete(context.Background(), "john@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
