package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"boards/internal/domain"
	"boards/internal/domain/services"
)

var testBuckets = FileBuckets{Files: "board-files", Media: "board-media"}

func newTestFileService(fileRepo *fakeFileRepo, store *fakeObjectStore) services.FileService {
	return NewFileService(fileRepo, store, testBuckets, 15*time.Minute, testLogger())
}

func uploadReq(contentType string) *services.UploadFileRequest {
	return &services.UploadFileRequest{
		FileName:    "notes.txt",
		ContentType: contentType,
		ByteSize:    5,
		Body:        strings.NewReader("hello"),
	}
}

func TestUpload(t *testing.T) {
	t.Run("object written before row", func(t *testing.T) {
		fileRepo := newFakeFileRepo()
		store := newFakeObjectStore()
		svc := newTestFileService(fileRepo, store)

		file, err := svc.Upload(context.Background(), "alice", uploadReq("text/plain"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if file.Bucket != "board-files" {
			t.Errorf("bucket = %q, want board-files", file.Bucket)
		}
		if !file.Backed || !file.UserManageable {
			t.Errorf("uploaded file should be backed and user-manageable")
		}
		if _, ok := store.objects[storeKey(file.Bucket, file.ObjectID)]; !ok {
			t.Errorf("object missing from store")
		}
		if _, ok := fileRepo.files[file.ObjectID]; !ok {
			t.Errorf("metadata row missing")
		}
	})

	t.Run("video routed to media bucket", func(t *testing.T) {
		svc := newTestFileService(newFakeFileRepo(), newFakeObjectStore())

		file, err := svc.Upload(context.Background(), "alice", uploadReq("video/mp4"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if file.Bucket != "board-media" {
			t.Errorf("bucket = %q, want board-media", file.Bucket)
		}
	})

	t.Run("put failure leaves no row", func(t *testing.T) {
		fileRepo := newFakeFileRepo()
		store := newFakeObjectStore()
		store.putErr = &domain.StorageError{Op: "put", Err: errors.New("boom")}
		svc := newTestFileService(fileRepo, store)

		_, err := svc.Upload(context.Background(), "alice", uploadReq("text/plain"))
		var storageErr *domain.StorageError
		if !errors.As(err, &storageErr) {
			t.Fatalf("got err %v, want StorageError", err)
		}
		if fileRepo.createSeen != 0 {
			t.Errorf("row insert attempted after failed put")
		}
	})

	t.Run("row failure cleans up fresh object", func(t *testing.T) {
		fileRepo := newFakeFileRepo()
		fileRepo.createErr = errors.New("insert failed")
		store := newFakeObjectStore()
		svc := newTestFileService(fileRepo, store)

		_, err := svc.Upload(context.Background(), "alice", uploadReq("text/plain"))
		if err == nil {
			t.Fatal("expected error")
		}
		if len(store.objects) != 0 {
			t.Errorf("orphaned object left in store: %v", store.objects)
		}
	})

	t.Run("oversize rejected", func(t *testing.T) {
		svc := newTestFileService(newFakeFileRepo(), newFakeObjectStore())

		req := uploadReq("text/plain")
		req.ByteSize = 200 << 20
		_, err := svc.Upload(context.Background(), "alice", req)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("got err %v, want ErrValidation", err)
		}
	})
}

func TestCreatePlaceholder(t *testing.T) {
	fileRepo := newFakeFileRepo()
	store := newFakeObjectStore()
	svc := newTestFileService(fileRepo, store)

	file, err := svc.CreatePlaceholder(context.Background(), "alice", "draft picture")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if file.Backed {
		t.Errorf("placeholder must not claim backing")
	}
	if file.UserManageable {
		t.Errorf("placeholder must not be user-manageable")
	}
	if len(store.puts) != 0 {
		t.Errorf("placeholder wrote to the object store")
	}
}

func TestDeleteFile(t *testing.T) {
	tests := []struct {
		name      string
		ownerID   string
		userID    string
		manageable bool
		deleteErr error
		wantErr   error
		wantRow   bool
	}{
		{name: "owner deletes", ownerID: "alice", userID: "alice", manageable: true},
		{name: "non-owner", ownerID: "alice", userID: "bob", manageable: true, wantErr: domain.ErrForbidden, wantRow: true},
		{name: "system file", ownerID: "alice", userID: "alice", manageable: false, wantErr: domain.ErrForbidden, wantRow: true},
		{
			name: "storage failure retains row", ownerID: "alice", userID: "alice", manageable: true,
			deleteErr: &domain.StorageError{Op: "delete", Err: errors.New("boom")},
			wantRow:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileRepo := newFakeFileRepo()
			seedFile(fileRepo, "obj", tt.ownerID, nil)
			fileRepo.files["obj"].UserManageable = tt.manageable
			store := newFakeObjectStore()
			store.objects[storeKey("board-files", "obj")] = []byte("x")
			store.deleteErr = tt.deleteErr
			svc := newTestFileService(fileRepo, store)

			err := svc.Delete(context.Background(), tt.userID, "obj")

			if tt.deleteErr != nil {
				var storageErr *domain.StorageError
				if !errors.As(err, &storageErr) {
					t.Fatalf("got err %v, want StorageError", err)
				}
			} else if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got err %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			_, rowExists := fileRepo.files["obj"]
			if rowExists != tt.wantRow {
				t.Errorf("row exists = %v, want %v", rowExists, tt.wantRow)
			}
		})
	}
}

func TestAccessURL(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(repo *fakeFileRepo)
		userID  string
		wantErr error
	}{
		{name: "owner", userID: "alice"},
		{name: "non-owner private", userID: "bob", wantErr: domain.ErrForbidden},
		{
			name:   "public file for anyone",
			userID: "bob",
			mutate: func(repo *fakeFileRepo) { repo.files["obj"].Public = true },
		},
		{
			name:    "unbacked",
			userID:  "alice",
			mutate:  func(repo *fakeFileRepo) { repo.files["obj"].Backed = false },
			wantErr: domain.ErrNotBacked,
		},
		{name: "missing", userID: "alice", mutate: func(repo *fakeFileRepo) { delete(repo.files, "obj") }, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileRepo := newFakeFileRepo()
			seedFile(fileRepo, "obj", "alice", nil)
			if tt.mutate != nil {
				tt.mutate(fileRepo)
			}
			svc := newTestFileService(fileRepo, newFakeObjectStore())

			url, err := svc.AccessURL(context.Background(), tt.userID, "obj")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got err %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if url == "" {
				t.Errorf("expected a signed URL")
			}
		})
	}
}

func TestReleaseSystemObject(t *testing.T) {
	t.Run("releases backed system object", func(t *testing.T) {
		fileRepo := newFakeFileRepo()
		seedFile(fileRepo, "pic", "alice", nil)
		fileRepo.files["pic"].UserManageable = false
		store := newFakeObjectStore()
		store.objects[storeKey("board-files", "pic")] = []byte("x")
		svc := newTestFileService(fileRepo, store)

		if err := svc.ReleaseSystemObject(context.Background(), "pic"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := fileRepo.files["pic"]; ok {
			t.Errorf("row should be gone")
		}
		if len(store.objects) != 0 {
			t.Errorf("object should be gone")
		}
	})

	t.Run("refuses user-managed file", func(t *testing.T) {
		fileRepo := newFakeFileRepo()
		seedFile(fileRepo, "obj", "alice", nil)
		svc := newTestFileService(fileRepo, newFakeObjectStore())

		err := svc.ReleaseSystemObject(context.Background(), "obj")
		if !errors.Is(err, domain.ErrIllegalOperation) {
			t.Fatalf("got err %v, want ErrIllegalOperation", err)
		}
	})

	t.Run("unbacked placeholder skips storage", func(t *testing.T) {
		fileRepo := newFakeFileRepo()
		seedFile(fileRepo, "pic", "alice", nil)
		fileRepo.files["pic"].UserManageable = false
		fileRepo.files["pic"].Backed = false
		store := newFakeObjectStore()
		svc := newTestFileService(fileRepo, store)

		if err := svc.ReleaseSystemObject(context.Background(), "pic"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(store.deletes) != 0 {
			t.Errorf("storage delete issued for unbacked file")
		}
	})
}
