package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"boards/internal/domain"
	"boards/internal/domain/models"
	"boards/internal/domain/services"
)

func strPtr(s string) *string { return &s }

func seedFolder(repo *fakeFolderRepo, id, ownerID string, parentID *string) {
	repo.folders[id] = &models.Folder{
		ID:             id,
		OwnerID:        ownerID,
		MasterFolderID: parentID,
		Name:           id,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}

func seedFile(repo *fakeFileRepo, objectID, ownerID string, parentID *string) {
	repo.files[objectID] = &models.File{
		ObjectID:       objectID,
		OwnerID:        ownerID,
		ParentID:       parentID,
		FileName:       objectID,
		Bucket:         "board-files",
		Backed:         true,
		UserManageable: true,
		CreatedAt:      time.Now(),
	}
}

func newTestFolderService(folderRepo *fakeFolderRepo, fileRepo *fakeFileRepo) services.FolderService {
	return NewFolderService(folderRepo, fileRepo, &fakeTxManager{}, testLogger())
}

func TestCreateFolder(t *testing.T) {
	tests := []struct {
		name    string
		reqName string
		wantErr error
	}{
		{name: "valid name", reqName: "projects"},
		{name: "empty name", reqName: "", wantErr: domain.ErrValidation},
		{name: "name with slash", reqName: "a/b", wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			folderRepo := newFakeFolderRepo()
			svc := newTestFolderService(folderRepo, newFakeFileRepo())

			folder, err := svc.CreateFolder(context.Background(), "alice", &services.CreateFolderRequest{Name: tt.reqName})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got err %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if folder.OwnerID != "alice" {
				t.Errorf("owner = %q, want alice", folder.OwnerID)
			}
			if folder.MasterFolderID != nil {
				t.Errorf("new folder should be root-level")
			}
			if _, ok := folderRepo.folders[folder.ID]; !ok {
				t.Errorf("folder not persisted")
			}
		})
	}
}

func TestAttachSubFolder(t *testing.T) {
	tests := []struct {
		name     string
		seed     func(repo *fakeFolderRepo)
		parentID string
		childID  string
		userID   string
		wantErr  error
	}{
		{
			name: "valid attach",
			seed: func(repo *fakeFolderRepo) {
				seedFolder(repo, "p", "alice", nil)
				seedFolder(repo, "c", "alice", nil)
			},
			parentID: "p", childID: "c", userID: "alice",
		},
		{
			name:     "self parent",
			seed:     func(repo *fakeFolderRepo) { seedFolder(repo, "p", "alice", nil) },
			parentID: "p", childID: "p", userID: "alice",
			wantErr: domain.ErrIllegalOperation,
		},
		{
			name:     "missing child",
			seed:     func(repo *fakeFolderRepo) { seedFolder(repo, "p", "alice", nil) },
			parentID: "p", childID: "ghost", userID: "alice",
			wantErr: domain.ErrNotFound,
		},
		{
			name: "parent owned by someone else",
			seed: func(repo *fakeFolderRepo) {
				seedFolder(repo, "p", "bob", nil)
				seedFolder(repo, "c", "alice", nil)
			},
			parentID: "p", childID: "c", userID: "alice",
			wantErr: domain.ErrForbidden,
		},
		{
			name: "attach ancestor under descendant",
			seed: func(repo *fakeFolderRepo) {
				seedFolder(repo, "root", "alice", nil)
				seedFolder(repo, "mid", "alice", strPtr("root"))
				seedFolder(repo, "leaf", "alice", strPtr("mid"))
			},
			parentID: "leaf", childID: "root", userID: "alice",
			wantErr: domain.ErrIllegalOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			folderRepo := newFakeFolderRepo()
			tt.seed(folderRepo)
			svc := newTestFolderService(folderRepo, newFakeFileRepo())

			err := svc.AttachSubFolder(context.Background(), tt.userID, tt.parentID, tt.childID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got err %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			child := folderRepo.folders[tt.childID]
			if child.MasterFolderID == nil || *child.MasterFolderID != tt.parentID {
				t.Errorf("child parent = %v, want %s", child.MasterFolderID, tt.parentID)
			}
		})
	}
}

func TestDetachSubFolder(t *testing.T) {
	t.Run("valid detach", func(t *testing.T) {
		folderRepo := newFakeFolderRepo()
		seedFolder(folderRepo, "p", "alice", nil)
		seedFolder(folderRepo, "c", "alice", strPtr("p"))
		svc := newTestFolderService(folderRepo, newFakeFileRepo())

		if err := svc.DetachSubFolder(context.Background(), "alice", "p", "c"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if folderRepo.folders["c"].MasterFolderID != nil {
			t.Errorf("child should be re-rooted")
		}
	})

	t.Run("not a subfolder", func(t *testing.T) {
		folderRepo := newFakeFolderRepo()
		seedFolder(folderRepo, "p", "alice", nil)
		seedFolder(folderRepo, "other", "alice", nil)
		seedFolder(folderRepo, "c", "alice", strPtr("other"))
		svc := newTestFolderService(folderRepo, newFakeFileRepo())

		err := svc.DetachSubFolder(context.Background(), "alice", "p", "c")
		if !errors.Is(err, domain.ErrIllegalOperation) {
			t.Fatalf("got err %v, want ErrIllegalOperation", err)
		}
	})
}

func TestAddFileToFolder(t *testing.T) {
	tests := []struct {
		name    string
		seed    func(folders *fakeFolderRepo, files *fakeFileRepo)
		userID  string
		wantErr error
	}{
		{
			name: "valid add",
			seed: func(folders *fakeFolderRepo, files *fakeFileRepo) {
				seedFolder(folders, "f", "alice", nil)
				seedFile(files, "obj", "alice", nil)
			},
			userID: "alice",
		},
		{
			name: "already a member",
			seed: func(folders *fakeFolderRepo, files *fakeFileRepo) {
				seedFolder(folders, "f", "alice", nil)
				seedFile(files, "obj", "alice", strPtr("f"))
			},
			userID:  "alice",
			wantErr: domain.ErrIllegalOperation,
		},
		{
			name: "system managed file",
			seed: func(folders *fakeFolderRepo, files *fakeFileRepo) {
				seedFolder(folders, "f", "alice", nil)
				seedFile(files, "obj", "alice", nil)
				files.files["obj"].UserManageable = false
			},
			userID:  "alice",
			wantErr: domain.ErrForbidden,
		},
		{
			name: "file owned by someone else",
			seed: func(folders *fakeFolderRepo, files *fakeFileRepo) {
				seedFolder(folders, "f", "alice", nil)
				seedFile(files, "obj", "bob", nil)
			},
			userID:  "alice",
			wantErr: domain.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			folderRepo := newFakeFolderRepo()
			fileRepo := newFakeFileRepo()
			tt.seed(folderRepo, fileRepo)
			svc := newTestFolderService(folderRepo, fileRepo)

			err := svc.AddFileToFolder(context.Background(), tt.userID, "f", "obj")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got err %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			file := fileRepo.files["obj"]
			if file.ParentID == nil || *file.ParentID != "f" {
				t.Errorf("file parent = %v, want f", file.ParentID)
			}
		})
	}
}

func TestRemoveFileFromFolder(t *testing.T) {
	t.Run("valid remove", func(t *testing.T) {
		folderRepo := newFakeFolderRepo()
		fileRepo := newFakeFileRepo()
		seedFolder(folderRepo, "f", "alice", nil)
		seedFile(fileRepo, "obj", "alice", strPtr("f"))
		svc := newTestFolderService(folderRepo, fileRepo)

		if err := svc.RemoveFileFromFolder(context.Background(), "alice", "f", "obj"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fileRepo.files["obj"].ParentID != nil {
			t.Errorf("file should be un-parented")
		}
	})

	t.Run("not a member", func(t *testing.T) {
		folderRepo := newFakeFolderRepo()
		fileRepo := newFakeFileRepo()
		seedFolder(folderRepo, "f", "alice", nil)
		seedFile(fileRepo, "obj", "alice", nil)
		svc := newTestFolderService(folderRepo, fileRepo)

		err := svc.RemoveFileFromFolder(context.Background(), "alice", "f", "obj")
		if !errors.Is(err, domain.ErrIllegalOperation) {
			t.Fatalf("got err %v, want ErrIllegalOperation", err)
		}
	})
}

func TestDeleteFolder(t *testing.T) {
	t.Run("re-roots children and un-parents files", func(t *testing.T) {
		folderRepo := newFakeFolderRepo()
		fileRepo := newFakeFileRepo()
		seedFolder(folderRepo, "doomed", "alice", nil)
		seedFolder(folderRepo, "child", "alice", strPtr("doomed"))
		seedFile(fileRepo, "obj", "alice", strPtr("doomed"))
		svc := newTestFolderService(folderRepo, fileRepo)

		if err := svc.DeleteFolder(context.Background(), "alice", "doomed"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, ok := folderRepo.folders["doomed"]; ok {
			t.Errorf("folder row should be gone")
		}
		if folderRepo.folders["child"].MasterFolderID != nil {
			t.Errorf("child folder should be re-rooted")
		}
		if fileRepo.files["obj"].ParentID != nil {
			t.Errorf("member file should be un-parented")
		}
	})

	t.Run("non-owner", func(t *testing.T) {
		folderRepo := newFakeFolderRepo()
		seedFolder(folderRepo, "f", "bob", nil)
		svc := newTestFolderService(folderRepo, newFakeFileRepo())

		err := svc.DeleteFolder(context.Background(), "alice", "f")
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("got err %v, want ErrForbidden", err)
		}
	})
}

func TestListUserTree(t *testing.T) {
	folderRepo := newFakeFolderRepo()
	fileRepo := newFakeFileRepo()
	seedFolder(folderRepo, "docs", "alice", nil)
	seedFile(fileRepo, "in-docs", "alice", strPtr("docs"))
	seedFile(fileRepo, "loose", "alice", nil)
	seedFile(fileRepo, "system", "alice", nil)
	fileRepo.files["system"].UserManageable = false
	seedFile(fileRepo, "bobs", "bob", nil)
	svc := newTestFolderService(folderRepo, fileRepo)

	tree, err := svc.ListUserTree(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tree.Folders) != 1 {
		t.Fatalf("got %d folders, want 1", len(tree.Folders))
	}
	if len(tree.Folders[0].Files) != 1 || tree.Folders[0].Files[0].ObjectID != "in-docs" {
		t.Errorf("folder files = %v, want [in-docs]", tree.Folders[0].Files)
	}
	if len(tree.Files) != 1 || tree.Files[0].ObjectID != "loose" {
		t.Errorf("loose files = %v, want [loose]", tree.Files)
	}
}
