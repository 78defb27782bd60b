package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"boards/internal/config"
	"boards/internal/domain"
	"boards/internal/domain/models"
	"boards/internal/domain/permissions"
	"boards/internal/domain/repositories"
	"boards/internal/domain/services"
)

var folderNamePattern = regexp.MustCompile(`^[^/]+$`)

type folderService struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// CreateFolder creates a new root-level folder
func (s *folderService) CreateFolder(ctx context.Context, userID string, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := s.validateName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	folder := &models.Folder{
		ID:        uuid.NewString(),
		OwnerID:   userID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"owner_id", userID,
	)

	return folder, nil
}

// GetFolder retrieves a folder with its member files
func (s *folderService) GetFolder(ctx context.Context, userID, folderID string) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}

	if !permissions.MayEditFolder(folder, userID) {
		return nil, fmt.Errorf("folder %s: %w", folderID, domain.ErrForbidden)
	}

	files, err := s.fileRepo.ListByFolder(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("list folder files: %w", err)
	}
	folder.Files = files

	return folder, nil
}

// RenameFolder renames a folder
func (s *folderService) RenameFolder(ctx context.Context, userID, folderID string, req *services.RenameFolderRequest) (*models.Folder, error) {
	if err := s.validateName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}

	if !permissions.MayEditFolder(folder, userID) {
		return nil, fmt.Errorf("folder %s: %w", folderID, domain.ErrForbidden)
	}

	folder.Name = req.Name
	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder renamed", "id", folder.ID, "name", folder.Name)

	return folder, nil
}

// AttachSubFolder makes child a subfolder of parent. The ancestor walk runs
// on rows read inside the same transaction as the write, so a concurrent
// attach cannot slip a cycle past the check.
func (s *folderService) AttachSubFolder(ctx context.Context, userID, parentID, childID string) error {
	if parentID == childID {
		return fmt.Errorf("%w: folder cannot be its own parent", domain.ErrIllegalOperation)
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		parent, err := s.folderRepo.GetByID(ctx, parentID)
		if err != nil {
			return err
		}
		child, err := s.folderRepo.GetByID(ctx, childID)
		if err != nil {
			return err
		}

		if !permissions.MayEditFolder(parent, userID) || !permissions.MayEditFolder(child, userID) {
			return fmt.Errorf("attach folder: %w", domain.ErrForbidden)
		}

		if err := s.ensureNoCycle(ctx, parent, childID); err != nil {
			return err
		}

		child.MasterFolderID = &parent.ID
		child.UpdatedAt = time.Now()
		return s.folderRepo.Update(ctx, child)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder attached", "parent_id", parentID, "child_id", childID)
	return nil
}

// DetachSubFolder detaches child from parent, re-rooting it
func (s *folderService) DetachSubFolder(ctx context.Context, userID, parentID, childID string) error {
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		parent, err := s.folderRepo.GetByID(ctx, parentID)
		if err != nil {
			return err
		}
		child, err := s.folderRepo.GetByID(ctx, childID)
		if err != nil {
			return err
		}

		if !permissions.MayEditFolder(parent, userID) || !permissions.MayEditFolder(child, userID) {
			return fmt.Errorf("detach folder: %w", domain.ErrForbidden)
		}

		if child.MasterFolderID == nil || *child.MasterFolderID != parent.ID {
			return fmt.Errorf("%w: folder %s is not a subfolder of %s", domain.ErrIllegalOperation, childID, parentID)
		}

		child.MasterFolderID = nil
		child.UpdatedAt = time.Now()
		return s.folderRepo.Update(ctx, child)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder detached", "parent_id", parentID, "child_id", childID)
	return nil
}

// AddFileToFolder places a file inside a folder
func (s *folderService) AddFileToFolder(ctx context.Context, userID, folderID, objectID string) error {
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		folder, err := s.folderRepo.GetByID(ctx, folderID)
		if err != nil {
			return err
		}
		file, err := s.fileRepo.GetByObjectID(ctx, objectID)
		if err != nil {
			return err
		}

		if !permissions.MayEditFolder(folder, userID) || !permissions.MayEditFile(file, userID) {
			return fmt.Errorf("add file to folder: %w", domain.ErrForbidden)
		}

		if file.ParentID != nil && *file.ParentID == folder.ID {
			return fmt.Errorf("%w: file %s is already in folder %s", domain.ErrIllegalOperation, objectID, folderID)
		}

		file.ParentID = &folder.ID
		return s.fileRepo.Update(ctx, file)
	})
	if err != nil {
		return err
	}

	s.logger.Info("file added to folder", "folder_id", folderID, "object_id", objectID)
	return nil
}

// RemoveFileFromFolder removes a file from a folder. Membership and the
// parent pointer are the same column, so clearing the pointer also repairs
// any half-recorded membership.
func (s *folderService) RemoveFileFromFolder(ctx context.Context, userID, folderID, objectID string) error {
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		folder, err := s.folderRepo.GetByID(ctx, folderID)
		if err != nil {
			return err
		}
		file, err := s.fileRepo.GetByObjectID(ctx, objectID)
		if err != nil {
			return err
		}

		if !permissions.MayEditFolder(folder, userID) || !permissions.MayEditFile(file, userID) {
			return fmt.Errorf("remove file from folder: %w", domain.ErrForbidden)
		}

		if file.ParentID == nil || *file.ParentID != folder.ID {
			return fmt.Errorf("%w: file %s is not in folder %s", domain.ErrIllegalOperation, objectID, folderID)
		}

		file.ParentID = nil
		return s.fileRepo.Update(ctx, file)
	})
	if err != nil {
		return err
	}

	s.logger.Info("file removed from folder", "folder_id", folderID, "object_id", objectID)
	return nil
}

// DeleteFolder deletes a folder. Child folders are re-rooted and member
// files un-parented in the same transaction, so no row is ever left
// pointing at a missing folder.
func (s *folderService) DeleteFolder(ctx context.Context, userID, folderID string) error {
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		folder, err := s.folderRepo.GetByID(ctx, folderID)
		if err != nil {
			return err
		}

		if !permissions.MayEditFolder(folder, userID) {
			return fmt.Errorf("delete folder: %w", domain.ErrForbidden)
		}

		if err := s.folderRepo.ReparentChildren(ctx, folderID, nil); err != nil {
			return fmt.Errorf("re-root children: %w", err)
		}
		if err := s.fileRepo.ClearFolder(ctx, folderID); err != nil {
			return fmt.Errorf("clear folder files: %w", err)
		}

		return s.folderRepo.Delete(ctx, folderID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted", "id", folderID)
	return nil
}

// ListUserTree returns the requester's folders with member files plus files
// not placed in any folder
func (s *folderService) ListUserTree(ctx context.Context, userID string) (*services.UserTree, error) {
	folders, err := s.folderRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	files, err := s.fileRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	byFolder := make(map[string][]models.File)
	var loose []models.File
	for _, f := range files {
		if !f.UserManageable {
			continue // system-managed objects are not part of the tree
		}
		if f.ParentID != nil {
			byFolder[*f.ParentID] = append(byFolder[*f.ParentID], f)
		} else {
			loose = append(loose, f)
		}
	}

	for i := range folders {
		folders[i].Files = byFolder[folders[i].ID]
	}

	return &services.UserTree{Folders: folders, Files: loose}, nil
}

// ensureNoCycle walks the prospective parent's ancestor chain; finding the
// child there means the attach would close a loop.
func (s *folderService) ensureNoCycle(ctx context.Context, parent *models.Folder, childID string) error {
	current := parent
	for current.MasterFolderID != nil {
		if *current.MasterFolderID == childID {
			return fmt.Errorf("%w: folder %s is an ancestor of %s", domain.ErrIllegalOperation, childID, parent.ID)
		}
		next, err := s.folderRepo.GetByID(ctx, *current.MasterFolderID)
		if err != nil {
			return fmt.Errorf("walk ancestors: %w", err)
		}
		current = next
	}
	return nil
}

func (s *folderService) validateName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxFolderNameLength),
		validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
	)
}
