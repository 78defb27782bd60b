package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"boards/internal/domain"
	"boards/internal/domain/models"
	"boards/internal/domain/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTxManager runs the function directly; fakes mutate shared state so
// there is nothing to roll back.
type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	m.calls++
	return fn(ctx)
}

type fakeFolderRepo struct {
	folders map[string]*models.Folder
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[string]*models.Folder)}
}

func (r *fakeFolderRepo) Create(_ context.Context, folder *models.Folder) error {
	cp := *folder
	r.folders[folder.ID] = &cp
	return nil
}

func (r *fakeFolderRepo) GetByID(_ context.Context, id string) (*models.Folder, error) {
	folder, ok := r.folders[id]
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	cp := *folder
	return &cp, nil
}

func (r *fakeFolderRepo) Update(_ context.Context, folder *models.Folder) error {
	if _, ok := r.folders[folder.ID]; !ok {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	cp := *folder
	r.folders[folder.ID] = &cp
	return nil
}

func (r *fakeFolderRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.folders[id]; !ok {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	delete(r.folders, id)
	return nil
}

func (r *fakeFolderRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.folders {
		if f.OwnerID == ownerID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) ListChildren(_ context.Context, parentID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.folders {
		if f.MasterFolderID != nil && *f.MasterFolderID == parentID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) ReparentChildren(_ context.Context, parentID string, newParent *string) error {
	for _, f := range r.folders {
		if f.MasterFolderID != nil && *f.MasterFolderID == parentID {
			f.MasterFolderID = newParent
		}
	}
	return nil
}

type fakeFileRepo struct {
	files      map[string]*models.File
	createErr  error
	createSeen int
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: make(map[string]*models.File)}
}

func (r *fakeFileRepo) Create(_ context.Context, file *models.File) error {
	r.createSeen++
	if r.createErr != nil {
		return r.createErr
	}
	cp := *file
	r.files[file.ObjectID] = &cp
	return nil
}

func (r *fakeFileRepo) GetByObjectID(_ context.Context, objectID string) (*models.File, error) {
	file, ok := r.files[objectID]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", objectID, domain.ErrNotFound)
	}
	cp := *file
	return &cp, nil
}

func (r *fakeFileRepo) Update(_ context.Context, file *models.File) error {
	if _, ok := r.files[file.ObjectID]; !ok {
		return fmt.Errorf("file %s: %w", file.ObjectID, domain.ErrNotFound)
	}
	cp := *file
	r.files[file.ObjectID] = &cp
	return nil
}

func (r *fakeFileRepo) Delete(_ context.Context, objectID string) error {
	if _, ok := r.files[objectID]; !ok {
		return fmt.Errorf("file %s: %w", objectID, domain.ErrNotFound)
	}
	delete(r.files, objectID)
	return nil
}

func (r *fakeFileRepo) ListByOwner(_ context.Context, ownerID string) ([]models.File, error) {
	var out []models.File
	for _, f := range r.files {
		if f.OwnerID == ownerID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFileRepo) ListByFolder(_ context.Context, folderID string) ([]models.File, error) {
	var out []models.File
	for _, f := range r.files {
		if f.ParentID != nil && *f.ParentID == folderID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFileRepo) ClearFolder(_ context.Context, folderID string) error {
	for _, f := range r.files {
		if f.ParentID != nil && *f.ParentID == folderID {
			f.ParentID = nil
		}
	}
	return nil
}

type fakeArticleRepo struct {
	articles    map[string]*models.Article
	articleTags map[string][]string // article ID -> tag IDs
	tagContents map[string]string   // tag ID -> normalized content
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{
		articles:    make(map[string]*models.Article),
		articleTags: make(map[string][]string),
		tagContents: make(map[string]string),
	}
}

func (r *fakeArticleRepo) Create(_ context.Context, article *models.Article) error {
	cp := *article
	r.articles[article.ID] = &cp
	return nil
}

func (r *fakeArticleRepo) GetByID(_ context.Context, id string) (*models.Article, error) {
	article, ok := r.articles[id]
	if !ok {
		return nil, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	cp := *article
	cp.EditorIDs = slices.Clone(article.EditorIDs)
	cp.ReviewerIDs = slices.Clone(article.ReviewerIDs)
	cp.TagContents = nil
	for _, tagID := range r.articleTags[id] {
		cp.TagContents = append(cp.TagContents, r.tagContents[tagID])
	}
	return &cp, nil
}

func (r *fakeArticleRepo) Update(_ context.Context, article *models.Article) error {
	stored, ok := r.articles[article.ID]
	if !ok {
		return fmt.Errorf("article %s: %w", article.ID, domain.ErrNotFound)
	}
	cp := *article
	cp.EditorIDs = stored.EditorIDs
	cp.ReviewerIDs = stored.ReviewerIDs
	r.articles[article.ID] = &cp
	return nil
}

func (r *fakeArticleRepo) ListByAuthor(_ context.Context, authorID string) ([]models.Article, error) {
	var out []models.Article
	for _, a := range r.articles {
		if a.AuthorID == authorID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeArticleRepo) SearchPublic(_ context.Context, query string, candidateIDs []string, limit int) ([]models.Article, error) {
	now := time.Now()
	var out []models.Article
	for _, a := range r.articles {
		if !a.IsPublic(now) {
			continue
		}
		if slices.Contains(candidateIDs, a.ID) || a.Title == query {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeArticleRepo) AddEditor(_ context.Context, articleID, userID string) error {
	a, ok := r.articles[articleID]
	if !ok {
		return fmt.Errorf("article %s: %w", articleID, domain.ErrNotFound)
	}
	if slices.Contains(a.EditorIDs, userID) {
		return fmt.Errorf("editor %s: %w", userID, domain.ErrConflict)
	}
	a.EditorIDs = append(a.EditorIDs, userID)
	return nil
}

func (r *fakeArticleRepo) RemoveEditor(_ context.Context, articleID, userID string) error {
	a, ok := r.articles[articleID]
	if !ok {
		return fmt.Errorf("article %s: %w", articleID, domain.ErrNotFound)
	}
	i := slices.Index(a.EditorIDs, userID)
	if i < 0 {
		return fmt.Errorf("editor %s: %w", userID, domain.ErrNotFound)
	}
	a.EditorIDs = slices.Delete(a.EditorIDs, i, i+1)
	return nil
}

func (r *fakeArticleRepo) AddReviewer(_ context.Context, articleID, userID string) error {
	a, ok := r.articles[articleID]
	if !ok {
		return fmt.Errorf("article %s: %w", articleID, domain.ErrNotFound)
	}
	if slices.Contains(a.ReviewerIDs, userID) {
		return fmt.Errorf("reviewer %s: %w", userID, domain.ErrConflict)
	}
	a.ReviewerIDs = append(a.ReviewerIDs, userID)
	return nil
}

func (r *fakeArticleRepo) RemoveReviewer(_ context.Context, articleID, userID string) error {
	a, ok := r.articles[articleID]
	if !ok {
		return fmt.Errorf("article %s: %w", articleID, domain.ErrNotFound)
	}
	i := slices.Index(a.ReviewerIDs, userID)
	if i < 0 {
		return fmt.Errorf("reviewer %s: %w", userID, domain.ErrNotFound)
	}
	a.ReviewerIDs = slices.Delete(a.ReviewerIDs, i, i+1)
	return nil
}

func (r *fakeArticleRepo) AddTag(_ context.Context, articleID, tagID string) error {
	if _, ok := r.articles[articleID]; !ok {
		return fmt.Errorf("article %s: %w", articleID, domain.ErrNotFound)
	}
	r.articleTags[articleID] = append(r.articleTags[articleID], tagID)
	return nil
}

func (r *fakeArticleRepo) RemoveTag(_ context.Context, articleID, tagID string) error {
	tags := r.articleTags[articleID]
	i := slices.Index(tags, tagID)
	if i < 0 {
		return fmt.Errorf("tag %s: %w", tagID, domain.ErrNotFound)
	}
	r.articleTags[articleID] = slices.Delete(tags, i, i+1)
	return nil
}

type fakeRevisionRepo struct {
	revisions []models.Revision
}

func (r *fakeRevisionRepo) Create(_ context.Context, revision *models.Revision) error {
	r.revisions = append(r.revisions, *revision)
	return nil
}

func (r *fakeRevisionRepo) ListByArticle(_ context.Context, articleID string) ([]models.Revision, error) {
	var out []models.Revision
	for _, rev := range r.revisions {
		if rev.ArticleID == articleID {
			out = append(out, rev)
		}
	}
	return out, nil
}

type fakeCommentRepo struct {
	comments map[string]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*models.Comment)}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *models.Comment) error {
	cp := *comment
	r.comments[comment.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id string) (*models.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}
	cp := *comment
	return &cp, nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.comments[id]; !ok {
		return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) ListByArticle(_ context.Context, articleID string) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range r.comments {
		if c.ArticleID == articleID {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeReactionRepo struct {
	reactions []models.Reaction
}

func (r *fakeReactionRepo) Create(_ context.Context, reaction *models.Reaction) error {
	for _, existing := range r.reactions {
		if existing.UserID == reaction.UserID &&
			existing.TargetType == reaction.TargetType &&
			existing.TargetID == reaction.TargetID {
			return fmt.Errorf("reaction: %w", domain.ErrConflict)
		}
	}
	r.reactions = append(r.reactions, *reaction)
	return nil
}

func (r *fakeReactionRepo) DeleteByUserAndTarget(_ context.Context, userID string, targetType models.ReactionTarget, targetID string) error {
	r.reactions = slices.DeleteFunc(r.reactions, func(re models.Reaction) bool {
		return re.UserID == userID && re.TargetType == targetType && re.TargetID == targetID
	})
	return nil
}

func (r *fakeReactionRepo) DeleteByTarget(_ context.Context, targetType models.ReactionTarget, targetID string) error {
	r.reactions = slices.DeleteFunc(r.reactions, func(re models.Reaction) bool {
		return re.TargetType == targetType && re.TargetID == targetID
	})
	return nil
}

func (r *fakeReactionRepo) ListByTarget(_ context.Context, targetType models.ReactionTarget, targetID string) ([]models.Reaction, error) {
	var out []models.Reaction
	for _, re := range r.reactions {
		if re.TargetType == targetType && re.TargetID == targetID {
			out = append(out, re)
		}
	}
	return out, nil
}

type fakeTagRepo struct {
	tags     map[string]*models.Tag // keyed by content
	contents map[string]string      // tag ID -> content
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{
		tags:     make(map[string]*models.Tag),
		contents: make(map[string]string),
	}
}

func (r *fakeTagRepo) Create(_ context.Context, tag *models.Tag) error {
	if _, ok := r.tags[tag.Content]; ok {
		return fmt.Errorf("tag %q: %w", tag.Content, domain.ErrConflict)
	}
	cp := *tag
	r.tags[tag.Content] = &cp
	r.contents[tag.ID] = tag.Content
	return nil
}

func (r *fakeTagRepo) GetByContent(_ context.Context, content string) (*models.Tag, error) {
	tag, ok := r.tags[content]
	if !ok {
		return nil, fmt.Errorf("tag %q: %w", content, domain.ErrNotFound)
	}
	cp := *tag
	return &cp, nil
}

func (r *fakeTagRepo) Search(_ context.Context, query string, candidateIDs []string, limit int) ([]models.Tag, error) {
	var out []models.Tag
	for _, tag := range r.tags {
		if slices.Contains(candidateIDs, tag.ID) || tag.Content == query {
			out = append(out, *tag)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(ids ...string) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, id := range ids {
		r.users[id] = &models.User{ID: id, DisplayName: id}
	}
	return r
}

func (r *fakeUserRepo) Upsert(_ context.Context, user *models.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	cp := *user
	return &cp, nil
}

// fakeObjectStore records objects in memory and can be told to fail.
type fakeObjectStore struct {
	objects   map[string][]byte // bucket/key -> body
	putErr    error
	deleteErr error
	puts      []string
	deletes   []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func storeKey(bucket, key string) string { return bucket + "/" + key }

func (s *fakeObjectStore) Put(_ context.Context, bucket, key string, body io.Reader, _ int64, _ string) error {
	if s.putErr != nil {
		return s.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[storeKey(bucket, key)] = data
	s.puts = append(s.puts, storeKey(bucket, key))
	return nil
}

func (s *fakeObjectStore) Delete(_ context.Context, bucket, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, storeKey(bucket, key))
	s.deletes = append(s.deletes, storeKey(bucket, key))
	return nil
}

func (s *fakeObjectStore) SignedURL(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "https://signed.example/" + storeKey(bucket, key), nil
}

// fakeIndexer records index calls and serves canned candidate IDs.
type fakeIndexer struct {
	articleIDs []string
	tagIDs     []string
	indexed    []string
}

func (i *fakeIndexer) IndexArticle(_ context.Context, article *models.Article) {
	i.indexed = append(i.indexed, "article:"+article.ID)
}

func (i *fakeIndexer) IndexTag(_ context.Context, tag *models.Tag) {
	i.indexed = append(i.indexed, "tag:"+tag.ID)
}

func (i *fakeIndexer) SearchArticleIDs(_ context.Context, _ string, _ int) []string {
	return i.articleIDs
}

func (i *fakeIndexer) SearchTagIDs(_ context.Context, _ string, _ int) []string {
	return i.tagIDs
}
