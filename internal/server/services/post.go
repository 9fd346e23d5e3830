package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/snapfeed/internal/common"
	"github.com/dmitrijs2005/snapfeed/internal/logging"
	"github.com/dmitrijs2005/snapfeed/internal/server/config"
	"github.com/dmitrijs2005/snapfeed/internal/server/models"
	"github.com/dmitrijs2005/snapfeed/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/snapfeed/internal/server/storage"
)

const maxPageSize = 50

// PostPage is one page of the feed.
type PostPage struct {
	Posts      []*models.Post
	TotalCount int
	TotalPages int
}

// PostService implements the post registry: paginated listing, creation with
// concurrent photo upload to blob storage, and owner-only edits.
type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	uploader    storage.Uploader
	logger      logging.Logger
	maxPhotos   int
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager, uploader storage.Uploader, logger logging.Logger, cfg *config.Config) *PostService {
	return &PostService{
		db:          db,
		repomanager: m,
		uploader:    uploader,
		logger:      logger.With("module", "post_service"),
		maxPhotos:   cfg.MaxPhotosPerPost,
	}
}

// List returns the requested feed page, newest posts first. Page numbers
// start at 1; pageSize is capped at 50. Requesting a page past the end of a
// non-empty feed yields common.ErrorNotFound.
func (s *PostService) List(ctx context.Context, page int, pageSize int) (*PostPage, error) {
	if page <= 0 {
		return nil, common.ErrorValidation
	}
	if pageSize <= 0 || pageSize > maxPageSize {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Posts(s.db)

	posts, total, err := repo.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if total == 0 {
		return &PostPage{Posts: []*models.Post{}}, nil
	}

	totalPages := (total + pageSize - 1) / pageSize
	if page > totalPages {
		return nil, common.ErrorNotFound
	}

	return &PostPage{Posts: posts, TotalCount: total, TotalPages: totalPages}, nil
}

// Get returns a single post by id.
func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.repomanager.Posts(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return post, nil
}

// Create uploads the given local photo files concurrently and persists the
// post with their public URLs in input order. If any upload fails the whole
// batch fails and no post is created. Every temp file is removed on every
// exit path.
func (s *PostService) Create(ctx context.Context, actorID string, description string, photoPaths []string) (*models.Post, error) {

	defer s.cleanupFiles(ctx, photoPaths)

	if description == "" || len(photoPaths) == 0 {
		return nil, common.ErrorValidation
	}
	if len(photoPaths) > s.maxPhotos {
		return nil, common.ErrorValidation
	}

	urls := make([]string, len(photoPaths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxPhotos)
	for i, p := range photoPaths {
		g.Go(func() error {
			key := storage.RandomStorageKey(filepath.Base(p))
			url, err := s.uploader.Upload(gctx, p, key)
			if err != nil {
				return fmt.Errorf("error uploading %s: %w", filepath.Base(p), err)
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error(ctx, "photo upload failed", "error", err)
		return nil, common.ErrorInternal
	}

	post := &models.Post{Description: description, Photos: urls, UserID: actorID}
	post, err := s.repomanager.Posts(s.db).Create(ctx, post)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return post, nil
}

// Edit updates a post's description. Only the author may edit;
// a non-owner gets common.ErrorForbidden.
func (s *PostService) Edit(ctx context.Context, actorID string, postID string, description string) (*models.Post, error) {
	if description == "" {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Posts(s.db)

	post, err := repo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if post.UserID != actorID {
		return nil, common.ErrorForbidden
	}

	updated, err := repo.UpdateDescription(ctx, postID, description)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return updated, nil
}

func (s *PostService) cleanupFiles(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			s.logger.Warn(ctx, "error removing temp file", "path", p, "error", err)
		}
	}
}
