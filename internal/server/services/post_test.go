package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/snapfeed/internal/common"
	"github.com/dmitrijs2005/snapfeed/internal/server/config"
	"github.com/dmitrijs2005/snapfeed/internal/server/models"
)

type fakePostsRepo struct {
	posts     map[string]*models.Post
	order     []string // newest first
	createErr error
}

func newFakePostsRepo() *fakePostsRepo {
	return &fakePostsRepo{posts: map[string]*models.Post{}}
}

func (f *fakePostsRepo) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	post.ID = "post-" + post.Description
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	f.posts[post.ID] = post
	f.order = append([]string{post.ID}, f.order...)
	return post, nil
}

func (f *fakePostsRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return p, nil
}

func (f *fakePostsRepo) List(ctx context.Context, offset int, limit int) ([]*models.Post, int, error) {
	total := len(f.order)
	var out []*models.Post
	for i := offset; i < total && i < offset+limit; i++ {
		out = append(out, f.posts[f.order[i]])
	}
	return out, total, nil
}

func (f *fakePostsRepo) UpdateDescription(ctx context.Context, id string, description string) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	p.Description = description
	p.UpdatedAt = time.Now()
	return p, nil
}

type fakeUploader struct {
	mu     sync.Mutex
	failOn string // base name of the file to fail on
	keys   []string
}

// Upload must be safe for concurrent use: the service fans uploads out.
func (f *fakeUploader) Upload(ctx context.Context, localPath string, key string) (string, error) {
	if f.failOn != "" && filepath.Base(localPath) == f.failOn {
		return "", errors.New("upload failed")
	}
	f.mu.Lock()
	f.keys = append(f.keys, key)
	f.mu.Unlock()
	return "https://cdn.example.com/" + filepath.Base(localPath), nil
}

func newPostFixture(t *testing.T, up *fakeUploader) (*PostService, *fakePostsRepo) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { _ = db.Close() })

	p := newFakePostsRepo()
	rm := &fakeRepoManager{u: newFakeUsersRepo(), f: newFakeFriendsRepo(), p: p}

	cfg := &config.Config{MaxPhotosPerPost: 5}
	return NewPostService(db, rm, up, testLogger(), cfg), p
}

func tmpPhotos(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, len(names))
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte("jpeg-bytes"), 0o644))
		paths = append(paths, p)
	}
	return paths
}

func assertAllRemoved(t *testing.T, paths []string) {
	t.Helper()
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), "temp file %s must be removed", p)
	}
}

// --- list ---

func TestPostService_List_ValidationBounds(t *testing.T) {
	s, _ := newPostFixture(t, &fakeUploader{})

	for _, tc := range []struct{ page, pageSize int }{
		{0, 10}, {-1, 10}, {1, 0}, {1, 51},
	} {
		_, err := s.List(context.Background(), tc.page, tc.pageSize)
		require.ErrorIs(t, err, common.ErrorValidation, "page=%d pageSize=%d", tc.page, tc.pageSize)
	}
}

func TestPostService_List_EmptyFeed(t *testing.T) {
	s, _ := newPostFixture(t, &fakeUploader{})

	page, err := s.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Zero(t, page.TotalCount)
	assert.Zero(t, page.TotalPages)
}

func TestPostService_List_PageOutOfRange(t *testing.T) {
	s, repo := newPostFixture(t, &fakeUploader{})

	_, err := repo.Create(context.Background(), &models.Post{Description: "one", UserID: "alice"})
	require.NoError(t, err)

	_, err = s.List(context.Background(), 2, 10)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPostService_List_Pagination(t *testing.T) {
	s, repo := newPostFixture(t, &fakeUploader{})

	for _, d := range []string{"a", "b", "c"} {
		_, err := repo.Create(context.Background(), &models.Post{Description: d, UserID: "alice"})
		require.NoError(t, err)
	}

	page, err := s.List(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "a", page.Posts[0].Description, "oldest post lands on the last page")
}

// --- create ---

func TestPostService_Create_UploadsAndPersists(t *testing.T) {
	up := &fakeUploader{}
	s, repo := newPostFixture(t, up)

	paths := tmpPhotos(t, "one.jpg", "two.png")

	post, err := s.Create(context.Background(), "alice", "holiday", paths)
	require.NoError(t, err)

	assert.Equal(t, "alice", post.UserID)
	require.Len(t, post.Photos, 2)
	assert.True(t, strings.HasSuffix(post.Photos[0], "one.jpg"), "URL order follows input order")
	assert.True(t, strings.HasSuffix(post.Photos[1], "two.png"))
	assert.Len(t, repo.posts, 1)

	for _, key := range up.keys {
		assert.True(t, strings.HasPrefix(key, "users/"), "storage keys are date-partitioned: %s", key)
	}

	assertAllRemoved(t, paths)
}

func TestPostService_Create_UploadFailureFailsBatch(t *testing.T) {
	up := &fakeUploader{failOn: "two.png"}
	s, repo := newPostFixture(t, up)

	paths := tmpPhotos(t, "one.jpg", "two.png", "three.jpg")

	_, err := s.Create(context.Background(), "alice", "holiday", paths)
	require.ErrorIs(t, err, common.ErrorInternal)
	assert.Empty(t, repo.posts, "no post may be created when an upload fails")

	assertAllRemoved(t, paths)
}

func TestPostService_Create_Validation(t *testing.T) {
	s, _ := newPostFixture(t, &fakeUploader{})

	_, err := s.Create(context.Background(), "alice", "", tmpPhotos(t, "one.jpg"))
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Create(context.Background(), "alice", "desc", nil)
	require.ErrorIs(t, err, common.ErrorValidation)

	tooMany := tmpPhotos(t, "1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg", "6.jpg")
	_, err = s.Create(context.Background(), "alice", "desc", tooMany)
	require.ErrorIs(t, err, common.ErrorValidation)
	assertAllRemoved(t, tooMany)
}

// --- edit ---

func TestPostService_Edit_Owner(t *testing.T) {
	s, repo := newPostFixture(t, &fakeUploader{})

	created, err := repo.Create(context.Background(), &models.Post{Description: "before", UserID: "alice"})
	require.NoError(t, err)

	post, err := s.Edit(context.Background(), "alice", created.ID, "after")
	require.NoError(t, err)
	assert.Equal(t, "after", post.Description)
}

func TestPostService_Edit_NonOwnerForbidden(t *testing.T) {
	s, repo := newPostFixture(t, &fakeUploader{})

	created, err := repo.Create(context.Background(), &models.Post{Description: "before", UserID: "alice"})
	require.NoError(t, err)

	_, err = s.Edit(context.Background(), "mallory", created.ID, "hacked")
	require.ErrorIs(t, err, common.ErrorForbidden)
	assert.Equal(t, "before", repo.posts[created.ID].Description)
}

func TestPostService_Edit_NotFound(t *testing.T) {
	s, _ := newPostFixture(t, &fakeUploader{})

	_, err := s.Edit(context.Background(), "alice", "missing", "text")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPostService_Edit_EmptyDescription(t *testing.T) {
	s, _ := newPostFixture(t, &fakeUploader{})

	_, err := s.Edit(context.Background(), "alice", "any", "")
	require.ErrorIs(t, err, common.ErrorValidation)
}
