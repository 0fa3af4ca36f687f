package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"fieldserve_backend/internal/models"
	"fieldserve_backend/internal/services/dto"
	"fieldserve_backend/internal/storage"
	"fieldserve_backend/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStorage is an in-memory ObjectStorage with per-operation failure
// injection, so the compensation paths can be driven deterministically.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte

	failPut    error
	failDelete error
	failList   error
	emptyURLs  bool

	putCalls    []string
	deleteCalls [][]string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string, overwrite bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls = append(f.putCalls, key)

	if f.failPut != nil {
		return f.failPut
	}
	if _, exists := f.objects[key]; exists && !overwrite {
		return storage.ErrKeyExists
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("not found: %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStorage) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, keys)

	if f.failDelete != nil {
		return f.failDelete
	}
	for _, key := range keys {
		delete(f.objects, key)
	}
	return nil
}

func (f *fakeStorage) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList != nil {
		return nil, f.failList
	}
	var infos []storage.ObjectInfo
	for key, data := range f.objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, storage.ObjectInfo{
				Key:          key,
				Size:         int64(len(data)),
				LastModified: time.Now(),
			})
		}
	}
	return infos, nil
}

func (f *fakeStorage) PublicURL(key string) string {
	if f.emptyURLs {
		return ""
	}
	return "/files/" + key
}

func (f *fakeStorage) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

// fakeAttachmentRepo is an in-memory metadata store with requester-scoped
// deletes matching the real repository's contract.
type fakeAttachmentRepo struct {
	mu         sync.Mutex
	rows       map[string]*models.Attachment
	failInsert error
	failDelete error
}

func newFakeAttachmentRepo() *fakeAttachmentRepo {
	return &fakeAttachmentRepo{rows: make(map[string]*models.Attachment)}
}

func (f *fakeAttachmentRepo) Insert(ctx context.Context, attachment *models.Attachment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert != nil {
		return f.failInsert
	}
	attachment.ID = uuid.NewString()
	attachment.CreatedAt = time.Now()
	copied := *attachment
	f.rows[attachment.ID] = &copied
	return nil
}

func (f *fakeAttachmentRepo) FindByID(ctx context.Context, id string) (*models.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return row, nil
}

// FindByOwner mirrors the real repository's newest-first ordering.
func (f *fakeAttachmentRepo) FindByOwner(ctx context.Context, ownerType, ownerID string) ([]models.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Attachment
	for _, row := range f.rows {
		if row.OwnerType == ownerType && row.OwnerID == ownerID {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeAttachmentRepo) CountByOwner(ctx context.Context, ownerType, ownerID string) (int64, error) {
	rows, _ := f.FindByOwner(ctx, ownerType, ownerID)
	return int64(len(rows)), nil
}

func (f *fakeAttachmentRepo) DeleteByID(ctx context.Context, id, requesterID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete != nil {
		return 0, f.failDelete
	}
	row, ok := f.rows[id]
	if !ok || row.UploadedByID != requesterID {
		return 0, nil
	}
	delete(f.rows, id)
	return 1, nil
}

func newTestService(store *fakeStorage, repo *fakeAttachmentRepo) AttachmentService {
	return NewAttachmentService(repo, store, nil, nil, AttachmentConfig{
		MaxFileSize: 1024 * 1024,
	})
}

func uploadOf(name, contentType, content string) dto.UploadInput {
	return dto.UploadInput{
		FileName:    name,
		ContentType: contentType,
		Size:        int64(len(content)),
		Reader:      strings.NewReader(content),
	}
}

func TestAttachmentCreate_HappyPath(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	repo := newFakeAttachmentRepo()
	svc := newTestService(store, repo)

	view, err := svc.Create(context.Background(), OwnerServiceOrder, "order-1", "user-1", uploadOf("report.pdf", "application/pdf", "pdf-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "report.pdf", view.DisplayName)
	assert.Equal(t, models.MediaClassDocument, view.MediaClass)
	assert.Equal(t, "user-1", view.UploadedByID)
	assert.True(t, strings.HasPrefix(view.StorageKey, "service-orders/order-1/"))
	assert.NotEmpty(t, view.URL)

	// blob and metadata row both exist
	assert.True(t, store.has(view.StorageKey))
	count, err := repo.CountByOwner(context.Background(), OwnerServiceOrder.Name, "order-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAttachmentCreate_ValidatesSize(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeStorage(), newFakeAttachmentRepo())

	_, err := svc.Create(context.Background(), OwnerServiceOrder, "order-1", "user-1", dto.UploadInput{
		FileName: "empty.pdf",
		Size:     0,
		Reader:   strings.NewReader(""),
	})
	assert.ErrorIs(t, err, apperrors.ErrEmptyFile)

	_, err = svc.Create(context.Background(), OwnerServiceOrder, "order-1", "user-1", dto.UploadInput{
		FileName: "huge.pdf",
		Size:     2 * 1024 * 1024,
		Reader:   strings.NewReader("x"),
	})
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)
}

func TestAttachmentCreate_BlobWriteFails_NoMetadataRow(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	store.failPut = errors.New("bucket unavailable")
	repo := newFakeAttachmentRepo()
	svc := newTestService(store, repo)

	_, err := svc.Create(context.Background(), OwnerServiceOrder, "order-1", "user-1", uploadOf("report.pdf", "application/pdf", "data"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeUploadFailed, appErr.Code)

	count, _ := repo.CountByOwner(context.Background(), OwnerServiceOrder.Name, "order-1")
	assert.Zero(t, count, "no metadata row may exist when the blob write failed")
}

func TestAttachmentCreate_MetadataFails_CompensatesBlobOnce(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	repo := newFakeAttachmentRepo()
	repo.failInsert = errors.New("db down")
	svc := newTestService(store, repo)

	_, err := svc.Create(context.Background(), OwnerServiceOrder, "order-1", "user-1", uploadOf("report.pdf", "application/pdf", "data"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeMetadataWriteFailed, appErr.Code)

	// compensation attempted exactly once and it removed the fresh blob
	require.Len(t, store.deleteCalls, 1)
	assert.Len(t, store.deleteCalls[0], 1)
	assert.False(t, store.has(store.putCalls[0]))
}

func TestAttachmentCreate_CompensationFailure_ReportsMetadataError(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	store.failDelete = errors.New("delete refused")
	repo := newFakeAttachmentRepo()
	repo.failInsert = errors.New("db down")
	svc := newTestService(store, repo)

	_, err := svc.Create(context.Background(), OwnerServiceOrder, "order-1", "user-1", uploadOf("report.pdf", "application/pdf", "data"))
	require.Error(t, err)

	// the metadata failure is what the caller sees; the orphaned blob is
	// logged, not surfaced
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeMetadataWriteFailed, appErr.Code)
	require.Len(t, store.deleteCalls, 1)
	assert.True(t, store.has(store.putCalls[0]), "orphaned blob remains when compensation fails")
}

func TestAttachmentCreate_SameNameTwice_DistinctKeys(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	repo := newFakeAttachmentRepo()
	svc := newTestService(store, repo)

	a, err := svc.Create(context.Background(), OwnerServiceOrder, "order-1", "user-1", uploadOf("photo.pdf", "application/pdf", "one"))
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), OwnerServiceOrder, "order-1", "user-1", uploadOf("photo.pdf", "application/pdf", "two"))
	require.NoError(t, err)

	assert.NotEqual(t, a.StorageKey, b.StorageKey)
	assert.Equal(t, a.DisplayName, b.DisplayName)
	assert.True(t, store.has(a.StorageKey))
	assert.True(t, store.has(b.StorageKey))
}

func TestAttachmentDelete_HappyPath(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	repo := newFakeAttachmentRepo()
	svc := newTestService(store, repo)

	view, err := svc.Create(context.Background(), OwnerServiceOrder, "order-1", "user-1", uploadOf("report.pdf", "application/pdf", "data"))
	require.NoError(t, err)

	err = svc.Delete(context.Background(), OwnerServiceOrder, view.ID, view.StorageKey, "order-1", "user-1")
	require.NoError(t, err)

	count, _ := repo.CountByOwner(context.Background(), OwnerServiceOrder.Name, "order-1")
	assert.Zero(t, count)
	assert.False(t, store.has(view.StorageKey))
}

func TestAttachmentDelete_Idempotent(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	repo := newFakeAttachmentRepo()
	svc := newTestService(store, repo)

	view, err := svc.Create(context.Background(), OwnerServiceOrder, "order-1", "user-1", uploadOf("report.pdf", "application/pdf", "data"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), OwnerServiceOrder, view.ID, view.StorageKey, "order-1", "user-1"))
	blobDeletes := len(store.deleteCalls)

	// second delete is a no-op, not an error, and touches no blobs
	require.NoError(t, svc.Delete(context.Background(), OwnerServiceOrder, view.ID, view.StorageKey, "order-1", "user-1"))
	assert.Equal(t, blobDeletes, len(store.deleteCalls))
}

func TestAttachmentDelete_RequesterScoped(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	repo := newFakeAttachmentRepo()
	svc := newTestService(store, repo)

	view, err := svc.Create(context.Background(), OwnerServiceOrder, "order-1", "user-1", uploadOf("report.pdf", "application/pdf", "data"))
	require.NoError(t, err)

	// someone else's delete affects nothing
	require.NoError(t, svc.Delete(context.Background(), OwnerServiceOrder, view.ID, view.StorageKey, "order-1", "user-2"))
	count, _ := repo.CountByOwner(context.Background(), OwnerServiceOrder.Name, "order-1")
	assert.Equal(t, int64(1), count)
	assert.True(t, store.has(view.StorageKey))
}

func TestAttachmentDelete_BlobFailureStillSucceeds(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	repo := newFakeAttachmentRepo()
	svc := newTestService(store, repo)

	view, err := svc.Create(context.Background(), OwnerServiceOrder, "order-1", "user-1", uploadOf("report.pdf", "application/pdf", "data"))
	require.NoError(t, err)

	// metadata delete wins; the stray blob is an accepted leak
	store.failDelete = errors.New("storage down")
	err = svc.Delete(context.Background(), OwnerServiceOrder, view.ID, view.StorageKey, "order-1", "user-1")
	require.NoError(t, err)

	count, _ := repo.CountByOwner(context.Background(), OwnerServiceOrder.Name, "order-1")
	assert.Zero(t, count)
	assert.True(t, store.has(view.StorageKey))
}

func TestAttachmentDelete_MetadataFailure_KeepsBlob(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	repo := newFakeAttachmentRepo()
	svc := newTestService(store, repo)

	view, err := svc.Create(context.Background(), OwnerServiceOrder, "order-1", "user-1", uploadOf("report.pdf", "application/pdf", "data"))
	require.NoError(t, err)

	repo.failDelete = errors.New("db down")
	err = svc.Delete(context.Background(), OwnerServiceOrder, view.ID, view.StorageKey, "order-1", "user-1")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeMetadataDeleteFailed, appErr.Code)
	assert.True(t, store.has(view.StorageKey), "blob must survive when the metadata delete failed")
}

func TestAttachmentList_NewestFirst(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	repo := newFakeAttachmentRepo()
	svc := newTestService(store, repo)

	// seed rows oldest-first with distinct timestamps
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"old.pdf", "mid.pdf", "new.pdf"} {
		row := &models.Attachment{
			OwnerType:    OwnerServiceOrder.Name,
			OwnerID:      "order-1",
			StorageKey:   fmt.Sprintf("service-orders/order-1/%s-%s", uuid.NewString(), name),
			DisplayName:  name,
			MimeType:     "application/pdf",
			UploadedByID: "user-1",
		}
		row.ID = uuid.NewString()
		row.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		repo.rows[row.ID] = row
	}

	views, err := svc.List(context.Background(), OwnerServiceOrder, "order-1")
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, "new.pdf", views[0].DisplayName)
	assert.Equal(t, "mid.pdf", views[1].DisplayName)
	assert.Equal(t, "old.pdf", views[2].DisplayName)
	for i := 1; i < len(views); i++ {
		assert.True(t, views[i-1].UploadedAt.After(views[i].UploadedAt),
			"attachments must come back newest-first")
	}
}

func TestAttachmentList_HidesUnresolvableRows(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	repo := newFakeAttachmentRepo()
	svc := newTestService(store, repo)

	_, err := svc.Create(context.Background(), OwnerServiceOrder, "order-1", "user-1", uploadOf("report.pdf", "application/pdf", "data"))
	require.NoError(t, err)

	store.emptyURLs = true
	views, err := svc.List(context.Background(), OwnerServiceOrder, "order-1")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestAttachmentCount(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	repo := newFakeAttachmentRepo()
	svc := newTestService(store, repo)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), OwnerServiceOrder, "order-1", "user-1",
			uploadOf(fmt.Sprintf("doc-%d.pdf", i), "application/pdf", "data"))
		require.NoError(t, err)
	}

	count, err := svc.Count(context.Background(), OwnerServiceOrder, "order-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestSingleSlot_UploadReplaceAndExistence(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	repo := newFakeAttachmentRepo()
	svc := newTestService(store, repo)

	kind := OwnerEquipmentNameplate
	fixedKey := "equipment-nameplates/eq-1/nameplate.jpg"

	// absent before the first upload
	views, err := svc.List(context.Background(), kind, "eq-1")
	require.NoError(t, err)
	assert.Empty(t, views)

	first, err := svc.Create(context.Background(), kind, "eq-1", "user-1", uploadOf("anything.jpg", "image/jpeg", "v1"))
	require.NoError(t, err)
	assert.Equal(t, fixedKey, first.StorageKey)
	assert.Empty(t, first.ID, "single-slot uploads have no metadata row")

	// replace: same key, content overwritten in place
	second, err := svc.Create(context.Background(), kind, "eq-1", "user-2", uploadOf("other-name.jpg", "image/jpeg", "v2"))
	require.NoError(t, err)
	assert.Equal(t, fixedKey, second.StorageKey)

	reader, err := store.Get(context.Background(), fixedKey)
	require.NoError(t, err)
	data, _ := io.ReadAll(reader)
	reader.Close()
	assert.Equal(t, "v2", string(data))

	// existence comes from the folder listing
	views, err = svc.List(context.Background(), kind, "eq-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, fixedKey, views[0].StorageKey)
	assert.Equal(t, models.MediaClassImage, views[0].MediaClass)

	count, err := svc.Count(context.Background(), kind, "eq-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// no metadata rows were ever written
	total, _ := repo.CountByOwner(context.Background(), kind.Name, "eq-1")
	assert.Zero(t, total)
}

func TestSingleSlot_Delete(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	repo := newFakeAttachmentRepo()
	svc := newTestService(store, repo)

	kind := OwnerEquipmentNameplate
	_, err := svc.Create(context.Background(), kind, "eq-1", "user-1", uploadOf("x.jpg", "image/jpeg", "v1"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), kind, "", "", "eq-1", "user-1"))
	views, err := svc.List(context.Background(), kind, "eq-1")
	require.NoError(t, err)
	assert.Empty(t, views)

	// deleting an absent slot stays a no-op
	require.NoError(t, svc.Delete(context.Background(), kind, "", "", "eq-1", "user-1"))
}

func TestSingleSlot_DeleteFailureSurfaces(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	repo := newFakeAttachmentRepo()
	svc := newTestService(store, repo)

	kind := OwnerEquipmentNameplate
	_, err := svc.Create(context.Background(), kind, "eq-1", "user-1", uploadOf("x.jpg", "image/jpeg", "v1"))
	require.NoError(t, err)

	// with no metadata row the blob delete is the delete; its failure is
	// the caller's failure
	store.failDelete = errors.New("storage down")
	err = svc.Delete(context.Background(), kind, "", "", "eq-1", "user-1")
	require.Error(t, err)
}
