package reliability

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	testingpkg "github.com/aristath/alpha/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newBackupService(t *testing.T) *BackupService {
	t.Helper()
	db := testingpkg.NewTestDB(t)
	svc := NewBackupService(db.Conn(), t.TempDir(), zerolog.Nop())
	svc.now = fixedClock(testNow)
	return svc
}

func touchBackup(t *testing.T, dir string, ts time.Time, suffix string) string {
	t.Helper()
	name := backupName(ts, suffix)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	return name
}

func TestBackupService_CreateAndList(t *testing.T) {
	svc := newBackupService(t)
	ctx := context.Background()

	first, err := svc.CreateBackup(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alpha-backup-2024-03-01-120000.db", first.Filename)
	assert.True(t, strings.HasPrefix(first.Checksum, "sha256:"))
	assert.Greater(t, first.SizeBytes, int64(0))

	svc.now = fixedClock(testNow.Add(time.Hour))
	second, err := svc.CreateBackup(ctx)
	require.NoError(t, err)

	// same timestamp again refuses to overwrite
	_, err = svc.CreateBackup(ctx)
	assert.Error(t, err)

	backups, err := svc.ListBackups()
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, second.Filename, backups[0].Filename)
	assert.Equal(t, first.Filename, backups[1].Filename)
	assert.Equal(t, int64(1), backups[1].AgeHours)

	assert.NoError(t, svc.VerifyLatest(ctx))
}

func TestBackupService_ListMissingDir(t *testing.T) {
	svc := NewBackupService(nil, filepath.Join(t.TempDir(), "missing"), zerolog.Nop())
	backups, err := svc.ListBackups()
	require.NoError(t, err)
	assert.Empty(t, backups)
	assert.Error(t, svc.VerifyLatest(context.Background()))
}

func TestBackupService_RotateOldBackups(t *testing.T) {
	dir := t.TempDir()
	svc := NewBackupService(nil, dir, zerolog.Nop())
	svc.now = fixedClock(testNow)

	var names []string
	for _, days := range []int{1, 2, 40, 50, 60} {
		names = append(names, touchBackup(t, dir, testNow.AddDate(0, 0, -days), localSuffix))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0644))

	deleted, err := svc.RotateOldBackups(0)
	require.NoError(t, err)
	assert.Equal(t, 0, deleted, "zero retention keeps everything")

	deleted, err = svc.RotateOldBackups(30)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	backups, err := svc.ListBackups()
	require.NoError(t, err)
	require.Len(t, backups, 3, "the newest three survive even past retention")
	assert.Equal(t, names[2], backups[2].Filename)
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Upload(_ context.Context, key string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeStore) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ObjectInfo
	for key, data := range f.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	return out, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func TestS3BackupService_Upload(t *testing.T) {
	local := newBackupService(t)
	store := newFakeStore()
	remote := NewS3BackupService(store, "alpha/", zerolog.Nop())
	remote.now = fixedClock(testNow)

	created, err := local.CreateBackup(context.Background())
	require.NoError(t, err)
	info, err := remote.Upload(context.Background(), *created)
	require.NoError(t, err)
	assert.Equal(t, "alpha/alpha-backup-2024-03-01-120000.db.gz", info.Filename)

	original, err := os.ReadFile(filepath.Join(local.Dir(), "alpha-backup-2024-03-01-120000.db"))
	require.NoError(t, err)

	zr, err := gzip.NewReader(bytes.NewReader(store.objects[info.Filename]))
	require.NoError(t, err)
	uploaded, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, original, uploaded)

	backups, err := remote.ListBackups(context.Background())
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, testNow, backups[0].Timestamp)
}

func TestS3BackupService_Rotate(t *testing.T) {
	store := newFakeStore()
	for _, days := range []int{1, 5, 10, 45, 90} {
		store.objects["alpha/"+backupName(testNow.AddDate(0, 0, -days), remoteSuffix)] = []byte("x")
	}
	store.objects["alpha/readme.txt"] = []byte("x")

	remote := NewS3BackupService(store, "alpha/", zerolog.Nop())
	remote.now = fixedClock(testNow)

	deleted, err := remote.RotateOldBackups(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.ElementsMatch(t, []string{
		"alpha/" + backupName(testNow.AddDate(0, 0, -45), remoteSuffix),
		"alpha/" + backupName(testNow.AddDate(0, 0, -90), remoteSuffix),
	}, store.deleted)
	assert.Contains(t, store.objects, "alpha/readme.txt")
}

func TestBackupJob_Run(t *testing.T) {
	local := newBackupService(t)
	store := newFakeStore()
	remote := NewS3BackupService(store, "alpha/", zerolog.Nop())

	job := NewBackupJob(local, remote, 30, zerolog.Nop())
	assert.Equal(t, "database_backup", job.Name())
	require.NoError(t, job.Run())

	backups, err := local.ListBackups()
	require.NoError(t, err)
	assert.Len(t, backups, 1)
	assert.Len(t, store.objects, 1)
}

func TestMaintenanceJob_Run(t *testing.T) {
	db := testingpkg.NewTestDB(t)
	job := NewMaintenanceJob(db, zerolog.Nop())
	assert.Equal(t, "database_maintenance", job.Name())
	assert.NoError(t, job.Run())
}
