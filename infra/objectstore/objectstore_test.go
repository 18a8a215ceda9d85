package objectstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/svitlo/config"
)

type putCall struct {
	bucket, object, contentType string
	body                        string
	size                        int64
}

type fakeAPI struct {
	exists  bool
	made    []string
	puts    []putCall
	putErr  error
	headErr error
}

func (f *fakeAPI) BucketExists(context.Context, string) (bool, error) { return f.exists, f.headErr }

func (f *fakeAPI) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.made = append(f.made, bucket)
	return nil
}

func (f *fakeAPI) PutObject(_ context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	b, _ := io.ReadAll(r)
	f.puts = append(f.puts, putCall{bucket, object, opts.ContentType, string(b), size})
	return minio.UploadInfo{Bucket: bucket, Key: object, Size: size}, nil
}

func TestUploadFile(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "Vinnytsiaoblenerho.json")
	require.NoError(t, os.WriteFile(doc, []byte(`{"regionId":"vinnytsia"}`), 0o644))

	api := &fakeAPI{}
	u := newUploader(api, "gpv", "/vinnytsia/")
	require.NoError(t, u.UploadFile(context.Background(), doc))
	require.Len(t, api.puts, 1)
	p := api.puts[0]
	assert.Equal(t, "gpv", p.bucket)
	assert.Equal(t, "vinnytsia/Vinnytsiaoblenerho.json", p.object)
	assert.Equal(t, "application/json", p.contentType)
	assert.Equal(t, int64(len(p.body)), p.size)
}

func TestUploadErrors(t *testing.T) {
	api := &fakeAPI{putErr: errors.New("denied")}
	u := newUploader(api, "gpv", "")
	assert.Error(t, u.UploadFile(context.Background(), filepath.Join(t.TempDir(), "missing.png")))

	f := filepath.Join(t.TempDir(), "gpv-all-tomorrow.png")
	require.NoError(t, os.WriteFile(f, []byte{0x89}, 0o644))
	err := u.UploadFile(context.Background(), f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gpv-all-tomorrow.png")
}

func TestEnsureBucket(t *testing.T) {
	api := &fakeAPI{exists: true}
	require.NoError(t, newUploader(api, "gpv", "").EnsureBucket(context.Background()))
	assert.Empty(t, api.made)

	api = &fakeAPI{}
	require.NoError(t, newUploader(api, "gpv", "").EnsureBucket(context.Background()))
	assert.Equal(t, []string{"gpv"}, api.made)

	api = &fakeAPI{headErr: errors.New("unreachable")}
	assert.Error(t, newUploader(api, "gpv", "").EnsureBucket(context.Background()))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType("a.png"))
	assert.Equal(t, "application/pdf", ContentType("a.pdf"))
	assert.Equal(t, "application/octet-stream", ContentType("a.hash"))
}

func TestNewBuildsClient(t *testing.T) {
	u, err := New(config.StorageConfig{Enabled: true, Endpoint: "localhost:9000", Bucket: "gpv", Prefix: "svitlo/", AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)
	assert.Equal(t, "svitlo/x.png", u.ObjectName("x.png"))
}
