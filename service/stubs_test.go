package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"video-gallery/config"
	"video-gallery/dto"
	"video-gallery/entities"
	"video-gallery/pkg/cloudinary"
)

var testCredentials = config.Cloudinary{CloudName: "demo", APIKey: "key", APISecret: "secret"}

func fileHeader(t *testing.T, name, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, name))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

type stubProvider struct {
	mu        sync.Mutex
	result    *cloudinary.UploadResult
	err       error
	release   chan struct{}
	honorCtx  bool
	uploaded  []byte
	uploads   int
	destroyed []string
	destroyFn func(publicID string) error
}

func (p *stubProvider) Upload(ctx context.Context, file io.Reader, recipe cloudinary.Recipe) (*cloudinary.UploadResult, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.uploads++
	p.uploaded = data
	p.mu.Unlock()

	if p.release != nil {
		if !p.honorCtx {
			<-p.release
		} else {
			select {
			case <-p.release:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return p.result, p.err
}

func (p *stubProvider) Destroy(ctx context.Context, publicID, resourceType string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.destroyed = append(p.destroyed, publicID+"|"+resourceType)
	if p.destroyFn != nil {
		return p.destroyFn(publicID)
	}
	return nil
}

func (p *stubProvider) uploadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uploads
}

type stubRepo struct {
	createErr error
	createFn  func(ctx context.Context) error
	created   *entities.Video
	videos    []*entities.Video
	listErr   error
	listCalls int
}

func (r *stubRepo) CreateVideo(ctx context.Context, video *entities.Video) error {
	if r.createFn != nil {
		return r.createFn(ctx)
	}
	if r.createErr != nil {
		return r.createErr
	}
	r.created = video
	return nil
}

func (r *stubRepo) ListVideos(ctx context.Context) ([]*entities.Video, error) {
	r.listCalls++
	return r.videos, r.listErr
}

func (r *stubRepo) Ping(ctx context.Context) error {
	return nil
}

type stubPublisher struct {
	mu      sync.Mutex
	msgs    []dto.OrphanedAssetMessage
	ctxErrs []error
	err     error
}

func (p *stubPublisher) PublishOrphan(ctx context.Context, msg dto.OrphanedAssetMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	p.ctxErrs = append(p.ctxErrs, ctx.Err())
	return p.err
}

func (p *stubPublisher) published() []dto.OrphanedAssetMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]dto.OrphanedAssetMessage(nil), p.msgs...)
}

type stubArchiver struct {
	key       string
	data      []byte
	err       error
	removed   []string
	removeErr error
}

func (a *stubArchiver) Archive(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if a.err != nil {
		return a.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	a.key, a.data = key, data
	return nil
}

func (a *stubArchiver) Remove(ctx context.Context, key string) error {
	if a.removeErr != nil {
		return a.removeErr
	}
	a.removed = append(a.removed, key)
	return nil
}

type stubCache struct {
	videos      []*entities.Video
	hit         bool
	getErr      error
	set         []*entities.Video
	invalidated int
}

func (c *stubCache) Get(ctx context.Context) ([]*entities.Video, bool, error) {
	return c.videos, c.hit, c.getErr
}

func (c *stubCache) Set(ctx context.Context, videos []*entities.Video) error {
	c.set = videos
	return nil
}

func (c *stubCache) Invalidate(ctx context.Context) error {
	c.invalidated++
	return nil
}
