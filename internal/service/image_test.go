package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kenijima/chainmark/internal/apperr"
	"github.com/kenijima/chainmark/internal/models"
)

type fakeWatermarker struct {
	watermarked string
	mark        string
	err         error
	gotBytes    []byte
}

func (w *fakeWatermarker) Apply(_ context.Context, imageBytes []byte) (string, string, error) {
	w.gotBytes = imageBytes
	if w.err != nil {
		return "", "", w.err
	}
	return w.watermarked, w.mark, nil
}

type fakePinner struct {
	cid     string
	pinErr  error
	content map[string]string
	pinned  []string
}

func (p *fakePinner) PinBase64(_ context.Context, base64Data string) (string, error) {
	if p.pinErr != nil {
		return "", p.pinErr
	}
	p.pinned = append(p.pinned, base64Data)
	return p.cid, nil
}

func (p *fakePinner) CatAsBase64(_ context.Context, cid string) (string, error) {
	body, ok := p.content[cid]
	if !ok {
		return "", apperr.IPFS("Failed to cat file", nil)
	}
	return body, nil
}

type fakeImageRepo struct {
	err      error
	userID   int64
	cid      string
	mark     string
	recorded int
}

func (r *fakeImageRepo) RecordSubmission(_ context.Context, userID int64, cid, watermarkBase64 string) error {
	if r.err != nil {
		return r.err
	}
	r.recorded++
	r.userID = userID
	r.cid = cid
	r.mark = watermarkBase64
	return nil
}

func TestSubmit(t *testing.T) {
	users := newFakeUserRepo()
	users.users["alice"] = &models.User{ID: 7, Username: "alice"}

	wm := &fakeWatermarker{watermarked: "d2F0ZXJtYXJrZWQ=", mark: "bWFyaw=="}
	pinner := &fakePinner{cid: "QmTest"}
	images := &fakeImageRepo{}
	svc := NewImageService(users, images, wm, pinner, zap.NewNop())

	raw := []byte{0xff, 0xd8, 0xff}
	cid, err := svc.Submit(context.Background(), "alice", base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, "QmTest", cid)

	assert.Equal(t, raw, wm.gotBytes)
	require.Len(t, pinner.pinned, 1)
	assert.Equal(t, "d2F0ZXJtYXJrZWQ=", pinner.pinned[0])

	require.Equal(t, 1, images.recorded)
	assert.Equal(t, int64(7), images.userID)
	assert.Equal(t, "QmTest", images.cid)
	assert.Equal(t, "bWFyaw==", images.mark)
}

func TestSubmitRejectsBadBase64(t *testing.T) {
	svc := NewImageService(newFakeUserRepo(), &fakeImageRepo{}, &fakeWatermarker{}, &fakePinner{}, zap.NewNop())

	_, err := svc.Submit(context.Background(), "alice", "not base64!!!")
	assertAppError(t, err, "DecodeBytesError", 400)
}

func TestSubmitWatermarkFailureStopsPipeline(t *testing.T) {
	wm := &fakeWatermarker{err: apperr.WatermarkProcess("boom")}
	pinner := &fakePinner{cid: "QmTest"}
	images := &fakeImageRepo{}
	svc := NewImageService(newFakeUserRepo(), images, wm, pinner, zap.NewNop())

	_, err := svc.Submit(context.Background(), "alice", "")
	assertAppError(t, err, "WatermarkProcessError", 500)
	assert.Empty(t, pinner.pinned)
	assert.Zero(t, images.recorded)
}

func TestSubmitPinFailureRecordsNothing(t *testing.T) {
	users := newFakeUserRepo()
	users.users["alice"] = &models.User{ID: 7, Username: "alice"}
	images := &fakeImageRepo{}
	svc := NewImageService(users, images, &fakeWatermarker{watermarked: "d2071"}, &fakePinner{pinErr: apperr.IPFS("Failed to add file", nil)}, zap.NewNop())

	_, err := svc.Submit(context.Background(), "alice", "")
	assertAppError(t, err, "IpfsError", 500)
	assert.Zero(t, images.recorded)
}

func TestSubmitUnknownUserLeavesPin(t *testing.T) {
	// Pinning happens before the user lookup; a failed lookup leaves
	// the content pinned but unrecorded.
	pinner := &fakePinner{cid: "QmLeaked"}
	images := &fakeImageRepo{}
	svc := NewImageService(newFakeUserRepo(), images, &fakeWatermarker{watermarked: "d a t a"}, pinner, zap.NewNop())

	_, err := svc.Submit(context.Background(), "ghost", "")
	assertAppError(t, err, "UserNotFound", 404)
	assert.Len(t, pinner.pinned, 1)
	assert.Zero(t, images.recorded)
}

func TestSubmitRecordFailure(t *testing.T) {
	users := newFakeUserRepo()
	users.users["alice"] = &models.User{ID: 7, Username: "alice"}
	images := &fakeImageRepo{err: errors.New("connection reset")}
	svc := NewImageService(users, images, &fakeWatermarker{}, &fakePinner{cid: "Qm"}, zap.NewNop())

	_, err := svc.Submit(context.Background(), "alice", "")
	assertAppError(t, err, "DatabaseError", 500)
}

func TestFetch(t *testing.T) {
	pinner := &fakePinner{content: map[string]string{"QmTest": "aW1hZ2U="}}
	svc := NewImageService(newFakeUserRepo(), &fakeImageRepo{}, &fakeWatermarker{}, pinner, zap.NewNop())

	body, err := svc.Fetch(context.Background(), "QmTest")
	require.NoError(t, err)
	assert.Equal(t, "aW1hZ2U=", body)

	_, err = svc.Fetch(context.Background(), "QmMissing")
	assertAppError(t, err, "IpfsError", 500)
}
