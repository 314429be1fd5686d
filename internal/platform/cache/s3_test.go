package cache

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	perr "lectern/internal/platform/errors"
)

// fakeBucket is an in-memory ObjectAPI
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    error
}

func newFakeBucket() *fakeBucket { return &fakeBucket{objects: map[string][]byte{}} }

func (f *fakeBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	b, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeBucket) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3_Contract(t *testing.T) {
	t.Parallel()
	s, err := NewS3(newFakeBucket(), "b", "lectern/")
	if err != nil {
		t.Fatalf("NewS3: %v", err)
	}
	exercise(t, s)
}

func TestS3_ObjectNames(t *testing.T) {
	t.Parallel()
	fb := newFakeBucket()
	s, _ := NewS3(fb, "b", "p/")
	if err := s.Set(context.Background(), "scripture:x:search:light and dark?", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	for name := range fb.objects {
		if !strings.HasPrefix(name, "b/p/") || len(name) != len("b/p/")+64 {
			t.Fatalf("object name %q", name)
		}
	}
}

func TestS3_Errors(t *testing.T) {
	t.Parallel()
	if _, err := NewS3(newFakeBucket(), " ", ""); !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("blank bucket err = %v", err)
	}
	fb := newFakeBucket()
	fb.fail = errors.New("denied")
	s, _ := NewS3(fb, "b", "")
	if _, _, err := s.Get(context.Background(), "k"); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("Get err = %v", err)
	}
	if err := s.Set(context.Background(), "k", nil); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("Set err = %v", err)
	}
}
