package testing

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/soulscript/notionkit/internal/platform/s3"
)

// FakeS3Bucket is the bucket name FakeS3.Client binds to.
const FakeS3Bucket = "notionkit-test"

// FakeS3 is an in-memory, path-style S3 endpoint supporting the object calls
// the handle store uses: GET, PUT (with If-None-Match: *) and DELETE.
type FakeS3 struct {
	Server *httptest.Server

	mu      sync.Mutex
	objects map[string][]byte
	// failPut makes every PUT answer with this status when non-zero.
	failPut int
}

// NewFakeS3 starts a fake object store that is closed when the test ends.
func NewFakeS3(tb TB) *FakeS3 {
	tb.Helper()
	f := &FakeS3{objects: make(map[string][]byte)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	tb.Cleanup(f.Server.Close)
	return f
}

// Client returns an S3 client pointed at the fake store.
func (f *FakeS3) Client(tb TB) *s3.Client {
	tb.Helper()
	c, err := s3.NewClient(context.Background(), s3.Options{
		Bucket:       FakeS3Bucket,
		Region:       "eu-central-1",
		Endpoint:     f.Server.URL,
		AccessKey:    "test-key",
		SecretKey:    "test-secret",
		UsePathStyle: true,
	})
	if err != nil {
		tb.Fatalf("create s3 client: %v", err)
	}
	return c
}

// Object returns the stored bytes for key.
func (f *FakeS3) Object(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	return data, ok
}

// Len returns the number of stored objects.
func (f *FakeS3) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// FailPuts makes subsequent PUT requests fail with status.
func (f *FakeS3) FailPuts(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPut = status
}

func (f *FakeS3) serve(w http.ResponseWriter, r *http.Request) {
	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if bucket != FakeS3Bucket {
		s3Error(w, http.StatusNotFound, "NoSuchBucket", "The specified bucket does not exist")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		data, ok := f.objects[key]
		if !ok {
			s3Error(w, http.StatusNotFound, "NoSuchKey", "The specified key does not exist.")
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	case http.MethodPut:
		if f.failPut != 0 {
			s3Error(w, f.failPut, "InternalError", "We encountered an internal error.")
			return
		}
		if _, exists := f.objects[key]; exists && r.Header.Get("If-None-Match") == "*" {
			s3Error(w, http.StatusPreconditionFailed, "PreconditionFailed", "At least one of the pre-conditions you specified did not hold")
			return
		}
		data, err := io.ReadAll(r.Body)
		if err != nil {
			s3Error(w, http.StatusBadRequest, "IncompleteBody", err.Error())
			return
		}
		f.objects[key] = data
		w.Header().Set("ETag", `"fake"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		s3Error(w, http.StatusMethodNotAllowed, "MethodNotAllowed", "The specified method is not allowed against this resource.")
	}
}

func s3Error(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>`+code+`</Code><Message>`+message+`</Message></Error>`)
}
