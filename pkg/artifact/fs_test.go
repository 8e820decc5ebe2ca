package artifact

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestFSStorePutGet(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}

	body := "netcdf payload"
	if err := store.Put(context.Background(), "run-1/result.nc", strings.NewReader(body), int64(len(body))); err != nil {
		t.Fatalf("Put: %v", err)
	}

	obj, err := store.Get(context.Background(), "run-1/result.nc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer obj.Body.Close()

	if obj.Size != int64(len(body)) {
		t.Errorf("Size = %d, want %d", obj.Size, len(body))
	}
	got, err := io.ReadAll(obj.Body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != body {
		t.Errorf("body = %q, want %q", got, body)
	}
}

func TestFSStoreGetMissing(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}

	_, err = store.Get(context.Background(), "run-x/result.nc")
	if !IsNotFound(err) {
		t.Errorf("Get missing: got %v, want ErrNotFound", err)
	}
}

func TestFSStoreRejectsEscapingKeys(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}

	for _, key := range []string{"", "/etc/passwd", "../outside", "a/../../outside"} {
		if _, err := store.Get(context.Background(), key); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Get(%q): got %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestFSStorePutReplaces(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	ctx := context.Background()

	if err := store.Put(ctx, "run-1/result.nc", strings.NewReader("first"), 5); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(ctx, "run-1/result.nc", strings.NewReader("second"), 6); err != nil {
		t.Fatalf("Put replace: %v", err)
	}

	obj, err := store.Get(ctx, "run-1/result.nc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer obj.Body.Close()
	got, _ := io.ReadAll(obj.Body)
	if string(got) != "second" {
		t.Errorf("body = %q, want %q", got, "second")
	}
}

func TestContentTypeFor(t *testing.T) {
	if ct := contentTypeFor("run/result.json"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("json content type = %q", ct)
	}
	if ct := contentTypeFor("run/result.nc"); ct == "" {
		t.Error("nc content type is empty")
	}
}
