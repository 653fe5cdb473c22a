package store

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestMemStorePutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	if err := s.Put(ctx, "linux/cache/oasis-a1b2c3d", []byte("binary")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	data, err := s.Get(ctx, "linux/cache/oasis-a1b2c3d")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(data, []byte("binary")) {
		t.Errorf("Get = %q", data)
	}
}

func TestMemStoreGetMissing(t *testing.T) {
	s := NewMemStore()

	_, err := s.Get(context.Background(), "absent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	var storeErr *StoreError
	if !errors.As(err, &storeErr) || storeErr.Op != "get" {
		t.Errorf("expected wrapped StoreError, got %v", err)
	}
}

func TestMemStoreCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	if err := s.Put(ctx, "src", []byte("binary")); err != nil {
		t.Fatal(err)
	}
	if err := s.Copy(ctx, "src", "dst"); err != nil {
		t.Fatalf("Copy: %v", err)
	}

	data, err := s.Get(ctx, "dst")
	if err != nil || !bytes.Equal(data, []byte("binary")) {
		t.Errorf("copied object = %q, %v", data, err)
	}

	if err := s.Copy(ctx, "absent", "dst2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("copy of missing source: %v", err)
	}
}

func TestMemStoreDeleteMany(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	for _, key := range []string{"a", "b", "c"} {
		if err := s.Put(ctx, key, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.DeleteMany(ctx, []string{"a", "c", "absent"}); err != nil {
		t.Fatalf("DeleteMany: %v", err)
	}

	keys, err := s.List(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0] != "b" {
		t.Errorf("remaining keys = %v", keys)
	}
}

func TestMemStoreListPrefix(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	for _, key := range []string{"linux/cache/a-1", "linux/current/a-1", "darwin/cache/a-1"} {
		if err := s.Put(ctx, key, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := s.List(ctx, "linux/cache/")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0] != "linux/cache/a-1" {
		t.Errorf("List = %v", keys)
	}
}
