package store

import (
	"bytes"
	"errors"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return s
}

func TestPutGetOverwritesPerKind(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put(Record{Kind: KindPKESK, Source: "a.pgp", Data: []byte{1, 2}}); err != nil {
		t.Fatalf("put first: %v", err)
	}
	if err := s.Put(Record{Kind: KindPKESK, Source: "b.pgp", Offset: 40, Data: []byte{3}}); err != nil {
		t.Fatalf("put second: %v", err)
	}

	rec, err := s.Get(KindPKESK)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Source != "b.pgp" || rec.Offset != 40 || !bytes.Equal(rec.Data, []byte{3}) {
		t.Fatalf("expected last write to win, got %+v", rec)
	}
	if rec.StoredAt.IsZero() {
		t.Fatalf("expected stored_at to be set")
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get(KindSEIP); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPutRejectsUnknownKind(t *testing.T) {
	s := openTestStore(t)
	if err := s.Put(Record{Kind: "literal"}); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestListOrderedByKind(t *testing.T) {
	s := openTestStore(t)
	for _, rec := range []Record{
		{Kind: KindSEIP, Data: []byte("seip")},
		{Kind: KindPKESK, Data: []byte("pkesk")},
	} {
		if err := s.Put(rec); err != nil {
			t.Fatalf("put %s: %v", rec.Kind, err)
		}
	}
	recs, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 2 || recs[0].Kind != KindPKESK || recs[1].Kind != KindSEIP {
		t.Fatalf("unexpected list: %+v", recs)
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Put(Record{Kind: KindSEIP, Data: []byte{9}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	rec, err := s.Get(KindSEIP)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if !bytes.Equal(rec.Data, []byte{9}) {
		t.Fatalf("unexpected data: %v", rec.Data)
	}
}

func TestOpenEmptyDir(t *testing.T) {
	if _, err := Open(" "); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}
