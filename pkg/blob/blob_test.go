package blob

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mr-tron/base58"
)

func TestCreateBlob(t *testing.T) {
	b := Create([]byte("asdf"))
	if b.ID != "DTTV3EjpHBNJx3Zw7eJsVPm4bYXKmNkJQpVNkcvTtTSz" {
		t.Errorf("id = %q, want DTTV3EjpHBNJx3Zw7eJsVPm4bYXKmNkJQpVNkcvTtTSz", b.ID)
	}
}

func TestHashEncodingNoPadding(t *testing.T) {
	raw, err := base58.Decode("22es54J4FbFtpb5D1MtBazVuum4TcqCQ7M9JkmYdmJ8W")
	if err != nil {
		t.Fatal(err)
	}
	got := encodeHash(raw)
	if len(got) != 44 {
		t.Errorf("len = %d, want 44", len(got))
	}
	if got != "22es54J4FbFtpb5D1MtBazVuum4TcqCQ7M9JkmYdmJ8W" {
		t.Errorf("got %q", got)
	}
}

func TestHashEncodingPadding(t *testing.T) {
	raw, err := base58.Decode("r6edvU326yvpXLubYacXXSxf2HzqCgzqHUQvpWyNwei")
	if err != nil {
		t.Fatal(err)
	}
	got := encodeHash(raw)
	if len(got) != 44 {
		t.Errorf("len = %d, want 44", len(got))
	}
	if got != "r6edvU326yvpXLubYacXXSxf2HzqCgzqHUQvpWyNwei0" {
		t.Errorf("got %q", got)
	}
}

func TestValidID(t *testing.T) {
	if ValidID("../../../etc/passwd") {
		t.Error("path traversal must not be accepted as a blob id")
	}
	if !ValidID("DTTV3EjpHBNJx3Zw7eJsVPm4bYXKmNkJQpVNkcvTtTSz") {
		t.Error("a well-formed blob id must validate")
	}
}

func TestStorageSaveLoad(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	b := Create([]byte("asdf"))
	if err := s.Save(b); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.Load("DTTV3EjpHBNJx3Zw7eJsVPm4bYXKmNkJQpVNkcvTtTSz")
	if err != nil {
		t.Fatal(err)
	}
	if string(loaded.Bytes) != "asdf" {
		t.Errorf("bytes = %q, want asdf", loaded.Bytes)
	}
}

func TestStorageLoadFailure(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Load("DTTV3EjpHBNJx3Zw7eJsVPm4bYXKmNkJQpVNkcvTtTSz"); err == nil {
		t.Error("expected load of a missing blob to fail")
	}
}

func TestStoragePathValidation(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Load("../../../../../../etc/passwd")
	if err == nil {
		t.Error("expected path traversal to be rejected")
	}
}

func TestFsckClassification(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	valid := Create([]byte("referenced"))
	dangling := Create([]byte("unreferenced"))
	if err := s.Save(valid); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(dangling); err != nil {
		t.Fatal(err)
	}

	corruptID := Hash([]byte("pretend-this-is-the-real-content"))
	if err := os.WriteFile(filepath.Join(dir, corruptID), []byte("tampered"), 0o600); err != nil {
		t.Fatal(err)
	}

	reports, err := s.Fsck(map[string]bool{valid.ID: true})
	if err != nil {
		t.Fatal(err)
	}

	got := map[string]Status{}
	for _, r := range reports {
		got[r.ID] = r.Status
	}

	if got[valid.ID] != Valid {
		t.Errorf("valid.Status = %v, want Valid", got[valid.ID])
	}
	if got[dangling.ID] != Dangling {
		t.Errorf("dangling.Status = %v, want Dangling", got[dangling.ID])
	}
	if got[corruptID] != Corrupted {
		t.Errorf("corrupt.Status = %v, want Corrupted", got[corruptID])
	}
}

func TestGcDeletesDanglingOnly(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	dangling := Create([]byte("unreferenced"))
	if err := s.Save(dangling); err != nil {
		t.Fatal(err)
	}

	reports := []Report{{ID: dangling.ID, Status: Dangling}}
	n, err := s.Gc(reports, false)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("deleted %d, want 1", n)
	}

	if _, err := s.Load(dangling.ID); err == nil {
		t.Error("expected dangling blob to be removed by gc")
	}
}
