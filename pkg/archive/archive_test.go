package archive

import (
	"io"
	"path/filepath"
	"testing"
)

func TestWriteAndReadSections(t *testing.T) {
	w := NewWriter()
	routing := w.GetWriter("routing")
	if _, err := routing.Write([]byte("hello routing")); err != nil {
		t.Fatalf("write routing: %v", err)
	}
	if got, want := routing.Pos(), int64(len("hello routing")); got != want {
		t.Errorf("Pos() = %d, want %d", got, want)
	}

	crossMwm := w.GetWriter("cross_mwm")
	if _, err := crossMwm.Write([]byte("cross tile data")); err != nil {
		t.Fatalf("write cross_mwm: %v", err)
	}

	path := filepath.Join(t.TempDir(), "tile.mwm")
	if err := w.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	rr, err := r.GetReader("routing")
	if err != nil {
		t.Fatalf("GetReader(routing): %v", err)
	}
	got, err := io.ReadAll(rr)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "hello routing" {
		t.Errorf("routing section = %q, want %q", got, "hello routing")
	}

	cr, err := r.GetReader("cross_mwm")
	if err != nil {
		t.Fatalf("GetReader(cross_mwm): %v", err)
	}
	got, err = io.ReadAll(cr)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "cross tile data" {
		t.Errorf("cross_mwm section = %q, want %q", got, "cross tile data")
	}
}

func TestGetReaderMissingSection(t *testing.T) {
	w := NewWriter()
	w.GetWriter("routing").Write([]byte("x"))
	path := filepath.Join(t.TempDir(), "tile.mwm")
	if err := w.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := r.GetReader("does_not_exist"); err == nil {
		t.Errorf("GetReader(does_not_exist) = nil error, want ErrSectionNotFound")
	}
	if r.HasSection("does_not_exist") {
		t.Errorf("HasSection(does_not_exist) = true, want false")
	}
	if !r.HasSection("routing") {
		t.Errorf("HasSection(routing) = false, want true")
	}
}
