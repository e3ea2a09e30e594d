package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"rsc.io/pdf"
)

func TestFileTextPlain(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"notes.txt", "notes.MD"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("Mitochondria produce ATP."), 0o644); err != nil {
			t.Fatal(err)
		}
		got, err := FileText(path)
		if err != nil {
			t.Fatalf("FileText(%s): %v", name, err)
		}
		if got != "Mitochondria produce ATP." {
			t.Errorf("FileText(%s) = %q", name, got)
		}
	}
}

func TestFileTextUnsupported(t *testing.T) {
	_, err := FileText("slides.pptx")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestFileTextMissing(t *testing.T) {
	_, err := FileText(filepath.Join(t.TempDir(), "gone.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPDFTextInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := PDFText(path); err == nil {
		t.Fatal("expected error for invalid pdf")
	}
}

func TestPageText(t *testing.T) {
	runs := []pdf.Text{
		{S: "Hello", X: 10, Y: 700, W: 20},
		{S: "world", X: 35, Y: 700, W: 20},
		{S: "Next", X: 10, Y: 680, W: 15},
		{S: "line", X: 25, Y: 680, W: 15},
	}
	want := "Hello world\nNextline"
	if got := pageText(runs); got != want {
		t.Errorf("pageText = %q, want %q", got, want)
	}
}
