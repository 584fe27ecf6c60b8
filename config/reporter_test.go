package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReport_Archive(t *testing.T) {
	dir := t.TempDir()

	rc := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	r, err := rc.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if r.Name() != rc.Destination {
		t.Errorf("Name() = %q, want %q", r.Name(), rc.Destination)
	}

	stored := filepath.Join(dir, "input.yaml")
	if err := os.WriteFile(stored, []byte("rules: []\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	r.Store("input/doc.yaml", stored)
	r.Store("input/doc.yaml", stored) // same path is fine
	r.Store("absent", filepath.Join(dir, "absent.log"))
	r.StoreData("output.css", []byte("a {\n}\n"))
	r.StoreData("output.css", []byte("b {\n}\n"))

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	zr, err := zip.OpenReader(rc.Destination)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()

	files := make(map[string]string)
	for _, f := range zr.File {
		rd, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open %s: %v", f.Name, err)
		}
		data, _ := io.ReadAll(rd)
		rd.Close()
		files[f.Name] = string(data)
	}

	if files["input/doc.yaml"] != "rules: []\n" {
		t.Errorf("stored file content = %q", files["input/doc.yaml"])
	}
	if files["output.css"] != "a {\n}\n" {
		t.Errorf("stored data content = %q", files["output.css"])
	}
	if _, ok := files["absent"]; ok {
		t.Error("absent file must be skipped")
	}
	if len(files) != 4 {
		t.Errorf("expected MANIFEST, input, two outputs; got %d entries", len(files))
	}
	if !strings.Contains(files["MANIFEST"], "input/doc.yaml") {
		t.Errorf("MANIFEST does not list stored file:\n%s", files["MANIFEST"])
	}
}

func TestReport_OverwritePanics(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.Store("x", "/tmp/one")
	defer func() {
		if recover() == nil {
			t.Error("expected panic when overwriting stored file")
		}
	}()
	r.Store("x", "/tmp/two")
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	r.Store("a", "b")
	r.StoreData("a", nil)
	if r.Name() != "" {
		t.Error("nil report must have no name")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
