package ops

import (
	"archive/tar"
	"compress/gzip"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestBackupRestoreDataDir_RoundTrip(t *testing.T) {
	src := filepath.Join(t.TempDir(), "data")
	files := map[string]string{
		"snapshot.json":       `{"version":2,"tasks":[{"id":"task_1","title":"water plants","quadrant":"DELEGATE"}],"labels":[]}`,
		"logs/matrix.log":     "level=info msg=started\n",
		"snapshots/matrix.db": "sqlite placeholder",
	}
	for rel, content := range files {
		path := filepath.Join(src, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir parent %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	archive := filepath.Join(t.TempDir(), ArchiveName(time.Now()))
	if err := BackupDataDir(src, archive); err != nil {
		t.Fatalf("backup failed: %v", err)
	}
	if _, err := os.Stat(archive); err != nil {
		t.Fatalf("archive missing: %v", err)
	}

	restoreDir := filepath.Join(t.TempDir(), "restore")
	if err := RestoreDataDir(archive, restoreDir); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	got := map[string]string{}
	err := filepath.WalkDir(restoreDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(restoreDir, path)
		if err != nil {
			return err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		got[filepath.ToSlash(rel)] = string(b)
		return nil
	})
	if err != nil {
		t.Fatalf("walk restore dir: %v", err)
	}

	if !reflect.DeepEqual(files, got) {
		t.Fatalf("restored files mismatch:\nwant=%v\ngot=%v", files, got)
	}
}

func TestDrill_VerifiesDigest(t *testing.T) {
	src := filepath.Join(t.TempDir(), "data")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatalf("mkdir src: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "snapshot.json"), []byte(`{"version":2,"tasks":[],"labels":[]}`), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	res, err := Drill(src, t.TempDir())
	if err != nil {
		t.Fatalf("drill failed: %v", err)
	}
	if res.Digest == "" {
		t.Fatalf("expected non-empty digest")
	}
	if _, err := os.Stat(res.Archive); err != nil {
		t.Fatalf("drill archive missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(res.RestoreDir, "snapshot.json")); err != nil {
		t.Fatalf("restored snapshot missing: %v", err)
	}
}

func TestArchiveName_Format(t *testing.T) {
	name := ArchiveName(time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC))
	if name != "priority-matrix-20260829T103000Z.tar.gz" {
		t.Fatalf("unexpected archive name: %s", name)
	}
	if !strings.HasSuffix(name, ".tar.gz") {
		t.Fatalf("archive name must end with .tar.gz: %s", name)
	}
}

func TestRestoreDataDir_RejectsPathTraversal(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "bad.tar.gz")
	f, err := os.Create(archive)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	if err := tw.WriteHeader(&tar.Header{
		Name:     "../escape.txt",
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(len("bad")),
	}); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if _, err := tw.Write([]byte("bad")); err != nil {
		t.Fatalf("write body: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar writer: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}

	if err := RestoreDataDir(archive, filepath.Join(t.TempDir(), "out")); err == nil {
		t.Fatalf("expected restore to reject path traversal archive")
	}
}
