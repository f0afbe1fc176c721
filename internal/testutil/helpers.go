package testutil

import (
	"archive/tar"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"ojadmin/internal/admin/model"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// MustUnmarshalJSON unmarshals JSON data or fails the test
func MustUnmarshalJSON(t testing.TB, data []byte, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("failed to unmarshal JSON: %v", err)
	}
}

// WriteFile writes content under dir and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create dir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s failed: %v", name, err)
	}
	return path
}

// WriteZip writes a zip archive holding files.
func WriteZip(t testing.TB, path string, files map[string]string) {
	t.Helper()
	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip failed: %v", err)
	}
	defer out.Close()
	zw := zip.NewWriter(out)
	for _, name := range sortedKeys(files) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry failed: %v", err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatalf("write zip entry failed: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip failed: %v", err)
	}
}

// WriteTarZst writes a zstd-compressed tar archive holding files.
func WriteTarZst(t testing.TB, path string, files map[string]string) {
	t.Helper()
	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("create archive failed: %v", err)
	}
	defer out.Close()
	zw, err := zstd.NewWriter(out)
	if err != nil {
		t.Fatalf("create zstd writer failed: %v", err)
	}
	tw := tar.NewWriter(zw)
	for _, name := range sortedKeys(files) {
		body := []byte(files[name])
		if err := tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: int64(len(body)), Typeflag: tar.TypeReg}); err != nil {
			t.Fatalf("write tar header failed: %v", err)
		}
		if _, err := tw.Write(body); err != nil {
			t.Fatalf("write tar entry failed: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zstd failed: %v", err)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Submission builds a submission fixture with base64 code.
func Submission(id int64, team, problem, result, code string) model.Submission {
	return model.Submission{
		ID:       model.IDFromInt64(id),
		Team:     &model.SubmissionTeam{TeamName: team},
		Problem:  &model.SubmissionProblem{Title: problem},
		Language: "cpp",
		Result:   result,
		Code:     base64.StdEncoding.EncodeToString([]byte(code)),
	}
}
