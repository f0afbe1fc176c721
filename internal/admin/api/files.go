package api

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	pkgerrors "ojadmin/pkg/errors"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// maxUploadFileSize caps one file read into memory for an upload.
const maxUploadFileSize = 64 << 20

// UploadFile is one file of a multipart upload.
type UploadFile struct {
	Name string
	Data []byte
}

func (f UploadFile) Reader() io.Reader {
	return bytes.NewReader(f.Data)
}

// FileFromBytes builds an UploadFile from memory.
func FileFromBytes(name string, data []byte) UploadFile {
	return UploadFile{Name: name, Data: data}
}

// FilesFromPaths reads regular files. Directories contribute the regular
// files directly inside them, sorted by name. Hidden entries are skipped.
func FilesFromPaths(paths ...string) ([]UploadFile, error) {
	var out []UploadFile
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, pkgerrors.TestCaseInvalid, "stat %s failed", p)
		}
		if !info.IsDir() {
			f, err := readUploadFile(p)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, pkgerrors.TestCaseInvalid, "read dir %s failed", p)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
		for _, e := range entries {
			if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			f, err := readUploadFile(filepath.Join(p, e.Name()))
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, pkgerrors.New(pkgerrors.TestCaseInvalid).WithMessage("no files found")
	}
	if err := uniqueNames(out); err != nil {
		return nil, err
	}
	return out, nil
}

func readUploadFile(p string) (UploadFile, error) {
	file, err := os.Open(p)
	if err != nil {
		return UploadFile{}, pkgerrors.Wrapf(err, pkgerrors.TestCaseInvalid, "open %s failed", p)
	}
	defer file.Close()
	data, err := readLimited(file)
	if err != nil {
		return UploadFile{}, pkgerrors.Wrapf(err, pkgerrors.TestCaseInvalid, "read %s failed", p)
	}
	return UploadFile{Name: filepath.Base(p), Data: data}, nil
}

// FilesFromArchive expands a .zip or .tar.zst archive into flat upload
// files. Directory structure is dropped; entries are sorted by name.
func FilesFromArchive(archivePath string) ([]UploadFile, error) {
	var (
		files []UploadFile
		err   error
	)
	switch lower := strings.ToLower(archivePath); {
	case strings.HasSuffix(lower, ".zip"):
		files, err = filesFromZip(archivePath)
	case strings.HasSuffix(lower, ".tar.zst"), strings.HasSuffix(lower, ".tzst"):
		files, err = filesFromTarZst(archivePath)
	default:
		return nil, pkgerrors.New(pkgerrors.InvalidFormat).WithMessagef("unsupported archive %s", filepath.Base(archivePath))
	}
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, pkgerrors.New(pkgerrors.TestCaseInvalid).WithMessage("archive contains no files")
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	if err := uniqueNames(files); err != nil {
		return nil, err
	}
	return files, nil
}

// uniqueNames rejects file sets where two files share an upload name, since
// the backend keeps only one part per name.
func uniqueNames(files []UploadFile) error {
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		if _, dup := seen[f.Name]; dup {
			return pkgerrors.New(pkgerrors.InvalidFormat).WithMessagef("duplicate upload filename %q", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

func filesFromZip(archivePath string) ([]UploadFile, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, pkgerrors.TestCaseInvalid, "open zip failed")
	}
	defer zr.Close()

	var out []UploadFile
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		name, ok := archiveEntryName(entry.Name)
		if !ok {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, pkgerrors.Wrapf(err, pkgerrors.TestCaseInvalid, "open zip entry %s failed", entry.Name)
		}
		data, err := readLimited(rc)
		rc.Close()
		if err != nil {
			return nil, pkgerrors.Wrapf(err, pkgerrors.TestCaseInvalid, "read zip entry %s failed", entry.Name)
		}
		out = append(out, UploadFile{Name: name, Data: data})
	}
	return out, nil
}

func filesFromTarZst(archivePath string) ([]UploadFile, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, pkgerrors.TestCaseInvalid, "open archive failed")
	}
	defer file.Close()

	zr, err := zstd.NewReader(file)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, pkgerrors.TestCaseInvalid, "create zstd reader failed")
	}
	defer zr.Close()

	var out []UploadFile
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, pkgerrors.Wrapf(err, pkgerrors.TestCaseInvalid, "read tar entry failed")
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		name, ok := archiveEntryName(hdr.Name)
		if !ok {
			continue
		}
		data, err := readLimited(tr)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, pkgerrors.TestCaseInvalid, "read tar entry %s failed", hdr.Name)
		}
		out = append(out, UploadFile{Name: name, Data: data})
	}
	return out, nil
}

// archiveEntryName flattens an archive path to its base name, rejecting
// hidden files and OS metadata folders.
func archiveEntryName(name string) (string, bool) {
	clean := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if strings.HasPrefix(clean, "__MACOSX/") {
		return "", false
	}
	base := path.Base(clean)
	if base == "." || base == "/" || strings.HasPrefix(base, ".") {
		return "", false
	}
	return base, fs.ValidPath(base)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxUploadFileSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxUploadFileSize {
		return nil, pkgerrors.New(pkgerrors.TestCaseInvalid).WithMessagef("file exceeds %d bytes", maxUploadFileSize)
	}
	return data, nil
}
