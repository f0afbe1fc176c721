package transport

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

type formField struct {
	name  string
	value string
}

type formFile struct {
	field    string
	filename string
	content  io.Reader
}

// MultipartForm collects fields and files in insertion order.
type MultipartForm struct {
	fields []formField
	files  []formFile
}

func NewMultipartForm() *MultipartForm {
	return &MultipartForm{}
}

func (f *MultipartForm) AddField(name, value string) *MultipartForm {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

func (f *MultipartForm) AddFile(field, filename string, content io.Reader) *MultipartForm {
	f.files = append(f.files, formFile{field: field, filename: filename, content: content})
	return f
}

// FileCount reports how many files were added.
func (f *MultipartForm) FileCount() int {
	return len(f.files)
}

// encode writes fields first, then files.
func (f *MultipartForm) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("write form field %s failed: %w", field.name, err)
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %s failed: %w", file.filename, err)
		}
		if _, err := io.Copy(part, file.content); err != nil {
			return nil, "", fmt.Errorf("copy form file %s failed: %w", file.filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer failed: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
