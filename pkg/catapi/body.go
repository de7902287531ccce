package catapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// fileField is the multipart form field the Cat reads uploads from.
const fileField = "file"

// File is a binary payload for the multipart endpoints.
type File struct {
	// Name is sent as the multipart filename. Only the base name is used.
	Name string

	// ContentType of the file. When empty it is guessed from the extension of
	// Name, falling back to application/octet-stream.
	ContentType string

	// Content is streamed into the request body. It is read once.
	Content io.Reader
}

// OpenFile opens path on fs as a File. The returned closer must be closed once
// the request has completed.
func OpenFile(fs afero.Fs, path string) (File, io.Closer, error) {
	f, err := fs.Open(path)
	if err != nil {
		return File{}, nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return File{}, nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return File{}, nil, fmt.Errorf("%s is a directory", path)
	}

	return File{
		Name:    filepath.Base(path),
		Content: f,
	}, f, nil
}

func (f File) contentType() string {
	if f.ContentType != "" {
		return f.ContentType
	}
	if ct := mime.TypeByExtension(filepath.Ext(f.Name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// jsonBody encodes any JSON-compatible value.
type jsonBody struct {
	value any
}

func (b jsonBody) encode() (io.Reader, string, error) {
	data, err := json.Marshal(b.value)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), contentTypeJSON, nil
}

// multipartBody streams a single file field through a pipe so the file is
// never held in memory as a whole.
type multipartBody struct {
	file File
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (b multipartBody) encode() (io.Reader, string, error) {
	if b.file.Content == nil {
		return nil, "", errors.New("file has no content")
	}
	name := filepath.Base(b.file.Name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, "", errors.New("file has no name")
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		fileField, quoteEscaper.Replace(name)))
	header.Set("Content-Type", b.file.contentType())

	go func() {
		part, err := mw.CreatePart(header)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, b.file.Content); err != nil {
			pw.CloseWithError(&uploadError{err: err})
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	return pr, mw.FormDataContentType(), nil
}

// uploadError marks a failure reading the local file, as opposed to a
// failure writing to the network.
type uploadError struct {
	err error
}

func (e *uploadError) Error() string {
	return fmt.Sprintf("failed to read upload: %v", e.err)
}

func (e *uploadError) Unwrap() error {
	return e.err
}

func asUploadError(err error) (*uploadError, bool) {
	var u *uploadError
	if errors.As(err, &u) {
		return u, true
	}
	return nil, false
}
