package content

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/doccontext/constants"
)

// File is a document handed to the service. Bytes may block on I/O.
type File interface {
	Name() string
	ContentType() string
	Bytes(ctx context.Context) ([]byte, error)
}

type memFile struct {
	name string
	mime string
	data []byte
}

// FromBytes wraps an in-memory upload.
func FromBytes(name, mime string, data []byte) File {
	return memFile{name: name, mime: mime, data: data}
}

func (f memFile) Name() string        { return f.name }
func (f memFile) ContentType() string { return f.mime }

func (f memFile) Bytes(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.data, nil
}

type diskFile struct {
	path string
}

// FromPath wraps a file on disk; the content type is guessed from the extension.
func FromPath(path string) File {
	return diskFile{path: path}
}

func (f diskFile) Name() string        { return filepath.Base(f.path) }
func (f diskFile) ContentType() string { return constants.MIMEForExt(filepath.Ext(f.path)) }

func (f diskFile) Bytes(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(f.path)
}
