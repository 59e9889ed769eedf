package fsreader

import "os"

// Reader implements domain.FileReader against the local filesystem.
type Reader struct{}

func New() *Reader {
	return &Reader{}
}

func (r *Reader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
