package dictionary

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// words.txt.gz holds common English words, one per line.
//
//go:embed words.txt.gz
var embeddedWords []byte

var gzipMagic = []byte{0x1f, 0x8b}

const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceS3       = "s3"
)

// Source opens a word list with one entry per line.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Name() string
}

// Load reads src into a WordSet. Gzip-compressed lists are detected by
// their magic bytes and decompressed on the fly.
func Load(ctx context.Context, src Source) (*WordSet, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary %s: %w", src.Name(), err)
	}
	defer rc.Close()

	r, err := decompress(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary %s: %w", src.Name(), err)
	}

	set, err := ReadWordSet(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary %s: %w", src.Name(), err)
	}
	return set, nil
}

func decompress(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if !bytes.Equal(head, gzipMagic) {
		return br, nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("invalid gzip word list: %w", err)
	}
	return zr, nil
}

type embeddedSource struct{}

// Embedded returns the word list compiled into the binary.
func Embedded() Source {
	return embeddedSource{}
}

func (embeddedSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(embeddedWords)), nil
}

func (embeddedSource) Name() string {
	return SourceEmbedded
}

// FileSource reads a word list from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Open(context.Context) (io.ReadCloser, error) {
	if s.Path == "" {
		return nil, fmt.Errorf("%w: file path is empty", ErrInvalidConfig)
	}
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, s.Path)
		}
		return nil, err
	}
	return f, nil
}

func (s FileSource) Name() string {
	return SourceFile + ":" + s.Path
}
