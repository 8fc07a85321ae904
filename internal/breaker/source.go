package breaker

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// CompressedExtension marks LZ4-framed files, on input and on output.
const CompressedExtension = ".lz4"

const (
	readBufferSize  = 256 * 1024
	writeBufferSize = 256 * 1024
	defaultFileMode = 0o644
)

type source struct {
	io.Reader

	file *os.File
}

func (s *source) Close() error {
	return s.file.Close()
}

// openSource opens path for reading, transparently decoding an LZ4 frame
// when the name ends in [CompressedExtension].
func openSource(path string) (*source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioErr("open", path, err)
	}

	var r io.Reader = f
	if strings.HasSuffix(path, CompressedExtension) {
		r = lz4.NewReader(f)
	}

	return &source{Reader: r, file: f}, nil
}

// eachLine calls fn with every line of r, terminator included. The slice
// passed to fn is only valid until fn returns. Read failures are reported
// as [IOError] against path; errors returned by fn are passed through.
func eachLine(r io.Reader, path string, fn func(line []byte) error) error {
	br := bufio.NewReaderSize(r, readBufferSize)

	var long []byte

	for {
		chunk, err := br.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			long = append(long, chunk...)

			continue
		}

		line := chunk
		if len(long) > 0 {
			long = append(long, chunk...)
			line = long
		}

		if len(line) > 0 {
			fnErr := fn(line)
			if fnErr != nil {
				return fnErr
			}
		}

		long = long[:0]

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return ioErr("read", path, err)
		}
	}
}

// sink is a buffered, optionally compressed output file.
type sink struct {
	path string
	file *os.File
	zw   *lz4.Writer
	buf  *bufio.Writer
}

func createSink(path string, opts Options) (*sink, error) {
	mode := opts.FileMode
	if mode == 0 {
		mode = defaultFileMode
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return nil, ioErr("create", path, err)
	}

	s := &sink{path: path, file: f}

	var w io.Writer = f
	if opts.Compress {
		s.zw = lz4.NewWriter(f)
		w = s.zw
	}

	s.buf = bufio.NewWriterSize(w, writeBufferSize)

	return s, nil
}

func (s *sink) Write(p []byte) (int, error) {
	n, err := s.buf.Write(p)
	if err != nil {
		return n, ioErr("write", s.path, err)
	}

	return n, nil
}

// Close flushes buffered data, finishes the LZ4 frame and closes the file.
func (s *sink) Close() error {
	errs := []error{s.buf.Flush()}

	if s.zw != nil {
		errs = append(errs, s.zw.Close())
	}

	errs = append(errs, s.file.Close())

	return ioErr("close", s.path, errors.Join(errs...))
}
