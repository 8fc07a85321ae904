package breaker

import (
	"fmt"
	"io"
	"os"
)

// chunkSuffixFormat renders the chunk number appended to the destination base.
const chunkSuffixFormat = "%s__%03d%s"

// Options control how chunk files are named and encoded.
type Options struct {
	// Extension is appended to every output name, after the chunk suffix.
	Extension string
	// Compress writes each output as an LZ4 frame and appends [CompressedExtension].
	Compress bool
	// FileMode is the permission of created files; zero means 0644.
	FileMode os.FileMode
}

// Option configures [Options].
type Option func(*Options)

// WithExtension sets [Options.Extension].
func WithExtension(ext string) Option {
	return func(o *Options) { o.Extension = ext }
}

// WithCompression sets [Options.Compress].
func WithCompression(enabled bool) Option {
	return func(o *Options) { o.Compress = enabled }
}

// WithFileMode sets [Options.FileMode].
func WithFileMode(mode os.FileMode) Option {
	return func(o *Options) { o.FileMode = mode }
}

func buildOptions(opts []Option) Options {
	var o Options

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// ChunkPath returns the output path of chunk n (1-based). Chunk 0 names the
// single output of a file that was not split.
func ChunkPath(base string, n int, opts Options) string {
	path := base + opts.Extension
	if n > 0 {
		path = fmt.Sprintf(chunkSuffixFormat, base, n, opts.Extension)
	}

	if opts.Compress {
		path += CompressedExtension
	}

	return path
}

// WriteChunks streams input into len(breakpoints)+1 chunk files named after
// base and returns their paths in chunk order. With no breakpoints the input
// is copied unchanged to the unsuffixed name. Files written before a failure
// are left in place.
func WriteChunks(input, base string, breakpoints []int, opts Options) ([]string, error) {
	err := validateBreakpoints(breakpoints)
	if err != nil {
		return nil, err
	}

	if len(breakpoints) == 0 {
		return copyWhole(input, ChunkPath(base, 0, opts), opts)
	}

	src, err := openSource(input)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	chunk := 1
	path := ChunkPath(base, chunk, opts)

	out, err := createSink(path, opts)
	if err != nil {
		return nil, err
	}

	outputs := []string{path}
	next := 0
	line := 0

	err = eachLine(src, input, func(b []byte) error {
		line++

		_, writeErr := out.Write(b)
		if writeErr != nil {
			return writeErr
		}

		if next >= len(breakpoints) || line != breakpoints[next] {
			return nil
		}

		closeErr := out.Close()
		out = nil

		if closeErr != nil {
			return closeErr
		}

		next++
		chunk++
		path = ChunkPath(base, chunk, opts)

		out, writeErr = createSink(path, opts)
		if writeErr != nil {
			return writeErr
		}

		outputs = append(outputs, path)

		return nil
	})

	if out != nil {
		closeErr := out.Close()
		if err == nil {
			err = closeErr
		}
	}

	if err != nil {
		return outputs, err
	}

	if next < len(breakpoints) {
		return outputs, fmt.Errorf("%w: %s ended at line %d before breakpoint %d",
			ErrInvalidBreakpoints, input, line, breakpoints[next])
	}

	return outputs, nil
}

func copyWhole(input, dest string, opts Options) ([]string, error) {
	src, err := openSource(input)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	out, err := createSink(dest, opts)
	if err != nil {
		return nil, err
	}

	_, copyErr := io.Copy(out, src)
	if copyErr != nil {
		_ = out.Close()

		return []string{dest}, ioErr("copy", input, copyErr)
	}

	err = out.Close()
	if err != nil {
		return []string{dest}, err
	}

	return []string{dest}, nil
}

func validateBreakpoints(breakpoints []int) error {
	previous := 0

	for _, bp := range breakpoints {
		if bp <= previous {
			return fmt.Errorf("%w: %d follows %d", ErrInvalidBreakpoints, bp, previous)
		}

		previous = bp
	}

	return nil
}
