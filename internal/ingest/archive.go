package ingest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log/slog"
)

// expand opens an archive and returns its recognized members as work items
// in enumeration order. Members are read lazily when popped.
func (p *Pipeline) expand(it item) ([]item, error) {
	if it.depth >= p.opts.MaxArchiveDepth {
		return nil, fmt.Errorf("%w: %s exceeds %d levels", ErrArchiveTooDeep, it.source, p.opts.MaxArchiveDepth)
	}

	data, err := it.read()
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > p.opts.MaxFileSize {
		return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, it.source)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrArchiveRead, it.source, err)
	}

	var children []item
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		kind := KindOf(zf.Name)
		if kind == KindUnsupported {
			p.l.Debug("ignoring archive member", slog.String("archive", it.source), slog.String("member", zf.Name))
			continue
		}

		child := item{
			name:   zf.Name,
			source: it.source + "/" + zf.Name,
			depth:  it.depth + 1,
			kind:   kind,
			read:   p.memberReader(zf),
		}
		// Only CSV members are attributed to their archive; each archive
		// hints its own children, so the hint never chains past one level.
		if kind == KindCSV {
			child.container = it.name
		}
		children = append(children, child)
	}

	p.l.Debug("archive expanded",
		slog.String("source", it.source),
		slog.Int("members", len(children)),
	)
	return children, nil
}

// memberReader reads one archive member, bounded by MaxFileSize.
func (p *Pipeline) memberReader(zf *zip.File) func() ([]byte, error) {
	return func() ([]byte, error) {
		if zf.UncompressedSize64 > uint64(p.opts.MaxFileSize) {
			return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, zf.Name)
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrArchiveRead, zf.Name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(io.LimitReader(rc, p.opts.MaxFileSize+1))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrArchiveRead, zf.Name, err)
		}
		if int64(len(data)) > p.opts.MaxFileSize {
			return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, zf.Name)
		}
		return data, nil
	}
}
