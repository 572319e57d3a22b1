// Package ingest turns user-selected files into parsed datasets.
//
// A batch of [RawFile] values is processed by a [Pipeline]: ZIP archives are
// expanded through an explicit worklist, TXT payloads lose their fixed
// metadata preamble, and every CSV payload is decoded, normalized and parsed.
// Each file yields exactly one [Result]; a failure is terminal for that file
// only and never aborts its siblings.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/JonMunkholm/wellchart/internal/dataset"
)

// DefaultMaxFileSize caps a single file or archive member (100MB).
const DefaultMaxFileSize = 100 * 1024 * 1024

// DefaultMaxArchiveDepth caps ZIP-in-ZIP nesting.
const DefaultMaxArchiveDepth = 8

var txtSuffix = regexp.MustCompile(`(?i)\.txt$`)

// RawFile is one acquired file: its base name and raw bytes.
type RawFile struct {
	Name string
	Data []byte
}

// Kind classifies a file by extension.
type Kind int

const (
	KindUnsupported Kind = iota
	KindCSV
	KindTXT
	KindZIP
)

// KindOf classifies name by its extension, ignoring case.
func KindOf(name string) Kind {
	switch strings.ToLower(path.Ext(name)) {
	case ".csv":
		return KindCSV
	case ".txt":
		return KindTXT
	case ".zip":
		return KindZIP
	default:
		return KindUnsupported
	}
}

// Result is the outcome for one file or archive member.
type Result struct {
	// Source is the path the file was found at, e.g. "job.zip/day1.zip/data.csv".
	Source string
	// Name is the registry name after TXT renaming and archive naming policy.
	Name     string
	Dataset  *dataset.Dataset
	Encoding Encoding
	Kept     int
	Dropped  int
	Err      error
}

// Options configures a Pipeline.
type Options struct {
	MaxFileSize     int64
	MaxArchiveDepth int

	// Known reports whether a registry name is already taken. Known files are
	// not parsed again and yield dataset.ErrDuplicateFile.
	Known func(name string) bool

	Logger *slog.Logger
}

// Pipeline processes batches of files.
type Pipeline struct {
	opts Options
	l    *slog.Logger
}

// New creates a Pipeline, applying defaults for zero options.
func New(opts Options) *Pipeline {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.MaxArchiveDepth <= 0 {
		opts.MaxArchiveDepth = DefaultMaxArchiveDepth
	}
	l := opts.Logger
	if l == nil {
		l = slog.Default()
	}
	return &Pipeline{
		opts: opts,
		l:    l.With(slog.String("module", "ingest")),
	}
}

// item is one pending unit of work on the worklist.
type item struct {
	name      string // file or member name
	source    string // display path
	container string // naming hint: the archive this came from, if any
	depth     int    // archive nesting level of the item itself
	kind      Kind
	read      func() ([]byte, error)
}

// Run processes files in order and calls emit once per file or archive
// member, in depth-first enumeration order. emit is called before the next
// item is read, so a registry updated inside emit is visible to Known for
// the rest of the batch. Run stops early only when ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context, files []RawFile, emit func(Result)) error {
	stack := make([]item, 0, len(files))
	for i := len(files) - 1; i >= 0; i-- {
		f := files[i]
		stack = append(stack, item{
			name:   f.Name,
			source: f.Name,
			kind:   KindOf(f.Name),
			read:   func() ([]byte, error) { return f.Data, nil },
		})
	}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("ingest cancelled: %w", err)
		}

		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch it.kind {
		case KindZIP:
			children, err := p.expand(it)
			if err != nil {
				p.l.Error("archive failed", slog.String("source", it.source), slog.Any("error", err))
				emit(Result{Source: it.source, Name: it.name, Err: err})
				continue
			}
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
		case KindCSV, KindTXT:
			emit(p.handleTabular(it))
		default:
			p.l.Warn("unsupported file type", slog.String("source", it.source))
			emit(Result{
				Source: it.source,
				Name:   it.name,
				Err:    fmt.Errorf("%w: %s", ErrUnsupportedExtension, path.Ext(it.name)),
			})
		}
	}

	return nil
}

// handleTabular decodes, normalizes and parses one CSV or TXT payload.
func (p *Pipeline) handleTabular(it item) Result {
	fileName := it.name
	if it.kind == KindTXT {
		fileName = txtSuffix.ReplaceAllString(fileName, ".csv")
	}
	name := dataset.RegistryName(fileName, it.container)
	res := Result{Source: it.source, Name: name}

	if p.opts.Known != nil && p.opts.Known(name) {
		res.Err = fmt.Errorf("%w: %s", dataset.ErrDuplicateFile, name)
		return res
	}

	data, err := it.read()
	if err != nil {
		res.Err = err
		return res
	}
	if int64(len(data)) > p.opts.MaxFileSize {
		res.Err = fmt.Errorf("%w: %s", ErrFileTooLarge, it.source)
		return res
	}

	text, enc := Decode(data)
	res.Encoding = enc
	if it.kind == KindTXT {
		text = StripTxtPreamble(text)
	}

	norm, err := Normalize(text)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", it.source, err)
		return res
	}
	res.Kept, res.Dropped = norm.Kept, norm.Dropped

	ds, err := Parse(name, norm)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", it.source, err)
		return res
	}
	res.Dataset = ds

	p.l.Debug("file parsed",
		slog.String("source", it.source),
		slog.String("name", name),
		slog.String("encoding", string(enc)),
		slog.Int("rows", ds.Len()),
		slog.Int("dropped", norm.Dropped),
	)
	return res
}
