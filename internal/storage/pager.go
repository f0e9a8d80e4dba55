package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/tuannm99/stbdb/internal/metrics"
)

// Pager owns the database file and an in-memory copy of every page touched
// since it was opened. Pages are read lazily and written back only through
// Flush; nothing else in the process writes to the file.
type Pager struct {
	mu sync.Mutex

	file       *os.File
	path       string
	fileLength int64
	pageSize   int
	maxPages   int
	pages      []*Page // len == maxPages, nil == not loaded yet
	closed     bool

	log     *zap.Logger
	metrics *metrics.Metrics
}

type Option func(*Pager)

func WithLogger(l *zap.Logger) Option {
	return func(p *Pager) {
		if l != nil {
			p.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pager) { p.metrics = m }
}

// Open opens or creates the database file at path. No page is read.
func Open(path string, pageSize, maxPages int, opts ...Option) (*Pager, error) {
	if pageSize <= 0 || maxPages <= 0 {
		return nil, fmt.Errorf("%w: page size %d, max pages %d", ErrInvalidPageSize, pageSize, maxPages)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, FileMode0644)
	if err != nil {
		return nil, fmt.Errorf("%w: open database file: %w", ErrStorageIO, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w: stat database file: %w", ErrStorageIO, err)
	}

	p := &Pager{
		file:       file,
		path:       path,
		fileLength: info.Size(),
		pageSize:   pageSize,
		maxPages:   maxPages,
		pages:      make([]*Page, maxPages),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.fileLength > int64(pageSize)*int64(maxPages) {
		_ = file.Close()
		return nil, fmt.Errorf("%w: %d bytes exceeds %d pages of %d bytes",
			ErrCorruptFile, p.fileLength, maxPages, pageSize)
	}

	p.log.Debug("pager: opened",
		zap.String("path", path),
		zap.Int64("file_length", p.fileLength),
		zap.Int("page_size", pageSize),
		zap.Int("max_pages", maxPages),
	)
	return p, nil
}

// GetPage returns the cached page, reading it from disk on first use.
// Bytes beyond the current end of file are zero.
func (p *Pager) GetPage(pageNum int) (*Page, error) {
	if pageNum < 0 || pageNum >= p.maxPages {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrPageOutOfBounds, pageNum, p.maxPages)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPagerClosed
	}
	if pg := p.pages[pageNum]; pg != nil {
		return pg, nil
	}

	pg := &Page{id: uint32(pageNum), Buf: make([]byte, p.pageSize)}

	offset := int64(pageNum) * int64(p.pageSize)
	if offset < p.fileLength {
		n, err := p.file.ReadAt(pg.Buf, offset)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: read page %d: %w", ErrStorageIO, pageNum, err)
		}
		p.log.Debug("pager: loaded page", zap.Int("page", pageNum), zap.Int("bytes", n))
	}

	p.pages[pageNum] = pg
	p.metrics.PageLoaded()
	return pg, nil
}

// Flush writes the first bytesUsed bytes of a cached page to its file offset.
func (p *Pager) Flush(pageNum, bytesUsed int) error {
	if pageNum < 0 || pageNum >= p.maxPages {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrPageOutOfBounds, pageNum, p.maxPages)
	}
	if bytesUsed < 0 || bytesUsed > p.pageSize {
		return fmt.Errorf("%w: flush %d bytes of a %d byte page", ErrInvalidPageSize, bytesUsed, p.pageSize)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPagerClosed
	}
	pg := p.pages[pageNum]
	if pg == nil {
		return fmt.Errorf("%w: page %d", ErrPageNotCached, pageNum)
	}

	offset := int64(pageNum) * int64(p.pageSize)
	n, err := p.file.WriteAt(pg.Buf[:bytesUsed], offset)
	if err != nil {
		return fmt.Errorf("%w: write page %d: %w", ErrStorageIO, pageNum, err)
	}
	if n != bytesUsed {
		return fmt.Errorf("%w: write page %d: %w", ErrStorageIO, pageNum, io.ErrShortWrite)
	}
	if end := offset + int64(n); end > p.fileLength {
		p.fileLength = end
	}

	p.log.Debug("pager: flushed page", zap.Int("page", pageNum), zap.Int("bytes", n))
	p.metrics.PageFlushed(n)
	return nil
}

// CachedPages lists the loaded page numbers in ascending order.
func (p *Pager) CachedPages() []int {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []int
	for i, pg := range p.pages {
		if pg != nil {
			out = append(out, i)
		}
	}
	return out
}

// Close syncs and closes the file and drops the cache. Calling it again is a no-op.
func (p *Pager) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	clear(p.pages)

	if err := p.file.Sync(); err != nil {
		_ = p.file.Close()
		return fmt.Errorf("%w: sync database file: %w", ErrStorageIO, err)
	}
	if err := p.file.Close(); err != nil {
		return fmt.Errorf("%w: close database file: %w", ErrStorageIO, err)
	}

	p.log.Debug("pager: closed", zap.String("path", p.path), zap.Int64("file_length", p.fileLength))
	return nil
}

// FileLength is the file size at open, grown by later flushes.
func (p *Pager) FileLength() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fileLength
}

func (p *Pager) PageSize() int { return p.pageSize }

func (p *Pager) MaxPages() int { return p.maxPages }

func (p *Pager) Path() string { return p.path }
