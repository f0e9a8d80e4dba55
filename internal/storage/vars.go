package storage

import "errors"

const (
	OneB  = 1 << 0  // 1
	OneKB = 1 << 10 // 1,024

	PageSize = 4 * OneKB // 4,096 (default)
	MaxPages = 100       // default page budget of one database file
)

const (
	FileMode0644 = 0o644
	FileMode0755 = 0o755
)

var (
	ErrStorageIO       = errors.New("storage: I/O error")
	ErrCorruptFile     = errors.New("storage: database file is corrupt")
	ErrPageOutOfBounds = errors.New("storage: page number out of bounds")
	ErrPageNotCached   = errors.New("storage: flush of a page that was never loaded")
	ErrInvalidPageSize = errors.New("storage: invalid page size")
	ErrPagerClosed     = errors.New("storage: pager is closed")
)
