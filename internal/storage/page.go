package storage

import "fmt"

// Page is one cached page of the database file. Buf always has the pager's
// page size; bytes past the end of the file read as zero.
type Page struct {
	id  uint32
	Buf []byte
}

func (p *Page) PageID() uint32 { return p.id }

// Slot returns the size-byte window at off. The window aliases Buf.
func (p *Page) Slot(off, size int) ([]byte, error) {
	if off < 0 || size < 0 || off+size > len(p.Buf) {
		return nil, fmt.Errorf("page %d: slot [%d,%d) outside %d bytes", p.id, off, off+size, len(p.Buf))
	}
	return p.Buf[off : off+size], nil
}
