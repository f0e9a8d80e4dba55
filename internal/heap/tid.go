package heap

// TID (Tuple ID) locates a row slot:
// PageID: page number inside the database file
// Slot  : slot index inside that page
type TID struct {
	PageID uint32
	Slot   uint16
}

// Offset is the byte offset of the slot inside its page.
func (id TID) Offset(rowSize int) int {
	return int(id.Slot) * rowSize
}
