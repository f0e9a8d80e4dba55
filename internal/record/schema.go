package record

type ColumnType uint8

const (
	ColText    ColumnType = iota + 1 // zero padded bytes, Size is the max length
	ColFloat32                       // IEEE-754 bits, little endian
)

type Column struct {
	Name string
	Type ColumnType
	Size int // bytes reserved in the row slot
}

type Schema struct {
	Cols []Column
}

func (s Schema) NumCols() int { return len(s.Cols) }

// Offset is the byte offset of column i inside a row slot.
func (s Schema) Offset(i int) int {
	off := 0
	for _, c := range s.Cols[:i] {
		off += c.Size
	}
	return off
}

// RowSize is the fixed size of one encoded row.
func (s Schema) RowSize() int {
	return s.Offset(len(s.Cols))
}

// Column indexes of RowSchema.
const (
	ColStb = iota
	ColTitle
	ColProvider
	ColDate
	ColRev
	ColTime
)

const (
	StbMaxLen      = 32
	TitleMaxLen    = 255
	ProviderMaxLen = 255
	DateMaxLen     = 10
	TimeMaxLen     = 4
	revSize        = 4
)

// RowSchema is the one table layout: stb, title, provider, date, rev, time.
var RowSchema = Schema{
	Cols: []Column{
		{Name: "stb", Type: ColText, Size: StbMaxLen},
		{Name: "title", Type: ColText, Size: TitleMaxLen},
		{Name: "provider", Type: ColText, Size: ProviderMaxLen},
		{Name: "date", Type: ColText, Size: DateMaxLen},
		{Name: "rev", Type: ColFloat32, Size: revSize},
		{Name: "time", Type: ColText, Size: TimeMaxLen},
	},
}

// RowSize = 32 + 255 + 255 + 10 + 4 + 4 = 560.
var RowSize = RowSchema.RowSize()
