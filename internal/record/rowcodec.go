package record

import (
	"errors"
	"fmt"

	"github.com/tuannm99/stbdb/internal/alias/bx"
)

var ErrBadBuffer = errors.New("rowcodec: buffer shorter than a row slot")

// ---- EncodeRow(row, dst) ----
// Layout (RowSchema order, fixed offsets, no header):
// [stb 32][title 255][provider 255][date 10][rev f32 LE][time 4]
// Text is copied as-is and zero padded to the column size.
func EncodeRow(r Row, dst []byte) error {
	if len(dst) < RowSize {
		return fmt.Errorf("%w: %d < %d", ErrBadBuffer, len(dst), RowSize)
	}
	if err := r.validateText(); err != nil {
		return err
	}

	for _, f := range r.text() {
		col := RowSchema.Cols[f.col]
		bx.PutStrAt(dst, RowSchema.Offset(f.col), col.Size, f.val)
	}
	bx.PutF32At(dst, RowSchema.Offset(ColRev), r.Rev)
	return nil
}

// ---- DecodeRow(src) -> Row ----
// Text columns end at the first zero byte or at the column size.
func DecodeRow(src []byte) (Row, error) {
	if len(src) < RowSize {
		return Row{}, fmt.Errorf("%w: %d < %d", ErrBadBuffer, len(src), RowSize)
	}

	str := func(col int) string {
		return bx.StrAt(src, RowSchema.Offset(col), RowSchema.Cols[col].Size)
	}

	return Row{
		Stb:      str(ColStb),
		Title:    str(ColTitle),
		Provider: str(ColProvider),
		Date:     str(ColDate),
		Rev:      bx.F32At(src, RowSchema.Offset(ColRev)),
		Time:     str(ColTime),
	}, nil
}
