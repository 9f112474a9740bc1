package excelsource

import (
	"errors"

	"github.com/xuri/excelize/v2"
)

// ErrEmptySheet indicates that a sheet contains no data after
// removing empty edge rows and columns. Empty sheets are skipped
// when loading all sheets of a file.
var ErrEmptySheet = errors.New("empty sheet")

// ErrSheetNotExist is re-exported from excelize and indicates that a
// requested sheet name does not exist in the file.
type ErrSheetNotExist = excelize.ErrSheetNotExist
