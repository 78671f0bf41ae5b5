package utils

import (
	"io/fs"
	"math"
	"math/big"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

// FolderSize returns the summed size of all regular files below the directory.
func FolderSize(dir string) (int64, error) {

	var size int64

	err := filepath.WalkDir(dir, func(_ string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}
		size += info.Size()
		return nil
	})

	return size, err
}

// FormatAmount renders a token amount with thousands separators.
func FormatAmount(amount uint64) string {
	if amount > math.MaxInt64 {
		return humanize.BigComma(new(big.Int).SetUint64(amount))
	}
	return humanize.Comma(int64(amount))
}
