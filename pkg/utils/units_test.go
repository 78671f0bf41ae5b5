package utils_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gohornet/votereward/pkg/utils"
)

func TestFormatAmount(t *testing.T) {
	require.Equal(t, "0", utils.FormatAmount(0))
	require.Equal(t, "1,500", utils.FormatAmount(1500))
	require.Equal(t, "9,223,372,036,854,775,807", utils.FormatAmount(math.MaxInt64))
	require.Equal(t, "18,446,744,073,709,551,615", utils.FormatAmount(math.MaxUint64))
}

func TestFolderSize(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), make([]byte, 100), 0600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b"), make([]byte, 20), 0600))

	size, err := utils.FolderSize(dir)
	require.NoError(t, err)
	require.Equal(t, int64(120), size)

	_, err = utils.FolderSize(filepath.Join(dir, "missing"))
	require.Error(t, err)
}
