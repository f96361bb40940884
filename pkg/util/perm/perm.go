package perm

import (
	"fmt"
	"os"
	"runtime"
)

// Check0600 verifies that a key file is -rw------- so the KEK it holds is
// not readable by other users. Windows has no POSIX modes and always passes.
func Check0600(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	if runtime.GOOS == "windows" {
		return nil
	}
	if mode := st.Mode().Perm(); mode != 0o600 {
		return fmt.Errorf("key file %s permissions %o (want 0600)", path, mode)
	}
	return nil
}
