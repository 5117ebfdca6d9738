// Package shared collects small filesystem helpers used by the
// keyring/config lifecycle.
package shared

import "os"

// PathExists returns whether the given path exists on disk.
func PathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
