//go:build !unix

package tty

import "os"

func pending(*os.File) bool {
	return false
}
