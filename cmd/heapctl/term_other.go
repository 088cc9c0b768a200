//go:build !linux && !darwin && !freebsd

package main

import "os"

func terminalWidth(*os.File) (int, bool) {
	return 0, false
}
