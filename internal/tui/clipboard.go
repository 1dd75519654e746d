package tui

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
)

var errClipboardUnsupported = errors.New("no clipboard utility available")

// copyToClipboard is swapped out in tests.
var copyToClipboard = func(s string) error {
	if clipboard.Unsupported {
		return errClipboardUnsupported
	}
	return clipboard.WriteAll(strings.ReplaceAll(s, "\r\n", "\n"))
}
