package infrastructure

import (
	"fmt"
	"os/exec"
	"strings"
)

// SystemClipboard copies text through whichever platform clipboard tool is
// installed. Probing mirrors how optional tooling is discovered elsewhere:
// try candidates in order, use the first that works.
type SystemClipboard struct{}

func NewSystemClipboard() *SystemClipboard { return &SystemClipboard{} }

var clipboardCommands = [][]string{
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
	{"pbcopy"},
}

func (c *SystemClipboard) Write(text string) error {
	var lastErr error
	for _, cmd := range clipboardCommands {
		if _, err := exec.LookPath(cmd[0]); err != nil {
			continue
		}
		command := exec.Command(cmd[0], cmd[1:]...)
		command.Stdin = strings.NewReader(text)
		if err := command.Run(); err != nil {
			lastErr = fmt.Errorf("%s: %w", cmd[0], err)
			continue
		}
		return nil
	}
	if lastErr != nil {
		return lastErr
	}
	return fmt.Errorf("no clipboard tool available")
}
