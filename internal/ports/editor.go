package ports

import "os/exec"

// EditorOpener builds the command that opens a note in an external editor
type EditorOpener interface {
	// Command returns an exec.Cmd for opening path, suitable for
	// bubbletea's ExecProcess
	Command(path string) (*exec.Cmd, error)
}

// VaultOpener opens a note in a notes application such as Obsidian
type VaultOpener interface {
	OpenNote(path string) error
}
