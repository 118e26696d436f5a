package obsidian

import (
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Opener implements ports.VaultOpener for notes kept inside an Obsidian vault
type Opener struct {
	vaultPath string
	vaultName string
	launch    func(uri string) error
}

// NewOpener creates an opener for the vault at vaultPath. The vault may be
// the notes root itself or any directory above it.
func NewOpener(vaultPath string) *Opener {
	return &Opener{
		vaultPath: vaultPath,
		vaultName: filepath.Base(vaultPath),
		launch:    launchURI,
	}
}

// OpenNote opens a note file in Obsidian
func (o *Opener) OpenNote(notePath string) error {
	uri, err := o.URI(notePath)
	if err != nil {
		return err
	}
	if err := o.launch(uri); err != nil {
		return fmt.Errorf("failed to open %s in Obsidian: %w", filepath.Base(notePath), err)
	}
	return nil
}

// URI returns the obsidian://open link of a note. Obsidian addresses files
// relative to the vault, without the markdown extension being required.
func (o *Opener) URI(notePath string) (string, error) {
	rel, err := filepath.Rel(o.vaultPath, notePath)
	if err != nil {
		return "", fmt.Errorf("failed to get relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("note is outside the vault %s: %s", o.vaultPath, notePath)
	}

	q := url.Values{}
	q.Set("vault", o.vaultName)
	q.Set("file", filepath.ToSlash(rel))
	return "obsidian://open?" + strings.ReplaceAll(q.Encode(), "+", "%20"), nil
}

func launchURI(uri string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", uri)
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", uri)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", uri)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	return cmd.Run()
}
