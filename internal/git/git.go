package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Exposure describes how visible a file is to git
type Exposure struct {
	Path    string
	IsRepo  bool
	Tracked bool
	Ignored bool
}

// Exposed reports whether the file could end up in a commit
func (e Exposure) Exposed() bool {
	return e.IsRepo && (e.Tracked || !e.Ignored)
}

// IsGitRepo checks if the working directory is inside a git repository
func IsGitRepo(workDir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	err := cmd.Run()
	return err == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(workDir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()

	if err != nil {
		return false
	}

	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(workDir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir
	err := cmd.Run()

	// exit code 0 means ignored
	return err == nil
}

// CheckExposure inspects the git status of a plaintext file
func CheckExposure(path string) Exposure {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	dir, name := filepath.Split(absPath)

	exposure := Exposure{Path: absPath}
	if !IsGitRepo(dir) {
		return exposure
	}

	exposure.IsRepo = true
	exposure.Tracked = IsTracked(dir, name)
	exposure.Ignored = IsIgnored(dir, name)
	return exposure
}

// FormatExposure renders a warning for an exposed file, or "" if safe
func FormatExposure(e Exposure) string {
	if !e.Exposed() {
		return ""
	}

	if e.Tracked {
		return fmt.Sprintf("%s is tracked by git (run: git rm --cached %s)", e.Path, filepath.Base(e.Path))
	}
	return fmt.Sprintf("%s is inside a git work tree and not in .gitignore", e.Path)
}
