package kernel

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/purduesigbots/pros-cli/internal/branding"
	"github.com/purduesigbots/pros-cli/internal/config"
	"github.com/purduesigbots/pros-cli/internal/platform"
)

// Cache is a directory-backed store of kernels: <root>/<id>/ holds the full
// template tree for kernel id. An existing entry is assumed complete.
type Cache struct {
	root string
}

// NewCache returns a Cache rooted at root. The directory is not created
// until Ensure or Materialize is called.
func NewCache(root string) *Cache {
	return &Cache{root: root}
}

// DefaultRoot returns the kernel cache location. It checks PROS_KERNELS,
// then the kernel_dir config key, then falls back to ~/pros/kernels on
// POSIX systems and %ProgramData%\PROS\kernels on Windows.
func DefaultRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("KERNELS")); v != "" {
		return v, nil
	}
	if v := config.Get(config.KeyKernelDir); v != "" {
		return v, nil
	}
	dataDir, err := platform.SharedDataDir(branding.DisplayName(), branding.CLIName())
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, branding.KernelDirName()), nil
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

// Dir returns the directory kernel id is (or would be) stored in.
func (c *Cache) Dir(id string) string {
	return filepath.Join(c.root, id)
}

// Ensure creates the cache root if it does not exist. It reports whether
// the directory was already present.
func (c *Cache) Ensure() (existed bool, err error) {
	if info, err := os.Stat(c.root); err == nil && info.IsDir() {
		return true, nil
	}
	if err := os.MkdirAll(c.root, 0755); err != nil {
		return false, fmt.Errorf("creating kernel cache %s: %w", c.root, err)
	}
	return false, nil
}

// Exists reports whether <root>/<id>/ is present.
func (c *Cache) Exists(id string) bool {
	if ValidateID(id) != nil {
		return false
	}
	info, err := os.Stat(c.Dir(id))
	return err == nil && info.IsDir()
}

// List returns the names of the immediate subdirectories of the cache root
// in ascending order. A missing root yields an empty list.
func (c *Cache) List() ([]string, error) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading kernel cache %s: %w", c.root, err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			ids = append(ids, entry.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Latest returns the lexicographically greatest cached identifier.
// Directories whose names are not valid identifiers are ignored. The
// boolean is false when no identifier is cached.
func (c *Cache) Latest() (string, bool, error) {
	all, err := c.List()
	if err != nil {
		return "", false, err
	}
	ids, _ := ValidIDs(all)
	if len(ids) == 0 {
		return "", false, nil
	}
	return ids[len(ids)-1], true, nil
}

// Materialize writes archive to a temporary file, decodes it as a zip and
// extracts every entry into <root>/<id>/, creating intermediate directories.
// Existing files are overwritten. Extraction is not atomic: a failure part
// way through leaves the entries written so far in place.
func (c *Cache) Materialize(id string, archive []byte) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if _, err := c.Ensure(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", "kernel-*.zip")
	if err != nil {
		return fmt.Errorf("creating temporary archive: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(archive); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temporary archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing temporary archive: %w", err)
	}

	return extractZip(tmpPath, c.Dir(id))
}

func extractZip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		if r != nil {
			r.Close()
		}
		if errors.Is(err, zip.ErrInsecurePath) {
			return fmt.Errorf("%w: %v", ErrUnsafeArchivePath, err)
		}
		return fmt.Errorf("opening zip archive: %w", err)
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("creating kernel directory: %w", err)
	}

	for _, f := range r.File {
		if err := extractEntry(f, destDir); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(f *zip.File, destDir string) error {
	destPath, err := entryPath(destDir, f.Name)
	if err != nil {
		return err
	}

	if f.FileInfo().IsDir() {
		if err := os.MkdirAll(destPath, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", f.Name, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening zip entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", f.Name, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("extracting %s: %w", f.Name, err)
	}

	// Only the executable bit is carried over; archives built on Windows
	// report every file as 0666.
	if platform.IsExecutable(f.Mode()) {
		_ = platform.Chmod(destPath, platform.ExecutableMode)
	}
	return nil
}

// entryPath joins an archive entry name onto destDir, rejecting names that
// would land outside it.
func entryPath(destDir, name string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%w: %s", ErrUnsafeArchivePath, name)
	}
	destPath := filepath.Join(destDir, filepath.FromSlash(name))
	rel, err := filepath.Rel(destDir, destPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafeArchivePath, name)
	}
	return destPath, nil
}

// NormalizeID trims surrounding whitespace from a kernel identifier.
func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}

// ValidateID checks that id can name a cache directory.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidID)
	}
	if id == "." || id == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	for _, r := range id {
		if unicode.IsSpace(r) || r == '/' || r == '\\' {
			return fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
	}
	return nil
}

// ValidIDs splits ids into the names ValidateID accepts and those it
// rejects, keeping their order.
func ValidIDs(ids []string) (valid, invalid []string) {
	for _, id := range ids {
		if ValidateID(id) == nil {
			valid = append(valid, id)
		} else {
			invalid = append(invalid, id)
		}
	}
	return valid, invalid
}
