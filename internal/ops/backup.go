// Package ops implements the planner's backup tooling: a tar.gz snapshot of
// the data directory carrying an embedded manifest, and a restore that
// verifies every extracted file against it.
package ops

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// ManifestName is the reserved archive entry holding the backup manifest.
// It is never extracted to disk on restore.
const ManifestName = "planner-manifest.json"

// Manifest describes the contents of a backup archive.
type Manifest struct {
	CreatedAt string          `json:"createdAt"`
	Files     []ManifestEntry `json:"files"`
}

// ManifestEntry pins one regular file by path, size and content digest.
type ManifestEntry struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

// BackupDataDir archives srcDir into a gzip'd tarball at archivePath,
// appending a manifest entry that records the digest of every file taken.
// Symlinks are skipped so restores stay predictable.
func BackupDataDir(srcDir, archivePath string) error {
	srcDir = filepath.Clean(strings.TrimSpace(srcDir))
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	if srcDir == "" || archivePath == "" {
		return fmt.Errorf("srcDir and archivePath are required")
	}
	info, err := os.Stat(srcDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("source is not a directory: %s", srcDir)
	}
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()

	tw := tar.NewWriter(gz)
	defer tw.Close()

	man := Manifest{CreatedAt: time.Now().UTC().Format(time.RFC3339)}

	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == srcDir {
			return nil
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == ManifestName {
			return fmt.Errorf("data dir contains reserved file name %s", ManifestName)
		}

		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = rel
		if info.IsDir() && !strings.HasSuffix(hdr.Name, "/") {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		h := sha256.New()
		n, err := io.Copy(io.MultiWriter(tw, h), src)
		if err != nil {
			return err
		}
		man.Files = append(man.Files, ManifestEntry{
			Path:   rel,
			Size:   n,
			SHA256: hex.EncodeToString(h.Sum(nil)),
		})
		return nil
	})
	if err != nil {
		return err
	}

	return writeManifest(tw, man)
}

func writeManifest(tw *tar.Writer, man Manifest) error {
	b, err := json.MarshalIndent(man, "", "  ")
	if err != nil {
		return err
	}
	hdr := &tar.Header{
		Name:     ManifestName,
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(len(b)),
		ModTime:  time.Now().UTC(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = tw.Write(b)
	return err
}

// sanitizeArchiveRelPath validates an archive entry name, rejecting absolute
// paths and path traversal so a restore can never write outside targetDir.
func sanitizeArchiveRelPath(name string) (string, error) {
	cleaned := path.Clean(filepath.ToSlash(strings.TrimSpace(name)))
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("archive entry has empty name")
	}
	if path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("unsafe path in archive: %s", name)
	}
	return cleaned, nil
}

// RestoreDataDir unpacks a backup archive into targetDir and checks every
// extracted file against the archive's manifest. A missing manifest, a file
// the manifest does not list, or a digest mismatch all fail the restore:
// a planner database restored from a damaged backup is worse than no restore.
func RestoreDataDir(archivePath, targetDir string) error {
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	targetDir = filepath.Clean(strings.TrimSpace(targetDir))
	if archivePath == "" || targetDir == "" {
		return fmt.Errorf("archivePath and targetDir are required")
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	var man *Manifest
	extracted := map[string]ManifestEntry{}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		rel, err := sanitizeArchiveRelPath(hdr.Name)
		if err != nil {
			return err
		}

		if rel == ManifestName {
			var m Manifest
			if err := json.NewDecoder(tr).Decode(&m); err != nil {
				return fmt.Errorf("decode manifest: %w", err)
			}
			man = &m
			continue
		}

		outPath := filepath.Join(targetDir, rel)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(outPath, os.FileMode(hdr.Mode)); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return err
			}
			dst, err := os.OpenFile(outPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode))
			if err != nil {
				return err
			}
			h := sha256.New()
			n, err := io.Copy(io.MultiWriter(dst, h), tr)
			if err != nil {
				_ = dst.Close()
				return err
			}
			if err := dst.Close(); err != nil {
				return err
			}
			extracted[filepath.ToSlash(rel)] = ManifestEntry{
				Path:   filepath.ToSlash(rel),
				Size:   n,
				SHA256: hex.EncodeToString(h.Sum(nil)),
			}
		default:
			// Ignore unsupported entry types.
		}
	}

	if man == nil {
		return fmt.Errorf("archive has no %s", ManifestName)
	}
	return verifyExtracted(*man, extracted)
}

func verifyExtracted(man Manifest, extracted map[string]ManifestEntry) error {
	listed := map[string]ManifestEntry{}
	for _, e := range man.Files {
		listed[e.Path] = e
	}

	for path, want := range listed {
		got, ok := extracted[path]
		if !ok {
			return fmt.Errorf("manifest lists %s but archive does not contain it", path)
		}
		if got.Size != want.Size || got.SHA256 != want.SHA256 {
			return fmt.Errorf("digest mismatch for %s", path)
		}
	}
	for path := range extracted {
		if _, ok := listed[path]; !ok {
			return fmt.Errorf("archive contains %s which the manifest does not list", path)
		}
	}
	return nil
}

// ReadManifest returns the manifest embedded in a backup archive without
// extracting anything.
func ReadManifest(archivePath string) (Manifest, error) {
	f, err := os.Open(filepath.Clean(strings.TrimSpace(archivePath)))
	if err != nil {
		return Manifest{}, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return Manifest{}, err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Manifest{}, err
		}
		if filepath.ToSlash(strings.TrimSpace(hdr.Name)) != ManifestName {
			continue
		}
		var m Manifest
		if err := json.NewDecoder(tr).Decode(&m); err != nil {
			return Manifest{}, fmt.Errorf("decode manifest: %w", err)
		}
		return m, nil
	}
	return Manifest{}, fmt.Errorf("archive has no %s", ManifestName)
}
