package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	binaryName = "smartmcq"
	// maxAssetSize caps a downloaded archive.
	maxAssetSize = 200 << 20
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
)

// UpdateInput selects the running version and, optionally, a target tag.
// An empty TargetVersion means the latest release.
type UpdateInput struct {
	CurrentVersion string
	TargetVersion  string
}

// Stage names a step of Update.
type Stage string

const (
	StageCheck    Stage = "check"
	StageDownload Stage = "download"
	StageVerify   Stage = "verify"
	StageExtract  Stage = "extract"
	StageApply    Stage = "apply"
	StageDone     Stage = "done"
)

type UpdateProgress struct {
	Stage   Stage
	Message string
}

// platformAsset is the release archive built for one OS and architecture.
type platformAsset struct {
	name string
	zip  bool
}

// binary is the executable's file name inside the archive.
func (a platformAsset) binary() string {
	if a.zip {
		return binaryName + ".exe"
	}
	return binaryName
}

var releaseArch = map[string]string{
	"amd64": "x86_64",
	"arm64": "arm64",
	"386":   "i386",
}

func assetFor(goos, goarch string) (platformAsset, error) {
	if goos == "darwin" {
		return platformAsset{name: binaryName + "_Darwin_all.tar.gz"}, nil
	}
	arch, ok := releaseArch[goarch]
	if !ok {
		return platformAsset{}, fmt.Errorf("no release build for architecture %s", goarch)
	}
	switch goos {
	case "linux":
		return platformAsset{name: fmt.Sprintf("%s_Linux_%s.tar.gz", binaryName, arch)}, nil
	case "windows":
		return platformAsset{name: fmt.Sprintf("%s_Windows_%s.zip", binaryName, arch), zip: true}, nil
	}
	return platformAsset{}, fmt.Errorf("no release build for operating system %s", goos)
}

// Update replaces the running executable with the release build for this
// platform. The archive is checked against the release's checksums.txt
// before anything on disk changes.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) error {
	if progress == nil {
		progress = func(UpdateProgress) {}
	}
	if input.CurrentVersion == "" || input.CurrentVersion == "(devel)" || input.CurrentVersion == "dev" {
		return ErrDevBuild
	}

	tag := input.TargetVersion
	if tag == "" {
		progress(UpdateProgress{StageCheck, "Looking for a newer release..."})
		res, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if !res.UpdateAvailable {
			return ErrAlreadyLatest
		}
		tag = res.LatestVersion
	}

	asset, err := assetFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}

	progress(UpdateProgress{StageDownload, fmt.Sprintf("Downloading smartmcq %s...", tag)})
	var archive, sums []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		archive, err = c.fetch(gctx, c.releaseURL(tag, asset.name))
		if err != nil {
			err = fmt.Errorf("download archive: %w", err)
		}
		return err
	})
	g.Go(func() (err error) {
		sums, err = c.fetch(gctx, c.releaseURL(tag, "checksums.txt"))
		if err != nil {
			err = fmt.Errorf("download checksums: %w", err)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	progress(UpdateProgress{StageVerify, "Verifying checksum..."})
	want, ok := parseChecksums(sums)[asset.name]
	if !ok {
		return fmt.Errorf("%w: checksums.txt has no entry for %s", ErrChecksum, asset.name)
	}
	if err := verifyChecksum(archive, want); err != nil {
		return err
	}

	progress(UpdateProgress{StageExtract, "Unpacking..."})
	bin, err := extractBinary(archive, asset)
	if err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	progress(UpdateProgress{StageApply, "Installing..."})
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("locate running executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(target); err == nil {
		target = resolved
	}
	if err := replaceFile(target, bin); err != nil {
		return fmt.Errorf("install update: %w", err)
	}

	progress(UpdateProgress{StageDone, fmt.Sprintf("smartmcq is now %s.", tag)})
	return nil
}

func (c *Checker) releaseURL(tag, file string) string {
	return strings.TrimRight(c.downloadBaseURL, "/") + "/" + path.Join(c.owner, c.repo, "releases/download", tag, file)
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxAssetSize {
		return nil, fmt.Errorf("GET %s: larger than %d bytes", url, maxAssetSize)
	}
	return body, nil
}

// parseChecksums reads "<sha256>  <file>" lines as written by sha256sum.
// A leading '*' on the file name (binary mode) is ignored.
func parseChecksums(data []byte) map[string]string {
	sums := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 {
			continue
		}
		sums[strings.TrimPrefix(fields[1], "*")] = strings.ToLower(fields[0])
	}
	return sums
}

func verifyChecksum(data []byte, want string) error {
	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); got != strings.ToLower(want) {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksum, want, got)
	}
	return nil
}

func extractBinary(archive []byte, asset platformAsset) ([]byte, error) {
	if asset.zip {
		return fromZip(archive, asset.binary())
	}
	return fromTarGz(archive, asset.binary())
}

func fromTarGz(data []byte, name string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s not found in archive", name)
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && path.Base(hdr.Name) == name {
			return io.ReadAll(io.LimitReader(tr, maxAssetSize))
		}
	}
}

func fromZip(data []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || path.Base(f.Name) != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(io.LimitReader(rc, maxAssetSize))
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}

// replaceFile writes data next to target and renames it over target,
// keeping target's permission bits.
func replaceFile(target string, data []byte) error {
	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+binaryName+"-update-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(tmpName, target)
}
