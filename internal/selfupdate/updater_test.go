package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetFor(t *testing.T) {
	cases := []struct {
		goos, goarch string
		want         string
		zip          bool
	}{
		{"darwin", "arm64", "smartmcq_Darwin_all.tar.gz", false},
		{"darwin", "amd64", "smartmcq_Darwin_all.tar.gz", false},
		{"linux", "amd64", "smartmcq_Linux_x86_64.tar.gz", false},
		{"linux", "386", "smartmcq_Linux_i386.tar.gz", false},
		{"windows", "arm64", "smartmcq_Windows_arm64.zip", true},
	}
	for _, tc := range cases {
		a, err := assetFor(tc.goos, tc.goarch)
		require.NoError(t, err, tc.goos+"/"+tc.goarch)
		assert.Equal(t, tc.want, a.name)
		assert.Equal(t, tc.zip, a.zip)
	}

	w, _ := assetFor("windows", "amd64")
	assert.Equal(t, "smartmcq.exe", w.binary())

	_, err := assetFor("plan9", "amd64")
	assert.ErrorContains(t, err, "operating system plan9")
	_, err = assetFor("linux", "riscv64")
	assert.ErrorContains(t, err, "architecture riscv64")
}

func TestParseChecksums(t *testing.T) {
	sums := parseChecksums([]byte(strings.Join([]string{
		"ABC123  smartmcq_Linux_x86_64.tar.gz",
		"def456 *smartmcq_Windows_x86_64.zip",
		"",
		"not a checksum line at all",
	}, "\n")))
	assert.Equal(t, map[string]string{
		"smartmcq_Linux_x86_64.tar.gz": "abc123",
		"smartmcq_Windows_x86_64.zip":  "def456",
	}, sums)
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("smartmcq build")
	sum := sha256.Sum256(data)
	good := hex.EncodeToString(sum[:])

	assert.NoError(t, verifyChecksum(data, good))
	assert.NoError(t, verifyChecksum(data, strings.ToUpper(good)))
	assert.ErrorIs(t, verifyChecksum(data, strings.Repeat("0", 64)), ErrChecksum)
}

func TestExtractBinary(t *testing.T) {
	exe := []byte("#!/bin/sh\necho smartmcq")

	got, err := extractBinary(tarGz(t, map[string][]byte{"README.md": []byte("hi"), "smartmcq_1.4.0/smartmcq": exe}), platformAsset{name: "x.tar.gz"})
	require.NoError(t, err)
	assert.Equal(t, exe, got)

	got, err = extractBinary(zipArchive(t, map[string][]byte{"smartmcq.exe": exe}), platformAsset{name: "x.zip", zip: true})
	require.NoError(t, err)
	assert.Equal(t, exe, got)

	_, err = extractBinary(tarGz(t, map[string][]byte{"LICENSE": exe}), platformAsset{name: "x.tar.gz"})
	assert.ErrorContains(t, err, "not found")
}

func TestReplaceFileKeepsMode(t *testing.T) {
	target := filepath.Join(t.TempDir(), "smartmcq")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o755))

	require.NoError(t, replaceFile(target, []byte("new build")))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new build", string(got))
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(target), ".smartmcq-update-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

// releaseHost serves the latest-release endpoint and the assets of tag.
func releaseHost(t *testing.T, tag string, files map[string][]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/abhisek/smartmcq/releases/latest" {
			_, _ = w.Write([]byte(`{"tag_name":"` + tag + `","html_url":"https://example.com/` + tag + `"}`))
			return
		}
		name, ok := strings.CutPrefix(r.URL.Path, "/abhisek/smartmcq/releases/download/"+tag+"/")
		if body, found := files[name]; ok && found {
			_, _ = w.Write(body)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func localRelease(t *testing.T, exe []byte, corrupt bool) map[string][]byte {
	t.Helper()
	asset, err := assetFor(runtime.GOOS, runtime.GOARCH)
	require.NoError(t, err)

	var archive []byte
	if asset.zip {
		archive = zipArchive(t, map[string][]byte{asset.binary(): exe})
	} else {
		archive = tarGz(t, map[string][]byte{asset.binary(): exe})
	}
	sum := sha256.Sum256(archive)
	hexSum := hex.EncodeToString(sum[:])
	if corrupt {
		hexSum = strings.Repeat("f", 64)
	}
	return map[string][]byte{
		asset.name:      archive,
		"checksums.txt": []byte(hexSum + "  " + asset.name + "\n"),
	}
}

func TestUpdate(t *testing.T) {
	newExe := []byte("smartmcq v1.5.0")

	t.Run("installs the latest release", func(t *testing.T) {
		srv := releaseHost(t, "v1.5.0", localRelease(t, newExe, false))
		exe := filepath.Join(t.TempDir(), "smartmcq")
		require.NoError(t, os.WriteFile(exe, []byte("smartmcq v1.4.0"), 0o755))

		c := NewChecker(WithBaseURL(srv.URL), WithDownloadBaseURL(srv.URL),
			withExecPath(func() (string, error) { return exe, nil }))

		var stages []Stage
		err := c.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.4.0"}, func(p UpdateProgress) {
			stages = append(stages, p.Stage)
		})
		require.NoError(t, err)

		got, err := os.ReadFile(exe)
		require.NoError(t, err)
		assert.Equal(t, newExe, got)
		assert.Equal(t, []Stage{StageCheck, StageDownload, StageVerify, StageExtract, StageApply, StageDone}, stages)
	})

	t.Run("pinned tag skips the check", func(t *testing.T) {
		srv := releaseHost(t, "v1.3.0", localRelease(t, newExe, false))
		exe := filepath.Join(t.TempDir(), "smartmcq")
		require.NoError(t, os.WriteFile(exe, []byte("old"), 0o755))

		c := NewChecker(WithBaseURL(srv.URL), WithDownloadBaseURL(srv.URL),
			withExecPath(func() (string, error) { return exe, nil }))
		require.NoError(t, c.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.4.0", TargetVersion: "v1.3.0"}, nil))
	})

	t.Run("development build", func(t *testing.T) {
		err := NewChecker().Update(context.Background(), &UpdateInput{CurrentVersion: "(devel)"}, nil)
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already latest", func(t *testing.T) {
		srv := releaseHost(t, "v1.4.0", nil)
		err := NewChecker(WithBaseURL(srv.URL)).Update(context.Background(), &UpdateInput{CurrentVersion: "1.4.0"}, nil)
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("checksum mismatch leaves the binary alone", func(t *testing.T) {
		srv := releaseHost(t, "v1.5.0", localRelease(t, newExe, true))
		exe := filepath.Join(t.TempDir(), "smartmcq")
		require.NoError(t, os.WriteFile(exe, []byte("old"), 0o755))

		c := NewChecker(WithBaseURL(srv.URL), WithDownloadBaseURL(srv.URL),
			withExecPath(func() (string, error) { return exe, nil }))
		err := c.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.4.0"}, nil)
		assert.ErrorIs(t, err, ErrChecksum)

		got, _ := os.ReadFile(exe)
		assert.Equal(t, "old", string(got))
	})

	t.Run("missing asset", func(t *testing.T) {
		srv := releaseHost(t, "v1.5.0", map[string][]byte{"checksums.txt": []byte("")})
		c := NewChecker(WithBaseURL(srv.URL), WithDownloadBaseURL(srv.URL))
		err := c.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.4.0"}, nil)
		assert.ErrorContains(t, err, "download archive")
	})
}

func tarGz(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, body := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0o755, Size: int64(len(body)), Typeflag: tar.TypeReg}))
		_, err := tw.Write(body)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func zipArchive(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
