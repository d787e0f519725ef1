package uninstall_test

import (
	"bytes"
	"context"
	"hash/crc32"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gurre/selfinstall/adaptor/statusreport"
	"github.com/gurre/selfinstall/entrypoint/uninstall"
	"github.com/gurre/selfinstall/ierr"
	"github.com/gurre/selfinstall/logic/appid"
	"github.com/gurre/selfinstall/logic/diskmanifest"
	"github.com/gurre/selfinstall/logic/manifest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func isolateManifestLocations(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("LOCALAPPDATA", dir)
	t.Setenv("PROGRAMDATA", dir)
}

func TestRunReturnsNotInstalledWhenNoManifestExists(t *testing.T) {
	isolateManifestLocations(t)

	id, err := appid.New("takecrate.tests.app_missing")
	if err != nil {
		t.Fatalf("appid.New() error = %v", err)
	}

	err = uninstall.Run(context.Background(), id, uninstall.Options{Logger: discardLogger()})
	if ierr.KindOf(err) != ierr.KindNotInstalled {
		t.Errorf("KindOf(err) = %v, want KindNotInstalled", ierr.KindOf(err))
	}
}

func TestRunRemovesProvidedManifestPayload(t *testing.T) {
	isolateManifestLocations(t)
	destDir := t.TempDir()

	id, err := appid.New("takecrate.tests.app_a")
	if err != nil {
		t.Fatalf("appid.New() error = %v", err)
	}

	dataPath := filepath.Join(destDir, "d.bin")
	if err := os.WriteFile(dataPath, []byte("data!"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	manifestPath := filepath.Join(destDir, "manifest.ron")
	if err := os.WriteFile(manifestPath, []byte("manifest_version: 0\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	m := diskmanifest.DiskManifest{
		ManifestPath:    manifestPath,
		ManifestVersion: diskmanifest.CurrentManifestVersion,
		AppID:           id,
		Files: []diskmanifest.DiskFileEntry{
			{Path: dataPath, Len: 5, CRC32C: crc32.Checksum([]byte("data!"), crc32.MakeTable(crc32.Castagnoli)), FileType: manifest.FileTypeData},
		},
	}

	var events bytes.Buffer
	opts := uninstall.Options{
		Logger:         discardLogger(),
		StatusReporter: statusreport.New(&events),
		Manifest:       &m,
	}

	if err := uninstall.Run(context.Background(), id, opts); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if _, err := os.Stat(dataPath); !os.IsNotExist(err) {
		t.Errorf("payload file still present after uninstall")
	}
	if _, err := os.Stat(manifestPath); !os.IsNotExist(err) {
		t.Errorf("manifest file still present after uninstall")
	}
	if !strings.Contains(events.String(), `"event":"result"`) {
		t.Errorf("status events = %q, want a result event", events.String())
	}
}
