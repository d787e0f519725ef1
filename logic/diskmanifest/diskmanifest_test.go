package diskmanifest_test

import (
	"testing"

	"github.com/gurre/selfinstall/logic/appid"
	"github.com/gurre/selfinstall/logic/diskmanifest"
	"github.com/gurre/selfinstall/logic/manifest"
	"github.com/gurre/selfinstall/logic/pathresolve"
)

func sampleManifest(t *testing.T) diskmanifest.DiskManifest {
	t.Helper()
	id, err := appid.New("takecrate.tests.app_a")
	if err != nil {
		t.Fatalf("appid.New() error = %v", err)
	}

	return diskmanifest.DiskManifest{
		ManifestVersion: diskmanifest.CurrentManifestVersion,
		AppID:           id,
		AppName:         "App A",
		AppVersion:      "1.0.0",
		AccessScope:     manifest.AccessScopeUser,
		AppPaths: diskmanifest.DiskPaths{
			Prefix:     pathresolve.AppPathPrefix{Kind: pathresolve.PrefixSingleDir, Path: "/tmp/X"},
			Executable: "/tmp/X/bin",
			Data:       "/tmp/X",
		},
		Dirs: []diskmanifest.DiskDirEntry{
			{Path: "/tmp/X/bin", Preserve: false},
			{Path: "/tmp/X", Preserve: true},
		},
		Files: []diskmanifest.DiskFileEntry{
			{Path: "/tmp/X/bin/app_a", Len: 1024, CRC32C: 0xdeadbeef, FileType: manifest.FileTypeExecutable, IsMainExecutable: true},
			{Path: "/tmp/X/d.bin", Len: 16, CRC32C: 0xcafef00d, FileType: manifest.FileTypeData},
		},
		SearchPath: "/tmp/X/bin",
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	original := sampleManifest(t)

	data, err := diskmanifest.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	decoded, err := diskmanifest.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded.AppID.UUID() != original.AppID.UUID() {
		t.Errorf("AppID.UUID() differs after round trip")
	}
	if decoded.AppName != original.AppName {
		t.Errorf("AppName = %q, want %q", decoded.AppName, original.AppName)
	}
	if len(decoded.Files) != len(original.Files) {
		t.Fatalf("Files length = %d, want %d", len(decoded.Files), len(original.Files))
	}
	if decoded.Files[0].CRC32C != original.Files[0].CRC32C {
		t.Errorf("Files[0].CRC32C = %x, want %x", decoded.Files[0].CRC32C, original.Files[0].CRC32C)
	}
	if decoded.TotalFileSize() != original.TotalFileSize() {
		t.Errorf("TotalFileSize() = %d, want %d", decoded.TotalFileSize(), original.TotalFileSize())
	}
}

func TestUnmarshalRejectsUnsupportedVersion(t *testing.T) {
	_, err := diskmanifest.Unmarshal([]byte("manifest_version: 99\n"))
	if err == nil {
		t.Fatalf("Unmarshal() error = nil, want error for unsupported manifest_version")
	}
}

func TestMainExecutableFindsFlaggedEntry(t *testing.T) {
	m := sampleManifest(t)
	entry, ok := m.MainExecutable()
	if !ok {
		t.Fatalf("MainExecutable() ok = false, want true")
	}
	if entry.Path != "/tmp/X/bin/app_a" {
		t.Errorf("MainExecutable().Path = %q, want %q", entry.Path, "/tmp/X/bin/app_a")
	}
}
