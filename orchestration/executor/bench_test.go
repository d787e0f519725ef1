package executor_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gurre/selfinstall/logic/appid"
	"github.com/gurre/selfinstall/logic/manifest"
	"github.com/gurre/selfinstall/logic/pathresolve"
	"github.com/gurre/selfinstall/logic/plan"
	"github.com/gurre/selfinstall/orchestration/executor"
)

// BenchmarkInstall measures the cost of one full install pass (manifest
// persistence plus a single-file checksum-guarded copy) against a temp
// directory, isolating disk throughput from planning overhead.
func BenchmarkInstall(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	payload := make([]byte, 1<<20)

	for b.Loop() {
		destDir := b.TempDir()
		srcDir := b.TempDir()

		id, err := appid.New("takecrate.bench.app_a")
		if err != nil {
			b.Fatalf("appid.New() error = %v", err)
		}

		exePath := filepath.Join(srcDir, "app_a")
		if err := os.WriteFile(exePath, payload, 0o755); err != nil {
			b.Fatalf("WriteFile() error = %v", err)
		}

		binDir := filepath.Join(destDir, "bin")
		p := plan.InstallPlan{
			DisplayName:  "App A",
			ManifestPath: filepath.Join(destDir, "manifest.ron"),
			Destination:  pathresolve.AppPathPrefix{Kind: pathresolve.PrefixSingleDir, Path: destDir},
			Dirs: []plan.PlanDirEntry{
				{DestinationPath: binDir},
				{DestinationPath: destDir},
			},
			Files: []plan.PlanFileEntry{
				{
					SourcePath:       exePath,
					DestinationPath:  filepath.Join(binDir, "app_a"),
					FileType:         manifest.FileTypeExecutable,
					IsMainExecutable: true,
					PosixMode:        0o755,
				},
			},
		}
		p.Files[0].Checksum.Length = uint64(len(payload))

		e := executor.New(logger)
		if err := e.Install(id, p, nil); err != nil {
			b.Fatalf("Install() error = %v", err)
		}
	}
}
