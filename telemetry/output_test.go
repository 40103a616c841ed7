package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/holeswarm/config"
)

func TestNilOutputManager(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}

	if err := om.WriteGeneration(GenerationStats{}); err != nil {
		t.Errorf("WriteGeneration: %v", err)
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Errorf("WritePerf: %v", err)
	}
	if err := om.WriteConfig(nil); err != nil {
		t.Errorf("WriteConfig: %v", err)
	}
	if err := om.WriteHallOfFame(NewHallOfFame(1)); err != nil {
		t.Errorf("WriteHallOfFame: %v", err)
	}
	if om.ControllerPath() != "" || om.Dir() != "" {
		t.Error("nil manager should report empty paths")
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestWriteGenerationSingleHeader(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := om.WriteGeneration(GenerationStats{Generation: i, Reason: "time_limit"}); err != nil {
			t.Fatalf("WriteGeneration: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "generations.csv"))
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "generation,reason,episode_time") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Count(string(data), "generation,") != 1 {
		t.Error("header written more than once")
	}
	if !strings.HasPrefix(lines[3], "2,time_limit,") {
		t.Errorf("last row = %q", lines[3])
	}
}

func TestWriteConfigAndPaths(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
	if got, want := om.ControllerPath(), filepath.Join(dir, "best_controller.bin"); got != want {
		t.Errorf("ControllerPath = %q, want %q", got, want)
	}
}
