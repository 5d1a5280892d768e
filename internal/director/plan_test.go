package director

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ivlev/wipeframes/internal/config"
)

func TestPlanWriteRead(t *testing.T) {
	plan := &Plan{
		Version: "1.0",
		Transitions: []Transition{
			{ID: 1, Image1: "a.png", Image2: "b.png", Output: "out/ab.mp4", Mode: "hard", Frames: 24, Direction: "left_to_right", FPS: 24},
			{ID: 2, Image1: "b.png", Image2: "c.png", Output: "out/bc", Mode: "soft", TransitionWidth: 0.3},
		},
	}

	tmpFile := filepath.Join(t.TempDir(), "plan.yaml")
	if err := WritePlan(plan, tmpFile); err != nil {
		t.Fatalf("WritePlan failed: %v", err)
	}

	readPlan, err := ReadPlan(tmpFile)
	if err != nil {
		t.Fatalf("ReadPlan failed: %v", err)
	}

	if diff := cmp.Diff(plan, readPlan); diff != "" {
		t.Errorf("Plan mismatch (-want +got):\n%s", diff)
	}
}

func TestReadPlanEmpty(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(tmpFile, []byte("version: \"1.0\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadPlan(tmpFile); err == nil {
		t.Error("Expected error for plan without transitions")
	}
}

func TestTransitionApply(t *testing.T) {
	base := config.Default()
	base.Image1 = "base1.png"
	base.Image2 = "base2.png"
	base.Output = "out"

	got := Transition{Image2: "other.png", Mode: "soft", FPS: 30}.Apply(base)

	want := base
	want.Image2 = "other.png"
	want.Mode = "soft"
	want.FPS = 30
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Apply mismatch (-want +got):\n%s", diff)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Image1, cfg.Image2, cfg.Output = "a.png", "b.png", "ab.mp4"

	plan := FromConfig(cfg)
	if len(plan.Transitions) != 1 {
		t.Fatalf("Expected 1 transition, got %d", len(plan.Transitions))
	}
	if got := plan.Transitions[0].Apply(config.Config{}); got.Frames != cfg.Frames || got.Image1 != "a.png" {
		t.Errorf("Round trip through Apply lost fields: %+v", got)
	}
}
