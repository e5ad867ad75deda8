package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kilianp07/parcelsim/core/clock"
	"github.com/kilianp07/parcelsim/core/events"
	"github.com/kilianp07/parcelsim/core/report"
	"github.com/kilianp07/parcelsim/internal/eventbus"
)

func testConfigFile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	data := fmt.Sprintf(`data:
  locations: "testdata/locations.csv"
  items: "testdata/items.csv"
logging:
  path: %q
`, filepath.Join(dir, "decisions.log"))
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	untilFlag, jsonFlag, quietFlag = "", false, false
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRunCommandPrintsReport(t *testing.T) {
	out, err := execute(t, "run", "-c", testConfigFile(t), "--quiet", "--json")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	var rep report.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("report is not JSON: %v\n%s", err, out)
	}
	if !rep.Run.Finished || rep.Run.Delivered != 2 {
		t.Errorf("report run = %+v", rep.Run)
	}
}

func TestRunCommandUntil(t *testing.T) {
	out, err := execute(t, "run", "-c", testConfigFile(t), "--quiet", "--until", "8:01")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "cut off") {
		t.Errorf("report does not mention the cutoff:\n%s", out)
	}
}

func TestRunCommandRejectsBadUntil(t *testing.T) {
	if _, err := execute(t, "run", "-c", testConfigFile(t), "--quiet", "--until", "7:00"); err == nil {
		t.Error("until before the operating window accepted")
	}
	if _, err := execute(t, "run", "-c", testConfigFile(t), "--quiet", "--until", "nope"); err == nil {
		t.Error("unparsable until accepted")
	}
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "-c", testConfigFile(t))
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "valid") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if _, err := execute(t, "validate", "-c", "testdata/absent.yaml"); err == nil {
		t.Error("missing config validated")
	}
}

func TestProgressPrinter(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	var out bytes.Buffer
	p := startProgress(&out, bus)
	bus.Publish(events.BatchLoaded{VehicleID: 1, ItemIDs: []int{3, 4}, ProjectedSubunits: 45, At: clock.At(8, 0, 0)})
	bus.Publish(events.ItemDelivered{ItemID: 3, VehicleID: 1, OnTime: true, At: clock.At(8, 2, 0)})
	bus.Publish(events.WorldEventFired{Kind: "release-delayed", ItemIDs: []int{9}, At: clock.At(9, 5, 0)})
	bus.Publish(events.RunCompleted{RunID: "r", Finished: true, Delivered: 2, At: clock.At(8, 15, 0)})
	p.Stop()

	for _, want := range []string{
		"08:00:00  vehicle 1 loaded 2 items (4.5 mi route)",
		"08:02:00  vehicle 1 delivered item 3 (on time)",
		"09:05:00  release-delayed touched 1 items",
		"08:15:00  run finished: 2 delivered, 0 late",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("progress output missing %q:\n%s", want, out.String())
		}
	}
}
