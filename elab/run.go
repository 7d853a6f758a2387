package elab

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/example/soctopo/config"
)

// ExitEvent reports why the kernel stopped. The cause and code are opaque
// to this subsystem; they are surfaced for logging only.
type ExitEvent struct {
	Cause   string  `yaml:"cause"`
	Code    int     `yaml:"code"`
	Seconds float64 `yaml:"seconds"` // simulated time at exit
}

// CoreProgress is the per-core workload position at exit.
type CoreProgress struct {
	Core       string `yaml:"core"`
	ReadsLeft  int    `yaml:"readsLeft"`
	WritesLeft int    `yaml:"writesLeft"`
}

// Run drives the kernel until its exit condition and reports the result.
func (e *Elaborator) Run() (*ExitEvent, error) {
	if !e.instantiated {
		return nil, fmt.Errorf("system not instantiated")
	}

	for _, agent := range e.agents {
		agent.TickLater()
	}

	if err := e.engine.Run(); err != nil {
		return &ExitEvent{Cause: err.Error(), Code: 1}, err
	}

	event := &ExitEvent{
		Cause:   "workloads complete",
		Code:    0,
		Seconds: float64(e.engine.CurrentTime()),
	}
	for _, agent := range e.agents {
		if agent.ReadLeft > 0 || agent.WriteLeft > 0 ||
			len(agent.PendingReadReq) > 0 || len(agent.PendingWriteReq) > 0 {
			event.Cause = "exited with outstanding accesses"
			event.Code = 2
			break
		}
	}
	return event, nil
}

// Progress returns each core's remaining workload.
func (e *Elaborator) Progress() []CoreProgress {
	out := make([]CoreProgress, 0, len(e.agents))
	for _, agent := range e.agents {
		out = append(out, CoreProgress{
			Core:       agent.Name(),
			ReadsLeft:  agent.ReadLeft,
			WritesLeft: agent.WriteLeft,
		})
	}
	return out
}

// Terminate releases kernel resources. Call after Run.
func (e *Elaborator) Terminate() {
	if e.simulation != nil {
		e.simulation.Terminate()
	}
	if e.traceFile != nil {
		e.traceFile.Close()
		e.traceFile = nil
	}
}

// checkpointFile is the snapshot persisted inside a checkpoint directory.
// It embeds the machine configuration so a restore can reconstruct an
// equivalent system.
type checkpointFile struct {
	Machine  *config.Machine `yaml:"machine"`
	Exit     *ExitEvent      `yaml:"exit"`
	Progress []CoreProgress  `yaml:"progress"`
}

const checkpointFileName = "snapshot.yaml"

// Checkpoint persists the run snapshot under a deterministic path,
// <outdir>/cpt.<tick>, where the tick is the simulated time in
// picoseconds. Returns the checkpoint directory.
func (e *Elaborator) Checkpoint(outdir string, machine *config.Machine, exit *ExitEvent) (string, error) {
	if !e.instantiated {
		return "", fmt.Errorf("system not instantiated")
	}

	tick := uint64(float64(e.engine.CurrentTime()) * 1e12)
	dir := filepath.Join(outdir, fmt.Sprintf("cpt.%d", tick))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create checkpoint dir: %w", err)
	}

	snap := checkpointFile{
		Machine:  machine,
		Exit:     exit,
		Progress: e.Progress(),
	}
	data, err := yaml.Marshal(&snap)
	if err != nil {
		return "", fmt.Errorf("failed to serialize checkpoint: %w", err)
	}
	path := filepath.Join(dir, checkpointFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return dir, nil
}

// Restore reads a checkpoint directory and returns the machine
// configuration needed to rebuild an equivalent system.
func Restore(dir string) (*config.Machine, error) {
	data, err := os.ReadFile(filepath.Join(dir, checkpointFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	var snap checkpointFile
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse checkpoint: %w", err)
	}
	if snap.Machine == nil {
		return nil, fmt.Errorf("checkpoint %s has no machine configuration", dir)
	}
	if err := config.Validate(snap.Machine); err != nil {
		return nil, fmt.Errorf("checkpoint %s: %w", dir, err)
	}
	return snap.Machine, nil
}
