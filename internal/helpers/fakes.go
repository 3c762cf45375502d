// Package helpers provides scripted fakes of the host tools for tests.
package helpers

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/deploymenttheory/go-lvmsnap/internal/interfaces"
)

// Response is one scripted answer of the FakeRunner
type Response struct {
	Stdout string
	Err    error
}

// OK is a successful response with the given stdout
func OK(stdout string) Response {
	return Response{Stdout: stdout}
}

// Fail is a failed response carrying msg
func Fail(msg string) Response {
	return Response{Err: errors.New(msg)}
}

type rule struct {
	prefix    string
	responses []Response
	calls     int
}

// FakeRunner records commands and answers them from scripted rules.
// The most recently added rule whose prefix matches the command line wins.
// Each call consumes the next response of the rule; the last one repeats.
// Commands without a matching rule succeed with empty output.
type FakeRunner struct {
	mu      sync.Mutex
	calls   []string
	rules   []*rule
	missing map[string]bool
}

// Ensure interface compliance
var _ interfaces.CommandRunner = (*FakeRunner)(nil)

// NewFakeRunner creates an empty FakeRunner
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{missing: map[string]bool{}}
}

// On scripts the responses for command lines starting with prefix
func (f *FakeRunner) On(prefix string, responses ...Response) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(responses) == 0 {
		responses = []Response{OK("")}
	}
	f.rules = append(f.rules, &rule{prefix: prefix, responses: responses})
	return f
}

// Missing makes LookPath fail for the named tools
func (f *FakeRunner) Missing(names ...string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, name := range names {
		f.missing[name] = true
	}
	return f
}

// Run implements interfaces.CommandRunner
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	f.calls = append(f.calls, line)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i := len(f.rules) - 1; i >= 0; i-- {
		r := f.rules[i]
		if !strings.HasPrefix(line, r.prefix) {
			continue
		}
		resp := r.responses[len(r.responses)-1]
		if r.calls < len(r.responses) {
			resp = r.responses[r.calls]
		}
		r.calls++
		if resp.Err != nil {
			return []byte(resp.Stdout), fmt.Errorf("%s: %w", line, resp.Err)
		}
		return []byte(resp.Stdout), nil
	}
	return nil, nil
}

// LookPath implements interfaces.CommandRunner
func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing[name] {
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return "/usr/sbin/" + name, nil
}

// Calls returns every command line run so far
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsWithPrefix returns the command lines starting with prefix
func (f *FakeRunner) CallsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls but keeps the rules
func (f *FakeRunner) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// FakeMounter records mounts in memory
type FakeMounter struct {
	mu          sync.Mutex
	mounted     map[string]string
	failures    map[string]error
	nextUnmount error
	history     []string
}

// Ensure interface compliance
var _ interfaces.Mounter = (*FakeMounter)(nil)

// NewFakeMounter creates an empty FakeMounter
func NewFakeMounter() *FakeMounter {
	return &FakeMounter{
		mounted:  map[string]string{},
		failures: map[string]error{},
	}
}

// FailMount makes every mount of device fail with err
func (m *FakeMounter) FailMount(device string, err error) *FakeMounter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[device] = err
	return m
}

// FailUnmount makes the unmount of any dir fail with err
func (m *FakeMounter) FailUnmount(err error) *FakeMounter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[""] = err
	return m
}

// FailNextUnmount makes only the next unmount fail with err
func (m *FakeMounter) FailNextUnmount(err error) *FakeMounter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextUnmount = err
	return m
}

// Mount implements interfaces.Mounter
func (m *FakeMounter) Mount(device, dir string, options interfaces.MountOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mode := "rw"
	if options.ReadOnly {
		mode = "ro"
	}
	m.history = append(m.history, fmt.Sprintf("mount %s %s %s", mode, device, dir))
	if err := m.failures[device]; err != nil {
		return err
	}
	m.mounted[dir] = device
	return nil
}

// Unmount implements interfaces.Mounter
func (m *FakeMounter) Unmount(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, "umount "+dir)
	if err := m.nextUnmount; err != nil {
		m.nextUnmount = nil
		return err
	}
	if err := m.failures[""]; err != nil {
		return err
	}
	delete(m.mounted, dir)
	return nil
}

// IsMounted implements interfaces.Mounter
func (m *FakeMounter) IsMounted(dir string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.mounted[dir]
	return ok, nil
}

// Mounted returns the number of live mounts
func (m *FakeMounter) Mounted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.mounted)
}

// History returns every mount and unmount in order
func (m *FakeMounter) History() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.history))
	copy(out, m.history)
	return out
}
