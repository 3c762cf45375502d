package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/deploymenttheory/go-lvmsnap/internal/interfaces"
)

// RequiredTools are needed by every run regardless of backend
var RequiredTools = []string{"lvs", "vgs", "lvcreate", "lvremove", "kpartx", "mount", "umount"}

// BackendTools are only needed by the backend that drives them
var BackendTools = []string{"tar", "rsync"}

// PreflightService checks privilege and host tooling before any resource
// is touched
type PreflightService struct {
	runner interfaces.CommandRunner
	logger *logrus.Entry
	euid   func() int
}

// NewPreflightService creates a new PreflightService
func NewPreflightService(runner interfaces.CommandRunner, logger *logrus.Entry) *PreflightService {
	return &PreflightService{
		runner: runner,
		logger: logger,
		euid:   unix.Geteuid,
	}
}

// CheckPrivilege fails unless the process runs as root
func (p *PreflightService) CheckPrivilege() error {
	if uid := p.euid(); uid != 0 {
		return fmt.Errorf("%w: running as uid %d, root is required", ErrNotPrivileged, uid)
	}
	return nil
}

// CheckTools fails when a required tool or the tool of the selected backend
// is missing. Other missing backend tools only produce a warning.
func (p *PreflightService) CheckTools(backendTool string) error {
	for _, tool := range RequiredTools {
		if _, err := p.runner.LookPath(tool); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrToolUnavailable, tool, err)
		}
	}

	for _, tool := range BackendTools {
		path, err := p.runner.LookPath(tool)
		if err == nil {
			p.logger.WithFields(logrus.Fields{"tool": tool, "path": path}).Debug("found backend tool")
			continue
		}
		if tool == backendTool {
			return fmt.Errorf("%w: %s: %v", ErrToolUnavailable, tool, err)
		}
		p.logger.WithField("tool", tool).Warn("backend tool not found, " + tool + " backend unavailable")
	}
	return nil
}

// Check runs the privilege check and then the tool checks
func (p *PreflightService) Check(backendTool string) error {
	if err := p.CheckPrivilege(); err != nil {
		return err
	}
	return p.CheckTools(backendTool)
}
