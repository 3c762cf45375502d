package backup

import (
	"fmt"
	"strings"

	"github.com/deploymenttheory/go-lvmsnap/internal/services"
	"github.com/deploymenttheory/go-lvmsnap/pkg/app"
)

// Validate validates a backup request. Nothing on the host is touched.
func (r *Request) Validate() error {
	if err := services.ValidateSnapshotPrefix(r.SnapshotPrefix); err != nil {
		return app.NewError(app.ErrCodeConfiguration, "invalid snapshot prefix", err)
	}

	if _, err := r.Exclusions(); err != nil {
		return app.NewError(app.ErrCodeConfiguration, "invalid exclusion list", err)
	}

	if r.Destination == "" {
		return app.NewError(app.ErrCodeConfiguration, "destination must not be empty", nil)
	}

	switch r.Backend {
	case services.BackendTar:
		if !contains(services.Compressions(), r.Compression) {
			return app.NewError(app.ErrCodeConfiguration,
				fmt.Sprintf("unsupported compression %q, use one of %s", r.Compression, strings.Join(services.Compressions(), ", ")), nil)
		}
	case services.BackendRsync:
	default:
		return app.NewError(app.ErrCodeConfiguration,
			fmt.Sprintf("unsupported backend %q, use one of %s", r.Backend, strings.Join(services.Backends(), ", ")), nil)
	}

	for _, opt := range r.MountOptions {
		if opt == "" || strings.Contains(opt, ",") {
			return app.NewError(app.ErrCodeConfiguration,
				fmt.Sprintf("invalid mount option %q, pass one option per entry", opt), nil)
		}
	}

	return nil
}

// Exclusions parses the exclusion list
func (r *Request) Exclusions() ([]services.Exclusion, error) {
	out := make([]services.Exclusion, 0, len(r.Exclude))
	for _, entry := range r.Exclude {
		e, err := services.ParseExclusion(strings.TrimSpace(entry))
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
