package list

import (
	"strings"

	"github.com/deploymenttheory/go-lvmsnap/internal/services"
	"github.com/deploymenttheory/go-lvmsnap/pkg/app"
)

// Validate validates a listing request
func (r *Request) Validate() error {
	if err := services.ValidateSnapshotPrefix(r.SnapshotPrefix); err != nil {
		return app.NewError(app.ErrCodeConfiguration, "invalid snapshot prefix", err)
	}
	if _, err := r.Exclusions(); err != nil {
		return app.NewError(app.ErrCodeConfiguration, "invalid exclusion list", err)
	}
	return nil
}

// Exclusions returns the excluded volumes keyed by group/name
func (r *Request) Exclusions() (map[string]bool, error) {
	excluded := make(map[string]bool, len(r.Exclude))
	for _, entry := range r.Exclude {
		e, err := services.ParseExclusion(strings.TrimSpace(entry))
		if err != nil {
			return nil, err
		}
		excluded[e.String()] = true
	}
	return excluded, nil
}
