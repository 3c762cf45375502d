package list

import (
	"errors"
	"fmt"

	"github.com/deploymenttheory/go-lvmsnap/internal/device"
	"github.com/deploymenttheory/go-lvmsnap/internal/interfaces"
	"github.com/deploymenttheory/go-lvmsnap/internal/parsers/volumes"
	"github.com/deploymenttheory/go-lvmsnap/internal/services"
	"github.com/deploymenttheory/go-lvmsnap/internal/types"
	"github.com/deploymenttheory/go-lvmsnap/pkg/app"
)

// PrivilegeChecker fails when the process may not query the volume manager
type PrivilegeChecker interface {
	CheckPrivilege() error
}

// Handle lists the host's logical volumes
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	runner := device.NewRunner(ctx.Logger)
	return HandleWith(ctx, req,
		services.NewLVMService(runner, ctx.Logger),
		services.NewPreflightService(runner, ctx.Logger))
}

// HandleWith lists the volumes reported by volumeManager. Nothing is
// created, removed or mounted.
func HandleWith(ctx *app.Context, req *Request, volumeManager interfaces.VolumeManager, privilege PrivilegeChecker) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	excluded, _ := req.Exclusions()

	if privilege != nil {
		if err := privilege.CheckPrivilege(); err != nil {
			if errors.Is(err, services.ErrNotPrivileged) {
				return nil, app.NewError(app.ErrCodePermission, "insufficient privilege", err)
			}
			return nil, app.NewError(app.ErrCodeInternal, "privilege check failed", err)
		}
	}

	lvs, err := volumeManager.ListLogicalVolumes(ctx)
	if err != nil {
		return nil, app.NewError(app.ErrCodeEnumeration, "volume enumeration failed", err)
	}
	groups, err := volumeManager.ListVolumeGroups(ctx)
	if err != nil {
		return nil, app.NewError(app.ErrCodeEnumeration, "volume group report failed", err)
	}

	// the orchestrator decides staleness, reuse it without any collaborators
	orchestrator := services.NewSnapshotOrchestrator(nil, nil, nil, ctx.Logger,
		services.SnapshotConfig{Prefix: req.SnapshotPrefix})

	response := &Response{Groups: groups, Volumes: make([]VolumeInfo, 0, len(lvs))}
	for _, lv := range lvs {
		response.Volumes = append(response.Volumes, describe(lv, req, orchestrator.IsStale(lv), excluded[lv.FullName()]))
	}

	ctx.Log(fmt.Sprintf("listed %d volume(s) in %d group(s)", len(lvs), len(groups)))
	return response, nil
}

func describe(lv types.LogicalVolume, req *Request, stale, excluded bool) VolumeInfo {
	attrs := volumes.NewAttributeReader(lv.Attr)
	eligible, reason := services.CheckEligibility(attrs)

	info := VolumeInfo{
		LogicalVolume: lv,
		Eligible:      eligible && !stale && !excluded,
		Stale:         stale,
		Excluded:      excluded,
		Reason:        reason,
		Warnings:      attrs.Warnings(),
	}

	if req.Attributes {
		for i, value := range attrs.Descriptions() {
			info.Attributes = append(info.Attributes, AttributeField{
				Name:  types.LVAttrFieldNames[i],
				Value: value,
			})
		}
	}
	return info
}
