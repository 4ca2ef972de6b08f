package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/projectflow-api/internal/models"
	"github.com/yukikurage/projectflow-api/internal/repository"
	"gorm.io/gorm"
)

// Capability is an action a team role may perform.
type Capability int

const (
	CapViewTeam Capability = iota
	CapEditTeam
	CapDeleteTeam
	CapManageMembers
	CapChangeRoles
	CapWriteProjects
	CapDeleteProjects
	CapWriteTasks
	CapComment
	CapModerateComments
)

var roleCapabilities = map[models.TeamRole][]Capability{
	models.RoleOwner: {
		CapViewTeam, CapEditTeam, CapDeleteTeam, CapManageMembers, CapChangeRoles,
		CapWriteProjects, CapDeleteProjects, CapWriteTasks, CapComment, CapModerateComments,
	},
	models.RoleAdmin: {
		CapViewTeam, CapEditTeam, CapManageMembers,
		CapWriteProjects, CapDeleteProjects, CapWriteTasks, CapComment, CapModerateComments,
	},
	models.RoleMember: {
		CapViewTeam, CapWriteProjects, CapWriteTasks, CapComment,
	},
}

// Can reports whether role grants capability.
func Can(role models.TeamRole, capability Capability) bool {
	for _, c := range roleCapabilities[role] {
		if c == capability {
			return true
		}
	}
	return false
}

// Option configures a service.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now as the service clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func applyOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// accessChecker resolves team memberships and enforces role capabilities.
type accessChecker struct {
	teams repository.TeamRepository
}

// require returns the caller's membership when their role grants capability.
func (a accessChecker) require(ctx context.Context, teamID, userID uint64, capability Capability) (*models.TeamMember, error) {
	member, err := a.teams.FindMember(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotTeamMember
		}
		return nil, fmt.Errorf("failed to verify team membership: %w", err)
	}

	if !Can(member.Role, capability) {
		return nil, ErrNotAuthorized
	}
	return member, nil
}

// requireTeam is require preceded by an existence check on the team.
func (a accessChecker) requireTeam(ctx context.Context, teamID, userID uint64, capability Capability) (*models.TeamMember, error) {
	if _, err := a.teams.FindByID(ctx, teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return a.require(ctx, teamID, userID, capability)
}

// teamIDs lists the teams the user belongs to. When teamID is set the caller
// must be a member of that team and only it is returned.
func (a accessChecker) teamIDs(ctx context.Context, userID uint64, teamID *uint64) ([]uint64, error) {
	if teamID != nil {
		if _, err := a.requireTeam(ctx, *teamID, userID, CapViewTeam); err != nil {
			return nil, err
		}
		return []uint64{*teamID}, nil
	}

	memberships, err := a.teams.ListMembershipsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch team memberships: %w", err)
	}

	ids := make([]uint64, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.TeamID)
	}
	return uniqueUint64(ids), nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
