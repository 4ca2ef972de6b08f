package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/projectflow-api/internal/models"
	"github.com/yukikurage/projectflow-api/internal/repository"
	"github.com/yukikurage/projectflow-api/internal/utils"
	"gorm.io/gorm"
)

const maxTeamNameLength = 100

// TeamService provides business logic for teams and their memberships.
type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
	access   accessChecker
	now      func() time.Time
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository, opts ...Option) *TeamService {
	o := applyOptions(opts)
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
		access:   accessChecker{teams: teamRepo},
		now:      o.now,
	}
}

// TeamDetail is a team as seen by one of its members.
type TeamDetail struct {
	Team    *models.Team
	Members []models.TeamMember
	Role    models.TeamRole
}

// CreateTeamInput represents parameters to create a new team.
type CreateTeamInput struct {
	Name        string
	Description string
	OwnerID     uint64
}

// CreateTeam creates a new team. The creator becomes its owner.
func (s *TeamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	name, err := validateTeamName(input.Name)
	if err != nil {
		return nil, err
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}

	team := &models.Team{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		OwnerID:     input.OwnerID,
		InviteCode:  inviteCode,
	}
	owner := &models.TeamMember{
		UserID:   input.OwnerID,
		Role:     models.RoleOwner,
		JoinedAt: s.now(),
	}

	if err := s.teamRepo.CreateWithOwner(ctx, team, owner); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return team, nil
}

// ListTeamsForUser returns the user's memberships with their teams, ordered by team name.
func (s *TeamService) ListTeamsForUser(ctx context.Context, userID uint64) ([]models.TeamMember, error) {
	memberships, err := s.teamRepo.ListMembershipsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return memberships, nil
}

// GetTeam returns a team with its members and the caller's role.
func (s *TeamService) GetTeam(ctx context.Context, teamID, userID uint64) (*TeamDetail, error) {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	member, err := s.access.require(ctx, teamID, userID, CapViewTeam)
	if err != nil {
		return nil, err
	}

	members, err := s.teamRepo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}

	return &TeamDetail{Team: team, Members: members, Role: member.Role}, nil
}

// UpdateTeamInput holds optional team fields.
type UpdateTeamInput struct {
	Name        *string
	Description *string
}

// UpdateTeam renames or re-describes a team. Owner or admin only.
func (s *TeamService) UpdateTeam(ctx context.Context, teamID, userID uint64, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.require(ctx, teamID, userID, CapEditTeam); err != nil {
		return nil, err
	}

	if input.Name != nil {
		name, err := validateTeamName(*input.Name)
		if err != nil {
			return nil, err
		}
		team.Name = name
	}
	if input.Description != nil {
		team.Description = strings.TrimSpace(*input.Description)
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return team, nil
}

// DeleteTeam removes a team with all of its projects, tasks and comments. Owner only.
func (s *TeamService) DeleteTeam(ctx context.Context, teamID, userID uint64) error {
	if _, err := s.findTeam(ctx, teamID); err != nil {
		return err
	}
	if _, err := s.access.require(ctx, teamID, userID, CapDeleteTeam); err != nil {
		return err
	}

	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}

// AddMemberInput identifies the user to add by ID or username.
type AddMemberInput struct {
	UserID   uint64
	Username string
	Role     models.TeamRole
}

// AddMember adds an existing active user to the team. Owner or admin only;
// adding an admin requires the owner.
func (s *TeamService) AddMember(ctx context.Context, teamID, actorID uint64, input AddMemberInput) (*models.TeamMember, error) {
	if _, err := s.findTeam(ctx, teamID); err != nil {
		return nil, err
	}
	actor, err := s.access.require(ctx, teamID, actorID, CapManageMembers)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = models.RoleMember
	}
	if role != models.RoleAdmin && role != models.RoleMember {
		return nil, ErrInvalidRole
	}
	if role == models.RoleAdmin && !Can(actor.Role, CapChangeRoles) {
		return nil, ErrNotAuthorized
	}

	user, err := s.resolveUser(ctx, input)
	if err != nil {
		return nil, err
	}

	if _, err := s.teamRepo.FindMember(ctx, teamID, user.ID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.TeamMember{
		TeamID:   teamID,
		UserID:   user.ID,
		Role:     role,
		JoinedAt: s.now(),
	}
	if err := s.teamRepo.AddMember(ctx, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	member.User = *user
	return member, nil
}

// RemoveMember removes a member from the team and clears their task assignments.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, actorID, targetID uint64) error {
	if targetID == actorID {
		return ErrCannotRemoveYourself
	}
	if _, err := s.findTeam(ctx, teamID); err != nil {
		return err
	}

	actor, err := s.access.require(ctx, teamID, actorID, CapManageMembers)
	if err != nil {
		return err
	}

	target, err := s.findMember(ctx, teamID, targetID)
	if err != nil {
		return err
	}

	switch target.Role {
	case models.RoleOwner:
		return ErrCannotRemoveOwner
	case models.RoleAdmin:
		if actor.Role != models.RoleOwner {
			return ErrNotAuthorized
		}
	}

	if err := s.teamRepo.RemoveMember(ctx, teamID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// UpdateMemberRole promotes or demotes a member between admin and member. Owner only.
func (s *TeamService) UpdateMemberRole(ctx context.Context, teamID, actorID, targetID uint64, role models.TeamRole) (*models.TeamMember, error) {
	if role != models.RoleAdmin && role != models.RoleMember {
		return nil, ErrInvalidRole
	}
	if _, err := s.findTeam(ctx, teamID); err != nil {
		return nil, err
	}
	if _, err := s.access.require(ctx, teamID, actorID, CapChangeRoles); err != nil {
		return nil, err
	}

	target, err := s.findMember(ctx, teamID, targetID)
	if err != nil {
		return nil, err
	}
	if target.Role == models.RoleOwner {
		return nil, ErrCannotChangeOwnerRole
	}

	if err := s.teamRepo.UpdateMemberRole(ctx, teamID, targetID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to update member role: %w", err)
	}

	target.Role = role
	user, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	target.User = *user
	return target, nil
}

// LeaveTeam removes the caller from a team. The owner cannot leave.
func (s *TeamService) LeaveTeam(ctx context.Context, teamID, userID uint64) error {
	if _, err := s.findTeam(ctx, teamID); err != nil {
		return err
	}
	member, err := s.access.require(ctx, teamID, userID, CapViewTeam)
	if err != nil {
		return err
	}
	if member.Role == models.RoleOwner {
		return ErrOwnerCannotLeave
	}

	if err := s.teamRepo.RemoveMember(ctx, teamID, userID); err != nil {
		return fmt.Errorf("failed to leave team: %w", err)
	}
	return nil
}

// JoinByInviteCode adds the user to the team identified by an invite code.
func (s *TeamService) JoinByInviteCode(ctx context.Context, userID uint64, inviteCode string) (*models.Team, error) {
	code := utils.NormalizeInviteCode(inviteCode)
	if code == "" {
		return nil, ErrInvalidInviteCode
	}

	team, err := s.teamRepo.FindByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to find team by invite code: %w", err)
	}

	if _, err := s.teamRepo.FindMember(ctx, team.ID, userID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.TeamMember{
		TeamID:   team.ID,
		UserID:   userID,
		Role:     models.RoleMember,
		JoinedAt: s.now(),
	}
	if err := s.teamRepo.AddMember(ctx, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to add member to team: %w", err)
	}

	return team, nil
}

// RegenerateInviteCode replaces the team's invite code. Owner or admin only.
func (s *TeamService) RegenerateInviteCode(ctx context.Context, teamID, userID uint64) (*models.Team, error) {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.require(ctx, teamID, userID, CapEditTeam); err != nil {
		return nil, err
	}

	code, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}

	team.InviteCode = code
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to update invite code: %w", err)
	}
	return team, nil
}

func (s *TeamService) findTeam(ctx context.Context, teamID uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}

func (s *TeamService) findMember(ctx context.Context, teamID, userID uint64) (*models.TeamMember, error) {
	member, err := s.teamRepo.FindMember(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find team member: %w", err)
	}
	return member, nil
}

func (s *TeamService) resolveUser(ctx context.Context, input AddMemberInput) (*models.User, error) {
	var (
		user *models.User
		err  error
	)
	switch {
	case input.UserID != 0:
		user, err = s.userRepo.FindByID(ctx, input.UserID)
	case strings.TrimSpace(input.Username) != "":
		user, err = s.userRepo.FindByUsername(ctx, strings.TrimSpace(input.Username))
	default:
		return nil, fmt.Errorf("%w: user_id or username is required", ErrValidation)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func validateTeamName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrTeamNameRequired
	}
	if len(name) > maxTeamNameLength {
		return "", fmt.Errorf("%w: team name must be at most %d characters", ErrValidation, maxTeamNameLength)
	}
	return name, nil
}
