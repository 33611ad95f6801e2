package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

const (
	replyRolesNothingConfigured = "No roles found in the configuration. Please add role IDs to your .env file."
	replyRolesPublished         = "Role selection system has been set up successfully in this channel!"
	replyRolesFailed            = "An error occurred while setting up the role selection system."
	replyStaffRequired          = "You need the staff role to use this command."
	replyVerifyRoleMissing      = "Verification role with ID %s not found. Please check your configuration."
	replyVerifyPublished        = "Verification system has been set up successfully in this channel!"
	replyVerifyFailed           = "An error occurred while setting up the verification system."
)

// CommandInvocation describes who ran a slash command and where.
type CommandInvocation struct {
	GuildID     string
	ChannelID   string
	UserID      string
	MemberRoles []string
}

// CommandService runs the administrator commands and returns the text of
// the private reply shown to the invoker.
type CommandService interface {
	SetupRoles(ctx context.Context, inv CommandInvocation) string
	SetupVerification(ctx context.Context, inv CommandInvocation) string
}

type commandService struct {
	publisher   Publisher
	staffRoleID string
	logger      *slog.Logger
}

func NewCommandService(publisher Publisher, staffRoleID string, logger *slog.Logger) CommandService {
	if logger == nil {
		logger = slog.Default()
	}
	return &commandService{
		publisher:   publisher,
		staffRoleID: staffRoleID,
		logger:      logger,
	}
}

func (s *commandService) SetupRoles(ctx context.Context, inv CommandInvocation) string {
	result, err := s.publisher.PublishRoles(ctx, inv.GuildID, inv.ChannelID)
	if err != nil {
		s.logger.ErrorContext(ctx, "setting up role selection failed", "error", err)
		return replyRolesFailed
	}
	if result.Status == PublishStatusNothingConfigured {
		return replyRolesNothingConfigured
	}
	return replyRolesPublished
}

func (s *commandService) SetupVerification(ctx context.Context, inv CommandInvocation) string {
	if s.staffRoleID != "" && !slices.Contains(inv.MemberRoles, s.staffRoleID) {
		return replyStaffRequired
	}

	result, err := s.publisher.PublishVerification(ctx, inv.GuildID, inv.ChannelID)
	if err != nil {
		s.logger.ErrorContext(ctx, "setting up verification failed", "error", err)
		return replyVerifyFailed
	}
	if result.Status == PublishStatusRoleMissing {
		return fmt.Sprintf(replyVerifyRoleMissing, result.RoleID)
	}
	return replyVerifyPublished
}
