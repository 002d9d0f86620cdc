package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/bantus/rental-backend/internal/model"
	"github.com/bantus/rental-backend/internal/repository"
)

// IssueService handles maintenance issues raised by tenants and triaged
// by landlords.
type IssueService struct {
	owners  *OwnershipResolver
	tenancy *TenancyDirectory
	issues  IssueStore
	log     *zap.Logger
}

func NewIssueService(owners *OwnershipResolver, tenancy *TenancyDirectory, issues IssueStore, log *zap.Logger) *IssueService {
	return &IssueService{owners: owners, tenancy: tenancy, issues: issues, log: log.Named("issues")}
}

// activeSession returns the calling tenant's active session.
func (s *IssueService) activeSession(ctx context.Context, p model.Principal) (model.TenantSession, error) {
	t, err := s.owners.TenantFor(ctx, p)
	if err != nil {
		return model.TenantSession{}, err
	}
	session, found, err := s.tenancy.ActiveSessionForTenant(ctx, t.ID)
	if err != nil {
		return model.TenantSession{}, err
	}
	if !found {
		return model.TenantSession{}, newError(KindNoActiveSession, "you have no active rental session")
	}
	return session, nil
}

// Report opens an issue against the tenant's active session.
func (s *IssueService) Report(ctx context.Context, p model.Principal, description string, image *string) (model.IssueReport, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return model.IssueReport{}, invalidInput("description is required")
	}
	session, err := s.activeSession(ctx, p)
	if err != nil {
		return model.IssueReport{}, err
	}
	issue := model.IssueReport{SessionID: session.ID, Description: description, Image: image}
	if err := s.issues.Create(ctx, &issue); err != nil {
		return model.IssueReport{}, wrapError(KindPersistenceFailure, "could not save issue", err)
	}
	issue.RoomID = session.RoomID
	s.log.Info("issue reported", zap.Uint64("issue_id", issue.ID), zap.Uint64("session_id", session.ID))
	return issue, nil
}

// MyIssues lists the issues of the tenant's active session.
func (s *IssueService) MyIssues(ctx context.Context, p model.Principal) ([]model.IssueReport, error) {
	session, err := s.activeSession(ctx, p)
	if err != nil {
		return nil, err
	}
	list, err := s.issues.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, internal("list issues", err)
	}
	return list, nil
}

// LandlordIssues lists every issue raised in the landlord's rooms.
func (s *IssueService) LandlordIssues(ctx context.Context, p model.Principal) ([]model.IssueReport, error) {
	l, err := s.owners.LandlordFor(ctx, p)
	if err != nil {
		return nil, err
	}
	list, err := s.issues.ListByLandlord(ctx, l.ID)
	if err != nil {
		return nil, internal("list issues", err)
	}
	return list, nil
}

// UpdateStatus moves an issue to open, in_progress or resolved.
func (s *IssueService) UpdateStatus(ctx context.Context, p model.Principal, issueID uint64, status model.IssueStatus) (model.IssueReport, error) {
	if !status.Valid() {
		return model.IssueReport{}, invalidInput("status must be one of open, in_progress, resolved")
	}
	if err := authorize(p, model.RoleLandlord); err != nil {
		return model.IssueReport{}, err
	}
	issue, err := s.issues.GetByID(ctx, issueID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.IssueReport{}, newError(KindNotFound, "issue not found")
	}
	if err != nil {
		return model.IssueReport{}, internal("load issue", err)
	}
	if _, err := s.owners.VerifyLandlordOwnsSession(ctx, p, issue.SessionID); err != nil {
		return model.IssueReport{}, err
	}
	if err := s.issues.UpdateStatus(ctx, issueID, status); err != nil {
		return model.IssueReport{}, wrapError(KindPersistenceFailure, "could not update issue", err)
	}
	issue.Status = status
	return issue, nil
}
