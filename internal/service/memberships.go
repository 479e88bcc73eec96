// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/olegiv/campus-site/internal/model"
	"github.com/olegiv/campus-site/internal/store"
	"github.com/olegiv/campus-site/internal/util"
)

// SubmitMembershipInput is the membership application body.
type SubmitMembershipInput struct {
	FullName      string `json:"full_name" validate:"required,max=255"`
	Email         string `json:"email" validate:"required,basicemail,max=255"`
	Phone         string `json:"phone" validate:"required,max=50"`
	University    string `json:"university" validate:"required,max=255"`
	Major         string `json:"major" validate:"required,max=255"`
	AcademicLevel string `json:"academic_level" validate:"required,max=100"`
	Wilaya        string `json:"wilaya" validate:"required,max=100"`
}

// UpdateStatusInput is the body of a status change.
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

// MembershipService manages membership applications.
type MembershipService struct {
	queries *store.Queries
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(db *sql.DB) *MembershipService {
	return &MembershipService{queries: store.New(db)}
}

// Submit stores an application. Each email may apply once; the unique
// index on email decides races between concurrent submissions.
func (s *MembershipService) Submit(ctx context.Context, in SubmitMembershipInput) (model.Membership, error) {
	in.FullName = util.NormalizeText(in.FullName)
	in.Email = util.NormalizeEmail(in.Email)
	in.Phone = util.NormalizeText(in.Phone)
	in.University = util.NormalizeText(in.University)
	in.Major = util.NormalizeText(in.Major)
	in.AcademicLevel = util.NormalizeText(in.AcademicLevel)
	in.Wilaya = util.NormalizeText(in.Wilaya)
	if err := validateInput(in); err != nil {
		return model.Membership{}, err
	}

	row, err := s.queries.CreateMembership(ctx, store.CreateMembershipParams{
		FullName:      in.FullName,
		Email:         in.Email,
		Phone:         in.Phone,
		University:    in.University,
		Major:         in.Major,
		AcademicLevel: in.AcademicLevel,
		Wilaya:        in.Wilaya,
		Status:        model.MembershipStatusPending,
		CreatedAt:     time.Now().UTC(),
	})
	if store.IsUniqueViolation(err) {
		return model.Membership{}, conflict("An application with this email already exists")
	}
	if err != nil {
		return model.Membership{}, fmt.Errorf("creating membership: %w", err)
	}
	return membershipFromStore(row), nil
}

// List returns applications newest first, optionally filtered by status.
func (s *MembershipService) List(ctx context.Context, status string) ([]model.Membership, error) {
	if status != "" && !model.IsValidMembershipStatus(status) {
		return nil, invalidInput("Invalid status")
	}
	rows, err := s.queries.ListMemberships(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("listing memberships: %w", err)
	}
	items := make([]model.Membership, 0, len(rows))
	for _, row := range rows {
		items = append(items, membershipFromStore(row))
	}
	return items, nil
}

// Stats counts applications by status.
func (s *MembershipService) Stats(ctx context.Context) (model.MembershipStats, error) {
	st, err := s.queries.GetMembershipStats(ctx)
	if err != nil {
		return model.MembershipStats{}, fmt.Errorf("counting memberships: %w", err)
	}
	return model.MembershipStats{
		Total:    st.Total,
		Pending:  st.Pending,
		Approved: st.Approved,
		Rejected: st.Rejected,
	}, nil
}

// GetByID returns one application.
func (s *MembershipService) GetByID(ctx context.Context, id int64) (model.Membership, error) {
	row, err := s.queries.GetMembershipByID(ctx, id)
	if store.IsNotFound(err) {
		return model.Membership{}, notFound("Membership")
	}
	if err != nil {
		return model.Membership{}, fmt.Errorf("getting membership %d: %w", id, err)
	}
	return membershipFromStore(row), nil
}

// UpdateStatus sets the status of an application.
func (s *MembershipService) UpdateStatus(ctx context.Context, id int64, in UpdateStatusInput) (model.Membership, error) {
	in.Status = util.NormalizeText(in.Status)
	if err := validateInput(in); err != nil {
		return model.Membership{}, err
	}

	n, err := s.queries.UpdateMembershipStatus(ctx, store.UpdateMembershipStatusParams{Status: in.Status, ID: id})
	if err != nil {
		return model.Membership{}, fmt.Errorf("updating membership %d: %w", id, err)
	}
	if n == 0 {
		return model.Membership{}, notFound("Membership")
	}
	return s.GetByID(ctx, id)
}

// Delete removes an application.
func (s *MembershipService) Delete(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteMembership(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting membership %d: %w", id, err)
	}
	if n == 0 {
		return notFound("Membership")
	}
	return nil
}
