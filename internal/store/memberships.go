// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const membershipColumns = `id, full_name, email, phone, university, major, academic_level, wilaya, status, created_at`

func scanMembership(row interface{ Scan(...any) error }) (Membership, error) {
	var i Membership
	err := row.Scan(
		&i.ID, &i.FullName, &i.Email, &i.Phone, &i.University, &i.Major,
		&i.AcademicLevel, &i.Wilaya, &i.Status, &i.CreatedAt,
	)
	return i, err
}

type CreateMembershipParams struct {
	FullName      string
	Email         string
	Phone         string
	University    string
	Major         string
	AcademicLevel string
	Wilaya        string
	Status        string
	CreatedAt     time.Time
}

// CreateMembership inserts an application. A duplicate email fails with a
// unique violation (see IsUniqueViolation).
func (q *Queries) CreateMembership(ctx context.Context, arg CreateMembershipParams) (Membership, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO memberships (full_name, email, phone, university, major, academic_level, wilaya, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.FullName, arg.Email, arg.Phone, arg.University, arg.Major,
		arg.AcademicLevel, arg.Wilaya, arg.Status, arg.CreatedAt,
	)
	if err != nil {
		return Membership{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Membership{}, err
	}
	return q.GetMembershipByID(ctx, id)
}

func (q *Queries) GetMembershipByID(ctx context.Context, id int64) (Membership, error) {
	return scanMembership(q.db.QueryRowContext(ctx,
		`SELECT `+membershipColumns+` FROM memberships WHERE id = ?`, id))
}

// ListMemberships returns applications newest first; an empty status
// matches every status.
func (q *Queries) ListMemberships(ctx context.Context, status string) ([]Membership, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+membershipColumns+` FROM memberships
		 WHERE (? = '' OR status = ?)
		 ORDER BY created_at DESC, id DESC`,
		status, status,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []Membership{}
	for rows.Next() {
		i, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type MembershipStats struct {
	Total    int64
	Pending  int64
	Approved int64
	Rejected int64
}

func (q *Queries) GetMembershipStats(ctx context.Context) (MembershipStats, error) {
	var s MembershipStats
	err := q.db.QueryRowContext(ctx,
		`SELECT
		   COUNT(*),
		   COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
		   COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0),
		   COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0)
		 FROM memberships`,
	).Scan(&s.Total, &s.Pending, &s.Approved, &s.Rejected)
	return s, err
}

type UpdateMembershipStatusParams struct {
	Status string
	ID     int64
}

func (q *Queries) UpdateMembershipStatus(ctx context.Context, arg UpdateMembershipStatusParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `UPDATE memberships SET status = ? WHERE id = ?`, arg.Status, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) DeleteMembership(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM memberships WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
