// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// NewsArticle is a news item, event or announcement.
type NewsArticle struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	ImageURL  *string   `json:"image_url"`
	Location  *string   `json:"location"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is a contact form submission.
type Message struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Membership is a membership application.
type Membership struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	University    string    `json:"university"`
	Major         string    `json:"major"`
	AcademicLevel string    `json:"academic_level"`
	Wilaya        string    `json:"wilaya"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// MembershipStats counts applications by status.
type MembershipStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// Admin is the public view of an administrator account.
type Admin struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
