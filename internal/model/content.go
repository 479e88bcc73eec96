// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain constants and enumerations shared by the
// store, service and handler layers.
package model

// News categories
const (
	NewsCategoryNews         = "news"
	NewsCategoryEvent        = "event"
	NewsCategoryAnnouncement = "announcement"

	// NewsCategoryAll disables category filtering on listings.
	NewsCategoryAll = "all"
)

// Membership application statuses
const (
	MembershipStatusPending  = "pending"
	MembershipStatusApproved = "approved"
	MembershipStatusRejected = "rejected"
)

// IsValidMembershipStatus reports whether s is a known application status.
func IsValidMembershipStatus(s string) bool {
	switch s {
	case MembershipStatusPending, MembershipStatusApproved, MembershipStatusRejected:
		return true
	}
	return false
}

// Page section content types
const (
	ContentTypeText = "text"
	ContentTypeHTML = "html"
)

// Video hosting providers for specialties
const (
	VideoTypeYouTube = "youtube"
	VideoTypeVimeo   = "vimeo"
	VideoTypeDrive   = "drive"
)
