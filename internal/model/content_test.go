// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestEnumValidators(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(string) bool
		value string
		want  bool
	}{
		{"status pending", IsValidMembershipStatus, "pending", true},
		{"status approved", IsValidMembershipStatus, "approved", true},
		{"status rejected", IsValidMembershipStatus, "rejected", true},
		{"status uppercase", IsValidMembershipStatus, "APPROVED", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.value); got != tt.want {
				t.Errorf("validator(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestMimeTypeForFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"photo.jpg", MimeTypeJPEG},
		{"photo.JPEG", MimeTypeJPEG},
		{"logo.png", MimeTypePNG},
		{"anim.gif", MimeTypeGIF},
		{"banner.webp", MimeTypeWebP},
		{"doc.pdf", ""},
		{"noext", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := MimeTypeForFilename(tt.filename); got != tt.want {
				t.Errorf("MimeTypeForFilename(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestUploadTypes(t *testing.T) {
	for _, ut := range UploadTypes {
		if !IsValidUploadType(ut) {
			t.Errorf("IsValidUploadType(%q) = false, want true", ut)
		}
	}
	for _, bad := range []string{"", "../etc", "avatars", "Hero"} {
		if IsValidUploadType(bad) {
			t.Errorf("IsValidUploadType(%q) = true, want false", bad)
		}
	}
}

func TestExtensionForMimeType(t *testing.T) {
	if got := ExtensionForMimeType(MimeTypeJPEG); got != ".jpg" {
		t.Errorf("ExtensionForMimeType(jpeg) = %q, want .jpg", got)
	}
	if got := ExtensionForMimeType("application/pdf"); got != "" {
		t.Errorf("ExtensionForMimeType(pdf) = %q, want empty", got)
	}
}
