// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"path/filepath"
	"strings"
	"time"
)

// Supported image MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// Upload types partition the uploads directory.
const (
	UploadTypeHero        = "hero"
	UploadTypeSpecialties = "specialties"
	UploadTypeNews        = "news"
	UploadTypePages       = "pages"
	UploadTypeGeneral     = "general"
)

// UploadTypes lists every accepted upload partition.
var UploadTypes = []string{
	UploadTypeHero,
	UploadTypeSpecialties,
	UploadTypeNews,
	UploadTypePages,
	UploadTypeGeneral,
}

// IsValidUploadType reports whether t names a known upload partition.
func IsValidUploadType(t string) bool {
	for _, ut := range UploadTypes {
		if ut == t {
			return true
		}
	}
	return false
}

// imageExtensions maps accepted file extensions to their MIME type.
var imageExtensions = map[string]string{
	".jpg":  MimeTypeJPEG,
	".jpeg": MimeTypeJPEG,
	".png":  MimeTypePNG,
	".gif":  MimeTypeGIF,
	".webp": MimeTypeWebP,
}

// MimeTypeForFilename returns the image MIME type implied by the filename
// extension, or "" when the extension is not an accepted image type.
func MimeTypeForFilename(filename string) string {
	return imageExtensions[strings.ToLower(filepath.Ext(filename))]
}

// ExtensionForMimeType returns the canonical file extension for an image MIME type.
func ExtensionForMimeType(mimeType string) string {
	switch mimeType {
	case MimeTypeJPEG:
		return ".jpg"
	case MimeTypePNG:
		return ".png"
	case MimeTypeGIF:
		return ".gif"
	case MimeTypeWebP:
		return ".webp"
	default:
		return ""
	}
}

// HeroSlide is a home page carousel entry.
type HeroSlide struct {
	ID           int64     `json:"id"`
	Title        *string   `json:"title"`
	Subtitle     *string   `json:"subtitle"`
	ImageURL     string    `json:"image_url"`
	LinkURL      *string   `json:"link_url"`
	LinkText     *string   `json:"link_text"`
	DisplayOrder int64     `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Specialty is an academic program listing.
type Specialty struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	NameAr       string    `json:"name_ar"`
	Icon         string    `json:"icon"`
	Description  *string   `json:"description"`
	ImageURL     *string   `json:"image_url"`
	VideoURL     *string   `json:"video_url"`
	VideoType    *string   `json:"video_type"`
	Items        []string  `json:"items"`
	Duration     *string   `json:"duration"`
	DisplayOrder int64     `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// VideoInfo describes a recognized video link.
type VideoInfo struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	EmbedURL string `json:"embedUrl"`
}

// Upload is the result of storing an uploaded image.
type Upload struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}
