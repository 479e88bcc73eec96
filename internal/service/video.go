// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"regexp"
	"strings"

	"github.com/olegiv/campus-site/internal/model"
)

var (
	youtubeRegex = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:[^#]*&)?v=|embed/)|youtu\.be/)([A-Za-z0-9_-]{11})`)
	vimeoRegex   = regexp.MustCompile(`vimeo\.com/(?:video/)?(\d+)`)
	driveRegex   = regexp.MustCompile(`drive\.google\.com/file/d/([A-Za-z0-9_-]+)`)
)

// ParseVideoURL recognizes YouTube, Vimeo and Google Drive links and returns
// the embeddable form, or nil when the URL is not from a supported host.
func ParseVideoURL(rawURL string) *model.VideoInfo {
	u := strings.TrimSpace(rawURL)
	if u == "" {
		return nil
	}

	if m := youtubeRegex.FindStringSubmatch(u); m != nil {
		return &model.VideoInfo{
			Type:     model.VideoTypeYouTube,
			ID:       m[1],
			EmbedURL: "https://www.youtube.com/embed/" + m[1],
		}
	}
	if m := vimeoRegex.FindStringSubmatch(u); m != nil {
		return &model.VideoInfo{
			Type:     model.VideoTypeVimeo,
			ID:       m[1],
			EmbedURL: "https://player.vimeo.com/video/" + m[1],
		}
	}
	if m := driveRegex.FindStringSubmatch(u); m != nil {
		return &model.VideoInfo{
			Type:     model.VideoTypeDrive,
			ID:       m[1],
			EmbedURL: "https://drive.google.com/file/d/" + m[1] + "/preview",
		}
	}
	return nil
}
