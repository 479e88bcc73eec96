// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"testing"

	"github.com/olegiv/campus-site/internal/model"
)

func TestParseVideoURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want *model.VideoInfo
	}{
		{
			name: "youtube watch",
			url:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want: &model.VideoInfo{Type: "youtube", ID: "dQw4w9WgXcQ", EmbedURL: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		},
		{
			name: "youtube watch with extra params",
			url:  "https://youtube.com/watch?list=abc&v=dQw4w9WgXcQ&t=10",
			want: &model.VideoInfo{Type: "youtube", ID: "dQw4w9WgXcQ", EmbedURL: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		},
		{
			name: "youtube embed",
			url:  "https://www.youtube.com/embed/dQw4w9WgXcQ",
			want: &model.VideoInfo{Type: "youtube", ID: "dQw4w9WgXcQ", EmbedURL: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		},
		{
			name: "youtu.be",
			url:  "https://youtu.be/dQw4w9WgXcQ",
			want: &model.VideoInfo{Type: "youtube", ID: "dQw4w9WgXcQ", EmbedURL: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		},
		{
			name: "vimeo",
			url:  "https://vimeo.com/76979871",
			want: &model.VideoInfo{Type: "vimeo", ID: "76979871", EmbedURL: "https://player.vimeo.com/video/76979871"},
		},
		{
			name: "drive",
			url:  "https://drive.google.com/file/d/1AbC-dEf_123/view?usp=sharing",
			want: &model.VideoInfo{Type: "drive", ID: "1AbC-dEf_123", EmbedURL: "https://drive.google.com/file/d/1AbC-dEf_123/preview"},
		},
		{name: "short youtube id", url: "https://youtu.be/abc"},
		{name: "vimeo without id", url: "https://vimeo.com/channels"},
		{name: "other host", url: "https://example.com/video.mp4"},
		{name: "empty", url: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseVideoURL(tt.url)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("ParseVideoURL(%q) = %+v, want nil", tt.url, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseVideoURL(%q) = nil, want %+v", tt.url, tt.want)
			}
			if *got != *tt.want {
				t.Errorf("ParseVideoURL(%q) = %+v, want %+v", tt.url, *got, *tt.want)
			}
		})
	}
}
