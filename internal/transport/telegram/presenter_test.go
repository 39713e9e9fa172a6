package telegram

import (
	"strings"
	"testing"

	"moviesearch/internal/domain"
)

func TestRenderResponseButtons(t *testing.T) {
	model := domain.ResponseModel{
		Query:        "sholay",
		DisplayTitle: "Sholay",
		Items: []domain.PresentableItem{
			{
				Kind:  domain.SourceArchive,
				Title: "Sholay (1975)",
				Assets: []domain.Asset{
					{Label: "sholay.mp4", URL: "https://archive.example/dl/sholay.mp4"},
					{Label: "sholay.mkv", URL: "https://archive.example/dl/sholay.mkv"},
				},
			},
			{
				Kind:         domain.SourceArchive,
				Title:        "Sholay restored print",
				FallbackLink: "https://archive.example/details/sholay-restored",
			},
			{
				Kind:  domain.SourceClip,
				Title: "Ravi",
				Link:  "https://clips.example/101.mp4",
			},
		},
	}

	text, keyboard := renderResponse(model)

	if !strings.Contains(text, `Results for "Sholay"`) {
		t.Fatalf("missing header: %q", text)
	}
	if !strings.Contains(text, "1. Sholay (1975)") || !strings.Contains(text, "3. Ravi") {
		t.Fatalf("items missing from text: %q", text)
	}

	if len(keyboard.InlineKeyboard) != 4 {
		t.Fatalf("expected 4 button rows, got %d", len(keyboard.InlineKeyboard))
	}
	first := keyboard.InlineKeyboard[0][0]
	if first.Text != "sholay.mp4" || first.URL == nil || *first.URL != "https://archive.example/dl/sholay.mp4" {
		t.Fatalf("unexpected first button: %+v", first)
	}
	fallback := keyboard.InlineKeyboard[2][0]
	if fallback.URL == nil || *fallback.URL != "https://archive.example/details/sholay-restored" {
		t.Fatalf("unexpected fallback button: %+v", fallback)
	}
}

func TestRenderResponseNotesCorrectedTitle(t *testing.T) {
	model := domain.ResponseModel{
		Query:        "sholey",
		DisplayTitle: "Sholay",
		Items: []domain.PresentableItem{
			{Kind: domain.SourceClip, Title: "Clip", Link: "https://clips.example/1.mp4"},
		},
	}

	text, _ := renderResponse(model)
	if !strings.Contains(text, `searched as "sholey"`) {
		t.Fatalf("corrected title note missing: %q", text)
	}
}

func TestButtonLabelTruncation(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "short stays", in: "sholay.mp4", want: "sholay.mp4"},
		{name: "empty becomes Open", in: "  ", want: "Open"},
		{
			name: "long truncated",
			in:   "Sholay.1975.Remastered.1080p.BluRay.x265.mkv",
			want: "Sholay.1975.Remastered.1080p.B...",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := buttonLabel(tc.in); got != tc.want {
				t.Fatalf("buttonLabel(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
