package analyst_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/verdict/internal/analyst"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   analyst.Input
		wantErr bool
	}{
		{"valid minimal", analyst.Input{Text: "hi"}, false},
		{"valid full", analyst.Input{Text: "hi", Platform: analyst.PlatformInstagram, PlatformType: analyst.PlatformTypeStory, Mode: analyst.ModePost}, false},
		{"instagram without type", analyst.Input{Text: "hi", Platform: analyst.PlatformInstagram}, false},
		{"blank text", analyst.Input{Text: "  \n"}, true},
		{"unknown platform", analyst.Input{Text: "hi", Platform: "TikTok"}, true},
		{"unknown type", analyst.Input{Text: "hi", PlatformType: "Carousel"}, true},
		{"unknown mode", analyst.Input{Text: "hi", Mode: "during"}, true},
		{"empty image", analyst.Input{Text: "hi", Image: &analyst.Media{}}, true},
		{"empty video", analyst.Input{Text: "hi", Video: &analyst.Media{MIMEType: "video/mp4"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				if !errors.Is(err, analyst.ErrInvalidInput) {
					t.Errorf("Validate() error = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestMIMEResolution(t *testing.T) {
	tests := []struct {
		name  string
		input analyst.Input
		image string
		video string
	}{
		{"declared wins", analyst.Input{Image: &analyst.Media{Data: pngHeader, MIMEType: "image/gif"}}, "image/gif", ""},
		{"sniffed png", analyst.Input{Image: &analyst.Media{Data: pngHeader}}, "image/png", ""},
		{"unknown image defaults", analyst.Input{Image: &analyst.Media{Data: []byte("plain text")}}, "image/jpeg", ""},
		{"png bytes as video default", analyst.Input{Video: &analyst.Media{Data: pngHeader}}, "", "video/mp4"},
		{"no media", analyst.Input{}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.input.ImageMIME(); got != tt.image {
				t.Errorf("ImageMIME() = %q, want %q", got, tt.image)
			}
			if got := tt.input.VideoMIME(); got != tt.video {
				t.Errorf("VideoMIME() = %q, want %q", got, tt.video)
			}
		})
	}
}

func TestParseVerdict(t *testing.T) {
	if _, ok := analyst.ParseVerdict("GOOD"); ok {
		t.Error("ParseVerdict(GOOD) should fail")
	}
	if v, ok := analyst.ParseVerdict("nogo"); !ok || v != analyst.VerdictNoGo {
		t.Errorf("ParseVerdict(nogo) = %q, %v", v, ok)
	}
}
