package service

import (
	"testing"

	"github.com/linkedbud/linkedbud/internal/models"
)

func TestAttachmentKind(t *testing.T) {
	tests := []struct {
		ext  string
		kind string
		ok   bool
	}{
		{ext: "jpg", kind: models.AttachmentKindImage, ok: true},
		{ext: "jpeg", kind: models.AttachmentKindImage, ok: true},
		{ext: "png", kind: models.AttachmentKindImage, ok: true},
		{ext: "gif", kind: models.AttachmentKindImage, ok: true},
		{ext: "pdf", kind: models.AttachmentKindDocument, ok: true},
		{ext: "mp4", kind: models.AttachmentKindVideo, ok: true},
		{ext: "mov", kind: models.AttachmentKindVideo, ok: true},
		{ext: "exe", ok: false},
		{ext: "docx", ok: false},
		{ext: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			kind, ok := attachmentKind(tt.ext)
			if ok != tt.ok {
				t.Fatalf("attachmentKind(%q) ok = %v, want %v", tt.ext, ok, tt.ok)
			}
			if ok && kind != tt.kind {
				t.Errorf("attachmentKind(%q) = %q, want %q", tt.ext, kind, tt.kind)
			}
		})
	}
}
