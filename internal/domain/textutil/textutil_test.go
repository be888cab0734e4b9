package textutil

import "testing"

func TestCleanComposesHangul(t *testing.T) {
	decomposed := "\u1100\u1161" // choseong kiyeok + jungseong a
	if got := Clean("  " + decomposed + " "); got != "\uac00" {
		t.Fatalf("expected composed syllable, got %q", got)
	}
}

func TestCleanPtr(t *testing.T) {
	if CleanPtr(nil) != nil {
		t.Fatalf("expected nil to stay nil")
	}
	value := "  귤 5kg "
	got := CleanPtr(&value)
	if got == nil || *got != "귤 5kg" {
		t.Fatalf("expected trimmed value, got %v", got)
	}
}
