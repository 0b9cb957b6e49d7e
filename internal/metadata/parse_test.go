package metadata

import (
	"strings"
	"testing"
)

func TestSplitTags(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a, b, c", []string{"a", "b", "c"}},
		{" spaced ,  tags ", []string{"spaced", "tags"}},
		{"single", []string{"single"}},
		{",,,", nil},
		{"", nil},
		{"multi word tag, another one", []string{"multi word tag", "another one"}},
	}

	for _, tc := range cases {
		got := SplitTags(tc.in)
		if len(got) != len(tc.want) {
			t.Errorf("SplitTags(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("SplitTags(%q) = %v, want %v", tc.in, got, tc.want)
				break
			}
		}
	}
}

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"22", "22"},
		{"28", "28"},
		{" 10 ", "10"},
		{"26.", "26"},
		{"99", DefaultCategoryID},
		{"Music", DefaultCategoryID},
		{"", DefaultCategoryID},
	}

	for _, tc := range cases {
		if got := NormalizeCategory(tc.in); got != tc.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestContextBlockDefaults(t *testing.T) {
	block := contextBlock(Input{Text: "some content"})

	if !strings.Contains(block, "Content: some content") {
		t.Fatalf("expected content line in %q", block)
	}
	if !strings.Contains(block, "Target Audience: general") {
		t.Fatalf("expected default audience in %q", block)
	}
	if !strings.Contains(block, "Style: informative") {
		t.Fatalf("expected default style in %q", block)
	}
}
