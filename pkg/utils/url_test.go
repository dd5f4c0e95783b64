package utils

import (
	"net/url"
	"testing"
)

func TestHashURL(t *testing.T) {
	a := HashURL("https://example.com/a")
	if len(a) != 64 {
		t.Fatalf("len(HashURL) = %d, want 64", len(a))
	}
	if a != HashURL("https://example.com/a") {
		t.Error("HashURL is not deterministic")
	}
	if a == HashURL("https://example.com/b") {
		t.Error("different URLs produced the same hash")
	}
}

func TestToAbsoluteURL(t *testing.T) {
	base, _ := url.Parse("https://example.com/catalog/page.html")
	tests := []struct {
		in, want string
	}{
		{"/about", "https://example.com/about"},
		{"item", "https://example.com/catalog/item"},
		{" ../news ", "https://example.com/news"},
		{"https://other.org/x", "https://other.org/x"},
	}
	for _, tc := range tests {
		got, err := ToAbsoluteURL(base, tc.in)
		if err != nil {
			t.Fatalf("ToAbsoluteURL(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ToAbsoluteURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHasSitePrefix(t *testing.T) {
	tests := []struct {
		url, site string
		want      bool
	}{
		{"https://example.com/a", "https://example.com", true},
		{"https://Example.com/a", "https://example.com/", true},
		{"https://example.com", "https://example.com", true},
		{"https://example.com.evil.org/a", "https://example.com", false},
		{"https://other.org/", "https://example.com", false},
	}
	for _, tc := range tests {
		if got := HasSitePrefix(tc.url, tc.site); got != tc.want {
			t.Errorf("HasSitePrefix(%q, %q) = %v, want %v", tc.url, tc.site, got, tc.want)
		}
	}
}

func TestTrimSitePrefix(t *testing.T) {
	tests := []struct {
		url, site, want string
	}{
		{"https://example.com/a", "https://example.com", "/a"},
		{"https://EXAMPLE.com/News?id=1", "https://example.com/", "/News?id=1"},
		{"https://example.com", "https://example.com", ""},
		{"https://other.org/a", "https://example.com", "https://other.org/a"},
	}
	for _, tc := range tests {
		if got := TrimSitePrefix(tc.url, tc.site); got != tc.want {
			t.Errorf("TrimSitePrefix(%q, %q) = %q, want %q", tc.url, tc.site, got, tc.want)
		}
	}
}
