package names

import (
	"testing"

	"github.com/ignite/email-enrich/internal/domain"
)

func TestSlugNames(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		knownFirst string
		wantFirst  string
		wantLast   string
	}{
		{
			name:      "hex uniquifier stripped",
			url:       "https://www.linkedin.com/in/john-smith-7b4ab073",
			wantFirst: "john",
			wantLast:  "smith",
		},
		{
			name:      "credential suffix stripped",
			url:       "https://linkedin.com/in/jane-doe-md",
			wantFirst: "jane",
			wantLast:  "doe",
		},
		{
			name:      "single token slug",
			url:       "https://www.linkedin.com/in/sarahjohnson",
			wantFirst: "sarahjohnson",
			wantLast:  "",
		},
		{
			name:       "known first anchors multi-part surname",
			url:        "https://www.linkedin.com/in/john-van-der-berg",
			knownFirst: "john",
			wantFirst:  "john",
			wantLast:   "van-der-berg",
		},
		{
			name:       "anchor matched mid-slug",
			url:        "https://www.linkedin.com/in/dr-jonathan-smith",
			knownFirst: "jonathan",
			wantFirst:  "jonathan",
			wantLast:   "smith",
		},
		{
			name:       "unmatched known first still claims the remainder",
			url:        "https://www.linkedin.com/in/robert-jones-smith",
			knownFirst: "bob",
			wantFirst:  "bob",
			wantLast:   "jones-smith",
		},
		{
			name:      "skip words ignored",
			url:       "https://www.linkedin.com/in/linkedin-profile-mary-jones",
			wantFirst: "mary",
			wantLast:  "jones",
		},
		{
			name:      "not a profile url",
			url:       "https://example.com/about",
			wantFirst: "",
			wantLast:  "",
		},
		{
			name:      "empty url",
			url:       "",
			wantFirst: "",
			wantLast:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := SlugNames(tt.url, tt.knownFirst)
			if first != tt.wantFirst || last != tt.wantLast {
				t.Errorf("SlugNames(%q, %q) = (%q, %q), want (%q, %q)",
					tt.url, tt.knownFirst, first, last, tt.wantFirst, tt.wantLast)
			}
		})
	}
}

func TestValidateWithProfile(t *testing.T) {
	tests := []struct {
		name      string
		parts     domain.NameParts
		url       string
		wantFirst string
		wantLast  string
	}{
		{
			name:      "fills missing surname",
			parts:     Standardize("John", ""),
			url:       "https://www.linkedin.com/in/john-smith",
			wantFirst: "john",
			wantLast:  "smith",
		},
		{
			name:      "upgrades to hyphenated surname",
			parts:     Standardize("Sarah", "Smith"),
			url:       "https://www.linkedin.com/in/sarah-smith-jones",
			wantFirst: "sarah",
			wantLast:  "smith-jones",
		},
		{
			name:      "rescues contact with no names at all",
			parts:     domain.NameParts{},
			url:       "https://www.linkedin.com/in/jane-doe",
			wantFirst: "jane",
			wantLast:  "doe",
		},
		{
			name:      "adopts fuller first name",
			parts:     Standardize("Al", "Smith"),
			url:       "https://www.linkedin.com/in/albert",
			wantFirst: "albert",
			wantLast:  "smith",
		},
		{
			name:      "stranger profile never overwrites",
			parts:     Standardize("Maria", "Gonzalez"),
			url:       "https://www.linkedin.com/in/thomas-anderson",
			wantFirst: "maria",
			wantLast:  "gonzalez",
		},
		{
			name:      "squash-equal surname keeps the record form",
			parts:     Standardize("Mary", "Van Dyke"),
			url:       "https://www.linkedin.com/in/mary-van-dyke",
			wantFirst: "mary",
			wantLast:  "van dyke",
		},
		{
			name:      "no url leaves parts alone",
			parts:     Standardize("John", "Smith"),
			url:       "",
			wantFirst: "john",
			wantLast:  "smith",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateWithProfile(tt.parts, tt.url)
			if got.First != tt.wantFirst {
				t.Errorf("First = %q, want %q", got.First, tt.wantFirst)
			}
			if got.Last != tt.wantLast {
				t.Errorf("Last = %q, want %q", got.Last, tt.wantLast)
			}
		})
	}
}

func TestValidateWithProfileSentinel(t *testing.T) {
	parts := Standardize("John", "")
	got := ValidateWithProfile(parts, "https://www.linkedin.com/in/johnny")
	if got.First != "johnny" {
		t.Errorf("First = %q, want %q", got.First, "johnny")
	}
	if got.Last != domain.LastNameSentinel {
		t.Errorf("Last = %q, want sentinel %q", got.Last, domain.LastNameSentinel)
	}
}

func TestPlausiblySame(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"jonathan", "jon", true},
		{"smithjones", "smith", true},
		{"smyth", "smith", true},
		{"anderson", "gonzalez", false},
		{"", "smith", false},
	}
	for _, tt := range tests {
		if got := plausiblySame(tt.a, tt.b); got != tt.want {
			t.Errorf("plausiblySame(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
