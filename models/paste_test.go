package models

import "testing"

func TestResolveAuthor(t *testing.T) {
	tests := []struct {
		name     string
		identity *Identity
		wantID   string
		wantName string
	}{
		{"nil identity", nil, "", AnonymousAuthor},
		{"empty id", &Identity{DisplayName: "Ada"}, "", AnonymousAuthor},
		{"display name wins", &Identity{ID: "u1", DisplayName: "Ada", ContactAddress: "ada@example.com"}, "u1", "Ada"},
		{"contact address fallback", &Identity{ID: "u2", ContactAddress: "bob@example.com"}, "u2", "bob@example.com"},
		{"no labels at all", &Identity{ID: "u3"}, "u3", AnonymousAuthor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotID, gotName := ResolveAuthor(tt.identity)
			if gotID != tt.wantID || gotName != tt.wantName {
				t.Fatalf("ResolveAuthor() = (%q, %q), want (%q, %q)", gotID, gotName, tt.wantID, tt.wantName)
			}
		})
	}
}

func TestVisibilityIsValid(t *testing.T) {
	for _, v := range []Visibility{VisibilityPublic, VisibilityUnlisted, VisibilityPrivate} {
		if !v.IsValid() {
			t.Errorf("expected %q to be valid", v)
		}
	}
	for _, v := range []Visibility{"", "hidden", "PUBLIC"} {
		if v.IsValid() {
			t.Errorf("expected %q to be invalid", v)
		}
	}
}

func TestLanguageNormalize(t *testing.T) {
	if got := Language("go").Normalize(); got != "go" {
		t.Errorf("known language changed by Normalize: %q", got)
	}
	if got := Language("brainfuck").Normalize(); got != LanguageText {
		t.Errorf("unknown language should normalize to %q, got %q", LanguageText, got)
	}
	if got := Language("").Normalize(); got != LanguageText {
		t.Errorf("empty language should normalize to %q, got %q", LanguageText, got)
	}
}

func TestLanguageExtension(t *testing.T) {
	tests := []struct {
		lang Language
		want string
	}{
		{"go", "go"},
		{"python", "py"},
		{"typescript", "ts"},
		{"ruby", "rb"},
		{"text", "txt"},
		{"unknown", "txt"},
	}
	for _, tt := range tests {
		if got := tt.lang.Extension(); got != tt.want {
			t.Errorf("Extension(%q) = %q, want %q", tt.lang, got, tt.want)
		}
	}
}

func TestIsAnonymous(t *testing.T) {
	p := &Paste{AuthorName: AnonymousAuthor}
	if !p.IsAnonymous() {
		t.Fatalf("paste without author id should be anonymous")
	}
	p.AuthorID = "u1"
	if p.IsAnonymous() {
		t.Fatalf("paste with author id should not be anonymous")
	}
}
