package assets

import "testing"

func TestArtifactKey(t *testing.T) {
	cases := []struct {
		name string
		key  string
		ok   bool
	}{
		{"NEWS", "artifacts/NEWS.mov", true},
		{"trailer", "artifacts/TRAILER.mov", true},
		{" vs ", "artifacts/VS.mov", true},
		{"THROWBACK", "artifacts/THROWBACK.mov", true},
		{"FACT", "artifacts/FACT.mov", true},
		{"UNKNOWN", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		key, ok := ArtifactKey(tc.name)
		if ok != tc.ok || key != tc.key {
			t.Errorf("ArtifactKey(%q) = (%q, %v), want (%q, %v)", tc.name, key, ok, tc.key, tc.ok)
		}
	}
}

func TestLogoKeys(t *testing.T) {
	keys := LogoKeys("DemoAccount")
	if len(keys) != 2 {
		t.Fatalf("expected 2 candidates, got %v", keys)
	}
	if keys[0] != "artifacts/demoaccount/logo.png" {
		t.Errorf("account logo should be lowercased and tried first, got %q", keys[0])
	}
	if keys[1] != "artifacts/Logo.png" {
		t.Errorf("shared logo should be the fallback, got %q", keys[1])
	}

	keys = LogoKeys("")
	if len(keys) != 1 || keys[0] != "artifacts/Logo.png" {
		t.Errorf("empty account should only try the shared logo, got %v", keys)
	}
}
