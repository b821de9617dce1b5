package jurisdictions

import (
	"net/url"
	"testing"
)

func builtinRegistry(t *testing.T) *Registry {
	t.Helper()

	r, err := Builtin(DefaultBase())
	if err != nil {
		t.Fatalf("Builtin() failed: %v", err)
	}
	return r
}

func TestBuiltin_AllRootURLsWellFormed(t *testing.T) {
	r := builtinRegistry(t)

	for _, name := range r.List() {
		rec, err := r.Get(name)
		if err != nil {
			t.Fatalf("Get(%q) failed: %v", name, err)
		}
		if rec.RootURL == "" {
			t.Errorf("%s: empty RootURL", name)
			continue
		}

		u, err := url.Parse(rec.RootURL)
		if err != nil {
			t.Errorf("%s: RootURL %q does not parse: %v", name, rec.RootURL, err)
			continue
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			t.Errorf("%s: RootURL %q has scheme %q", name, rec.RootURL, u.Scheme)
		}
		if u.Host == "" {
			t.Errorf("%s: RootURL %q has no host", name, rec.RootURL)
		}
	}
}

func TestBuiltin_DefaultsHoldWhereNotOverridden(t *testing.T) {
	r := builtinRegistry(t)

	overriddenPeople := map[string]bool{
		"Maricopa": true, "Mesa": true, "Foley": true, "BoroughofSitka": true,
	}
	overriddenClassification := map[string]bool{
		"Metro": true,
	}

	for _, name := range r.List() {
		rec, _ := r.Get(name)

		if !overriddenPeople[name] && !rec.PeopleSearchDetailAvailable {
			t.Errorf("%s: PeopleSearchDetailAvailable = false, want default true", name)
		}
		if !overriddenClassification[name] && rec.Classification != "government" {
			t.Errorf("%s: Classification = %q, want default %q", name, rec.Classification, "government")
		}
	}
}

func TestBuiltin_PeopleDetailOverride(t *testing.T) {
	r := builtinRegistry(t)

	rec, err := r.Get("Maricopa")
	if err != nil {
		t.Fatalf("Get(Maricopa) failed: %v", err)
	}
	if rec.PeopleSearchDetailAvailable {
		t.Error("Maricopa: PeopleSearchDetailAvailable = true, want overridden false")
	}
}

func TestBuiltin_OrgClassificationsOverride(t *testing.T) {
	r := builtinRegistry(t)

	barrie, err := r.Get("Barrie")
	if err != nil {
		t.Fatalf("Get(Barrie) failed: %v", err)
	}
	if got := barrie.OrgClassifications["Circulation List"]; got != "committee" {
		t.Errorf(`Barrie OrgClassifications["Circulation List"] = %q, want "committee"`, got)
	}
	if len(barrie.OrgClassifications) != 1 {
		t.Errorf("Barrie OrgClassifications has %d entries, want 1", len(barrie.OrgClassifications))
	}

	// No other builtin record carries the override.
	for _, name := range r.List() {
		if name == "Barrie" {
			continue
		}
		rec, _ := r.Get(name)
		if len(rec.OrgClassifications) != 0 {
			t.Errorf("%s: unexpected OrgClassifications %v", name, rec.OrgClassifications)
		}
	}
}

func TestBuiltin_TimezoneOverrideIsolation(t *testing.T) {
	r := builtinRegistry(t)

	lassen, err := r.Get("LassenCounty")
	if err != nil {
		t.Fatalf("Get(LassenCounty) failed: %v", err)
	}
	if lassen.Timezone != "America/Los_Angeles" {
		t.Errorf("LassenCounty Timezone = %q, want %q", lassen.Timezone, "America/Los_Angeles")
	}

	olympia, err := r.Get("Olympia")
	if err != nil {
		t.Fatalf("Get(Olympia) failed: %v", err)
	}
	if olympia.Timezone != DefaultBase().Timezone {
		t.Errorf("Olympia Timezone = %q, want registry default %q", olympia.Timezone, DefaultBase().Timezone)
	}
}

func TestBuiltin_TimezonesResolve(t *testing.T) {
	r := builtinRegistry(t)

	for _, name := range r.List() {
		rec, _ := r.Get(name)
		if _, err := rec.Location(); err != nil {
			t.Errorf("%s: timezone %q does not resolve: %v", name, rec.Timezone, err)
		}
	}
}

func TestBuiltin_CustomDefaultsApply(t *testing.T) {
	defaults := DefaultBase()
	defaults.Timezone = "America/Denver"

	r, err := Builtin(defaults)
	if err != nil {
		t.Fatalf("Builtin() failed: %v", err)
	}

	olympia, _ := r.Get("Olympia")
	if olympia.Timezone != "America/Denver" {
		t.Errorf("Olympia Timezone = %q, want configured default %q", olympia.Timezone, "America/Denver")
	}

	lassen, _ := r.Get("LassenCounty")
	if lassen.Timezone != "America/Los_Angeles" {
		t.Errorf("LassenCounty Timezone = %q, override must survive default change", lassen.Timezone)
	}
}
