// Package jurisdictions holds the per-jurisdiction configuration table for the
// Legistar portal instances the dispatcher knows how to scrape. The table is
// built once at startup and is read-only afterwards.
package jurisdictions

import (
	"maps"
	"strings"
	"time"
	"unicode"
)

// Record is a fully resolved jurisdiction configuration. Every optional field
// has already been filled from the shared Defaults, so consumers never see a
// half-populated record.
type Record struct {
	Name       string `json:"name"`
	RootURL    string `json:"root_url"`
	DivisionID string `json:"division_id,omitempty"`

	Classification string `json:"classification"`
	VerboseName    string `json:"verbose_name"`

	// PeopleSearchDetailAvailable reports whether the portal instance renders
	// the people search-detail table. Some deployments lack it or serve a
	// broken one, and the scraper has to skip roster detail pages there.
	PeopleSearchDetailAvailable bool `json:"ppl_search_table_detail_available"`

	// OrgClassifications maps raw organization type labels, as the portal
	// prints them, to normalized classification tags.
	OrgClassifications map[string]string `json:"org_classifications,omitempty"`

	// Timezone is the IANA zone used to interpret portal timestamps.
	Timezone string `json:"timezone"`

	// BillDetailTextAgenda is the label of the detail-page field that carries
	// the "on agenda" date for a legislative item.
	BillDetailTextAgenda string `json:"bill_detail_text_agenda"`
}

// Seed is the construction-time form of a record: only Name and RootURL are
// required, everything else inherits from the registry's Defaults when left
// zero. One level of overriding, nothing recursive.
type Seed struct {
	Name       string `json:"name"`
	RootURL    string `json:"root_url"`
	DivisionID string `json:"division_id"`

	Classification string `json:"classification"`
	VerboseName    string `json:"verbose_name"`

	PeopleSearchDetailAvailable *bool             `json:"ppl_search_table_detail_available"`
	OrgClassifications          map[string]string `json:"org_classifications"`
	Timezone                    string            `json:"timezone"`
	BillDetailTextAgenda        string            `json:"bill_detail_text_agenda"`
}

// Defaults carries the registry-wide field values a Seed inherits when it does
// not override them.
type Defaults struct {
	Classification              string
	DivisionID                  string
	Timezone                    string
	PeopleSearchDetailAvailable bool
	BillDetailTextAgenda        string
}

func DefaultBase() Defaults {
	return Defaults{
		Classification:              "government",
		Timezone:                    "America/New_York",
		PeopleSearchDetailAvailable: true,
		BillDetailTextAgenda:        "On agenda:",
	}
}

// Resolve overlays the seed on the defaults and produces a complete record.
func (d Defaults) Resolve(s Seed) Record {
	rec := Record{
		Name:                        s.Name,
		RootURL:                     s.RootURL,
		DivisionID:                  s.DivisionID,
		Classification:              s.Classification,
		VerboseName:                 s.VerboseName,
		OrgClassifications:          maps.Clone(s.OrgClassifications),
		Timezone:                    s.Timezone,
		BillDetailTextAgenda:        s.BillDetailTextAgenda,
		PeopleSearchDetailAvailable: d.PeopleSearchDetailAvailable,
	}

	if s.PeopleSearchDetailAvailable != nil {
		rec.PeopleSearchDetailAvailable = *s.PeopleSearchDetailAvailable
	}
	if rec.DivisionID == "" {
		rec.DivisionID = d.DivisionID
	}
	if rec.Classification == "" {
		rec.Classification = d.Classification
	}
	if rec.Timezone == "" {
		rec.Timezone = d.Timezone
	}
	if rec.BillDetailTextAgenda == "" {
		rec.BillDetailTextAgenda = d.BillDetailTextAgenda
	}
	if rec.VerboseName == "" {
		rec.VerboseName = humanizeName(s.Name)
	}

	return rec
}

// Location resolves the record's timezone for timestamp interpretation.
func (r Record) Location() (*time.Location, error) {
	return time.LoadLocation(r.Timezone)
}

// clone returns a copy the caller may keep without aliasing registry state.
func (r Record) clone() Record {
	r.OrgClassifications = maps.Clone(r.OrgClassifications)
	return r
}

// humanizeName splits a CamelCase jurisdiction name into words, so
// "LassenCounty" displays as "Lassen County".
func humanizeName(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
