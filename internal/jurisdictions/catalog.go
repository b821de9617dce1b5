package jurisdictions

// Builtin assembles the registry of known Legistar deployments on top of the
// given defaults.
func Builtin(defaults Defaults) (*Registry, error) {
	r := NewRegistry(defaults)
	if err := r.RegisterAll(builtinSeeds); err != nil {
		return nil, err
	}
	return r, nil
}

func disabled() *bool {
	f := false
	return &f
}

// builtinSeeds lists one entry per portal instance. Only deviations from the
// shared defaults are spelled out.
var builtinSeeds = []Seed{
	{
		Name:       "Phoenix",
		RootURL:    "https://phoenix.legistar.com/",
		DivisionID: "ocd-division/country:us/state:az/place:phoenix",
		Timezone:   "America/Phoenix",
	},
	{
		Name:       "Maricopa",
		RootURL:    "https://maricopa.legistar.com/",
		DivisionID: "ocd-division/country:us/state:az/county:maricopa",
		Timezone:   "America/Phoenix",
		// Roster detail pages 404 on this deployment.
		PeopleSearchDetailAvailable: disabled(),
	},
	{
		Name:                        "Mesa",
		RootURL:                     "https://mesa.legistar.com/",
		DivisionID:                  "ocd-division/country:us/state:az/place:mesa",
		Timezone:                    "America/Phoenix",
		PeopleSearchDetailAvailable: disabled(),
	},
	{
		Name:       "Pittsburgh",
		RootURL:    "https://pittsburgh.legistar.com/",
		DivisionID: "ocd-division/country:us/state:pa/place:pittsburgh",
	},
	{
		Name:       "Philadelphia",
		RootURL:    "https://phila.legistar.com/",
		DivisionID: "ocd-division/country:us/state:pa/place:philadelphia",
	},
	{
		Name:                 "NewYorkCity",
		RootURL:              "http://legistar.council.nyc.gov/",
		DivisionID:           "ocd-division/country:us/state:ny/place:new_york",
		VerboseName:          "New York City Council",
		BillDetailTextAgenda: "Agenda date:",
	},
	{
		Name:       "Newark",
		RootURL:    "https://newark.legistar.com/",
		DivisionID: "ocd-division/country:us/state:nj/place:newark",
	},
	{
		Name:       "Gainesville",
		RootURL:    "https://gainesville.legistar.com/",
		DivisionID: "ocd-division/country:us/state:fl/place:gainesville",
	},
	{
		Name:       "Chicago",
		RootURL:    "https://chicago.legistar.com/",
		DivisionID: "ocd-division/country:us/state:il/place:chicago",
		Timezone:   "America/Chicago",
	},
	{
		Name:       "Madison",
		RootURL:    "https://madison.legistar.com/",
		DivisionID: "ocd-division/country:us/state:wi/place:madison",
		Timezone:   "America/Chicago",
	},
	{
		Name:       "Milwaukee",
		RootURL:    "https://milwaukee.legistar.com/",
		DivisionID: "ocd-division/country:us/state:wi/place:milwaukee",
		Timezone:   "America/Chicago",
	},
	{
		Name:       "CorpusChristi",
		RootURL:    "https://corpuschristi.legistar.com/",
		DivisionID: "ocd-division/country:us/state:tx/place:corpus_christi",
		Timezone:   "America/Chicago",
	},
	{
		Name:       "Denton",
		RootURL:    "https://denton.legistar.com/",
		DivisionID: "ocd-division/country:us/state:tx/place:denton",
		Timezone:   "America/Chicago",
	},
	{
		Name:     "Foley",
		RootURL:  "https://cityoffoley.legistar.com/",
		Timezone: "America/Chicago",
		// No division id assigned yet; roster detail is absent outright.
		PeopleSearchDetailAvailable: disabled(),
	},
	{
		Name:       "Oakland",
		RootURL:    "https://oakland.legistar.com/",
		DivisionID: "ocd-division/country:us/state:ca/place:oakland",
		Timezone:   "America/Los_Angeles",
	},
	{
		Name:       "LongBeach",
		RootURL:    "https://longbeach.legistar.com/",
		DivisionID: "ocd-division/country:us/state:ca/place:long_beach",
		Timezone:   "America/Los_Angeles",
	},
	{
		Name:       "SanJose",
		RootURL:    "https://sanjose.legistar.com/",
		DivisionID: "ocd-division/country:us/state:ca/place:san_jose",
		Timezone:   "America/Los_Angeles",
	},
	{
		Name:       "Sacramento",
		RootURL:    "https://sacramento.legistar.com/",
		DivisionID: "ocd-division/country:us/state:ca/place:sacramento",
		Timezone:   "America/Los_Angeles",
	},
	{
		Name:       "SantaBarbara",
		RootURL:    "https://santabarbara.legistar.com/",
		DivisionID: "ocd-division/country:us/state:ca/county:santa_barbara",
		Timezone:   "America/Los_Angeles",
	},
	{
		Name:       "LassenCounty",
		RootURL:    "https://lassen.legistar.com/",
		DivisionID: "ocd-division/country:us/state:ca/county:lassen",
		Timezone:   "America/Los_Angeles",
	},
	{
		Name:       "SolanoCounty",
		RootURL:    "https://solano.legistar.com/",
		DivisionID: "ocd-division/country:us/state:ca/county:solano",
		Timezone:   "America/Los_Angeles",
	},
	{
		Name:           "Metro",
		RootURL:        "https://metro.legistar.com/",
		DivisionID:     "ocd-division/country:us/state:ca/county:los_angeles",
		VerboseName:    "Los Angeles County Metropolitan Transportation Authority",
		Classification: "transit_authority",
		Timezone:       "America/Los_Angeles",
	},
	{
		Name:       "Seattle",
		RootURL:    "https://seattle.legistar.com/",
		DivisionID: "ocd-division/country:us/state:wa/place:seattle",
		Timezone:   "America/Los_Angeles",
	},
	{
		Name:       "KingCounty",
		RootURL:    "https://kingcounty.legistar.com/",
		DivisionID: "ocd-division/country:us/state:wa/county:king",
		Timezone:   "America/Los_Angeles",
	},
	{
		Name:       "Olympia",
		RootURL:    "https://olympia.legistar.com/",
		DivisionID: "ocd-division/country:us/state:wa/place:olympia",
	},
	{
		Name:        "BoroughofSitka",
		RootURL:     "https://sitka.legistar.com/",
		VerboseName: "Borough of Sitka",
		Timezone:    "America/Anchorage",
		// Portal predates the roster detail table.
		PeopleSearchDetailAvailable: disabled(),
	},
	{
		Name:       "Barrie",
		RootURL:    "https://barrie.legistar.com/",
		DivisionID: "ocd-division/country:ca/csd:3543042",
		Timezone:   "America/Toronto",
		OrgClassifications: map[string]string{
			"Circulation List": "committee",
		},
	},
}
