// Package config resolves the per-run tunables of the research pipeline.
//
// Every option has a compiled-in default, may be replaced by an override
// mapping supplied by the caller (for example loaded with LoadOverrides), and
// may in turn be replaced by an environment variable named after the option
// in upper case:
//
//	SEARCH_TEMPERATURE=0.9  >  overrides["search_temperature"]  >  0.0
//
// Values that are empty after trimming are treated as absent. Values that do
// not parse or fall outside an option's bounds fail with ErrConfiguration.
package config
