package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, Ingest files, ExportFile, Limit).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int
	s = c.Database.Host
	if s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	i = c.Database.Port
	if i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	s = c.Database.User
	if s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	s = c.Database.Password
	if s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	s = c.Database.Database
	if s != "" {
		res = append(res, OptDatabaseDatabase(s))
	}
	s = c.Database.SSLMode
	if s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}
	i = c.Database.BatchSize
	if i > 0 {
		res = append(res, OptDatabaseBatchSize(i))
	}

	var f float64
	f = c.Classify.StateVariantMin
	if f > 0 {
		res = append(res, OptClassifyStateVariantMin(f))
	}
	f = c.Classify.ProgressionMin
	if f > 0 {
		res = append(res, OptClassifyProgressionMin(f))
	}
	f = c.Classify.ProgressionMax
	if f > 0 {
		res = append(res, OptClassifyProgressionMax(f))
	}
	i = c.Classify.MaxPairwise
	if i > 0 {
		res = append(res, OptClassifyMaxPairwise(i))
	}
	i = c.Classify.Window
	if i > 0 {
		res = append(res, OptClassifyWindow(i))
	}
	if len(c.Classify.UniversalAuthorities) > 0 {
		res = append(res,
			OptClassifyUniversalAuthorities(c.Classify.UniversalAuthorities))
	}

	i = c.Mapping.TopK
	if i > 0 {
		res = append(res, OptMappingTopK(i))
	}
	i = c.Mapping.CheckpointSize
	if i > 0 {
		res = append(res, OptMappingCheckpointSize(i))
	}
	f = c.Mapping.ReviewSimilarity
	if f > 0 {
		res = append(res, OptMappingReviewSimilarity(f))
	}
	f = c.Mapping.CostPerCall
	if f > 0 {
		res = append(res, OptMappingCostPerCall(f))
	}
	i = c.Mapping.MaxRetries
	if i > 0 {
		res = append(res, OptMappingMaxRetries(i))
	}
	i = c.Mapping.MaxFailStreak
	if i > 0 {
		res = append(res, OptMappingMaxFailStreak(i))
	}
	s = c.Mapping.Endpoint
	if s != "" {
		res = append(res, OptMappingEndpoint(s))
	}
	s = c.Mapping.APIKey
	if s != "" {
		res = append(res, OptMappingAPIKey(s))
	}
	s = c.Mapping.Model
	if s != "" {
		res = append(res, OptMappingModel(s))
	}
	i = c.Mapping.MinIntervalMs
	if i > 0 {
		res = append(res, OptMappingMinIntervalMs(i))
	}
	i = c.Mapping.TimeoutSec
	if i > 0 {
		res = append(res, OptMappingTimeoutSec(i))
	}
	s = c.Mapping.OutputDir
	if s != "" {
		res = append(res, OptMappingOutputDir(s))
	}

	s = c.Embed.Provider
	if s != "" {
		res = append(res, OptEmbedProvider(s))
	}
	s = c.Embed.Model
	if s != "" {
		res = append(res, OptEmbedModel(s))
	}
	s = c.Embed.APIKey
	if s != "" {
		res = append(res, OptEmbedAPIKey(s))
	}
	s = c.Embed.Host
	if s != "" {
		res = append(res, OptEmbedHost(s))
	}

	f = c.Validate.NearDupMin
	if f > 0 {
		res = append(res, OptValidateNearDupMin(f))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidRatio(name string, f float64) bool {
	res := f > 0 && f <= 1
	if !res {
		gn.Warn(
			"<em>%s</em> has to be within (0,1], ignoring %v", name, f)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Embed.Provider":  {"none": s, "genai": s, "ollama": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	} else {
		gn.Warn(
			"<em>%s</em> does not support '%s' as a value. "+
				"Valid values are: \n%s\nIgnoring...",
			[]string{name, val, strings.Join(lines, "\n")},
		)
		return false
	}
}
