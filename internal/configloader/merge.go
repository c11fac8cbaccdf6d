package configloader

import (
	"maps"
	"slices"

	"github.com/yaklabco/ifdeflens/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Families: per-extension merge, override entries replace base entries
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Debounce != "" {
		result.Debounce = override.Debounce
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	// Booleans can only be switched on by a higher layer.
	if override.Detect {
		result.Detect = true
	}
	if override.ShowDead {
		result.ShowDead = true
	}

	result.Families = mergeFamilies(base.Families, override.Families)

	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}

	return &result
}

// mergeFamilies returns a new map holding base overlaid with override.
func mergeFamilies(base, override map[string][]string) map[string][]string {
	if base == nil && override == nil {
		return nil
	}
	result := make(map[string][]string, len(base)+len(override))
	maps.Copy(result, base)
	maps.Copy(result, override)
	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
