package util

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSeedSpec converts a seed specification string to a list of seeds.
// Accepted forms: a single value ("42"), a comma-separated list ("42,43,44"),
// or an inclusive range ("42-46"). Whitespace around entries is ignored.
func ParseSeedSpec(spec string) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("empty seed spec")
	}

	var seeds []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty entry in seed spec %q", spec)
		}

		lo, hi, found := strings.Cut(part, "-")
		if !found {
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid seed %q: %w", part, err)
			}
			seeds = append(seeds, n)
			continue
		}

		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid range start %q: %w", lo, err)
		}
		end, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("invalid range end %q: %w", hi, err)
		}
		if end < start {
			return nil, fmt.Errorf("seed range %q: end before start", part)
		}
		for n := start; n <= end; n++ {
			seeds = append(seeds, n)
		}
	}

	return seeds, nil
}
