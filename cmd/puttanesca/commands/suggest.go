package commands

import (
	"errors"
	"fmt"
	"strings"

	"puttanesca/internal/components/errs"
	"puttanesca/internal/hunters"
	"puttanesca/internal/processors"
	"puttanesca/lib/textutil"

	"github.com/antzucaro/matchr"
)

const minSimilarity = 0.7

// closest returns the candidate most similar to `input`.
func closest(input string, candidates []string) (string, bool) {
	var best string
	var bestSimilarity float64
	for _, candidate := range candidates {
		similarity := matchr.JaroWinkler(textutil.NormalizeKey(input), textutil.NormalizeKey(candidate), false)
		if similarity > bestSimilarity {
			best = candidate
			bestSimilarity = similarity
		}
	}
	if bestSimilarity < minSimilarity {
		return "", false
	}
	return best, true
}

func hunterKeys() []string {
	var keys []string
	for _, info := range hunters.Available() {
		keys = append(keys, info.Key)
	}
	return keys
}

func processorKinds() []string {
	var kinds []string
	for _, info := range processors.Available() {
		kind, _, _ := strings.Cut(info.Spec, ":")
		kinds = append(kinds, kind)
	}
	return kinds
}

func isHunterKey(key string) bool {
	for _, k := range hunterKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// withHint appends a "did you mean" to unknown key errors.
func withHint(err error, hunterKey, processorSpec string) error {
	if !errors.Is(err, errs.ErrNotFound) {
		return err
	}

	input := processorSpec
	candidates := processorKinds()
	if !isHunterKey(hunterKey) {
		input = hunterKey
		candidates = hunterKeys()
	}
	kind, _, _ := strings.Cut(input, ":")
	suggestion, ok := closest(kind, candidates)
	if !ok {
		return fmt.Errorf("%w (see `puttanesca list`)", err)
	}
	return fmt.Errorf("%w (did you mean %q?)", err, suggestion)
}
