// Package status holds the per-workspace set of attendance statuses and their weights.
package status

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/bryan-cox/attendly/internal/model"
)

var (
	ErrEmptyStatuses    = errors.New("a schedule needs at least one status")
	ErrWeightOutOfRange = errors.New("status weight must be between 0 and 1")
	ErrEmptyKey         = errors.New("status key cannot be empty")
	ErrUnknownType      = errors.New("unknown schedule type")
)

// Statuses that count toward the overall percentage but not toward per-subject figures.
var excluded = map[string]bool{
	"CANCELED": true,
	"HOLIDAY":  true,
}

// Registry resolves status keys for one workspace.
type Registry struct {
	statuses map[string]model.StatusDefinition
}

// New wraps a status map. The map is copied.
func New(statuses map[string]model.StatusDefinition) Registry {
	m := make(map[string]model.StatusDefinition, len(statuses))
	for k, v := range statuses {
		m[k] = v
	}
	return Registry{statuses: m}
}

// Lookup returns the definition for key with Key and Countable filled in.
func (r Registry) Lookup(key string) (model.StatusDefinition, bool) {
	def, ok := r.statuses[key]
	if !ok {
		return model.StatusDefinition{}, false
	}
	def.Key = key
	def.Countable = Countable(key)
	return def, true
}

// Countable reports whether key takes part in per-subject aggregation.
func Countable(key string) bool {
	return !excluded[key]
}

// Keys returns the status keys in sorted order.
func (r Registry) Keys() []string {
	keys := make([]string, 0, len(r.statuses))
	for k := range r.statuses {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len is the number of statuses.
func (r Registry) Len() int {
	return len(r.statuses)
}

// Map returns a copy of the underlying status map.
func (r Registry) Map() map[string]model.StatusDefinition {
	m := make(map[string]model.StatusDefinition, len(r.statuses))
	for k, v := range r.statuses {
		m[k] = v
	}
	return m
}

// ValidateDefinition checks a single status.
func ValidateDefinition(key string, def model.StatusDefinition) error {
	if key == "" {
		return ErrEmptyKey
	}
	if math.IsNaN(def.Weight) || def.Weight < 0 || def.Weight > 1 {
		return fmt.Errorf("%s: %w (got %v)", key, ErrWeightOutOfRange, def.Weight)
	}
	return nil
}

// Validate checks a full status set.
func Validate(statuses map[string]model.StatusDefinition) error {
	if len(statuses) == 0 {
		return ErrEmptyStatuses
	}
	for key, def := range statuses {
		if err := ValidateDefinition(key, def); err != nil {
			return err
		}
	}
	return nil
}
