// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-offline-sync/models"
)

// ResolverOptions configures conflict resolution policy. Strategies can be
// overridden per field with "table.field" keys; delete-vs-update behavior can
// be overridden per table.
type ResolverOptions struct {
	// DefaultStrategy applies to scalar value conflicts with no per-field
	// override. Defaults to [models.StrategyLatestWins].
	DefaultStrategy string

	// FieldStrategies maps "table.field" to a strategy name.
	FieldStrategies map[string]string

	// DeleteWins maps a table name to true when a delete should win over
	// a concurrent update for that table. The documented default
	// preserves the update.
	DeleteWins map[string]bool
}

// conflictResolver is the concrete [ConflictResolver]. It holds only policy
// configuration; resolution itself is a pure in-memory computation with no
// side effects and no persistence.
type conflictResolver struct {
	opts ResolverOptions
}

// NewConflictResolver constructs a [ConflictResolver] with the given policy
// options.
func NewConflictResolver(opts ResolverOptions) ConflictResolver {
	if opts.DefaultStrategy == "" {
		opts.DefaultStrategy = models.StrategyLatestWins
	}
	return &conflictResolver{opts: opts}
}

// Resolve implements [ConflictResolver].
//
// Scalar conflicts follow the configured strategy. Array values get an
// ancestor-aware three-way merge; object values merge disjoint-key changes
// and recurse into value resolution for same-key changes. Delete conflicts
// preserve the update by default.
func (r *conflictResolver) Resolve(c models.ConflictData) (models.Resolution, error) {
	switch c.Type {
	case models.ConflictUpdateDelete, models.ConflictDeleteUpdate:
		return r.resolveDelete(c), nil
	case models.ConflictUpdateUpdate:
		return r.resolveValue(c, c.LocalValue, c.RemoteValue, c.AncestorValue, c.HasAncestor)
	}

	return models.Resolution{}, fmt.Errorf("unknown conflict type %q", c.Type)
}

// resolveDelete applies the delete-vs-update policy. The preserve-the-update
// default follows common offline-sync practice; tables where a delete must
// win opt in through [ResolverOptions.DeleteWins].
func (r *conflictResolver) resolveDelete(c models.ConflictData) models.Resolution {
	deleteWins := r.opts.DeleteWins[c.TableName]

	localDeleted := c.Type == models.ConflictDeleteUpdate

	if deleteWins {
		winner := models.WinnerLocal
		if !localDeleted {
			winner = models.WinnerRemote
		}
		return models.Resolution{
			Resolved: true,
			Deleted:  true,
			Strategy: c.Type,
			Winner:   winner,
		}
	}

	// Preserve the update: the non-deleting side's value survives.
	if localDeleted {
		return models.Resolution{
			Resolved: true,
			Value:    c.RemoteValue,
			Strategy: c.Type,
			Winner:   models.WinnerRemote,
		}
	}
	return models.Resolution{
		Resolved: true,
		Value:    c.LocalValue,
		Strategy: c.Type,
		Winner:   models.WinnerLocal,
	}
}

func (r *conflictResolver) resolveValue(c models.ConflictData, local, remote, ancestor any, hasAncestor bool) (models.Resolution, error) {
	if localArr, ok := asArray(local); ok {
		if remoteArr, ok := asArray(remote); ok {
			var ancestorArr []any
			if hasAncestor {
				ancestorArr, _ = asArray(ancestor)
			}
			return models.Resolution{
				Resolved: true,
				Value:    mergeArrays(ancestorArr, localArr, remoteArr),
				Strategy: models.StrategyMerge,
				Winner:   models.WinnerMerged,
			}, nil
		}
	}

	if localObj, ok := asObject(local); ok {
		if remoteObj, ok := asObject(remote); ok {
			var ancestorObj map[string]any
			if hasAncestor {
				ancestorObj, _ = asObject(ancestor)
			}
			merged, err := r.mergeObjects(c, ancestorObj, localObj, remoteObj)
			if err != nil {
				return models.Resolution{}, err
			}
			return models.Resolution{
				Resolved: true,
				Value:    merged,
				Strategy: models.StrategyMerge,
				Winner:   models.WinnerMerged,
			}, nil
		}
	}

	return r.resolveScalar(c, local, remote)
}

func (r *conflictResolver) resolveScalar(c models.ConflictData, local, remote any) (models.Resolution, error) {
	strategy := r.strategyFor(c.TableName, c.Field)

	switch strategy {
	case models.StrategyLocalWins:
		return models.Resolution{Resolved: true, Value: local, Strategy: strategy, Winner: models.WinnerLocal}, nil

	case models.StrategyRemoteWins:
		return models.Resolution{Resolved: true, Value: remote, Strategy: strategy, Winner: models.WinnerRemote}, nil

	case models.StrategyLatestWins:
		// Equal timestamps deterministically resolve to the local value.
		if c.RemoteTimestamp.After(c.LocalTimestamp) {
			return models.Resolution{Resolved: true, Value: remote, Strategy: strategy, Winner: models.WinnerRemote}, nil
		}
		return models.Resolution{Resolved: true, Value: local, Strategy: strategy, Winner: models.WinnerLocal}, nil

	case models.StrategyManual:
		return models.Resolution{Resolved: false, Strategy: strategy, Winner: models.WinnerNone}, nil
	}

	return models.Resolution{}, fmt.Errorf("unknown resolution strategy %q", strategy)
}

func (r *conflictResolver) strategyFor(table, field string) string {
	if s, ok := r.opts.FieldStrategies[table+"."+field]; ok {
		return s
	}
	return r.opts.DefaultStrategy
}

// mergeArrays performs an ancestor-aware three-way merge:
//   - an item present on both sides survives;
//   - an item added by either side relative to the ancestor survives;
//   - an item removed by one side and not re-added by the other is removed,
//     including the concurrent-removal and untouched-presence cases.
//
// Order: surviving local items first, then remote-only additions.
func mergeArrays(ancestor, local, remote []any) []any {
	inAncestor := itemSet(ancestor)
	inLocal := itemSet(local)
	inRemote := itemSet(remote)

	merged := make([]any, 0, len(local)+len(remote))
	seen := make(map[string]struct{}, len(local)+len(remote))

	for _, item := range local {
		key := canonicalKey(item)
		if _, dup := seen[key]; dup {
			continue
		}
		_, remoteHas := inRemote[key]
		_, ancestorHas := inAncestor[key]
		if remoteHas || !ancestorHas {
			merged = append(merged, item)
			seen[key] = struct{}{}
		}
	}

	for _, item := range remote {
		key := canonicalKey(item)
		if _, dup := seen[key]; dup {
			continue
		}
		_, localHas := inLocal[key]
		_, ancestorHas := inAncestor[key]
		if localHas || !ancestorHas {
			merged = append(merged, item)
			seen[key] = struct{}{}
		}
	}

	return merged
}

// mergeObjects merges disjoint-key changes from each side and recurses into
// value resolution for keys both sides changed. A key one side deleted stays
// deleted only when the other side left it untouched relative to the
// ancestor.
func (r *conflictResolver) mergeObjects(c models.ConflictData, ancestor, local, remote map[string]any) (map[string]any, error) {
	merged := make(map[string]any, len(local)+len(remote))

	for key := range union(local, remote) {
		lv, lok := local[key]
		rv, rok := remote[key]
		av, aok := ancestor[key]

		switch {
		case lok && rok:
			if canonicalKey(lv) == canonicalKey(rv) {
				merged[key] = lv
				continue
			}
			res, err := r.resolveValue(c, lv, rv, av, aok)
			if err != nil {
				return nil, fmt.Errorf("merge key %q: %w", key, err)
			}
			if !res.Resolved {
				return nil, fmt.Errorf("merge key %q: manual resolution required", key)
			}
			merged[key] = res.Value

		case lok:
			// Deleted remotely only if remote left it untouched.
			if aok && canonicalKey(av) == canonicalKey(lv) {
				continue
			}
			merged[key] = lv

		case rok:
			if aok && canonicalKey(av) == canonicalKey(rv) {
				continue
			}
			merged[key] = rv
		}
	}

	return merged, nil
}

func asArray(v any) ([]any, bool) {
	arr, ok := v.([]any)
	return arr, ok
}

func asObject(v any) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok
}

func itemSet(items []any) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[canonicalKey(item)] = struct{}{}
	}
	return set
}

func union(a, b map[string]any) map[string]struct{} {
	keys := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	return keys
}

// canonicalKey reduces a value to its canonical JSON form so that values
// compare by content, not by Go type identity.
func canonicalKey(v any) string {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(payload)
}
