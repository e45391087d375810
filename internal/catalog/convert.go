package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"equipment-catalog/internal"
	"equipment-catalog/internal/util"
)

// ConvertEntries normalizes raw compendium records into catalog entries.
// Records whose slug was already produced are skipped (first one wins); the
// upstream dump repeats some items under different source books. Any other
// malformed record aborts the whole conversion.
func ConvertEntries(items []internal.RawItem) ([]internal.Entry, error) {
	seen := make(map[string]struct{}, len(items))
	entries := make([]internal.Entry, 0, len(items))

	for i, item := range items {
		name, err := toString(item, "name")
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		slug, err := util.Slugify(name)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if _, ok := seen[slug]; ok {
			continue
		}

		entry, err := toEntry(slug, name, item)
		if err != nil {
			return nil, fmt.Errorf("item %d (%s): %w", i, name, err)
		}
		seen[slug] = struct{}{}
		entries = append(entries, entry)
	}

	keys := make(map[string]string, len(entries))
	for _, e := range entries {
		keys[e.ID] = strings.ToLower(e.Name.En)
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return keys[entries[a].ID] < keys[entries[b].ID]
	})
	return entries, nil
}

func toEntry(slug, name string, item internal.RawItem) (internal.Entry, error) {
	category, err := toString(item, "equipmentCategory")
	if err != nil {
		return internal.Entry{}, err
	}
	weight, err := toNumberString(item, "weight")
	if err != nil {
		return internal.Entry{}, err
	}
	grams, err := util.WeightToGrams(weight)
	if err != nil {
		return internal.Entry{}, err
	}
	cost, err := toNumberString(item, "cost")
	if err != nil {
		return internal.Entry{}, err
	}
	credits, err := util.TruncateCost(cost)
	if err != nil {
		return internal.Entry{}, err
	}

	return internal.Entry{
		ID: slug,
		Name: internal.LocalizedName{
			En: name,
			Fr: name, // TODO: use French names once the compendium ships translations
		},
		Type:    util.FormatType(category),
		WeightG: grams,
		Cost:    credits,
	}, nil
}

func toString(item internal.RawItem, key string) (string, error) {
	v, ok := item[key]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: missing field %q", internal.ErrParse, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q is %T, want string", internal.ErrParse, key, v)
	}
	return s, nil
}

// toNumberString accepts both JSON numbers and numeric strings, the compendium
// uses either depending on the item.
func toNumberString(item internal.RawItem, key string) (string, error) {
	v, ok := item[key]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: missing field %q", internal.ErrParse, key)
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(t), nil
	default:
		return "", fmt.Errorf("%w: field %q is %T, want number", internal.ErrParse, key, v)
	}
}
