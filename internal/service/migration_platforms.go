package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-offline-sync/models"
)

// Deployment target names carried in the migration package's platform tag.
const (
	PlatformAndroid = "android"
	PlatformIOS     = "ios"
	PlatformWeb     = "web"
)

// Native record envelopes. Android persists records wrapped in a versioned
// "_meta" envelope; iOS wraps the payload under a "$root" key. The web
// target stores neutral-form values directly, so its transforms are
// passthroughs.
const (
	androidMetaKey = "_meta"
	androidDataKey = "record"
	iosRootKey     = "$root"
)

// basePlatform carries the shared, target-independent parts of the platform
// contract; variants embed it and override only the narrow operations whose
// behavior differs per target.
type basePlatform struct {
	name string
}

func (p basePlatform) Name() string { return p.name }

// Validate rejects values that cannot exist on any platform. Variants layer
// their own shape checks on top.
func (p basePlatform) Validate(key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("empty storage key")
	}
	return nil
}

func (p basePlatform) ExportPrep(_, value string) (string, error) { return value, nil }
func (p basePlatform) ImportPrep(_, value string) (string, error) { return value, nil }

// PlatformFor returns the [Platform] variant for name. Unknown names get the
// web variant, whose neutral-form passthrough is the safest default.
func PlatformFor(name string) Platform {
	switch name {
	case PlatformAndroid:
		return NewAndroidPlatform()
	case PlatformIOS:
		return NewIOSPlatform()
	default:
		return NewWebPlatform()
	}
}

// webPlatform stores values in neutral form already.
type webPlatform struct {
	basePlatform
}

// NewWebPlatform constructs the web deployment target.
func NewWebPlatform() Platform {
	return &webPlatform{basePlatform{name: PlatformWeb}}
}

// androidPlatform unwraps and rewraps the versioned record envelope Android
// builds persist.
type androidPlatform struct {
	basePlatform
}

// NewAndroidPlatform constructs the android deployment target.
func NewAndroidPlatform() Platform {
	return &androidPlatform{basePlatform{name: PlatformAndroid}}
}

func (p *androidPlatform) ExportPrep(_, value string) (string, error) {
	doc, ok := decodeObject(value)
	if !ok {
		return value, nil
	}
	if _, wrapped := doc[androidMetaKey]; !wrapped {
		return value, nil
	}

	payload, ok := doc[androidDataKey]
	if !ok {
		return "", fmt.Errorf("android envelope without %q field", androidDataKey)
	}
	return encodeJSON(payload)
}

func (p *androidPlatform) ImportPrep(_, value string) (string, error) {
	payload, ok := decodeAny(value)
	if !ok {
		// Not JSON: plain strings are stored as-is on every target.
		return value, nil
	}

	return encodeJSON(map[string]any{
		androidMetaKey: map[string]any{"v": 1},
		androidDataKey: payload,
	})
}

func (p *androidPlatform) Validate(key, value string) error {
	if err := p.basePlatform.Validate(key, value); err != nil {
		return err
	}
	if doc, ok := decodeObject(value); ok {
		if _, wrapped := doc[androidMetaKey]; wrapped {
			if _, hasRecord := doc[androidDataKey]; !hasRecord {
				return fmt.Errorf("android envelope without %q field", androidDataKey)
			}
		}
	}
	return nil
}

// iosPlatform unwraps and rewraps the "$root" payload envelope used by iOS
// builds.
type iosPlatform struct {
	basePlatform
}

// NewIOSPlatform constructs the ios deployment target.
func NewIOSPlatform() Platform {
	return &iosPlatform{basePlatform{name: PlatformIOS}}
}

func (p *iosPlatform) ExportPrep(_, value string) (string, error) {
	doc, ok := decodeObject(value)
	if !ok {
		return value, nil
	}
	payload, wrapped := doc[iosRootKey]
	if !wrapped {
		return value, nil
	}
	return encodeJSON(payload)
}

func (p *iosPlatform) ImportPrep(_, value string) (string, error) {
	payload, ok := decodeAny(value)
	if !ok {
		return value, nil
	}
	return encodeJSON(map[string]any{iosRootKey: payload})
}

// detectPlatform guesses the platform that produced a package's values by
// looking for native envelopes. Exported data should be in neutral form, so
// finding an envelope suggests the declared platform tag is wrong; callers
// treat that as a warning, not an error. Compressed values are skipped —
// the heuristic is not worth decompressing for.
func detectPlatform(data map[string]models.ExportedValue) string {
	for _, exported := range data {
		if exported.Compressed {
			continue
		}
		doc, ok := decodeObject(exported.Value)
		if !ok {
			continue
		}
		if _, wrapped := doc[androidMetaKey]; wrapped {
			return PlatformAndroid
		}
		if _, wrapped := doc[iosRootKey]; wrapped {
			return PlatformIOS
		}
	}
	return ""
}

func decodeObject(value string) (map[string]any, bool) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(value), &doc); err != nil {
		return nil, false
	}
	return doc, true
}

func decodeAny(value string) (any, bool) {
	var doc any
	if err := json.Unmarshal([]byte(value), &doc); err != nil {
		return nil, false
	}
	return doc, true
}

func encodeJSON(v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return string(payload), nil
}
