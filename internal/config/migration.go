package config

// Migration upgrades a raw config document from one schema_version to the
// next. Unknown keys are always ignored by viper's unmarshal, so migrations
// only need to handle renamed or restructured keys.
type Migration struct {
	FromVersion int
	ToVersion   int
	Apply       func(map[string]interface{})
}

// Registry holds the known migrations in ascending version order.
var Registry []Migration

// ApplyMigrations mutates raw in place, running every registered migration
// whose FromVersion is >= the document's current schema_version, in order,
// until CurrentSchemaVersion is reached. A document with no schema_version
// key is treated as version 0 (pre-migration).
func ApplyMigrations(raw map[string]interface{}) {
	version := 0
	if v, ok := raw["schema_version"]; ok {
		if iv, ok := toInt(v); ok {
			version = iv
		}
	}

	for _, mig := range Registry {
		if mig.FromVersion < version {
			continue
		}
		mig.Apply(raw)
		version = mig.ToVersion
	}

	raw["schema_version"] = CurrentSchemaVersion
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
