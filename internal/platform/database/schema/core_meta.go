package schema

// RefMetaTable represents the 'core.meta' key/value table backing settings.
type RefMetaTable struct {
	Table     string
	Key       string
	Value     string
	UpdatedOn string
}

// RefMeta is the schema definition for core.meta
var RefMeta = RefMetaTable{
	Table:     "core.meta",
	Key:       "key",
	Value:     "value",
	UpdatedOn: "updatedon",
}
