package types

// SchemeRecord is a government scheme document from one of the
// sector-partitioned collections. The collections are populated
// externally and the application treats the shape as opaque; records are
// only stringified into prompts and returned to the client.
type SchemeRecord map[string]any
