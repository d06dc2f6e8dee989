package bigquery

import bq "cloud.google.com/go/bigquery"

// Flatten expands nested fields depth-first, each child directly after its
// parent, with dotted paths as names. Top-level order is preserved.
func Flatten(fields []SchemaField) []SchemaField {
	var out []SchemaField
	flattenRecursive(fields, "", &out)
	return out
}

func flattenRecursive(fields []SchemaField, parentPath string, out *[]SchemaField) {
	for _, field := range fields {
		path := field.Name
		if parentPath != "" {
			path = parentPath + "." + field.Name
		}

		flat := field
		flat.Name = path
		flat.Fields = nil
		*out = append(*out, flat)

		if len(field.Fields) > 0 {
			flattenRecursive(field.Fields, path, out)
		}
	}
}

func convertSchema(schema bq.Schema) []SchemaField {
	if len(schema) == 0 {
		return nil
	}

	fields := make([]SchemaField, 0, len(schema))
	for _, fs := range schema {
		if fs == nil {
			continue
		}
		fields = append(fields, SchemaField{
			Name:        fs.Name,
			Type:        string(fs.Type),
			Mode:        fieldMode(fs),
			Description: fs.Description,
			Fields:      convertSchema(fs.Schema),
		})
	}
	return fields
}

func fieldMode(fs *bq.FieldSchema) string {
	switch {
	case fs.Repeated:
		return ModeRepeated
	case fs.Required:
		return ModeRequired
	default:
		return ModeNullable
	}
}
