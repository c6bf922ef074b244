package blocks

// SegmentsJSONSchema documents the JSON shape enforced for stored block
// content. Text-bearing segments carry a string value, references carry a
// block id, and layouts carry a layout id plus slot fills.
var SegmentsJSONSchema = map[string]any{
	"type":  "array",
	"items": map[string]any{"$ref": "#/$defs/segment"},
	"$defs": map[string]any{
		"segment": map[string]any{
			"type":     "object",
			"required": []string{"type"},
			"properties": map[string]any{
				"type": map[string]any{
					"type":      "string",
					"minLength": 1,
				},
				"value": map[string]any{
					"oneOf": []any{
						map[string]any{"type": "string"},
						map[string]any{"type": "null"},
						map[string]any{"$ref": "#/$defs/layoutValue"},
					},
				},
			},
		},
		"layoutValue": map[string]any{
			"type":     "object",
			"required": []string{"layout"},
			"properties": map[string]any{
				"layout": map[string]any{
					"type":   "string",
					"format": "uuid",
				},
				"slot_content": map[string]any{
					"type":  "array",
					"items": map[string]any{"$ref": "#/$defs/slotFill"},
				},
			},
		},
		"slotFill": map[string]any{
			"type":     "object",
			"required": []string{"slot_id", "content"},
			"properties": map[string]any{
				"slot_id": map[string]any{
					"type":      "string",
					"minLength": 1,
					"maxLength": MaxSlotIDLength,
				},
				"content": map[string]any{
					"type":  "array",
					"items": map[string]any{"$ref": "#/$defs/segment"},
				},
			},
		},
	},
}
