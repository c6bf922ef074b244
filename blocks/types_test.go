package blocks

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestSegmentJSONEnvelope(t *testing.T) {
	blockID := uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	layoutID := uuid.MustParse("00000000-0000-0000-0000-0000000000a2")

	segments := Segments{
		RichText("<p>hello</p>"),
		BlockReference(blockID),
		Layout(layoutID, SlotFill{
			SlotID:  "main",
			Content: Segments{Markdown("# Title")},
		}),
	}

	encoded, err := json.Marshal(segments)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Segments
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(decoded) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(decoded))
	}

	text, ok := decoded[0].Value.(TextValue)
	if !ok || text.Text != "<p>hello</p>" {
		t.Fatalf("unexpected first segment: %+v", decoded[0])
	}

	ref, ok := decoded[1].Value.(ReferenceValue)
	if !ok || ref.BlockID != blockID {
		t.Fatalf("unexpected reference segment: %+v", decoded[1])
	}

	layout, ok := decoded[2].Value.(LayoutValue)
	if !ok || layout.LayoutID != layoutID {
		t.Fatalf("unexpected layout segment: %+v", decoded[2])
	}
	if len(layout.SlotFills) != 1 || layout.SlotFills[0].SlotID != "main" {
		t.Fatalf("unexpected slot fills: %+v", layout.SlotFills)
	}
	nested, ok := layout.SlotFills[0].Content[0].Value.(TextValue)
	if !ok || nested.Text != "# Title" {
		t.Fatalf("unexpected nested fill content: %+v", layout.SlotFills[0].Content)
	}
}

func TestSegmentUnmarshalKeepsUnknownTags(t *testing.T) {
	raw := `{"type":"custom_embed","value":"<iframe></iframe>"}`

	var segment Segment
	if err := json.Unmarshal([]byte(raw), &segment); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if segment.Type != "custom_embed" {
		t.Fatalf("unexpected type: %q", segment.Type)
	}
	text, ok := segment.Value.(TextValue)
	if !ok || text.Text != "<iframe></iframe>" {
		t.Fatalf("expected text payload preserved, got %+v", segment.Value)
	}
}

func TestReferencedBlockIDsWalksSlotFills(t *testing.T) {
	idA := uuid.MustParse("00000000-0000-0000-0000-0000000000b1")
	idB := uuid.MustParse("00000000-0000-0000-0000-0000000000b2")
	layoutID := uuid.MustParse("00000000-0000-0000-0000-0000000000b3")

	segments := Segments{
		BlockReference(idA),
		Layout(layoutID, SlotFill{
			SlotID: "main",
			Content: Segments{
				BlockReference(idB),
				BlockReference(idA), // duplicate
			},
		}),
	}

	ids := segments.ReferencedBlockIDs()
	if len(ids) != 3 {
		t.Fatalf("expected 3 unique ids, got %d: %v", len(ids), ids)
	}
	if ids[0] != idA || ids[1] != layoutID || ids[2] != idB {
		t.Fatalf("expected first-appearance order, got %v", ids)
	}
}

func TestReferencedBlockIDsIgnoresNilIDs(t *testing.T) {
	segments := Segments{
		BlockReference(uuid.Nil),
		RichText("<p>text</p>"),
	}
	if ids := segments.ReferencedBlockIDs(); len(ids) != 0 {
		t.Fatalf("expected no ids, got %v", ids)
	}
}
