package blocks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Segment type tags recognised by the default registry. Hosts can register
// additional tags through the runtime configuration.
const (
	SegmentRichText       = "rich_text"
	SegmentRawHTML        = "raw_html"
	SegmentMarkdown       = "markdown"
	SegmentReusableBlock  = "reusable_block"
	SegmentReusableLayout = "reusable_layout"
)

// MaxSlotIDLength bounds slot identifiers carried by slot fills.
const MaxSlotIDLength = 50

// ReusableBlock is a named content fragment that can be embedded across
// many pages. Its content may reference other reusable blocks, forming a
// directed graph that must stay acyclic.
type ReusableBlock struct {
	bun.BaseModel `bun:"table:reusable_blocks,alias:rb"`

	ID        uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Name      string     `bun:"name,notnull" json:"name"`
	Slug      string     `bun:"slug,notnull" json:"slug"`
	Content   Segments   `bun:"content,type:jsonb,notnull" json:"content"`
	Live      bool       `bun:"live,notnull,default:false" json:"live"`
	DeletedAt *time.Time `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
	CreatedAt time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Segments is the ordered list of typed content segments stored for a block.
type Segments []Segment

// Segment pairs a type tag with its payload. The payload shape depends on
// the tag: text-bearing tags carry a string, reference tags carry a block
// id, and layout tags carry a layout selection plus slot fills.
type Segment struct {
	Type  string
	Value SegmentValue
}

// SegmentValue is implemented by every segment payload kind.
type SegmentValue interface {
	segmentValue()
}

// TextValue is the payload for rich_text, raw_html, and markdown segments.
type TextValue struct {
	Text string
}

func (TextValue) segmentValue() {}

// ReferenceValue points at another reusable block by id.
type ReferenceValue struct {
	BlockID uuid.UUID
}

func (ReferenceValue) segmentValue() {}

// LayoutValue selects a layout block and carries the fills for its slots.
type LayoutValue struct {
	LayoutID  uuid.UUID  `json:"layout"`
	SlotFills []SlotFill `json:"slot_content,omitempty"`
}

func (LayoutValue) segmentValue() {}

// SlotFill targets one named slot of a layout with replacement content.
// It has no identity of its own and only exists inside a layout segment.
type SlotFill struct {
	SlotID  string   `json:"slot_id"`
	Content Segments `json:"content"`
}

// Text returns a text-bearing segment for the given tag.
func Text(tag, text string) Segment {
	return Segment{Type: tag, Value: TextValue{Text: text}}
}

// RichText returns a rich_text segment.
func RichText(html string) Segment { return Text(SegmentRichText, html) }

// RawHTML returns a raw_html segment.
func RawHTML(html string) Segment { return Text(SegmentRawHTML, html) }

// Markdown returns a markdown segment.
func Markdown(source string) Segment { return Text(SegmentMarkdown, source) }

// BlockReference returns a reusable_block segment pointing at blockID.
func BlockReference(blockID uuid.UUID) Segment {
	return Segment{Type: SegmentReusableBlock, Value: ReferenceValue{BlockID: blockID}}
}

// Layout returns a reusable_layout segment selecting layoutID with fills.
func Layout(layoutID uuid.UUID, fills ...SlotFill) Segment {
	return Segment{Type: SegmentReusableLayout, Value: LayoutValue{LayoutID: layoutID, SlotFills: fills}}
}

type segmentEnvelope struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes the segment as a {type, value} envelope so the stored
// JSON matches what editors and the admin API exchange.
func (s Segment) MarshalJSON() ([]byte, error) {
	var payload any
	switch value := s.Value.(type) {
	case TextValue:
		payload = value.Text
	case ReferenceValue:
		payload = value.BlockID
	case LayoutValue:
		payload = value
	case nil:
		payload = nil
	default:
		return nil, fmt.Errorf("blocks: unsupported segment payload %T", s.Value)
	}
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value any    `json:"value"`
	}{Type: s.Type, Value: payload})
}

// UnmarshalJSON decodes the {type, value} envelope, dispatching the payload
// shape on the type tag. Unknown tags keep their text payload so the
// renderer can degrade per segment instead of failing the whole document.
func (s *Segment) UnmarshalJSON(data []byte) error {
	var envelope segmentEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	s.Type = envelope.Type
	if len(envelope.Value) == 0 || bytes.Equal(envelope.Value, []byte("null")) {
		s.Value = nil
		return nil
	}

	switch envelope.Type {
	case SegmentReusableBlock:
		var id uuid.UUID
		if err := json.Unmarshal(envelope.Value, &id); err != nil {
			return fmt.Errorf("blocks: invalid block reference: %w", err)
		}
		s.Value = ReferenceValue{BlockID: id}
	case SegmentReusableLayout:
		var layout LayoutValue
		if err := json.Unmarshal(envelope.Value, &layout); err != nil {
			return fmt.Errorf("blocks: invalid layout value: %w", err)
		}
		s.Value = layout
	default:
		var text string
		if err := json.Unmarshal(envelope.Value, &text); err != nil {
			return fmt.Errorf("blocks: invalid %s value: %w", envelope.Type, err)
		}
		s.Value = TextValue{Text: text}
	}
	return nil
}

// ReferencedBlockIDs collects every block id referenced directly by the
// segments, including references nested inside layout slot fills. The result
// preserves first-appearance order and drops duplicates.
func (segments Segments) ReferencedBlockIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)

	var walk func(Segments)
	walk = func(items Segments) {
		for _, segment := range items {
			switch value := segment.Value.(type) {
			case ReferenceValue:
				if _, ok := seen[value.BlockID]; !ok && value.BlockID != uuid.Nil {
					seen[value.BlockID] = struct{}{}
					ids = append(ids, value.BlockID)
				}
			case LayoutValue:
				if value.LayoutID != uuid.Nil {
					if _, ok := seen[value.LayoutID]; !ok {
						seen[value.LayoutID] = struct{}{}
						ids = append(ids, value.LayoutID)
					}
				}
				for _, fill := range value.SlotFills {
					walk(fill.Content)
				}
			}
		}
	}
	walk(segments)

	return ids
}

// SlotFills returns the fills carried by a layout segment, or nil when the
// segment is not a layout.
func (s Segment) SlotFills() []SlotFill {
	if layout, ok := s.Value.(LayoutValue); ok {
		return layout.SlotFills
	}
	return nil
}
