// internal/models/block.go
package models

import (
	"time"
)

// BlockType identifies the production format of a content block.
type BlockType string

const (
	BlockInterview     BlockType = "interview"
	BlockPieceToCamera BlockType = "piece-to-camera"
	BlockBRoll         BlockType = "b-roll"
	BlockDemo          BlockType = "demo"
	BlockLocation      BlockType = "location"
	BlockNarration     BlockType = "narration"
	BlockGraphics      BlockType = "graphics"
	BlockTransition    BlockType = "transition"
	BlockTitle         BlockType = "title"
	BlockCredits       BlockType = "credits"
)

// AllBlockTypes lists the closed enumeration in presentation order.
var AllBlockTypes = []BlockType{
	BlockInterview,
	BlockPieceToCamera,
	BlockBRoll,
	BlockDemo,
	BlockLocation,
	BlockNarration,
	BlockGraphics,
	BlockTransition,
	BlockTitle,
	BlockCredits,
}

// Valid reports whether t is a member of the closed enumeration.
func (t BlockType) Valid() bool {
	for _, known := range AllBlockTypes {
		if t == known {
			return true
		}
	}
	return false
}

// BlockTypeMeta carries presentation metadata for a block type.
type BlockTypeMeta struct {
	Type  BlockType `json:"type"`
	Label string    `json:"label"`
	Color string    `json:"color"`
}

// BlockTypeCatalog is the type metadata table served to the UI.
var BlockTypeCatalog = []BlockTypeMeta{
	{Type: BlockInterview, Label: "Interview", Color: "bg-blue-100 text-blue-800 border-blue-300"},
	{Type: BlockPieceToCamera, Label: "Piece to Camera", Color: "bg-purple-100 text-purple-800 border-purple-300"},
	{Type: BlockBRoll, Label: "B-Roll", Color: "bg-cyan-100 text-cyan-800 border-cyan-300"},
	{Type: BlockDemo, Label: "Demo", Color: "bg-amber-100 text-amber-800 border-amber-300"},
	{Type: BlockLocation, Label: "Location", Color: "bg-rose-100 text-rose-800 border-rose-300"},
	{Type: BlockNarration, Label: "Narration", Color: "bg-lime-100 text-lime-800 border-lime-300"},
	{Type: BlockGraphics, Label: "Graphics", Color: "bg-teal-100 text-teal-800 border-teal-300"},
	{Type: BlockTransition, Label: "Transition", Color: "bg-slate-100 text-slate-800 border-slate-300"},
	{Type: BlockTitle, Label: "Title", Color: "bg-indigo-100 text-indigo-800 border-indigo-300"},
	{Type: BlockCredits, Label: "Credits", Color: "bg-stone-100 text-stone-800 border-stone-300"},
}

// AISource names the assistant that originated a block during ideation.
type AISource string

const (
	SourceChatGPT    AISource = "chatgpt"
	SourceClaude     AISource = "claude"
	SourceGemini     AISource = "gemini"
	SourcePerplexity AISource = "perplexity"
)

// DefaultBlockDuration is assigned when a block is created without a duration.
const DefaultBlockDuration = 5.0

// ContentBlock is an atomic unit of planned video content.
//
// Sequence defines the total order among blocks sharing the same InStoryArc
// value; it is renumbered densely 0..N-1 after every committed reorder.
type ContentBlock struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Status      string    `json:"status,omitempty"` // draft, needs-review, approved, planned, in-edit, filmed
	Type        BlockType `json:"type"`
	Duration    float64   `json:"duration"` // minutes
	Sequence    int       `json:"sequence"`
	InStoryArc  bool      `json:"in_story_arc"`
	AISource    AISource  `json:"ai_source,omitempty"`

	// SuggestedSegment is advisory only, written by the segment suggestion
	// pass; it never overrides act classification.
	SuggestedSegment string `json:"suggested_segment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoryBlock is a story-arc member with its derived timeline position.
//
// Position is the percentage of total arc duration elapsed before this block.
// It is recomputed from sequence and durations, never stored as source of
// truth.
type StoryBlock struct {
	ContentBlock
	Position float64 `json:"position"`
}
