// internal/services/block_service.go
package services

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/junglecut/storyarc/internal/errors"
	"github.com/junglecut/storyarc/internal/models"
	"github.com/junglecut/storyarc/internal/storage"
)

const (
	blocksDir  = "project"
	blocksFile = "blocks.json"
)

// BlockService is the authoritative store of content blocks. Blocks live in
// one of two ordering groups, the story arc and the idea pool, selected by
// InStoryArc. Within a group, Sequence is the total order and is renumbered
// densely 0..N-1 after every mutation that can disturb it.
type BlockService struct {
	mu      sync.RWMutex
	blocks  []*models.ContentBlock
	storage *storage.FileStorage
	now     func() time.Time
}

// NewBlockService loads any persisted block list from fs. A nil fs keeps the
// store purely in memory, which the tests rely on.
func NewBlockService(fs *storage.FileStorage) (*BlockService, error) {
	s := &BlockService{
		storage: fs,
		now:     time.Now,
	}

	if fs != nil && fs.FileExists(blocksDir, blocksFile) {
		var loaded []*models.ContentBlock
		if err := fs.LoadJSONFile(blocksDir, blocksFile, &loaded); err != nil {
			return nil, errors.NewProcessingError("load blocks", err)
		}
		s.blocks = loaded
		s.sortLocked()
	}

	return s, nil
}

// BlockPatch carries optional field updates; nil means leave unchanged.
type BlockPatch struct {
	Title            *string
	Description      *string
	Notes            *string
	Status           *string
	Type             *models.BlockType
	Duration         *float64
	AISource         *models.AISource
	SuggestedSegment *string
}

// CreateParams carries the caller-supplied fields for a new block.
type CreateParams struct {
	Title       string
	Description string
	Notes       string
	Status      string
	Type        models.BlockType
	Duration    float64
	InStoryArc  bool
	AISource    models.AISource
}

// Create appends a new block at the end of its ordering group.
func (s *BlockService) Create(p CreateParams) (*models.ContentBlock, error) {
	if p.Title == "" {
		return nil, errors.NewValidationError("title is required", nil)
	}
	if !p.Type.Valid() {
		return nil, errors.NewValidationError("unknown block type: "+string(p.Type), nil)
	}
	if p.Duration <= 0 {
		p.Duration = models.DefaultBlockDuration
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	block := &models.ContentBlock{
		ID:          uuid.NewString(),
		Title:       p.Title,
		Description: p.Description,
		Notes:       p.Notes,
		Status:      p.Status,
		Type:        p.Type,
		Duration:    p.Duration,
		Sequence:    len(s.group(p.InStoryArc)),
		InStoryArc:  p.InStoryArc,
		AISource:    p.AISource,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.blocks = append(s.blocks, block)
	s.sortLocked()

	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	out := *block
	return &out, nil
}

// Get returns a copy of the block with the given id.
func (s *BlockService) Get(id string) (*models.ContentBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b := s.find(id)
	if b == nil {
		return nil, errors.NewNotFoundError("block not found: "+id, nil)
	}
	out := *b
	return &out, nil
}

// List returns every block, arc group first, each group in sequence order.
func (s *BlockService) List() []models.ContentBlock {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ContentBlock, 0, len(s.blocks))
	for _, b := range s.group(true) {
		out = append(out, *b)
	}
	for _, b := range s.group(false) {
		out = append(out, *b)
	}
	return out
}

// IdeaBlocks returns the idea pool in sequence order.
func (s *BlockService) IdeaBlocks() []models.ContentBlock {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := s.group(false)
	out := make([]models.ContentBlock, 0, len(members))
	for _, b := range members {
		out = append(out, *b)
	}
	return out
}

// ArcBlocks returns the story arc in sequence order, with each block's
// timeline position derived from the durations of the blocks before it.
// Position is a percentage of total arc duration; with no duration at all
// every position is 0.
func (s *BlockService) ArcBlocks() []models.StoryBlock {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.arcBlocksLocked()
}

func (s *BlockService) arcBlocksLocked() []models.StoryBlock {
	members := s.group(true)

	var total float64
	for _, b := range members {
		total += b.Duration
	}

	out := make([]models.StoryBlock, 0, len(members))
	var elapsed float64
	for _, b := range members {
		pos := 0.0
		if total > 0 {
			pos = elapsed / total * 100
		}
		out = append(out, models.StoryBlock{ContentBlock: *b, Position: pos})
		elapsed += b.Duration
	}
	return out
}

// TotalArcDuration sums the durations of the story arc blocks.
func (s *BlockService) TotalArcDuration() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, b := range s.group(true) {
		total += b.Duration
	}
	return total
}

// Update applies a partial patch to a block. An unknown id is a silent
// no-op returning (nil, nil): field edits can arrive from a UI that has not
// yet noticed a deletion.
func (s *BlockService) Update(id string, patch BlockPatch) (*models.ContentBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.find(id)
	if b == nil {
		return nil, nil
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, errors.NewValidationError("title cannot be empty", nil)
		}
		b.Title = *patch.Title
	}
	if patch.Description != nil {
		b.Description = *patch.Description
	}
	if patch.Notes != nil {
		b.Notes = *patch.Notes
	}
	if patch.Status != nil {
		b.Status = *patch.Status
	}
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return nil, errors.NewValidationError("unknown block type: "+string(*patch.Type), nil)
		}
		b.Type = *patch.Type
	}
	if patch.Duration != nil {
		if *patch.Duration <= 0 {
			return nil, errors.NewValidationError("duration must be positive", nil)
		}
		b.Duration = *patch.Duration
	}
	if patch.AISource != nil {
		b.AISource = *patch.AISource
	}
	if patch.SuggestedSegment != nil {
		b.SuggestedSegment = *patch.SuggestedSegment
	}
	b.UpdatedAt = s.now()

	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	out := *b
	return &out, nil
}

// Remove deletes a block and renumbers its group.
func (s *BlockService) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, b := range s.blocks {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return errors.NewNotFoundError("block not found: "+id, nil)
	}

	inArc := s.blocks[idx].InStoryArc
	s.blocks = append(s.blocks[:idx], s.blocks[idx+1:]...)
	s.renumberLocked(inArc)

	return s.persistLocked()
}

// SetArcMembership moves a block between the arc and the idea pool. The block
// lands at the end of the target group; both groups are renumbered. Moving a
// block into the group it is already in is a no-op.
func (s *BlockService) SetArcMembership(id string, inArc bool) (*models.ContentBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.find(id)
	if b == nil {
		return nil, errors.NewNotFoundError("block not found: "+id, nil)
	}
	if b.InStoryArc == inArc {
		out := *b
		return &out, nil
	}

	b.InStoryArc = inArc
	b.Sequence = len(s.group(inArc)) // after the flip this is count-1 pre-renumber
	b.UpdatedAt = s.now()
	s.renumberLocked(true)
	s.renumberLocked(false)
	s.sortLocked()

	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	out := *b
	return &out, nil
}

// Move reinserts a block at insertAt within its own ordering group and
// renumbers the group densely. insertAt is clamped to the group bounds.
// It reports whether the order actually changed: an unknown id or a move to
// the block's own index is a silent no-op, matching drop semantics where the
// drag source may have vanished or never left its slot.
func (s *BlockService) Move(id string, insertAt int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.find(id)
	if b == nil {
		return false, nil
	}

	members := s.group(b.InStoryArc)
	from := -1
	for i, m := range members {
		if m.ID == id {
			from = i
			break
		}
	}
	if from == -1 {
		return false, nil
	}

	if insertAt < 0 {
		insertAt = 0
	}
	if insertAt > len(members)-1 {
		insertAt = len(members) - 1
	}
	if insertAt == from {
		return false, nil
	}

	moved := members[from]
	members = append(members[:from], members[from+1:]...)
	members = append(members[:insertAt], append([]*models.ContentBlock{moved}, members[insertAt:]...)...)

	now := s.now()
	for i, m := range members {
		if m.Sequence != i {
			m.Sequence = i
			m.UpdatedAt = now
		}
	}
	s.sortLocked()

	return true, s.persistLocked()
}

// Snapshot returns a deep copy of the current arc, positions included.
// Async analysis passes read a snapshot so concurrent edits cannot tear
// their input.
func (s *BlockService) Snapshot() []models.StoryBlock {
	return s.ArcBlocks()
}

// ApplySuggestions writes suggested segments wholesale. Ids that no longer
// exist are skipped. Returns the number of blocks updated.
func (s *BlockService) ApplySuggestions(suggestions map[string]string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := 0
	now := s.now()
	for _, b := range s.blocks {
		if segment, ok := suggestions[b.ID]; ok {
			b.SuggestedSegment = segment
			b.UpdatedAt = now
			applied++
		}
	}
	if applied == 0 {
		return 0, nil
	}
	return applied, s.persistLocked()
}

// group returns the members of one ordering group in sequence order.
// Callers must hold the lock.
func (s *BlockService) group(inArc bool) []*models.ContentBlock {
	var members []*models.ContentBlock
	for _, b := range s.blocks {
		if b.InStoryArc == inArc {
			members = append(members, b)
		}
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Sequence < members[j].Sequence
	})
	return members
}

func (s *BlockService) find(id string) *models.ContentBlock {
	for _, b := range s.blocks {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (s *BlockService) renumberLocked(inArc bool) {
	for i, b := range s.group(inArc) {
		b.Sequence = i
	}
}

func (s *BlockService) sortLocked() {
	sort.SliceStable(s.blocks, func(i, j int) bool {
		if s.blocks[i].InStoryArc != s.blocks[j].InStoryArc {
			return s.blocks[i].InStoryArc
		}
		return s.blocks[i].Sequence < s.blocks[j].Sequence
	})
}

func (s *BlockService) persistLocked() error {
	if s.storage == nil {
		return nil
	}
	if err := s.storage.SaveJSONFile(blocksDir, blocksFile, s.blocks); err != nil {
		return errors.NewProcessingError("save blocks", err)
	}
	return nil
}
