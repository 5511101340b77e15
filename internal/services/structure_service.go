// internal/services/structure_service.go
package services

import (
	"sync"

	"github.com/junglecut/storyarc/internal/errors"
	"github.com/junglecut/storyarc/internal/models"
	"github.com/junglecut/storyarc/internal/storage"
)

const (
	structuresDir  = "project"
	structuresFile = "structures.json"
	selectionFile  = "structure_selection.json"
)

// StructureService serves act templates and tracks which one the project is
// using. Custom templates loaded from disk overlay the built-ins by name;
// act ranges are taken as given, the service does not validate gaps or
// overlaps.
type StructureService struct {
	mu         sync.RWMutex
	structures map[models.StructureType][]models.ActStructure
	order      []models.StructureType
	current    models.StructureType
	storage    *storage.FileStorage
}

func NewStructureService(fs *storage.FileStorage) (*StructureService, error) {
	s := &StructureService{
		structures: make(map[models.StructureType][]models.ActStructure),
		order:      append([]models.StructureType(nil), models.StructureTypes...),
		current:    models.StructureThreeAct,
		storage:    fs,
	}
	for st, acts := range models.BuiltinStructures {
		s.structures[st] = acts
	}

	if fs != nil && fs.FileExists(structuresDir, structuresFile) {
		var custom map[models.StructureType][]models.ActStructure
		if err := fs.LoadJSONFile(structuresDir, structuresFile, &custom); err != nil {
			return nil, errors.NewProcessingError("load structure templates", err)
		}
		for st, acts := range custom {
			if _, known := s.structures[st]; !known {
				s.order = append(s.order, st)
			}
			s.structures[st] = acts
		}
	}

	if fs != nil && fs.FileExists(structuresDir, selectionFile) {
		var sel struct {
			Structure models.StructureType `json:"structure"`
		}
		if err := fs.LoadJSONFile(structuresDir, selectionFile, &sel); err == nil {
			if _, known := s.structures[sel.Structure]; known {
				s.current = sel.Structure
			}
		}
	}

	return s, nil
}

// Types returns the available template types in presentation order.
func (s *StructureService) Types() []models.StructureType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.StructureType(nil), s.order...)
}

// Acts returns the act list for a template type.
func (s *StructureService) Acts(st models.StructureType) ([]models.ActStructure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acts, ok := s.structures[st]
	if !ok {
		return nil, errors.NewNotFoundError("unknown structure: "+string(st), nil)
	}
	return append([]models.ActStructure(nil), acts...), nil
}

// Current returns the selected template type and its acts.
func (s *StructureService) Current() (models.StructureType, []models.ActStructure) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, append([]models.ActStructure(nil), s.structures[s.current]...)
}

// SetCurrent selects a template and persists the choice.
func (s *StructureService) SetCurrent(st models.StructureType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.structures[st]; !ok {
		return errors.NewNotFoundError("unknown structure: "+string(st), nil)
	}
	s.current = st

	if s.storage != nil {
		sel := struct {
			Structure models.StructureType `json:"structure"`
		}{Structure: st}
		if err := s.storage.SaveJSONFile(structuresDir, selectionFile, sel); err != nil {
			return errors.NewProcessingError("save structure selection", err)
		}
	}
	return nil
}

// ActFor classifies a timeline position against an act list. Ranges are
// closed on both ends and the first matching act wins, so a position on a
// boundary belongs to the earlier act. Returns nil when nothing matches.
func ActFor(acts []models.ActStructure, position float64) *models.ActStructure {
	for i := range acts {
		if position >= acts[i].Start && position <= acts[i].End {
			return &acts[i]
		}
	}
	return nil
}
