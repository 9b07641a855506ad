package services

import (
	"github.com/tunerate/feedback-service/internal/models"
)

// schemaIndex is the resolved question/option tree of one song, indexed for O(1)
// membership checks during submission validation.
type schemaIndex struct {
	// ordered preserves ascending question id order for report assembly.
	ordered []models.Question
	// questions maps question id to its definition.
	questions map[uint]*models.Question
	// options maps question id to the set of its valid option ids.
	options map[uint]map[uint]struct{}
}

// buildSchemaIndex indexes a song's preloaded question tree. Pure; no I/O.
func buildSchemaIndex(song *models.Song) *schemaIndex {
	idx := &schemaIndex{
		ordered:   song.Questions,
		questions: make(map[uint]*models.Question, len(song.Questions)),
		options:   make(map[uint]map[uint]struct{}, len(song.Questions)),
	}

	for i := range song.Questions {
		q := &song.Questions[i]
		idx.questions[q.ID] = q

		optionSet := make(map[uint]struct{}, len(q.Options))
		for _, opt := range q.Options {
			optionSet[opt.ID] = struct{}{}
		}
		idx.options[q.ID] = optionSet
	}

	return idx
}

func (s *schemaIndex) questionIDs() []uint {
	ids := make([]uint, 0, len(s.ordered))
	for _, q := range s.ordered {
		ids = append(ids, q.ID)
	}
	return ids
}

func (s *schemaIndex) hasOption(questionID, optionID uint) bool {
	set, ok := s.options[questionID]
	if !ok {
		return false
	}
	_, ok = set[optionID]
	return ok
}
