package service

import (
	"errors"
	"fmt"

	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferenceService manages one lookup list (storage areas, barangays,
// categories).
type ReferenceService[T repository.Named] interface {
	List() ([]T, error)
	Create(item *T, actor Actor) (*T, error)
	Update(id uuid.UUID, item *T, actor Actor) (*T, error)
	Delete(id uuid.UUID, actor Actor) error
}

type referenceService[T repository.Named] struct {
	repo     repository.ReferenceRepository[T]
	resource string
	label    string
	sideEffects
}

// NewReferenceService builds a service for one reference table. resource
// tags audit entries; label is used in user-facing messages.
func NewReferenceService[T repository.Named](repo repository.ReferenceRepository[T], resource, label string, audit ActivityRecorder) ReferenceService[T] {
	return &referenceService[T]{repo: repo, resource: resource, label: label, sideEffects: sideEffects{audit: audit}}
}

func (s *referenceService[T]) List() ([]T, error) {
	items, err := s.repo.FindAll()
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (s *referenceService[T]) Create(item *T, actor Actor) (*T, error) {
	if err := validateRequest(item); err != nil {
		return nil, err
	}
	name := (*item).ReferenceName()
	if err := s.ensureNameAvailable(name, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.repo.Create(item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicate()
		}
		return nil, err
	}
	s.record(actor, model.ActionCreateReference, s.resource, (*item).ReferenceID().String(), fmt.Sprintf("Created %s %s", s.label, name), model.ActivitySuccess)
	return item, nil
}

func (s *referenceService[T]) Update(id uuid.UUID, item *T, actor Actor) (*T, error) {
	if err := validateRequest(item); err != nil {
		return nil, err
	}
	if _, err := s.find(id); err != nil {
		return nil, err
	}
	name := (*item).ReferenceName()
	if err := s.ensureNameAvailable(name, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(id, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicate()
		}
		return nil, err
	}
	updated, err := s.find(id)
	if err != nil {
		return nil, err
	}
	s.record(actor, model.ActionUpdateReference, s.resource, id.String(), fmt.Sprintf("Updated %s %s", s.label, name), model.ActivitySuccess)
	return updated, nil
}

func (s *referenceService[T]) Delete(id uuid.UUID, actor Actor) error {
	item, err := s.find(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: s.label}
		}
		return err
	}
	s.record(actor, model.ActionDeleteReference, s.resource, id.String(),
		fmt.Sprintf("Deleted %s %s", s.label, (*item).ReferenceName()), model.ActivitySuccess)
	return nil
}

func (s *referenceService[T]) find(id uuid.UUID) (*T, error) {
	item, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: s.label}
		}
		return nil, err
	}
	return item, nil
}

func (s *referenceService[T]) ensureNameAvailable(name string, self uuid.UUID) error {
	existing, err := s.repo.FindByName(name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if (*existing).ReferenceID() != self {
		return s.duplicate()
	}
	return nil
}

func (s *referenceService[T]) duplicate() error {
	return validationErrorf("%s with this name already exists", s.label)
}
