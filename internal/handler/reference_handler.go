package handler

import (
	"agritrack-api/internal/repository"
	"agritrack-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ReferenceHandler serves CRUD for one lookup list.
type ReferenceHandler[T repository.Named] struct {
	service service.ReferenceService[T]
	label   string
}

func NewReferenceHandler[T repository.Named](s service.ReferenceService[T], label string) *ReferenceHandler[T] {
	return &ReferenceHandler[T]{service: s, label: label}
}

func (h *ReferenceHandler[T]) List(c *fiber.Ctx) error {
	items, err := h.service.List()
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *ReferenceHandler[T]) Create(c *fiber.Ctx) error {
	item := new(T)
	if err := c.BodyParser(item); err != nil {
		return invalidBody(c)
	}
	created, err := h.service.Create(item, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(created)
}

func (h *ReferenceHandler[T]) Update(c *fiber.Ctx) error {
	id, err := parseID(c, h.label)
	if err != nil {
		return err
	}
	item := new(T)
	if err := c.BodyParser(item); err != nil {
		return invalidBody(c)
	}
	updated, err := h.service.Update(id, item, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

func (h *ReferenceHandler[T]) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, h.label)
	if err != nil {
		return err
	}
	if err := h.service.Delete(id, actorFrom(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Deleted successfully"})
}
