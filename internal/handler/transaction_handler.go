package handler

import (
	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"
	"agritrack-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TransactionHandler struct {
	service service.TransactionService
}

func NewTransactionHandler(s service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// GET /api/transactions?type=&productId=&limit=
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	filter := repository.TransactionFilter{Limit: c.QueryInt("limit", 0)}
	if t := c.Query("type"); t != "" {
		if !model.TransactionType(t).Valid() {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction type"})
		}
		filter.Type = model.TransactionType(t)
	}
	if pid := c.Query("productId"); pid != "" {
		id, err := uuid.Parse(pid)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
		}
		filter.ProductID = &id
	}

	transactions, err := h.service.GetTransactions(filter)
	if err != nil {
		return err
	}
	return c.JSON(transactions)
}

// GET /api/transactions/:id
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := parseID(c, "transaction")
	if err != nil {
		return err
	}
	tx, err := h.service.GetTransaction(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tx)
}

// POST /api/transactions
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req service.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	tx, err := h.service.CreateTransaction(&req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(tx)
}
