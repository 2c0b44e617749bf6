package handler

import (
	"os"
	"path/filepath"
	"strings"

	"agritrack-api/internal/repository"
	"agritrack-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

// GET /api/products?category=&storageArea=&search=
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetProducts(repository.ProductFilter{
		Category:    c.Query("category"),
		StorageArea: c.Query("storageArea"),
		Search:      strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// GET /api/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return err
	}
	product, err := h.service.GetProduct(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// POST /api/products (JSON or multipart with an optional "image" file)
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	image, err := h.spoolImage(c)
	if err != nil {
		return err
	}

	product, err := h.service.CreateProduct(&req, image, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(product)
}

// PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return err
	}
	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	image, err := h.spoolImage(c)
	if err != nil {
		return err
	}

	product, err := h.service.UpdateProduct(id, &req, image, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return err
	}
	if err := h.service.DeleteProduct(id, actorFrom(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// POST /api/products/import (multipart "file")
func (h *ProductHandler) ImportProducts(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Please upload a file"})
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := h.service.ImportProducts(fh.Filename, f, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// GET /api/products/export?format=csv|xlsx
func (h *ProductHandler) ExportProducts(c *fiber.Ctx) error {
	file, err := h.service.ExportProducts(c.Query("format", "csv"), actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Attachment(file.Filename)
	c.Set(fiber.HeaderContentType, file.ContentType)
	return c.Send(file.Data)
}

// spoolImage writes the optional "image" part to a temp file the service
// will consume and remove.
func (h *ProductHandler) spoolImage(c *fiber.Ctx) (*service.ImageUpload, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, nil
	}

	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(fh.Filename))
	if err != nil {
		return nil, err
	}
	tmp.Close()
	if err := c.SaveFile(fh, tmp.Name()); err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}
	return &service.ImageUpload{TempPath: tmp.Name(), Filename: fh.Filename}, nil
}
