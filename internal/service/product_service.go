package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"agritrack-api/internal/metrics"
	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"
	"agritrack-api/internal/storage"
	"agritrack-api/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductService interface {
	GetProducts(filter repository.ProductFilter) ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)
	CreateProduct(req *ProductInput, image *ImageUpload, actor Actor) (*model.Product, error)
	UpdateProduct(id uuid.UUID, req *ProductInput, image *ImageUpload, actor Actor) (*model.Product, error)
	DeleteProduct(id uuid.UUID, actor Actor) error
	ImportProducts(filename string, r io.Reader, actor Actor) (*ImportResult, error)
	ExportProducts(format string, actor Actor) (*ExportFile, error)
}

// ProductInput is accepted as JSON or as multipart form fields.
type ProductInput struct {
	Name        string `json:"name" form:"name" validate:"required,max=255"`
	Category    string `json:"category" form:"category" validate:"required,max=100"`
	Quantity    *int   `json:"quantity" form:"quantity" validate:"required,gte=0"`
	StorageArea string `json:"storageArea" form:"storageArea" validate:"required,max=100"`
	Description string `json:"description" form:"description"`
	Unit        string `json:"unit" form:"unit" validate:"omitempty,max=20"`
	ImageURL    string `json:"imageUrl" form:"imageUrl" validate:"omitempty,max=500"`
}

func (in *ProductInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.StorageArea = strings.TrimSpace(in.StorageArea)
	in.Description = strings.TrimSpace(in.Description)
	in.Unit = strings.TrimSpace(in.Unit)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
}

// ImageUpload is a file already spooled to disk by the transport layer.
// The service removes TempPath when it is done, whatever the outcome.
type ImageUpload struct {
	TempPath string
	Filename string
}

type productService struct {
	db              *gorm.DB
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	images          storage.ImageStore
	sideEffects
}

func NewProductService(db *gorm.DB, productRepo repository.ProductRepository, transactionRepo repository.TransactionRepository,
	images storage.ImageStore, audit ActivityRecorder, notifier Notifier) ProductService {
	return &productService{
		db:              db,
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
		images:          images,
		sideEffects:     sideEffects{audit: audit, notifier: notifier},
	}
}

func (s *productService) GetProducts(filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindAll(filter)
}

func (s *productService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(req *ProductInput, image *ImageUpload, actor Actor) (*model.Product, error) {
	if image != nil {
		defer os.Remove(image.TempPath)
	}

	req.normalize()
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if err := s.ensureNameAvailable(req.Name, uuid.Nil); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        req.Name,
		Category:    req.Category,
		Quantity:    *req.Quantity,
		StorageArea: req.StorageArea,
		Description: req.Description,
		Unit:        req.Unit,
		ImageURL:    req.ImageURL,
	}
	product.CreatedBy = actor.Ref()
	product.UpdatedBy = actor.Ref()

	stored, err := s.storeImage(image)
	if err != nil {
		return nil, err
	}
	if stored != "" {
		product.ImageURL = stored
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.WithTx(tx).Create(product); err != nil {
			return err
		}
		if product.Quantity == 0 {
			return nil
		}
		initial := &model.Transaction{
			ProductID:        product.ID,
			Type:             model.TxAdd,
			Quantity:         product.Quantity,
			PreviousQuantity: 0,
			NewQuantity:      product.Quantity,
			UserID:           actor.ID,
			Remarks:          "Initial stock",
		}
		initial.CreatedBy = actor.Ref()
		initial.UpdatedBy = actor.Ref()
		return s.transactionRepo.WithTx(tx).Create(initial)
	})
	if err != nil {
		s.discardImage(stored)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateProduct
		}
		return nil, err
	}

	if product.Quantity > 0 {
		metrics.StockTransactions.WithLabelValues(string(model.TxAdd)).Inc()
	}
	s.record(actor, model.ActionCreateProduct, "product", product.ID.String(),
		fmt.Sprintf("Created product %s (%d in %s)", product.Name, product.Quantity, product.StorageArea), model.ActivitySuccess)
	s.publish(ws.Event{Type: "product", Action: "create", Data: product, User: actor.eventUser(),
		Message: fmt.Sprintf("Product %s added", product.Name)})

	return product, nil
}

func (s *productService) UpdateProduct(id uuid.UUID, req *ProductInput, image *ImageUpload, actor Actor) (*model.Product, error) {
	if image != nil {
		defer os.Remove(image.TempPath)
	}

	req.normalize()
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}
	if req.Name != product.Name {
		if err := s.ensureNameAvailable(req.Name, product.ID); err != nil {
			return nil, err
		}
	}

	stored, err := s.storeImage(image)
	if err != nil {
		return nil, err
	}
	oldImage := product.ImageURL

	quantityChanged := *req.Quantity != product.Quantity
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if quantityChanged {
			change := stockChange{Type: model.TxUpdate, Quantity: *req.Quantity, Remarks: "Quantity edited"}
			if _, err := applyStockChange(tx, s.productRepo, s.transactionRepo, product, change, actor); err != nil {
				return err
			}
		}

		product.Name = req.Name
		product.Category = req.Category
		product.StorageArea = req.StorageArea
		product.Description = req.Description
		if req.Unit != "" {
			product.Unit = req.Unit
		}
		switch {
		case stored != "":
			product.ImageURL = stored
		case req.ImageURL != "":
			product.ImageURL = req.ImageURL
		}
		product.UpdatedBy = actor.Ref()
		return s.productRepo.WithTx(tx).Update(product)
	})
	if err != nil {
		s.discardImage(stored)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateProduct
		}
		return nil, err
	}
	if stored != "" && oldImage != stored {
		s.discardImage(oldImage)
	}

	if quantityChanged {
		metrics.StockTransactions.WithLabelValues(string(model.TxUpdate)).Inc()
	}
	s.record(actor, model.ActionUpdateProduct, "product", product.ID.String(),
		fmt.Sprintf("Updated product %s", product.Name), model.ActivitySuccess)
	s.publish(ws.Event{Type: "product", Action: "update", Data: product, User: actor.eventUser(),
		Message: fmt.Sprintf("Product %s updated", product.Name)})

	return product, nil
}

// DeleteProduct removes the product row and leaves a delete transaction
// behind so the history keeps the final quantity.
func (s *productService) DeleteProduct(id uuid.UUID, actor Actor) error {
	product, err := s.GetProduct(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		record := &model.Transaction{
			ProductID:        product.ID,
			Type:             model.TxDelete,
			Quantity:         product.Quantity,
			PreviousQuantity: product.Quantity,
			NewQuantity:      0,
			UserID:           actor.ID,
			Remarks:          "Product deleted: " + product.Name,
		}
		record.CreatedBy = actor.Ref()
		record.UpdatedBy = actor.Ref()
		if err := s.transactionRepo.WithTx(tx).Create(record); err != nil {
			return err
		}
		return s.productRepo.WithTx(tx).Delete(product.ID, actor.Ref())
	})
	if err != nil {
		return err
	}
	s.discardImage(product.ImageURL)

	metrics.StockTransactions.WithLabelValues(string(model.TxDelete)).Inc()
	s.record(actor, model.ActionDeleteProduct, "product", product.ID.String(),
		fmt.Sprintf("Deleted product %s", product.Name), model.ActivitySuccess)
	s.publish(ws.Event{Type: "product", Action: "delete", Data: idPayload(product.ID), User: actor.eventUser(),
		Message: fmt.Sprintf("Product %s deleted", product.Name)})

	return nil
}

func (s *productService) ensureNameAvailable(name string, self uuid.UUID) error {
	existing, err := s.productRepo.FindByName(name)
	if err == nil {
		if existing.ID != self {
			return ErrDuplicateProduct
		}
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func (s *productService) storeImage(image *ImageUpload) (string, error) {
	if image == nil || s.images == nil {
		return "", nil
	}
	url, err := s.images.Save(image.TempPath, image.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			return "", &ValidationError{Message: err.Error()}
		}
		return "", err
	}
	return url, nil
}

func (s *productService) discardImage(url string) {
	if url == "" || s.images == nil {
		return
	}
	_ = s.images.Delete(url)
}

func idPayload(id uuid.UUID) map[string]string {
	return map[string]string{"id": id.String()}
}
