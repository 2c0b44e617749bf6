package service_test

import (
	"errors"
	"testing"

	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"
	"agritrack-api/internal/service"
	"agritrack-api/internal/testutil"

	"github.com/google/uuid"
)

func TestReferenceServiceCRUD(t *testing.T) {
	db := testutil.NewDB(t)
	rec := &testutil.Recorder{}
	areas := service.NewReferenceService[model.StorageArea](repository.NewReferenceRepo[model.StorageArea](db), "storage_area", "Storage area", rec)
	actor := service.Actor{Email: "admin@x.com"}

	created, err := areas.Create(&model.StorageArea{Name: "Shed 1", Capacity: 100}, actor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = areas.Create(&model.StorageArea{Name: "Shed 1"}, actor)
	var ve *service.ValidationError
	if !errors.As(err, &ve) || ve.Message != "Storage area with this name already exists" {
		t.Fatalf("duplicate: err = %v", err)
	}
	if _, err := areas.Create(&model.StorageArea{}, actor); !errors.As(err, &ve) {
		t.Fatalf("missing name: err = %v", err)
	}

	updated, err := areas.Update(created.ID, &model.StorageArea{Name: "Shed 1", Location: "North field"}, actor)
	if err != nil {
		t.Fatalf("update same name: %v", err)
	}
	if updated.Location != "North field" || updated.Capacity != 100 {
		t.Errorf("updated = %+v", updated)
	}

	other, _ := areas.Create(&model.StorageArea{Name: "Shed 2"}, actor)
	if _, err := areas.Update(other.ID, &model.StorageArea{Name: "Shed 1"}, actor); !errors.As(err, &ve) {
		t.Errorf("rename onto existing: err = %v", err)
	}

	if err := areas.Delete(created.ID, actor); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var nf *service.NotFoundError
	if err := areas.Delete(created.ID, actor); !errors.As(err, &nf) || nf.Error() != "Storage area not found" {
		t.Errorf("delete twice: err = %v", err)
	}
	if _, err := areas.Update(uuid.New(), &model.StorageArea{Name: "X"}, actor); !errors.As(err, &nf) {
		t.Errorf("update unknown: err = %v", err)
	}

	list, _ := areas.List()
	if len(list) != 1 || list[0].Name != "Shed 2" {
		t.Errorf("list = %+v", list)
	}
	if got := rec.Actions(); len(got) != 4 {
		t.Errorf("audit actions = %v", got)
	}
}
