package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db/models"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
	pkgerrors "github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/errors"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/pagination"
)

// Service exposes the stock ledger operations.
type Service interface {
	Create(ctx context.Context, input CreateInventoryInput) (*InventoryDTO, error)
	GetByID(ctx context.Context, id int64) (*InventoryDTO, error)
	GetByProductID(ctx context.Context, productID int64) (*InventoryDTO, error)
	GetBySKU(ctx context.Context, sku string) (*InventoryDTO, error)
	List(ctx context.Context) ([]InventoryDTO, error)
	ListByWarehouse(ctx context.Context, warehouseID int64) ([]InventoryDTO, error)
	ListLowStock(ctx context.Context) ([]InventoryDTO, error)
	ListOutOfStock(ctx context.Context) ([]InventoryDTO, error)
	Search(ctx context.Context, query string) ([]InventoryDTO, error)
	Update(ctx context.Context, id int64, input UpdateInventoryInput) (*InventoryDTO, error)
	Delete(ctx context.Context, id int64) error

	AddStock(ctx context.Context, id int64, input StockAdjustmentInput) (*InventoryDTO, error)
	RemoveStock(ctx context.Context, id int64, input StockAdjustmentInput) (*InventoryDTO, error)
	Reserve(ctx context.Context, productID int64, quantity int, referenceID string) (*InventoryDTO, error)
	Release(ctx context.Context, productID int64, quantity int, referenceID string) (*InventoryDTO, error)
	Confirm(ctx context.Context, productID int64, quantity int, referenceID string) (*InventoryDTO, error)
	CheckAvailability(ctx context.Context, productID int64, quantity int) (*AvailabilityDTO, error)

	ListMovements(ctx context.Context, filter MovementFilter, params pagination.Params) (*MovementPage, error)

	CreateWarehouse(ctx context.Context, input CreateWarehouseInput) (*WarehouseDTO, error)
	GetWarehouse(ctx context.Context, id int64) (*WarehouseDTO, error)
	GetWarehouseByCode(ctx context.Context, code string) (*WarehouseDTO, error)
	ListWarehouses(ctx context.Context) ([]WarehouseDTO, error)
	UpdateWarehouse(ctx context.Context, id int64, input UpdateWarehouseInput) (*WarehouseDTO, error)
	DeleteWarehouse(ctx context.Context, id int64) error
}

// The repos are held concretely because the counter mutations run inside
// InTx closures that rebind the repository to the transaction handle.
type service struct {
	repo       *Repository
	warehouses *WarehouseRepository
}

// NewService builds an inventory service with the provided repositories.
func NewService(repo *Repository, warehouses *WarehouseRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if warehouses == nil {
		return nil, fmt.Errorf("warehouse repository required")
	}
	return &service{repo: repo, warehouses: warehouses}, nil
}

func (s *service) Create(ctx context.Context, input CreateInventoryInput) (*InventoryDTO, error) {
	name := strings.TrimSpace(input.ProductName)
	sku := strings.TrimSpace(input.SKU)
	if input.ProductID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku required")
	}
	if input.InitialQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "initial quantity must not be negative")
	}

	if tracked, err := s.repo.ExistsByProductID(ctx, input.ProductID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product uniqueness")
	} else if tracked {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already tracked")
	}
	if taken, err := s.repo.ExistsBySKU(ctx, sku, 0); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check sku uniqueness")
	} else if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already tracked")
	}
	if input.WarehouseID != nil {
		if _, err := s.warehouses.FindByID(ctx, *input.WarehouseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load warehouse")
		}
	}

	inv := &models.Inventory{
		ProductID:         input.ProductID,
		ProductName:       name,
		SKU:               sku,
		AvailableQuantity: input.InitialQuantity,
		TotalQuantity:     input.InitialQuantity,
		ReorderLevel:      10,
		ReorderQuantity:   50,
		WarehouseID:       input.WarehouseID,
	}
	if input.ReorderLevel != nil {
		inv.ReorderLevel = *input.ReorderLevel
	}
	if input.ReorderQuantity != nil {
		inv.ReorderQuantity = *input.ReorderQuantity
	}
	inv.Status = enums.ClassifyStock(inv.AvailableQuantity, inv.ReorderLevel)
	if input.InitialQuantity > 0 {
		now := time.Now().UTC()
		inv.LastRestockedAt = &now
	}

	err := s.repo.InTx(ctx, func(tx *Repository) error {
		if _, err := tx.Create(ctx, inv); err != nil {
			return err
		}
		if input.InitialQuantity == 0 {
			return nil
		}
		notes := "Initial stock"
		_, err := tx.CreateMovement(ctx, &models.StockMovement{
			InventoryID:      inv.ID,
			MovementType:     enums.MovementTypeIn,
			Quantity:         input.InitialQuantity,
			PreviousQuantity: 0,
			NewQuantity:      input.InitialQuantity,
			Reason:           enums.MovementReasonPurchase,
			Notes:            &notes,
		})
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory")
	}
	return inventoryFromModel(inv), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*InventoryDTO, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapInventoryReadErr(err)
	}
	return inventoryFromModel(inv), nil
}

func (s *service) GetByProductID(ctx context.Context, productID int64) (*InventoryDTO, error) {
	inv, err := s.repo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, mapInventoryReadErr(err)
	}
	return inventoryFromModel(inv), nil
}

func (s *service) GetBySKU(ctx context.Context, sku string) (*InventoryDTO, error) {
	inv, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, mapInventoryReadErr(err)
	}
	return inventoryFromModel(inv), nil
}

func (s *service) List(ctx context.Context) ([]InventoryDTO, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	return inventoriesFromModels(items), nil
}

func (s *service) ListByWarehouse(ctx context.Context, warehouseID int64) ([]InventoryDTO, error) {
	items, err := s.repo.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory by warehouse")
	}
	return inventoriesFromModels(items), nil
}

func (s *service) ListLowStock(ctx context.Context) ([]InventoryDTO, error) {
	items, err := s.repo.ListByStatus(ctx, enums.InventoryStatusLowStock)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock inventory")
	}
	return inventoriesFromModels(items), nil
}

func (s *service) ListOutOfStock(ctx context.Context) ([]InventoryDTO, error) {
	items, err := s.repo.ListByStatus(ctx, enums.InventoryStatusOutOfStock)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list out of stock inventory")
	}
	return inventoriesFromModels(items), nil
}

func (s *service) Search(ctx context.Context, query string) ([]InventoryDTO, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query required")
	}
	items, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search inventory")
	}
	return inventoriesFromModels(items), nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateInventoryInput) (*InventoryDTO, error) {
	if input.AvailableQuantity != nil && *input.AvailableQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "available quantity must not be negative")
	}
	if input.ReorderLevel != nil && *input.ReorderLevel < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reorder level must not be negative")
	}
	if input.ReorderQuantity != nil && *input.ReorderQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reorder quantity must not be negative")
	}
	if input.WarehouseID != nil {
		if _, err := s.warehouses.FindByID(ctx, *input.WarehouseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load warehouse")
		}
	}

	var out *models.Inventory
	err := s.repo.InTx(ctx, func(tx *Repository) error {
		inv, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if input.ProductName != nil {
			name := strings.TrimSpace(*input.ProductName)
			if name == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "product name required")
			}
			inv.ProductName = name
		}
		if input.ReorderLevel != nil {
			inv.ReorderLevel = *input.ReorderLevel
		}
		if input.ReorderQuantity != nil {
			inv.ReorderQuantity = *input.ReorderQuantity
		}
		if input.WarehouseID != nil {
			// Moving the record to another warehouse emits no movement.
			inv.WarehouseID = input.WarehouseID
		}

		// Setting available directly is audited as an adjustment in the
		// direction of the change.
		if input.AvailableQuantity != nil && *input.AvailableQuantity != inv.AvailableQuantity {
			previous := inv.AvailableQuantity
			next := *input.AvailableQuantity
			movementType := enums.MovementTypeIn
			quantity := next - previous
			if quantity < 0 {
				movementType = enums.MovementTypeOut
				quantity = -quantity
			}
			if _, err := tx.CreateMovement(ctx, &models.StockMovement{
				InventoryID:      inv.ID,
				MovementType:     movementType,
				Quantity:         quantity,
				PreviousQuantity: previous,
				NewQuantity:      next,
				Reason:           enums.MovementReasonAdjustment,
			}); err != nil {
				return err
			}
			inv.AvailableQuantity = next
			inv.TotalQuantity = inv.AvailableQuantity + inv.ReservedQuantity
		}

		inv.Status = enums.ClassifyStock(inv.AvailableQuantity, inv.ReorderLevel)
		if err := tx.Update(ctx, inv); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, mapInventoryWriteErr(err, "update inventory")
	}
	return inventoryFromModel(out), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete inventory")
	}
	return nil
}

func (s *service) AddStock(ctx context.Context, id int64, input StockAdjustmentInput) (*InventoryDTO, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	reason := enums.MovementReasonPurchase
	if input.Reason != nil {
		if !input.Reason.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid movement reason")
		}
		reason = *input.Reason
	}

	var out *models.Inventory
	err := s.repo.InTx(ctx, func(tx *Repository) error {
		inv, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ApplyAdd(ctx, inv.ID, input.Quantity, time.Now().UTC()); err != nil {
			return err
		}
		_, err = tx.CreateMovement(ctx, &models.StockMovement{
			InventoryID:      inv.ID,
			MovementType:     enums.MovementTypeIn,
			Quantity:         input.Quantity,
			PreviousQuantity: inv.AvailableQuantity,
			NewQuantity:      inv.AvailableQuantity + input.Quantity,
			ReferenceID:      input.ReferenceID,
			Reason:           reason,
			Notes:            input.Notes,
			PerformedBy:      input.PerformedBy,
		})
		if err != nil {
			return err
		}
		newAvailable := inv.AvailableQuantity + input.Quantity
		if err := tx.SetStatus(ctx, inv.ID, enums.ClassifyStock(newAvailable, inv.ReorderLevel)); err != nil {
			return err
		}
		out, err = tx.FindByID(ctx, inv.ID)
		return err
	})
	if err != nil {
		return nil, mapInventoryWriteErr(err, "add stock")
	}
	return inventoryFromModel(out), nil
}

func (s *service) RemoveStock(ctx context.Context, id int64, input StockAdjustmentInput) (*InventoryDTO, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	reason := enums.MovementReasonSale
	if input.Reason != nil {
		if !input.Reason.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid movement reason")
		}
		reason = *input.Reason
	}

	var out *models.Inventory
	err := s.repo.InTx(ctx, func(tx *Repository) error {
		inv, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		ok, err := tx.ApplyRemove(ctx, inv.ID, input.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return insufficientStock(inv.ProductID, input.Quantity, inv.AvailableQuantity)
		}
		_, err = tx.CreateMovement(ctx, &models.StockMovement{
			InventoryID:      inv.ID,
			MovementType:     enums.MovementTypeOut,
			Quantity:         input.Quantity,
			PreviousQuantity: inv.AvailableQuantity,
			NewQuantity:      inv.AvailableQuantity - input.Quantity,
			ReferenceID:      input.ReferenceID,
			Reason:           reason,
			Notes:            input.Notes,
			PerformedBy:      input.PerformedBy,
		})
		if err != nil {
			return err
		}
		newAvailable := inv.AvailableQuantity - input.Quantity
		if err := tx.SetStatus(ctx, inv.ID, enums.ClassifyStock(newAvailable, inv.ReorderLevel)); err != nil {
			return err
		}
		out, err = tx.FindByID(ctx, inv.ID)
		return err
	})
	if err != nil {
		return nil, mapInventoryWriteErr(err, "remove stock")
	}
	return inventoryFromModel(out), nil
}

// Reserve moves available stock into the reserved bucket for an order. The
// movement snapshots the available counter.
func (s *service) Reserve(ctx context.Context, productID int64, quantity int, referenceID string) (*InventoryDTO, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var out *models.Inventory
	err := s.repo.InTx(ctx, func(tx *Repository) error {
		inv, err := tx.FindByProductID(ctx, productID)
		if err != nil {
			return err
		}
		ok, err := tx.ApplyReserve(ctx, inv.ID, quantity)
		if err != nil {
			return err
		}
		if !ok {
			return insufficientStock(productID, quantity, inv.AvailableQuantity)
		}
		_, err = tx.CreateMovement(ctx, &models.StockMovement{
			InventoryID:      inv.ID,
			MovementType:     enums.MovementTypeReserved,
			Quantity:         quantity,
			PreviousQuantity: inv.AvailableQuantity,
			NewQuantity:      inv.AvailableQuantity - quantity,
			ReferenceID:      &referenceID,
			Reason:           enums.MovementReasonOrderReservation,
		})
		if err != nil {
			return err
		}
		newAvailable := inv.AvailableQuantity - quantity
		if err := tx.SetStatus(ctx, inv.ID, enums.ClassifyStock(newAvailable, inv.ReorderLevel)); err != nil {
			return err
		}
		out, err = tx.FindByID(ctx, inv.ID)
		return err
	})
	if err != nil {
		return nil, mapInventoryWriteErr(err, "reserve stock")
	}
	return inventoryFromModel(out), nil
}

// Release returns reserved stock to the available bucket. The movement
// snapshots the available counter, mirroring Reserve.
func (s *service) Release(ctx context.Context, productID int64, quantity int, referenceID string) (*InventoryDTO, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var out *models.Inventory
	err := s.repo.InTx(ctx, func(tx *Repository) error {
		inv, err := tx.FindByProductID(ctx, productID)
		if err != nil {
			return err
		}
		ok, err := tx.ApplyRelease(ctx, inv.ID, quantity)
		if err != nil {
			return err
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "release exceeds reserved quantity")
		}
		_, err = tx.CreateMovement(ctx, &models.StockMovement{
			InventoryID:      inv.ID,
			MovementType:     enums.MovementTypeReleased,
			Quantity:         quantity,
			PreviousQuantity: inv.AvailableQuantity,
			NewQuantity:      inv.AvailableQuantity + quantity,
			ReferenceID:      &referenceID,
			Reason:           enums.MovementReasonOrderCancellation,
		})
		if err != nil {
			return err
		}
		newAvailable := inv.AvailableQuantity + quantity
		if err := tx.SetStatus(ctx, inv.ID, enums.ClassifyStock(newAvailable, inv.ReorderLevel)); err != nil {
			return err
		}
		out, err = tx.FindByID(ctx, inv.ID)
		return err
	})
	if err != nil {
		return nil, mapInventoryWriteErr(err, "release stock")
	}
	return inventoryFromModel(out), nil
}

// Confirm burns a reservation out of the ledger once the order ships. The
// OUT movement snapshots the reserved counter, not available.
func (s *service) Confirm(ctx context.Context, productID int64, quantity int, referenceID string) (*InventoryDTO, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var out *models.Inventory
	err := s.repo.InTx(ctx, func(tx *Repository) error {
		inv, err := tx.FindByProductID(ctx, productID)
		if err != nil {
			return err
		}
		ok, err := tx.ApplyConfirm(ctx, inv.ID, quantity)
		if err != nil {
			return err
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "confirmation exceeds reserved quantity")
		}
		_, err = tx.CreateMovement(ctx, &models.StockMovement{
			InventoryID:      inv.ID,
			MovementType:     enums.MovementTypeOut,
			Quantity:         quantity,
			PreviousQuantity: inv.ReservedQuantity,
			NewQuantity:      inv.ReservedQuantity - quantity,
			ReferenceID:      &referenceID,
			Reason:           enums.MovementReasonSale,
		})
		if err != nil {
			return err
		}
		if err := tx.SetStatus(ctx, inv.ID, enums.ClassifyStock(inv.AvailableQuantity, inv.ReorderLevel)); err != nil {
			return err
		}
		out, err = tx.FindByID(ctx, inv.ID)
		return err
	})
	if err != nil {
		return nil, mapInventoryWriteErr(err, "confirm reservation")
	}
	return inventoryFromModel(out), nil
}

func (s *service) CheckAvailability(ctx context.Context, productID int64, quantity int) (*AvailabilityDTO, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	inv, err := s.repo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, mapInventoryReadErr(err)
	}
	return &AvailabilityDTO{
		ProductID:         productID,
		Available:         inv.AvailableQuantity >= quantity,
		AvailableQuantity: inv.AvailableQuantity,
		RequestedQuantity: quantity,
	}, nil
}

func (s *service) ListMovements(ctx context.Context, filter MovementFilter, params pagination.Params) (*MovementPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	items, err := s.repo.ListMovements(ctx, filter, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock movements")
	}

	page := &MovementPage{}
	if len(items) > limit {
		items = items[:limit]
		last := items[len(items)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		page.NextCursor = &next
	}
	page.Items = movementsFromModels(items)
	return page, nil
}

func (s *service) CreateWarehouse(ctx context.Context, input CreateWarehouseInput) (*WarehouseDTO, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	name := strings.TrimSpace(input.Name)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "warehouse code required")
	}
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "warehouse name required")
	}

	if taken, err := s.warehouses.ExistsByCode(ctx, code, 0); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check code uniqueness")
	} else if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "warehouse code already in use")
	}

	w := &models.Warehouse{
		Code:          code,
		Name:          name,
		Address:       input.Address,
		City:          input.City,
		State:         input.State,
		Country:       input.Country,
		ZipCode:       input.ZipCode,
		ContactPerson: input.ContactPerson,
		ContactPhone:  input.ContactPhone,
		ContactEmail:  input.ContactEmail,
		IsActive:      true,
	}
	created, err := s.warehouses.Create(ctx, w)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create warehouse")
	}
	return warehouseFromModel(created), nil
}

func (s *service) GetWarehouse(ctx context.Context, id int64) (*WarehouseDTO, error) {
	w, err := s.warehouses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load warehouse")
	}
	return warehouseFromModel(w), nil
}

func (s *service) GetWarehouseByCode(ctx context.Context, code string) (*WarehouseDTO, error) {
	w, err := s.warehouses.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load warehouse")
	}
	return warehouseFromModel(w), nil
}

func (s *service) ListWarehouses(ctx context.Context) ([]WarehouseDTO, error) {
	items, err := s.warehouses.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list warehouses")
	}
	return warehousesFromModels(items), nil
}

func (s *service) UpdateWarehouse(ctx context.Context, id int64, input UpdateWarehouseInput) (*WarehouseDTO, error) {
	w, err := s.warehouses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load warehouse")
	}

	if input.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*input.Code))
		if code == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "warehouse code required")
		}
		if code != w.Code {
			if taken, err := s.warehouses.ExistsByCode(ctx, code, id); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check code uniqueness")
			} else if taken {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "warehouse code already in use")
			}
		}
		w.Code = code
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "warehouse name required")
		}
		w.Name = name
	}
	if input.Address != nil {
		w.Address = input.Address
	}
	if input.City != nil {
		w.City = input.City
	}
	if input.State != nil {
		w.State = input.State
	}
	if input.Country != nil {
		w.Country = input.Country
	}
	if input.ZipCode != nil {
		w.ZipCode = input.ZipCode
	}
	if input.ContactPerson != nil {
		w.ContactPerson = input.ContactPerson
	}
	if input.ContactPhone != nil {
		w.ContactPhone = input.ContactPhone
	}
	if input.ContactEmail != nil {
		w.ContactEmail = input.ContactEmail
	}
	if input.IsActive != nil {
		w.IsActive = *input.IsActive
	}

	if err := s.warehouses.Update(ctx, w); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update warehouse")
	}
	return warehouseFromModel(w), nil
}

// DeleteWarehouse refuses to remove a warehouse that inventory rows still
// reference.
func (s *service) DeleteWarehouse(ctx context.Context, id int64) error {
	count, err := s.repo.CountByWarehouse(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count warehouse inventory")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "warehouse still holds inventory")
	}
	if err := s.warehouses.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete warehouse")
	}
	return nil
}

func insufficientStock(productID int64, requested, available int) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
		WithDetails(map[string]any{
			"product_id": productID,
			"requested":  requested,
			"available":  available,
		})
}

func mapInventoryReadErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory")
}

func mapInventoryWriteErr(err error, op string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
