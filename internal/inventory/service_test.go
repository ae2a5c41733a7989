package inventory

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/db/models"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"
	pkgerrors "github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/errors"
	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/pagination"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:inventory_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Warehouse{}, &models.Inventory{}, &models.StockMovement{}))
	return db
}

func newInventoryService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupInventoryTestDB(t)
	svc, err := NewService(NewRepository(db), NewWarehouseRepository(db))
	require.NoError(t, err)
	return svc, db
}

func mustCreateInventory(t *testing.T, svc Service, productID int64, qty int) *InventoryDTO {
	t.Helper()
	dto, err := svc.Create(context.Background(), CreateInventoryInput{
		ProductID:       productID,
		ProductName:     fmt.Sprintf("Product %d", productID),
		SKU:             fmt.Sprintf("SKU-%d", productID),
		InitialQuantity: qty,
	})
	require.NoError(t, err)
	return dto
}

func movementCount(t *testing.T, db *gorm.DB, inventoryID int64) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.StockMovement{}).Where("inventory_id = ?", inventoryID).Count(&count).Error)
	return count
}

func TestCreateInventoryWritesInitialMovement(t *testing.T) {
	svc, db := newInventoryService(t)

	dto := mustCreateInventory(t, svc, 1, 100)
	assert.Equal(t, 100, dto.AvailableQuantity)
	assert.Equal(t, 0, dto.ReservedQuantity)
	assert.Equal(t, 100, dto.TotalQuantity)
	assert.Equal(t, enums.InventoryStatusInStock, dto.Status)
	assert.NotNil(t, dto.LastRestockedAt)

	var movement models.StockMovement
	require.NoError(t, db.First(&movement, "inventory_id = ?", dto.ID).Error)
	assert.Equal(t, enums.MovementTypeIn, movement.MovementType)
	assert.Equal(t, 0, movement.PreviousQuantity)
	assert.Equal(t, 100, movement.NewQuantity)
	assert.Equal(t, int64(1), movementCount(t, db, dto.ID))
}

func TestCreateInventoryZeroQuantityHasNoMovement(t *testing.T) {
	svc, db := newInventoryService(t)

	dto := mustCreateInventory(t, svc, 2, 0)
	assert.Equal(t, enums.InventoryStatusOutOfStock, dto.Status)
	assert.Nil(t, dto.LastRestockedAt)
	assert.Equal(t, int64(0), movementCount(t, db, dto.ID))
}

func TestCreateInventoryRejectsDuplicateProduct(t *testing.T) {
	svc, _ := newInventoryService(t)

	mustCreateInventory(t, svc, 3, 10)

	_, err := svc.Create(context.Background(), CreateInventoryInput{
		ProductID:   3,
		ProductName: "Again",
		SKU:         "SKU-OTHER",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestAddStockReclassifiesAndRecordsMovement(t *testing.T) {
	svc, db := newInventoryService(t)
	ctx := context.Background()

	dto := mustCreateInventory(t, svc, 4, 0)

	updated, err := svc.AddStock(ctx, dto.ID, StockAdjustmentInput{Quantity: 40})
	require.NoError(t, err)
	assert.Equal(t, 40, updated.AvailableQuantity)
	assert.Equal(t, 40, updated.TotalQuantity)
	assert.Equal(t, enums.InventoryStatusInStock, updated.Status)
	assert.NotNil(t, updated.LastRestockedAt)

	var movements []models.StockMovement
	require.NoError(t, db.Where("inventory_id = ?", dto.ID).Order("id ASC").Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, enums.MovementTypeIn, movements[0].MovementType)
	assert.Equal(t, 0, movements[0].PreviousQuantity)
	assert.Equal(t, 40, movements[0].NewQuantity)
	assert.Equal(t, enums.MovementReasonPurchase, movements[0].Reason)
}

func TestRemoveStockInsufficientWritesNoMovement(t *testing.T) {
	svc, db := newInventoryService(t)
	ctx := context.Background()

	dto := mustCreateInventory(t, svc, 5, 5)
	before := movementCount(t, db, dto.ID)

	_, err := svc.RemoveStock(ctx, dto.ID, StockAdjustmentInput{Quantity: 6})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
	assert.NotNil(t, typed.Details())

	assert.Equal(t, before, movementCount(t, db, dto.ID))

	fresh, err := svc.GetByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, fresh.AvailableQuantity)
}

func TestReserveMovesAvailableToReserved(t *testing.T) {
	svc, db := newInventoryService(t)
	ctx := context.Background()

	dto := mustCreateInventory(t, svc, 6, 50)

	updated, err := svc.Reserve(ctx, 6, 20, "ORD-20260801-00001")
	require.NoError(t, err)
	assert.Equal(t, 30, updated.AvailableQuantity)
	assert.Equal(t, 20, updated.ReservedQuantity)
	assert.Equal(t, 50, updated.TotalQuantity)

	var movement models.StockMovement
	require.NoError(t, db.Last(&movement, "inventory_id = ?", dto.ID).Error)
	assert.Equal(t, enums.MovementTypeReserved, movement.MovementType)
	// reservation snapshots the available counter
	assert.Equal(t, 50, movement.PreviousQuantity)
	assert.Equal(t, 30, movement.NewQuantity)
	assert.Equal(t, enums.MovementReasonOrderReservation, movement.Reason)
	require.NotNil(t, movement.ReferenceID)
	assert.Equal(t, "ORD-20260801-00001", *movement.ReferenceID)
}

func TestReserveInsufficientStock(t *testing.T) {
	svc, db := newInventoryService(t)
	ctx := context.Background()

	dto := mustCreateInventory(t, svc, 7, 10)
	before := movementCount(t, db, dto.ID)

	_, err := svc.Reserve(ctx, 7, 11, "ORD-X")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
	assert.Equal(t, before, movementCount(t, db, dto.ID))
}

func TestReleaseSnapshotsAvailableCounter(t *testing.T) {
	svc, db := newInventoryService(t)
	ctx := context.Background()

	dto := mustCreateInventory(t, svc, 8, 10)
	_, err := svc.Reserve(ctx, 8, 4, "ORD-R")
	require.NoError(t, err)

	updated, err := svc.Release(ctx, 8, 3, "ORD-R")
	require.NoError(t, err)
	assert.Equal(t, 9, updated.AvailableQuantity)
	assert.Equal(t, 1, updated.ReservedQuantity)

	var movement models.StockMovement
	require.NoError(t, db.Last(&movement, "inventory_id = ?", dto.ID).Error)
	assert.Equal(t, enums.MovementTypeReleased, movement.MovementType)
	// release snapshots available, like reserve
	assert.Equal(t, 6, movement.PreviousQuantity)
	assert.Equal(t, 9, movement.NewQuantity)
	assert.Equal(t, enums.MovementReasonOrderCancellation, movement.Reason)
}

func TestReleaseBeyondReservedIsStateConflict(t *testing.T) {
	svc, _ := newInventoryService(t)
	ctx := context.Background()

	mustCreateInventory(t, svc, 9, 50)
	_, err := svc.Reserve(ctx, 9, 5, "ORD-S")
	require.NoError(t, err)

	_, err = svc.Release(ctx, 9, 6, "ORD-S")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestConfirmBurnsReservedAndSnapshotsReserved(t *testing.T) {
	svc, db := newInventoryService(t)
	ctx := context.Background()

	dto := mustCreateInventory(t, svc, 10, 50)
	_, err := svc.Reserve(ctx, 10, 20, "ORD-C")
	require.NoError(t, err)

	updated, err := svc.Confirm(ctx, 10, 20, "ORD-C")
	require.NoError(t, err)
	assert.Equal(t, 30, updated.AvailableQuantity)
	assert.Equal(t, 0, updated.ReservedQuantity)
	assert.Equal(t, 30, updated.TotalQuantity)

	var movement models.StockMovement
	require.NoError(t, db.Last(&movement, "inventory_id = ?", dto.ID).Error)
	assert.Equal(t, enums.MovementTypeOut, movement.MovementType)
	// the confirm OUT leg snapshots the reserved counter
	assert.Equal(t, 20, movement.PreviousQuantity)
	assert.Equal(t, 0, movement.NewQuantity)
	assert.Equal(t, enums.MovementReasonSale, movement.Reason)
}

func TestCheckAvailability(t *testing.T) {
	svc, _ := newInventoryService(t)
	ctx := context.Background()

	mustCreateInventory(t, svc, 11, 8)

	ok, err := svc.CheckAvailability(ctx, 11, 8)
	require.NoError(t, err)
	assert.True(t, ok.Available)
	assert.Equal(t, 8, ok.AvailableQuantity)

	not, err := svc.CheckAvailability(ctx, 11, 9)
	require.NoError(t, err)
	assert.False(t, not.Available)

	_, err = svc.CheckAvailability(ctx, 999, 1)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestUpdateReorderLevelReclassifies(t *testing.T) {
	svc, _ := newInventoryService(t)
	ctx := context.Background()

	dto := mustCreateInventory(t, svc, 12, 20)
	assert.Equal(t, enums.InventoryStatusInStock, dto.Status)

	level := 25
	updated, err := svc.Update(ctx, dto.ID, UpdateInventoryInput{ReorderLevel: &level})
	require.NoError(t, err)
	assert.Equal(t, enums.InventoryStatusLowStock, updated.Status)
}

func TestUpdateAvailableDirectlyAuditsAdjustment(t *testing.T) {
	svc, db := newInventoryService(t)
	ctx := context.Background()

	dto := mustCreateInventory(t, svc, 19, 30)

	next := 12
	updated, err := svc.Update(ctx, dto.ID, UpdateInventoryInput{AvailableQuantity: &next})
	require.NoError(t, err)
	assert.Equal(t, 12, updated.AvailableQuantity)
	assert.Equal(t, 12, updated.TotalQuantity)

	var movement models.StockMovement
	require.NoError(t, db.Last(&movement, "inventory_id = ?", dto.ID).Error)
	assert.Equal(t, enums.MovementTypeOut, movement.MovementType)
	assert.Equal(t, 18, movement.Quantity)
	assert.Equal(t, 30, movement.PreviousQuantity)
	assert.Equal(t, 12, movement.NewQuantity)
	assert.Equal(t, enums.MovementReasonAdjustment, movement.Reason)
}

func TestLowStockAndOutOfStockLists(t *testing.T) {
	svc, _ := newInventoryService(t)
	ctx := context.Background()

	mustCreateInventory(t, svc, 13, 100) // IN_STOCK
	mustCreateInventory(t, svc, 14, 5)   // LOW_STOCK (reorder level 10)
	mustCreateInventory(t, svc, 15, 0)   // OUT_OF_STOCK

	low, err := svc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, int64(14), low[0].ProductID)

	out, err := svc.ListOutOfStock(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(15), out[0].ProductID)
}

func TestListMovementsPaginatesWithCursor(t *testing.T) {
	svc, _ := newInventoryService(t)
	ctx := context.Background()

	dto := mustCreateInventory(t, svc, 16, 0)
	for i := 0; i < 5; i++ {
		_, err := svc.AddStock(ctx, dto.ID, StockAdjustmentInput{Quantity: 1})
		require.NoError(t, err)
	}

	first, err := svc.ListMovements(ctx, MovementFilter{InventoryID: &dto.ID}, pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, first.Items, 3)
	require.NotNil(t, first.NextCursor)

	second, err := svc.ListMovements(ctx, MovementFilter{InventoryID: &dto.ID}, pagination.Params{Limit: 3, Cursor: *first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 2)
	assert.Nil(t, second.NextCursor)

	seen := map[int64]bool{}
	for _, m := range append(first.Items, second.Items...) {
		assert.False(t, seen[m.ID])
		seen[m.ID] = true
	}
}

func TestListMovementsFiltersByTypeAndReference(t *testing.T) {
	svc, _ := newInventoryService(t)
	ctx := context.Background()

	dto := mustCreateInventory(t, svc, 17, 30)
	_, err := svc.Reserve(ctx, 17, 10, "ORD-F1")
	require.NoError(t, err)
	_, err = svc.Release(ctx, 17, 10, "ORD-F1")
	require.NoError(t, err)

	typ := enums.MovementTypeReleased
	page, err := svc.ListMovements(ctx, MovementFilter{InventoryID: &dto.ID, Type: &typ}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, enums.MovementTypeReleased, page.Items[0].MovementType)

	ref := "ORD-F1"
	byRef, err := svc.ListMovements(ctx, MovementFilter{ReferenceID: &ref}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, byRef.Items, 2)
}

func TestWarehouseDeleteRefusedWhileReferenced(t *testing.T) {
	svc, _ := newInventoryService(t)
	ctx := context.Background()

	w, err := svc.CreateWarehouse(ctx, CreateWarehouseInput{Code: "wh-east", Name: "East"})
	require.NoError(t, err)
	assert.Equal(t, "WH-EAST", w.Code)

	_, err = svc.Create(ctx, CreateInventoryInput{
		ProductID:   18,
		ProductName: "Held",
		SKU:         "SKU-18",
		WarehouseID: &w.ID,
	})
	require.NoError(t, err)

	err = svc.DeleteWarehouse(ctx, w.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestWarehouseCodeUniqueness(t *testing.T) {
	svc, _ := newInventoryService(t)
	ctx := context.Background()

	_, err := svc.CreateWarehouse(ctx, CreateWarehouseInput{Code: "WH-1", Name: "One"})
	require.NoError(t, err)

	_, err = svc.CreateWarehouse(ctx, CreateWarehouseInput{Code: "wh-1", Name: "Two"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	byCode, err := svc.GetWarehouseByCode(ctx, "wh-1")
	require.NoError(t, err)
	assert.Equal(t, "One", byCode.Name)
}
