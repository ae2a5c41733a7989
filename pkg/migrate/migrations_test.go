package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/migrate"
)

func TestInventoryMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "inventory", "*_create_inventory.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no inventory migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS inventory",
		"CHECK (available_quantity >= 0)",
		"CHECK (reserved_quantity >= 0)",
		"UNIQUE INDEX IF NOT EXISTS idx_inventory_product",
		"DROP TABLE IF EXISTS inventory",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrderMigrationsCascadeItems(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "orders", "*_create_order_items.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no order items migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"REFERENCES orders(id) ON DELETE CASCADE",
		"CHECK (quantity > 0)",
		"DROP TABLE IF EXISTS order_items",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestAllServiceMigrationDirsValidate(t *testing.T) {
	services := []string{"users", "products", "inventory", "orders", "payments"}
	for _, service := range services {
		if err := migrate.ValidateDir(filepath.Join("migrations", service)); err != nil {
			t.Errorf("service %s: %v", service, err)
		}
	}
}
