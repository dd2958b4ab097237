package roles

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/permissions"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE custom_roles (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			is_system_role INTEGER NOT NULL DEFAULT 0,
			system_role_key TEXT,
			permissions TEXT NOT NULL DEFAULT '{}',
			icon TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			created_by TEXT
		);
	`)
	if err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

func seedSystemRole(t *testing.T, db *sql.DB, id, tenantID string, key permissions.SystemRoleKey) {
	_, err := db.Exec(`
		INSERT INTO custom_roles (id, tenant_id, name, is_system_role, system_role_key, permissions)
		VALUES (?, ?, ?, 1, ?, '{}')
	`, id, tenantID, string(key), string(key))
	if err != nil {
		t.Fatalf("Failed to seed system role: %v", err)
	}
}

func TestStoreCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	desc := "Vede solo i cantieri"
	created, err := store.Create(ctx, "t1", "u1", CreateInput{
		Name:        "Capocantiere",
		Description: &desc,
		Permissions: RolePermissions{
			Commesse:   []string{"view", "update"},
			Rapportini: &RapportiniPermissions{Own: []string{"view", "create"}},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated role ID")
	}

	got, err := store.Get(ctx, "t1", created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Capocantiere" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.IsSystemRole {
		t.Error("tenant-authored role must not be a system role")
	}
	if got.SystemKey != nil {
		t.Error("tenant-authored role must not carry a system key")
	}
	if got.Permissions.Rapportini == nil || len(got.Permissions.Rapportini.Own) != 2 {
		t.Errorf("permissions payload not round-tripped: %+v", got.Permissions)
	}

	t.Run("tenant isolation", func(t *testing.T) {
		if _, err := store.Get(ctx, "other-tenant", created.ID); err == nil {
			t.Error("role must not be visible from another tenant")
		}
	})
}

func TestStoreList(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	seedSystemRole(t, db, "sys-1", "t1", permissions.SystemRoleDipendente)
	if _, err := store.Create(ctx, "t1", "u1", CreateInput{Name: "Zzz Custom"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.List(ctx, "t1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(got))
	}
	if !got[0].IsSystemRole {
		t.Error("system roles should list first")
	}
	if got[0].SystemKey == nil || *got[0].SystemKey != permissions.SystemRoleDipendente {
		t.Errorf("system key not scanned: %+v", got[0])
	}
}

func TestStoreUpdate(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	created, err := store.Create(ctx, "t1", "u1", CreateInput{Name: "Ragioniere"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	newName := "Contabile"
	if err := store.Update(ctx, "t1", created.ID, UpdateInput{
		Name:        &newName,
		Permissions: &RolePermissions{Fatture: []string{"view"}},
	}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.Get(ctx, "t1", created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Contabile" {
		t.Errorf("Name = %q after update", got.Name)
	}
	if len(got.Permissions.Fatture) != 1 {
		t.Errorf("Permissions = %+v after update", got.Permissions)
	}

	t.Run("system role rejects updates", func(t *testing.T) {
		seedSystemRole(t, db, "sys-2", "t1", permissions.SystemRoleAdmin)
		if err := store.Update(ctx, "t1", "sys-2", UpdateInput{Name: &newName}); err == nil {
			t.Error("updating a system role must fail")
		}
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		if err := store.Update(ctx, "t1", created.ID, UpdateInput{}); err != nil {
			t.Errorf("empty update should succeed: %v", err)
		}
	})
}

func TestStoreDelete(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	created, err := store.Create(ctx, "t1", "u1", CreateInput{Name: "Temporaneo"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Delete(ctx, "t1", created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "t1", created.ID); err == nil {
		t.Error("role should be gone")
	}

	t.Run("system role rejects deletion", func(t *testing.T) {
		seedSystemRole(t, db, "sys-3", "t1", permissions.SystemRoleOwner)
		if err := store.Delete(ctx, "t1", "sys-3"); err == nil {
			t.Error("deleting a system role must fail")
		}
	})
}
