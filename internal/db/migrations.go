package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'grievance_status') THEN
			CREATE TYPE grievance_status AS ENUM ('PENDING', 'UNDER_REVIEW', 'IN_PROCESS', 'ON_HOLD', 'RESOLVED', 'CLOSED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'grievance_priority') THEN
			CREATE TYPE grievance_priority AS ENUM ('LOW', 'MEDIUM', 'HIGH');
		END IF;
	END
	$$;`,
	`CREATE SEQUENCE IF NOT EXISTS grievance_ref_seq START 1;`,
	`CREATE TABLE IF NOT EXISTS grievances (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		ref VARCHAR(16) NOT NULL UNIQUE,
		user_id UUID NOT NULL,
		phone VARCHAR(32) NOT NULL,
		email VARCHAR(255),
		description TEXT NOT NULL,
		structured_text TEXT,
		city VARCHAR(128) NOT NULL,
		area VARCHAR(128),
		pincode VARCHAR(16),
		department VARCHAR(64) NOT NULL,
		priority grievance_priority NOT NULL,
		status grievance_status NOT NULL DEFAULT 'PENDING',
		resolution_note TEXT,
		proof_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_grievances_user_id ON grievances (user_id);`,
	`CREATE INDEX IF NOT EXISTS idx_grievances_department ON grievances (department);`,
	`CREATE INDEX IF NOT EXISTS idx_grievances_status ON grievances (status);`,
	`CREATE INDEX IF NOT EXISTS idx_grievances_created_at ON grievances (created_at);`,
	`CREATE TABLE IF NOT EXISTS grievance_status_history (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		grievance_id UUID NOT NULL REFERENCES grievances(id) ON DELETE RESTRICT,
		old_status grievance_status,
		new_status grievance_status NOT NULL,
		note TEXT,
		actor_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_grievance_status_history_grievance_id ON grievance_status_history (grievance_id);`,
	`CREATE INDEX IF NOT EXISTS idx_grievance_status_history_created_at ON grievance_status_history (created_at);`,
	`CREATE OR REPLACE FUNCTION set_row_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_grievances_updated_at') THEN
			CREATE TRIGGER trg_grievances_updated_at
				BEFORE UPDATE ON grievances
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
	END
	$$;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
