package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema lists the DDL statements in dependency order.  Each statement is
// idempotent so EnsureSchema can run on every start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username      VARCHAR(100) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role          ENUM('landlord','tenant') NOT NULL,
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS landlords (
		id        BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id   BIGINT UNSIGNED NOT NULL,
		full_name VARCHAR(150) NOT NULL,
		phone     VARCHAR(40) NOT NULL DEFAULT '',
		UNIQUE KEY uq_landlords_user (user_id),
		CONSTRAINT fk_landlords_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS tenants (
		id        BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id   BIGINT UNSIGNED NOT NULL,
		full_name VARCHAR(150) NOT NULL,
		phone     VARCHAR(40) NOT NULL DEFAULT '',
		UNIQUE KEY uq_tenants_user (user_id),
		CONSTRAINT fk_tenants_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_hash (token_hash),
		CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS minicites (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		landlord_id BIGINT UNSIGNED NOT NULL,
		name        VARCHAR(150) NOT NULL,
		location    VARCHAR(255) NOT NULL DEFAULT '',
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_minicites_landlord FOREIGN KEY (landlord_id) REFERENCES landlords(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		minicite_id BIGINT UNSIGNED NOT NULL,
		label       VARCHAR(50) NOT NULL,
		annual_rent DECIMAL(14,2) NOT NULL,
		status      ENUM('vacant','occupied') NOT NULL DEFAULT 'vacant',
		CONSTRAINT fk_rooms_minicite FOREIGN KEY (minicite_id) REFERENCES minicites(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS tenant_sessions (
		id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		tenant_id      BIGINT UNSIGNED NOT NULL,
		room_id        BIGINT UNSIGNED NOT NULL,
		entry_date     DATE NOT NULL,
		exit_date      DATE NULL,
		contract_image VARCHAR(255) NULL,
		status         ENUM('active','closed') NOT NULL DEFAULT 'active',
		KEY idx_sessions_room_status (room_id, status, entry_date),
		KEY idx_sessions_tenant_status (tenant_id, status),
		CONSTRAINT fk_sessions_tenant FOREIGN KEY (tenant_id) REFERENCES tenants(id),
		CONSTRAINT fk_sessions_room FOREIGN KEY (room_id) REFERENCES rooms(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS meter_readings (
		id                BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		room_id           BIGINT UNSIGNED NOT NULL,
		period_month      DATE NOT NULL,
		water_index       DECIMAL(14,3) NOT NULL,
		electricity_index DECIMAL(14,3) NOT NULL,
		recorded_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_readings_room_period (room_id, period_month),
		CONSTRAINT fk_readings_room FOREIGN KEY (room_id) REFERENCES rooms(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS utility_bills (
		id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		session_id     BIGINT UNSIGNED NOT NULL,
		reading_id     BIGINT UNSIGNED NOT NULL,
		type           ENUM('water','electricity') NOT NULL,
		units_consumed DECIMAL(14,3) NOT NULL,
		amount         DECIMAL(20,5) NOT NULL,
		deadline       DATE NOT NULL,
		status         ENUM('unpaid','paid') NOT NULL DEFAULT 'unpaid',
		UNIQUE KEY uq_bills_session_reading_type (session_id, reading_id, type),
		CONSTRAINT fk_bills_session FOREIGN KEY (session_id) REFERENCES tenant_sessions(id),
		CONSTRAINT fk_bills_reading FOREIGN KEY (reading_id) REFERENCES meter_readings(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS rent_payments (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		session_id   BIGINT UNSIGNED NOT NULL,
		payment_date DATE NOT NULL,
		amount       DECIMAL(14,2) NOT NULL,
		note         VARCHAR(255) NOT NULL DEFAULT '',
		CONSTRAINT fk_payments_session FOREIGN KEY (session_id) REFERENCES tenant_sessions(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS issue_reports (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		session_id  BIGINT UNSIGNED NOT NULL,
		description TEXT NOT NULL,
		image       VARCHAR(255) NULL,
		status      ENUM('open','in_progress','resolved') NOT NULL DEFAULT 'open',
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_issues_session FOREIGN KEY (session_id) REFERENCES tenant_sessions(id)
	) ENGINE=InnoDB`,
}

// EnsureSchema creates any missing table.  It is only run when
// DB_AUTO_MIGRATE is enabled.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
