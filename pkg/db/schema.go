// pkg/db/schema.go
package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id          BIGSERIAL PRIMARY KEY,
    name        VARCHAR(100) NOT NULL,
    description VARCHAR(200) NOT NULL DEFAULT '',
    image_url   VARCHAR(200) NOT NULL DEFAULT '',
    price       BIGINT NOT NULL CHECK (price >= 0),
    quantity    BIGINT NOT NULL CHECK (quantity >= 0),
    seller      TEXT NOT NULL,
    active      BOOLEAN NOT NULL DEFAULT TRUE,
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS earnings (
    seller     TEXT NOT NULL,
    currency   TEXT NOT NULL CHECK (currency IN ('NATIVE', 'STABLE')),
    balance    BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
    updated_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (seller, currency)
);

CREATE TABLE IF NOT EXISTS entries (
    id         UUID PRIMARY KEY,
    type       TEXT NOT NULL CHECK (type IN ('SALE', 'WITHDRAWAL')),
    item_id    BIGINT REFERENCES items(id),
    seller     TEXT NOT NULL,
    buyer      TEXT,
    currency   TEXT NOT NULL CHECK (currency IN ('NATIVE', 'STABLE')),
    quantity   BIGINT NOT NULL DEFAULT 0,
    amount     BIGINT NOT NULL CHECK (amount >= 0),
    created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_seller ON entries(seller, created_at DESC);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
