package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Amounts are base units (6 decimals) and timestamps are Unix nanoseconds.
const schema = `
CREATE TABLE IF NOT EXISTS ledger_state (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS balances (
    address TEXT PRIMARY KEY,
    amount INTEGER NOT NULL CHECK (amount >= 0)
);

CREATE TABLE IF NOT EXISTS faucet_claims (
    address TEXT PRIMARY KEY,
    claimed_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS vendors (
    address TEXT PRIMARY KEY,
    identifier TEXT NOT NULL UNIQUE,
    verified INTEGER NOT NULL DEFAULT 0,
    active INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
    order_id TEXT PRIMARY KEY,
    payer TEXT NOT NULL,
    recipient TEXT NOT NULL,
    recipient_identifier TEXT NOT NULL,
    amount_fiat INTEGER NOT NULL,
    amount_token INTEGER NOT NULL,
    fx_rate INTEGER NOT NULL,
    rate_source TEXT NOT NULL,
    payment_type TEXT NOT NULL,
    metadata TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    expires_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS receipts (
    order_id TEXT PRIMARY KEY,
    recipient_identifier TEXT NOT NULL,
    sender TEXT NOT NULL,
    recipient TEXT NOT NULL,
    amount_fiat INTEGER NOT NULL,
    amount_token INTEGER NOT NULL,
    fx_rate INTEGER NOT NULL,
    platform_fee INTEGER NOT NULL,
    recipient_amount INTEGER NOT NULL,
    fee_recipient TEXT NOT NULL,
    payment_type TEXT NOT NULL,
    status TEXT NOT NULL,
    metadata TEXT NOT NULL DEFAULT '',
    is_vendor_payment INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (order_id) REFERENCES orders(order_id)
);

CREATE INDEX IF NOT EXISTS idx_orders_status_expires ON orders(status, expires_at);
CREATE INDEX IF NOT EXISTS idx_orders_payer ON orders(payer);
CREATE INDEX IF NOT EXISTS idx_receipts_sender ON receipts(sender, created_at);
CREATE INDEX IF NOT EXISTS idx_receipts_recipient ON receipts(recipient, created_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
