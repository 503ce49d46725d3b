package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createIdentityTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE,
		email TEXT UNIQUE,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE accounts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		name TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createWalletTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE wallets (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		type TEXT NOT NULL,
		balance INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0),
		currency TEXT NOT NULL DEFAULT 'sats',
		label TEXT,
		last_updated DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME,
		UNIQUE (account_id, type)
	);`)
}

func createTransferTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE transfer_transactions (
		id TEXT PRIMARY KEY,
		source_wallet_id TEXT NOT NULL,
		destination_wallet_id TEXT NOT NULL,
		amount INTEGER NOT NULL,
		fee INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		description TEXT,
		message_id TEXT,
		processing_attempts INTEGER NOT NULL DEFAULT 0,
		last_attempt DATETIME,
		error_message TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE transactions (
		id TEXT PRIMARY KEY,
		wallet_id TEXT NOT NULL,
		type TEXT NOT NULL,
		amount INTEGER NOT NULL,
		fee INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		description TEXT,
		counterparty TEXT,
		tag TEXT,
		transfer_id TEXT NOT NULL,
		created_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createPaymentRequestTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE payment_requests (
		id TEXT PRIMARY KEY,
		requester_id TEXT NOT NULL,
		recipient_id TEXT NOT NULL,
		message_id TEXT,
		amount INTEGER NOT NULL,
		currency TEXT NOT NULL DEFAULT 'sats',
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		description TEXT,
		expires_at DATETIME NOT NULL,
		decline_reason TEXT,
		cancel_reason TEXT,
		expired_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createConversationTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE conversations (
		id TEXT PRIMARY KEY,
		initiator_id TEXT NOT NULL,
		counterpart_id TEXT NOT NULL,
		last_message_id TEXT,
		last_message_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE participants (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		role TEXT NOT NULL,
		joined_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE messages (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL,
		sender_id TEXT NOT NULL,
		content TEXT,
		type TEXT NOT NULL,
		status TEXT,
		visibility TEXT NOT NULL,
		amount INTEGER NOT NULL DEFAULT 0,
		request_id TEXT,
		request_status TEXT,
		transfer_id TEXT,
		timestamp DATETIME NOT NULL,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		title TEXT,
		description TEXT,
		status TEXT NOT NULL DEFAULT 'unread',
		priority INTEGER NOT NULL DEFAULT 0,
		payment_status TEXT,
		related_entity_id TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
