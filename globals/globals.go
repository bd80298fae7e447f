package globals

import (
	"context"
	"os"
)

var (
	JwtSecret     = secretFromEnv("JWT_SECRET", "change_me_in_production")
	ReceiptSecret = secretFromEnv("RECEIPT_SECRET", "change_me_too")
)

func secretFromEnv(key, fallback string) []byte {
	if v := os.Getenv(key); v != "" {
		return []byte(v)
	}
	return []byte(fallback)
}

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

var Ctx = context.Background()
