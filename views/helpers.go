package views

import (
	"context"

	"github.com/AdamBeresnev/dam-aji/internal/admin"
)

func GetAdmin(ctx context.Context) *admin.Admin {
	return admin.FromContext(ctx)
}
