package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
)

// AuthCheck verifies the configured credentials by acquiring an app token.
func (r *Runner) AuthCheck(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	r.logger.Info("verifying spotify credentials")

	cred, err := r.catalog.Authenticate(ctx)
	if err != nil {
		return fmt.Errorf("credential check failed: %w", err)
	}

	r.writePlain("✓ Credentials valid\n")
	if !cred.ExpiresAt.IsZero() {
		r.writePlain("  Token expires: %s (in %s)\n",
			cred.ExpiresAt.Format(time.RFC3339),
			time.Until(cred.ExpiresAt).Round(time.Second))
	}

	return nil
}
