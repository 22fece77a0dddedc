package rides

import (
	"context"
	"fmt"

	"ridebooking/pkg/config"
	"ridebooking/pkg/sheets"

	log "github.com/sirupsen/logrus"
)

// Open builds the configured sheet backend and a reconciler over it. Call it
// once at startup and pass the result to whatever needs the store.
func Open(ctx context.Context, c *config.Config) (*Reconciler, error) {
	table, err := openTable(ctx, c.Store.Sheet)
	if err != nil {
		return nil, err
	}
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	policy, err := ParsePolicy(c.Store.Rides.MalformedRows)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"backend":  c.Store.Sheet.Backend,
		"sheet":    c.Store.Sheet.SheetName,
		"timezone": loc.String(),
		"policy":   policy.String(),
	}).Info("Ride store ready")
	return NewReconciler(NewSheetStore(table), WithLocation(loc), WithPolicy(policy)), nil
}

func openTable(ctx context.Context, s config.SheetConfig) (sheets.Table, error) {
	switch s.Backend {
	case config.BackendGoogle:
		client, err := sheets.NewSheetClient(ctx, s.CredentialsFile, s.SpreadsheetID, s.SheetName)
		if err != nil {
			return nil, err
		}
		if err := client.EnsureSheetExistsWithHeader(ctx); err != nil {
			return nil, err
		}
		return client, nil
	case config.BackendWorkbook:
		return sheets.NewWorkbook(s.WorkbookPath, s.SheetName)
	}
	return nil, fmt.Errorf("unknown sheet backend %q", s.Backend)
}
