package main

import (
	"context"

	"marketboard/internal/export"
	"marketboard/internal/store"
)

// exportSnapshots writes the requested flat artifacts from the current
// store contents. Both paths are optional.
func exportSnapshots(ctx context.Context, st store.Store, csvPath, htmlPath string) error {
	records, err := st.All(ctx)
	if err != nil {
		return err
	}

	if csvPath != "" {
		if err := export.WriteCSVFile(csvPath, records); err != nil {
			return err
		}
	}

	if htmlPath != "" {
		if err := export.WritePageFile(htmlPath, records); err != nil {
			return err
		}
	}

	return nil
}
