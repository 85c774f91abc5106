package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/orcadive/divelog/internal/common"
)

// Export writes the visible journal to a file. An empty passphrase means a
// plain JSON export; otherwise the file is sealed.
func (a *App) Export(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Export file path (empty for default)", os.Stdout)
	if err != nil {
		return err
	}
	if path == "" {
		if path, err = a.export.DefaultExportPath(time.Now()); err != nil {
			log.Printf("error: %v", err)
			return err
		}
	}

	passphrase, err := getSecret(os.Stdout, "Passphrase (empty for plain export)")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(passphrase)

	if err := a.export.Export(ctx, path, passphrase); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Printf("Exported to %s\n", path)
	return nil
}

// Import reads a previously exported file and dispatches its entries.
func (a *App) Import(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Import file path", os.Stdout)
	if err != nil {
		return err
	}

	passphrase, err := getSecret(os.Stdout, "Passphrase (empty if not protected)")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(passphrase)

	res, err := a.export.Import(ctx, path, passphrase)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Printf("Imported: %d succeeded, %d failed\n", res.Succeeded, res.Failed)
	return nil
}
