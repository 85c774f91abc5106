// Package services holds client conveniences layered over the sync
// controller: file export/import of the journal and photo storage. These
// are escape hatches around the sync contract, not part of it.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/orcadive/divelog/internal/client/models"
	"github.com/orcadive/divelog/internal/client/syncer"
	"github.com/orcadive/divelog/internal/cryptox"
	"github.com/orcadive/divelog/internal/filex"
	"github.com/orcadive/divelog/internal/logging"
)

const exportDirName = "exports"

// sealedFile is the on-disk shape of a passphrase-protected export. Plain
// exports are a bare JSON array of entries.
type sealedFile struct {
	Encrypted bool   `json:"encrypted"`
	Salt      []byte `json:"salt"`
	Nonce     []byte `json:"nonce"`
	Cipher    []byte `json:"ciphertext"`
}

type ExportService struct {
	ctrl *syncer.Controller
	log  logging.Logger
}

func NewExportService(ctrl *syncer.Controller, log logging.Logger) *ExportService {
	return &ExportService{ctrl: ctrl, log: log}
}

// DefaultExportPath returns a dated file name under ./exports.
func (s *ExportService) DefaultExportPath(now time.Time) (string, error) {
	dir, err := filex.EnsureSubDir(exportDirName)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("divelog-%s.json", now.Format("2006-01-02"))
	return filepath.Join(dir, name), nil
}

// Export writes the current visible entry set to path as a JSON array.
// With a non-empty passphrase the array is sealed first.
func (s *ExportService) Export(ctx context.Context, path string, passphrase []byte) error {
	entries := s.ctrl.Entries()

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling entries: %w", err)
	}

	if len(passphrase) > 0 {
		env, err := cryptox.Seal(data, passphrase)
		if err != nil {
			return fmt.Errorf("sealing export: %w", err)
		}
		data, err = json.MarshalIndent(sealedFile{
			Encrypted: true,
			Salt:      env.Salt,
			Nonce:     env.Nonce,
			Cipher:    env.Ciphertext,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling sealed export: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	s.log.Info(ctx, "journal exported", "path", path, "entries", len(entries))
	return nil
}

// Import reads an export file (plain or sealed) and dispatches its entries
// through the controller. Partial success is reported, never collapsed
// into a single pass/fail.
func (s *ExportService) Import(ctx context.Context, path string, passphrase []byte) (syncer.ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return syncer.ImportResult{}, fmt.Errorf("reading import file: %w", err)
	}

	entries, err := decodeExport(data, passphrase)
	if err != nil {
		return syncer.ImportResult{}, err
	}
	return s.ctrl.ImportEntries(ctx, entries)
}

// decodeExport sniffs the file shape: a bare array is a plain export, an
// object is a sealed one.
func decodeExport(data, passphrase []byte) ([]*models.DiveEntry, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty file", syncer.ErrValidation)
	}

	if trimmed[0] == '{' {
		var sf sealedFile
		if err := json.Unmarshal(data, &sf); err != nil || !sf.Encrypted {
			return nil, fmt.Errorf("%w: not a journal export", syncer.ErrValidation)
		}
		if len(passphrase) == 0 {
			return nil, fmt.Errorf("%w: export is passphrase-protected", syncer.ErrValidation)
		}
		plain, err := cryptox.Open(&cryptox.Envelope{Salt: sf.Salt, Nonce: sf.Nonce, Ciphertext: sf.Cipher}, passphrase)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", syncer.ErrValidation, err)
		}
		data = plain
	}

	var entries []*models.DiveEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: malformed entry array: %v", syncer.ErrValidation, err)
	}
	return entries, nil
}
