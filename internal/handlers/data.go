package handlers

import (
	"net/http"

	"github.com/abrezinsky/tourneytracker/internal/models"
	"github.com/abrezinsky/tourneytracker/internal/services"
)

// maxImportBytes bounds the size of an uploaded snapshot
const maxImportBytes = 32 << 20

// ==================== Export / Import ====================

func (h *Handlers) handleExport(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Data.Export(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if r.URL.Query().Get("download") != "" {
		w.Header().Set("Content-Disposition",
			`attachment; filename="tourneytracker-`+snap.ExportedAt.Format("20060102-150405")+`.json"`)
	}
	respondOK(w, snap)
}

func (h *Handlers) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	var snap models.Snapshot
	if err := decodeJSON(r, &snap); err != nil {
		if err == errEmptyBody {
			respondError(w, services.ErrNothingToImport)
			return
		}
		respondError(w, err)
		return
	}
	result, err := h.Data.Import(r.Context(), &snap)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleImportRemote(w http.ResponseWriter, r *http.Request) {
	var req RemoteImportRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	result, err := h.Data.ImportFromRemote(r.Context(), req.URL)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

// ==================== Backups ====================

func (h *Handlers) handleRunBackup(w http.ResponseWriter, r *http.Request) {
	if h.Backup == nil {
		respondError(w, services.ErrBackupsDisabled)
		return
	}
	path, err := h.Backup.RunNow(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, BackupResponse{Path: path})
}

func (h *Handlers) handleListBackups(w http.ResponseWriter, r *http.Request) {
	if h.Backup == nil {
		respondError(w, services.ErrBackupsDisabled)
		return
	}
	files, err := h.Backup.List()
	if err != nil {
		respondError(w, InternalError(err))
		return
	}
	if files == nil {
		files = []string{}
	}
	respondOK(w, BackupListResponse{Files: files})
}
