package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/doctrans/internal/parser"
	"github.com/dgallion1/doctrans/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// handleTranslate accepts a single document upload.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	source, target, err := s.languages(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	job, status, err := s.submitUpload(file, header, source, target)
	if err != nil {
		jsonError(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":      job.ID,
		"status":      "queued",
		"source_lang": source,
		"target_lang": target,
		"poll_url":    fmt.Sprintf("/api/translate/%s/status", job.ID),
	})
}

// handleBatchTranslate accepts multiple document uploads. Files that cannot
// be queued are reported individually.
func (s *Server) handleBatchTranslate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	source, target, err := s.languages(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "no files provided", http.StatusBadRequest)
		return
	}

	var jobs []map[string]any
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			jobs = append(jobs, map[string]any{"filename": fh.Filename, "error": "failed to open"})
			continue
		}
		job, _, err := s.submitUpload(f, fh, source, target)
		f.Close()
		if err != nil {
			jobs = append(jobs, map[string]any{"filename": fh.Filename, "error": err.Error()})
			continue
		}
		jobs = append(jobs, map[string]any{
			"filename": fh.Filename,
			"job_id":   job.ID,
			"status":   "queued",
			"poll_url": fmt.Sprintf("/api/translate/%s/status", job.ID),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{"jobs": jobs})
}

// languages reads the optional source_lang and target_lang form fields,
// falling back to the server defaults.
func (s *Server) languages(r *http.Request) (source, target string, err error) {
	source, target = s.orchestrator.Languages()
	if v := strings.TrimSpace(r.FormValue("source_lang")); v != "" {
		source = v
	}
	if v := strings.TrimSpace(r.FormValue("target_lang")); v != "" {
		target = v
	}
	if _, err := language.Parse(source); err != nil {
		return "", "", fmt.Errorf("invalid source_lang %q", source)
	}
	if _, err := language.Parse(target); err != nil {
		return "", "", fmt.Errorf("invalid target_lang %q", target)
	}
	return source, target, nil
}

// submitUpload stores the upload under the input directory and queues a job
// for it. The returned status code applies when err is non-nil.
func (s *Server) submitUpload(file multipart.File, header *multipart.FileHeader, source, target string) (*pipeline.Job, int, error) {
	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		return nil, http.StatusBadRequest, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("failed to read file")
	}
	if len(data) == 0 {
		return nil, http.StatusBadRequest, fmt.Errorf("file is empty")
	}

	jobID := uuid.NewString()
	uploadDir := filepath.Join(s.cfg.InputDir, "uploads")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		s.log.Error("create upload dir", "error", err)
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to store upload")
	}
	inputPath := filepath.Join(uploadDir, jobID+"_"+filename)
	if err := os.WriteFile(inputPath, data, 0o644); err != nil {
		s.log.Error("store upload", "path", inputPath, "error", err)
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to store upload")
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:          jobID,
		Status:      pipeline.StatusQueued,
		Phase:       "queued",
		Filename:    filename,
		InputPath:   inputPath,
		OutputPath:  filepath.Join(s.cfg.OutputDir, outputName(filename, jobID)),
		Source:      source,
		Target:      target,
		ContentHash: pipeline.ContentHashHex(data),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.orchestrator.Submit(job); err != nil {
		os.Remove(inputPath)
		return nil, http.StatusServiceUnavailable, err
	}
	return job, 0, nil
}

// handleTranslateStatus returns the progress of a job.
func (s *Server) handleTranslateStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	snap := job.Snapshot()
	resp := map[string]any{
		"job_id":      snap.ID,
		"status":      snap.Status,
		"phase":       snap.Phase,
		"filename":    snap.Filename,
		"source_lang": snap.Source,
		"target_lang": snap.Target,
		"progress":    snap.Progress,
		"created_at":  snap.CreatedAt,
		"updated_at":  snap.UpdatedAt,
	}
	if snap.Status == pipeline.StatusCompleted || snap.Status == pipeline.StatusPartial {
		resp["result_url"] = fmt.Sprintf("/api/translate/%s/result", snap.ID)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// handleTranslateResult streams the translated document of a finished job.
func (s *Server) handleTranslateResult(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	snap := job.Snapshot()
	if snap.Status != pipeline.StatusCompleted && snap.Status != pipeline.StatusPartial {
		jsonError(w, fmt.Sprintf("job is %s", snap.Status), http.StatusConflict)
		return
	}

	f, err := os.Open(snap.Output)
	if err != nil {
		jsonError(w, "output not available", http.StatusGone)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		jsonError(w, "output not available", http.StatusGone)
		return
	}

	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filepath.Base(snap.Output)))
	http.ServeContent(w, r, filepath.Base(snap.Output), info.ModTime(), f)
}

// outputName names the translated file for an upload. The job ID suffix
// keeps uploads with the same name apart.
func outputName(filename, jobID string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	short := jobID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("output_%s_%s.docx", base, short)
}

// sanitizeFilename removes path components and dangerous characters.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == 0 {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "upload"
	}
	return name
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
