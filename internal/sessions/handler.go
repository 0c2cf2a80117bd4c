package sessions

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-roaster/internal/credentials"
	"resume-roaster/internal/roast"
	"resume-roaster/internal/session"
	"resume-roaster/internal/shared/server/middleware"
	"resume-roaster/internal/shared/server/respond"
	"resume-roaster/internal/shared/util"
)

const maxUploadBytes = 10 << 20

// Handler wires HTTP handlers to the sessions service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

type sessionResponse struct {
	SessionID    string            `json:"sessionId"`
	Session      session.ViewModel `json:"session"`
	SectionsHTML map[string]string `json:"sectionsHtml,omitempty"`
}

type credentialRequest struct {
	APIKey string `json:"apiKey"`
}

type resumeRequest struct {
	Text string `json:"text"`
}

type preferencesRequest struct {
	TargetRole      *string `json:"targetRole"`
	ExperienceYears *int    `json:"experienceYears"`
}

type contactRequest struct {
	Email string `json:"email"`
}

// RegisterRoutes attaches session and credential routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, analyzeLimit gin.HandlerFunc) {
	rg.GET("/roles", h.listRoles)
	rg.GET("/credential", h.getCredential)
	rg.PUT("/credential", h.putCredential)

	rg.POST("/sessions", h.createSession)
	rg.GET("/sessions/:id", h.getSession)
	rg.DELETE("/sessions/:id", h.abandonSession)
	rg.PUT("/sessions/:id/credential", h.changeCredential)
	rg.POST("/sessions/:id/resume", h.pasteResume)
	rg.POST("/sessions/:id/upload", h.uploadFile)
	rg.PUT("/sessions/:id/preferences", h.changePreferences)
	if analyzeLimit != nil {
		rg.POST("/sessions/:id/analyze", analyzeLimit, h.analyze)
	} else {
		rg.POST("/sessions/:id/analyze", h.analyze)
	}
	rg.POST("/sessions/:id/contact", h.submitContact)
	rg.POST("/sessions/:id/reset", h.reset)
}

func (h *Handler) listRoles(c *gin.Context) {
	respond.OK(c, gin.H{
		"roles":             roast.Roles(),
		"defaultRole":       roast.DefaultRole,
		"minExperience":     roast.MinExperience,
		"maxExperience":     roast.MaxExperience,
		"defaultExperience": roast.DefaultExperience,
	})
}

func (h *Handler) getCredential(c *gin.Context) {
	clientID := middleware.ClientIDFromContext(c)
	key, err := credentials.Lookup(c.Request.Context(), h.Svc.Credentials, clientID, credentials.APIKey)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read credential", nil)
		return
	}
	respond.OK(c, gin.H{"hasCredential": key != ""})
}

// putCredential stores the client's key and applies it to the client's live sessions.
func (h *Handler) putCredential(c *gin.Context) {
	var req credentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	clientID := middleware.ClientIDFromContext(c)
	apiKey := strings.TrimSpace(req.APIKey)
	if err := h.Svc.ChangeCredential(h.requestContext(c), clientID, apiKey); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store credential", nil)
		return
	}
	respond.OK(c, gin.H{"hasCredential": apiKey != ""})
}

func (h *Handler) createSession(c *gin.Context) {
	clientID := middleware.ClientIDFromContext(c)
	snap, err := h.Svc.Create(h.requestContext(c), clientID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create session", nil)
		return
	}
	c.Set(middleware.SessionIDKey, snap.ID)
	respond.Created(c, sessionResponse{SessionID: snap.ID, Session: snap.View()})
}

func (h *Handler) getSession(c *gin.Context) {
	sessionID := c.Param("id")
	c.Set(middleware.SessionIDKey, sessionID)
	snap, err := h.Svc.Get(c.Request.Context(), middleware.ClientIDFromContext(c), sessionID)
	if err != nil {
		writeError(c, snap, err)
		return
	}

	resp := sessionResponse{SessionID: snap.ID, Session: snap.View()}
	if strings.EqualFold(c.Query("format"), "html") && len(resp.Session.Sections) > 0 {
		rendered, err := roast.RenderSectionsHTML(resp.Session.Sections)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render sections", nil)
			return
		}
		resp.SectionsHTML = rendered
	}
	respond.OK(c, resp)
}

func (h *Handler) abandonSession(c *gin.Context) {
	sessionID := c.Param("id")
	c.Set(middleware.SessionIDKey, sessionID)
	if err := h.Svc.Abandon(h.requestContext(c), middleware.ClientIDFromContext(c), sessionID); err != nil {
		writeError(c, Snapshot{}, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) changeCredential(c *gin.Context) {
	var req credentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	h.dispatch(c, http.StatusOK, session.CredentialChanged{Credential: strings.TrimSpace(req.APIKey)})
}

func (h *Handler) pasteResume(c *gin.Context) {
	var req resumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	h.dispatch(c, http.StatusOK, session.ResumePasted{Text: req.Text})
}

func (h *Handler) uploadFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	defer file.Close()

	name, err := util.SanitizeFileName(header.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}
	h.dispatch(c, http.StatusOK, session.FileSelected{
		FileName:    name,
		ContentType: uploadContentType(header, file),
	})
}

// uploadContentType prefers the declared part type and sniffs when none was sent.
func uploadContentType(header *multipart.FileHeader, file multipart.File) string {
	declared := strings.TrimSpace(header.Header.Get("Content-Type"))
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	buf := make([]byte, 512)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return declared
	}
	return http.DetectContentType(buf[:n])
}

func (h *Handler) changePreferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	h.dispatchFunc(c, http.StatusOK, func(current session.State) session.Event {
		ev := session.PreferencesChanged{
			TargetRole:      current.TargetRole,
			ExperienceYears: current.ExperienceYears,
		}
		if req.TargetRole != nil {
			ev.TargetRole = *req.TargetRole
		}
		if req.ExperienceYears != nil {
			ev.ExperienceYears = *req.ExperienceYears
		}
		return ev
	})
}

func (h *Handler) analyze(c *gin.Context) {
	h.dispatch(c, http.StatusAccepted, session.AnalyzeRequested{})
}

func (h *Handler) submitContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	h.dispatch(c, http.StatusOK, session.ContactSubmitted{Email: req.Email})
}

func (h *Handler) reset(c *gin.Context) {
	h.dispatch(c, http.StatusOK, session.Reset{})
}

func (h *Handler) dispatch(c *gin.Context, okStatus int, ev session.Event) {
	h.dispatchFunc(c, okStatus, func(session.State) session.Event { return ev })
}

func (h *Handler) dispatchFunc(c *gin.Context, okStatus int, build func(session.State) session.Event) {
	sessionID := c.Param("id")
	c.Set(middleware.SessionIDKey, sessionID)
	snap, err := h.Svc.DispatchFunc(h.requestContext(c), middleware.ClientIDFromContext(c), sessionID, build)
	if transition := snap.Transition(); transition != "" {
		c.Set(middleware.StageTransitionKey, transition)
	}
	if err != nil {
		writeError(c, snap, err)
		return
	}
	respond.JSON(c, okStatus, sessionResponse{SessionID: snap.ID, Session: snap.View()})
}

func (h *Handler) requestContext(c *gin.Context) context.Context {
	return WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
}

func writeError(c *gin.Context, snap Snapshot, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "session not found", nil)
	case errors.Is(err, ErrBusy):
		respond.Error(c, http.StatusConflict, "analysis_in_progress", "an analysis is already running for this session", snap.View())
	case errors.Is(err, ErrNotApplicable):
		respond.Error(c, http.StatusConflict, "invalid_stage", "action not available in stage "+string(snap.State.Stage), snap.View())
	case errors.Is(err, ErrRejected):
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", snap.State.LastError, snap.View())
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "unexpected error", nil)
	}
}
