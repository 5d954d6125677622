package qa_http

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/infra/logger"
	"docqa-orchestrator/internal/usecase"
)

// defaultUserID is the sentinel used when the caller does not supply one.
const defaultUserID = "default-user"

// Handler exposes the QA service over HTTP.
type Handler struct {
	ingest  usecase.IngestDocumentUsecase
	ask     usecase.AskQuestionUsecase
	insight usecase.DocumentInsightUsecase
	convs   usecase.ConversationStore
	clog    *logger.ContextLogger
}

// NewHandler wires the usecases into an HTTP handler.
func NewHandler(
	ingest usecase.IngestDocumentUsecase,
	ask usecase.AskQuestionUsecase,
	insight usecase.DocumentInsightUsecase,
	convs usecase.ConversationStore,
	clog *logger.ContextLogger,
) *Handler {
	return &Handler{
		ingest:  ingest,
		ask:     ask,
		insight: insight,
		convs:   convs,
		clog:    clog,
	}
}

// Register attaches all routes to the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/api/documents/upload", h.UploadDocument)
	e.GET("/api/documents", h.ListDocuments)
	e.DELETE("/api/documents/:documentId", h.DeleteDocument)

	e.POST("/api/chat/ask", h.Ask)
	e.POST("/api/chat/summarize/:documentId", h.Summarize)
	e.POST("/api/chat/keypoints/:documentId", h.ExtractKeyPoints)
	e.DELETE("/api/chat/conversation/:userId", h.ClearConversation)
	e.DELETE("/api/chat/conversations", h.ClearAllConversations)
}

// ChatResponse is the wire shape for chat-style operations.
type ChatResponse struct {
	Response     string   `json:"response"`
	Success      bool     `json:"success"`
	ErrorMessage string   `json:"errorMessage,omitempty"`
	Sources      []string `json:"sources,omitempty"`
}

// UploadDocumentResponse is the wire shape for document ingestion.
type UploadDocumentResponse struct {
	Success    bool   `json:"success"`
	DocumentID string `json:"documentId,omitempty"`
	Message    string `json:"message"`
}

// DocumentInfo is the wire shape for document listings.
type DocumentInfo struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Content    string    `json:"content"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type askRequest struct {
	UserID   string `json:"userId"`
	Question string `json:"question"`
}

func (h *Handler) UploadDocument(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, UploadDocumentResponse{
			Success: false,
			Message: "No file uploaded.",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, UploadDocumentResponse{
			Success: false,
			Message: "File appears to be empty or unreadable",
		})
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, UploadDocumentResponse{
			Success: false,
			Message: "File appears to be empty or unreadable",
		})
	}

	userID := c.FormValue("userId")
	if strings.TrimSpace(userID) == "" {
		userID = defaultUserID
	}

	ctx := logger.WithUserID(c.Request().Context(), userID)
	result, err := h.ingest.UploadBytes(ctx, content, file.Filename)
	if err != nil {
		h.clog.WithContext(ctx).Error("document upload failed", "filename", file.Filename, "error", err)
		return c.JSON(http.StatusBadRequest, UploadDocumentResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	h.clog.WithContext(logger.WithDocumentID(ctx, result.DocumentID)).Info("document uploaded", "filename", file.Filename)

	return c.JSON(http.StatusOK, UploadDocumentResponse{
		Success:    true,
		DocumentID: result.DocumentID,
		Message:    result.Message,
	})
}

func (h *Handler) ListDocuments(c echo.Context) error {
	docs, err := h.ingest.ListDocuments(c.Request().Context())
	if err != nil {
		h.clog.WithContext(c.Request().Context()).Error("failed to list documents", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve documents"})
	}

	infos := make([]DocumentInfo, 0, len(docs))
	for _, doc := range docs {
		infos = append(infos, DocumentInfo{
			ID:         doc.ID,
			Filename:   doc.Filename,
			Content:    doc.Content,
			UploadedAt: doc.UploadedAt,
		})
	}

	return c.JSON(http.StatusOK, infos)
}

func (h *Handler) DeleteDocument(c echo.Context) error {
	documentID := c.Param("documentId")
	ctx := logger.WithDocumentID(c.Request().Context(), documentID)

	if err := h.ingest.DeleteDocument(ctx, documentID); err != nil {
		h.clog.WithContext(ctx).Error("failed to delete document", "error", err)
		switch {
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Document not found or could not be deleted"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete document"})
		}
	}

	h.clog.WithContext(ctx).Info("document deleted")
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Ask(c echo.Context) error {
	var req askRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ChatResponse{
			Success:      false,
			ErrorMessage: "Invalid request body.",
		})
	}

	// The user id is optional on the wire; blank falls back to the shared
	// sentinel. The usecase still rejects blank input when called directly.
	if strings.TrimSpace(req.UserID) == "" {
		req.UserID = defaultUserID
	}

	ctx := logger.WithUserID(c.Request().Context(), req.UserID)
	answer, err := h.ask.Execute(ctx, req.UserID, req.Question)
	if err != nil {
		return h.chatError(c, err)
	}

	return c.JSON(http.StatusOK, ChatResponse{
		Response: answer.Answer,
		Success:  true,
		Sources:  answer.Sources,
	})
}

func (h *Handler) Summarize(c echo.Context) error {
	documentID := c.Param("documentId")
	ctx := logger.WithDocumentID(c.Request().Context(), documentID)

	summary, err := h.insight.Summarize(ctx, documentID)
	if err != nil {
		return h.chatError(c, err)
	}

	return c.JSON(http.StatusOK, ChatResponse{Response: summary, Success: true})
}

func (h *Handler) ExtractKeyPoints(c echo.Context) error {
	documentID := c.Param("documentId")
	ctx := logger.WithDocumentID(c.Request().Context(), documentID)

	keyPoints, err := h.insight.ExtractKeyPoints(ctx, documentID)
	if err != nil {
		return h.chatError(c, err)
	}

	return c.JSON(http.StatusOK, ChatResponse{Response: keyPoints, Success: true})
}

func (h *Handler) ClearConversation(c echo.Context) error {
	userID := c.Param("userId")
	h.convs.Clear(userID)
	h.clog.WithContext(logger.WithUserID(c.Request().Context(), userID)).Info("conversation cleared")
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ClearAllConversations(c echo.Context) error {
	h.convs.ClearAll()
	h.clog.WithContext(c.Request().Context()).Info("all conversations cleared")
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) chatError(c echo.Context, err error) error {
	resp := ChatResponse{Success: false, ErrorMessage: err.Error()}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, resp)
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, resp)
	default:
		return c.JSON(http.StatusInternalServerError, resp)
	}
}
