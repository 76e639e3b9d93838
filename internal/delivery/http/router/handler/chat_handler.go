package handler

import (
	"net/http"

	"tracker/internal/delivery/http/middleware"
	"tracker/internal/delivery/http/response"
	"tracker/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ChatHandler holds dependencies for chat-related handlers.
type ChatHandler struct {
	chatUsecase usecase.ChatUsecase
}

// NewChatHandler is the constructor for ChatHandler, injected by Fx.
func NewChatHandler(chatUsecase usecase.ChatUsecase) *ChatHandler {
	return &ChatHandler{chatUsecase: chatUsecase}
}

type postMessageRequest struct {
	Content string `json:"content"`
}

// Post stores a new chat message authored by the current user.
func (h *ChatHandler) Post(c echo.Context) error {
	var req postMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid message input")
	}

	message, err := h.chatUsecase.Post(c.Request().Context(), middleware.CurrentUser(c), req.Content)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toMessageView(message), "Message posted successfully")
}

// History returns the recent chat messages, oldest first.
func (h *ChatHandler) History(c echo.Context) error {
	messages, err := h.chatUsecase.History(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toMessageViews(messages), "Chat history retrieved successfully")
}
