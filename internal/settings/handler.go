package settings

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SFU-teamproject/Smartbuy/internal/apperrors"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

type setLangReq struct {
	Lang string `json:"lang" binding:"required"`
}

// SetLanguage saves the preferred interface language in a cookie for
// 30 days.
func (h *Handler) SetLanguage(c *gin.Context) {
	var req setLangReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.JSON(c, fmt.Errorf("%w: error decoding request: %w", apperrors.ErrBadRequest, err))
		return
	}
	if req.Lang != "ru" && req.Lang != "en" {
		apperrors.JSON(c, fmt.Errorf("%w: unsupported language %q", apperrors.ErrBadRequest, req.Lang))
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("lang", req.Lang, int(30*24*time.Hour/time.Second), "/", "", false, false)
	c.JSON(http.StatusCreated, gin.H{"lang": req.Lang})
}
