package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	memberRepo "studiofit/database/repository/member"
	"studiofit/utils"
)

// MemberHandler covers the thin member surface the booking engine needs:
// token issue and profile lookup. Full profile management lives in the
// member-facing app, not here.
type MemberHandler struct {
	Repo memberRepo.MemberRepository
}

func NewMemberHandler(repo memberRepo.MemberRepository) *MemberHandler {
	return &MemberHandler{Repo: repo}
}

// Login exchanges a member email for a bearer token. Identity verification
// happens upstream (the studio's SSO); this endpoint only mints the token
// the booking API consumes.
func (h *MemberHandler) Login(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	m, err := h.Repo.GetByEmail(c.Request.Context(), input.Email)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "login failed", err.Error())
		return
	}
	if m == nil {
		utils.JSONError(c, http.StatusUnauthorized, "unknown member", "")
		return
	}

	token, err := utils.GenerateToken(m.ID, m.Email, 24*time.Hour)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to issue token", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "member": m})
}

// GetMember returns one member's profile, including the live clip-card
// balance the booking UI shows before a booking attempt.
func (h *MemberHandler) GetMember(c *gin.Context) {
	m, err := h.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch member", err.Error())
		return
	}
	if m == nil {
		utils.JSONError(c, http.StatusNotFound, "member not found", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": m})
}
