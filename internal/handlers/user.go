// internal/handlers/user.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/javajoker/catalog-backend/internal/i18n"
	"github.com/javajoker/catalog-backend/internal/services"
	"github.com/javajoker/catalog-backend/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GET /api/user
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, users)
}

// GET /api/user/userDetails
func (h *UserHandler) GetUserDetailsList(c *gin.Context) {
	users, err := h.userService.ListUserDetails(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, users)
}

// GET /api/user/userDetails/:id
func (h *UserHandler) GetUserDetails(c *gin.Context) {
	user, err := h.userService.GetUserDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}

// GET /api/user/:id/product
func (h *UserHandler) GetUserProducts(c *gin.Context) {
	products, err := h.userService.GetProductsByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, products)
}

// GET /api/user/Avatars
func (h *UserHandler) GetAvatars(c *gin.Context) {
	avatars, err := h.userService.ListAvatars(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, avatars)
}

// POST /api/user/register
func (h *UserHandler) Register(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthRegisterSuccess),
		"user":    user,
	})
}

// POST /api/user/login
func (h *UserHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	resp, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, resp)
}

// PUT /api/user/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.UpdateUserRequest
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.userService.UpdateUser(c.Request.Context(), c.Param("id"), &req); err != nil {
		respondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// DELETE /api/user/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	user, err := h.userService.DeleteUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}
