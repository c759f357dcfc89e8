package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog/log"
	"github.com/user/radiodex/internal/apperror"
	"github.com/user/radiodex/internal/middleware"
	"github.com/user/radiodex/internal/model"
	"github.com/user/radiodex/internal/utils"
)

const (
	passwordTooLong    = "password must be at most 72 bytes"
	missingCredentials = "must include username and password fields"
	// bcrypt 只接受 72 字节以内的密码，按字节而不是字符计算
	maxPasswordBytes = 72
)

// credentialsRequest 注册/登录请求
type credentialsRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// credentials 注册时的长度限制
type credentials struct {
	Username string `json:"username" binding:"max=80"`
	Password string `json:"password" binding:"min=6,max=72"`
}

// TokenResponse 登录成功响应
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// bindCredentials 两个字段都必须存在且非空
func bindCredentials(c *gin.Context) (string, string, bool) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == nil || req.Password == nil {
		utils.RespondError(c, apperror.NewBadRequestError(missingCredentials))
		return "", "", false
	}
	username := strings.TrimSpace(*req.Username)
	if username == "" || *req.Password == "" {
		utils.RespondError(c, apperror.NewBadRequestError(missingCredentials))
		return "", "", false
	}
	return username, *req.Password, true
}

// Register 注册
func (h *Handler) Register(c *gin.Context) {
	username, password, ok := bindCredentials(c)
	if !ok {
		return
	}

	if err := binding.Validator.ValidateStruct(credentials{Username: username, Password: password}); err != nil {
		utils.RespondError(c, apperror.NewValidationError(utils.BindingMessage(err)))
		return
	}
	if len(password) > maxPasswordBytes {
		utils.RespondError(c, apperror.NewValidationError(passwordTooLong))
		return
	}

	// 检查用户名是否已存在
	existing, err := h.Repos.User.FindByUsername(username)
	if err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to look up user", err))
		return
	}
	if existing != nil {
		utils.RespondError(c, apperror.NewBadRequestError("username already exists"))
		return
	}

	// 并发注册时由唯一索引兜底
	user, err := h.Repos.User.Create(username, password)
	if err != nil {
		appErr, ok := apperror.As(err)
		switch {
		case ok && appErr.Type == apperror.ConflictError:
			utils.RespondError(c, apperror.NewBadRequestError(appErr.Message))
		case ok:
			utils.RespondError(c, appErr)
		default:
			utils.RespondError(c, apperror.NewDatabaseError("failed to create user", err))
		}
		return
	}

	log.Info().Int("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	utils.Message(c, http.StatusCreated, "User created successfully")
}

// Login 登录，返回 Bearer Token
func (h *Handler) Login(c *gin.Context) {
	username, password, ok := bindCredentials(c)
	if !ok {
		return
	}

	user, err := h.Repos.User.FindByUsername(username)
	if err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to look up user", err))
		return
	}
	if user == nil || !h.Repos.User.CheckPassword(user, password) {
		utils.RespondError(c, apperror.NewAuthError("Invalid username or password"))
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		utils.RespondError(c, apperror.NewInternalError("failed to sign token", err))
		return
	}

	utils.Success(c, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.Config.JWTExpiry.Seconds()),
	})
}

// Profile 当前用户资料
func (h *Handler) Profile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.Repos.User.FindByID(userID)
	if err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to load user", err))
		return
	}
	if user == nil {
		utils.RespondError(c, apperror.NewNotFoundError("User not found"))
		return
	}

	profile := model.Profile{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
	if profile.FavoritesCount, err = h.Repos.Favorite.CountByUser(userID); err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to count favorites", err))
		return
	}
	if profile.PlaylistsCount, err = h.Repos.Playlist.CountByUser(userID); err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to count playlists", err))
		return
	}
	if profile.HistoryCount, err = h.Repos.History.CountByUser(userID); err != nil {
		utils.RespondError(c, apperror.NewDatabaseError("failed to count history", err))
		return
	}

	utils.Success(c, profile)
}
