package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gennit/backend/internal/constants"
	"gennit/backend/internal/state"
	apperrors "gennit/backend/pkg/errors"
	"go.uber.org/zap"
)

// VoteService is the vote engine as seen by the HTTP layer
type VoteService interface {
	UpvoteComment(ctx context.Context, commentID, username string) (*state.VoteSummary, error)
	UndoUpvoteComment(ctx context.Context, commentID, username string) (*state.VoteSummary, error)
	UpvoteDiscussionChannel(ctx context.Context, discussionChannelID, username string) (*state.VoteSummary, error)
	UndoUpvoteDiscussionChannel(ctx context.Context, discussionChannelID, username string) (*state.VoteSummary, error)
}

type voteFunc func(ctx context.Context, targetID, username string) (*state.VoteSummary, error)

// NewRouter builds the HTTP API around a vote service
func NewRouter(votes VoteService, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(requestID())
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(currentUser())
	{
		api.POST("/comments/:id/upvote", voteHandler(votes.UpvoteComment, log))
		api.DELETE("/comments/:id/upvote", voteHandler(votes.UndoUpvoteComment, log))
		api.POST("/discussion-channels/:id/upvote", voteHandler(votes.UpvoteDiscussionChannel, log))
		api.DELETE("/discussion-channels/:id/upvote", voteHandler(votes.UndoUpvoteDiscussionChannel, log))
	}

	return router
}

func voteHandler(vote voteFunc, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := vote(c.Request.Context(), c.Param("id"), c.GetString(usernameKey))
		if err != nil {
			status := statusFor(err)
			if status == http.StatusInternalServerError {
				log.Error("Vote request failed",
					zap.String("path", c.FullPath()),
					zap.String("request_id", c.GetString(requestIDKey)),
					zap.Error(err),
				)
			}
			c.JSON(status, gin.H{"error": apperrors.UserMessage(err)})
			return
		}

		c.JSON(http.StatusOK, summary)
	}
}

// statusFor maps the vote error taxonomy onto HTTP status codes
func statusFor(err error) int {
	var (
		validation *apperrors.ValidationError
		guard      *apperrors.GuardRejection
		notFound   *apperrors.NotFoundError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &guard):
		return http.StatusConflict
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

const (
	usernameKey  = "username"
	requestIDKey = "request_id"
)

// currentUser takes the username resolved by the upstream auth layer
func currentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetHeader(constants.CurrentUserHeader)
		if username == "" {
			err := apperrors.NewValidationError("username", "is required")
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": apperrors.UserMessage(err)})
			return
		}
		c.Set(usernameKey, username)
		c.Next()
	}
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(constants.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(constants.RequestIDHeader, id)
		c.Next()
	}
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDKey)),
		)
	}
}
