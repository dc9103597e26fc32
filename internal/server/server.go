// Package server is the fact-check backend: GET /check_fact?claim=... answered by an LLM.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ppiankov/truthcheck/internal/llm"
	"github.com/sirupsen/logrus"
)

// HomeMessage is served at GET /
const HomeMessage = "Welcome to TruthCheck! Use the /check_fact endpoint to check claims."

// ClientLimiter decides whether a client may make another request
type ClientLimiter interface {
	Allow(key string) bool
}

// checkResponse is the JSON body of a successful check
type checkResponse struct {
	Claim    string `json:"claim"`
	Analysis string `json:"analysis"`
}

// New builds the gin engine. limiter may be nil to disable per-client limits.
func New(provider llm.Provider, limiter ClientLimiter, logger logrus.FieldLogger) *gin.Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	g := gin.New()
	g.Use(requestLogger(logger), gin.Recovery())

	g.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, HomeMessage)
	})

	check := checkHandler(provider, logger)
	if limiter != nil {
		g.GET("/check_fact", rateLimit(limiter), check)
	} else {
		g.GET("/check_fact", check)
	}

	return g
}

func checkHandler(provider llm.Provider, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claim := strings.TrimSpace(c.Query("claim"))
		if claim == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No claim provided"})
			return
		}

		analysis, err := provider.Analyze(c.Request.Context(), claim)
		if err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"claim":    claim,
				"provider": provider.Name(),
			}).Error("Analysis failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "analysis failed: " + err.Error()})
			return
		}

		logger.WithFields(logrus.Fields{
			"provider": provider.Name(),
			"model":    analysis.Model,
			"tokens":   analysis.TokensUsed,
		}).Debug("Claim analyzed")

		c.JSON(http.StatusOK, checkResponse{Claim: claim, Analysis: analysis.Text})
	}
}

func rateLimit(limiter ClientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}).Info("Request handled")
	}
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully
func Run(ctx context.Context, addr string, handler http.Handler, logger logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("Fact-check server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("Shutting down fact-check server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
