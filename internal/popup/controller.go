// Package popup drives a check session: it takes user actions, calls the services,
// and sends every user-facing message to a View.
package popup

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"

	"github.com/ppiankov/truthcheck/internal/model"
	"github.com/sirupsen/logrus"
)

// User-facing messages
const (
	PromptClaim         = "Enter a fact to check!"
	PromptImage         = "Upload an image!"
	ConnectivityMessage = "Error: Unable to connect to server."
)

// ErrSuperseded is returned when a newer request for the same target finished the race,
// so this response was dropped without rendering.
var ErrSuperseded = errors.New("response superseded by a newer request")

// View is the surface the controller renders into
type View interface {
	Prompt(message string)
	ShowClaimProgress(claim string)
	ShowClaimResult(result *model.AggregatedResult)
	ShowClaimError(message string)
	ShowImageProgress(name string)
	ShowImageResult(result *model.ImageAnalysis)
	ShowImageError(message string)
}

// ClaimChecker aggregates a fact-check with its reference links
type ClaimChecker interface {
	CheckClaim(ctx context.Context, claim string) (*model.AggregatedResult, error)
}

// ImageAnalyzer submits an image for manipulation detection
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, name string, r io.Reader) (*model.ImageAnalysis, error)
}

// History is the part of the history store the controller uses
type History interface {
	Append(ctx context.Context, claim, analysis, references string) error
	LoadAndRender(ctx context.Context)
	Clear(ctx context.Context) error
}

// Controller wires user actions to the services, the history and the view
type Controller struct {
	claims  ClaimChecker
	images  ImageAnalyzer
	history History
	view    View
	logger  logrus.FieldLogger

	claimGen atomic.Uint64
	imageGen atomic.Uint64
}

// NewController creates a controller
func NewController(claims ClaimChecker, images ImageAnalyzer, history History, view View, logger logrus.FieldLogger) *Controller {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Controller{
		claims:  claims,
		images:  images,
		history: history,
		view:    view,
		logger:  logger,
	}
}

// Open renders the stored history
func (c *Controller) Open(ctx context.Context) {
	c.history.LoadAndRender(ctx)
}

// CheckClaim fact-checks claim, shows the verdict and records it in history.
// A failed check is shown as a connectivity error and never recorded.
func (c *Controller) CheckClaim(ctx context.Context, claim string) error {
	if strings.TrimSpace(claim) == "" {
		c.view.Prompt(PromptClaim)
		return model.ErrEmptyInput
	}

	gen := c.claimGen.Add(1)
	c.view.ShowClaimProgress(claim)

	result, err := c.claims.CheckClaim(ctx, claim)
	if c.claimGen.Load() != gen {
		c.logger.WithField("claim", claim).Debug("Discarding superseded claim response")
		return ErrSuperseded
	}

	if err != nil {
		if errors.Is(err, model.ErrEmptyInput) {
			c.view.Prompt(PromptClaim)
			return err
		}
		c.logger.WithError(err).WithField("claim", claim).Error("Claim check failed")
		c.view.ShowClaimError(ConnectivityMessage)
		return err
	}

	c.view.ShowClaimResult(result)
	return c.history.Append(ctx, claim, result.AnalysisText, result.ReferencesMarkup)
}

// CheckImage submits the image read from r. A nil r prompts for an upload.
// Service-reported errors are shown verbatim, connectivity failures generically.
func (c *Controller) CheckImage(ctx context.Context, name string, r io.Reader) error {
	if r == nil {
		c.view.Prompt(PromptImage)
		return model.ErrEmptyInput
	}

	gen := c.imageGen.Add(1)
	c.view.ShowImageProgress(name)

	result, err := c.images.AnalyzeImage(ctx, name, r)
	if c.imageGen.Load() != gen {
		c.logger.WithField("image", name).Debug("Discarding superseded image response")
		return ErrSuperseded
	}

	if err != nil {
		var reported *model.ServiceReportedError
		switch {
		case errors.As(err, &reported):
			c.view.ShowImageError(reported.Message)
		case errors.Is(err, model.ErrEmptyInput):
			c.view.Prompt(PromptImage)
		default:
			c.logger.WithError(err).WithField("image", name).Error("Image analysis failed")
			c.view.ShowImageError(ConnectivityMessage)
		}
		return err
	}

	c.view.ShowImageResult(result)
	return nil
}

// ClearHistory removes every stored entry
func (c *Controller) ClearHistory(ctx context.Context) error {
	return c.history.Clear(ctx)
}
