// Package aggregate combines the fact-check verdict with reference links.
package aggregate

import (
	"context"
	"strings"

	"github.com/ppiankov/truthcheck/internal/model"
	"github.com/ppiankov/truthcheck/internal/reference"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// FactChecker returns the fact-check service's analysis of a claim
type FactChecker interface {
	Check(ctx context.Context, claim string) (string, error)
}

// ReferenceLookup finds a knowledge-base article for a claim. A nil reference means no match.
type ReferenceLookup interface {
	Lookup(ctx context.Context, claim string) (*model.Reference, error)
}

// Aggregator runs the fact-check (required) and the knowledge-base lookup (optional) concurrently
type Aggregator struct {
	checker       FactChecker
	lookup        ReferenceLookup
	newsSearchURL string
	logger        logrus.FieldLogger
}

// New creates an aggregator. lookup may be nil to skip the knowledge-base link.
func New(checker FactChecker, lookup ReferenceLookup, newsSearchURL string, logger logrus.FieldLogger) *Aggregator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Aggregator{
		checker:       checker,
		lookup:        lookup,
		newsSearchURL: newsSearchURL,
		logger:        logger,
	}
}

// CheckClaim fact-checks claim and attaches supporting links.
//
// An empty claim returns model.ErrEmptyInput without any network call. A fact-check failure
// is returned as a *model.TransportError and cancels the lookup. A lookup failure is logged
// and only drops the knowledge-base link.
func (a *Aggregator) CheckClaim(ctx context.Context, claim string) (*model.AggregatedResult, error) {
	if strings.TrimSpace(claim) == "" {
		return nil, model.ErrEmptyInput
	}

	g, gctx := errgroup.WithContext(ctx)

	var analysis string
	g.Go(func() error {
		text, err := a.checker.Check(gctx, claim)
		if err != nil {
			if !model.IsTransport(err) {
				err = &model.TransportError{Service: model.ServiceFactCheck, Err: err}
			}
			return err
		}
		analysis = text
		return nil
	})

	var kbRef *model.Reference
	if a.lookup != nil {
		g.Go(func() error {
			ref, err := a.lookup.Lookup(gctx, claim)
			if err != nil {
				if gctx.Err() == nil {
					a.logger.WithFields(logrus.Fields{
						"service": model.ServiceKnowledgeBase,
						"claim":   claim,
					}).WithError(err).Warn("Reference lookup failed")
				}
				return nil
			}
			kbRef = ref
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	refs := make([]model.Reference, 0, 2)
	if kbRef != nil {
		refs = append(refs, *kbRef)
	}
	refs = append(refs, reference.NewsLink(a.newsSearchURL, claim))

	a.logger.WithFields(logrus.Fields{
		"claim":          claim,
		"knowledge_base": kbRef != nil,
	}).Debug("Claim checked")

	return &model.AggregatedResult{
		AnalysisText:     analysis,
		ReferencesMarkup: reference.Markup(refs),
	}, nil
}
