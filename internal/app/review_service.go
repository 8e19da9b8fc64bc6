package app

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"quiz-risk-service/internal/domain"
	"quiz-risk-service/internal/logger"
	"quiz-risk-service/internal/report"
)

const defaultBulkConcurrency = 4

// ReviewService drives the teacher side of the review workflow:
// pending_review → reviewed → completed.
type ReviewService struct {
	submissions SubmissionRepository
	recommender Recommender
	feed        *ReviewFeed
	log         *logger.Logger
	now         func() time.Time
	concurrency int
}

// NewReviewService builds a ReviewService. A nil recommender always yields
// the default recommendation.
func NewReviewService(submissions SubmissionRepository, recommender Recommender, feed *ReviewFeed, log *logger.Logger) *ReviewService {
	if log == nil {
		log = logger.Nop()
	}
	if recommender == nil {
		recommender = report.NewRecommender(nil, log)
	}
	return &ReviewService{
		submissions: submissions,
		recommender: recommender,
		feed:        feed,
		log:         log,
		now:         time.Now,
		concurrency: defaultBulkConcurrency,
	}
}

// Comment records a teacher comment and marks the submission reviewed.
func (s *ReviewService) Comment(ctx context.Context, teacher domain.User, submissionID, comments string) (domain.SubmissionResult, error) {
	now := s.now().UTC()
	status := domain.StatusReviewed
	result, err := s.submissions.Update(ctx, submissionID, domain.SubmissionPatch{
		Status:          &status,
		TeacherComments: &comments,
		ReviewedBy:      &teacher.Name,
		ReviewedAt:      &now,
	})
	if err != nil {
		return domain.SubmissionResult{}, err
	}
	s.feed.Publish(eventFor(domain.EventReviewed, result, now))
	return result, nil
}

// Complete attaches recommendations and marks the submission completed.
func (s *ReviewService) Complete(ctx context.Context, teacher domain.User, submissionID string) (domain.SubmissionResult, error) {
	current, err := s.submissions.Get(ctx, submissionID)
	if err != nil {
		return domain.SubmissionResult{}, err
	}

	rec := s.recommender.Recommend(ctx, current)

	now := s.now().UTC()
	status := domain.StatusCompleted
	result, err := s.submissions.Update(ctx, submissionID, domain.SubmissionPatch{
		Status:          &status,
		Recommendations: rec.Recommendations,
		Explanation:     &rec.Explanation,
		CompletedBy:     &teacher.Name,
		CompletedAt:     &now,
	})
	if err != nil {
		return domain.SubmissionResult{}, err
	}
	s.feed.Publish(eventFor(domain.EventCompleted, result, now))
	return result, nil
}

// CompleteBulk completes each submission independently. Failures are
// counted, never returned.
func (s *ReviewService) CompleteBulk(ctx context.Context, teacher domain.User, submissionIDs []string) domain.BulkResult {
	var processed, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, id := range submissionIDs {
		g.Go(func() error {
			if _, err := s.Complete(gctx, teacher, id); err != nil {
				s.log.Warn("bulk completion failed", "submission_id", id, "error", err)
				failed.Add(1)
				return nil
			}
			processed.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	res := domain.BulkResult{Processed: int(processed.Load()), Failed: int(failed.Load())}
	s.log.Info("bulk completion finished", "processed", res.Processed, "failed", res.Failed, "teacher", teacher.Name)
	return res
}
