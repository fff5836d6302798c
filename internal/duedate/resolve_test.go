package duedate_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"classroom_sync/internal/concurrency"
	"classroom_sync/internal/domain"
	"classroom_sync/internal/duedate"
	"classroom_sync/internal/duedate/mocks"
)

func ptr[T any](v T) *T { return &v }

type ResolverTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	inferrer *mocks.MockInferrer
	engine   *mocks.MockQAEngine
	pool     *concurrency.BlockingPool
	logger   *slog.Logger
}

func (s *ResolverTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.inferrer = mocks.NewMockInferrer(s.ctrl)
	s.engine = mocks.NewMockQAEngine(s.ctrl)
	s.pool = concurrency.NewBlockingPool(2)
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func (s *ResolverTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestResolverTestSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}

func (s *ResolverTestSuite) modelResolver() *duedate.Resolver {
	inferrer := duedate.NewModelInferrer(s.engine, func() time.Time { return reference }, s.logger)
	return duedate.NewResolver(inferrer, s.pool, s.logger)
}

func (s *ResolverTestSuite) TestStructuredDateWinsWithoutInference() {
	// no EXPECT on the inferrer: any call fails the test
	r := duedate.NewResolver(s.inferrer, s.pool, s.logger)

	due := r.Resolve(context.Background(), duedate.Input{
		Description: ptr("due next Friday"),
		DueDate:     domain.NewStructuredDate(2024, 5, 10),
		UpdateTime:  ptr("2024-03-01T10:00:00Z"),
	})

	s.Require().NotNil(due)
	s.Equal(civil.Date{Year: 2024, Month: 5, Day: 10}, *due)
}

func (s *ResolverTestSuite) TestInvalidStructuredDateDoesNotFallBackToText() {
	r := duedate.NewResolver(s.inferrer, s.pool, s.logger)

	due := r.Resolve(context.Background(), duedate.Input{
		Description: ptr("due 2024-05-10"),
		DueDate:     domain.NewStructuredDate(2023, 2, 29),
	})

	s.Nil(due)
}

func (s *ResolverTestSuite) TestInvalidStructuredDateFallsBackToUpdateTime() {
	r := duedate.NewResolver(s.inferrer, s.pool, s.logger)

	due := r.Resolve(context.Background(), duedate.Input{
		DueDate:    domain.NewStructuredDate(2023, 2, 29),
		UpdateTime: ptr("2024-03-01T10:00:00Z"),
	})

	s.Require().NotNil(due)
	s.Equal("2024-03-01", due.String())
}

func (s *ResolverTestSuite) TestUpdateTimeOnly() {
	r := duedate.NewResolver(s.inferrer, s.pool, s.logger)

	due := r.Resolve(context.Background(), duedate.Input{
		UpdateTime: ptr("2024-03-01T10:00:00Z"),
	})

	s.Require().NotNil(due)
	s.Equal(civil.Date{Year: 2024, Month: 3, Day: 1}, *due)
}

func (s *ResolverTestSuite) TestUpdateTimeWithFractionAndOffset() {
	r := duedate.NewResolver(s.inferrer, s.pool, s.logger)

	due := r.Resolve(context.Background(), duedate.Input{
		UpdateTime: ptr("2024-03-01T23:30:00.123456Z"),
	})
	s.Require().NotNil(due)
	s.Equal("2024-03-01", due.String())

	// the date is taken in the timestamp's own offset
	due = r.Resolve(context.Background(), duedate.Input{
		UpdateTime: ptr("2024-03-02T01:00:00+05:00"),
	})
	s.Require().NotNil(due)
	s.Equal("2024-03-02", due.String())
}

func (s *ResolverTestSuite) TestUnparseableUpdateTime() {
	r := duedate.NewResolver(s.inferrer, s.pool, s.logger)

	s.Nil(r.Resolve(context.Background(), duedate.Input{UpdateTime: ptr("March 1st")}))
}

func (s *ResolverTestSuite) TestNothingResolvable() {
	r := duedate.NewResolver(s.inferrer, s.pool, s.logger)

	s.Nil(r.Resolve(context.Background(), duedate.Input{}))
}

func (s *ResolverTestSuite) TestLowConfidenceAnswerDiscarded() {
	s.engine.EXPECT().
		Predict(gomock.Any(), duedate.Question, "description: hand in the lab report", 1, 32).
		Return([]duedate.Answer{{Text: "2024-05-10", Score: 0.4}}, nil)

	due := s.modelResolver().Resolve(context.Background(), duedate.Input{
		Description: ptr("hand in the lab report"),
	})

	s.Nil(due)
}

func (s *ResolverTestSuite) TestThresholdIsExclusive() {
	s.engine.EXPECT().
		Predict(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]duedate.Answer{{Text: "2024-05-10", Score: 0.5}}, nil)

	s.Nil(s.modelResolver().Resolve(context.Background(), duedate.Input{Description: ptr("lab")}))
}

func (s *ResolverTestSuite) TestConfidentRelativeAnswer() {
	s.engine.EXPECT().
		Predict(gomock.Any(), duedate.Question, "title: Essay\ndescription: submit by next Friday", 1, 32).
		Return([]duedate.Answer{{Text: "next Friday", Score: 0.9}}, nil)

	due := s.modelResolver().Resolve(context.Background(), duedate.Input{
		Title:       ptr("Essay"),
		Description: ptr("submit by next Friday"),
	})

	s.Require().NotNil(due)
	s.Equal(civil.Date{Year: 2024, Month: 5, Day: 10}, *due)
}

func (s *ResolverTestSuite) TestInferredDateBeatsUpdateTime() {
	s.engine.EXPECT().
		Predict(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]duedate.Answer{{Text: "2024-06-01", Score: 0.8}}, nil)

	due := s.modelResolver().Resolve(context.Background(), duedate.Input{
		Description: ptr("due June 1st"),
		UpdateTime:  ptr("2024-03-01T10:00:00Z"),
	})

	s.Require().NotNil(due)
	s.Equal("2024-06-01", due.String())
}

func (s *ResolverTestSuite) TestUnparseableAnswerFallsBackToUpdateTime() {
	s.engine.EXPECT().
		Predict(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]duedate.Answer{{Text: "whenever", Score: 0.95}}, nil)

	due := s.modelResolver().Resolve(context.Background(), duedate.Input{
		Description: ptr("no rush"),
		UpdateTime:  ptr("2024-03-01T10:00:00Z"),
	})

	s.Require().NotNil(due)
	s.Equal("2024-03-01", due.String())
}

func (s *ResolverTestSuite) TestEngineErrorIsSoft() {
	s.engine.EXPECT().
		Predict(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("model unavailable"))

	s.Nil(s.modelResolver().Resolve(context.Background(), duedate.Input{Description: ptr("lab")}))
}

func (s *ResolverTestSuite) TestEmptyDescriptionSkipsInference() {
	r := duedate.NewResolver(s.inferrer, s.pool, s.logger)

	s.Nil(r.Resolve(context.Background(), duedate.Input{Description: ptr("  ")}))
}

func (s *ResolverTestSuite) TestNullInferrer() {
	r := duedate.NewResolver(duedate.NullInferrer{}, s.pool, s.logger)

	s.Nil(r.Resolve(context.Background(), duedate.Input{Description: ptr("due 2024-05-10")}))
}

func (s *ResolverTestSuite) TestInferenceUsesInferrer() {
	want := civil.Date{Year: 2024, Month: 9, Day: 1}
	s.inferrer.EXPECT().InferDue(gomock.Any(), nil, "due September 1").Return(&want)

	r := duedate.NewResolver(s.inferrer, s.pool, s.logger)
	due := r.Resolve(context.Background(), duedate.Input{Description: ptr("due September 1")})

	s.Require().NotNil(due)
	s.Equal(want, *due)
}
