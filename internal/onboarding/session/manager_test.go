package session

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"onboard/internal/onboarding/form"
	"onboard/internal/onboarding/metrics"
	"onboard/internal/onboarding/orchestrator/mocks"
	id "onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/testutil"
)

type ManagerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	now     time.Time
	metrics *metrics.Metrics
	manager *Manager
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.now = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.manager = New(mocks.NewMockVerifier(s.ctrl), mocks.NewMockSubmitter(s.ctrl),
		WithTTL(10*time.Minute),
		WithClock(func() time.Time { return s.now }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
	)
}

func (s *ManagerSuite) TearDownTest() {
	s.manager.Close()
	s.ctrl.Finish()
}

func (s *ManagerSuite) TestCreateAndGet() {
	ctx := context.Background()
	formID, created := s.manager.Create(ctx)
	s.False(formID.IsNil())

	created.UpdateField(form.FieldFirstName, "Ada")

	got, err := s.manager.Get(ctx, formID)
	s.Require().NoError(err)
	s.Same(created, got)
	s.Equal("Ada", got.Snapshot().Values.FirstName)

	s.Equal(1.0, promtestutil.ToFloat64(s.metrics.FormsCreatedTotal))
	s.Equal(1.0, promtestutil.ToFloat64(s.metrics.ActiveForms))
}

func (s *ManagerSuite) TestFormsAreIsolated() {
	ctx := context.Background()
	_, a := s.manager.Create(ctx)
	_, b := s.manager.Create(ctx)

	a.UpdateField(form.FieldPhone, "4165550123")
	s.Empty(b.Snapshot().Values.Phone)
}

func (s *ManagerSuite) TestGetUnknown() {
	_, err := s.manager.Get(context.Background(), testutil.TestIDs.Form1)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ManagerSuite) TestDelete() {
	ctx := context.Background()
	formID, _ := s.manager.Create(ctx)

	s.Require().NoError(s.manager.Delete(ctx, formID))
	_, err := s.manager.Get(ctx, formID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	s.True(dErrors.HasCode(s.manager.Delete(ctx, formID), dErrors.CodeNotFound))
}

func (s *ManagerSuite) TestExpiry() {
	ctx := context.Background()
	idle, _ := s.manager.Create(ctx)
	active, _ := s.manager.Create(ctx)

	s.now = s.now.Add(6 * time.Minute)
	_, err := s.manager.Get(ctx, active)
	s.Require().NoError(err)

	s.now = s.now.Add(5 * time.Minute)

	s.Run("an idle form can no longer be fetched", func() {
		_, err := s.manager.Get(ctx, idle)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("cleanup drops only idle forms", func() {
		removed, err := s.manager.DeleteExpiredForms(ctx, s.now)
		s.Require().NoError(err)
		s.Equal(1, removed)
		s.Equal(1, s.manager.Len())

		_, err = s.manager.Get(ctx, active)
		s.NoError(err)
	})

	s.Equal(1.0, promtestutil.ToFloat64(s.metrics.FormsExpiredTotal))
}

func (s *ManagerSuite) TestConcurrentCreate() {
	ctx := context.Background()
	ids := make(chan id.FormID, 20)

	res := testutil.RunConcurrent(20, func(int) error {
		formID, _ := s.manager.Create(ctx)
		ids <- formID
		return nil
	})
	close(ids)

	s.Equal(20, res.Successes)
	seen := make(map[id.FormID]bool)
	for formID := range ids {
		s.False(seen[formID])
		seen[formID] = true
	}
	s.Equal(20, s.manager.Len())
}

func (s *ManagerSuite) TestConcurrentDelete() {
	ctx := context.Background()
	formID, _ := s.manager.Create(ctx)

	res := testutil.RunConcurrent(10, func(int) error {
		return s.manager.Delete(ctx, formID)
	})

	s.Equal(1, res.Successes)
	s.Equal(9, res.Count(dErrors.CodeNotFound))
	s.Equal(10, res.Total())
}
