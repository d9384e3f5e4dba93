package prompt

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"onboard/internal/corporation/models"
	"onboard/internal/onboarding/form"
	"onboard/internal/onboarding/orchestrator"
	"onboard/internal/onboarding/orchestrator/mocks"
	"onboard/internal/upstream"
	"onboard/pkg/testutil"
)

// scriptedDriver replays canned answers and records what was shown.
type scriptedDriver struct {
	inputs   []string
	confirms []bool
	asked    []string
	infos    []string
}

func (d *scriptedDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	val := d.inputs[0]
	d.inputs = d.inputs[1:]
	return val, nil
}

func (d *scriptedDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := d.confirms[0]
	d.confirms = d.confirms[1:]
	return val, nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

type RunnerSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	verifier  *mocks.MockVerifier
	submitter *mocks.MockSubmitter
	form      *orchestrator.Orchestrator
}

func TestRunnerSuite(t *testing.T) {
	suite.Run(t, new(RunnerSuite))
}

func (s *RunnerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.verifier = mocks.NewMockVerifier(s.ctrl)
	s.submitter = mocks.NewMockSubmitter(s.ctrl)
	s.form = orchestrator.New(s.verifier, s.submitter,
		orchestrator.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func (s *RunnerSuite) TearDownTest() {
	s.form.Close()
	s.ctrl.Finish()
}

func (s *RunnerSuite) TestHappyPath() {
	values := testutil.ValidValues()
	driver := &scriptedDriver{
		inputs:   []string{values.FirstName, values.LastName, "(416) 555-0123", values.CorporationNumber},
		confirms: []bool{true},
	}
	s.verifier.EXPECT().Verify(gomock.Any(), values.CorporationNumber).Return(&models.LookupResult{Valid: true}, nil)
	s.submitter.EXPECT().Submit(gomock.Any(), values).Return(nil)

	ok, err := NewRunner(driver, s.form).Run(context.Background())
	s.Require().NoError(err)
	s.True(ok)
	s.Contains(driver.infos, "Profile submitted.")
	s.True(s.form.Snapshot().Submitted)
}

func (s *RunnerSuite) TestRepromptsInvalidFields() {
	values := testutil.ValidValues()
	driver := &scriptedDriver{
		inputs: []string{
			"", values.FirstName,
			values.LastName,
			"555", values.Phone,
			testutil.UnknownCorporationNumber, values.CorporationNumber,
		},
		confirms: []bool{true},
	}
	gomock.InOrder(
		s.verifier.EXPECT().Verify(gomock.Any(), testutil.UnknownCorporationNumber).
			Return(&models.LookupResult{Valid: false, Message: "Corporation number not found"}, nil),
		s.verifier.EXPECT().Verify(gomock.Any(), values.CorporationNumber).
			Return(&models.LookupResult{Valid: true}, nil),
	)
	s.submitter.EXPECT().Submit(gomock.Any(), values).Return(nil)

	ok, err := NewRunner(driver, s.form).Run(context.Background())
	s.Require().NoError(err)
	s.True(ok)
	s.Equal([]string{
		"First name", "First name",
		"Last name",
		"Phone number", "Phone number",
		"Corporation number", "Corporation number",
	}, driver.asked)
	s.Contains(driver.infos, "  ✗ "+form.MsgFirstNameRequired)
	s.Contains(driver.infos, "  ✗ "+form.MsgPhoneFormat)
	s.Contains(driver.infos, "  ✗ Corporation number not found")
}

func (s *RunnerSuite) TestRejectedSubmissionRepromptsField() {
	values := testutil.ValidValues()
	driver := &scriptedDriver{
		inputs:   []string{values.FirstName, values.LastName, testutil.TakenPhone, values.CorporationNumber, values.Phone},
		confirms: []bool{true, true},
	}
	taken := values
	taken.Phone = testutil.TakenPhone

	s.verifier.EXPECT().Verify(gomock.Any(), values.CorporationNumber).Return(&models.LookupResult{Valid: true}, nil)
	gomock.InOrder(
		s.submitter.EXPECT().Submit(gomock.Any(), taken).
			Return(upstream.NewError(upstream.ErrorRejected, "profile-api", "Phone number already exists", nil)),
		s.submitter.EXPECT().Submit(gomock.Any(), values).Return(nil),
	)

	ok, err := NewRunner(driver, s.form).Run(context.Background())
	s.Require().NoError(err)
	s.True(ok)
	s.Contains(driver.infos, "  ✗ Phone number: Phone number already exists")
}

func (s *RunnerSuite) TestDecliningToSubmit() {
	values := testutil.ValidValues()
	driver := &scriptedDriver{
		inputs:   []string{values.FirstName, values.LastName, values.Phone, values.CorporationNumber},
		confirms: []bool{false},
	}
	s.verifier.EXPECT().Verify(gomock.Any(), values.CorporationNumber).Return(&models.LookupResult{Valid: true}, nil)

	ok, err := NewRunner(driver, s.form).Run(context.Background())
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RunnerSuite) TestGeneralFailureAsksToRetry() {
	values := testutil.ValidValues()
	driver := &scriptedDriver{
		inputs:   []string{values.FirstName, values.LastName, values.Phone, values.CorporationNumber},
		confirms: []bool{true, false},
	}
	s.verifier.EXPECT().Verify(gomock.Any(), values.CorporationNumber).Return(&models.LookupResult{Valid: true}, nil)
	s.submitter.EXPECT().Submit(gomock.Any(), values).Return(errors.New("connection refused"))

	ok, err := NewRunner(driver, s.form).Run(context.Background())
	s.Require().NoError(err)
	s.False(ok)
	s.Contains(driver.infos, "  ✗ General: "+form.MsgSubmissionFailed)
}

func (s *RunnerSuite) TestDriverErrorsStopTheRun() {
	driver := &scriptedDriver{}
	_, err := NewRunner(driver, s.form).Run(context.Background())
	s.Error(err)
}
