package checker_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"dealchecker/internal/checker"
	"dealchecker/internal/checker/mocks"
	"dealchecker/internal/compliance"
	"dealchecker/internal/deal"
	"dealchecker/internal/registry"
	"dealchecker/internal/task"
	dErrors "dealchecker/pkg/domain-errors"
	audit "dealchecker/pkg/platform/audit"
)

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	deals   *mocks.MockDealSource
	files   *mocks.MockFileSource
	tasks   *mocks.MockTaskService
	auditor *mocks.MockAuditPublisher
	service *checker.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.deals = mocks.NewMockDealSource(ctrl)
	s.files = mocks.NewMockFileSource(ctrl)
	s.tasks = mocks.NewMockTaskService(ctrl)
	s.auditor = mocks.NewMockAuditPublisher(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = checker.New(s.deals, s.files, s.tasks, compliance.NewEngine(logger, nil), logger,
		checker.WithAuditPublisher(s.auditor))
	s.ctx = context.Background()
}

func saleDeal(id string, status deal.Status) deal.Deal {
	return deal.Deal{
		ID:              id,
		Status:          status,
		ModifiedAt:      "2026-04-01T12:00:00Z",
		Type:            deal.Ptr(deal.TypeSale),
		FamilyCapital:   deal.Ptr(false),
		DownPayment:     deal.Ptr(decimal.Zero),
		MinorsOnTitle:   deal.Ptr(false),
		Mortgage:        deal.Ptr(false),
		SharedOwnership: deal.Ptr(false),
	}
}

func (s *ServiceSuite) TestOverviewLabels() {
	cases := map[deal.Status]deal.Label{
		deal.StatusRegistrationConfirmation: deal.LabelSuitable,
		deal.StatusFundsRelease:             deal.LabelInvalid,
		deal.StatusDraft:                    deal.LabelInvalid,
	}
	for status, label := range cases {
		s.Run(string(status), func() {
			existing := []*task.Task{{ID: "t1", DealID: "D1"}}
			s.deals.EXPECT().FetchDeal(gomock.Any(), "D1").Return(saleDeal("D1", status), nil)
			s.tasks.EXPECT().List(gomock.Any(), "D1").Return(existing, nil)

			o, err := s.service.Overview(s.ctx, "D1")
			s.Require().NoError(err)
			s.Equal(label, o.Label)
			s.Equal("2026-04-01T12:00:00Z", o.Revision)
			s.Equal(existing, o.Tasks)
		})
	}
}

func (s *ServiceSuite) TestOverviewDealNotFound() {
	notFound := &registry.ServiceError{DealID: "D404", Code: registry.CodeNotFound}
	s.deals.EXPECT().FetchDeal(gomock.Any(), "D404").Return(deal.Deal{}, notFound)
	s.tasks.EXPECT().List(gomock.Any(), "D404").Return(nil, nil).AnyTimes()

	_, err := s.service.Overview(s.ctx, "D404")
	s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestComplianceBeforeCheckpoint() {
	s.deals.EXPECT().FetchDeal(gomock.Any(), "D1").Return(saleDeal("D1", deal.StatusSigning), nil)

	_, err := s.service.Compliance(s.ctx, "D1")
	s.Equal(dErrors.CodePreconditionFailed, dErrors.CodeOf(err))
	s.Equal(map[string]any{
		"dealId":         "D1",
		"requiredStatus": "REGISTRATION_CONFIRMATION",
		"actualStatus":   "SIGNING",
	}, dErrors.DetailsOf(err))
}

func (s *ServiceSuite) TestComplianceOpensSystemChecks() {
	t0 := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	existing := []*task.Task{{ID: "human-1", DealID: "D2", CheckType: task.CheckTypeHuman}}
	opened := []*task.Task{{ID: "sys-1", DealID: "D2", CheckType: task.CheckTypeSystem, Category: compliance.CategoryStamp}}

	s.deals.EXPECT().FetchDeal(gomock.Any(), "D2").Return(saleDeal("D2", deal.StatusFundsRelease), nil)
	s.files.EXPECT().ListDealFiles(gomock.Any(), "D2").Return([]compliance.File{
		{ID: "f1", Label: "contract", UploadedAt: t0},
		{ID: "f2", Label: "egrn_extract", UploadedAt: t0},
		{ID: "f3", Label: "certificate_absence", UploadedAt: t0},
		{ID: "f4", Label: "absence_of_arrears", UploadedAt: t0},
	}, nil)
	s.tasks.EXPECT().List(gomock.Any(), "D2").Return(existing, nil)
	s.tasks.EXPECT().OpenSystemChecks(gomock.Any(), "D2", []compliance.Category{compliance.CategoryStamp}).Return(opened, nil)
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
		s.Equal(audit.ActionComplianceChecked, e.Action)
		s.Equal("D2", e.DealID)
		s.Contains(e.Detail, "missing=stamp")
		return nil
	})

	view, err := s.service.Compliance(s.ctx, "D2")
	s.Require().NoError(err)
	s.Equal(deal.LabelInvalid, view.Label)
	s.Equal([]*task.Task{existing[0], opened[0]}, view.Tasks)
	s.Equal(opened, view.Opened)
	s.Len(view.Result.FlatFiles(), 4)
	s.Equal(compliance.CategoryEGRN, view.Result.Files[compliance.CategoryEGRN][0].Category)
}

func (s *ServiceSuite) TestComplianceMalformedDeal() {
	d := saleDeal("D3", deal.StatusRegistrationConfirmation)
	d.Mortgage = nil
	s.deals.EXPECT().FetchDeal(gomock.Any(), "D3").Return(d, nil)
	s.files.EXPECT().ListDealFiles(gomock.Any(), "D3").Return(nil, nil)
	s.tasks.EXPECT().List(gomock.Any(), "D3").Return(nil, nil)

	_, err := s.service.Compliance(s.ctx, "D3")
	s.Equal(dErrors.CodeMalformedDeal, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestComplianceFileStorageFailure() {
	s.deals.EXPECT().FetchDeal(gomock.Any(), "D4").Return(saleDeal("D4", deal.StatusCompleted), nil)
	s.files.EXPECT().ListDealFiles(gomock.Any(), "D4").Return(nil, dErrors.New(dErrors.CodeUpstream, "storage down"))
	s.tasks.EXPECT().List(gomock.Any(), "D4").Return(nil, nil).AnyTimes()

	_, err := s.service.Compliance(s.ctx, "D4")
	s.Equal(dErrors.CodeUpstream, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestComplianceAuditFailureIgnored() {
	s.deals.EXPECT().FetchDeal(gomock.Any(), "D5").Return(saleDeal("D5", deal.StatusRegistrationConfirmation), nil)
	s.files.EXPECT().ListDealFiles(gomock.Any(), "D5").Return(nil, nil)
	s.tasks.EXPECT().List(gomock.Any(), "D5").Return(nil, nil)
	s.tasks.EXPECT().OpenSystemChecks(gomock.Any(), "D5", gomock.Len(5)).Return(nil, nil)
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	view, err := s.service.Compliance(s.ctx, "D5")
	s.Require().NoError(err)
	s.Equal(deal.LabelSuitable, view.Label)
	s.NotNil(view.Tasks)
}
