package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"suresavings/internal/kyc/decision"
	"suresavings/internal/kyc/metrics"
	"suresavings/internal/kyc/models"
	"suresavings/internal/kyc/plan"
	"suresavings/internal/kyc/ports/mocks"
	id "suresavings/pkg/domain"
	dErrors "suresavings/pkg/domain-errors"
)

// =============================================================================
// Engine Test Suite
// =============================================================================
// Justification for unit tests: the engine owns step gating, the terminal
// invariant and the side effects tied to specific steps. These are state
// machine properties best pinned down against mocked collaborators.

type EngineSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	ocr          *mocks.MockOCRService
	positions    *mocks.MockPositionSource
	provider     *mocks.MockIdentityProvider
	proximity    *mocks.MockProximityVerifier
	attestations *mocks.MockAttestationCoordinator
	engine       *Engine
	ctx          context.Context
	userID       id.UserID
	now          time.Time
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ocr = mocks.NewMockOCRService(s.ctrl)
	s.positions = mocks.NewMockPositionSource(s.ctrl)
	s.provider = mocks.NewMockIdentityProvider(s.ctrl)
	s.proximity = mocks.NewMockProximityVerifier(s.ctrl)
	s.attestations = mocks.NewMockAttestationCoordinator(s.ctrl)
	s.ctx = context.Background()
	s.userID = id.UserID(uuid.New())
	s.now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	m := metrics.New(prometheus.NewRegistry())
	resolver := decision.NewResolver(s.provider, s.proximity, s.attestations, decision.WithMetrics(m))

	var err error
	s.engine, err = New(s.ocr, s.positions, s.attestations, resolver,
		WithMetrics(m),
		WithClock(func() time.Time { return s.now }),
		WithPositionOptions(models.PositionOptions{HighAccuracy: true, Timeout: 50 * time.Millisecond}),
	)
	s.Require().NoError(err)
}

func (s *EngineSuite) start(current, target id.Tier) *models.WorkflowState {
	state, err := s.engine.Start(s.ctx, s.userID, current, target)
	s.Require().NoError(err)
	return state
}

func (s *EngineSuite) advance(state *models.WorkflowState) {
	_, err := s.engine.Advance(s.ctx, state)
	s.Require().NoError(err)
}

func (s *EngineSuite) documentImage() *models.Image {
	return &models.Image{Kind: models.ImageKindDocument, ContentType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}}
}

func (s *EngineSuite) livenessImage() *models.Image {
	return &models.Image{Kind: models.ImageKindLiveness, ContentType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}}
}

// toDocumentUpload walks a tier 3 document session to the upload step with a
// document attached.
func (s *EngineSuite) toDocumentUpload(state *models.WorkflowState) {
	s.advance(state) // intro
	s.advance(state) // method
	s.advance(state) // document type
	s.Require().Equal(models.StepDocumentUpload, state.CurrentStep().ID)
	s.Require().NoError(s.engine.AttachDocument(state, s.documentImage()))
}

func (s *EngineSuite) toSocialProcessing(state *models.WorkflowState) {
	s.advance(state)
	s.Require().NoError(s.engine.SelectMethod(state, models.MethodSocial))
	s.advance(state)
	for i, name := range []string{"Ada", "Tunde"} {
		s.Require().NoError(s.engine.SetAttester(state, i, models.Attester{
			Name:         name,
			Email:        name + "@example.com",
			Relationship: models.RelationshipFriend,
		}))
	}
	s.advance(state)
	s.Require().Equal(models.StepAddressProcessing, state.CurrentStep().ID)
}

// =============================================================================
// Constructor and Start
// =============================================================================

func (s *EngineSuite) TestNew() {
	s.Run("missing collaborators are rejected", func() {
		_, err := New(nil, s.positions, s.attestations, nil)
		s.Error(err)
	})
}

func (s *EngineSuite) TestStart() {
	s.Run("initializes at step zero in progress", func() {
		state := s.start(id.Tier0, id.Tier1)
		s.Equal(0, state.CurrentStepIndex)
		s.Equal(models.OutcomeInProgress, state.Outcome)
		s.Equal(models.PhaseCollecting, state.Phase)
		s.Equal(models.MethodDocument, state.Method)
		s.Equal(plan.StepIDs(state.Plan), []models.StepID{
			models.StepBVNIntro, models.StepBVNInput, models.StepLivenessPhoto, models.StepBVNProcessing,
		})
		s.Equal(s.now, state.StartedAt)
		s.False(state.ID.IsNil())
	})

	s.Run("invalid transitions are rejected", func() {
		cases := []struct{ current, target id.Tier }{
			{id.Tier1, id.Tier1},
			{id.Tier2, id.Tier1},
			{id.Tier0, id.Tier0},
			{id.Tier0, id.Tier(4)},
			{id.Tier(-1), id.Tier1},
		}
		for _, tc := range cases {
			_, err := s.engine.Start(s.ctx, s.userID, tc.current, tc.target)
			s.ErrorIs(err, models.ErrInvalidTierTransition, "from %d to %d", tc.current, tc.target)
			s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
		}
	})
}

// =============================================================================
// Gating and navigation invariants
// =============================================================================

func (s *EngineSuite) TestScenarioD_EmptyNINBlocksAdvance() {
	state := s.start(id.Tier0, id.Tier2)
	s.advance(state)
	s.Require().Equal(models.StepNINInput, state.CurrentStep().ID)
	s.Require().NoError(s.engine.SetField(state, models.FieldNIN, ""))

	s.False(s.engine.CanAdvance(state))
	_, err := s.engine.Advance(s.ctx, state)
	s.ErrorIs(err, models.ErrStepGate)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Equal(1, state.CurrentStepIndex)
}

func (s *EngineSuite) TestSetFieldsIsAllOrNothing() {
	state := s.start(id.Tier0, id.Tier2)
	s.advance(state)
	before := state.Clone()

	for range 30 {
		err := s.engine.SetFields(state, map[string]string{
			models.FieldNIN: "12345678901",
			"nickname":      "ade",
		})
		s.Require().ErrorIs(err, models.ErrUnknownField)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
		s.Equal(before.CollectedFields, state.CollectedFields)
	}

	s.Require().NoError(s.engine.SetFields(state, map[string]string{models.FieldNIN: " 12345678901 "}))
	s.Equal("12345678901", state.Field(models.FieldNIN))
	s.True(s.engine.CanAdvance(state))
}

func (s *EngineSuite) TestCanAdvanceIsPure() {
	state := s.start(id.Tier0, id.Tier1)
	s.advance(state)
	s.Require().NoError(s.engine.SetField(state, models.FieldBVN, "1234567890"))
	before := state.Clone()

	first := s.engine.CanAdvance(state)
	second := s.engine.CanAdvance(state)
	s.False(first)
	s.Equal(first, second)
	s.Equal(before.CurrentStepIndex, state.CurrentStepIndex)
	s.Equal(before.CollectedFields, state.CollectedFields)
	s.Equal(before.Outcome, state.Outcome)
	s.Equal(before.ErrorMessage, state.ErrorMessage)
}

func (s *EngineSuite) TestRetreat() {
	s.Run("no-op at index zero", func() {
		state := s.start(id.Tier0, id.Tier1)
		s.Same(state, s.engine.Retreat(s.ctx, state))
		s.Equal(0, state.CurrentStepIndex)
	})

	s.Run("moves back one step", func() {
		state := s.start(id.Tier0, id.Tier1)
		s.advance(state)
		s.engine.Retreat(s.ctx, state)
		s.Equal(0, state.CurrentStepIndex)
	})
}

func (s *EngineSuite) TestTerminalInvariant() {
	state := s.start(id.Tier1, id.Tier2)
	s.advance(state)
	s.Require().NoError(s.engine.SetField(state, models.FieldNIN, "12345678901"))
	s.advance(state)
	s.provider.EXPECT().Verify(gomock.Any(), id.Tier2, gomock.Any()).
		Return(models.ProviderVerdict{Approved: false}, nil)
	s.advance(state)
	s.Require().Equal(models.OutcomeFailed, state.Outcome)
	index := state.CurrentStepIndex

	_, err := s.engine.Advance(s.ctx, state)
	s.ErrorIs(err, models.ErrTerminalState)
	s.engine.Retreat(s.ctx, state)
	s.Equal(index, state.CurrentStepIndex)
	s.Equal(models.OutcomeFailed, state.Outcome)
	s.ErrorIs(s.engine.SetField(state, models.FieldNIN, "1"), models.ErrTerminalState)
}

func (s *EngineSuite) TestRestart() {
	s.Run("resets a failed session", func() {
		state := s.start(id.Tier0, id.Tier1)
		s.advance(state)
		s.Require().NoError(s.engine.SetField(state, models.FieldBVN, "12345678901"))
		s.advance(state)
		s.Require().NoError(s.engine.AttachLiveness(state, s.livenessImage()))
		s.advance(state)
		s.provider.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(models.ProviderVerdict{}, errors.New("provider down"))
		s.advance(state)
		s.Require().Equal(models.OutcomeFailed, state.Outcome)
		s.Require().NotEmpty(state.ErrorMessage)

		s.engine.Restart(s.ctx, state)
		s.Equal(0, state.CurrentStepIndex)
		s.Equal(models.OutcomeInProgress, state.Outcome)
		s.Empty(state.FailureReason)
		s.Empty(state.ErrorMessage)
		s.Empty(state.Field(models.FieldBVN))
		s.Nil(state.LivenessPhoto)
		s.Equal(id.Tier0, state.CurrentTier)
		s.Equal(id.Tier1, state.TargetTier)
	})

	s.Run("unlocks the method and restores the default plan", func() {
		state := s.start(id.Tier2, id.Tier3)
		s.advance(state)
		s.Require().NoError(s.engine.SelectMethod(state, models.MethodSocial))
		s.advance(state)
		s.Require().True(state.MethodLocked)

		s.engine.Restart(s.ctx, state)
		s.False(state.MethodLocked)
		s.Equal(models.MethodDocument, state.Method)
		s.Len(state.Plan, 7)
	})

	s.Run("cancels outstanding attestation requests", func() {
		state := s.start(id.Tier2, id.Tier3)
		s.toSocialProcessing(state)
		s.attestations.EXPECT().Issue(gomock.Any(), gomock.Any()).
			Return([]id.AttestationID{id.NewAttestationID(), id.NewAttestationID()}, nil)
		s.advance(state)
		s.Require().Equal(models.PhaseAwaitingAttestation, state.Phase)

		s.attestations.EXPECT().Cancel(gomock.Any(), state.ID).Return(nil)
		s.engine.Restart(s.ctx, state)
		s.Equal(models.PhaseCollecting, state.Phase)
		s.Equal(models.AttesterPending, state.SocialAttesters[0].Status)
		s.True(state.SocialAttesters[0].RequestID.IsNil())
	})
}

// =============================================================================
// Tier 1 / Tier 2
// =============================================================================

func (s *EngineSuite) TestScenarioA_Tier1Approval() {
	state := s.start(id.Tier0, id.Tier1)
	s.advance(state)
	s.Require().NoError(s.engine.SetField(state, models.FieldBVN, "12345678901"))
	s.advance(state)
	s.Require().NoError(s.engine.AttachLiveness(state, s.livenessImage()))
	s.advance(state)
	s.Require().Equal(models.StepBVNProcessing, state.CurrentStep().ID)

	s.provider.EXPECT().Verify(gomock.Any(), id.Tier1, gomock.Any()).
		Return(models.ProviderVerdict{Approved: true}, nil)
	s.advance(state)

	s.Equal(models.OutcomeComplete, state.Outcome)
	s.Equal(id.Tier1, state.ResultingTier)
	s.Equal(3, state.CurrentStepIndex)
	s.Equal(int64(50_000), models.DecisionFrom(state).DailyLimit)
}

// =============================================================================
// Tier 3 document path
// =============================================================================

func (s *EngineSuite) TestScenarioB_AddressMismatch() {
	state := s.start(id.Tier1, id.Tier3)
	s.toDocumentUpload(state)

	s.ocr.EXPECT().Extract(gomock.Any(), gomock.Any()).Return(&models.OCRResult{
		ExtractedText:    "12 Lekki Rd\nLagos",
		Confidence:       88,
		AddressLines:     []string{"12 Lekki Rd", "Lagos"},
		SuggestedAddress: "12 Lekki Rd, Lagos",
	}, nil)
	fix := &models.Position{Latitude: 6.43, Longitude: 3.42, AccuracyMeters: 15}
	s.positions.EXPECT().CurrentPosition(gomock.Any(), state.ID, gomock.Any()).Return(fix, nil)
	s.advance(state)
	s.Require().Equal(models.StepGeolocationCheck, state.CurrentStep().ID)
	s.Require().Equal(fix, state.Geolocation)

	s.advance(state) // geolocation
	s.advance(state) // address selection
	s.proximity.EXPECT().Verify(gomock.Any(), "12 Lekki Rd, Lagos", *fix).Return(false, nil)
	s.advance(state)

	s.Equal(models.OutcomeFailed, state.Outcome)
	s.Equal(models.ReasonAddressMismatch, state.FailureReason)
	s.Equal(id.Tier1, state.ResultingTier)
}

func (s *EngineSuite) TestDocumentPathCompletes() {
	state := s.start(id.Tier2, id.Tier3)
	s.toDocumentUpload(state)
	s.ocr.EXPECT().Extract(gomock.Any(), gomock.Any()).
		Return(&models.OCRResult{Confidence: 90, SuggestedAddress: "4 Awolowo Rd, Ikoyi", AddressLines: []string{"4 Awolowo Rd"}}, nil)
	s.positions.EXPECT().CurrentPosition(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&models.Position{Latitude: 6.45, Longitude: 3.43, AccuracyMeters: 10}, nil)
	s.advance(state)
	s.advance(state)
	s.Require().NoError(s.engine.SelectAddress(state, "4 Awolowo Rd"))
	s.advance(state)
	s.proximity.EXPECT().Verify(gomock.Any(), "4 Awolowo Rd, Ikoyi", gomock.Any()).Return(true, nil)
	s.advance(state)

	s.Equal(models.OutcomeComplete, state.Outcome)
	s.Equal(id.Tier3, state.ResultingTier)
	s.Equal("4 Awolowo Rd", state.Field(models.FieldSelectedAddress))
}

func (s *EngineSuite) TestOCR() {
	s.Run("failure keeps the cursor and sets an error message", func() {
		state := s.start(id.Tier2, id.Tier3)
		s.toDocumentUpload(state)
		index := state.CurrentStepIndex

		s.ocr.EXPECT().Extract(gomock.Any(), gomock.Any()).
			Return(nil, &models.OCRError{Err: errors.New("unreadable")})
		_, err := s.engine.Advance(s.ctx, state)
		s.NoError(err)
		s.Equal(index, state.CurrentStepIndex)
		s.NotEmpty(state.ErrorMessage)
		s.Nil(state.OCRResult)
		s.Equal(models.OutcomeInProgress, state.Outcome)
	})

	s.Run("low confidence is surfaced but does not block", func() {
		state := s.start(id.Tier2, id.Tier3)
		s.toDocumentUpload(state)

		s.ocr.EXPECT().Extract(gomock.Any(), gomock.Any()).
			Return(&models.OCRResult{Confidence: 41, SuggestedAddress: "somewhere"}, nil)
		s.positions.EXPECT().CurrentPosition(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&models.Position{}, nil)
		s.advance(state)
		s.Equal(models.StepGeolocationCheck, state.CurrentStep().ID)
		s.True(state.OCRResult.LowConfidence)
		s.NotEmpty(state.Notice)
	})

	s.Run("selecting an address that was not extracted is rejected", func() {
		state := s.start(id.Tier2, id.Tier3)
		s.ErrorIs(s.engine.SelectAddress(state, "anywhere"), models.ErrAddressNotOffered)
	})
}

func (s *EngineSuite) TestGeolocation() {
	s.Run("failure leaves geolocation nil and does not block", func() {
		state := s.start(id.Tier2, id.Tier3)
		s.toDocumentUpload(state)
		s.ocr.EXPECT().Extract(gomock.Any(), gomock.Any()).
			Return(&models.OCRResult{Confidence: 90, SuggestedAddress: "a"}, nil)
		s.positions.EXPECT().CurrentPosition(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, context.DeadlineExceeded)
		s.advance(state)
		s.Nil(state.Geolocation)

		s.advance(state)
		s.advance(state)
		s.advance(state)
		s.Equal(models.OutcomeFailed, state.Outcome)
		s.Equal(models.ReasonMissingEvidence, state.FailureReason)
	})

	s.Run("wait is bounded by the configured timeout", func() {
		state := s.start(id.Tier2, id.Tier3)
		s.toDocumentUpload(state)
		s.ocr.EXPECT().Extract(gomock.Any(), gomock.Any()).
			Return(&models.OCRResult{Confidence: 90, SuggestedAddress: "a"}, nil)
		s.positions.EXPECT().CurrentPosition(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ id.SessionID, _ models.PositionOptions) (*models.Position, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			})
		s.advance(state)
		s.Nil(state.Geolocation)
	})

	s.Run("captured again when re-entering the step", func() {
		state := s.start(id.Tier2, id.Tier3)
		s.toDocumentUpload(state)
		s.ocr.EXPECT().Extract(gomock.Any(), gomock.Any()).
			Return(&models.OCRResult{Confidence: 90, SuggestedAddress: "a"}, nil)
		s.positions.EXPECT().CurrentPosition(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("denied"))
		s.advance(state)
		s.advance(state)

		second := &models.Position{Latitude: 1, Longitude: 2}
		s.positions.EXPECT().CurrentPosition(gomock.Any(), gomock.Any(), gomock.Any()).Return(second, nil)
		s.engine.Retreat(s.ctx, state)
		s.Equal(models.StepGeolocationCheck, state.CurrentStep().ID)
		s.Equal(second, state.Geolocation)
	})

	s.Run("retry only works on the geolocation step", func() {
		state := s.start(id.Tier2, id.Tier3)
		s.ErrorIs(s.engine.RetryGeolocation(s.ctx, state), models.ErrWrongStep)
	})
}

// =============================================================================
// Tier 3 social path
// =============================================================================

func (s *EngineSuite) awaitingSocial() (*models.WorkflowState, []id.AttestationID) {
	state := s.start(id.Tier2, id.Tier3)
	s.toSocialProcessing(state)
	ids := []id.AttestationID{id.NewAttestationID(), id.NewAttestationID()}
	s.attestations.EXPECT().Issue(gomock.Any(), gomock.Any()).Return(ids, nil)
	s.advance(state)
	s.Require().Equal(models.OutcomeInProgress, state.Outcome)
	s.Require().Equal(models.PhaseAwaitingAttestation, state.Phase)
	return state, ids
}

func (s *EngineSuite) respond(state *models.WorkflowState, requestID id.AttestationID, status models.AttesterStatus) error {
	_, err := s.engine.RecordAttestation(s.ctx, state, models.AttestationResponse{
		RequestID: requestID,
		SessionID: state.ID,
		Status:    status,
	})
	return err
}

func (s *EngineSuite) TestScenarioC_AttestationDeclined() {
	state, ids := s.awaitingSocial()

	s.Require().NoError(s.respond(state, ids[0], models.AttesterConfirmed))
	s.Equal(models.OutcomeInProgress, state.Outcome)

	s.attestations.EXPECT().Cancel(gomock.Any(), state.ID).Return(nil)
	s.Require().NoError(s.respond(state, ids[1], models.AttesterDeclined))
	s.Equal(models.OutcomeFailed, state.Outcome)
	s.Equal(models.ReasonAttestationDeclined, state.FailureReason)
}

func (s *EngineSuite) TestSocialPath() {
	s.Run("completes once both confirm", func() {
		state, ids := s.awaitingSocial()
		s.Require().NoError(s.respond(state, ids[1], models.AttesterConfirmed))
		s.Equal(models.OutcomeInProgress, state.Outcome)
		s.Require().NoError(s.respond(state, ids[0], models.AttesterConfirmed))
		s.Equal(models.OutcomeComplete, state.Outcome)
		s.Equal(id.Tier3, state.ResultingTier)
		s.Equal(models.PhaseCollecting, state.Phase)
	})

	s.Run("navigation is refused while awaiting", func() {
		state, _ := s.awaitingSocial()
		_, err := s.engine.Advance(s.ctx, state)
		s.ErrorIs(err, models.ErrAwaitingAttestation)
		index := state.CurrentStepIndex
		s.engine.Retreat(s.ctx, state)
		s.Equal(index, state.CurrentStepIndex)
	})

	s.Run("repeated answers are ignored", func() {
		state, ids := s.awaitingSocial()
		s.Require().NoError(s.respond(state, ids[0], models.AttesterConfirmed))
		s.Require().NoError(s.respond(state, ids[0], models.AttesterDeclined))
		s.Equal(models.AttesterConfirmed, state.SocialAttesters[0].Status)
		s.Equal(models.OutcomeInProgress, state.Outcome)
	})

	s.Run("unknown request is rejected", func() {
		state, _ := s.awaitingSocial()
		s.ErrorIs(s.respond(state, id.NewAttestationID(), models.AttesterConfirmed), models.ErrUnknownAttestation)
	})

	s.Run("issue failure fails the session", func() {
		state := s.start(id.Tier2, id.Tier3)
		s.toSocialProcessing(state)
		s.attestations.EXPECT().Issue(gomock.Any(), gomock.Any()).Return(nil, errors.New("queue down"))
		s.advance(state)
		s.Equal(models.OutcomeFailed, state.Outcome)
		s.Equal(models.ReasonAttestationUnavailable, state.FailureReason)
	})

	s.Run("expiry fails and cancels", func() {
		state, _ := s.awaitingSocial()
		s.attestations.EXPECT().Cancel(gomock.Any(), state.ID).Return(nil)
		s.engine.Expire(s.ctx, state)
		s.Equal(models.OutcomeFailed, state.Outcome)
		s.Equal(models.ReasonAttestationExpired, state.FailureReason)
	})

	s.Run("method is locked after the method step", func() {
		state := s.start(id.Tier2, id.Tier3)
		s.advance(state)
		s.Require().NoError(s.engine.SelectMethod(state, models.MethodSocial))
		s.Require().NoError(s.engine.SelectMethod(state, models.MethodDocument))
		s.Require().NoError(s.engine.SelectMethod(state, models.MethodSocial))
		s.advance(state)
		s.ErrorIs(s.engine.SelectMethod(state, models.MethodDocument), models.ErrMethodLocked)
		s.Equal(models.StepSocialAttestation, state.CurrentStep().ID)
	})

	s.Run("incomplete attesters block advance", func() {
		state := s.start(id.Tier2, id.Tier3)
		s.advance(state)
		s.Require().NoError(s.engine.SelectMethod(state, models.MethodSocial))
		s.advance(state)
		s.Require().NoError(s.engine.SetAttester(state, 0, models.Attester{Name: "Ada", Email: "ada@example.com", Relationship: models.RelationshipFamily}))
		s.Require().NoError(s.engine.SetAttester(state, 1, models.Attester{Name: "Tunde", Email: "tunde@example.com"}))
		_, err := s.engine.Advance(s.ctx, state)
		s.ErrorIs(err, models.ErrStepGate)
	})

	s.Run("attester emails are checked and must differ", func() {
		state := s.start(id.Tier2, id.Tier3)
		s.ErrorIs(s.engine.SetAttester(state, 0, models.Attester{Name: "Ada", Email: "Ada <ada@example.com>"}), models.ErrInvalidAttester)

		s.Require().NoError(s.engine.SetAttester(state, 0, models.Attester{Name: "Ada", Email: " ada@Example.COM "}))
		s.Equal("ada@example.com", state.SocialAttesters[0].Email)
		s.ErrorIs(s.engine.SetAttester(state, 1, models.Attester{Name: "Tunde", Email: "ADA@example.com"}), models.ErrInvalidAttester)
		s.ErrorIs(s.engine.SetAttester(state, 2, models.Attester{Name: "Bola"}), models.ErrInvalidAttester)
	})
}

func (s *EngineSuite) TestMethodNotApplicableBelowTier3() {
	state := s.start(id.Tier0, id.Tier1)
	s.ErrorIs(s.engine.SelectMethod(state, models.MethodSocial), models.ErrMethodNotApplicable)
}
