package widget

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
	"github.com/osse101/BrandishReveal_Go/internal/effects"
	"github.com/osse101/BrandishReveal_Go/internal/event"
	"github.com/osse101/BrandishReveal_Go/internal/outcome"
	"github.com/osse101/BrandishReveal_Go/internal/profile"
	"github.com/osse101/BrandishReveal_Go/internal/sse"
	"github.com/osse101/BrandishReveal_Go/internal/wheel"
	"github.com/osse101/BrandishReveal_Go/internal/worker"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Play(ctx context.Context, req outcome.PlayRequest) (*domain.Outcome, error) {
	args := m.Called(ctx, req)
	out, _ := args.Get(0).(*domain.Outcome)
	return out, args.Error(1)
}

type staticProfiles struct {
	profile profile.Profile
	err     error
}

func (s staticProfiles) Load(game string) (profile.Profile, error) {
	p := s.profile
	if game != "" {
		p.Game = game
	}
	return p, s.err
}

type fixture struct {
	loop     *worker.ManualLoop
	provider *mockProvider
	registry *Registry
	events   []event.Event
}

func newFixture(t *testing.T, prof profile.Profile) *fixture {
	t.Helper()

	hub := sse.NewHub()
	hub.Start()
	t.Cleanup(hub.Stop)

	f := &fixture{
		loop:     worker.NewManualLoop(time.Unix(1_700_000_000, 0)),
		provider: &mockProvider{},
	}
	bus := event.NewMemoryBus()
	event.SubscribeAll(bus, event.AllRevealTypes, func(_ context.Context, e event.Event) error {
		f.events = append(f.events, e)
		return nil
	})

	f.registry = NewRegistry(Deps{
		Loop:     f.loop,
		Bus:      bus,
		Hub:      hub,
		Bank:     effects.NewBank(nil, 1, false),
		Provider: f.provider,
		Profiles: staticProfiles{profile: prof},
		Policy:   wheel.PolicyTrustServer,
	}, 8, 0)
	t.Cleanup(f.registry.Close)
	return f
}

func (f *fixture) ofType(typ event.Type) []event.Event {
	var out []event.Event
	for _, e := range f.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func pool(ids ...string) []domain.CandidateEntry {
	entries := make([]domain.CandidateEntry, len(ids))
	for i, id := range ids {
		entries[i] = domain.CandidateEntry{ID: domain.EntryID(id), Eligible: true}
	}
	return entries
}

func create(t *testing.T, f *fixture, spec Spec) *Widget {
	t.Helper()
	w, err := f.registry.Create(context.Background(), spec)
	require.NoError(t, err)
	return w
}

func status(t *testing.T, w *Widget) Status {
	t.Helper()
	st, err := w.Status()
	require.NoError(t, err)
	return st
}

func TestWidget_PlayGrid(t *testing.T) {
	f := newFixture(t, profile.Default())
	w := create(t, f, Spec{Mode: domain.ModeGrid, Pool: pool("a", "b", "c", "d", "e")})

	won := &domain.Outcome{Payload: domain.GridOutcome{TargetID: "c"}, WonItem: "Sword", PrizeType: "rare item"}
	f.provider.On("Play", mock.Anything, outcome.PlayRequest{Game: profile.DefaultGame, Mode: domain.ModeGrid}).Return(won, nil).Once()

	sessionID, err := w.Play(context.Background(), outcome.PlayToken{})
	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)
	assert.Equal(t, domain.PhaseSpinning, status(t, w).Session.Phase)

	f.loop.RunUntilIdle()

	st := status(t, w)
	assert.Equal(t, domain.PhaseStopped, st.Session.Phase)
	require.NotNil(t, st.Last)
	assert.Equal(t, sessionID, st.Last.SessionID)
	assert.Equal(t, []int{2}, st.Last.FinalIndexes)
	assert.True(t, st.Last.Win)
	assert.Equal(t, "You won Rare Item: Sword!", st.Last.Message)
	assert.False(t, st.Last.Immediate)

	require.Len(t, f.ofType(event.RevealStopped), 1)
	assert.Positive(t, w.effects.Fired())
	assert.Zero(t, f.loop.Pending())
	f.provider.AssertExpectations(t)
}

func TestWidget_SingleFlightWhileProviderPending(t *testing.T) {
	f := newFixture(t, profile.Default())
	w := create(t, f, Spec{Mode: domain.ModeGrid, Pool: pool("a", "b", "c")})

	out := &domain.Outcome{Payload: domain.GridOutcome{TargetID: "a"}}
	f.provider.On("Play", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			_, err := w.Play(context.Background(), outcome.PlayToken{})
			assert.ErrorIs(t, err, domain.ErrSessionActive)
			assert.True(t, status(t, w).Pending)
		}).
		Return(out, nil).Once()

	_, err := w.Play(context.Background(), outcome.PlayToken{})
	require.NoError(t, err)
	f.provider.AssertNumberOfCalls(t, "Play", 1)
}

func TestWidget_SingleFlightWhileSpinning(t *testing.T) {
	f := newFixture(t, profile.Default())
	w := create(t, f, Spec{Mode: domain.ModeGrid, Pool: pool("a", "b", "c")})

	out := &domain.Outcome{Payload: domain.GridOutcome{TargetID: "b"}}
	f.provider.On("Play", mock.Anything, mock.Anything).Return(out, nil)

	_, err := w.Play(context.Background(), outcome.PlayToken{})
	require.NoError(t, err)

	f.loop.Advance(100 * time.Millisecond)
	_, err = w.Play(context.Background(), outcome.PlayToken{})
	assert.ErrorIs(t, err, domain.ErrSessionActive)

	f.loop.RunUntilIdle()
	_, err = w.Play(context.Background(), outcome.PlayToken{})
	assert.NoError(t, err, "a stopped session may start the next play")
	f.provider.AssertNumberOfCalls(t, "Play", 2)
}

func TestWidget_ProviderFailureLeavesSessionIdle(t *testing.T) {
	f := newFixture(t, profile.Default())
	w := create(t, f, Spec{Mode: domain.ModeGrid, Pool: pool("a", "b")})

	f.provider.On("Play", mock.Anything, mock.Anything).
		Return(nil, &outcome.ProviderError{Status: 402, Message: "Not enough credits"}).Once()

	_, err := w.Play(context.Background(), outcome.PlayToken{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderFailure)
	assert.Contains(t, err.Error(), "Not enough credits")

	st := status(t, w)
	assert.Equal(t, domain.PhaseIdle, st.Session.Phase)
	assert.False(t, st.Pending)
	assert.Nil(t, st.Last)
	assert.Zero(t, f.loop.Pending())
	assert.Empty(t, f.events)
}

func TestWidget_OutcomeMismatchStopsWithoutTraversal(t *testing.T) {
	f := newFixture(t, profile.Default())
	w := create(t, f, Spec{Mode: domain.ModeGrid, Pool: pool("a", "b")})

	f.provider.On("Play", mock.Anything, mock.Anything).
		Return(&domain.Outcome{Payload: domain.GridOutcome{TargetID: "missing"}}, nil).Once()

	sessionID, err := w.Play(context.Background(), outcome.PlayToken{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOutcomeMismatch)
	assert.ErrorIs(t, err, domain.ErrTargetNotEligible)
	assert.NotEmpty(t, sessionID)

	f.loop.RunUntilIdle()

	st := status(t, w)
	assert.Equal(t, domain.PhaseStopped, st.Session.Phase)
	require.NotNil(t, st.Last)
	assert.True(t, st.Last.Immediate)
	assert.Equal(t, domain.ErrMsgOutcomeMismatch, st.Last.Error)
	assert.Empty(t, st.Last.FinalIndexes)

	faults := f.ofType(event.RevealFault)
	require.Len(t, faults, 1)
	assert.Equal(t, domain.FaultNormalization, faults[0].Payload.(domain.RevealFaultPayload).Kind)

	changes := f.ofType(event.RevealPhaseChanged)
	require.Len(t, changes, 1, "no spinning phase without traversal")
	assert.Equal(t, domain.PhaseStopped, changes[0].Payload.(domain.PhaseChangedPayload).To)
}

// 315 degrees leaves sector 0 of 4 under the pointer
const misalignedAngle = 315.0

func TestWidget_WheelRejectPolicy(t *testing.T) {
	prof := profile.Default()
	prof.SectorPolicy = string(wheel.PolicyReject)
	f := newFixture(t, prof)
	w := create(t, f, Spec{Mode: domain.ModeWheel, Pool: pool("n1", "n2", "n3", "n4")})

	f.provider.On("Play", mock.Anything, mock.Anything).Return(&domain.Outcome{
		Payload: domain.WheelOutcome{TargetSectorIndex: 1, RotationAngleDegrees: misalignedAngle},
	}, nil).Once()

	_, err := w.Play(context.Background(), outcome.PlayToken{})
	assert.ErrorIs(t, err, domain.ErrOutcomeMismatch)
	assert.ErrorIs(t, err, domain.ErrSectorMismatch)

	f.loop.RunUntilIdle()

	faults := f.ofType(event.RevealFault)
	require.Len(t, faults, 1)
	assert.Equal(t, domain.FaultSectorMismatch, faults[0].Payload.(domain.RevealFaultPayload).Kind)
	assert.True(t, status(t, w).Last.Immediate)
}

func TestWidget_WheelTrustServerLandsOnDeclaredSector(t *testing.T) {
	f := newFixture(t, profile.Default())
	w := create(t, f, Spec{Mode: domain.ModeWheel, Pool: pool("n1", "n2", "n3", "n4")})

	f.provider.On("Play", mock.Anything, mock.Anything).Return(&domain.Outcome{
		Payload: domain.WheelOutcome{TargetSectorIndex: 1, RotationAngleDegrees: 720 + misalignedAngle},
	}, nil).Once()

	_, err := w.Play(context.Background(), outcome.PlayToken{})
	require.NoError(t, err)
	f.loop.RunUntilIdle()

	st := status(t, w)
	require.NotNil(t, st.Last)
	require.NotNil(t, st.Last.Verdict)
	assert.False(t, st.Last.Verdict.Mismatch)
	assert.Equal(t, []int{1}, st.Last.FinalIndexes)
	assert.Equal(t, 1, wheel.SectorUnderPointer(st.Last.FinalAngle, 4))
	assert.Empty(t, f.ofType(event.RevealFault))
}

func TestWidget_WheelTrustRecomputedReportsPointerSector(t *testing.T) {
	prof := profile.Default()
	prof.SectorPolicy = string(wheel.PolicyTrustRecomputed)
	f := newFixture(t, prof)
	w := create(t, f, Spec{Mode: domain.ModeWheel, Pool: pool("n1", "n2", "n3", "n4")})

	f.provider.On("Play", mock.Anything, mock.Anything).Return(&domain.Outcome{
		Payload: domain.WheelOutcome{TargetSectorIndex: 1, RotationAngleDegrees: misalignedAngle},
	}, nil).Once()

	_, err := w.Play(context.Background(), outcome.PlayToken{})
	require.NoError(t, err)
	f.loop.RunUntilIdle()

	st := status(t, w)
	require.NotNil(t, st.Last.Verdict)
	assert.True(t, st.Last.Verdict.Mismatch)
	assert.Equal(t, []int{0}, st.Last.FinalIndexes)
}

func TestWidget_DigitReveal(t *testing.T) {
	f := newFixture(t, profile.Default())
	w := create(t, f, Spec{Mode: domain.ModeDigit})

	f.provider.On("Play", mock.Anything, outcome.PlayRequest{
		Game:  profile.DefaultGame,
		Mode:  domain.ModeDigit,
		Token: outcome.PlayToken{Digits: []int{1, 5, 3}},
	}).Return(&domain.Outcome{
		Payload: domain.DigitOutcome{SecretDigits: [3]int{1, 2, 3}, UserDigits: [3]int{1, 5, 3}, MatchCount: 2},
	}, nil).Once()

	_, err := w.Play(context.Background(), outcome.PlayToken{Digits: []int{1, 5, 3}})
	require.NoError(t, err)
	f.loop.RunUntilIdle()

	st := status(t, w)
	require.NotNil(t, st.Last)
	assert.Equal(t, []int{1, 2, 3}, st.Last.FinalIndexes)
	assert.Equal(t, "2 of 3 digits matched.", st.Last.Message)
	assert.False(t, st.Last.Win)
	f.provider.AssertExpectations(t)
}

func TestWidget_Acknowledge(t *testing.T) {
	f := newFixture(t, profile.Default())
	w := create(t, f, Spec{Mode: domain.ModeGrid, Pool: pool("a", "b", "c")})
	f.provider.On("Play", mock.Anything, mock.Anything).
		Return(&domain.Outcome{Payload: domain.GridOutcome{TargetID: "c"}}, nil)

	assert.ErrorIs(t, w.Acknowledge(), domain.ErrSessionIdle)

	_, err := w.Play(context.Background(), outcome.PlayToken{})
	require.NoError(t, err)
	assert.ErrorIs(t, w.Acknowledge(), domain.ErrSessionActive)

	f.loop.RunUntilIdle()
	require.NoError(t, w.Acknowledge())
	assert.Equal(t, domain.PhaseIdle, status(t, w).Session.Phase)
}

func TestWidget_CloseCancelsTicks(t *testing.T) {
	f := newFixture(t, profile.Default())
	w := create(t, f, Spec{Mode: domain.ModeGrid, Pool: pool("a", "b", "c", "d")})
	f.provider.On("Play", mock.Anything, mock.Anything).
		Return(&domain.Outcome{Payload: domain.GridOutcome{TargetID: "d"}}, nil).Once()

	_, err := w.Play(context.Background(), outcome.PlayToken{})
	require.NoError(t, err)
	f.loop.Advance(200 * time.Millisecond)
	require.Positive(t, f.loop.Pending())

	require.NoError(t, w.Close())
	assert.Zero(t, f.loop.Pending())

	aborted := f.ofType(event.RevealAborted)
	require.Len(t, aborted, 1)
	assert.Equal(t, AbortReasonClosed, aborted[0].Payload.(domain.RevealAbortedPayload).Reason)
	assert.Empty(t, f.ofType(event.RevealStopped))

	_, err = w.Play(context.Background(), outcome.PlayToken{})
	assert.ErrorIs(t, err, domain.ErrWidgetClosed)
	assert.ErrorIs(t, w.Acknowledge(), domain.ErrWidgetClosed)
	assert.NoError(t, w.Close())
}

func TestWidget_CloseCancelsPendingEffects(t *testing.T) {
	f := newFixture(t, profile.Default())
	w := create(t, f, Spec{Mode: domain.ModeGrid, Pool: pool("a", "b", "c")})
	f.provider.On("Play", mock.Anything, mock.Anything).
		Return(&domain.Outcome{Payload: domain.GridOutcome{TargetID: "b"}, WonItem: "Gem"}, nil).Once()

	_, err := w.Play(context.Background(), outcome.PlayToken{})
	require.NoError(t, err)

	for i := 0; i < 1000 && status(t, w).Session.Phase != domain.PhaseStopped; i++ {
		f.loop.Advance(5 * time.Millisecond)
	}
	require.Equal(t, domain.PhaseStopped, status(t, w).Session.Phase)
	require.Positive(t, f.loop.Pending(), "burst and toast are still scheduled")

	handle := w.effects
	fired := handle.Fired()
	assert.Positive(t, fired, "highlights fire at the moment of stop")

	require.NoError(t, w.Close())
	assert.Zero(t, f.loop.Pending())
	assert.Nil(t, w.effects)

	f.loop.RunUntilIdle()
	assert.Equal(t, fired, handle.Fired())
}

func TestWidget_ReportScroll(t *testing.T) {
	prof := profile.Default()
	prof.Visible = 3
	f := newFixture(t, prof)
	w := create(t, f, Spec{Mode: domain.ModeReel, Pool: pool("a", "b", "c", "d", "e", "f", "g", "h")})

	require.NoError(t, w.ReportScroll(1, 4))
	assert.Equal(t, sse.Viewport{First: 4, Count: 3}, w.Viewport(1))
	assert.ErrorIs(t, w.ReportScroll(-1, 0), domain.ErrInvalidInput)
}

func TestWidget_PlayScrollsTargetIntoView(t *testing.T) {
	prof := profile.Default()
	prof.Visible = 3
	f := newFixture(t, prof)
	w := create(t, f, Spec{Mode: domain.ModeGrid, Pool: pool("a", "b", "c", "d", "e", "f", "g", "h")})
	require.NoError(t, w.ReportScroll(0, 5))

	won := &domain.Outcome{Payload: domain.GridOutcome{TargetID: "b"}}
	f.provider.On("Play", mock.Anything, mock.Anything).Return(won, nil).Once()

	_, err := w.Play(context.Background(), outcome.PlayToken{})
	require.NoError(t, err)
	f.loop.RunUntilIdle()

	assert.Equal(t, domain.PhaseStopped, status(t, w).Session.Phase)
	assert.True(t, w.Viewport(0).Contains(1), "viewport %+v hides the target", w.Viewport(0))
}

func TestProviderResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{&outcome.ProviderError{Status: 400}, "rejected"},
		{fmt.Errorf("%w: %w", domain.ErrProviderFailure, domain.ErrInvalidOutcome), "decode_failed"},
		{fmt.Errorf("%w: connection refused", domain.ErrProviderFailure), "unavailable"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, providerResult(tt.err))
	}
}
