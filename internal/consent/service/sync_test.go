package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"consentd/internal/consent/models"
)

type SyncSuite struct {
	ManagerSuite
}

func TestSyncSuite(t *testing.T) {
	suite.Run(t, new(SyncSuite))
}

// declare sets up a manager holding three consents in an explicit context.
func (s *SyncSuite) declare() *Manager {
	mgr := s.newManager()
	_, err := mgr.AddContext(s.ctx, models.ContextFields{
		ContextID:  "cart",
		Brand:      "acme",
		DomainName: "acme.example",
	})
	s.Require().NoError(err)
	s.Require().NoError(mgr.AddConsents(s.ctx, map[string]models.ConsentFields{
		"marketing": {ContextID: "cart", Status: "given"},
		"analytics": {ContextID: "cart", Status: "refused"},
		"profiling": {ContextID: "cart", Status: "notgiven"},
	}, "user-1"))
	s.dispatcher.reset()
	return mgr
}

func (s *SyncSuite) TestFirstSyncSendsFullUnchangedSet() {
	mgr := s.declare()

	view, err := mgr.SaveConsents(s.ctx)
	s.Require().NoError(err)
	s.Len(view, 3, "no updates yet, the full unchanged set ships")
	s.Len(s.dispatcher.byTable(testConfig.ConsentTable), 3)
}

func (s *SyncSuite) TestDeltaSyncSendsOnlyChangedSubset() {
	mgr := s.declare()
	s.Require().NoError(mgr.UpdateConsent(s.ctx, "cart", map[string]models.ConsentFields{
		"marketing": {Status: "refused"},
	}, "user-1"))

	view, err := mgr.SaveConsents(s.ctx)
	s.Require().NoError(err)

	s.Run("view holds exactly the changed purpose", func() {
		s.Len(view, 1)
		s.Contains(view, "marketing")
		s.Equal(models.StatusRefused, view["marketing"].Status)
	})

	s.Run("one outbound record per changed consent", func() {
		records := s.dispatcher.byTable(testConfig.ConsentTable)
		s.Require().Len(records, 1)
		s.Equal("marketing", records[0].record["purpose"])
	})

	s.Run("record carries context linkage", func() {
		records := s.dispatcher.byTable(testConfig.ConsentTable)
		s.Equal("acme", records[0].record["brand"])
		s.Equal("acme.example", records[0].record["domain_name"])
		s.Equal("cart", records[0].record["context_id"])
	})

	s.Run("next round reports the full unchanged set", func() {
		s.dispatcher.reset()
		view, err := mgr.SaveConsents(s.ctx)
		s.Require().NoError(err)
		s.Len(view, 3)
		s.Len(s.dispatcher.byTable(testConfig.ConsentTable), 3)
	})
}

func (s *SyncSuite) TestDispatchFailureSurfacesStructuredError() {
	mgr := s.declare()
	s.Require().NoError(mgr.UpdateConsent(s.ctx, "cart", map[string]models.ConsentFields{
		"marketing": {Status: "refused"},
	}, "user-1"))

	var failure models.SyncFailure
	mgr.onSyncFailure = func(f models.SyncFailure) { failure = f }

	s.dispatcher.failWith = errors.New("collector returned 503")
	_, err := mgr.SaveConsents(s.ctx)
	s.Require().Error(err)

	s.Run("failure hook receives the first rejection reason", func() {
		s.False(failure.Success)
		s.Contains(failure.Message, "collector returned 503")
	})

	s.Run("flags reset even on failure, next round resends nothing new", func() {
		s.dispatcher.reset()
		view, err := mgr.SaveConsents(s.ctx)
		s.Require().NoError(err)
		s.Len(view, 3, "the failed delta is not retried; the full set ships as unchanged")
	})
}

func (s *SyncSuite) TestSuccessHookReceivesDispatchedView() {
	mgr := s.declare()
	var got map[string]models.Consent
	mgr.onSyncSuccess = func(view map[string]models.Consent) { got = view }

	_, err := mgr.SaveConsents(s.ctx)
	s.Require().NoError(err)
	s.Len(got, 3)
}

func (s *SyncSuite) TestLocalStateNotRolledBackOnFailure() {
	mgr := s.declare()
	s.Require().NoError(mgr.UpdateConsent(s.ctx, "cart", map[string]models.ConsentFields{
		"marketing": {Status: "refused"},
	}, "user-1"))

	s.dispatcher.failWith = errors.New("boom")
	_, err := mgr.SaveConsents(s.ctx)
	s.Require().Error(err)

	consents, err := mgr.Consents(s.ctx)
	s.Require().NoError(err)
	s.Equal(models.StatusRefused, consents["marketing"].Status)
}

func (s *SyncSuite) TestSaveContexts() {
	mgr := s.declare()
	_, err := mgr.AddContext(s.ctx, models.ContextFields{ContextID: "checkout", Brand: "acme"})
	s.Require().NoError(err)
	s.dispatcher.reset()

	s.Require().NoError(mgr.SaveContexts(s.ctx))

	records := s.dispatcher.byTable(testConfig.ContextTable)
	s.Require().Len(records, 2, "one record per context")
	for _, d := range records {
		s.NotEmpty(d.record["context_id"])
		s.NotContains(d.record, "consents", "context records carry metadata only")
	}
}

func (s *SyncSuite) TestSaveContextsFailure() {
	mgr := s.declare()
	s.dispatcher.failWith = errors.New("collector down")
	s.Require().Error(mgr.SaveContexts(s.ctx))
}
