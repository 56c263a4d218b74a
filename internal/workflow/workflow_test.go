package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sellerconsole/internal/leads"
	"sellerconsole/internal/validation"
)

func fixture() (*leads.Store, *leads.OpportunityStore, *leads.IDGenerator, leads.Lead) {
	lead := leads.Lead{ID: "lead-7", Name: "Carla Dias", Company: "Acme", Email: "carla@acme.com", Source: "web", Score: 80, Status: leads.StatusContacted}
	store := leads.NewStore([]leads.Lead{
		{ID: "lead-1", Name: "Ana", Company: "Globex", Email: "ana@globex.com", Status: leads.StatusNew},
		lead,
	})
	return store, leads.NewOpportunityStore(), leads.NewIDGeneratorWithSession("test"), lead
}

func TestConvertRejectsBlankName(t *testing.T) {
	store, opps, ids, lead := fixture()
	before := store.All()

	_, errs := Convert(store, opps, ids, lead, leads.OpportunityDraft{Name: "", AccountName: "Acme", Stage: leads.StageProspecting})

	require.Contains(t, errs, validation.FieldName)
	assert.Equal(t, validation.MissingField, errs[validation.FieldName].Kind)
	assert.Equal(t, before, store.All())
	assert.Zero(t, opps.Len())
}

func TestConvertSuccess(t *testing.T) {
	store, opps, ids, lead := fixture()

	c, errs := Convert(store, opps, ids, lead, leads.OpportunityDraft{Name: "Acme Deal", AccountName: "Acme", Amount: "1000", Stage: leads.StageProspecting})
	require.True(t, errs.OK(), errs.Error())

	assert.Equal(t, leads.StatusQualified, c.UpdatedLead.Status)
	stored, err := store.Get(lead.ID)
	require.NoError(t, err)
	assert.Equal(t, leads.StatusQualified, stored.Status)

	require.Equal(t, 1, opps.Len())
	opp := opps.All()[0]
	assert.Equal(t, c.Opportunity, opp)
	assert.Equal(t, "opp-test-1", opp.ID)
	assert.Equal(t, "Acme Deal", opp.Name)
	assert.Equal(t, lead.ID, opp.CreatedFrom)
	require.NotNil(t, opp.Amount)
	assert.Equal(t, 1000.0, *opp.Amount)
}

func TestConvertDefaults(t *testing.T) {
	_, _, ids, lead := fixture()

	c, errs := Prepare(ids, lead, leads.OpportunityDraft{Name: "Deal", AccountName: "Acme"})
	require.True(t, errs.OK())
	assert.Equal(t, leads.StageProspecting, c.Opportunity.Stage)
	assert.Nil(t, c.Opportunity.Amount)

	draft := leads.DraftFor(lead)
	assert.Equal(t, "Acme - Carla Dias", draft.Name)
	assert.Equal(t, "Acme", draft.AccountName)
	assert.Equal(t, leads.StageProspecting, draft.Stage)
	assert.Empty(t, draft.Amount)
}

func TestPrepareTrimsTextFields(t *testing.T) {
	_, _, ids, lead := fixture()

	c, errs := Prepare(ids, lead, leads.OpportunityDraft{Name: "  Acme Deal ", Stage: " Proposal", AccountName: "Acme Holdings  "})
	require.True(t, errs.OK())
	assert.Equal(t, "Acme Deal", c.Opportunity.Name)
	assert.Equal(t, leads.StageProposal, c.Opportunity.Stage)
	assert.Equal(t, "Acme Holdings", c.Opportunity.AccountName)
}

func TestPrepareDoesNotMutate(t *testing.T) {
	store, opps, ids, lead := fixture()
	before := store.All()

	c, errs := Prepare(ids, lead, leads.DraftFor(lead))
	require.True(t, errs.OK())
	assert.Equal(t, leads.StatusQualified, c.UpdatedLead.Status)
	assert.Equal(t, leads.StatusContacted, lead.Status)
	assert.Equal(t, before, store.All())
	assert.Zero(t, opps.Len())
}

func TestApplyMissingLeadLeavesStoresUntouched(t *testing.T) {
	store, opps, ids, _ := fixture()
	ghost := leads.Lead{ID: "ghost", Company: "Nowhere", Name: "Nobody"}

	c, errs := Prepare(ids, ghost, leads.DraftFor(ghost))
	require.True(t, errs.OK())

	err := Apply(store, opps, c)
	assert.ErrorIs(t, err, ErrLeadNotFound)
	assert.Zero(t, opps.Len())
}

func TestConvertIDsAreUnique(t *testing.T) {
	store, opps, ids, lead := fixture()
	for i := 0; i < 3; i++ {
		_, errs := Convert(store, opps, ids, lead, leads.DraftFor(lead))
		require.True(t, errs.OK())
	}
	all := opps.All()
	require.Len(t, all, 3)
	assert.NotEqual(t, all[0].ID, all[1].ID)
	assert.NotEqual(t, all[1].ID, all[2].ID)
}

func TestSaveEdit(t *testing.T) {
	store, _, _, lead := fixture()

	edited := lead
	edited.Email = "not-an-email"
	_, errs := SaveEdit(store, lead, edited)
	require.Contains(t, errs, validation.FieldEmail)
	assert.Equal(t, validation.InvalidFormat, errs[validation.FieldEmail].Kind)
	stored, _ := store.Get(lead.ID)
	assert.Equal(t, lead, stored)

	edited.Email = "carla@acme.io"
	edited.Status = leads.StatusUnqualified
	saved, errs := SaveEdit(store, lead, edited)
	require.True(t, errs.OK())
	assert.Equal(t, edited, saved)
	stored, _ = store.Get(lead.ID)
	assert.Equal(t, "carla@acme.io", stored.Email)
	assert.Equal(t, leads.StatusUnqualified, stored.Status)
}

func TestSaveEditKeepsOriginalID(t *testing.T) {
	store, _, _, lead := fixture()
	edited := lead
	edited.ID = "lead-1"
	edited.Email = "x@y.zz"

	saved, errs := SaveEdit(store, lead, edited)
	require.True(t, errs.OK())
	assert.Equal(t, lead.ID, saved.ID)

	other, _ := store.Get("lead-1")
	assert.Equal(t, "ana@globex.com", other.Email)
}

func TestSimulatedGateway(t *testing.T) {
	ctx := context.Background()
	gw := Simulated{Delay: time.Millisecond}
	assert.NoError(t, gw.SaveLead(ctx, leads.Lead{}))

	failing := Simulated{Fail: func(action string) bool { return action == "convert" }}
	assert.NoError(t, failing.SaveLead(ctx, leads.Lead{}))
	assert.ErrorIs(t, failing.CreateOpportunity(ctx, Conversion{}), ErrSimulatedFailure)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	slow := Simulated{Delay: time.Hour}
	assert.ErrorIs(t, slow.SaveLead(cancelled, leads.Lead{}), context.Canceled)
}

type staticLoader []leads.Lead

func (s staticLoader) Load(context.Context) ([]leads.Lead, error) {
	return s, nil
}

func TestDelayedLoader(t *testing.T) {
	loader := Delayed{Loader: staticLoader{{ID: "a"}}, Delay: time.Millisecond}
	got, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Delayed{Loader: staticLoader{}, Delay: time.Hour}.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
