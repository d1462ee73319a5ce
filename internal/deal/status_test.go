package deal

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "dealchecker/pkg/domain-errors"
)

func TestAtOrPast_AllPairs(t *testing.T) {
	statuses := Statuses()
	for i, a := range statuses {
		for j, b := range statuses {
			got, err := AtOrPast(a, b)
			require.NoError(t, err)
			assert.Equal(t, i >= j, got, "AtOrPast(%s, %s)", a, b)
		}
	}
}

func TestAtOrPast_Reflexive(t *testing.T) {
	for _, s := range Statuses() {
		got, err := AtOrPast(s, s)
		require.NoError(t, err)
		assert.True(t, got, s.String())
	}
}

func TestAtOrPast_NotLexical(t *testing.T) {
	// "COMPLETED" < "DRAFT" lexically, but it is the last stage.
	got, err := AtOrPast(StatusCompleted, StatusDraft)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = AtOrPast(StatusDraft, StatusCompleted)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestAtOrPast_UnknownStatus(t *testing.T) {
	_, err := AtOrPast(Status("ARCHIVED"), StatusDraft)
	var unknown *UnknownStatusError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "ARCHIVED", unknown.Status)
	assert.Equal(t, dErrors.CodeInternal, dErrors.CodeOf(err))

	_, err = AtOrPast(StatusDraft, Status(""))
	require.ErrorAs(t, err, &unknown)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("REGISTRATION")
	require.NoError(t, err)
	assert.Equal(t, StatusRegistration, s)

	_, err = ParseStatus("registration")
	assert.Error(t, err)
}

func TestGuard(t *testing.T) {
	t.Run("premature deal fails with precondition", func(t *testing.T) {
		err := Guard("D1", StatusDraft, CheckpointFullCheck)

		var pf *PreconditionFailedError
		require.True(t, errors.As(err, &pf))
		assert.Equal(t, "D1", pf.DealID)
		assert.Equal(t, StatusRegistrationConfirmation, pf.RequiredStatus)
		assert.Equal(t, StatusDraft, pf.ActualStatus)
		assert.True(t, dErrors.Is(err, dErrors.CodePreconditionFailed))
		assert.Equal(t, map[string]any{
			"dealId":         "D1",
			"requiredStatus": "REGISTRATION_CONFIRMATION",
			"actualStatus":   "DRAFT",
		}, dErrors.DetailsOf(err))
	})

	t.Run("checkpoint and later pass", func(t *testing.T) {
		assert.NoError(t, Guard("D2", StatusRegistrationConfirmation, CheckpointFullCheck))
		assert.NoError(t, Guard("D2", StatusCompleted, CheckpointFullCheck))
	})

	t.Run("unknown status is not a precondition failure", func(t *testing.T) {
		err := Guard("D3", Status("MYSTERY"), CheckpointFullCheck)
		var pf *PreconditionFailedError
		assert.False(t, errors.As(err, &pf))
		assert.Equal(t, dErrors.CodeInternal, dErrors.CodeOf(err))
	})
}

func TestLabelFor(t *testing.T) {
	assert.Equal(t, LabelSuitable, LabelFor(StatusRegistrationConfirmation))
	assert.Equal(t, LabelInvalid, LabelFor(StatusRegistration))
	assert.Equal(t, LabelInvalid, LabelFor(StatusCompleted))
}

func TestDealMissing(t *testing.T) {
	d := Deal{
		ID:            "D9",
		Type:          Ptr(TypeSale),
		FamilyCapital: Ptr(false),
		DownPayment:   Ptr(decimal.NewFromInt(0)),
	}
	assert.Equal(t, []Attribute{AttrMinorsOnTitle, AttrMortgage, AttrSharedOwnership},
		d.Missing(AttrType, AttrFamilyCapital, AttrDownPayment, AttrMinorsOnTitle, AttrMortgage, AttrSharedOwnership))
	assert.False(t, d.HasDownPayment())

	d.Type = Ptr(Type(""))
	assert.False(t, d.Has(AttrType))
}
