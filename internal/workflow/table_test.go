package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/agri-gov-api/internal/rbac"
	appErrors "github.com/noah-isme/agri-gov-api/pkg/errors"
)

type tStatus string

type tAction string

const (
	stPending  tStatus = "PENDING"
	stApproved tStatus = "APPROVED"
	stRejected tStatus = "REJECTED"

	actApprove tAction = "approve"
	actReject  tAction = "reject"
)

func reviewTable() *Table[tStatus, tAction] {
	return NewTable[tStatus, tAction]().
		Add(stPending, actApprove, stApproved, rbac.PermSellerApprove).
		Add(stPending, actReject, stRejected, rbac.PermSellerReject)
}

func TestTableNext(t *testing.T) {
	table := reviewTable()

	next, ok := table.Next(stPending, actApprove)
	require.True(t, ok)
	assert.Equal(t, stApproved, next)

	_, ok = table.Next(stApproved, actApprove)
	assert.False(t, ok)
}

func TestTableAuthorize(t *testing.T) {
	table := reviewTable()

	next, err := table.Authorize(rbac.RoleSellerManager, stPending, actApprove)
	require.NoError(t, err)
	assert.Equal(t, stApproved, next)
}

func TestAuthorizeDeniesBeforeCheckingLegality(t *testing.T) {
	table := reviewTable()

	// Price managers cannot approve sellers at all. Even from a status
	// where the transition would be illegal anyway, the answer must be
	// a permission denial, not a transition error.
	_, err := table.Authorize(rbac.RolePriceManager, stApproved, actApprove)
	assert.ErrorIs(t, err, appErrors.ErrPermissionDenied)

	_, err = table.Authorize(rbac.RolePriceManager, stPending, actApprove)
	assert.ErrorIs(t, err, appErrors.ErrPermissionDenied)
}

func TestAuthorizeRejectsIllegalTransition(t *testing.T) {
	table := reviewTable()

	_, err := table.Authorize(rbac.RoleSellerManager, stApproved, actApprove)
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)
}

func TestAuthorizeUnknownAction(t *testing.T) {
	table := reviewTable()

	_, err := table.Authorize(rbac.RoleSuperAdmin, stPending, tAction("archive"))
	assert.ErrorIs(t, err, appErrors.ErrPermissionDenied)
}

func TestTerminal(t *testing.T) {
	table := reviewTable()

	assert.False(t, table.Terminal(stPending))
	assert.True(t, table.Terminal(stApproved))
	assert.True(t, table.Terminal(stRejected))

	assert.ElementsMatch(t, []tAction{actApprove, actReject}, table.Actions(stPending))
	assert.Empty(t, table.Actions(stRejected))
}
